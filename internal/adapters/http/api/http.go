// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	app "github.com/crowdscore/crowdscore/internal/app"
	"github.com/crowdscore/crowdscore/internal/domain/model"
	"github.com/crowdscore/crowdscore/internal/domain/page"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Register(ctx context.Context, email, password string) (model.Identity, error)
	Login(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, tokenString string) (model.Identity, error)
	SubmitRating(ctx context.Context, identity model.Identity, eventID string, score float64) (model.Rating, error)
	ListRatings(ctx context.Context, req page.Request) (page.Result, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	messageHandler *MessageHandler
	authHandler    *AuthHandler
	profileHandler *ProfileHandler
	ratingsHandler *RatingsHandler
	guard          *Guard
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	guard := NewGuard(deps)
	return &Server{
		messageHandler: NewMessageHandler(),
		authHandler:    NewAuthHandler(deps),
		profileHandler: NewProfileHandler(),
		ratingsHandler: NewRatingsHandler(deps, guard),
		guard:          guard,
	}
}

// Register attaches all HTTP routes to mux. Guarded routes short-circuit
// with 401 before the handler runs.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/api/message", MetricsMiddleware(s.messageHandler.HandleMessage, "message"))
	mux.HandleFunc("/api/register", MetricsMiddleware(s.authHandler.HandleRegister, "register"))
	mux.HandleFunc("/api/login", MetricsMiddleware(s.authHandler.HandleLogin, "login"))
	mux.HandleFunc("/api/profile", MetricsMiddleware(s.guard.Require(s.profileHandler.HandleProfile), "profile"))
	mux.HandleFunc("/api/protected", MetricsMiddleware(s.guard.Require(s.profileHandler.HandleProtected), "protected"))
	mux.HandleFunc("/api/ratings", MetricsMiddleware(s.ratingsHandler.HandleRatings, "ratings"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isClientInput distinguishes validation faults from store faults so the
// submit handler can split 400 from 500.
func isClientInput(err error) bool {
	return errors.Is(err, app.ErrInvalidInput)
}
