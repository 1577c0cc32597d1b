// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/crowdscore/crowdscore/internal/domain/model"
)

// AuthDependencies defines the interface for account operations.
type AuthDependencies interface {
	Register(ctx context.Context, email, password string) (model.Identity, error)
	Login(ctx context.Context, email string) (string, error)
}

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	deps AuthDependencies
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(deps AuthDependencies) *AuthHandler {
	return &AuthHandler{deps: deps}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// HandleRegister handles POST /api/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "api.register"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	identity, err := h.deps.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		// Any failure in the registration flow is a client-visible 400,
		// mirroring the upstream catch-all.
		writeError(w, http.StatusBadRequest, codeBadRequest, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

// HandleLogin handles POST /api/login requests. The flow performs no
// password check of its own; email lookup plus token issuance is the whole
// contract, with credential verification delegated to the identity
// provider's separate exchange.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	signed, err := h.deps.Login(r.Context(), req.Email)
	if err != nil {
		// Unknown email surfaces as 400 here, not 404.
		writeError(w, http.StatusBadRequest, codeBadRequest, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: signed})
}
