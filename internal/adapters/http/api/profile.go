// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/crowdscore/crowdscore/internal/domain/model"
)

// ProfileHandler serves the guarded identity endpoints. Both handlers run
// behind the Guard, so the identity is always on the context.
type ProfileHandler struct{}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

type protectedResponse struct {
	Message string         `json:"message"`
	User    model.Identity `json:"user"`
}

// HandleProfile handles GET /api/profile requests.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.profile"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, codeInternal, NewKind(op, ErrInternal))
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

// HandleProtected handles GET /api/protected requests.
func (h *ProfileHandler) HandleProtected(w http.ResponseWriter, r *http.Request) {
	const op = "api.protected"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, codeInternal, NewKind(op, ErrInternal))
		return
	}
	writeJSON(w, http.StatusOK, protectedResponse{
		Message: "This route is protected",
		User:    identity,
	})
}
