// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// MessageHandler serves the unauthenticated hello endpoint.
type MessageHandler struct{}

// NewMessageHandler creates a new message handler.
func NewMessageHandler() *MessageHandler {
	return &MessageHandler{}
}

// HandleMessage handles GET /api/message requests.
func (h *MessageHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Hello from the crowdscore API",
	})
}
