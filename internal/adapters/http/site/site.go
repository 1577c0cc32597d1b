// Package site serves the embedded single-page app entry document.
//
// The client does its own routing, so every unmatched non-API GET serves the
// index document instead of a 404; real assets under static/ are served
// directly.
package site

import (
	"context"
	"io/fs"
	"net/http"
	"strings"
)

// Register attaches the SPA fallback at the mux root. API routes are
// registered on longer patterns and take precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", NewHandler())
}

// Handler serves embedded assets with an index fallback.
type Handler struct {
	assets fs.FS
	files  http.Handler
}

// NewHandler creates the SPA handler over the embedded assets.
func NewHandler() *Handler {
	assets := FS()
	return &Handler{
		assets: assets,
		files:  http.FileServer(http.FS(assets)),
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Unregistered API paths stay API-shaped errors, not HTML.
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	if name != "" {
		if f, err := h.assets.Open(name); err == nil {
			_ = f.Close()
			h.files.ServeHTTP(w, r)
			return
		}
	}

	// Client-side route: hand out the entry document.
	index, err := fs.ReadFile(h.assets, "index.html")
	if err != nil {
		http.Error(w, "entry document missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(index)
}
