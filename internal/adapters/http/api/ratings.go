// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/crowdscore/crowdscore/internal/domain/model"
	"github.com/crowdscore/crowdscore/internal/domain/page"
)

// RatingsDependencies defines the interface for rating operations.
type RatingsDependencies interface {
	SubmitRating(ctx context.Context, identity model.Identity, eventID string, score float64) (model.Rating, error)
	ListRatings(ctx context.Context, req page.Request) (page.Result, error)
}

// RatingsHandler handles the rating listing and submission routes.
type RatingsHandler struct {
	deps  RatingsDependencies
	guard *Guard
}

// NewRatingsHandler creates a new ratings handler. Submission runs behind
// guard; listing is public.
func NewRatingsHandler(deps RatingsDependencies, guard *Guard) *RatingsHandler {
	return &RatingsHandler{deps: deps, guard: guard}
}

// ratingRequest mirrors the POST /api/ratings body. Score is a pointer so a
// missing field is distinguishable from zero; a non-numeric score fails the
// decode outright.
type ratingRequest struct {
	EventID string   `json:"eventId"`
	Score   *float64 `json:"score"`
}

type submitResponse struct {
	ID string `json:"id"`
}

// listResponse serializes NextPageToken as null when there is no further
// page, matching the listing contract.
type listResponse struct {
	Ratings       []model.Rating `json:"ratings"`
	NextPageToken *string        `json:"nextPageToken"`
}

// HandleRatings dispatches GET (list) and POST (submit) on /api/ratings.
func (h *RatingsHandler) HandleRatings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.guard.Require(h.handleSubmit).ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RatingsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_ratings"
	q := r.URL.Query()

	// A non-numeric pageSize falls back to the default rather than failing,
	// consistent with the tolerant cursor policy.
	pageSize := 0
	if raw := q.Get("pageSize"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			pageSize = n
		}
	}

	res, err := h.deps.ListRatings(r.Context(), page.Request{
		EventID:   q.Get("eventId"),
		PageSize:  pageSize,
		PageToken: q.Get("pageToken"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, Wrap(op, err))
		return
	}

	out := listResponse{Ratings: res.Ratings}
	if out.Ratings == nil {
		out.Ratings = []model.Rating{}
	}
	if res.NextPageToken != "" {
		out.NextPageToken = &res.NextPageToken
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RatingsHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_rating"
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, codeInternal, NewKind(op, ErrInternal))
		return
	}

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Score == nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, NewKind(op, ErrBadRequest))
		return
	}

	rating, err := h.deps.SubmitRating(r.Context(), identity, req.EventID, *req.Score)
	if err != nil {
		if isClientInput(err) {
			writeError(w, http.StatusBadRequest, codeBadRequest, Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternal, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{ID: rating.ID})
}
