// Package page implements cursor pagination over the rating store.
//
// Listing order is created-at descending with id descending as the
// deterministic tiebreak. The page token is the id of the last record of the
// previous page; resolving it yields the anchor position the next page must
// start strictly after. A token that no longer resolves is skipped rather
// than rejected, so a stale cursor restarts from the first page instead of
// failing the request.
package page

import (
	"context"

	"github.com/crowdscore/crowdscore/internal/domain/model"
	"github.com/crowdscore/crowdscore/pkg/metrics"
)

// Default page bounds; overridable per engine.
const (
	DefaultSize = 10
	MaxSize     = 100
)

// Query is the bounded, ordered selection the engine issues against a store.
type Query struct {
	// EventID restricts results to exact matches when non-empty.
	EventID string

	// After, when non-nil, restricts results to records strictly after the
	// anchor in (created_at DESC, id DESC) order.
	After *model.Rating

	// Limit bounds the number of returned records. Always >= 1.
	Limit int
}

// Store is the read capability the engine needs. The full rating store
// satisfies it.
type Store interface {
	// Get resolves a rating by id. The second return reports whether the
	// record exists; absence is not an error.
	Get(ctx context.Context, id string) (model.Rating, bool, error)

	// Select executes a query in (created_at DESC, id DESC) order.
	Select(ctx context.Context, q Query) ([]model.Rating, error)
}

// Request is a listing request as received from the API surface.
type Request struct {
	EventID   string
	PageSize  int
	PageToken string
}

// Result is one page plus the resumption token for the next one.
type Result struct {
	Ratings       []model.Rating
	NextPageToken string
}

// Engine computes listing pages.
type Engine struct {
	defaultSize int
	maxSize     int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDefaultSize sets the page size used when a request carries none.
func WithDefaultSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultSize = n
		}
	}
}

// WithMaxSize caps requested page sizes. Oversized requests are clamped,
// not rejected.
func WithMaxSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSize = n
		}
	}
}

// New constructs an Engine with default bounds.
func New(opts ...Option) *Engine {
	e := &Engine{
		defaultSize: DefaultSize,
		maxSize:     MaxSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxSize < e.defaultSize {
		e.maxSize = e.defaultSize
	}
	return e
}

// List executes a listing request against store.
//
// NextPageToken is set iff the page came back full. This is a heuristic
// "there may be more" signal: a result set whose size is an exact multiple
// of the page size produces one trailing token that resolves to an empty
// page. Callers page until the token is empty.
func (e *Engine) List(ctx context.Context, store Store, req Request) (Result, error) {
	size := e.clamp(req.PageSize)

	q := Query{EventID: req.EventID, Limit: size}
	if req.PageToken != "" {
		anchor, ok, err := store.Get(ctx, req.PageToken)
		if err != nil {
			return Result{}, err
		}
		if ok {
			q.After = &anchor
		} else {
			// Stale or fabricated cursor: resume from the start.
			metrics.RecordStaleCursor()
		}
	}

	ratings, err := store.Select(ctx, q)
	if err != nil {
		return Result{}, err
	}

	res := Result{Ratings: ratings}
	if len(ratings) == size {
		res.NextPageToken = ratings[len(ratings)-1].ID
	}
	return res, nil
}

// clamp normalizes a requested page size into [1, maxSize], substituting the
// default for absent or nonsensical values.
func (e *Engine) clamp(n int) int {
	switch {
	case n < 1:
		return e.defaultSize
	case n > e.maxSize:
		return e.maxSize
	default:
		return n
	}
}

// Less reports whether a ranks before b in listing order
// (created_at DESC, id DESC). Store implementations share it so the memory
// and Postgres orderings agree.
func Less(a, b model.Rating) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
