// Package repository defines the rating store and user directory contracts.
package repository

import (
	"context"

	"github.com/crowdscore/crowdscore/internal/domain/model"
	"github.com/crowdscore/crowdscore/internal/domain/page"
)

// RatingStore provides append-only access to rating records. Ratings are
// never updated or deleted.
type RatingStore interface {
	// Append stores a new rating, assigning its id and creation time.
	// The uid is the verified submitter; neither it nor the timestamp can
	// be overridden by callers.
	Append(ctx context.Context, eventID string, score float64, uid string) (model.Rating, error)

	// Get resolves a rating by id; the bool reports existence.
	Get(ctx context.Context, id string) (model.Rating, bool, error)

	// Select executes a bounded query in (created_at DESC, id DESC) order.
	Select(ctx context.Context, q page.Query) ([]model.Rating, error)
}

// UserDirectory provides create and lookup operations over accounts.
type UserDirectory interface {
	// Create adds an account. Returns ErrDuplicateEmail when the email is
	// already registered.
	Create(ctx context.Context, email, passwordHash string) (model.User, error)

	// FindByEmail looks an account up. Returns ErrNotFound when absent.
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

// Store bundles both capabilities for backends that provide them together.
type Store interface {
	RatingStore
	UserDirectory
}
