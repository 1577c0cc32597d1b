// Package app provides the core service that implements the dependencies
// required by the HTTP API: account registration, token issuance and
// verification, and rating submission/listing.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/crowdscore/crowdscore/internal/adapters/repository"
	"github.com/crowdscore/crowdscore/internal/domain/model"
	"github.com/crowdscore/crowdscore/internal/domain/page"
	"github.com/crowdscore/crowdscore/pkg/logger"
	"github.com/crowdscore/crowdscore/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

// TokenProvider issues and verifies bearer tokens.
type TokenProvider interface {
	Issue(identity model.Identity) (string, error)
	Verify(tokenString string) (model.Identity, error)
}

// Service wires the directory, token provider and rating store together.
type Service struct {
	mu sync.Mutex

	ratings repository.RatingStore
	users   repository.UserDirectory
	tokens  TokenProvider
	engine  *page.Engine

	databaseURL     string
	defaultPageSize int
	maxPageSize     int

	pg      *repository.Postgres
	started bool

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets a backend providing both the rating store and the user
// directory.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.ratings = store
			s.users = store
		}
	}
}

// WithRatingStore sets the rating store alone.
func WithRatingStore(store repository.RatingStore) Option {
	return func(s *Service) {
		if store != nil {
			s.ratings = store
		}
	}
}

// WithDirectory sets the user directory alone.
func WithDirectory(dir repository.UserDirectory) Option {
	return func(s *Service) {
		if dir != nil {
			s.users = dir
		}
	}
}

// WithTokenProvider sets the token issuer/verifier.
func WithTokenProvider(tp TokenProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tokens = tp
		}
	}
}

// WithDatabaseURL selects the Postgres backend. Ignored when a store is
// injected directly.
func WithDatabaseURL(dsn string) Option {
	return func(s *Service) {
		s.databaseURL = dsn
	}
}

// WithDefaultPageSize sets the page size used when requests carry none.
func WithDefaultPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultPageSize = n
		}
	}
}

// WithMaxPageSize caps requested page sizes.
func WithMaxPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPageSize = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultPageSize: page.DefaultSize,
		maxPageSize:     page.MaxSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = page.New(
		page.WithDefaultSize(s.defaultPageSize),
		page.WithMaxSize(s.maxPageSize),
	)
	return s
}

// Start prepares collaborators. When no store was injected it opens Postgres
// if a DSN is configured, and falls back to the in-memory store otherwise.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	if s.tokens == nil {
		return ErrNoTokenProvider
	}

	if s.ratings == nil || s.users == nil {
		if s.databaseURL != "" {
			pg, err := repository.Connect(ctx, s.databaseURL)
			if err != nil {
				return fmt.Errorf("connect store: %w", err)
			}
			if err := pg.Bootstrap(ctx); err != nil {
				pg.Close()
				return fmt.Errorf("prepare store: %w", err)
			}
			s.pg = pg
			s.ratings = pg
			s.users = pg
			if s.log != nil {
				s.log.Info(ctx, "using postgres store")
			}
		} else {
			mem := repository.NewMemory()
			s.ratings = mem
			s.users = mem
			if s.log != nil {
				s.log.Warn(ctx, "no database_url configured; using in-memory store")
			}
		}
	}

	s.started = true
	return nil
}

// Stop releases collaborators owned by the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pg != nil {
		s.pg.Close()
		s.pg = nil
	}
	s.started = false
}

// Register creates an account and returns its identity. The password is
// stored as a bcrypt hash for a future credential exchange; it plays no part
// in Login.
func (s *Service) Register(ctx context.Context, email, password string) (model.Identity, error) {
	email = strings.TrimSpace(email)
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return model.Identity{}, fmt.Errorf("%w: valid email required", ErrInvalidInput)
	case password == "":
		return model.Identity{}, fmt.Errorf("%w: password required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return model.Identity{}, err
	}
	metrics.RecordUserRegistered()
	if s.log != nil {
		s.log.Info(ctx, "account created", logger.String("uid", u.UID))
	}
	return u.Identity(), nil
}

// Login looks the email up and issues a custom token for the account.
//
// There is deliberately no password check here: credential verification is
// the identity provider's client-side exchange, and this endpoint only
// mirrors that trust boundary. See DESIGN.md before "fixing" this.
func (s *Service) Login(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email required", ErrInvalidInput)
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	signed, err := s.tokens.Issue(u.Identity())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	metrics.RecordTokenIssued()
	return signed, nil
}

// Verify resolves a bearer token to the identity it was issued for.
func (s *Service) Verify(_ context.Context, tokenString string) (model.Identity, error) {
	return s.tokens.Verify(tokenString)
}

// SubmitRating validates and appends one rating. The uid is taken from the
// verified identity and the timestamp from the store clock; client input
// cannot override either.
func (s *Service) SubmitRating(ctx context.Context, identity model.Identity, eventID string, score float64) (model.Rating, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return model.Rating{}, fmt.Errorf("%w: eventId required", ErrInvalidInput)
	}
	if identity.UID == "" {
		return model.Rating{}, fmt.Errorf("%w: missing identity", ErrInvalidInput)
	}

	r, err := s.ratings.Append(ctx, eventID, score, identity.UID)
	if err != nil {
		metrics.RecordRatingWriteError()
		metrics.RecordStoreError("append")
		return model.Rating{}, err
	}
	metrics.RecordRatingWritten()
	return r, nil
}

// ListRatings serves one listing page through the pagination engine.
func (s *Service) ListRatings(ctx context.Context, req page.Request) (page.Result, error) {
	res, err := s.engine.List(ctx, s.ratings, req)
	if err != nil {
		metrics.RecordStoreError("select")
		return page.Result{}, err
	}
	metrics.RecordPageServed(len(res.Ratings))
	return res, nil
}
