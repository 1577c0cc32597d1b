package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/crowdscore/crowdscore/internal/domain/model"
	"github.com/crowdscore/crowdscore/internal/domain/page"
	"github.com/google/uuid"
)

// Memory is an in-process Store. It backs local runs and tests; durability
// is explicitly not its job.
type Memory struct {
	mu      sync.RWMutex
	ratings []model.Rating
	byID    map[string]int
	byEmail map[string]model.User

	clock func() time.Time
}

// MemoryOption applies a configuration option to a Memory store.
type MemoryOption func(*Memory)

// WithClock overrides the creation-time source. Tests use it to force
// timestamp collisions.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewMemory constructs an empty in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		byID:    make(map[string]int),
		byEmail: make(map[string]model.User),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Append implements RatingStore.
func (m *Memory) Append(_ context.Context, eventID string, score float64, uid string) (model.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := model.Rating{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Score:     score,
		UID:       uid,
		CreatedAt: m.clock().UTC(),
	}
	m.byID[r.ID] = len(m.ratings)
	m.ratings = append(m.ratings, r)
	return r, nil
}

// Get implements RatingStore.
func (m *Memory) Get(_ context.Context, id string) (model.Rating, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.byID[id]
	if !ok {
		return model.Rating{}, false, nil
	}
	return m.ratings[idx], true, nil
}

// Select implements RatingStore.
func (m *Memory) Select(_ context.Context, q page.Query) ([]model.Rating, error) {
	m.mu.RLock()
	sorted := make([]model.Rating, len(m.ratings))
	copy(sorted, m.ratings)
	m.mu.RUnlock()

	sort.Slice(sorted, func(i, j int) bool { return page.Less(sorted[i], sorted[j]) })

	out := make([]model.Rating, 0, q.Limit)
	for _, r := range sorted {
		if q.EventID != "" && r.EventID != q.EventID {
			continue
		}
		if q.After != nil && !page.Less(*q.After, r) {
			continue
		}
		out = append(out, r)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// Create implements UserDirectory.
func (m *Memory) Create(_ context.Context, email, passwordHash string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := m.byEmail[key]; exists {
		return model.User{}, ErrDuplicateEmail
	}
	u := model.User{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    m.clock().UTC(),
	}
	m.byEmail[key] = u
	return u, nil
}

// FindByEmail implements UserDirectory.
func (m *Memory) FindByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

var _ Store = (*Memory)(nil)
