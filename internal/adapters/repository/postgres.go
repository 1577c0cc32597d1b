package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/crowdscore/crowdscore/internal/domain/model"
	"github.com/crowdscore/crowdscore/internal/domain/page"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Postgres unique_violation error code.
const pgUniqueViolation = "23505"

// Postgres is a pgx-backed Store. Creation timestamps come from the database
// clock so ordering does not depend on application hosts agreeing on time.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect opens a pgx pool against dsn and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	p := &Postgres{pool: pool}
	if err := p.Ready(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// Close releases the underlying pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Ready pings the database.
func (p *Postgres) Ready(ctx context.Context) error {
	var one int
	if err := p.pool.QueryRow(ctx, "select 1").Scan(&one); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Bootstrap applies the embedded schema. Statements are idempotent so this
// runs on every startup.
func (p *Postgres) Bootstrap(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}
	return nil
}

// Append implements RatingStore.
func (p *Postgres) Append(ctx context.Context, eventID string, score float64, uid string) (model.Rating, error) {
	r := model.Rating{
		ID:      uuid.NewString(),
		EventID: eventID,
		Score:   score,
		UID:     uid,
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO ratings (id, event_id, score, uid) VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		r.ID, r.EventID, r.Score, r.UID,
	).Scan(&r.CreatedAt)
	if err != nil {
		return model.Rating{}, fmt.Errorf("append rating: %w", err)
	}
	return r, nil
}

// Get implements RatingStore.
func (p *Postgres) Get(ctx context.Context, id string) (model.Rating, bool, error) {
	var r model.Rating
	err := p.pool.QueryRow(ctx,
		`SELECT id, event_id, score, uid, created_at FROM ratings WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.EventID, &r.Score, &r.UID, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Rating{}, false, nil
	}
	if err != nil {
		return model.Rating{}, false, fmt.Errorf("get rating: %w", err)
	}
	return r, true, nil
}

// Select implements RatingStore.
func (p *Postgres) Select(ctx context.Context, q page.Query) ([]model.Rating, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT id, event_id, score, uid, created_at FROM ratings`)

	var conds []string
	if q.EventID != "" {
		args = append(args, q.EventID)
		conds = append(conds, fmt.Sprintf("event_id = $%d", len(args)))
	}
	if q.After != nil {
		// Strictly after the anchor in (created_at DESC, id DESC) order.
		args = append(args, q.After.CreatedAt, q.After.ID)
		conds = append(conds, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")
	args = append(args, q.Limit)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))

	rows, err := p.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("select ratings: %w", err)
	}
	defer rows.Close()

	out := make([]model.Rating, 0, q.Limit)
	for rows.Next() {
		var r model.Rating
		if err := rows.Scan(&r.ID, &r.EventID, &r.Score, &r.UID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return out, nil
}

// Create implements UserDirectory.
func (p *Postgres) Create(ctx context.Context, email, passwordHash string) (model.User, error) {
	u := model.User{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO users (uid, email, password_hash) VALUES ($1, $2, $3)
		 RETURNING created_at`,
		u.UID, u.Email, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.User{}, ErrDuplicateEmail
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// FindByEmail implements UserDirectory.
func (p *Postgres) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := p.pool.QueryRow(ctx,
		`SELECT uid, email, password_hash, created_at FROM users WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.UID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

var _ Store = (*Postgres)(nil)
