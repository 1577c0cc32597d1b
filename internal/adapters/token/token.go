// Package token issues and verifies the bearer tokens handed to clients.
//
// Tokens are HS256 JWTs carrying the account uid as subject plus an email
// claim. Verification checks signature and expiry only; there is no
// revocation list, matching the short TTL.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/crowdscore/crowdscore/internal/domain/model"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "crowdscore"

// DefaultTTL bounds token lifetime when no option overrides it.
const DefaultTTL = time.Hour

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Provider signs and verifies tokens with a shared secret.
type Provider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option applies a configuration option to the Provider.
type Option func(*Provider)

// WithTTL sets the lifetime of issued tokens.
func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Tests use it to force expiry.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// New constructs a Provider. The secret must be non-empty.
func New(secret string, opts ...Option) (*Provider, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	p := &Provider{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Issue creates a signed token for identity.
func (p *Provider) Issue(identity model.Identity) (string, error) {
	now := p.now()
	c := claims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks tokenString and returns the identity it was issued for.
// Any failure collapses into ErrInvalidToken; callers must not branch on
// the underlying cause.
func (p *Provider) Verify(tokenString string) (model.Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now), jwt.WithIssuer(issuer))
	if err != nil {
		return model.Identity{}, errors.Join(ErrInvalidToken, err)
	}
	if !parsed.Valid || c.Subject == "" {
		return model.Identity{}, ErrInvalidToken
	}
	return model.Identity{UID: c.Subject, Email: c.Email}, nil
}
