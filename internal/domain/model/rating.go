// Package model contains domain models passed between layers.
package model

import "time"

// Rating is one user's score for one event. Records are immutable once
// written; ID and CreatedAt are assigned by the store and UID comes from the
// verified identity, never from client input.
type Rating struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Score     float64   `json:"score"`
	UID       string    `json:"uid"`
	CreatedAt time.Time `json:"timestamp"`
}

// Identity is a verified principal, materialized transiently from a token or
// a directory lookup.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// User is a directory row. PasswordHash is kept for a future credential
// exchange; the login flow itself never checks it.
type User struct {
	UID          string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity returns the transient identity view of a user.
func (u User) Identity() Identity {
	return Identity{UID: u.UID, Email: u.Email}
}
