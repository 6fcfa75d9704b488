// Package auth is responsible for authentication and authorization:
// credential hashing, identity token issuance and verification, the
// per-operation authorization guard, and the sign-up/sign-in flows.
// This file defines the entities the rest of the application shares.
package auth

import "time"

// User represents a user in the system. It defines the structure of user
// data as stored in the database and as used within the business logic.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	// Email is always stored normalized: trimmed and lower-cased.
	Email string `json:"email"`
	// Avatar is derived from the normalized email exactly once at sign-up
	// and stored; it is never recomputed afterwards.
	Avatar string `json:"avatar"`
	// The `json:"-"` tag keeps the hash out of every API response.
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Identity is the short-lived, non-persisted claim carried inside a signed
// token. It is reconstructed per request from the bearer token; a nil
// *Identity means an anonymous caller.
type Identity struct {
	UserID int64
}
