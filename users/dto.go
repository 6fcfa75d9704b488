// Package users covers the read side of user data: the caller's own
// profile, lookup by username, and the full user listing.
// This file defines the response payloads.
package users

import "time"

// UserResponse represents the public shape of a user.
// @Description User profile information
type UserResponse struct {
	// The ID of the user
	// example: 1
	ID int64 `json:"id"`
	// The username of the user
	// example: "johndoe"
	Username string `json:"username"`
	// The email address of the user
	// example: "johndoe@example.com"
	Email string `json:"email"`
	// Deterministic avatar URL derived at sign-up
	// example: "https://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346"
	Avatar string `json:"avatar"`
	// The time the user was created
	// example: "2023-01-15T10:30:00Z"
	CreatedAt time.Time `json:"created_at"`
}
