package auth

// This file holds the utilities for carrying the caller's identity through
// the request's context.Context. The identity middleware stores it once per
// request; handlers read it back with IdentityFromContext.

import (
	"context"
)

// contextKey is a custom type for context keys. Using an unexported type
// prevents collisions with keys defined in other packages.
type contextKey string

const (
	// identityContextKey is the key the verified Identity is stored under.
	identityContextKey contextKey = "auth_identity"
)

// NewContextWithIdentity returns a child context carrying the caller's
// verified identity.
func NewContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext extracts the caller's identity from the context.
// A nil result means the request was anonymous: no token was presented.
// It never means an invalid token; those are rejected by the middleware
// before any handler runs.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return identity
}
