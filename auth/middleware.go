package auth

// This file defines the identity middleware. Unlike a conventional
// require-auth middleware, it treats the bearer token as optional: reads are
// public in this API, so a missing Authorization header simply means an
// anonymous caller. A header that is present but does not verify fails the
// request with InvalidSession no matter which operation was targeted.

import (
	"net/http"
	"strings"

	"github.com/user/notefeed-go/apperror"
	"github.com/user/notefeed-go/config"
)

// IdentityMiddleware extracts and verifies an optional bearer token and, on
// success, stores the caller's Identity in the request context. It conforms
// to the standard `func(next http.Handler) http.Handler` middleware shape
// chi expects.
func IdentityMiddleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	secret := []byte(cfg.JWTSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				// Anonymous caller. Operations that need identity fail later
				// in the guard, not here.
				next.ServeHTTP(w, r)
				return
			}

			// The Authorization header must be "Bearer {token}".
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteError(w, r, apperror.NewInvalidSessionError("Session invalid", nil))
				return
			}

			identity, err := VerifyToken(parts[1], secret)
			if err != nil {
				WriteError(w, r, err)
				return
			}

			ctx := NewContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
