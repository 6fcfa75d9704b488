package auth

import "github.com/user/notefeed-go/apperror"

// The authorization guard: pure decision functions with no side effects.
// Handlers call these before touching persistence; the returned errors are
// already typed for the transport layer.

// RequireAuthenticated fails with an Unauthenticated error when the caller
// is absent. Read operations never call this; every mutation and `me` do.
func RequireAuthenticated(caller *Identity) error {
	if caller == nil {
		return apperror.NewUnauthenticatedError("You must be signed in", nil)
	}
	return nil
}

// RequireOwnership fails with Unauthenticated when the caller is absent and
// with Forbidden when the caller is not the owner of the resource.
func RequireOwnership(caller *Identity, ownerID int64) error {
	if caller == nil {
		return apperror.NewUnauthenticatedError("You must be signed in", nil)
	}
	if caller.UserID != ownerID {
		return apperror.NewForbiddenError("You don't have permissions to modify this resource", nil)
	}
	return nil
}
