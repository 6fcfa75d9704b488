package users

// This file contains the business logic; it reuses the auth package's User
// model and store the way the rest of the application does.

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/notefeed-go/apperror"
	"github.com/user/notefeed-go/auth"
)

// UserService provides methods for reading user profiles.
type UserService struct {
	store auth.UserStore
}

// NewUserService creates a new UserService.
func NewUserService(store auth.UserStore) *UserService {
	return &UserService{store: store}
}

// Me returns the profile of the authenticated caller. The guard runs first,
// so an anonymous caller fails with Unauthenticated before any lookup.
func (s *UserService) Me(ctx context.Context, caller *auth.Identity) (*UserResponse, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}

	user, err := s.store.ByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// Token verification does not re-check existence, so a token for
			// a user that no longer exists surfaces here.
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	return toResponse(user), nil
}

// ByUsername returns a single user's profile.
func (s *UserService) ByUsername(ctx context.Context, username string) (*UserResponse, error) {
	user, err := s.store.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with username '%s' not found", username), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by username", err)
	}
	return toResponse(user), nil
}

// All returns every user.
func (s *UserService) All(ctx context.Context) ([]UserResponse, error) {
	users, err := s.store.All(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list users", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toResponse(&users[i]))
	}
	return responses, nil
}

func toResponse(user *auth.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}
