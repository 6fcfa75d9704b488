package auth

// This file contains the sign-up/sign-in business logic. The service owns
// the signing secret and token lifetime; nothing outside the auth package
// touches either.

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/notefeed-go/apperror"
	"github.com/user/notefeed-go/config"
)

// signInFailedMessage is shared by the unknown-user and wrong-password
// paths. The two must stay byte-identical so responses do not reveal
// which half of the credentials was wrong.
const signInFailedMessage = "Error signing in"

// AuthService provides sign-up and sign-in, issuing identity tokens on
// success.
type AuthService struct {
	store         UserStore
	log           *logrus.Logger
	secret        []byte
	tokenLifetime time.Duration
}

// NewAuthService creates a new AuthService. Dependencies are injected
// explicitly, constructor-style.
func NewAuthService(store UserStore, log *logrus.Logger, cfg *config.AuthConfig) *AuthService {
	return &AuthService{
		store:         store,
		log:           log,
		secret:        []byte(cfg.JWTSecret),
		tokenLifetime: cfg.TokenDuration,
	}
}

// HashPassword produces a salted, one-way bcrypt hash of a plaintext
// password. The salt is random per call, so hashing the same plaintext twice
// yields different hashes.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
// It returns false on any mismatch and never panics for wrong passwords;
// bcrypt handles the comparison in constant time.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// SignUp normalizes the email, hashes the password, derives the stored
// avatar, persists the new user, and returns a signed token: a successful
// sign-up is an implicit sign-in.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (string, error) {
	email := NormalizeEmail(req.Email)

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return "", apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Username:       req.Username,
		Email:          email,
		Avatar:         DeriveAvatar(email),
		HashedPassword: hashed,
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			// A generic message on purpose: sign-up should not confirm which
			// usernames or emails are taken.
			return "", apperror.NewCreationFailedError("Error creating account", nil)
		}
		return "", apperror.NewDatabaseError("failed to create user", err)
	}

	s.log.WithField("user_id", created.ID).Info("user signed up")
	token, err := IssueToken(created.ID, s.secret, s.tokenLifetime)
	if err != nil {
		return "", apperror.NewInternalError("failed to issue token", err)
	}
	return token, nil
}

// SignIn looks a user up by username or email, verifies the password, and
// returns a signed token. Unknown user and wrong password produce the exact
// same failure.
func (s *AuthService) SignIn(ctx context.Context, req SignInRequest) (string, error) {
	login := req.Login
	if strings.Contains(login, "@") {
		// The identifier looks like an email; compare it the way it is
		// stored.
		login = NormalizeEmail(login)
	}

	user, err := s.store.ByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", apperror.NewAuthenticationFailedError(signInFailedMessage, nil)
		}
		s.log.WithError(err).Error("sign-in lookup failed")
		return "", apperror.NewDatabaseError("failed to look up user", err)
	}

	if !VerifyPassword(req.Password, user.HashedPassword) {
		return "", apperror.NewAuthenticationFailedError(signInFailedMessage, nil)
	}

	s.log.WithField("user_id", user.ID).Info("user signed in")
	token, err := IssueToken(user.ID, s.secret, s.tokenLifetime)
	if err != nil {
		return "", apperror.NewInternalError("failed to issue token", err)
	}
	return token, nil
}
