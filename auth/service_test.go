package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/notefeed-go/apperror"
	"github.com/user/notefeed-go/config"
)

// --- helpers ---

// fakeUserStore is an in-memory UserStore for service tests.
type fakeUserStore struct {
	users  []*User
	nextID int64

	createErr error
}

func (f *fakeUserStore) Create(ctx context.Context, user *User) (*User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, ErrDuplicateUser
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUserStore) ByID(ctx context.Context, id int64) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserStore) ByUsername(ctx context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserStore) ByLogin(ctx context.Context, login string) (*User, error) {
	for _, u := range f.users {
		if u.Username == login || u.Email == login {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserStore) All(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestAuthService(store UserStore) *AuthService {
	return NewAuthService(store, testLogger(), &config.AuthConfig{
		JWTSecret:     string(testSecret),
		TokenDuration: time.Hour,
	})
}

// --- password hashing ---

func TestHashPasswordSaltedPerCall(t *testing.T) {
	first, err := HashPassword("hunter2")
	require.NoError(t, err)
	second, err := HashPassword("hunter2")
	require.NoError(t, err)

	// Random salt per call: same plaintext, different hashes, both verify.
	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword("hunter2", first))
	assert.True(t, VerifyPassword("hunter2", second))
	assert.False(t, VerifyPassword("hunter3", first))
}

// --- sign-up ---

func TestSignUpNormalizesEmailAndDerivesAvatar(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestAuthService(store)

	token, err := svc.SignUp(context.Background(), SignUpRequest{
		Username: "alice",
		Email:    " Alice@Example.COM ",
		Password: "password123",
	})
	require.NoError(t, err)

	identity, err := VerifyToken(token, testSecret)
	require.NoError(t, err)

	user, err := store.ByID(context.Background(), identity.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, DeriveAvatar("alice@example.com"), user.Avatar)
	assert.NotEqual(t, "password123", user.HashedPassword)
	assert.True(t, VerifyPassword("password123", user.HashedPassword))
}

func TestSignUpDuplicateIsCreationFailure(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestAuthService(store)

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	// Same email, different case and padding: normalization makes it a
	// duplicate for uniqueness purposes too.
	_, err = svc.SignUp(context.Background(), SignUpRequest{
		Username: "alice2", Email: " ALICE@example.com ", Password: "password123",
	})
	assert.True(t, apperror.IsCreationFailed(err))

	_, err = svc.SignUp(context.Background(), SignUpRequest{
		Username: "alice", Email: "other@example.com", Password: "password123",
	})
	assert.True(t, apperror.IsCreationFailed(err))
}

// --- sign-in ---

func TestSignInByUsernameAndEmail(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestAuthService(store)

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Username: "bob", Email: "bob@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	for _, login := range []string{"bob", "bob@example.com", " Bob@Example.COM "} {
		token, err := svc.SignIn(context.Background(), SignInRequest{
			Login: login, Password: "correct horse",
		})
		require.NoError(t, err, "login %q", login)

		identity, err := VerifyToken(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, int64(1), identity.UserID)
	}
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestAuthService(store)

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Username: "carol", Email: "carol@example.com", Password: "right password",
	})
	require.NoError(t, err)

	_, wrongPassword := svc.SignIn(context.Background(), SignInRequest{
		Login: "carol", Password: "wrong password",
	})
	_, unknownUser := svc.SignIn(context.Background(), SignInRequest{
		Login: "nobody", Password: "right password",
	})

	assert.True(t, apperror.IsAuthenticationFailed(wrongPassword))
	assert.True(t, apperror.IsAuthenticationFailed(unknownUser))
	// The two failures must not leak which credential was wrong.
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}
