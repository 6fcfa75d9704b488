package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "notefeed")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "notefeed")
	t.Setenv("JWT_SECRET", "signing-secret")
	// Clear the optional variables so host values do not leak into tests
	// that assert on defaults.
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_MAX_CONNS", "JWT_TOKEN_DURATION", "PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, "signing-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "4000", cfg.Server.Port)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("JWT_TOKEN_DURATION", "24h")
	t.Setenv("PORT", "8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadConfigCollectsAllErrors(t *testing.T) {
	// Only one of the required variables is set; the error must name the
	// other three in a single report. t.Setenv registers the restore, then
	// Unsetenv clears any value inherited from the host environment.
	t.Setenv("DB_USER", "notefeed")
	for _, key := range []string{"DB_PASSWORD", "DB_NAME", "JWT_SECRET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_TOKEN_DURATION", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_TOKEN_DURATION")
}

func TestLoadConfigClampsPoolSize(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_CONNS", "500")

	// Out-of-range pool sizes are reported as configuration errors.
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_CONNS")
}
