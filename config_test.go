package signup_test

import (
	"os"
	"testing"

	"github.com/goliatone/go-signup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears a variable for the test while keeping t.Setenv's restore.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"SIGNUP_LISTEN_ADDR",
		"SIGNUP_SIGNING_KEY",
		"SIGNUP_TOKEN_EXPIRATION",
		"SIGNUP_TOKEN_ISSUER",
		"SIGNUP_USERS_FILE",
		"SIGNUP_CONTEXT_KEY",
	} {
		unsetenv(t, key)
	}

	cfg, err := signup.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 60, cfg.GetTokenExpiration())
	assert.Equal(t, "go-signup", cfg.GetIssuer())
	assert.Equal(t, "users.json", cfg.UsersFile)
	assert.Equal(t, "session", cfg.GetContextKey())
	assert.Equal(t, "HS256", cfg.GetSigningMethod())
	assert.True(t, cfg.UsingFallbackKey())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SIGNUP_LISTEN_ADDR", ":9090")
	t.Setenv("SIGNUP_SIGNING_KEY", "super-secret")
	t.Setenv("SIGNUP_TOKEN_EXPIRATION", "15")
	t.Setenv("SIGNUP_TOKEN_AUDIENCE", "web,mobile")

	cfg, err := signup.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "super-secret", cfg.GetSigningKey())
	assert.Equal(t, 15, cfg.GetTokenExpiration())
	assert.Equal(t, []string{"web", "mobile"}, cfg.GetAudience())
	assert.False(t, cfg.UsingFallbackKey())
}

func TestLoadConfigRejectsBadExpiration(t *testing.T) {
	t.Setenv("SIGNUP_TOKEN_EXPIRATION", "not-a-number")

	_, err := signup.LoadConfig()
	require.Error(t, err)
}
