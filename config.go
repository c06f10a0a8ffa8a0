package signup

import (
	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// DefaultSigningKey is the non-production fallback used when no key is
// configured. Any real deployment must override it: every token ever
// issued with it can be forged by anyone who reads this source.
const DefaultSigningKey = "insecure-dev-signing-key-change-me"

// AppConfig is the concrete Config loaded from the process environment.
type AppConfig struct {
	ListenAddr      string   `env:"SIGNUP_LISTEN_ADDR" envDefault:":8080"`
	SigningKey      string   `env:"SIGNUP_SIGNING_KEY"`
	TokenExpiration int      `env:"SIGNUP_TOKEN_EXPIRATION" envDefault:"60"`
	Issuer          string   `env:"SIGNUP_TOKEN_ISSUER" envDefault:"go-signup"`
	Audience        []string `env:"SIGNUP_TOKEN_AUDIENCE" envSeparator:","`
	UsersFile       string   `env:"SIGNUP_USERS_FILE" envDefault:"users.json"`
	ContextKey      string   `env:"SIGNUP_CONTEXT_KEY" envDefault:"session"`
}

// LoadConfig reads configuration from the process environment once at
// startup. UsingFallbackKey reports whether the caller should warn.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse environment configuration")
	}

	if cfg.SigningKey == "" {
		cfg.SigningKey = DefaultSigningKey
	}

	return cfg, nil
}

// UsingFallbackKey is true when no signing key was configured.
func (c *AppConfig) UsingFallbackKey() bool {
	return c.SigningKey == DefaultSigningKey
}

func (c *AppConfig) GetSigningKey() string { return c.SigningKey }

func (c *AppConfig) GetSigningMethod() string { return "HS256" }

func (c *AppConfig) GetContextKey() string { return c.ContextKey }

// GetTokenExpiration is the token lifetime in minutes.
func (c *AppConfig) GetTokenExpiration() int { return c.TokenExpiration }

func (c *AppConfig) GetTokenLookup() string { return "header:Authorization" }

func (c *AppConfig) GetAuthScheme() string { return "Bearer" }

func (c *AppConfig) GetIssuer() string { return c.Issuer }

func (c *AppConfig) GetAudience() []string { return c.Audience }

var _ Config = (*AppConfig)(nil)
