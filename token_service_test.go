package signup_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	signup "github.com/goliatone/go-signup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-signing-key")

func TestTokenServiceGenerateAndValidate(t *testing.T) {
	ts := signup.NewTokenService(testSigningKey, 60, "go-signup", nil, nil)

	token, err := ts.Generate("amy@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "amy@x.com", claims.Subject())
	assert.WithinDuration(t, time.Now(), claims.IssuedAt(), 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(60*time.Minute), claims.Expires(), 5*time.Second)
}

func TestTokenServiceRejectsExpiredToken(t *testing.T) {
	ts := signup.NewTokenService(testSigningKey, 60, "go-signup", nil, nil)

	// sign claims whose window closed a minute ago
	now := time.Now()
	claims := &signup.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "go-signup",
			Subject:   "amy@x.com",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
	}

	token, err := ts.SignClaims(claims)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	require.Error(t, err)

	var richErr *errors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, "TOKEN_EXPIRED", richErr.TextCode)
}

func TestTokenServiceRejectsTamperedSignature(t *testing.T) {
	ts := signup.NewTokenService(testSigningKey, 60, "go-signup", nil, nil)

	token, err := ts.Generate("amy@x.com")
	require.NoError(t, err)

	// flip a byte in the signature segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = ts.Validate(tampered)
	require.Error(t, err)

	var richErr *errors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, "TOKEN_MALFORMED", richErr.TextCode)
}

func TestTokenServiceRejectsForeignKey(t *testing.T) {
	issuer := signup.NewTokenService([]byte("key-one"), 60, "go-signup", nil, nil)
	verifier := signup.NewTokenService([]byte("key-two"), 60, "go-signup", nil, nil)

	token, err := issuer.Generate("amy@x.com")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestTokenServiceRejectsMissingSubject(t *testing.T) {
	ts := signup.NewTokenService(testSigningKey, 60, "go-signup", nil, nil)

	claims := &signup.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "go-signup",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := ts.SignClaims(claims)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.Error(t, err)
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	ts := signup.NewTokenService(testSigningKey, 60, "go-signup", nil, nil)

	_, err := ts.Validate("not-a-token")
	assert.Error(t, err)
}
