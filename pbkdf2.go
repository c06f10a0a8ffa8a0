package signup

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltLength is the per-record salt size in bytes
	SaltLength = 16
	// KeyLength is the derived digest size in bytes
	KeyLength = 32
	// HashIterations is the PBKDF2 iteration count applied on every derive
	HashIterations = 100_000
)

// HashPassword will generate a fresh random salt and the PBKDF2 digest of
// the password under it. Both come back hex encoded, fixed width.
func HashPassword(password string) (salt, hash string, err error) {
	if password == "" {
		return "", "", ErrNoEmptyString
	}

	raw := make([]byte, SaltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", "", errors.Wrap(err, errors.CategoryInternal, "failed to generate salt")
	}

	salt = hex.EncodeToString(raw)
	hash, err = HashPasswordWithSalt(password, salt)
	return salt, hash, err
}

// HashPasswordWithSalt derives the digest for an already-known salt. Used
// on the verification path; registration should call HashPassword.
func HashPasswordWithSalt(password, salt string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	raw, err := hex.DecodeString(salt)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryBadInput, "salt is not valid hex")
	}

	key := pbkdf2.Key([]byte(password), raw, HashIterations, KeyLength, sha256.New)
	return hex.EncodeToString(key), nil
}

// ComparePasswordAndHash will validate the given cleartext password against
// the stored salt and digest. The comparison is constant time so a mismatch
// cannot leak the digest byte by byte.
func ComparePasswordAndHash(password, salt, hash string) error {
	computed, err := HashPasswordWithSalt(password, salt)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) != 1 {
		return ErrMismatchedHashAndPassword
	}
	return nil
}
