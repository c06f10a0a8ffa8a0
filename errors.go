package signup

import (
	"github.com/goliatone/go-errors"
)

// ErrWeakPassword rejects registrations whose password is under 8 characters
var ErrWeakPassword = errors.New("password must be at least 8 characters", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("WEAK_PASSWORD")

// ErrEmailTaken rejects duplicate registrations for a normalized email
var ErrEmailTaken = errors.New("an account with that email already exists", errors.CategoryConflict).
	WithCode(errors.CodeBadRequest).
	WithTextCode("EMAIL_TAKEN")

// ErrInvalidCredentials covers both unknown email and wrong password so a
// login probe cannot tell accounts apart
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_CREDENTIALS")

// ErrUnauthenticated is the auth gate error for missing or unusable tokens
var ErrUnauthenticated = errors.New("not authenticated", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("UNAUTHENTICATED")

// ErrTokenExpired is returned once a token's exp claim has passed
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed covers bad signatures and structurally invalid tokens
var ErrTokenMalformed = errors.New("token is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("EMPTY_PASSWORD")

// ErrMismatchedHashAndPassword is the verification failure sentinel
var ErrMismatchedHashAndPassword = errors.New("password does not match stored digest", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("HASH_MISMATCH")

// ErrActivityNotFound is returned for roster operations on unknown activities
var ErrActivityNotFound = errors.New("activity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("ACTIVITY_NOT_FOUND")

// ErrAlreadySignedUp rejects duplicate signups for the same activity
var ErrAlreadySignedUp = errors.New("student is already signed up", errors.CategoryConflict).
	WithCode(errors.CodeBadRequest).
	WithTextCode("ALREADY_SIGNED_UP")

// ErrNotSignedUp rejects unregistering a participant that was never added
var ErrNotSignedUp = errors.New("student is not signed up for this activity", errors.CategoryConflict).
	WithCode(errors.CodeBadRequest).
	WithTextCode("NOT_SIGNED_UP")

// ErrActivityFull rejects signups once max_participants is reached
var ErrActivityFull = errors.New("activity has no open slots", errors.CategoryConflict).
	WithCode(errors.CodeBadRequest).
	WithTextCode("ACTIVITY_FULL")
