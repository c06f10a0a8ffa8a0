// Package signup implements the Mergington High extracurricular sign-up
// service: credential hashing, JWT issuance and validation, a flat-file
// user store, and the in-memory activity roster.
//
// Credentials:
//   - Passwords are never persisted. Each record stores a per-user random
//     salt plus a PBKDF2-HMAC-SHA256 digest, both hex encoded. Verification
//     recomputes the digest and compares in constant time.
//
// Tokens:
//   - Sessions are stateless HS256 JWTs carrying the normalized email as
//     subject. Rotating the signing key invalidates every outstanding token;
//     there is no server-side revocation list.
//
// Audit sinks:
//   - AuditSink is a light-weight event emitter used by the Auther to
//     describe register and login outcomes. Sinks run best-effort (errors
//     are logged) so you can forward events without blocking authentication.
package signup
