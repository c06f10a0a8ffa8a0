package signup

import (
	"context"
	"time"
)

// MinPasswordLength is the registration floor. Shorter passwords are
// rejected before any hashing happens.
const MinPasswordLength = 8

// Auther is the request-facing auth gateway: it normalizes identifiers,
// enforces password policy, and wires the credential store to the token
// service.
type Auther struct {
	store        IdentityStore
	tokenService TokenService
	logger       Logger
	auditSink    AuditSink
}

// NewAuthenticator returns a new Authenticator backed by the given store
func NewAuthenticator(store IdentityStore, cfg Config) *Auther {
	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)

	return &Auther{
		store:        store,
		tokenService: tokenService,
		logger:       defLogger{},
		auditSink:    noopAuditSink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithAuditSink configures an AuditSink for emitting auth events.
func (s *Auther) WithAuditSink(sink AuditSink) *Auther {
	s.auditSink = normalizeAuditSink(sink)
	return s
}

// WithTokenService overrides the token service, mostly useful in tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Register creates an account and logs it in, returning a session token.
func (s *Auther) Register(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	if len(password) < MinPasswordLength {
		s.emitAuthEvent(ctx, AuditEventRegisterFailure, email, map[string]any{
			"error": ErrWeakPassword.Message,
		})
		return "", ErrWeakPassword
	}

	if err := s.store.Register(ctx, email, password); err != nil {
		s.logger.Error("Register store error", "email", email, "error", err)
		s.emitAuthEvent(ctx, AuditEventRegisterFailure, email, map[string]any{
			"error": err.Error(),
		})
		return "", err
	}

	token, err := s.tokenService.Generate(email)
	if err != nil {
		s.logger.Error("Register token issue error", "email", email, "error", err)
		return "", err
	}

	s.emitAuthEvent(ctx, AuditEventRegisterSuccess, email, nil)

	return token, nil
}

// Login verifies credentials and returns a session token.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	if err := s.store.VerifyIdentity(ctx, email, password); err != nil {
		s.logger.Info("Login verify identity failed", "email", email)
		s.emitAuthEvent(ctx, AuditEventLoginFailure, email, map[string]any{
			"error": err.Error(),
		})
		return "", err
	}

	token, err := s.tokenService.Generate(email)
	if err != nil {
		s.logger.Error("Login token issue error", "email", email, "error", err)
		return "", err
	}

	s.emitAuthEvent(ctx, AuditEventLoginSuccess, email, nil)

	return token, nil
}

// SessionFromToken validates a raw bearer token and returns its claims.
func (s *Auther) SessionFromToken(raw string) (AuthClaims, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Debug("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	return claims, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType AuditEventType, subject string, metadata map[string]any) {
	sink := normalizeAuditSink(s.auditSink)
	event := AuditEvent{
		EventType: eventType,
		Subject:   subject,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("audit sink record error", "error", err)
	}
}

var _ Authenticator = (*Auther)(nil)
