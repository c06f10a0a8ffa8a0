package signup

import (
	"context"
	"time"
)

// AuditEventType enumerates supported audit categories.
type AuditEventType string

const (
	AuditEventRegisterSuccess AuditEventType = "auth.register.success"
	AuditEventRegisterFailure AuditEventType = "auth.register.failure"
	AuditEventLoginSuccess    AuditEventType = "auth.login.success"
	AuditEventLoginFailure    AuditEventType = "auth.login.failure"
)

// AuditEvent captures audit-friendly information about an auth action.
type AuditEvent struct {
	EventType  AuditEventType
	Subject    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// AuditSink consumes audit events for auditing/telemetry purposes.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent) error
}

// AuditSinkFunc adapts a function to the AuditSink interface.
type AuditSinkFunc func(ctx context.Context, event AuditEvent) error

// Record implements AuditSink.
func (f AuditSinkFunc) Record(ctx context.Context, event AuditEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopAuditSink struct{}

func (noopAuditSink) Record(context.Context, AuditEvent) error {
	return nil
}

func normalizeAuditSink(s AuditSink) AuditSink {
	if s == nil {
		return noopAuditSink{}
	}
	return s
}
