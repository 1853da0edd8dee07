package ports

import (
	"context"
	"time"

	"github.com/userstore/user-service/internal/core/domain"
)

// AuditEventInput is the DTO handed from the transport layer to the audit
// pipeline.
type AuditEventInput struct {
	Subject    string
	Role       domain.Role
	Action     domain.AuditAction
	TargetID   string
	Outcome    domain.AuditOutcome
	OccurredAt time.Time
}

// AuditSink accepts audit events for asynchronous processing. Delivery is
// best-effort: a full sink drops the event rather than blocking a request.
type AuditSink interface {
	Enqueue(event AuditEventInput)
}

// AuditService processes enqueued audit events and exposes the trail.
type AuditService interface {
	Process(ctx context.Context, event AuditEventInput) error
	Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}
