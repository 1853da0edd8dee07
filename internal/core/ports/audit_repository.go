package ports

import (
	"context"

	"github.com/userstore/user-service/internal/core/domain"
)

// AuditRepository persists audit events and serves the recent-events view.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}
