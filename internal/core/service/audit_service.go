package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/userstore/user-service/internal/core/domain"
	"github.com/userstore/user-service/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation backed by the
// given repository.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *auditService) Process(ctx context.Context, in ports.AuditEventInput) error {
	event := &domain.AuditEvent{
		Subject:    in.Subject,
		Role:       in.Role,
		Action:     in.Action,
		TargetID:   in.TargetID,
		Outcome:    in.Outcome,
		OccurredAt: in.OccurredAt,
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("process audit event: %w", err)
	}

	s.log.Debug().
		Str("subject", in.Subject).
		Str("action", string(in.Action)).
		Str("outcome", string(in.Outcome)).
		Msg("audit event recorded")

	return nil
}

// Recent returns up to limit events, newest first. A non-positive limit
// falls back to the default page size; oversized limits are capped.
func (s *auditService) Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	events, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent audit events: %w", err)
	}
	return events, nil
}
