package domain

import "time"

// AuditAction identifies what a token subject did or attempted.
type AuditAction string

const (
	AuditActionSave   AuditAction = "user.save"
	AuditActionUpdate AuditAction = "user.update"
	AuditActionRemove AuditAction = "user.remove"
	AuditActionDenied AuditAction = "access.denied"
)

// AuditOutcome records how the action ended.
type AuditOutcome string

const (
	AuditOutcomeOK     AuditOutcome = "ok"
	AuditOutcomeDenied AuditOutcome = "denied"
)

// AuditEvent is one security-relevant action in the audit trail. TargetID
// is the affected user id for mutations; denials recorded at the role gate
// carry the route that was refused instead.
type AuditEvent struct {
	ID         string
	Subject    string
	Role       Role
	Action     AuditAction
	TargetID   string
	Outcome    AuditOutcome
	OccurredAt time.Time
}
