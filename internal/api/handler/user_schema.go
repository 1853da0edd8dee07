package handler

import (
	"time"

	"github.com/userstore/user-service/internal/core/domain"
)

// --- Request types ---

type saveUserRequest struct {
	Name   string        `json:"name"   validate:"required"`
	Age    int           `json:"age"    validate:"required,user_age"`
	Email  string        `json:"email"  validate:"required,user_email"`
	Gender domain.Gender `json:"gender" validate:"required"`
}

// updateUserRequest round-trips the hid attached to an earlier read. The
// hash is checked against name and email before the update is accepted.
type updateUserRequest struct {
	ID    string `json:"id"    validate:"required"`
	Name  string `json:"name"  validate:"required"`
	Age   int    `json:"age"   validate:"required,user_age"`
	Email string `json:"email" validate:"required,user_email"`
	Hid   string `json:"hid"   validate:"required"`
}

// searchUsersRequest carries optional filters; nil fields do not constrain
// the search.
type searchUsersRequest struct {
	Email  *string        `json:"email,omitempty"  validate:"omitempty,user_email"`
	Gender *domain.Gender `json:"gender,omitempty"`
	Name   *string        `json:"name,omitempty"`
}

// --- Response types ---

// Response-only types owned by the transport layer.
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

// userResponse is a stored record with the integrity hash merged in. The
// hash is never persisted; it is computed fresh on every read so the client
// can round-trip it on the next update.
type userResponse struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Age    int           `json:"age"`
	Email  string        `json:"email"`
	Gender domain.Gender `json:"gender"`
	Hid    string        `json:"hid"`
}

type groupCountResponse struct {
	Group string `json:"group"`
	Count int64  `json:"count"`
}

type auditEventResponse struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Role       string    `json:"role"`
	Action     string    `json:"action"`
	TargetID   string    `json:"target_id,omitempty"`
	Outcome    string    `json:"outcome"`
	OccurredAt time.Time `json:"occurred_at"`
}
