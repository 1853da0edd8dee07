package ports

import (
	"context"

	"github.com/userstore/user-service/internal/core/domain"
)

// SearchCriteria carries the optional exact-match filters for searching
// users. Nil fields are left out of the persistence filter entirely.
type SearchCriteria struct {
	Email  *string
	Gender *domain.Gender
	Name   *string
}

// UpdateUserInput carries the mutable fields applied by Update. The
// integrity hash is verified upstream and never reaches persistence.
type UpdateUserInput struct {
	ID    string
	Name  string
	Email string
	Age   int
}

// GroupCount is one bucket of a grouped count aggregation.
type GroupCount struct {
	Group string
	Count int64
}

// UserStream is a lazy cursor over the users collection, used by the bulk
// download. Next reports whether another record was decoded; stored records
// that fail to decode are skipped by the implementation, not surfaced.
type UserStream interface {
	Next(ctx context.Context) bool
	User() domain.User
	Err() error
	Close(ctx context.Context) error
}

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	// Get retrieves a user by its hex id. Returns domain.ErrUserNotFound
	// when no record matches.
	Get(ctx context.Context, id string) (*domain.User, error)
	// Save inserts the record and returns it with the assigned id. Any id
	// carried by the input is ignored.
	Save(ctx context.Context, user domain.User) (*domain.User, error)
	// Update applies the mutable fields to an existing record. Returns
	// domain.ErrUserNotFound when the id matches nothing.
	Update(ctx context.Context, input UpdateUserInput) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, criteria SearchCriteria) ([]domain.User, error)
	CountByGroup(ctx context.Context, field string) ([]GroupCount, error)
	StreamAll(ctx context.Context) (UserStream, error)
}
