package ports

import (
	"context"

	"github.com/userstore/user-service/internal/core/domain"
)

// UserService defines the use-case operations behind the /user routes.
// Authorization, body validation and integrity-hash checks all happen
// before these methods are reached.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Save(ctx context.Context, user domain.User) (*domain.User, error)
	Update(ctx context.Context, input UpdateUserInput) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, criteria SearchCriteria) ([]domain.User, error)
	// CountsByGender returns one bucket per gender value present in the
	// collection, served through a short-lived cache when one is wired.
	CountsByGender(ctx context.Context) ([]GroupCount, error)
	// Download opens a lazy stream over every stored user for bulk export.
	// The caller owns the stream and must close it.
	Download(ctx context.Context) (UserStream, error)
}
