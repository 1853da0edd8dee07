package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/userstore/user-service/internal/core/domain"
	"github.com/userstore/user-service/internal/core/ports"
)

// CountsCache abstracts the short-lived cache in front of the gender counts
// aggregation (Redis). Implementations must be safe for concurrent use.
type CountsCache interface {
	// Get returns the cached buckets and whether a cached value was found.
	Get(ctx context.Context) ([]ports.GroupCount, bool, error)
	Set(ctx context.Context, counts []ports.GroupCount) error
}

type UserService struct {
	repo   ports.UserRepository
	cache  CountsCache
	logger zerolog.Logger
}

// NewUserService wires the user use-cases to their persistence port. cache
// may be nil, in which case every counts request hits the repository.
func NewUserService(repo ports.UserRepository, cache CountsCache, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) Save(ctx context.Context, user domain.User) (*domain.User, error) {
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to save user")
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.logger.Info().Str("user_id", saved.ID).Msg("user saved")
	return saved, nil
}

func (s *UserService) Update(ctx context.Context, input ports.UpdateUserInput) error {
	if err := s.repo.Update(ctx, input); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	s.logger.Info().Str("user_id", input.ID).Msg("user updated")
	return nil
}

func (s *UserService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Remove(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to remove user")
		return fmt.Errorf("remove user: %w", err)
	}
	s.logger.Info().Str("user_id", id).Msg("user removed")
	return nil
}

func (s *UserService) Search(ctx context.Context, criteria ports.SearchCriteria) ([]domain.User, error) {
	users, err := s.repo.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// CountsByGender returns one bucket per gender value present in the
// collection. Reads go through the cache when one is wired; cache failures
// are logged and fall back to the aggregation.
func (s *UserService) CountsByGender(ctx context.Context) ([]ports.GroupCount, error) {
	if s.cache != nil {
		counts, found, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("counts cache read failed, querying repository")
		} else if found {
			return counts, nil
		}
	}

	counts, err := s.repo.CountByGroup(ctx, "gender")
	if err != nil {
		return nil, fmt.Errorf("count users by gender: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, counts); err != nil {
			s.logger.Warn().Err(err).Msg("counts cache write failed")
		}
	}
	return counts, nil
}

// Download opens a stream over every stored user. The caller owns the
// returned stream and must close it.
func (s *UserService) Download(ctx context.Context) (ports.UserStream, error) {
	stream, err := s.repo.StreamAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to open user stream")
		return nil, fmt.Errorf("download users: %w", err)
	}
	return stream, nil
}
