package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/userstore/user-service/internal/core/domain"
	"github.com/userstore/user-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]domain.User

	getErr    error
	saveErr   error
	updateErr error
	removeErr error
	searchErr error
	countErr  error
	streamErr error

	counts       []ports.GroupCount
	countedField string
	searched     []ports.SearchCriteria
	updated      []ports.UpdateUserInput
	removed      []string
	streamUsers  []domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]domain.User)}
}

func (r *stubUserRepo) Get(_ context.Context, id string) (*domain.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) Save(_ context.Context, user domain.User) (*domain.User, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	user.ID = "61c0d1954c6b974ca7000000"
	r.users[user.ID] = user
	return &user, nil
}

func (r *stubUserRepo) Update(_ context.Context, input ports.UpdateUserInput) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.users[input.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.updated = append(r.updated, input)
	return nil
}

func (r *stubUserRepo) Remove(_ context.Context, id string) error {
	if r.removeErr != nil {
		return r.removeErr
	}
	delete(r.users, id)
	r.removed = append(r.removed, id)
	return nil
}

func (r *stubUserRepo) Search(_ context.Context, criteria ports.SearchCriteria) ([]domain.User, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	r.searched = append(r.searched, criteria)
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *stubUserRepo) CountByGroup(_ context.Context, field string) ([]ports.GroupCount, error) {
	if r.countErr != nil {
		return nil, r.countErr
	}
	r.countedField = field
	return r.counts, nil
}

func (r *stubUserRepo) StreamAll(_ context.Context) (ports.UserStream, error) {
	if r.streamErr != nil {
		return nil, r.streamErr
	}
	return &sliceStream{users: r.streamUsers}, nil
}

// sliceStream is an in-memory ports.UserStream.
type sliceStream struct {
	users  []domain.User
	pos    int
	closed bool
}

func (s *sliceStream) Next(_ context.Context) bool {
	if s.pos >= len(s.users) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceStream) User() domain.User { return s.users[s.pos-1] }
func (s *sliceStream) Err() error { return nil }
func (s *sliceStream) Close(_ context.Context) error { s.closed = true; return nil }

type stubCountsCache struct {
	counts []ports.GroupCount
	found  bool
	getErr error
	setErr error

	gets int
	sets [][]ports.GroupCount
}

func (c *stubCountsCache) Get(_ context.Context) ([]ports.GroupCount, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.counts, c.found, nil
}

func (c *stubCountsCache) Set(_ context.Context, counts []ports.GroupCount) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets = append(c.sets, counts)
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func seededUserRepo() *stubUserRepo {
	repo := newStubUserRepo()
	repo.users["61c0d1954c6b974ca7000000"] = domain.User{
		ID:     "61c0d1954c6b974ca7000000",
		Name:   "Test User",
		Age:    100,
		Email:  "test@test.com",
		Gender: domain.GenderMale,
	}
	return repo
}

func TestUserService_Get_Found(t *testing.T) {
	svc := NewUserService(seededUserRepo(), nil, zerolog.Nop())

	user, err := svc.Get(context.Background(), "61c0d1954c6b974ca7000000")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.Name != "Test User" || user.Age != 100 {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), nil, zerolog.Nop())

	_, err := svc.Get(context.Background(), "000000000000000000000000")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestUserService_Save_AssignsID(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, nil, zerolog.Nop())

	saved, err := svc.Save(context.Background(), domain.User{
		Name:   "Scenario User",
		Age:    120,
		Email:  "scenario@test.com",
		Gender: domain.GenderFemale,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected saved user to carry an id")
	}
	if len(repo.users) != 1 {
		t.Errorf("expected one persisted user, got %d", len(repo.users))
	}
}

func TestUserService_Update_OK(t *testing.T) {
	repo := seededUserRepo()
	svc := NewUserService(repo, nil, zerolog.Nop())

	err := svc.Update(context.Background(), ports.UpdateUserInput{
		ID:    "61c0d1954c6b974ca7000000",
		Name:  "New Name",
		Email: "test@test.com",
		Age:   150,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(repo.updated) != 1 || repo.updated[0].Age != 150 {
		t.Errorf("expected update to reach repository, got: %v", repo.updated)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), nil, zerolog.Nop())

	err := svc.Update(context.Background(), ports.UpdateUserInput{ID: "missing"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestUserService_Remove_OK(t *testing.T) {
	repo := seededUserRepo()
	svc := NewUserService(repo, nil, zerolog.Nop())

	if err := svc.Remove(context.Background(), "61c0d1954c6b974ca7000000"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(repo.users) != 0 {
		t.Error("expected user to be removed")
	}
}

func TestUserService_Search_PassesCriteria(t *testing.T) {
	repo := seededUserRepo()
	svc := NewUserService(repo, nil, zerolog.Nop())

	email := "test@test.com"
	_, err := svc.Search(context.Background(), ports.SearchCriteria{Email: &email})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(repo.searched) != 1 || repo.searched[0].Email == nil || *repo.searched[0].Email != email {
		t.Errorf("criteria did not reach repository: %+v", repo.searched)
	}
}

func TestUserService_CountsByGender_CacheHit(t *testing.T) {
	repo := newStubUserRepo()
	cache := &stubCountsCache{
		counts: []ports.GroupCount{{Group: "Male", Count: 6}, {Group: "Female", Count: 12}},
		found:  true,
	}
	svc := NewUserService(repo, cache, zerolog.Nop())

	counts, err := svc.CountsByGender(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(counts) != 2 || counts[0].Count != 6 {
		t.Errorf("unexpected counts: %+v", counts)
	}
	if repo.countedField != "" {
		t.Error("expected repository aggregation to be skipped on cache hit")
	}
}

func TestUserService_CountsByGender_CacheMissFills(t *testing.T) {
	repo := newStubUserRepo()
	repo.counts = []ports.GroupCount{{Group: "Male", Count: 6}}
	cache := &stubCountsCache{found: false}
	svc := NewUserService(repo, cache, zerolog.Nop())

	counts, err := svc.CountsByGender(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if repo.countedField != "gender" {
		t.Errorf("expected aggregation on gender, got %q", repo.countedField)
	}
	if len(cache.sets) != 1 || len(cache.sets[0]) != len(counts) {
		t.Errorf("expected counts written back to cache, got: %v", cache.sets)
	}
}

func TestUserService_CountsByGender_CacheFailOpen(t *testing.T) {
	repo := newStubUserRepo()
	repo.counts = []ports.GroupCount{{Group: "Female", Count: 3}}
	cache := &stubCountsCache{getErr: errors.New("redis down")}
	svc := NewUserService(repo, cache, zerolog.Nop())

	counts, err := svc.CountsByGender(context.Background())
	if err != nil {
		t.Fatalf("expected fail-open read, got: %v", err)
	}
	if len(counts) != 1 || counts[0].Group != "Female" {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

func TestUserService_CountsByGender_NoCache(t *testing.T) {
	repo := newStubUserRepo()
	repo.counts = []ports.GroupCount{{Group: "Male", Count: 1}}
	svc := NewUserService(repo, nil, zerolog.Nop())

	counts, err := svc.CountsByGender(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(counts) != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

func TestUserService_Download_OpensStream(t *testing.T) {
	repo := newStubUserRepo()
	repo.streamUsers = []domain.User{
		{ID: "a", Name: "One", Age: 101, Email: "one@test.com", Gender: domain.GenderMale},
		{ID: "b", Name: "Two", Age: 102, Email: "two@test.com", Gender: domain.GenderFemale},
	}
	svc := NewUserService(repo, nil, zerolog.Nop())

	stream, err := svc.Download(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	defer stream.Close(context.Background())

	var got []domain.User
	for stream.Next(context.Background()) {
		got = append(got, stream.User())
	}
	if len(got) != 2 || got[0].Name != "One" {
		t.Errorf("unexpected streamed users: %+v", got)
	}
}
