package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userstore/user-service/internal/core/domain"
	"github.com/userstore/user-service/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on a MongoDB collection.
type UserRepository struct {
	col *mongo.Collection
	log zerolog.Logger
}

func NewUserRepository(db *mongo.Database, log zerolog.Logger) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers), log: log}
}

type mongoUser struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Name   string             `bson:"name"`
	Age    int                `bson:"age"`
	Email  string             `bson:"email"`
	Gender string             `bson:"gender"`
}

func (m mongoUser) toDomain() (domain.User, error) {
	gender, err := domain.ParseGender(m.Gender)
	if err != nil {
		return domain.User{}, fmt.Errorf("decode user %s: %w", m.ID.Hex(), err)
	}
	return domain.User{
		ID:     m.ID.Hex(),
		Name:   m.Name,
		Age:    m.Age,
		Email:  m.Email,
		Gender: gender,
	}, nil
}

// objectID parses a hex id, mapping failures to domain.ErrInvalidUserID so
// that callers treat unparseable ids like records that do not exist.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidUserID, id)
	}
	return oid, nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var mu mongoUser
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	user, err := mu.toDomain()
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Save inserts the record and returns it with the assigned id. Any id on
// the input is ignored; the collection always assigns a fresh one.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Name:   user.Name,
		Age:    user.Age,
		Email:  user.Email,
		Gender: string(user.Gender),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	user.ID = oid.Hex()
	return &user, nil
}

// Update applies the mutable fields with a $set. A zero matched count means
// the id references nothing and is reported as domain.ErrUserNotFound.
func (r *UserRepository) Update(ctx context.Context, input ports.UpdateUserInput) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(input.ID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"name":  input.Name,
		"age":   input.Age,
		"email": input.Email,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Remove deletes the record if present. Deleting an id that matches nothing
// is not an error.
func (r *UserRepository) Remove(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Search runs an exact-match query built from the non-nil criteria fields.
func (r *UserRepository) Search(ctx context.Context, criteria ports.SearchCriteria) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if criteria.Email != nil {
		filter["email"] = *criteria.Email
	}
	if criteria.Gender != nil {
		filter["gender"] = string(*criteria.Gender)
	}
	if criteria.Name != nil {
		filter["name"] = *criteria.Name
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer cur.Close(ctx)

	users := make([]domain.User, 0)
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("search users: %w", err)
		}
		user, err := mu.toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// CountByGroup aggregates bucket counts grouped by the given field.
func (r *UserRepository) CountByGroup(ctx context.Context, field string) ([]ports.GroupCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$count", Value: bson.D{}}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline, options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", field, err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Group string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("count by %s: %w", field, err)
	}

	counts := make([]ports.GroupCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, ports.GroupCount{Group: row.Group, Count: row.Count})
	}
	return counts, nil
}

// StreamAll opens a cursor over the whole collection. No timeout is applied
// here: the stream lives for as long as the caller keeps consuming it.
func (r *UserRepository) StreamAll(ctx context.Context) (ports.UserStream, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("stream users: %w", err)
	}
	return &userStream{cur: cur, log: r.log}, nil
}

// userStream adapts a mongo cursor to ports.UserStream. Stored records that
// fail to decode are logged and skipped so one corrupt document cannot
// abort a bulk export.
type userStream struct {
	cur  *mongo.Cursor
	log  zerolog.Logger
	user domain.User
}

func (s *userStream) Next(ctx context.Context) bool {
	for s.cur.Next(ctx) {
		var mu mongoUser
		if err := s.cur.Decode(&mu); err != nil {
			s.log.Warn().Err(err).Msg("skipping undecodable user record")
			continue
		}
		user, err := mu.toDomain()
		if err != nil {
			s.log.Warn().Err(err).Msg("skipping undecodable user record")
			continue
		}
		s.user = user
		return true
	}
	return false
}

func (s *userStream) User() domain.User { return s.user }

func (s *userStream) Err() error { return s.cur.Err() }

func (s *userStream) Close(ctx context.Context) error { return s.cur.Close(ctx) }

// EnsureIndexes creates the indexes the search and counts queries rely on.
// No unique constraints: Save must always succeed.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "gender", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
