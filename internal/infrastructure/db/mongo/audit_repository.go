package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userstore/user-service/internal/core/domain"
)

const collectionAudit = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

type mongoAuditEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Subject    string             `bson:"subject"`
	Role       string             `bson:"role"`
	Action     string             `bson:"action"`
	TargetID   string             `bson:"target_id,omitempty"`
	Outcome    string             `bson:"outcome"`
	OccurredAt time.Time          `bson:"occurred_at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAuditEvent{
		Subject:    event.Subject,
		Role:       string(event.Role),
		Action:     string(event.Action),
		TargetID:   event.TargetID,
		Outcome:    string(event.Outcome),
		OccurredAt: event.OccurredAt.UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Recent returns up to limit events sorted newest first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("recent audit events: %w", err)
	}
	defer cur.Close(ctx)

	var rows []mongoAuditEvent
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("recent audit events: %w", err)
	}

	events := make([]domain.AuditEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, domain.AuditEvent{
			ID:         row.ID.Hex(),
			Subject:    row.Subject,
			Role:       domain.Role(row.Role),
			Action:     domain.AuditAction(row.Action),
			TargetID:   row.TargetID,
			Outcome:    domain.AuditOutcome(row.Outcome),
			OccurredAt: row.OccurredAt,
		})
	}
	return events, nil
}

// EnsureIndexes creates the index backing the newest-first listing.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "subject", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
