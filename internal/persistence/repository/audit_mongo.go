package repository

import (
	"context"

	"github.com/hilthontt/trafficguard/internal/domain"
	"github.com/hilthontt/trafficguard/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type auditLogRepository struct {
	db *mongo.Database
}

func NewAuditLogRepository(database *mongo.Database) domain.AuditRepository {
	return &auditLogRepository{
		db: database,
	}
}

func (r *auditLogRepository) collection() *mongo.Collection {
	return r.db.Collection(db.AuditLogCollection)
}

func (r *auditLogRepository) Append(ctx context.Context, e *domain.AuditEvent) error {
	_, err := r.collection().InsertOne(ctx, e)
	return err
}

func (r *auditLogRepository) List(ctx context.Context, page, limit int) ([]domain.AuditEvent, int, error) {
	total, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	events := make([]domain.AuditEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, 0, err
	}

	return events, int(total), nil
}

func (r *auditLogRepository) Clear(ctx context.Context) error {
	_, err := r.collection().DeleteMany(ctx, bson.M{})
	return err
}

func (r *auditLogRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}},
		{Keys: bson.D{{Key: "violation_id", Value: 1}}},
	}

	_, err := r.collection().Indexes().CreateMany(ctx, indexes)
	return err
}
