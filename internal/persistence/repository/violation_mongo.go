package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/hilthontt/trafficguard/internal/domain"
	"github.com/hilthontt/trafficguard/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type violationRepository struct {
	db *mongo.Database
}

func NewViolationRepository(database *mongo.Database) domain.ViolationRepository {
	return &violationRepository{
		db: database,
	}
}

func (r *violationRepository) collection() *mongo.Collection {
	return r.db.Collection(db.ViolationsCollection)
}

func (r *violationRepository) Create(ctx context.Context, v *domain.Violation) error {
	_, err := r.collection().InsertOne(ctx, v)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateViolation
	}
	return err
}

func (r *violationRepository) GetByID(ctx context.Context, id string) (*domain.Violation, error) {
	var v domain.Violation
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrViolationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByPlate returns the most recently created record for a plate.
func (r *violationRepository) GetByPlate(ctx context.Context, plate string) (*domain.Violation, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var v domain.Violation
	err := r.collection().FindOne(ctx, bson.M{"plate": domain.NormalizePlate(plate)}, opts).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrViolationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *violationRepository) Find(ctx context.Context, filter domain.ViolationFilter) ([]domain.Violation, int, error) {
	query := bson.M{}

	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Search != "" {
		search := regexp.QuoteMeta(filter.Search)
		query["$or"] = bson.A{
			bson.M{"plate": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"_id": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"owner": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"location": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	total, err := r.collection().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.collection().Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	violations := make([]domain.Violation, 0)
	if err := cursor.All(ctx, &violations); err != nil {
		return nil, 0, err
	}

	return violations, int(total), nil
}

func (r *violationRepository) All(ctx context.Context) ([]domain.Violation, error) {
	cursor, err := r.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	violations := make([]domain.Violation, 0)
	if err := cursor.All(ctx, &violations); err != nil {
		return nil, err
	}

	return violations, nil
}

func (r *violationRepository) Update(ctx context.Context, v *domain.Violation) error {
	result, err := r.collection().ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrViolationNotFound
	}
	return nil
}

func (r *violationRepository) Delete(ctx context.Context, id string) (*domain.Violation, error) {
	var v domain.Violation
	err := r.collection().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrViolationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *violationRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "plate", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.collection().Indexes().CreateMany(ctx, indexes)
	return err
}
