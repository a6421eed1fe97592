package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

const newslettersCollection = "newsletters"

type MongoNewsletterRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoNewsletterRepository(db *mongo.Database) *MongoNewsletterRepository {
	return &MongoNewsletterRepository{
		collection: db.Collection(newslettersCollection),
		now:        time.Now,
	}
}

func (r *MongoNewsletterRepository) Insert(ctx context.Context, n domain.Newsletter) (*domain.Newsletter, error) {
	n.ID = primitive.NilObjectID
	n.CreatedAt = r.now().UTC()
	if n.ProductIDs == nil {
		n.ProductIDs = []int{}
	}

	result, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to insert newsletter: %w", err)
	}

	n.ID = result.InsertedID.(primitive.ObjectID)
	return &n, nil
}

// Finish stores the outcome of a send loop.
func (r *MongoNewsletterRepository) Finish(ctx context.Context, n domain.Newsletter) error {
	result, err := r.collection.UpdateByID(ctx, n.ID, bson.M{
		"$set": bson.M{
			"status":      n.Status,
			"sentTo":      n.SentTo,
			"failedCount": n.FailedCount,
			"sentAt":      n.SentAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to finish newsletter: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFoundError("Newsletter not found")
	}
	return nil
}

// History returns newsletters newest first.
func (r *MongoNewsletterRepository) History(ctx context.Context) ([]domain.Newsletter, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list newsletters: %w", err)
	}
	defer cursor.Close(ctx)

	newsletters := []domain.Newsletter{}
	if err := cursor.All(ctx, &newsletters); err != nil {
		return nil, fmt.Errorf("failed to decode newsletters: %w", err)
	}
	return newsletters, nil
}
