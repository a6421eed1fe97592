package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wego/internal/domain"
	apperrors "wego/internal/errors"
)

const subscribersCollection = "newsletter_subscribers"

type MongoSubscriberRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoSubscriberRepository(db *mongo.Database) *MongoSubscriberRepository {
	return &MongoSubscriberRepository{
		collection: db.Collection(subscribersCollection),
		now:        time.Now,
	}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (r *MongoSubscriberRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			Keys: bson.D{{Key: "isActive", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create subscriber indexes: %w", err)
	}
	return nil
}

func (r *MongoSubscriberRepository) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	var s domain.Subscriber
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFoundError("Subscriber not found")
		}
		return nil, fmt.Errorf("failed to find subscriber: %w", err)
	}
	return &s, nil
}

// List returns subscribers newest first.
func (r *MongoSubscriberRepository) List(ctx context.Context, filter domain.SubscriberFilter) ([]domain.Subscriber, error) {
	query := bson.M{}
	if filter.Active != nil {
		query["isActive"] = *filter.Active
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"email": pattern},
			bson.M{"name": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "subscribedAt", Value: -1}})
	return r.find(ctx, query, opts)
}

// FindActive returns active subscribers. A nil emails slice means all of them.
func (r *MongoSubscriberRepository) FindActive(ctx context.Context, emails []string) ([]domain.Subscriber, error) {
	query := bson.M{"isActive": true}
	if emails != nil {
		query["email"] = bson.M{"$in": emails}
	}
	return r.find(ctx, query)
}

func (r *MongoSubscriberRepository) find(ctx context.Context, query bson.M, opts ...*options.FindOptions) ([]domain.Subscriber, error) {
	cursor, err := r.collection.Find(ctx, query, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer cursor.Close(ctx)

	subscribers := []domain.Subscriber{}
	if err := cursor.All(ctx, &subscribers); err != nil {
		return nil, fmt.Errorf("failed to decode subscribers: %w", err)
	}
	return subscribers, nil
}

func (r *MongoSubscriberRepository) Insert(ctx context.Context, s domain.Subscriber) (*domain.Subscriber, error) {
	if s.SubscribedAt.IsZero() {
		s.SubscribedAt = r.now().UTC()
	}
	s.ID = primitive.NilObjectID

	result, err := r.collection.InsertOne(ctx, s)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.NewConflictError("Subscriber with this email already exists")
		}
		return nil, fmt.Errorf("failed to insert subscriber: %w", err)
	}

	s.ID = result.InsertedID.(primitive.ObjectID)
	return &s, nil
}

// SetActive toggles the subscription. Deactivating stamps unsubscribedAt,
// reactivating clears it.
func (r *MongoSubscriberRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Subscriber, error) {
	return r.updateOne(ctx, bson.M{"_id": id}, activationUpdate(active, r.now().UTC(), ""))
}

// Reactivate marks the subscriber active again and refreshes the name when
// one is given.
func (r *MongoSubscriberRepository) Reactivate(ctx context.Context, id primitive.ObjectID, name string) (*domain.Subscriber, error) {
	return r.updateOne(ctx, bson.M{"_id": id}, activationUpdate(true, r.now().UTC(), name))
}

func (r *MongoSubscriberRepository) Unsubscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	return r.updateOne(ctx, bson.M{"email": email}, activationUpdate(false, r.now().UTC(), ""))
}

// RecordDelivery stamps lastEmailSent and increments totalEmailsSent.
func (r *MongoSubscriberRepository) RecordDelivery(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"lastEmailSent": at.UTC()},
		"$inc": bson.M{"totalEmailsSent": 1},
	})
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	return nil
}

func (r *MongoSubscriberRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError("Subscriber not found")
	}
	return nil
}

func (r *MongoSubscriberRepository) updateOne(ctx context.Context, filter, update bson.M) (*domain.Subscriber, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var s domain.Subscriber
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFoundError("Subscriber not found")
		}
		return nil, fmt.Errorf("failed to update subscriber: %w", err)
	}
	return &s, nil
}

func activationUpdate(active bool, now time.Time, name string) bson.M {
	if !active {
		return bson.M{"$set": bson.M{"isActive": false, "unsubscribedAt": now}}
	}

	set := bson.M{"isActive": true, "subscribedAt": now}
	if name != "" {
		set["name"] = name
	}
	return bson.M{
		"$set":   set,
		"$unset": bson.M{"unsubscribedAt": ""},
	}
}
