package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/samudaya/community-events-go/models"
)

// EventRepository defines the store operations on the events collection.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)

	// ListVisible returns events with status published or pending.
	ListVisible(ctx context.Context) ([]models.Event, error)
	ListByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.Event, error)
	ListPending(ctx context.Context) ([]models.Event, error)

	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Register appends the user and bumps the counter in one conditional update,
	// so concurrent callers cannot overshoot capacity or duplicate an entry.
	Register(ctx context.Context, eventID, userID primitive.ObjectID) error

	// SetStatus is idempotent: matching an already-set status is not an error.
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	SetImageURL(ctx context.Context, id primitive.ObjectID, url string) error

	CountByStatus(ctx context.Context, status string) (int64, error)
	TopRegistered(ctx context.Context, limit int64) ([]models.Event, error)
}

const eventCollection = "events"

type eventMongoRepository struct {
	col *mongo.Collection
}

func NewEventMongoRepository(db *mongo.Database) EventRepository {
	return &eventMongoRepository{col: db.Collection(eventCollection)}
}

func (r *eventMongoRepository) Create(ctx context.Context, event *models.Event) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.InsertOne(ctx, event)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *eventMongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var event models.Event
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventMongoRepository) ListVisible(ctx context.Context) ([]models.Event, error) {
	return r.find(ctx, bson.M{"status": bson.M{"$in": []string{"published", "pending"}}}, nil)
}

func (r *eventMongoRepository) ListByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.Event, error) {
	return r.find(ctx, bson.M{"creator": creator}, nil)
}

func (r *eventMongoRepository) ListPending(ctx context.Context) ([]models.Event, error) {
	return r.find(ctx, bson.M{"status": bson.M{"$in": []string{"pending", "draft"}}}, nil)
}

func (r *eventMongoRepository) TopRegistered(ctx context.Context, limit int64) ([]models.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "registered", Value: -1}}).
		SetLimit(limit)
	return r.find(ctx, bson.M{"status": "published"}, opts)
}

func (r *eventMongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.col.Find(ctx, filter, opts)
	} else {
		cursor, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventMongoRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventMongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventMongoRepository) Register(ctx context.Context, eventID, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Guard membership and capacity server-side in the match filter.
	filter := bson.M{
		"_id":              eventID,
		"registered_users": bson.M{"$ne": userID},
		"$expr": bson.M{
			"$lt": bson.A{bson.M{"$size": "$registered_users"}, "$capacity"},
		},
	}
	update := bson.M{
		"$addToSet": bson.M{"registered_users": userID},
		"$inc":      bson.M{"registered": 1},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: read the event once to classify the refusal.
	event, err := r.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	for _, uid := range event.RegisteredUsers {
		if uid == userID {
			return ErrAlreadyRegistered
		}
	}
	return ErrEventFull
}

func (r *eventMongoRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return r.Update(ctx, id, bson.M{"status": status})
}

func (r *eventMongoRepository) SetImageURL(ctx context.Context, id primitive.ObjectID, url string) error {
	return r.Update(ctx, id, bson.M{"image_url": url})
}

func (r *eventMongoRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"status": status})
}
