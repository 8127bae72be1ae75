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

type ForumRepository interface {
	Create(ctx context.Context, t *models.ForumThread) (primitive.ObjectID, error)
	// ListRecent returns threads sorted by creation time, newest first.
	ListRecent(ctx context.Context) ([]models.ForumThread, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Pin sets the pinned flag; pinning an already-pinned thread succeeds.
	Pin(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

const forumCollection = "forum_threads"

type forumMongoRepository struct {
	col *mongo.Collection
}

func NewForumMongoRepository(db *mongo.Database) ForumRepository {
	return &forumMongoRepository{col: db.Collection(forumCollection)}
}

func (r *forumMongoRepository) Create(ctx context.Context, t *models.ForumThread) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.InsertOne(ctx, t)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *forumMongoRepository) ListRecent(ctx context.Context) ([]models.ForumThread, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	threads := []models.ForumThread{}
	if err := cursor.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *forumMongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
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

func (r *forumMongoRepository) Pin(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_pinned": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *forumMongoRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}
