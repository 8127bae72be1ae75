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

type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) (primitive.ObjectID, error)
	// ListRecent returns announcements sorted by date, newest first.
	ListRecent(ctx context.Context) ([]models.Announcement, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const announcementCollection = "announcements"

type announcementMongoRepository struct {
	col *mongo.Collection
}

func NewAnnouncementMongoRepository(db *mongo.Database) AnnouncementRepository {
	return &announcementMongoRepository{col: db.Collection(announcementCollection)}
}

func (r *announcementMongoRepository) Create(ctx context.Context, a *models.Announcement) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *announcementMongoRepository) ListRecent(ctx context.Context) ([]models.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	announcements := []models.Announcement{}
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

func (r *announcementMongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
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
