package repositories

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/samudaya/community-events-go/models"
)

type VolunteerRepository interface {
	// Create inserts a sign-up. ErrDuplicateSignup when a record for the
	// (user, event) pair already exists.
	Create(ctx context.Context, rec *models.VolunteerRecord) (primitive.ObjectID, error)
	List(ctx context.Context) ([]models.VolunteerRecord, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.VolunteerRecord, error)
	ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.VolunteerRecord, error)
	Count(ctx context.Context) (int64, error)
}

const volunteerCollection = "volunteers"

type volunteerMongoRepository struct {
	col *mongo.Collection
}

// NewVolunteerMongoRepository creates the repository and ensures the unique
// (user_id, event_id) index that enforces one sign-up per user per event.
func NewVolunteerMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) VolunteerRepository {
	col := db.Collection(volunteerCollection)

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "event_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create volunteer indexes")
	}

	return &volunteerMongoRepository{col: col}
}

func (r *volunteerMongoRepository) Create(ctx context.Context, rec *models.VolunteerRecord) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateSignup
		}
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *volunteerMongoRepository) List(ctx context.Context) ([]models.VolunteerRecord, error) {
	return r.find(ctx, bson.M{})
}

func (r *volunteerMongoRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.VolunteerRecord, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *volunteerMongoRepository) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.VolunteerRecord, error) {
	return r.find(ctx, bson.M{"event_id": eventID})
}

func (r *volunteerMongoRepository) find(ctx context.Context, filter bson.M) ([]models.VolunteerRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	records := []models.VolunteerRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *volunteerMongoRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}
