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

// UserRepository defines the store operations on the users collection.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)

	// Update applies an allow-listed $set document. ErrNotFound when no document matched.
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error

	SetPasswordReset(ctx context.Context, id primitive.ObjectID, reset models.PasswordReset) error
	CompletePasswordReset(ctx context.Context, id primitive.ObjectID, passwordHash string) error

	IncrementEventsCreated(ctx context.Context, id primitive.ObjectID) error
	AddVolunteerHours(ctx context.Context, id primitive.ObjectID, hours float64) error

	CountActive(ctx context.Context) (int64, error)
	CountJoinedSince(ctx context.Context, since time.Time) (int64, error)
}

const userCollection = "users"

type userMongoRepository struct {
	col *mongo.Collection
}

// NewUserMongoRepository creates the repository and ensures the unique email index.
// The index makes register's uniqueness check atomic instead of check-then-insert.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	col := db.Collection(userCollection)

	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "password_reset.token", Value: 1}},
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{col: col}
}

func (r *userMongoRepository) Create(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateEmail
		}
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *userMongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userMongoRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongoRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"password_reset.token": token})
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userMongoRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userMongoRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userMongoRepository) SetPasswordReset(ctx context.Context, id primitive.ObjectID, reset models.PasswordReset) error {
	return r.Update(ctx, id, bson.M{"password_reset": reset})
}

func (r *userMongoRepository) CompletePasswordReset(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"password_reset": ""},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userMongoRepository) IncrementEventsCreated(ctx context.Context, id primitive.ObjectID) error {
	return r.increment(ctx, id, bson.M{"events_created": 1})
}

func (r *userMongoRepository) AddVolunteerHours(ctx context.Context, id primitive.ObjectID, hours float64) error {
	return r.increment(ctx, id, bson.M{"volunteer_hours": hours})
}

func (r *userMongoRepository) increment(ctx context.Context, id primitive.ObjectID, inc bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": inc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userMongoRepository) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"status": "active"})
}

func (r *userMongoRepository) CountJoinedSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"join_date": bson.M{"$gte": since}})
}
