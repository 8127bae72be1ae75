package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title           string               `bson:"title" json:"title"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	Date            string               `bson:"date" json:"date"` // e.g. 2026-05-01
	Time            string               `bson:"time" json:"time"` // e.g. 18:00
	Location        string               `bson:"location,omitempty" json:"location,omitempty"`
	Category        string               `bson:"category,omitempty" json:"category,omitempty"`
	Capacity        int                  `bson:"capacity" json:"capacity"`
	Registered      int                  `bson:"registered" json:"registered"`
	RegisteredUsers []primitive.ObjectID `bson:"registered_users" json:"registeredUsers"`
	ImageURL        string               `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Creator         primitive.ObjectID   `bson:"creator" json:"creator"`
	Status          string               `bson:"status" json:"status"` // draft, pending, published, rejected
	Tags            []string             `bson:"tags" json:"tags"`
	CreatedAt       time.Time            `bson:"created_at" json:"createdAt"`

	// Enriched fields
	IsRegistered *bool  `bson:"-" json:"isRegistered,omitempty"`
	CreatorName  string `bson:"-" json:"creatorName,omitempty"`
}
