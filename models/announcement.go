package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Announcement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Type      string             `bson:"type" json:"type"` // Info, Emergency, Event Update
	Author    string             `bson:"author" json:"author"`
	Date      time.Time          `bson:"date" json:"date"`
	ExpiresOn string             `bson:"expires_on,omitempty" json:"expiresOn,omitempty"`
}
