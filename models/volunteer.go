package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VolunteerRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"userId"`
	EventID      primitive.ObjectID `bson:"event_id" json:"eventId"`
	Role         string             `bson:"role" json:"role"`
	Hours        float64            `bson:"hours" json:"hours"`
	Status       string             `bson:"status" json:"status"` // upcoming, completed
	RegisteredAt time.Time          `bson:"registered_at" json:"registeredAt"`

	// Enriched fields
	EventTitle string `bson:"-" json:"eventTitle,omitempty"`
	EventDate  string `bson:"-" json:"eventDate,omitempty"`
	UserName   string `bson:"-" json:"userName,omitempty"`
	UserEmail  string `bson:"-" json:"userEmail,omitempty"`
}
