package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ForumThread struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Author       string             `bson:"author" json:"author"`
	Category     string             `bson:"category" json:"category"` // Ideas, Feedback, Help
	Replies      int                `bson:"replies" json:"replies"`
	Likes        int                `bson:"likes" json:"likes"`
	Tags         []string           `bson:"tags" json:"tags"`
	IsPinned     bool               `bson:"is_pinned" json:"isPinned"`
	Flags        int                `bson:"flags" json:"flags"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	LastActivity time.Time          `bson:"last_activity" json:"lastActivity"`
}
