package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PasswordReset holds a pending reset token on the user document. The expiry is
// kept as an RFC3339 string; an unparsable value invalidates the token.
type PasswordReset struct {
	Token     string `bson:"token" json:"-"`
	ExpiresAt string `bson:"expires_at" json:"-"`
}

type EmailPreferences struct {
	Newsletter     bool `bson:"newsletter" json:"newsletter"`
	EventReminders bool `bson:"event_reminders" json:"eventReminders"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	Role           string             `bson:"role" json:"role"` // member, organizer, admin
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	JoinDate       time.Time          `bson:"join_date" json:"joinDate"`
	EventsCreated  int                `bson:"events_created" json:"eventsCreated"`
	VolunteerHours float64            `bson:"volunteer_hours" json:"volunteerHours"`
	Status         string             `bson:"status" json:"status"` // active, inactive
	EmailPrefs     *EmailPreferences  `bson:"email_preferences,omitempty" json:"emailPreferences,omitempty"`
	PasswordReset  *PasswordReset     `bson:"password_reset,omitempty" json:"-"`
}

// PublicUser is the projection returned by the auth endpoints.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
