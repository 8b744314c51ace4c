// internal/domain/models/notification.go
package models

import "time"

// Notification kinds emitted by this service. Campaign and payment kinds are
// written by their own subsystems into the same collection.
const (
	NotificationTeamInvite = "team_invite"
)

// Notification is an in-app message for a single user.
type Notification struct {
	ID     string `bson:"_id" json:"id"`
	UserID string `bson:"user_id" json:"user_id"`
	Type   string `bson:"type" json:"type"`

	Title string         `bson:"title" json:"title"`
	Body  string         `bson:"body" json:"body"`
	Data  map[string]any `bson:"data,omitempty" json:"data,omitempty"`

	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
