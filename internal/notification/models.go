package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
)

const (
	CategoryProject  = "project"
	CategoryMessage  = "message"
	CategorySystem   = "system"
	CategoryReminder = "reminder"
)

// Notification is a per-recipient feed entry. Optional sender fields are
// omitted from the document when blank, never stored as empty strings.
type Notification struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID  string             `bson:"recipient_id" json:"recipient_id"`
	Title        string             `bson:"title" json:"title"`
	Message      string             `bson:"message" json:"message"`
	Type         string             `bson:"type" json:"type"`
	Category     string             `bson:"category" json:"category"`
	IsRead       bool               `bson:"is_read" json:"is_read"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	ActionURL    string             `bson:"action_url,omitempty" json:"action_url,omitempty"`
	SenderID     string             `bson:"sender_id,omitempty" json:"sender_id,omitempty"`
	SenderName   string             `bson:"sender_name,omitempty" json:"sender_name,omitempty"`
	SenderAvatar string             `bson:"sender_avatar,omitempty" json:"sender_avatar,omitempty"`
}
