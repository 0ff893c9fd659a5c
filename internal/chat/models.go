package chat

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MessageTypeText  = "text"
	MessageTypeFile  = "file"
	MessageTypeImage = "image"
)

// SystemSenderID authors the membership-change messages appended to group
// conversations.
const SystemSenderID = "system"

// Message belongs to a conversation. Messages are fetched unordered and
// sorted by timestamp on the way out; callers must not assume store order.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id"`
	SenderID       string             `bson:"sender_id" json:"sender_id"`
	Content        string             `bson:"content" json:"content"`
	Timestamp      time.Time          `bson:"timestamp" json:"timestamp"`
	Type           string             `bson:"type" json:"type"`
	FileURL        string             `bson:"file_url,omitempty" json:"file_url,omitempty"`
	FileName       string             `bson:"file_name,omitempty" json:"file_name,omitempty"`
	IsRead         bool               `bson:"is_read" json:"is_read"`
}

// Conversation is direct (exactly two participants) or a group. LastMessage
// is a denormalized read-optimization, never the source of truth; the
// message collection is authoritative. Blank optional fields are omitted
// from the document rather than stored as empty strings.
type Conversation struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Participants []string           `bson:"participants" json:"participants"`
	IsGroup      bool               `bson:"is_group" json:"is_group"`
	GroupName    string             `bson:"group_name,omitempty" json:"group_name,omitempty"`
	GroupAvatar  string             `bson:"group_avatar,omitempty" json:"group_avatar,omitempty"`
	LastMessage  *Message           `bson:"last_message,omitempty" json:"last_message,omitempty"`
	UnreadCount  int                `bson:"unread_count" json:"unread_count"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// ConversationStats is the read-only aggregate returned by the stats
// endpoint. No caching; every call recounts.
type ConversationStats struct {
	MessageCount     int64     `json:"message_count"`
	ParticipantCount int       `json:"participant_count"`
	LastActivity     time.Time `json:"last_activity"`
}
