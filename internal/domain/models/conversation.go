// internal/domain/models/conversation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation lifecycle statuses.
const (
	ConversationActive      = "active"
	ConversationSoftDeleted = "soft_deleted"
	ConversationHardDeleted = "hard_deleted"
)

// Conversation is a chat thread. Personal chats (one participant talking to
// the assistant) age out on LastMessageAt; group conversations are retained
// until their group is deleted.
type Conversation struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	Title          string              `bson:"title" json:"title"`
	Participants   []string            `bson:"participants" json:"participants"`
	GroupID        *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`
	IsPersonalChat bool                `bson:"is_personal_chat" json:"is_personal_chat"`
	MessageCount   int                 `bson:"message_count" json:"message_count"`
	LastMessageAt  time.Time           `bson:"last_message_at" json:"last_message_at"`

	Status        string     `bson:"status" json:"status"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	SoftDeletedAt *time.Time `bson:"soft_deleted_at,omitempty" json:"soft_deleted_at,omitempty"`
	HardDeletedAt *time.Time `bson:"hard_deleted_at,omitempty" json:"hard_deleted_at,omitempty"`
}

// NewConversation builds an active conversation. LastMessageAt starts at the
// creation time so a freshly created chat is never an immediate cleanup
// candidate.
func NewConversation(title string, participants []string, groupID *primitive.ObjectID, personal bool, now time.Time) Conversation {
	return Conversation{
		ID:             primitive.NewObjectID(),
		Title:          title,
		Participants:   participants,
		GroupID:        groupID,
		IsPersonalChat: personal,
		LastMessageAt:  now,
		Status:         ConversationActive,
		CreatedAt:      now,
	}
}
