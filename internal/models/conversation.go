package models

import (
	"fmt"
	"strings"
	"time"
)

// Conversation is a two-participant container for an ordered sequence of
// messages. PairKey is the canonicalized sorted participant pair; its
// unique index is what makes get-or-create safe under concurrent calls
// from both sides.
type Conversation struct {
	BaseModel
	PairKey string `gorm:"uniqueIndex;size:80;not null" json:"-"`

	Users    []User    `gorm:"many2many:conversation_participants;" json:"users,omitempty"`
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

// PairKeyFor canonicalizes an unordered user pair into the unique
// conversation key.
func PairKeyFor(userID, otherUserID string) string {
	if strings.Compare(userID, otherUserID) > 0 {
		userID, otherUserID = otherUserID, userID
	}
	return fmt.Sprintf("%s:%s", userID, otherUserID)
}

// ConversationPreview is the conversation-list projection: the other
// participant, the latest message text and the caller's unread count.
type ConversationPreview struct {
	ID          string          `json:"id"`
	OtherUser   ChatParticipant `json:"otherUser"`
	LastMessage string          `json:"lastMessage"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	UnreadCount int64           `json:"unreadCount"`
}
