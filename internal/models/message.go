package models

// MessageType tags the payload kind of a message.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeAudio MessageType = "audio"
	MessageTypeFile  MessageType = "file"
)

// Message belongs to exactly one conversation. Text may be empty only
// when an attachment is present. Read flips to true when the recipient
// fetches the conversation, never any other way.
type Message struct {
	BaseModel
	ConversationID string      `gorm:"size:36;index;not null" json:"conversationId"`
	SenderID       string      `gorm:"size:36;index" json:"senderId"`
	Text           string      `gorm:"type:text" json:"text"`
	Type           MessageType `gorm:"size:20;default:'text'" json:"type"`
	Attachment     string      `gorm:"type:longtext" json:"attachment,omitempty"` // data URI or uploaded URL
	Read           bool        `gorm:"column:is_read;default:false;index" json:"read"`

	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"-"`
	Sender       User         `gorm:"foreignKey:SenderID" json:"sender"`
}
