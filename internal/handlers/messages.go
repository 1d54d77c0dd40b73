package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/middleware"
	"campuslink-server/internal/models"
	"campuslink-server/internal/realtime"
	"campuslink-server/internal/utils"
)

// MessageHandler handles messages within a conversation and the global
// unread counter.
type MessageHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(db *gorm.DB, hub *realtime.Hub) *MessageHandler {
	return &MessageHandler{DB: db, Hub: hub}
}

// ListMessages marks all unread peer-authored messages in the
// conversation as read, then returns the full ordered message list.
// Opening a conversation is the only way read state advances.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	conversation, ok := h.loadConversation(c, userID)
	if !ok {
		return
	}

	if err := h.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversation.ID, userID, false).
		Update("is_read", true).Error; err != nil {
		utils.InternalServerError(c, "Failed to mark messages as read: "+err.Error())
		return
	}

	var messages []models.Message
	if err := h.DB.Preload("Sender").
		Where("conversation_id = ?", conversation.ID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch messages: "+err.Error())
		return
	}

	utils.Success(c, "Messages fetched successfully", messages)
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	Text       string             `json:"text"`
	Type       models.MessageType `json:"type"`
	Attachment string             `json:"attachment"`
}

// SendMessage appends a message and bumps the conversation's activity
// timestamp in one transaction, then pushes the message to the peer's
// open connections.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	conversation, ok := h.loadConversation(c, userID)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if req.Text == "" && req.Attachment == "" {
		utils.BadRequest(c, "Message text is required unless an attachment is present")
		return
	}
	if req.Type == "" {
		req.Type = models.MessageTypeText
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       userID,
		Text:           req.Text,
		Type:           req.Type,
		Attachment:     req.Attachment,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversation.ID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to send message: "+err.Error())
		return
	}

	if err := h.DB.Preload("Sender").First(&message, "id = ?", message.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to load message: "+err.Error())
		return
	}

	for i := range conversation.Users {
		if conversation.Users[i].ID != userID {
			h.Hub.Publish(conversation.Users[i].ID, realtime.Event{Type: "message", Payload: message})
		}
	}

	utils.Created(c, "Message sent successfully", message)
}

// DeleteMessage removes a single message. Sender only; no cascades and
// no conversation timestamp adjustment.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	messageID := c.Param("messageId")

	var message models.Message
	if err := h.DB.First(&message, "id = ?", messageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Message not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if message.SenderID != userID {
		utils.Forbidden(c, "You can only delete your own messages.")
		return
	}

	if err := h.DB.Delete(&message).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete message: "+err.Error())
		return
	}

	utils.Success(c, "Message deleted successfully", gin.H{"success": true})
}

// UnreadConversationCount returns the number of the caller's
// conversations holding at least one unread peer-authored message.
func (h *MessageHandler) UnreadConversationCount(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var count int64
	err := h.DB.Model(&models.Conversation{}).
		Distinct("conversations.id").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Joins("JOIN messages m ON m.conversation_id = conversations.id").
		Where("cp.user_id = ? AND m.sender_id <> ? AND m.is_read = ?", userID, userID, false).
		Count(&count).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to count unread conversations: "+err.Error())
		return
	}

	utils.Success(c, "Unread count fetched successfully", gin.H{"count": count})
}

// loadConversation fetches the conversation from the path parameter and
// enforces that the caller is a participant. Writes the error response
// itself and returns ok=false on failure.
func (h *MessageHandler) loadConversation(c *gin.Context, userID string) (*models.Conversation, bool) {
	conversationID := c.Param("conversationId")

	var conversation models.Conversation
	if err := h.DB.Preload("Users").First(&conversation, "id = ?", conversationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Conversation not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}

	if !isParticipant(&conversation, userID) {
		utils.Forbidden(c, "You are not a participant of this conversation.")
		return nil, false
	}

	return &conversation, true
}
