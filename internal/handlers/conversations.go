package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/middleware"
	"campuslink-server/internal/models"
	"campuslink-server/internal/utils"
)

// ConversationHandler handles the conversation list and lifecycle.
type ConversationHandler struct {
	DB *gorm.DB
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(db *gorm.DB) *ConversationHandler {
	return &ConversationHandler{DB: db}
}

// ListConversations returns every conversation the caller participates
// in, newest activity first, annotated with the other participant, the
// latest message preview and the caller's unread count. Fetching the
// list doubles as the presence heartbeat.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	// Heartbeat: the conversation list is polled while the app is open.
	now := time.Now()
	h.DB.Model(&models.User{}).Where("id = ?", userID).Update("last_seen", &now)

	var conversations []models.Conversation
	err := h.DB.Preload("Users").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch conversations: "+err.Error())
		return
	}

	previews := make([]models.ConversationPreview, 0, len(conversations))
	for i := range conversations {
		previews = append(previews, h.preview(&conversations[i], userID))
	}

	utils.Success(c, "Conversations fetched successfully", previews)
}

// GetOrCreateConversationRequest represents the request body for opening
// a conversation with another user.
type GetOrCreateConversationRequest struct {
	TargetUserID string `json:"targetUserId" binding:"required"`
}

// GetOrCreateConversation locates the conversation for the caller/target
// pair, creating it if absent. The unique pair key makes concurrent
// creation from both sides converge on one row.
func (h *ConversationHandler) GetOrCreateConversation(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req GetOrCreateConversationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if req.TargetUserID == userID {
		utils.BadRequest(c, "Cannot start a conversation with yourself")
		return
	}

	var target models.User
	if err := h.DB.First(&target, "id = ?", req.TargetUserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Target user not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	pairKey := models.PairKeyFor(userID, req.TargetUserID)

	var conversation models.Conversation
	err := h.DB.Preload("Users").Where("pair_key = ?", pairKey).First(&conversation).Error
	if err == nil {
		utils.Success(c, "Conversation fetched successfully", h.preview(&conversation, userID))
		return
	}
	if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	var caller models.User
	if err := h.DB.First(&caller, "id = ?", userID).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	conversation = models.Conversation{
		PairKey: pairKey,
		Users:   []models.User{caller, target},
	}
	if err := h.DB.Omit("Users.*").Create(&conversation).Error; err != nil {
		// The other participant may have created it concurrently; the
		// unique pair key turns that race into a re-fetch.
		var existing models.Conversation
		if ferr := h.DB.Preload("Users").Where("pair_key = ?", pairKey).First(&existing).Error; ferr == nil {
			utils.Success(c, "Conversation fetched successfully", h.preview(&existing, userID))
			return
		}
		utils.InternalServerError(c, "Failed to create conversation: "+err.Error())
		return
	}

	utils.Created(c, "Conversation created successfully", h.preview(&conversation, userID))
}

// DeleteConversation deletes a conversation and all its messages.
// Participants only.
func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	conversationID := c.Param("conversationId")

	var conversation models.Conversation
	if err := h.DB.Preload("Users").First(&conversation, "id = ?", conversationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Conversation not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !isParticipant(&conversation, userID) {
		utils.Forbidden(c, "You are not a participant of this conversation.")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversation.ID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&conversation).Association("Users").Clear(); err != nil {
			return err
		}
		return tx.Delete(&conversation).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete conversation: "+err.Error())
		return
	}

	utils.Success(c, "Conversation deleted successfully", gin.H{"success": true})
}

// preview builds the conversation-list projection for one caller.
func (h *ConversationHandler) preview(conversation *models.Conversation, userID string) models.ConversationPreview {
	preview := models.ConversationPreview{
		ID:          conversation.ID,
		LastMessage: "No messages yet",
		UpdatedAt:   conversation.UpdatedAt,
	}

	for i := range conversation.Users {
		if conversation.Users[i].ID != userID {
			preview.OtherUser = conversation.Users[i].AsChatParticipant()
			break
		}
	}

	var lastMessage models.Message
	if err := h.DB.Where("conversation_id = ?", conversation.ID).
		Order("created_at DESC").First(&lastMessage).Error; err == nil {
		if lastMessage.Text != "" {
			preview.LastMessage = lastMessage.Text
		} else {
			preview.LastMessage = "Attachment"
		}
	}

	h.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversation.ID, userID, false).
		Count(&preview.UnreadCount)

	return preview
}

func isParticipant(conversation *models.Conversation, userID string) bool {
	for i := range conversation.Users {
		if conversation.Users[i].ID == userID {
			return true
		}
	}
	return false
}
