package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/middleware"
	"campuslink-server/internal/models"
	"campuslink-server/internal/realtime"
	"campuslink-server/internal/utils"
)

// NotificationHandler exposes the per-user notification inbox.
type NotificationHandler struct {
	DB *gorm.DB
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

// notify creates a notification for recipientID and pushes it to their
// open connections. Failures are logged, never propagated: the
// triggering operation succeeds regardless. actorID == recipientID is
// a no-op.
func notify(db *gorm.DB, hub *realtime.Hub, actorID, recipientID, notifType, title, message string, metadata map[string]interface{}) {
	if actorID == recipientID {
		return
	}

	notification := models.Notification{
		UserID:   recipientID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Metadata: metadata,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("notifications: failed to create %s for user %s: %v", notifType, recipientID, err)
		return
	}

	if hub != nil {
		hub.Publish(recipientID, realtime.Event{Type: "notification", Payload: notification})
	}
}

// ListNotifications returns the caller's notifications, newest first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var notifications []models.Notification
	if err := h.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch notifications: "+err.Error())
		return
	}

	utils.Success(c, "Notifications fetched successfully", notifications)
}

// MarkNotificationRead flips the read flag. Ownership-scoped: targeting
// another user's notification reads as not found.
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	notificationID := c.Param("notificationId")

	result := h.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to update notification: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Notification not found")
		return
	}

	var notification models.Notification
	if err := h.DB.First(&notification, "id = ?", notificationID).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch notification: "+err.Error())
		return
	}

	utils.Success(c, "Notification marked as read", notification)
}

// DeleteNotification removes a notification. Ownership-scoped.
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	notificationID := c.Param("notificationId")

	result := h.DB.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete notification: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Notification not found")
		return
	}

	utils.Success(c, "Notification deleted successfully", gin.H{"success": true})
}

// UnreadNotificationCount returns the number of unread notifications for
// the caller's badge counter.
func (h *NotificationHandler) UnreadNotificationCount(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var count int64
	if err := h.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		utils.InternalServerError(c, "Failed to count notifications: "+err.Error())
		return
	}

	utils.Success(c, "Unread count fetched successfully", gin.H{"count": count})
}
