package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/middleware"
	"campuslink-server/internal/models"
	"campuslink-server/internal/realtime"
	"campuslink-server/internal/utils"
)

// TeamFinderHandler handles team-finding posts and join requests.
type TeamFinderHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

// NewTeamFinderHandler creates a new TeamFinderHandler.
func NewTeamFinderHandler(db *gorm.DB, hub *realtime.Hub) *TeamFinderHandler {
	return &TeamFinderHandler{DB: db, Hub: hub}
}

type teamPostView struct {
	models.TeamPost
	IsOwner       bool   `json:"isOwner"`
	HasRequested  bool   `json:"hasRequested"`
	RequestStatus string `json:"requestStatus,omitempty"`
}

// ListTeamPosts returns open posts, optionally filtered by category and
// free-text query over title, description, looking-for, tags and author
// name. Leading '#' on a query is stripped so tag searches work.
func (h *TeamFinderHandler) ListTeamPosts(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	query := h.DB.Preload("Author").
		Joins("JOIN users ON users.id = team_posts.author_id").
		Where("team_posts.status = ?", models.TeamPostStatusOpen)

	if category := c.Query("category"); category != "" && category != "All" {
		query = query.Where("team_posts.type = ?", category)
	}
	if q := c.Query("q"); q != "" {
		cleaned := strings.TrimPrefix(strings.TrimSpace(q), "#")
		pattern := "%" + cleaned + "%"
		query = query.Where(
			"team_posts.title LIKE ? OR team_posts.description LIKE ? OR team_posts.looking_for LIKE ? OR team_posts.tags LIKE ? OR users.name LIKE ?",
			pattern, pattern, pattern, pattern, pattern)
	}

	var posts []models.TeamPost
	if err := query.Order("team_posts.created_at DESC").Find(&posts).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch team posts: "+err.Error())
		return
	}

	views := make([]teamPostView, 0, len(posts))
	for i := range posts {
		view := teamPostView{TeamPost: posts[i], IsOwner: posts[i].AuthorID == userID}
		var request models.TeamRequest
		if err := h.DB.Where("post_id = ? AND user_id = ?", posts[i].ID, userID).
			First(&request).Error; err == nil {
			view.HasRequested = true
			view.RequestStatus = request.Status
		}
		views = append(views, view)
	}

	utils.Success(c, "Team posts fetched successfully", views)
}

// CreateTeamPostRequest represents the request body for creating a post.
type CreateTeamPostRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Tags        []string `json:"tags"`
	LookingFor  string   `json:"lookingFor"`
}

// CreateTeamPost creates a new team-finding post authored by the caller.
func (h *TeamFinderHandler) CreateTeamPost(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateTeamPostRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	post := models.TeamPost{
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Tags:        req.Tags,
		LookingFor:  req.LookingFor,
		Status:      models.TeamPostStatusOpen,
	}
	if err := h.DB.Create(&post).Error; err != nil {
		utils.InternalServerError(c, "Failed to create team post: "+err.Error())
		return
	}

	utils.Created(c, "Team post created successfully", post)
}

// DeleteTeamPost removes a post. Author only.
func (h *TeamFinderHandler) DeleteTeamPost(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		PostID string `json:"postId" binding:"required"`
	}
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var post models.TeamPost
	if err := h.DB.First(&post, "id = ?", req.PostID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Team post not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if post.AuthorID != userID {
		utils.Forbidden(c, "You can only delete your own posts.")
		return
	}

	if err := h.DB.Delete(&post).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete team post: "+err.Error())
		return
	}

	utils.Success(c, "Team post deleted successfully", gin.H{"success": true})
}

// RequestToJoin files the caller's interest in a post and notifies its
// author. Duplicate requests conflict.
func (h *TeamFinderHandler) RequestToJoin(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		PostID string `json:"postId" binding:"required"`
	}
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var post models.TeamPost
	if err := h.DB.First(&post, "id = ?", req.PostID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Team post not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var existing models.TeamRequest
	if err := h.DB.Where("post_id = ? AND user_id = ?", req.PostID, userID).
		First(&existing).Error; err == nil {
		utils.Conflict(c, "Already requested")
		return
	}

	request := models.TeamRequest{UserID: userID, PostID: req.PostID}
	if err := h.DB.Create(&request).Error; err != nil {
		utils.InternalServerError(c, "Failed to create request: "+err.Error())
		return
	}

	notify(h.DB, h.Hub, userID, post.AuthorID, models.NotificationTeamRequest,
		"New Team Request",
		fmt.Sprintf("Someone requested to join your team for %q", post.Title),
		map[string]interface{}{"postId": post.ID, "requestId": request.ID})

	utils.Created(c, "Team request sent successfully", request)
}

// WithdrawRequest deletes the caller's request for a post.
func (h *TeamFinderHandler) WithdrawRequest(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		PostID string `json:"postId" binding:"required"`
	}
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result := h.DB.Where("post_id = ? AND user_id = ?", req.PostID, userID).
		Delete(&models.TeamRequest{})
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete request: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Request not found")
		return
	}

	utils.Success(c, "Team request withdrawn successfully", gin.H{"success": true})
}
