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

// TutorHandler handles tutor profiles and session requests.
type TutorHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

// NewTutorHandler creates a new TutorHandler.
func NewTutorHandler(db *gorm.DB, hub *realtime.Hub) *TutorHandler {
	return &TutorHandler{DB: db, Hub: hub}
}

type tutorView struct {
	models.TutorProfile
	Name          string `json:"name"`
	Image         string `json:"image,omitempty"`
	Year          string `json:"year,omitempty"`
	Branch        string `json:"branch,omitempty"`
	IsOwner       bool   `json:"isOwner"`
	HasRequested  bool   `json:"hasRequested"`
	RequestStatus string `json:"requestStatus,omitempty"`
}

// ListTutors returns all tutor profiles annotated with the tutor's
// public details and the caller's request state. The free-text query
// matches tutor name and subjects.
func (h *TutorHandler) ListTutors(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var profiles []models.TutorProfile
	if err := h.DB.Preload("User").Find(&profiles).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch tutors: "+err.Error())
		return
	}

	q := strings.ToLower(c.Query("q"))

	views := make([]tutorView, 0, len(profiles))
	for i := range profiles {
		profile := profiles[i]
		if q != "" && !tutorMatches(&profile, q) {
			continue
		}

		view := tutorView{
			TutorProfile: profile,
			Name:         profile.User.Name,
			Image:        profile.User.Image,
			Year:         profile.User.Year,
			Branch:       profile.User.Branch,
			IsOwner:      profile.UserID == userID,
		}
		var request models.TutorRequest
		if err := h.DB.Where("tutor_profile_id = ? AND user_id = ?", profile.ID, userID).
			First(&request).Error; err == nil {
			view.HasRequested = true
			view.RequestStatus = request.Status
		}
		views = append(views, view)
	}

	utils.Success(c, "Tutors fetched successfully", views)
}

func tutorMatches(profile *models.TutorProfile, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(profile.User.Name), lowerQuery) {
		return true
	}
	if strings.Contains(strings.ToLower(profile.Bio), lowerQuery) {
		return true
	}
	for _, subject := range profile.Subjects {
		if strings.Contains(strings.ToLower(subject), lowerQuery) {
			return true
		}
	}
	return false
}

// UpsertTutorProfileRequest represents the request body for becoming or
// updating a tutor.
type UpsertTutorProfileRequest struct {
	Subjects []string `json:"subjects" binding:"required,min=1"`
	Rate     float64  `json:"rate"`
	Bio      string   `json:"bio"`
}

// UpsertTutorProfile creates the caller's tutor profile or updates the
// existing one. One profile per user.
func (h *TutorHandler) UpsertTutorProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpsertTutorProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.TutorProfile
	err := h.DB.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		existing.Subjects = req.Subjects
		existing.HourlyRate = req.Rate
		existing.Bio = req.Bio
		if err := h.DB.Save(&existing).Error; err != nil {
			utils.InternalServerError(c, "Failed to update tutor profile: "+err.Error())
			return
		}
		utils.Success(c, "Tutor profile updated successfully", existing)
		return
	}
	if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	profile := models.TutorProfile{
		UserID:     userID,
		Subjects:   req.Subjects,
		HourlyRate: req.Rate,
		Bio:        req.Bio,
	}
	if err := h.DB.Create(&profile).Error; err != nil {
		utils.InternalServerError(c, "Failed to create tutor profile: "+err.Error())
		return
	}

	utils.Created(c, "Tutor profile created successfully", profile)
}

// DeleteTutorProfile removes the caller's own tutor profile.
func (h *TutorHandler) DeleteTutorProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	result := h.DB.Where("user_id = ?", userID).Delete(&models.TutorProfile{})
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete tutor profile: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Tutor profile not found")
		return
	}

	utils.Success(c, "Tutor profile deleted successfully", gin.H{"success": true})
}

// RequestTutor files the caller's interest in a tutor's sessions and
// notifies the tutor. Duplicate requests conflict.
func (h *TutorHandler) RequestTutor(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		TutorProfileID string `json:"tutorProfileId" binding:"required"`
	}
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var profile models.TutorProfile
	if err := h.DB.First(&profile, "id = ?", req.TutorProfileID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Tutor profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var existing models.TutorRequest
	if err := h.DB.Where("tutor_profile_id = ? AND user_id = ?", req.TutorProfileID, userID).
		First(&existing).Error; err == nil {
		utils.Conflict(c, "Request already sent")
		return
	}

	request := models.TutorRequest{UserID: userID, TutorProfileID: req.TutorProfileID}
	if err := h.DB.Create(&request).Error; err != nil {
		utils.InternalServerError(c, "Failed to create request: "+err.Error())
		return
	}

	notify(h.DB, h.Hub, userID, profile.UserID, models.NotificationTutorRequest,
		"New Tutor Request",
		fmt.Sprintf("Someone requested a tutor session for %s", strings.Join(profile.Subjects, ", ")),
		map[string]interface{}{"tutorProfileId": profile.ID, "requestId": request.ID})

	utils.Created(c, "Tutor request sent successfully", request)
}

// CancelTutorRequest withdraws the caller's request for a tutor.
func (h *TutorHandler) CancelTutorRequest(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		TutorProfileID string `json:"tutorProfileId" binding:"required"`
	}
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result := h.DB.Where("tutor_profile_id = ? AND user_id = ?", req.TutorProfileID, userID).
		Delete(&models.TutorRequest{})
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete request: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Request not found")
		return
	}

	utils.Success(c, "Tutor request withdrawn successfully", gin.H{"success": true})
}
