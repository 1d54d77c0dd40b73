package handlers

import (
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/middleware"
	"campuslink-server/internal/models"
	"campuslink-server/internal/utils"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// profileCounts summarizes what a user has posted.
type profileCounts struct {
	Ventures  int64 `json:"ventures"`
	TeamPosts int64 `json:"teamPosts"`
	Listings  int64 `json:"listings"`
	Rides     int64 `json:"rides"`
}

// meView is the authenticated caller's full profile: identity, counts,
// everything they have requested and everything they have offered.
type meView struct {
	models.UserSanitized
	Counts        profileCounts               `json:"_count"`
	TeamRequests  []models.TeamRequest        `json:"teamRequests"`
	RideRequests  []models.RideRequest        `json:"rideRequests"`
	TutorRequests []models.TutorRequest       `json:"tutorRequests"`
	TeamPosts     []models.TeamPost           `json:"teamPosts"`
	HostedRides   []models.Ride               `json:"hostedRides"`
	Listings      []models.MarketplaceListing `json:"listings"`
	TutorProfile  *models.TutorProfile        `json:"tutorProfile"`
	Ventures      []models.Venture            `json:"ventures"`
	IsOwner       bool                        `json:"isOwner"`
}

// Me returns the caller's profile with counts, own posts and filed
// requests. The related-entity lists are independent queries issued
// concurrently.
func (h *UserHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	view := meView{
		UserSanitized: user.Sanitize(),
		TeamRequests:  []models.TeamRequest{},
		RideRequests:  []models.RideRequest{},
		TutorRequests: []models.TutorRequest{},
		TeamPosts:     []models.TeamPost{},
		HostedRides:   []models.Ride{},
		Listings:      []models.MarketplaceListing{},
		Ventures:      []models.Venture{},
		IsOwner:       true,
	}

	var wg sync.WaitGroup
	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	run(func() {
		h.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&view.TeamRequests)
	})
	run(func() {
		h.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&view.RideRequests)
	})
	run(func() {
		h.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&view.TutorRequests)
	})
	run(func() {
		h.DB.Where("author_id = ?", userID).Order("created_at DESC").Find(&view.TeamPosts)
	})
	run(func() {
		h.DB.Where("host_id = ?", userID).Order("created_at DESC").Find(&view.HostedRides)
	})
	run(func() {
		h.DB.Where("seller_id = ?", userID).Order("created_at DESC").Find(&view.Listings)
	})
	run(func() {
		h.DB.Where("owner_id = ?", userID).Order("created_at DESC").Find(&view.Ventures)
	})
	run(func() {
		var profile models.TutorProfile
		if err := h.DB.Where("user_id = ?", userID).First(&profile).Error; err == nil {
			view.TutorProfile = &profile
		}
	})
	wg.Wait()

	view.Counts = profileCounts{
		Ventures:  int64(len(view.Ventures)),
		TeamPosts: int64(len(view.TeamPosts)),
		Listings:  int64(len(view.Listings)),
		Rides:     int64(len(view.HostedRides)),
	}

	utils.Success(c, "Profile fetched successfully", view)
}

// UpdateMeRequest represents the request body for editing the caller's
// profile. Empty fields are left unchanged.
type UpdateMeRequest struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Branch    string `json:"branch"`
	Year      string `json:"year"`
	Hostel    string `json:"hostel"`
	Image     string `json:"image"`
	Banner    string `json:"banner"`
	Github    string `json:"github"`
	Linkedin  string `json:"linkedin"`
	Instagram string `json:"instagram"`
	Phone     string `json:"phone"`
}

// UpdateMe edits the caller's profile.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Branch != "" {
		user.Branch = req.Branch
	}
	if req.Year != "" {
		user.Year = req.Year
	}
	if req.Hostel != "" {
		user.Hostel = req.Hostel
	}
	if req.Image != "" {
		user.Image = req.Image
	}
	if req.Banner != "" {
		user.Banner = req.Banner
	}
	if req.Github != "" {
		user.Github = req.Github
	}
	if req.Linkedin != "" {
		user.Linkedin = req.Linkedin
	}
	if req.Instagram != "" {
		user.Instagram = req.Instagram
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}

	utils.Success(c, "Profile updated successfully", user.Sanitize())
}

// publicProfileView is another user's profile with posting counts.
type publicProfileView struct {
	models.UserSanitized
	Counts  profileCounts `json:"_count"`
	IsOwner bool          `json:"isOwner"`
}

// GetUserByID returns a user's public profile with counts.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	callerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	targetID := c.Param("userId")

	var user models.User
	if err := h.DB.First(&user, "id = ?", targetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	view := publicProfileView{
		UserSanitized: user.Sanitize(),
		IsOwner:       user.ID == callerID,
	}
	h.DB.Model(&models.Venture{}).Where("owner_id = ?", user.ID).Count(&view.Counts.Ventures)
	h.DB.Model(&models.TeamPost{}).Where("author_id = ?", user.ID).Count(&view.Counts.TeamPosts)
	h.DB.Model(&models.MarketplaceListing{}).Where("seller_id = ?", user.ID).Count(&view.Counts.Listings)
	h.DB.Model(&models.Ride{}).Where("host_id = ?", user.ID).Count(&view.Counts.Rides)

	utils.Success(c, "User fetched successfully", view)
}
