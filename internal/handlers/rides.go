package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/middleware"
	"campuslink-server/internal/models"
	"campuslink-server/internal/realtime"
	"campuslink-server/internal/utils"
)

// RideHandler handles ride-share offers and join requests.
type RideHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(db *gorm.DB, hub *realtime.Hub) *RideHandler {
	return &RideHandler{DB: db, Hub: hub}
}

// rideView annotates a ride with the caller's relationship to it.
type rideView struct {
	models.Ride
	IsOwner       bool   `json:"isOwner"`
	HasRequested  bool   `json:"hasRequested"`
	RequestStatus string `json:"requestStatus,omitempty"`
}

// ListRides returns active rides, optionally filtered by origin or
// destination, soonest first.
func (h *RideHandler) ListRides(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	query := h.DB.Preload("Host").Where("status = ?", models.RideStatusActive)
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("`from` LIKE ? OR `to` LIKE ?", pattern, pattern)
	}

	var rides []models.Ride
	if err := query.Order("date ASC").Find(&rides).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch rides: "+err.Error())
		return
	}

	views := make([]rideView, 0, len(rides))
	for i := range rides {
		view := rideView{Ride: rides[i], IsOwner: rides[i].HostID == userID}
		var request models.RideRequest
		if err := h.DB.Where("ride_id = ? AND user_id = ?", rides[i].ID, userID).
			First(&request).Error; err == nil {
			view.HasRequested = true
			view.RequestStatus = request.Status
		}
		views = append(views, view)
	}

	utils.Success(c, "Rides fetched successfully", views)
}

// CreateRideRequestBody represents the request body for posting a ride.
type CreateRideRequestBody struct {
	From        string    `json:"from" binding:"required"`
	To          string    `json:"to" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Price       float64   `json:"price"`
	Seats       int       `json:"seats" binding:"required,min=1"`
	Description string    `json:"description"`
}

// CreateRide posts a new ride hosted by the caller.
func (h *RideHandler) CreateRide(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateRideRequestBody
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ride := models.Ride{
		HostID:      userID,
		From:        req.From,
		To:          req.To,
		Date:        req.Date,
		Price:       req.Price,
		Seats:       req.Seats,
		Description: req.Description,
		Status:      models.RideStatusActive,
	}
	if err := h.DB.Create(&ride).Error; err != nil {
		utils.InternalServerError(c, "Failed to create ride: "+err.Error())
		return
	}

	utils.Created(c, "Ride created successfully", ride)
}

// DeleteRide removes a ride. Host only.
func (h *RideHandler) DeleteRide(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		RideID string `json:"rideId" binding:"required"`
	}
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var ride models.Ride
	if err := h.DB.First(&ride, "id = ?", req.RideID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Ride not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if ride.HostID != userID {
		utils.Forbidden(c, "You can only delete your own rides.")
		return
	}

	if err := h.DB.Delete(&ride).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete ride: "+err.Error())
		return
	}

	utils.Success(c, "Ride deleted successfully", gin.H{"success": true})
}

// RequestRide files the caller's interest in a ride and notifies the
// host. Duplicate requests conflict.
func (h *RideHandler) RequestRide(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		RideID string `json:"rideId" binding:"required"`
	}
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var ride models.Ride
	if err := h.DB.First(&ride, "id = ?", req.RideID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Ride not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var existing models.RideRequest
	if err := h.DB.Where("ride_id = ? AND user_id = ?", req.RideID, userID).
		First(&existing).Error; err == nil {
		utils.Conflict(c, "Request already sent")
		return
	}

	request := models.RideRequest{UserID: userID, RideID: req.RideID}
	if err := h.DB.Create(&request).Error; err != nil {
		utils.InternalServerError(c, "Failed to create request: "+err.Error())
		return
	}

	notify(h.DB, h.Hub, userID, ride.HostID, models.NotificationRideRequest,
		"New Ride Request",
		fmt.Sprintf("Someone requested to join your ride from %s to %s", ride.From, ride.To),
		map[string]interface{}{"rideId": ride.ID, "requestId": request.ID})

	utils.Created(c, "Ride request sent successfully", request)
}

// CancelRideRequest withdraws the caller's request for a ride.
func (h *RideHandler) CancelRideRequest(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		RideID string `json:"rideId" binding:"required"`
	}
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result := h.DB.Where("ride_id = ? AND user_id = ?", req.RideID, userID).
		Delete(&models.RideRequest{})
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete request: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Request not found")
		return
	}

	utils.Success(c, "Ride request withdrawn successfully", gin.H{"success": true})
}
