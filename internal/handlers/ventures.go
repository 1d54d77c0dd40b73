package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/middleware"
	"campuslink-server/internal/models"
	"campuslink-server/internal/utils"
)

// VentureHandler handles small-business listings.
type VentureHandler struct {
	DB *gorm.DB
}

// NewVentureHandler creates a new VentureHandler.
func NewVentureHandler(db *gorm.DB) *VentureHandler {
	return &VentureHandler{DB: db}
}

type ventureView struct {
	models.Venture
	IsOwner bool `json:"isOwner"`
}

// ListVentures returns ventures, newest first. The free-text query
// matches name, description, category, hostel and the serialized catalog.
func (h *VentureHandler) ListVentures(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	query := h.DB.Preload("Owner")
	if q := c.Query("q"); q != "" {
		cleaned := strings.TrimPrefix(strings.TrimSpace(q), "#")
		pattern := "%" + cleaned + "%"
		query = query.Where(
			"name LIKE ? OR description LIKE ? OR category LIKE ? OR hostel LIKE ? OR catalog LIKE ?",
			pattern, pattern, pattern, pattern, pattern)
	}

	var ventures []models.Venture
	if err := query.Order("created_at DESC").Find(&ventures).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch ventures: "+err.Error())
		return
	}

	views := make([]ventureView, 0, len(ventures))
	for i := range ventures {
		views = append(views, ventureView{
			Venture: ventures[i],
			IsOwner: ventures[i].OwnerID == userID,
		})
	}

	utils.Success(c, "Ventures fetched successfully", views)
}

// CreateVentureRequest represents the request body for registering a venture.
type CreateVentureRequest struct {
	Name        string                      `json:"name" binding:"required"`
	Description string                      `json:"description"`
	Category    string                      `json:"category"`
	Timing      string                      `json:"timing"`
	Contact     string                      `json:"contact"`
	Hostel      string                      `json:"hostel"`
	Logo        string                      `json:"logo"`
	Catalog     []models.VentureCatalogItem `json:"catalog"`
}

// CreateVenture registers a new venture owned by the caller.
func (h *VentureHandler) CreateVenture(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateVentureRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	venture := models.Venture{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Timing:      req.Timing,
		Contact:     req.Contact,
		Hostel:      req.Hostel,
		Logo:        req.Logo,
		Catalog:     req.Catalog,
		Status:      "Open",
	}
	if venture.Catalog == nil {
		venture.Catalog = []models.VentureCatalogItem{}
	}
	if err := h.DB.Create(&venture).Error; err != nil {
		utils.InternalServerError(c, "Failed to create venture: "+err.Error())
		return
	}

	utils.Created(c, "Venture created successfully", venture)
}

// UpdateVentureRequest represents the request body for updating a venture.
type UpdateVentureRequest struct {
	VentureID   string                      `json:"ventureId" binding:"required"`
	Status      string                      `json:"status"`
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Category    string                      `json:"category"`
	Timing      string                      `json:"timing"`
	Contact     string                      `json:"contact"`
	Hostel      string                      `json:"hostel"`
	Logo        string                      `json:"logo"`
	Catalog     []models.VentureCatalogItem `json:"catalog"`
}

// UpdateVenture updates a venture. Owner only.
func (h *VentureHandler) UpdateVenture(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateVentureRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var venture models.Venture
	if err := h.DB.First(&venture, "id = ?", req.VentureID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Venture not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if venture.OwnerID != userID {
		utils.Forbidden(c, "You can only update your own ventures.")
		return
	}

	if req.Name != "" {
		venture.Name = req.Name
	}
	if req.Description != "" {
		venture.Description = req.Description
	}
	if req.Category != "" {
		venture.Category = req.Category
	}
	if req.Timing != "" {
		venture.Timing = req.Timing
	}
	if req.Contact != "" {
		venture.Contact = req.Contact
	}
	if req.Hostel != "" {
		venture.Hostel = req.Hostel
	}
	if req.Logo != "" {
		venture.Logo = req.Logo
	}
	if req.Status != "" {
		venture.Status = req.Status
	}
	if req.Catalog != nil {
		venture.Catalog = req.Catalog
	}

	if err := h.DB.Save(&venture).Error; err != nil {
		utils.InternalServerError(c, "Failed to update venture: "+err.Error())
		return
	}

	utils.Success(c, "Venture updated successfully", venture)
}

// DeleteVenture removes a venture. Owner only.
func (h *VentureHandler) DeleteVenture(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		VentureID string `json:"ventureId" binding:"required"`
	}
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var venture models.Venture
	if err := h.DB.First(&venture, "id = ?", req.VentureID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Venture not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if venture.OwnerID != userID {
		utils.Forbidden(c, "You can only delete your own ventures.")
		return
	}

	if err := h.DB.Delete(&venture).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete venture: "+err.Error())
		return
	}

	utils.Success(c, "Venture deleted successfully", gin.H{"success": true})
}
