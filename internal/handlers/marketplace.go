package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/middleware"
	"campuslink-server/internal/models"
	"campuslink-server/internal/utils"
)

// MarketplaceHandler handles second-hand listings.
type MarketplaceHandler struct {
	DB *gorm.DB
}

// NewMarketplaceHandler creates a new MarketplaceHandler.
func NewMarketplaceHandler(db *gorm.DB) *MarketplaceHandler {
	return &MarketplaceHandler{DB: db}
}

type listingView struct {
	models.MarketplaceListing
	IsOwner bool `json:"isOwner"`
}

// ListListings returns available listings filtered by free-text query
// and category, newest first.
func (h *MarketplaceHandler) ListListings(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	query := h.DB.Preload("Seller").Where("status = ?", models.ListingStatusAvailable)
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR category LIKE ?",
			pattern, pattern, pattern)
	}
	if category := c.Query("category"); category != "" && category != "All" {
		query = query.Where("category = ?", category)
	}

	var listings []models.MarketplaceListing
	if err := query.Order("created_at DESC").Find(&listings).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch listings: "+err.Error())
		return
	}

	views := make([]listingView, 0, len(listings))
	for i := range listings {
		views = append(views, listingView{
			MarketplaceListing: listings[i],
			IsOwner:            listings[i].SellerID == userID,
		})
	}

	utils.Success(c, "Listings fetched successfully", views)
}

// CreateListingRequest represents the request body for posting a listing.
type CreateListingRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required"`
	Condition   string   `json:"condition" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Images      []string `json:"images"`
}

// CreateListing posts a new listing sold by the caller.
func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateListingRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	listing := models.MarketplaceListing{
		SellerID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Condition:   req.Condition,
		Category:    req.Category,
		Images:      req.Images,
		Status:      models.ListingStatusAvailable,
	}
	if err := h.DB.Create(&listing).Error; err != nil {
		utils.InternalServerError(c, "Failed to create listing: "+err.Error())
		return
	}

	utils.Created(c, "Listing created successfully", listing)
}

// DeleteListing removes a listing. Seller only.
func (h *MarketplaceHandler) DeleteListing(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		ListingID string `json:"listingId" binding:"required"`
	}
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var listing models.MarketplaceListing
	if err := h.DB.First(&listing, "id = ?", req.ListingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Listing not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if listing.SellerID != userID {
		utils.Forbidden(c, "You can only delete your own listings.")
		return
	}

	if err := h.DB.Delete(&listing).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete listing: "+err.Error())
		return
	}

	utils.Success(c, "Listing deleted successfully", gin.H{"success": true})
}
