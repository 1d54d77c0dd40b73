package models

// ListingStatus enum
type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "AVAILABLE"
	ListingStatusSold      ListingStatus = "SOLD"
)

// MarketplaceListing is a second-hand item posted for sale.
type MarketplaceListing struct {
	BaseModel
	SellerID    string        `gorm:"size:36;index;not null" json:"sellerId"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	Price       float64       `gorm:"not null" json:"price"`
	Condition   string        `gorm:"size:50" json:"condition"`
	Category    string        `gorm:"size:50;index" json:"category"`
	Images      []string      `gorm:"serializer:json" json:"images"`
	Status      ListingStatus `gorm:"size:20;default:'AVAILABLE'" json:"status"`

	Seller User `gorm:"foreignKey:SellerID" json:"seller"`
}
