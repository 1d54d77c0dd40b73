package models

// VentureCatalogItem is one product or service offered by a venture.
type VentureCatalogItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Venture is a small student-run business listing.
type Venture struct {
	BaseModel
	OwnerID     string               `gorm:"size:36;index;not null" json:"ownerId"`
	Name        string               `gorm:"size:255;not null" json:"name"`
	Description string               `gorm:"type:text" json:"description,omitempty"`
	Category    string               `gorm:"size:50;index" json:"category"`
	Timing      string               `gorm:"size:100" json:"timing,omitempty"`
	Contact     string               `gorm:"size:100" json:"contact,omitempty"`
	Hostel      string               `gorm:"size:50" json:"hostel,omitempty"`
	Logo        string               `gorm:"size:512" json:"logo,omitempty"`
	Catalog     []VentureCatalogItem `gorm:"serializer:json" json:"catalog"`
	Status      string               `gorm:"size:20;default:'Open'" json:"status"`

	Owner User `gorm:"foreignKey:OwnerID" json:"owner"`
}
