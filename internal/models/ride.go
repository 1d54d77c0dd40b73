package models

import (
	"time"
)

// RideStatus enum
type RideStatus string

const (
	RideStatusActive    RideStatus = "ACTIVE"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

// Ride is a ride-share offer hosted by one user.
type Ride struct {
	BaseModel
	HostID      string     `gorm:"size:36;index;not null" json:"hostId"`
	From        string     `gorm:"size:255;not null" json:"from"`
	To          string     `gorm:"size:255;not null" json:"to"`
	Date        time.Time  `json:"date"`
	Price       float64    `json:"price"`
	Seats       int        `json:"seats"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      RideStatus `gorm:"size:20;default:'ACTIVE'" json:"status"`

	Host     User          `gorm:"foreignKey:HostID" json:"host"`
	Requests []RideRequest `gorm:"foreignKey:RideID;constraint:OnDelete:CASCADE" json:"-"`
}

// RideRequest expresses one user's interest in a ride. The composite
// unique index prevents duplicate requests.
type RideRequest struct {
	BaseModel
	UserID string `gorm:"size:36;uniqueIndex:idx_ride_request_user_ride;not null" json:"userId"`
	RideID string `gorm:"size:36;uniqueIndex:idx_ride_request_user_ride;not null" json:"rideId"`
	Status string `gorm:"size:20;default:'PENDING'" json:"status"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Ride Ride `gorm:"foreignKey:RideID" json:"-"`
}
