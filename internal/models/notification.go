package models

// Notification types, one per request-creation trigger.
const (
	NotificationTeamRequest  = "TEAM_REQUEST"
	NotificationRideRequest  = "RIDE_REQUEST"
	NotificationTutorRequest = "TUTOR_REQUEST"
)

// Notification belongs to exactly one recipient. Delivery is best-effort:
// a failed insert never fails the operation that triggered it.
type Notification struct {
	BaseModel
	UserID   string                 `gorm:"size:36;index;not null" json:"userId"`
	Type     string                 `gorm:"size:40;not null" json:"type"`
	Title    string                 `gorm:"size:255" json:"title"`
	Message  string                 `gorm:"type:text" json:"message"`
	Metadata map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
	Read     bool                   `gorm:"column:is_read;default:false;index" json:"read"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
