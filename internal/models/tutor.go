package models

// TutorProfile is a user's offer to tutor. One profile per user.
type TutorProfile struct {
	BaseModel
	UserID     string   `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Subjects   []string `gorm:"serializer:json" json:"subjects"`
	HourlyRate float64  `json:"hourlyRate"`
	Bio        string   `gorm:"type:text" json:"bio,omitempty"`

	User     User           `gorm:"foreignKey:UserID" json:"user"`
	Requests []TutorRequest `gorm:"foreignKey:TutorProfileID;constraint:OnDelete:CASCADE" json:"-"`
}

// TutorRequest expresses one user's interest in a tutor's sessions.
type TutorRequest struct {
	BaseModel
	UserID         string `gorm:"size:36;uniqueIndex:idx_tutor_request_user_profile;not null" json:"userId"`
	TutorProfileID string `gorm:"size:36;uniqueIndex:idx_tutor_request_user_profile;not null" json:"tutorProfileId"`
	Status         string `gorm:"size:20;default:'PENDING'" json:"status"`

	User         User         `gorm:"foreignKey:UserID" json:"-"`
	TutorProfile TutorProfile `gorm:"foreignKey:TutorProfileID" json:"-"`
}
