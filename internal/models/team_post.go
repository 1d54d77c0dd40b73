package models

// TeamPostStatus enum
type TeamPostStatus string

const (
	TeamPostStatusOpen   TeamPostStatus = "OPEN"
	TeamPostStatusClosed TeamPostStatus = "CLOSED"
)

// TeamPost is a team-finding post for hackathons, projects and clubs.
type TeamPost struct {
	BaseModel
	AuthorID    string         `gorm:"size:36;index;not null" json:"authorId"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Type        string         `gorm:"size:50;index" json:"type"`
	Tags        []string       `gorm:"serializer:json" json:"tags"`
	LookingFor  string         `gorm:"size:255" json:"lookingFor,omitempty"`
	Status      TeamPostStatus `gorm:"size:20;default:'OPEN'" json:"status"`

	Author   User          `gorm:"foreignKey:AuthorID" json:"author"`
	Requests []TeamRequest `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// TeamRequest expresses one user's interest in joining a team post.
type TeamRequest struct {
	BaseModel
	UserID string `gorm:"size:36;uniqueIndex:idx_team_request_user_post;not null" json:"userId"`
	PostID string `gorm:"size:36;uniqueIndex:idx_team_request_user_post;not null" json:"postId"`
	Status string `gorm:"size:20;default:'PENDING'" json:"status"`

	User User     `gorm:"foreignKey:UserID" json:"-"`
	Post TeamPost `gorm:"foreignKey:PostID" json:"-"`
}
