package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

// User represents a member of the campus community. A row is created on
// first successful authentication if one does not exist yet.
type User struct {
	BaseModel
	Email     string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string     `gorm:"size:255" json:"-"` // Never send password in JSON
	Name      string     `gorm:"size:100" json:"name"`
	Role      Role       `gorm:"size:20;default:'STUDENT'" json:"role"`
	Image     string     `gorm:"size:512" json:"image,omitempty"`
	Banner    string     `gorm:"size:512" json:"banner,omitempty"`
	Bio       string     `gorm:"type:text" json:"bio,omitempty"`
	Branch    string     `gorm:"size:50" json:"branch,omitempty"`
	Year      string     `gorm:"size:20" json:"year,omitempty"`
	Hostel    string     `gorm:"size:50" json:"hostel,omitempty"`
	Github    string     `gorm:"size:255" json:"github,omitempty"`
	Linkedin  string     `gorm:"size:255" json:"linkedin,omitempty"`
	Instagram string     `gorm:"size:255" json:"instagram,omitempty"`
	Phone     string     `gorm:"size:30" json:"phone,omitempty"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`

	// Relations (not always preloaded)
	RefreshTokens []RefreshToken       `gorm:"foreignKey:UserID" json:"-"`
	Conversations []Conversation       `gorm:"many2many:conversation_participants;" json:"-"`
	SentMessages  []Message            `gorm:"foreignKey:SenderID" json:"-"`
	Notifications []Notification       `gorm:"foreignKey:UserID" json:"-"`
	HostedRides   []Ride               `gorm:"foreignKey:HostID" json:"-"`
	Listings      []MarketplaceListing `gorm:"foreignKey:SellerID" json:"-"`
	TeamPosts     []TeamPost           `gorm:"foreignKey:AuthorID" json:"-"`
	Ventures      []Venture            `gorm:"foreignKey:OwnerID" json:"-"`
	TutorProfile  *TutorProfile        `gorm:"foreignKey:UserID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      Role       `json:"role"`
	Image     string     `json:"image,omitempty"`
	Banner    string     `json:"banner,omitempty"`
	Bio       string     `json:"bio,omitempty"`
	Branch    string     `json:"branch,omitempty"`
	Year      string     `json:"year,omitempty"`
	Hostel    string     `json:"hostel,omitempty"`
	Github    string     `json:"github,omitempty"`
	Linkedin  string     `json:"linkedin,omitempty"`
	Instagram string     `json:"instagram,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ChatParticipant is the slim profile shown next to conversations and
// messages. LastSeen drives the online presence indicator.
type ChatParticipant struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Image    string     `json:"image,omitempty"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Image:     u.Image,
		Banner:    u.Banner,
		Bio:       u.Bio,
		Branch:    u.Branch,
		Year:      u.Year,
		Hostel:    u.Hostel,
		Github:    u.Github,
		Linkedin:  u.Linkedin,
		Instagram: u.Instagram,
		Phone:     u.Phone,
		LastSeen:  u.LastSeen,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AsChatParticipant projects the public chat profile.
func (u *User) AsChatParticipant() ChatParticipant {
	return ChatParticipant{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Image:    u.Image,
		LastSeen: u.LastSeen,
	}
}
