package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/config"
	"campuslink-server/internal/models"
)

// ErrNoCredentials is returned when a request carries no usable credentials.
var ErrNoCredentials = errors.New("no credentials provided")

// Authenticator resolves the calling user from an incoming request.
// Implementations are selected once at startup; business logic never
// branches on the environment.
type Authenticator interface {
	Authenticate(c *gin.Context) (*models.User, error)
}

// New returns the authenticator selected by configuration.
func New(db *gorm.DB, cfg *config.Config) Authenticator {
	if cfg.Auth.Mode == "static" {
		return &StaticAuthenticator{DB: db, Email: cfg.Auth.StaticEmail}
	}
	return &TokenAuthenticator{DB: db, Cfg: cfg}
}

// TokenAuthenticator validates a bearer JWT and resolves its user row.
// A valid token whose user row is missing (for example after a database
// reset) provisions the row from the token claims.
type TokenAuthenticator struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// Authenticate implements Authenticator.
func (a *TokenAuthenticator) Authenticate(c *gin.Context) (*models.User, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, ErrNoCredentials
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, errors.New("invalid authorization header format")
	}

	claims, err := ValidateToken(parts[1], a.Cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = a.DB.First(&user, "id = ?", claims.UserID).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if claims.Email == "" {
		return nil, errors.New("token user no longer exists")
	}
	return provisionUser(a.DB, claims.Email)
}

// StaticAuthenticator resolves every request to one fixed identity,
// provisioning it on first use. Intended for local development and tests.
type StaticAuthenticator struct {
	DB    *gorm.DB
	Email string
}

// Authenticate implements Authenticator.
func (a *StaticAuthenticator) Authenticate(c *gin.Context) (*models.User, error) {
	var user models.User
	err := a.DB.First(&user, "email = ?", a.Email).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return provisionUser(a.DB, a.Email)
}

// provisionUser creates a user row on first authentication.
func provisionUser(db *gorm.DB, email string) (*models.User, error) {
	user := models.User{
		Email: email,
		Name:  nameFromEmail(email),
		Role:  models.RoleStudent,
	}
	if err := db.Create(&user).Error; err != nil {
		// A concurrent request may have provisioned the same email.
		var existing models.User
		if ferr := db.First(&existing, "email = ?", email).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &user, nil
}

func nameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
