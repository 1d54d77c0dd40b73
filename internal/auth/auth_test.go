package auth

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/config"
	"campuslink-server/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "test-secret",
		JWTRefreshSecret:          "test-refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 168,
		Auth:                      config.AuthConfig{Mode: "token"},
	}
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := models.InitDB(models.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("init database: %v", err)
	}
	return db
}

func requestContext(t *testing.T, authorization string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	if authorization != "" {
		c.Request.Header.Set("Authorization", authorization)
	}
	return c
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testConfig()
	user := &models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "alice@campus.edu",
		Role:      models.RoleStudent,
	}

	accessToken, refreshToken, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatal("empty token generated")
	}

	claims, err := ValidateToken(accessToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "alice@campus.edu" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ValidateToken(accessToken, "wrong-secret"); err == nil {
		t.Error("token validated with wrong secret")
	}
	// Access and refresh tokens use different secrets.
	if _, err := ValidateToken(refreshToken, cfg.JWTSecret); err == nil {
		t.Error("refresh token validated as access token")
	}
}

func TestTokenAuthenticator(t *testing.T) {
	db := testDB(t)
	cfg := testConfig()

	user := models.User{Email: "alice@campus.edu", Name: "Alice"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	accessToken, _, err := GenerateTokens(&user, cfg)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	authenticator := New(db, cfg)
	if _, ok := authenticator.(*TokenAuthenticator); !ok {
		t.Fatalf("authenticator = %T, want *TokenAuthenticator", authenticator)
	}

	t.Run("valid bearer token resolves the user", func(t *testing.T) {
		resolved, err := authenticator.Authenticate(requestContext(t, "Bearer "+accessToken))
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if resolved.ID != user.ID {
			t.Errorf("resolved %s, want %s", resolved.ID, user.ID)
		}
	})

	t.Run("missing header yields ErrNoCredentials", func(t *testing.T) {
		if _, err := authenticator.Authenticate(requestContext(t, "")); err != ErrNoCredentials {
			t.Errorf("err = %v, want ErrNoCredentials", err)
		}
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		if _, err := authenticator.Authenticate(requestContext(t, "Token abc")); err == nil {
			t.Error("malformed header accepted")
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		if _, err := authenticator.Authenticate(requestContext(t, "Bearer not.a.token")); err == nil {
			t.Error("garbage token accepted")
		}
	})

	t.Run("valid token with missing row re-provisions from claims", func(t *testing.T) {
		if err := db.Delete(&models.User{}, "id = ?", user.ID).Error; err != nil {
			t.Fatalf("delete user: %v", err)
		}
		resolved, err := authenticator.Authenticate(requestContext(t, "Bearer "+accessToken))
		if err != nil {
			t.Fatalf("authenticate after row loss: %v", err)
		}
		if resolved.Email != user.Email {
			t.Errorf("provisioned email = %s, want %s", resolved.Email, user.Email)
		}
	})
}

func TestStaticAuthenticator(t *testing.T) {
	db := testDB(t)
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{Mode: "static", StaticEmail: "dev@campuslink.com"}

	authenticator := New(db, cfg)
	if _, ok := authenticator.(*StaticAuthenticator); !ok {
		t.Fatalf("authenticator = %T, want *StaticAuthenticator", authenticator)
	}

	first, err := authenticator.Authenticate(requestContext(t, ""))
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if first.Email != "dev@campuslink.com" {
		t.Errorf("email = %s, want dev@campuslink.com", first.Email)
	}
	if first.Name != "dev" {
		t.Errorf("name = %s, want dev", first.Name)
	}

	// Second call reuses the provisioned row.
	second, err := authenticator.Authenticate(requestContext(t, ""))
	if err != nil {
		t.Fatalf("authenticate again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second call resolved %s, want %s", second.ID, first.ID)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user rows = %d, want 1", count)
	}
}
