package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/models"
	"campuslink-server/internal/realtime"
)

// testEnv wires the handlers under test to an isolated sqlite database
// behind a router whose auth middleware impersonates env.userID.
type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine

	// userID is the caller for subsequent requests. Swap it to act as a
	// different user.
	userID string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := models.InitDB(models.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("init database: %v", err)
	}

	env := &testEnv{t: t, db: db}
	hub := realtime.NewHub(nil)

	conversationHandler := NewConversationHandler(db)
	messageHandler := NewMessageHandler(db, hub)
	notificationHandler := NewNotificationHandler(db)
	rideHandler := NewRideHandler(db, hub)
	teamFinderHandler := NewTeamFinderHandler(db, hub)
	tutorHandler := NewTutorHandler(db, hub)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("userID", env.userID)
		c.Next()
	})
	api.GET("/conversations", conversationHandler.ListConversations)
	api.POST("/conversations", conversationHandler.GetOrCreateConversation)
	api.DELETE("/conversations/:conversationId", conversationHandler.DeleteConversation)
	api.GET("/conversations/:conversationId/messages", messageHandler.ListMessages)
	api.POST("/conversations/:conversationId/messages", messageHandler.SendMessage)
	api.DELETE("/messages/:messageId", messageHandler.DeleteMessage)
	api.GET("/chat/unread", messageHandler.UnreadConversationCount)
	api.GET("/notifications", notificationHandler.ListNotifications)
	api.GET("/notifications/unread", notificationHandler.UnreadNotificationCount)
	api.PATCH("/notifications/:notificationId", notificationHandler.MarkNotificationRead)
	api.DELETE("/notifications/:notificationId", notificationHandler.DeleteNotification)
	api.GET("/rides", rideHandler.ListRides)
	api.POST("/rides", rideHandler.CreateRide)
	api.POST("/rides/request", rideHandler.RequestRide)
	api.DELETE("/rides/request", rideHandler.CancelRideRequest)
	api.POST("/team-finder", teamFinderHandler.CreateTeamPost)
	api.POST("/team-finder/request", teamFinderHandler.RequestToJoin)
	api.POST("/tutors", tutorHandler.UpsertTutorProfile)
	api.POST("/tutors/request", tutorHandler.RequestTutor)

	env.router = router
	return env
}

// createUser inserts a user row and returns it.
func (env *testEnv) createUser(name, email string) models.User {
	env.t.Helper()
	user := models.User{Name: name, Email: email}
	if err := user.SetPassword("password123"); err != nil {
		env.t.Fatalf("hash password: %v", err)
	}
	if err := env.db.Create(&user).Error; err != nil {
		env.t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

// do issues a JSON request as env.userID and returns the recorder.
func (env *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	env.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			env.t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	return recorder
}

// decodeData unmarshals the data field of the response envelope into out.
func decodeData(t *testing.T, recorder *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, recorder.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v (data: %s)", err, envelope.Data)
	}
}

func requireStatus(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	if recorder.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", recorder.Code, want, recorder.Body.String())
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
