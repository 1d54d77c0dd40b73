package handlers

import (
	"net/http"
	"testing"
	"time"

	"campuslink-server/internal/models"
)

func TestRideRequestNotifiesHost(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser("Host", "host@campus.edu")
	rider := env.createUser("Rider", "rider@campus.edu")

	env.userID = host.ID
	recorder := env.do(http.MethodPost, "/api/v1/rides", map[string]interface{}{
		"from":  "Campus",
		"to":    "Airport",
		"date":  time.Now().Add(24 * time.Hour),
		"seats": 3,
	})
	requireStatus(t, recorder, http.StatusCreated)
	var ride models.Ride
	decodeData(t, recorder, &ride)

	env.userID = rider.ID
	recorder = env.do(http.MethodPost, "/api/v1/rides/request", map[string]string{"rideId": ride.ID})
	requireStatus(t, recorder, http.StatusCreated)

	t.Run("host receives a typed notification with metadata", func(t *testing.T) {
		var notifications []models.Notification
		if err := env.db.Where("user_id = ?", host.ID).Find(&notifications).Error; err != nil {
			t.Fatalf("load notifications: %v", err)
		}
		if len(notifications) != 1 {
			t.Fatalf("notifications = %d, want 1", len(notifications))
		}
		notification := notifications[0]
		if notification.Type != models.NotificationRideRequest {
			t.Errorf("type = %s, want %s", notification.Type, models.NotificationRideRequest)
		}
		if notification.Read {
			t.Error("new notification should start unread")
		}
		if notification.Metadata["rideId"] != ride.ID {
			t.Errorf("metadata rideId = %v, want %s", notification.Metadata["rideId"], ride.ID)
		}
	})

	t.Run("duplicate request conflicts without a second notification", func(t *testing.T) {
		recorder := env.do(http.MethodPost, "/api/v1/rides/request", map[string]string{"rideId": ride.ID})
		requireStatus(t, recorder, http.StatusConflict)
		if n := countRows(t, env.db, &models.Notification{}, "user_id = ?", host.ID); n != 1 {
			t.Errorf("notifications = %d, want 1", n)
		}
	})

	t.Run("withdrawing the request deletes it", func(t *testing.T) {
		recorder := env.do(http.MethodDelete, "/api/v1/rides/request", map[string]string{"rideId": ride.ID})
		requireStatus(t, recorder, http.StatusOK)
		if n := countRows(t, env.db, &models.RideRequest{}, "ride_id = ? AND user_id = ?", ride.ID, rider.ID); n != 0 {
			t.Errorf("request rows = %d, want 0", n)
		}
	})
}

func TestNoSelfNotification(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser("Host", "host@campus.edu")

	env.userID = host.ID
	recorder := env.do(http.MethodPost, "/api/v1/rides", map[string]interface{}{
		"from":  "Campus",
		"to":    "Station",
		"date":  time.Now().Add(24 * time.Hour),
		"seats": 2,
	})
	requireStatus(t, recorder, http.StatusCreated)
	var ride models.Ride
	decodeData(t, recorder, &ride)

	// The host requesting their own ride still files a request, but no
	// notification is created for themselves.
	recorder = env.do(http.MethodPost, "/api/v1/rides/request", map[string]string{"rideId": ride.ID})
	requireStatus(t, recorder, http.StatusCreated)

	if n := countRows(t, env.db, &models.Notification{}, "user_id = ?", host.ID); n != 0 {
		t.Errorf("self notifications = %d, want 0", n)
	}
}

func TestTeamRequestNotification(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser("Author", "author@campus.edu")
	joiner := env.createUser("Joiner", "joiner@campus.edu")

	env.userID = author.ID
	recorder := env.do(http.MethodPost, "/api/v1/team-finder", map[string]interface{}{
		"title":      "Hackathon crew",
		"type":       "hackathon",
		"tags":       []string{"go", "react"},
		"lookingFor": "backend dev",
	})
	requireStatus(t, recorder, http.StatusCreated)
	var post models.TeamPost
	decodeData(t, recorder, &post)

	env.userID = joiner.ID
	recorder = env.do(http.MethodPost, "/api/v1/team-finder/request", map[string]string{"postId": post.ID})
	requireStatus(t, recorder, http.StatusCreated)

	var notification models.Notification
	if err := env.db.Where("user_id = ?", author.ID).First(&notification).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	if notification.Type != models.NotificationTeamRequest {
		t.Errorf("type = %s, want %s", notification.Type, models.NotificationTeamRequest)
	}
}

func TestNotificationInbox(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Owner", "owner@campus.edu")
	other := env.createUser("Other", "other@campus.edu")

	notification := models.Notification{
		UserID:  owner.ID,
		Type:    models.NotificationTutorRequest,
		Title:   "New Tutoring Request",
		Message: "Someone requested tutoring",
	}
	if err := env.db.Create(&notification).Error; err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	t.Run("unread count", func(t *testing.T) {
		env.userID = owner.ID
		recorder := env.do(http.MethodGet, "/api/v1/notifications/unread", nil)
		requireStatus(t, recorder, http.StatusOK)
		var count struct {
			Count int64 `json:"count"`
		}
		decodeData(t, recorder, &count)
		if count.Count != 1 {
			t.Errorf("count = %d, want 1", count.Count)
		}
	})

	t.Run("mark read is ownership-scoped", func(t *testing.T) {
		env.userID = other.ID
		recorder := env.do(http.MethodPatch, "/api/v1/notifications/"+notification.ID, nil)
		requireStatus(t, recorder, http.StatusNotFound)

		env.userID = owner.ID
		recorder = env.do(http.MethodPatch, "/api/v1/notifications/"+notification.ID, nil)
		requireStatus(t, recorder, http.StatusOK)

		var updated models.Notification
		decodeData(t, recorder, &updated)
		if !updated.Read {
			t.Error("notification not marked read")
		}

		recorder = env.do(http.MethodGet, "/api/v1/notifications/unread", nil)
		requireStatus(t, recorder, http.StatusOK)
		var count struct {
			Count int64 `json:"count"`
		}
		decodeData(t, recorder, &count)
		if count.Count != 0 {
			t.Errorf("count after read = %d, want 0", count.Count)
		}
	})

	t.Run("delete is ownership-scoped", func(t *testing.T) {
		env.userID = other.ID
		recorder := env.do(http.MethodDelete, "/api/v1/notifications/"+notification.ID, nil)
		requireStatus(t, recorder, http.StatusNotFound)

		env.userID = owner.ID
		recorder = env.do(http.MethodDelete, "/api/v1/notifications/"+notification.ID, nil)
		requireStatus(t, recorder, http.StatusOK)
		if n := countRows(t, env.db, &models.Notification{}, "id = ?", notification.ID); n != 0 {
			t.Errorf("notification rows = %d, want 0", n)
		}
	})
}
