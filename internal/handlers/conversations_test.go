package handlers

import (
	"net/http"
	"testing"

	"campuslink-server/internal/models"
)

func TestGetOrCreateConversation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("Alice", "alice@campus.edu")
	bob := env.createUser("Bob", "bob@campus.edu")

	t.Run("creates once and returns the same conversation to both sides", func(t *testing.T) {
		env.userID = alice.ID
		recorder := env.do(http.MethodPost, "/api/v1/conversations", map[string]string{"targetUserId": bob.ID})
		requireStatus(t, recorder, http.StatusCreated)

		var created models.ConversationPreview
		decodeData(t, recorder, &created)
		if created.OtherUser.ID != bob.ID {
			t.Errorf("otherUser = %s, want %s", created.OtherUser.ID, bob.ID)
		}
		if created.LastMessage != "No messages yet" {
			t.Errorf("lastMessage = %q, want placeholder", created.LastMessage)
		}

		// Same caller again: fetched, not duplicated.
		recorder = env.do(http.MethodPost, "/api/v1/conversations", map[string]string{"targetUserId": bob.ID})
		requireStatus(t, recorder, http.StatusOK)
		var fetched models.ConversationPreview
		decodeData(t, recorder, &fetched)
		if fetched.ID != created.ID {
			t.Errorf("repeat create returned %s, want %s", fetched.ID, created.ID)
		}

		// The peer opening from their side lands on the same row.
		env.userID = bob.ID
		recorder = env.do(http.MethodPost, "/api/v1/conversations", map[string]string{"targetUserId": alice.ID})
		requireStatus(t, recorder, http.StatusOK)
		decodeData(t, recorder, &fetched)
		if fetched.ID != created.ID {
			t.Errorf("peer create returned %s, want %s", fetched.ID, created.ID)
		}
		if fetched.OtherUser.ID != alice.ID {
			t.Errorf("peer otherUser = %s, want %s", fetched.OtherUser.ID, alice.ID)
		}

		if n := countRows(t, env.db, &models.Conversation{}, "1 = 1"); n != 1 {
			t.Errorf("conversation rows = %d, want 1", n)
		}
	})

	t.Run("rejects self-conversation", func(t *testing.T) {
		env.userID = alice.ID
		recorder := env.do(http.MethodPost, "/api/v1/conversations", map[string]string{"targetUserId": alice.ID})
		requireStatus(t, recorder, http.StatusBadRequest)
	})

	t.Run("unknown target is not found", func(t *testing.T) {
		env.userID = alice.ID
		recorder := env.do(http.MethodPost, "/api/v1/conversations", map[string]string{"targetUserId": "no-such-user"})
		requireStatus(t, recorder, http.StatusNotFound)
	})
}

func TestListConversations(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("Alice", "alice@campus.edu")
	bob := env.createUser("Bob", "bob@campus.edu")

	env.userID = alice.ID
	recorder := env.do(http.MethodPost, "/api/v1/conversations", map[string]string{"targetUserId": bob.ID})
	requireStatus(t, recorder, http.StatusCreated)
	var conversation models.ConversationPreview
	decodeData(t, recorder, &conversation)

	env.userID = bob.ID
	for _, text := range []string{"hey", "are you around?"} {
		recorder = env.do(http.MethodPost, "/api/v1/conversations/"+conversation.ID+"/messages", map[string]string{"text": text})
		requireStatus(t, recorder, http.StatusCreated)
	}

	env.userID = alice.ID
	recorder = env.do(http.MethodGet, "/api/v1/conversations", nil)
	requireStatus(t, recorder, http.StatusOK)

	var previews []models.ConversationPreview
	decodeData(t, recorder, &previews)
	if len(previews) != 1 {
		t.Fatalf("previews = %d, want 1", len(previews))
	}
	if previews[0].UnreadCount != 2 {
		t.Errorf("unreadCount = %d, want 2", previews[0].UnreadCount)
	}
	if previews[0].LastMessage != "are you around?" {
		t.Errorf("lastMessage = %q, want latest text", previews[0].LastMessage)
	}
	if previews[0].OtherUser.ID != bob.ID {
		t.Errorf("otherUser = %s, want %s", previews[0].OtherUser.ID, bob.ID)
	}

	// Listing doubles as the presence heartbeat.
	var refreshed models.User
	if err := env.db.First(&refreshed, "id = ?", alice.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if refreshed.LastSeen == nil {
		t.Error("lastSeen not set by conversation listing")
	}
}

func TestDeleteConversation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("Alice", "alice@campus.edu")
	bob := env.createUser("Bob", "bob@campus.edu")
	mallory := env.createUser("Mallory", "mallory@campus.edu")

	env.userID = alice.ID
	recorder := env.do(http.MethodPost, "/api/v1/conversations", map[string]string{"targetUserId": bob.ID})
	requireStatus(t, recorder, http.StatusCreated)
	var conversation models.ConversationPreview
	decodeData(t, recorder, &conversation)

	recorder = env.do(http.MethodPost, "/api/v1/conversations/"+conversation.ID+"/messages", map[string]string{"text": "hello"})
	requireStatus(t, recorder, http.StatusCreated)

	t.Run("non-participant is forbidden", func(t *testing.T) {
		env.userID = mallory.ID
		recorder := env.do(http.MethodDelete, "/api/v1/conversations/"+conversation.ID, nil)
		requireStatus(t, recorder, http.StatusForbidden)
	})

	t.Run("participant delete removes messages too", func(t *testing.T) {
		env.userID = bob.ID
		recorder := env.do(http.MethodDelete, "/api/v1/conversations/"+conversation.ID, nil)
		requireStatus(t, recorder, http.StatusOK)

		if n := countRows(t, env.db, &models.Conversation{}, "id = ?", conversation.ID); n != 0 {
			t.Errorf("conversation rows = %d, want 0", n)
		}
		if n := countRows(t, env.db, &models.Message{}, "conversation_id = ?", conversation.ID); n != 0 {
			t.Errorf("message rows = %d, want 0", n)
		}
	})

	t.Run("missing conversation is not found", func(t *testing.T) {
		env.userID = alice.ID
		recorder := env.do(http.MethodDelete, "/api/v1/conversations/"+conversation.ID, nil)
		requireStatus(t, recorder, http.StatusNotFound)
	})
}
