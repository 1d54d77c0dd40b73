package handlers

import (
	"net/http"
	"testing"
	"time"

	"campuslink-server/internal/models"
)

// openConversation creates (or fetches) the caller's conversation with
// the target through the API and returns its id.
func openConversation(t *testing.T, env *testEnv, targetID string) string {
	t.Helper()
	recorder := env.do(http.MethodPost, "/api/v1/conversations", map[string]string{"targetUserId": targetID})
	if recorder.Code != http.StatusCreated && recorder.Code != http.StatusOK {
		t.Fatalf("open conversation: status %d (body: %s)", recorder.Code, recorder.Body.String())
	}
	var preview models.ConversationPreview
	decodeData(t, recorder, &preview)
	return preview.ID
}

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("Alice", "alice@campus.edu")
	bob := env.createUser("Bob", "bob@campus.edu")

	env.userID = alice.ID
	conversationID := openConversation(t, env, bob.ID)

	var before models.Conversation
	if err := env.db.First(&before, "id = ?", conversationID).Error; err != nil {
		t.Fatalf("load conversation: %v", err)
	}

	t.Run("requires text or attachment", func(t *testing.T) {
		recorder := env.do(http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", map[string]string{})
		requireStatus(t, recorder, http.StatusBadRequest)
	})

	t.Run("persists the message and bumps conversation activity", func(t *testing.T) {
		time.Sleep(10 * time.Millisecond)

		recorder := env.do(http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", map[string]string{"text": "hello bob"})
		requireStatus(t, recorder, http.StatusCreated)

		var message models.Message
		decodeData(t, recorder, &message)
		if message.SenderID != alice.ID {
			t.Errorf("senderId = %s, want %s", message.SenderID, alice.ID)
		}
		if message.Type != models.MessageTypeText {
			t.Errorf("type = %s, want text", message.Type)
		}
		if message.Read {
			t.Error("new message should start unread")
		}
		if message.Sender.Name != "Alice" {
			t.Errorf("sender name = %q, want Alice", message.Sender.Name)
		}

		var after models.Conversation
		if err := env.db.First(&after, "id = ?", conversationID).Error; err != nil {
			t.Fatalf("reload conversation: %v", err)
		}
		if !after.UpdatedAt.After(before.UpdatedAt) {
			t.Errorf("updatedAt not bumped: before=%v after=%v", before.UpdatedAt, after.UpdatedAt)
		}
	})

	t.Run("non-participant is forbidden", func(t *testing.T) {
		mallory := env.createUser("Mallory", "mallory@campus.edu")
		env.userID = mallory.ID
		recorder := env.do(http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", map[string]string{"text": "hi"})
		requireStatus(t, recorder, http.StatusForbidden)
	})
}

func TestListMessagesMarksIncomingRead(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("Alice", "alice@campus.edu")
	bob := env.createUser("Bob", "bob@campus.edu")

	env.userID = alice.ID
	conversationID := openConversation(t, env, bob.ID)

	env.userID = bob.ID
	for _, text := range []string{"first", "second"} {
		recorder := env.do(http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", map[string]string{"text": text})
		requireStatus(t, recorder, http.StatusCreated)
	}

	// Sender fetching does not clear their own unread state for the peer.
	recorder := env.do(http.MethodGet, "/api/v1/conversations/"+conversationID+"/messages", nil)
	requireStatus(t, recorder, http.StatusOK)
	if n := countRows(t, env.db, &models.Message{}, "conversation_id = ? AND is_read = ?", conversationID, false); n != 2 {
		t.Fatalf("unread after sender fetch = %d, want 2", n)
	}

	env.userID = alice.ID
	recorder = env.do(http.MethodGet, "/api/v1/chat/unread", nil)
	requireStatus(t, recorder, http.StatusOK)
	var count struct {
		Count int64 `json:"count"`
	}
	decodeData(t, recorder, &count)
	if count.Count != 1 {
		t.Errorf("unread conversations = %d, want 1", count.Count)
	}

	// Recipient fetch marks everything incoming as read.
	recorder = env.do(http.MethodGet, "/api/v1/conversations/"+conversationID+"/messages", nil)
	requireStatus(t, recorder, http.StatusOK)

	var messages []models.Message
	decodeData(t, recorder, &messages)
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(messages))
	}
	if messages[0].Text != "first" || messages[1].Text != "second" {
		t.Errorf("messages out of order: %q, %q", messages[0].Text, messages[1].Text)
	}
	for _, message := range messages {
		if !message.Read {
			t.Errorf("message %q still unread after fetch", message.Text)
		}
	}

	recorder = env.do(http.MethodGet, "/api/v1/chat/unread", nil)
	requireStatus(t, recorder, http.StatusOK)
	decodeData(t, recorder, &count)
	if count.Count != 0 {
		t.Errorf("unread conversations after fetch = %d, want 0", count.Count)
	}
}

func TestDeleteMessage(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("Alice", "alice@campus.edu")
	bob := env.createUser("Bob", "bob@campus.edu")

	env.userID = alice.ID
	conversationID := openConversation(t, env, bob.ID)

	recorder := env.do(http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", map[string]string{"text": "oops"})
	requireStatus(t, recorder, http.StatusCreated)
	var message models.Message
	decodeData(t, recorder, &message)

	t.Run("only the sender may delete", func(t *testing.T) {
		env.userID = bob.ID
		recorder := env.do(http.MethodDelete, "/api/v1/messages/"+message.ID, nil)
		requireStatus(t, recorder, http.StatusForbidden)
	})

	t.Run("sender delete removes the row", func(t *testing.T) {
		env.userID = alice.ID
		recorder := env.do(http.MethodDelete, "/api/v1/messages/"+message.ID, nil)
		requireStatus(t, recorder, http.StatusOK)
		if n := countRows(t, env.db, &models.Message{}, "id = ?", message.ID); n != 0 {
			t.Errorf("message rows = %d, want 0", n)
		}
	})

	t.Run("already deleted is not found", func(t *testing.T) {
		recorder := env.do(http.MethodDelete, "/api/v1/messages/"+message.ID, nil)
		requireStatus(t, recorder, http.StatusNotFound)
	})
}
