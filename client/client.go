// Package client provides a small HTTP client for the CampusLink API
// and an interval-based poller that keeps chat state fresh for a UI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the CampusLink HTTP API. All requests carry the
// bearer token obtained from the auth endpoints.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New creates a Client for the given API base URL, e.g.
// "http://localhost:3001/api/v1".
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope mirrors the server's standard response wrapper.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Conversation is one entry of the caller's conversation list.
type Conversation struct {
	ID          string    `json:"id"`
	OtherUser   ChatUser  `json:"otherUser"`
	LastMessage string    `json:"lastMessage"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UnreadCount int64     `json:"unreadCount"`
}

// ChatUser is the peer half of a conversation entry.
type ChatUser struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Image    string     `json:"image"`
	LastSeen *time.Time `json:"lastSeen"`
}

// Message is a single chat message.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Text           string    `json:"text"`
	Type           string    `json:"type"`
	Attachment     string    `json:"attachment"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Notification is a single notification record.
type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"createdAt"`
}

// Login authenticates and stores the returned access token on the
// client for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return err
	}
	var result struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	c.Token = result.AccessToken
	return nil
}

// Conversations returns the caller's conversation list, most recently
// active first.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodGet, "/conversations", nil)
	if err != nil {
		return nil, nil, err
	}
	var conversations []Conversation
	if err := json.Unmarshal(raw, &conversations); err != nil {
		return nil, nil, fmt.Errorf("decode conversations: %w", err)
	}
	return conversations, raw, nil
}

// Messages returns all messages of a conversation in chronological
// order. Fetching also marks the peer's messages as read server-side.
func (c *Client) Messages(ctx context.Context, conversationID string) ([]Message, json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodGet, "/conversations/"+conversationID+"/messages", nil)
	if err != nil {
		return nil, nil, err
	}
	var messages []Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, raw, nil
}

// SendMessage posts a text message to a conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (*Message, error) {
	body := map[string]string{"text": text}
	raw, err := c.do(ctx, http.MethodPost, "/conversations/"+conversationID+"/messages", body)
	if err != nil {
		return nil, err
	}
	var message Message
	if err := json.Unmarshal(raw, &message); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &message, nil
}

// UnreadChatCount returns how many conversations hold unread messages.
func (c *Client) UnreadChatCount(ctx context.Context) (int64, error) {
	return c.count(ctx, "/chat/unread")
}

// UnreadNotificationCount returns the number of unread notifications.
func (c *Client) UnreadNotificationCount(ctx context.Context) (int64, error) {
	return c.count(ctx, "/notifications/unread")
}

// Notifications returns the caller's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	raw, err := c.do(ctx, http.MethodGet, "/notifications", nil)
	if err != nil {
		return nil, err
	}
	var notifications []Notification
	if err := json.Unmarshal(raw, &notifications); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return notifications, nil
}

func (c *Client) count(ctx context.Context, path string) (int64, error) {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	var result struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return result.Count, nil
}

// do performs a request against the API and unwraps the response
// envelope, returning the raw data payload.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := env.Error
		if message == "" {
			message = env.Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	return env.Data, nil
}
