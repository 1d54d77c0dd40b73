package client

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Poller periodically re-fetches the conversation list, the active
// conversation's messages, and the global unread counters, invoking
// callbacks only when the fetched state actually changed. Each fetch
// result is compared structurally (as JSON) against the previous
// snapshot so unchanged polls do not trigger UI work.
type Poller struct {
	API *Client

	// ChatInterval drives the conversation-list and active-message
	// refresh. CountInterval drives the unread-counter refresh.
	ChatInterval  time.Duration
	CountInterval time.Duration

	// Callbacks fire only when the corresponding state changed.
	OnConversations func([]Conversation)
	OnMessages      func(conversationID string, messages []Message)
	OnUnreadCounts  func(chatCount, notificationCount int64)

	mu             sync.Mutex
	activeConvID   string
	lastConvsRaw   json.RawMessage
	lastMsgsRaw    json.RawMessage
	lastMsgsConvID string
	lastChatCount  int64
	lastNotifCount int64
	hasCounts      bool
}

// NewPoller creates a Poller with the default refresh cadence: chat
// views every second, unread counters every three seconds.
func NewPoller(api *Client) *Poller {
	return &Poller{
		API:           api,
		ChatInterval:  time.Second,
		CountInterval: 3 * time.Second,
	}
}

// SetActiveConversation selects which conversation's messages are
// polled. An empty id stops message polling. Switching conversations
// resets the message snapshot so the first fetch always fires.
func (p *Poller) SetActiveConversation(conversationID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.activeConvID != conversationID {
		p.activeConvID = conversationID
		p.lastMsgsRaw = nil
		p.lastMsgsConvID = ""
	}
}

// Run polls until the context is cancelled. Fetch failures are logged
// and skipped; the next tick retries.
func (p *Poller) Run(ctx context.Context) {
	chatTicker := time.NewTicker(p.ChatInterval)
	defer chatTicker.Stop()
	countTicker := time.NewTicker(p.CountInterval)
	defer countTicker.Stop()

	// Prime state immediately rather than waiting a full interval.
	p.pollChat(ctx)
	p.pollCounts(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-chatTicker.C:
			p.pollChat(ctx)
		case <-countTicker.C:
			p.pollCounts(ctx)
		}
	}
}

func (p *Poller) pollChat(ctx context.Context) {
	conversations, raw, err := p.API.Conversations(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("poll conversations: %v", err)
		}
	} else {
		p.mu.Lock()
		changed := !bytes.Equal(p.lastConvsRaw, raw)
		if changed {
			p.lastConvsRaw = raw
		}
		p.mu.Unlock()
		if changed && p.OnConversations != nil {
			p.OnConversations(conversations)
		}
	}

	p.mu.Lock()
	convID := p.activeConvID
	p.mu.Unlock()
	if convID == "" {
		return
	}

	messages, raw, err := p.API.Messages(ctx, convID)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("poll messages: %v", err)
		}
		return
	}

	p.mu.Lock()
	changed := p.lastMsgsConvID != convID || !bytes.Equal(p.lastMsgsRaw, raw)
	if changed {
		p.lastMsgsRaw = raw
		p.lastMsgsConvID = convID
	}
	p.mu.Unlock()
	if changed && p.OnMessages != nil {
		p.OnMessages(convID, messages)
	}
}

func (p *Poller) pollCounts(ctx context.Context) {
	chatCount, err := p.API.UnreadChatCount(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("poll chat unread count: %v", err)
		}
		return
	}
	notifCount, err := p.API.UnreadNotificationCount(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("poll notification unread count: %v", err)
		}
		return
	}

	p.mu.Lock()
	changed := !p.hasCounts || chatCount != p.lastChatCount || notifCount != p.lastNotifCount
	if changed {
		p.lastChatCount = chatCount
		p.lastNotifCount = notifCount
		p.hasCounts = true
	}
	p.mu.Unlock()
	if changed && p.OnUnreadCounts != nil {
		p.OnUnreadCounts(chatCount, notifCount)
	}
}
