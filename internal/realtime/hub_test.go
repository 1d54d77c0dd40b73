package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
		return nil
	}
}

func TestHubDeliversToRegisteredClients(t *testing.T) {
	hub := NewHub(nil)

	first := NewClient(hub, nil, "user-1")
	second := NewClient(hub, nil, "user-1")
	other := NewClient(hub, nil, "user-2")
	hub.RegisterClient(first)
	hub.RegisterClient(second)
	hub.RegisterClient(other)

	hub.Publish("user-1", Event{Type: "message", Payload: map[string]string{"text": "hi"}})

	for _, client := range []*Client{first, second} {
		var event Event
		if err := json.Unmarshal(receive(t, client), &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if event.Type != "message" {
			t.Errorf("event type = %s, want message", event.Type)
		}
	}

	select {
	case payload := <-other.send:
		t.Errorf("user-2 received %s, want nothing", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubPublishToOfflineUserIsDropped(t *testing.T) {
	hub := NewHub(nil)
	// No client registered for this user; the event must be discarded
	// without blocking.
	done := make(chan struct{})
	go func() {
		hub.Publish("nobody", Event{Type: "notification", Payload: "x"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish to offline user blocked")
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(nil)
	client := NewClient(hub, nil, "user-1")
	hub.RegisterClient(client)
	hub.UnregisterClient(client)

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed channel, got payload")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after unregister")
	}
}
