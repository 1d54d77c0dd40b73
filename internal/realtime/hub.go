package realtime

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

const userChannelPrefix = "campuslink:user:"

// Event is a push notification delivered to one connected user.
// Type is "message" or "notification"; Payload is the created row.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type envelope struct {
	userID  string
	payload []byte
}

// Hub tracks websocket clients per user and fans events out to them.
// With a Redis client attached, events travel through pub/sub so every
// instance delivers to its locally connected clients.
type Hub struct {
	rdb        *redis.Client
	clients    map[string]map[*Client]bool // userID -> set of clients
	register   chan *Client
	unregister chan *Client
	deliver    chan envelope
}

// NewHub creates and starts a hub. rdb may be nil for single-instance
// deployments.
func NewHub(rdb *redis.Client) *Hub {
	h := &Hub{
		rdb:        rdb,
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan envelope, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	if h.rdb != nil {
		pubsub := h.rdb.PSubscribe(context.Background(), userChannelPrefix+"*")
		ch := pubsub.Channel()
		go func() {
			for msg := range ch {
				userID := strings.TrimPrefix(msg.Channel, userChannelPrefix)
				h.deliver <- envelope{userID: userID, payload: []byte(msg.Payload)}
			}
		}()
	}

	for {
		select {
		case c := <-h.register:
			if _, ok := h.clients[c.userID]; !ok {
				h.clients[c.userID] = make(map[*Client]bool)
			}
			h.clients[c.userID][c] = true
		case c := <-h.unregister:
			if conns, ok := h.clients[c.userID]; ok {
				if _, exists := conns[c]; exists {
					delete(conns, c)
					close(c.send)
				}
				if len(conns) == 0 {
					delete(h.clients, c.userID)
				}
			}
		case env := <-h.deliver:
			conns, ok := h.clients[env.userID]
			if !ok {
				continue
			}
			for c := range conns {
				select {
				case c.send <- env.payload:
				default:
					close(c.send)
					delete(conns, c)
				}
			}
		}
	}
}

// RegisterClient attaches a connected client to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient detaches a client; its send channel is closed.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Publish pushes an event to every open connection of the given user.
// Delivery is best-effort: an offline user simply misses the push and
// catches up on the next poll.
func (h *Hub) Publish(userID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: failed to encode %s event: %v", event.Type, err)
		return
	}

	if h.rdb != nil {
		// Loops back through pub/sub so every instance delivers locally.
		if err := h.rdb.Publish(context.Background(), userChannelPrefix+userID, payload).Err(); err != nil {
			log.Printf("realtime: redis publish failed: %v", err)
		}
		return
	}

	h.deliver <- envelope{userID: userID, payload: payload}
}
