package sse

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/cosmetics/internal/logger"
)

// Event represents an event sent over SSE
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	PlayerID  string      `json:"player_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Client represents a connected SSE client
type Client struct {
	ID           string
	EventChannel chan Event
	EventFilter  map[string]bool // nil means all event types
	PlayerID     string          // empty means every player
}

func (c *Client) wants(evt Event) bool {
	if c.EventFilter != nil && !c.EventFilter[evt.Type] {
		return false
	}
	return c.PlayerID == "" || c.PlayerID == evt.PlayerID
}

// Hub manages SSE client connections and event broadcasting
type Hub struct {
	clients    map[string]*Client
	broadcast  chan Event
	register   chan *Client
	unregister chan string
	mu         sync.RWMutex
	shutdown   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
	}
}

// Start starts the hub's broadcast loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop shuts the hub down and closes every client channel, which ends the
// open streams. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for _, client := range h.clients {
			close(client.EventChannel)
		}
		h.clients = make(map[string]*Client)
		h.mu.Unlock()
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[clientID]; ok {
				close(client.EventChannel)
				delete(h.clients, clientID)
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				if !client.wants(evt) {
					continue
				}
				// Slow clients miss events rather than stall the hub
				select {
				case client.EventChannel <- evt:
				default:
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

// Register adds a client interested in the given event types (all when
// empty) for one player (all when empty). It fails once the hub is stopped.
func (h *Hub) Register(eventTypes []string, playerID string) (*Client, error) {
	client := &Client{
		ID:           uuid.New().String(),
		EventChannel: make(chan Event, ClientEventBuffer),
		PlayerID:     playerID,
	}

	if len(eventTypes) > 0 {
		client.EventFilter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			client.EventFilter[t] = true
		}
	}

	select {
	case <-h.shutdown:
		return nil, fmt.Errorf("%s", ErrMsgHubStopped)
	default:
	}
	select {
	case h.register <- client:
		return client, nil
	case <-h.shutdown:
		return nil, fmt.Errorf("%s", ErrMsgHubStopped)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues an event for every interested client. Events are dropped
// when the broadcast buffer is full.
func (h *Hub) Broadcast(eventType, playerID string, payload interface{}) {
	evt := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		PlayerID:  playerID,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	select {
	case h.broadcast <- evt:
	default:
		logger.Warn(LogMsgEventDropped, "event_type", eventType, "player_id", playerID)
	}
}

// Done is closed when the hub stops
func (h *Hub) Done() <-chan struct{} {
	return h.shutdown
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage formats an SSE event for transmission
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	// "id: <id>\nevent: <type>\ndata: <json>\n\n"
	msg := "id: " + evt.ID + "\n"
	msg += "event: " + evt.Type + "\n"
	msg += "data: " + string(data) + "\n\n"

	return []byte(msg), nil
}
