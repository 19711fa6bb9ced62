package handler

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"collabboard-backend/internal/board"
	"collabboard-backend/internal/cache"
	"collabboard-backend/internal/model"
)

// BoardHub is the transport adapter around the collaboration coordinator.
// It owns the live connection registry and funnels every inbound event
// through a single mutex, so the router sees one logical thread per
// session while many connections feed it.
type BoardHub struct {
	router  *board.Router
	routeMu sync.Mutex // serializes all coordinator access

	clients map[string]*BoardClient
	mu      sync.RWMutex

	cache *cache.RedisClient // nil when chat history is disabled
}

// boardConn is the slice of the websocket connection the hub uses.
type boardConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// BoardClient is one live websocket connection.
type BoardClient struct {
	ID      string
	Conn    boardConn
	writeMu sync.Mutex
}

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// NewBoardHub creates the hub over a fresh session.
func NewBoardHub(session *board.Session, redisClient *cache.RedisClient) *BoardHub {
	return &BoardHub{
		router:  board.NewRouter(session),
		clients: make(map[string]*BoardClient),
		cache:   redisClient,
	}
}

// HandleWebSocket runs the read loop for one connection: register, push
// the bootstrap snapshot, relay events through the router, and clean up on
// disconnect.
func (h *BoardHub) HandleWebSocket(c *websocket.Conn) {
	h.handleConn(c)
}

// handleConn holds routeMu across each router call AND the writes it
// produced, so a late joiner's bootstrap snapshot and the broadcasts that
// follow it reach every connection in the same order the state changed.
// Registering the connection inside the same critical section keeps a
// concurrent broadcast from slipping in between registration and snapshot.
func (h *BoardHub) handleConn(c boardConn) {
	connID := uuid.New().String()
	client := &BoardClient{ID: connID, Conn: c}

	h.routeMu.Lock()
	h.mu.Lock()
	h.clients[connID] = client
	total := len(h.clients)
	h.mu.Unlock()
	h.dispatch(connID, h.router.Connect(connID))
	h.routeMu.Unlock()

	log.Printf("[Board] Client connected: %s, total: %d", connID, total)

	defer func() {
		h.routeMu.Lock()
		h.mu.Lock()
		delete(h.clients, connID)
		remaining := len(h.clients)
		h.mu.Unlock()
		h.dispatch(connID, h.router.Disconnect(connID))
		h.routeMu.Unlock()

		c.Close()
		log.Printf("[Board] Client disconnected: %s, remaining: %d", connID, remaining)
	}()

	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			break
		}

		var msg board.Message
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			continue
		}

		h.routeMu.Lock()
		if msg.Event == board.EvChatMessage {
			h.recordChat(h.router.Session().Presence.NameOf(connID), msg.Data)
		}
		h.dispatch(connID, h.router.Handle(connID, msg))
		h.routeMu.Unlock()
	}
}

// Snapshot returns the current board state for read-side surfaces.
func (h *BoardHub) Snapshot() model.Snapshot {
	h.routeMu.Lock()
	defer h.routeMu.Unlock()
	return h.router.Session().Store.Snapshot()
}

// ClientCount returns the number of live connections.
func (h *BoardHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// dispatch delivers one fan-out plan. Each outbound is marshaled once and
// written to the selected recipients.
func (h *BoardHub) dispatch(senderID string, outs []board.Outbound) {
	for _, out := range outs {
		payload, err := json.Marshal(envelope{Event: out.Event, Data: out.Data})
		if err != nil {
			log.Printf("[Board] Failed to marshal %s: %v", out.Event, err)
			continue
		}

		switch out.Target {
		case board.ToSender:
			if client := h.client(senderID); client != nil {
				h.send(client, payload)
			}
		case board.ToOthers, board.ToAll:
			for _, client := range h.clientList() {
				if out.Target == board.ToOthers && client.ID == senderID {
					continue
				}
				h.send(client, payload)
			}
		}
	}
}

func (h *BoardHub) client(connID string) *BoardClient {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[connID]
}

func (h *BoardHub) clientList() []*BoardClient {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*BoardClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

// send writes one frame. A failed write closes the connection, which makes
// its read loop exit and run the normal disconnect path; other
// connections' processing is untouched.
func (h *BoardHub) send(client *BoardClient, payload []byte) {
	client.writeMu.Lock()
	defer client.writeMu.Unlock()

	if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("[Board] Failed to send to %s: %v", client.ID, err)
		client.Conn.Close()
	}
}

// recordChat appends the relayed message to the Redis history without
// holding up the fan-out.
func (h *BoardHub) recordChat(sender string, data json.RawMessage) {
	if h.cache == nil {
		return
	}

	msg := make(json.RawMessage, len(data))
	copy(msg, data)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		entry := &cache.ChatMessage{Sender: sender, Message: msg}
		if err := h.cache.AddChatMessage(ctx, entry); err != nil {
			log.Printf("[Board] Failed to record chat message: %v", err)
		}
	}()
}
