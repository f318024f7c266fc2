package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"spacedodge/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	sendBuffer = 256
)

// Message types pushed to leaderboard watchers.
const (
	MsgLeaderboardUpdate = "leaderboard_update"
	MsgPong              = "pong"
)

// Hub fans the leaderboard out to every connected WebSocket.
type Hub struct {
	clients      map[*Client]bool
	register     chan *Client
	unregister   chan *Client
	done         chan struct{}
	stopOnce     sync.Once
	mutex        sync.RWMutex
	scoreService *ScoreService
}

type Client struct {
	hub    *Hub
	id     string
	socket *websocket.Conn
	send   chan []byte
	closed bool // guarded by hub.mutex
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub(scoreService *ScoreService) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		scoreService: scoreService,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			log.Printf("Leaderboard client registered: %s - Total clients: %d", client.id, total)

		case client := <-h.unregister:
			h.mutex.Lock()
			h.remove(client)
			total := len(h.clients)
			h.mutex.Unlock()
			log.Printf("Leaderboard client unregistered: %s - Total clients: %d", client.id, total)

		case <-h.done:
			h.mutex.Lock()
			for client := range h.clients {
				h.remove(client)
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// remove must be called with the write lock held.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
	}
	if !client.closed {
		client.closed = true
		close(client.send)
	}
}

// Broadcast sends one message to every connected client. Clients whose
// buffers are full are dropped.
func (h *Hub) Broadcast(messageType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: messageType, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling %s message: %v", messageType, err)
		return
	}

	h.mutex.Lock()
	sent := 0
	for client := range h.clients {
		select {
		case client.send <- data:
			sent++
		default:
			log.Printf("Client %s send buffer full, closing connection", client.id)
			h.remove(client)
		}
	}
	h.mutex.Unlock()

	log.Printf("Broadcast %s to %d clients", messageType, sent)
}

// BroadcastLeaderboard pushes the current top scores to every client.
func (h *Hub) BroadcastLeaderboard(ctx context.Context) {
	scores, err := h.topScores(ctx)
	if err != nil {
		log.Printf("Leaderboard broadcast skipped: %v", err)
		return
	}
	h.Broadcast(MsgLeaderboardUpdate, scores)
}

// SendLeaderboardSync pushes the current top scores to a single client.
func (h *Hub) SendLeaderboardSync(client *Client) {
	scores, err := h.topScores(context.Background())
	if err != nil {
		log.Printf("Leaderboard sync for client %s skipped: %v", client.id, err)
		return
	}
	client.enqueue(Message{Type: MsgLeaderboardUpdate, Payload: scores})
}

func (h *Hub) topScores(ctx context.Context) ([]models.Score, error) {
	if h.scoreService == nil {
		return []models.Score{}, nil
	}
	return h.scoreService.TopScores(ctx)
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// RegisterClient takes ownership of conn. The client immediately receives
// the current leaderboard. It returns nil once the hub is stopped.
func (h *Hub) RegisterClient(conn *websocket.Conn) *Client {
	client := &Client{
		hub:    h,
		id:     uuid.NewString(),
		socket: conn,
		send:   make(chan []byte, sendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return nil
	}
	h.SendLeaderboardSync(client)

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (c *Client) enqueue(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling %s message: %v", msg.Type, err)
		return
	}

	c.hub.mutex.RLock()
	defer c.hub.mutex.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("Client %s send buffer full, dropping %s", c.id, msg.Type)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	c.socket.SetReadLimit(1 << 16)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		c.enqueue(Message{Type: MsgPong, Payload: "pong"})

	case "request_leaderboard":
		c.hub.SendLeaderboardSync(c)

	default:
		log.Printf("Unknown message type: %s from client %s", msg.Type, c.id)
	}
}
