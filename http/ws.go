package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"newsguard/detector"
	"newsguard/monitoring"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 1 << 20
)

// MessageType tags a server reply.
type MessageType string

const (
	MessageClassification MessageType = "classification"
	MessageWarning        MessageType = "warning"
	MessageError          MessageType = "error"
)

// ClientMessage is one text a client wants classified.
type ClientMessage struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Message is the server reply to a ClientMessage.
type Message struct {
	Type      MessageType      `json:"type"`
	ID        string           `json:"id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Result    *detector.Result `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Client is a single websocket connection. send is never closed; the pumps
// stop on done (reader gone) or on the hub context.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	clientID string
}

// Hub tracks live classification connections and drops them all on Stop.
type Hub struct {
	predictor  Predictor
	metrics    *monitoring.Metrics
	logger     *zap.Logger
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	pumps      sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewHub(predictor Predictor, metrics *monitoring.Metrics, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}

	return &Hub{
		predictor:  instrument(predictor, metrics),
		metrics:    metrics,
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run owns the client registry until Stop is called.
func (h *Hub) Run() {
	defer h.logger.Debug("websocket hub stopped")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("client connected", zap.String("client_id", client.clientID), zap.Int("total", total))

		case client := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, client)
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("client disconnected", zap.String("client_id", client.clientID), zap.Int("total", total))

		case <-h.ctx.Done():
			// each writePump sees the same ctx and closes its own connection
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

// Wait blocks until every connection's pumps have returned.
func (h *Hub) Wait() {
	h.pumps.Wait()
}

// Clients returns the number of registered connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the request and starts the client's pumps.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:     conn,
		send:     make(chan []byte, 16),
		done:     make(chan struct{}),
		clientID: uuid.NewString(),
	}

	select {
	case h.register <- client:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	h.pumps.Add(2)
	go client.writePump(h)
	go client.readPump(h)
}

func (c *Client) writePump(h *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		h.pumps.Done()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return

		case <-h.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		close(c.done)
		select {
		case h.unregister <- c:
		case <-h.ctx.Done():
		}
		c.conn.Close()
		h.pumps.Done()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read error", zap.String("client_id", c.clientID), zap.Error(err))
			}
			return
		}

		reply := h.handleClientMessage(data)
		payload, err := json.Marshal(reply)
		if err != nil {
			h.logger.Error("encode websocket reply", zap.Error(err))
			continue
		}

		// a reply finished after Stop is dropped; send stays open so this never panics
		select {
		case c.send <- payload:
		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) handleClientMessage(data []byte) Message {
	reply := Message{Timestamp: time.Now()}

	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		reply.Type = MessageError
		reply.Error = "invalid message: " + err.Error()
		return reply
	}
	reply.ID = msg.ID

	if detector.IsBlank(msg.Text) {
		h.metrics.RecordBlank()
		reply.Type = MessageWarning
		reply.Error = detector.ErrEmptyInput.Error()
		return reply
	}

	result, err := h.predictor.Classify(msg.Text)
	if err != nil {
		reply.Type = MessageError
		reply.Error = err.Error()
		return reply
	}
	reply.Type = MessageClassification
	reply.Result = result
	return reply
}
