package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"digital-world/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub owns the websocket connections and the room fan-out. It implements
// room.Broadcaster.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	rooms   map[string]map[string]struct{}

	dispatcher Dispatcher
	decoder    *protocol.Decoder
	log        zerolog.Logger
	sendBuffer int
}

func NewHub(d Dispatcher, log zerolog.Logger, sendBuffer int) *Hub {
	if sendBuffer < 1 {
		sendBuffer = 64
	}
	return &Hub{
		clients:    make(map[string]*client),
		rooms:      make(map[string]map[string]struct{}),
		dispatcher: d,
		decoder:    protocol.NewDecoder(),
		log:        log,
		sendBuffer: sendBuffer,
	}
}

// HandleWS upgrades the request and serves the connection until it closes.
// The generated connection id is the player id.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	cl := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
	}
	h.mu.Lock()
	h.clients[cl.id] = cl
	h.mu.Unlock()
	h.log.Info().Str("client_id", cl.id).Str("remote", c.Request.RemoteAddr).Msg("websocket connected")

	go h.writePump(cl)
	h.dispatcher.Connect(cl.id)
	h.readPump(c, cl)
}

func (h *Hub) readPump(c *gin.Context, cl *client) {
	defer func() {
		h.unregister(cl)
		h.dispatcher.Disconnect(cl.id)
		_ = cl.conn.Close()
		h.log.Info().Str("client_id", cl.id).Msg("websocket disconnected")
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := c.Request.Context()
	for {
		_, frame, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("client_id", cl.id).Msg("read failed")
			}
			return
		}
		ev, err := h.decoder.Decode(frame)
		if err != nil {
			lvl := h.log.Debug()
			if !errors.Is(err, protocol.ErrUnknownEvent) && !errors.Is(err, protocol.ErrInvalidPayload) {
				lvl = h.log.Warn()
			}
			lvl.Err(err).Str("client_id", cl.id).Msg("frame dropped")
			continue
		}
		h.dispatcher.Handle(ctx, cl.id, ev)
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// unregister drops cl from every table and closes its send queue.
func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl.id]; !ok {
		return
	}
	delete(h.clients, cl.id)
	for roomID, members := range h.rooms {
		delete(members, cl.id)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	close(cl.send)
}

// Send queues one frame for clientID. A full queue drops the frame.
func (h *Hub) Send(clientID, event string, data any) {
	msg, ok := h.encode(event, data)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if cl, ok := h.clients[clientID]; ok {
		h.enqueue(cl, event, msg)
	}
}

func (h *Hub) Broadcast(roomID, event string, data any) {
	msg, ok := h.encode(event, data)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id := range h.rooms[roomID] {
		if cl, ok := h.clients[id]; ok {
			h.enqueue(cl, event, msg)
		}
	}
}

func (h *Hub) BroadcastAll(event string, data any) {
	msg, ok := h.encode(event, data)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, cl := range h.clients {
		h.enqueue(cl, event, msg)
	}
}

func (h *Hub) Join(clientID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[clientID]; !ok {
		return
	}
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[roomID] = members
	}
	members[clientID] = struct{}{}
}

func (h *Hub) Leave(clientID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, clientID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// Clients is the number of open connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close sends a close frame to every connection. Their read loops then run
// the usual disconnect path.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, cl := range h.clients {
		_ = cl.conn.WriteControl(websocket.CloseMessage, msg, deadline)
	}
}

func (h *Hub) encode(event string, data any) ([]byte, bool) {
	msg, err := protocol.Encode(event, data)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("encode frame")
		return nil, false
	}
	return msg, true
}

func (h *Hub) enqueue(cl *client, event string, msg []byte) {
	select {
	case cl.send <- msg:
	default:
		h.log.Warn().Str("client_id", cl.id).Str("event", event).Msg("send queue full, frame dropped")
	}
}
