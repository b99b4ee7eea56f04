package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mbocsi/lightsched/proto"
)

const DefaultMaxClients = 16

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Panels may be served from anywhere on the LAN
	},
}

// Hub accepts panel websockets and answers each schedule frame with an Ack.
type Hub struct {
	schedules  *ScheduleService
	registry   *Registry
	maxClients int
}

func NewHub(schedules *ScheduleService, registry *Registry) *Hub {
	return &Hub{
		schedules:  schedules,
		registry:   registry,
		maxClients: DefaultMaxClients,
	}
}

func (h *Hub) SetMaxClients(n int) {
	if n > 0 {
		h.maxClients = n
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The slot is reserved before the upgrade so concurrent upgrades cannot
	// overshoot maxClients.
	pc := newPanelConn(r.RemoteAddr)
	if !h.registry.TryStore(pc, h.maxClients) {
		slog.Warn("Max clients reached, rejecting connection", "remote_addr", r.RemoteAddr)
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.registry.Delete(pc.id)
		slog.Error("Failed to upgrade connection", "error", err.Error())
		return
	}
	pc.conn = conn

	go h.handleConnection(pc)
}

func (h *Hub) handleConnection(pc *panelConn) {
	conn, remoteAddr := pc.conn, pc.remote
	slog.Info("Panel connected", "addr", remoteAddr, "id", pc.id)

	defer func() {
		h.registry.Delete(pc.id)
		conn.Close()
		slog.Info("Panel disconnected", "addr", remoteAddr, "id", pc.id)
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("WebSocket connection error", "addr", remoteAddr, "error", err.Error())
			}
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		slog.Debug("WebSocket message received", "id", pc.id, "size", len(data))
		ack := h.schedules.HandleCommand(data, pc.id)
		if err := pc.send(ack); err != nil {
			slog.Warn("Failed to reply to panel", "id", pc.id, "error", err.Error())
			return
		}
	}
}

type panelConn struct {
	id        string
	remote    string
	connected time.Time

	conn *websocket.Conn
	wmu  sync.Mutex
}

func newPanelConn(remote string) *panelConn {
	return &panelConn{
		id:        "ws-" + uuid.New().String(),
		remote:    remote,
		connected: time.Now(),
	}
}

func (c *panelConn) ID() string             { return c.id }
func (c *panelConn) RemoteAddr() string     { return c.remote }
func (c *panelConn) ConnectedAt() time.Time { return c.connected }

func (c *panelConn) send(ack proto.Ack) error {
	data, err := json.Marshal(ack)
	if err != nil {
		return err
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	slog.Debug("Sent WebSocket message", "to", c.id, "status", ack.Status)
	return nil
}
