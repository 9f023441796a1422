package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/pkg/metrics"
)

// connWriter is the slice of *websocket.Conn the hub needs; tests substitute
// a recorder.
type connWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// Channel is one WebSocket connection registered with the hub. Writes are
// serialized through the channel's mutex because broadcasts, replays and
// keep-alive pings race on the same connection.
type Channel struct {
	id    string
	conn  connWriter
	wmu   sync.Mutex
	rooms map[string]struct{}
}

func (c *Channel) write(messageType int, data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

// Hub is the in-process subscription registry: booking id to the set of
// channels watching that booking. It implements ports.LocationFeed.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Channel]struct{}
	log   *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		rooms: make(map[string]map[*Channel]struct{}),
		log:   log.With("component", "hub"),
	}
}

// Attach registers a connection and returns its channel handle.
func (h *Hub) Attach(conn *websocket.Conn) *Channel {
	return h.attach(conn)
}

func (h *Hub) attach(conn connWriter) *Channel {
	return &Channel{
		id:    uuid.NewString(),
		conn:  conn,
		rooms: make(map[string]struct{}),
	}
}

// Join adds the channel to a booking's room. Joining twice is a no-op; a
// channel may watch any number of bookings.
func (h *Hub) Join(ch *Channel, bookingID string) {
	if bookingID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := ch.rooms[bookingID]; ok {
		return
	}
	room := h.rooms[bookingID]
	if room == nil {
		room = make(map[*Channel]struct{})
		h.rooms[bookingID] = room
	}
	room[ch] = struct{}{}
	ch.rooms[bookingID] = struct{}{}
	metrics.RoomJoins.Inc()
}

// Detach removes the channel from every room it joined. Empty rooms are
// deleted so idle bookings cost nothing.
func (h *Hub) Detach(ch *Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(ch)
}

func (h *Hub) detachLocked(ch *Channel) {
	for bookingID := range ch.rooms {
		if room := h.rooms[bookingID]; room != nil {
			delete(room, ch)
			if len(room) == 0 {
				delete(h.rooms, bookingID)
			}
		}
	}
	ch.rooms = make(map[string]struct{})
}

// Broadcast fans a location update out to every channel in the booking's
// room. Fire-and-forget: a failed write detaches the channel, nothing is
// retried or queued.
func (h *Hub) Broadcast(bookingID string, upd domain.LocationUpdate) {
	data, err := json.Marshal(locationFrame(upd))
	if err != nil {
		return
	}

	h.mu.RLock()
	room := h.rooms[bookingID]
	targets := make([]*Channel, 0, len(room))
	for ch := range room {
		targets = append(targets, ch)
	}
	h.mu.RUnlock()

	var dead []*Channel
	for _, ch := range targets {
		if err := ch.write(websocket.TextMessage, data); err != nil {
			h.log.Debug("dropping channel after write error", "channel", ch.id, "error", err)
			dead = append(dead, ch)
		}
	}
	if len(dead) > 0 {
		h.mu.Lock()
		for _, ch := range dead {
			h.detachLocked(ch)
		}
		h.mu.Unlock()
	}
}

// SendTo delivers an update to a single channel, used for replay on join.
func (h *Hub) SendTo(ch *Channel, upd domain.LocationUpdate) error {
	data, err := json.Marshal(locationFrame(upd))
	if err != nil {
		return err
	}
	return ch.write(websocket.TextMessage, data)
}

// RoomSize reports the subscriber count of a booking's room.
func (h *Hub) RoomSize(bookingID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[bookingID])
}
