package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/core/usecases"
	"github.com/hurryup/express/internal/pkg/metrics"
)

// wsFrame is the single inbound frame shape. Two types are understood:
//
//	{"type":"join:order","bookingId":"HurryUp123456"}   watch a booking
//	{"type":"loc","bookingId":"...","lat":..,"lng":..,"ts":..}  agent report
//
// lat/lng/ts arrive as JSON numbers or strings; the domain layer coerces.
type wsFrame struct {
	Type      string `json:"type"`
	BookingID string `json:"bookingId"`
	Lat       any    `json:"lat"`
	Lng       any    `json:"lng"`
	Ts        any    `json:"ts"`
}

const (
	frameJoin     = "join:order"
	frameLocation = "loc"
)

// locationFrame is the outbound wire shape for both live broadcasts and
// replay on join. Subscribers cannot tell the two apart, which is the point.
func locationFrame(upd domain.LocationUpdate) map[string]any {
	return map[string]any{
		"type":      frameLocation,
		"bookingId": upd.BookingID,
		"lat":       upd.Lat,
		"lng":       upd.Lng,
		"ts":        upd.Ts,
	}
}

// TrackingSocketHandler handles one tracking WebSocket connection. Malformed
// frames and unknown types are dropped without a reply; the read loop
// serializes an agent's reports so per-booking ordering follows arrival
// order. Closing the socket detaches the channel from every joined room.
func TrackingSocketHandler(hub *Hub, tracking *usecases.TrackingService, log *slog.Logger) func(*websocket.Conn) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "ws")

	return func(c *websocket.Conn) {
		defer c.Close()

		ch := hub.Attach(c)
		defer hub.Detach(ch)

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		log.Debug("client connected", "channel", ch.id, "remote", c.RemoteAddr().String())

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := ch.write(websocket.PingMessage, nil); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		ctx := context.Background()
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var f wsFrame
			if err := json.Unmarshal(msg, &f); err != nil {
				metrics.LocationReportsDropped.Inc()
				continue
			}

			switch f.Type {
			case frameJoin:
				if f.BookingID == "" {
					continue
				}
				hub.Join(ch, f.BookingID)
				// Replay goes to the joiner only, never to the room
				if upd, ok := tracking.Replay(ctx, f.BookingID); ok {
					_ = hub.SendTo(ch, upd)
				}

			case frameLocation:
				tracking.HandleReport(ctx, domain.LocationReport{
					BookingID: f.BookingID,
					Lat:       f.Lat,
					Lng:       f.Lng,
					Ts:        f.Ts,
				})

			default:
				// Unknown frame types are ignored
			}
		}

		log.Debug("client disconnected", "channel", ch.id)
	}
}
