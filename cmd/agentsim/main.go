// agentsim simulates a delivery agent's device: it connects to the tracking
// WebSocket and streams location reports along a straight route at a fixed
// speed. Useful for demoing the tracking page and for load testing the
// ingest pipeline.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hurryup/express/internal/pkg/geospatial"
)

type locFrame struct {
	Type      string  `json:"type"`
	BookingID string  `json:"bookingId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Ts        int64   `json:"ts"`
}

func parsePoint(s string) (lat, lng float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want lat,lng got %q", s)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	return lat, lng, err
}

func main() {
	var (
		url      = flag.String("url", "ws://localhost:5000/ws/track", "tracking WebSocket URL")
		booking  = flag.String("booking", "", "booking id to report for (required)")
		from     = flag.String("from", "23.8103,90.4125", "start point lat,lng")
		to       = flag.String("to", "23.7806,90.2792", "end point lat,lng")
		speedKmh = flag.Float64("speed", 25, "travel speed in km/h")
		interval = flag.Duration("interval", 2*time.Second, "report interval")
	)
	flag.Parse()

	if *booking == "" {
		flag.Usage()
		os.Exit(2)
	}

	lat1, lng1, err := parsePoint(*from)
	if err != nil {
		log.Fatalf("bad -from: %v", err)
	}
	lat2, lng2, err := parsePoint(*to)
	if err != nil {
		log.Fatalf("bad -to: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", *url, err)
	}
	defer conn.Close()

	// Drain server frames so pings get answered and the read side never
	// backs up.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	total := geospatial.Haversine(lat1, lng1, lat2, lng2)
	duration := time.Duration(total / (*speedKmh * 1000 / 3600) * float64(time.Second))
	log.Printf("route: %.0f m, eta %s at %.0f km/h", total, duration.Round(time.Second), *speedKmh)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	start := time.Now()
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			log.Println("interrupted")
			return
		case now := <-ticker.C:
			t := float64(now.Sub(start)) / float64(duration)
			lat, lng := geospatial.Interpolate(lat1, lng1, lat2, lng2, t)

			frame := locFrame{
				Type:      "loc",
				BookingID: *booking,
				Lat:       lat,
				Lng:       lng,
				Ts:        now.UnixMilli(),
			}
			data, _ := json.Marshal(frame)
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Fatalf("write: %v", err)
			}

			if t >= 1 {
				log.Println("arrived")
				return
			}
		}
	}
}
