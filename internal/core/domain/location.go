package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// LocationReport is a raw location update as received from an agent's device.
// Lat, Lng and Ts are untyped because clients send them as either JSON numbers
// or strings; Normalize coerces and validates them.
type LocationReport struct {
	BookingID string `json:"bookingId"`
	Lat       any    `json:"lat"`
	Lng       any    `json:"lng"`
	Ts        any    `json:"ts,omitempty"`
}

// LastLocation is the last known location of a booking's parcel. It is kept
// in the in-process cache and embedded in the booking document.
type LastLocation struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
	Ts  int64   `json:"ts" bson:"ts"`
}

// LocationUpdate is the message fanned out to a booking's subscribers, both
// for live updates and for replay on join.
type LocationUpdate struct {
	BookingID string  `json:"bookingId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Ts        int64   `json:"ts"`
}

// Last returns the cacheable/persistable fact carried by the update.
func (u LocationUpdate) Last() LastLocation {
	return LastLocation{Lat: u.Lat, Lng: u.Lng, Ts: u.Ts}
}

// Normalize validates the report and converts it into a LocationUpdate.
// The whole report is rejected when the booking id is empty or either
// coordinate does not coerce to a finite float. A missing or unparseable
// timestamp is substituted with now.
func (r LocationReport) Normalize(now time.Time) (LocationUpdate, bool) {
	if r.BookingID == "" {
		return LocationUpdate{}, false
	}
	lat, ok := coerceCoordinate(r.Lat)
	if !ok {
		return LocationUpdate{}, false
	}
	lng, ok := coerceCoordinate(r.Lng)
	if !ok {
		return LocationUpdate{}, false
	}
	ts, ok := coerceMillis(r.Ts)
	if !ok || ts <= 0 {
		ts = now.UnixMilli()
	}
	return LocationUpdate{BookingID: r.BookingID, Lat: lat, Lng: lng, Ts: ts}, true
}

// Valid reports whether the stored location carries finite coordinates.
func (l LastLocation) Valid() bool {
	return isFinite(l.Lat) && isFinite(l.Lng)
}

func coerceCoordinate(v any) (float64, bool) {
	f, ok := coerceFloat(v)
	if !ok || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceMillis(v any) (int64, bool) {
	f, ok := coerceFloat(v)
	if !ok || !isFinite(f) {
		return 0, false
	}
	return int64(f), true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
