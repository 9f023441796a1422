package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/core/ports"
	"github.com/hurryup/express/internal/pkg/metrics"
)

// TrackingService is the live location pipeline: it validates incoming
// reports, fans them out to subscribers, keeps the in-process last-location
// cache fresh, and persists best-effort to the booking store.
//
// Ordering contract: for one booking, broadcast and cache writes happen in
// report arrival order, and the broadcast always precedes the cache write,
// which always precedes the (asynchronous) persist. The cached copy is never
// staler than the persisted one.
type TrackingService struct {
	feed  ports.LocationFeed
	cache ports.LocationCache
	store ports.LocationStore
	log   *slog.Logger
	now   func() time.Time
}

// NewTrackingService wires the pipeline. The cache is an explicitly owned
// instance, not shared module state.
func NewTrackingService(feed ports.LocationFeed, cache ports.LocationCache, store ports.LocationStore, log *slog.Logger) *TrackingService {
	if log == nil {
		log = slog.Default()
	}
	return &TrackingService{
		feed:  feed,
		cache: cache,
		store: store,
		log:   log.With("component", "tracking"),
		now:   time.Now,
	}
}

// HandleReport ingests one raw location report. Invalid reports are dropped
// silently: the sender gets no error, the room sees no broadcast, the cache
// is untouched. For valid reports the three pipeline steps run in order and
// a persistence failure never rolls back the first two.
func (s *TrackingService) HandleReport(ctx context.Context, rep domain.LocationReport) {
	upd, ok := rep.Normalize(s.now())
	if !ok {
		metrics.LocationReportsDropped.Inc()
		s.log.Debug("dropping malformed location report", "bookingId", rep.BookingID)
		return
	}
	metrics.LocationReportsIngested.Inc()

	// 1) fan out before touching storage so subscribers see no added latency
	s.feed.Broadcast(upd.BookingID, upd)
	metrics.LocationBroadcasts.Inc()

	// 2) last-write-wins by arrival order, not by timestamp
	s.cache.Set(upd.BookingID, upd.Last())

	// 3) best-effort persist; the next report's write heals a missed one
	go s.persist(upd)
}

func (s *TrackingService) persist(upd domain.LocationUpdate) {
	if err := s.store.UpsertLastLocation(context.Background(), upd.BookingID, upd.Last()); err != nil {
		metrics.LocationPersistFailures.Inc()
		s.log.Warn("persist lastLocation failed", "bookingId", upd.BookingID, "error", err)
	}
}

// Replay resolves the last known location for a channel that just joined a
// booking's room: cache first, then the store. A store hit warms the cache.
// A store failure degrades to "not found" and never blocks the join.
func (s *TrackingService) Replay(ctx context.Context, bookingID string) (domain.LocationUpdate, bool) {
	if bookingID == "" {
		return domain.LocationUpdate{}, false
	}

	if last, ok := s.cache.Get(bookingID); ok {
		metrics.ReplaysServed.WithLabelValues("cache").Inc()
		return domain.LocationUpdate{BookingID: bookingID, Lat: last.Lat, Lng: last.Lng, Ts: last.Ts}, true
	}

	loc, err := s.store.LastLocation(ctx, bookingID)
	if err != nil {
		s.log.Warn("lastLocation lookup failed", "bookingId", bookingID, "error", err)
		metrics.ReplayMisses.Inc()
		return domain.LocationUpdate{}, false
	}
	if loc == nil || !loc.Valid() {
		metrics.ReplayMisses.Inc()
		return domain.LocationUpdate{}, false
	}

	last := *loc
	if last.Ts <= 0 {
		last.Ts = s.now().UnixMilli()
	}
	s.cache.Set(bookingID, last)
	metrics.ReplaysServed.WithLabelValues("store").Inc()
	return domain.LocationUpdate{BookingID: bookingID, Lat: last.Lat, Lng: last.Lng, Ts: last.Ts}, true
}
