package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/core/usecases"
)

// ---- Mocks ----

type mockFeed struct {
	mu     sync.Mutex
	events []domain.LocationUpdate
}

func (m *mockFeed) Broadcast(bookingID string, upd domain.LocationUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, upd)
}

func (m *mockFeed) all() []domain.LocationUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.LocationUpdate(nil), m.events...)
}

type mockLocationCache struct {
	mu   sync.Mutex
	data map[string]domain.LastLocation
	gets int
}

func newMockLocationCache() *mockLocationCache {
	return &mockLocationCache{data: make(map[string]domain.LastLocation)}
}

func (m *mockLocationCache) Get(bookingID string) (domain.LastLocation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	loc, ok := m.data[bookingID]
	return loc, ok
}

func (m *mockLocationCache) Set(bookingID string, loc domain.LastLocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[bookingID] = loc
}

func (m *mockLocationCache) get(bookingID string) (domain.LastLocation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.data[bookingID]
	return loc, ok
}

type mockLocationStore struct {
	lastLocationFn func(ctx context.Context, bookingID string) (*domain.LastLocation, error)
	upsertFn       func(ctx context.Context, bookingID string, loc domain.LastLocation) error

	mu       sync.Mutex
	upserted []domain.LastLocation
	done     chan struct{}
}

func (m *mockLocationStore) LastLocation(ctx context.Context, bookingID string) (*domain.LastLocation, error) {
	if m.lastLocationFn != nil {
		return m.lastLocationFn(ctx, bookingID)
	}
	return nil, nil
}

func (m *mockLocationStore) UpsertLastLocation(ctx context.Context, bookingID string, loc domain.LastLocation) error {
	m.mu.Lock()
	m.upserted = append(m.upserted, loc)
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	if m.upsertFn != nil {
		return m.upsertFn(ctx, bookingID, loc)
	}
	return nil
}

func newTracking(feed *mockFeed, cache *mockLocationCache, store *mockLocationStore) *usecases.TrackingService {
	return usecases.NewTrackingService(feed, cache, store, nil)
}

func report(id string, lat, lng, ts any) domain.LocationReport {
	return domain.LocationReport{BookingID: id, Lat: lat, Lng: lng, Ts: ts}
}

// ---- Ingest ----

func TestHandleReportBroadcastsThenCaches(t *testing.T) {
	feed := &mockFeed{}
	cache := newMockLocationCache()
	store := &mockLocationStore{done: make(chan struct{}, 1)}
	svc := newTracking(feed, cache, store)

	svc.HandleReport(context.Background(), report("HurryUp000123", 23.8103, 90.4125, int64(1700000000000)))

	events := feed.all()
	if len(events) != 1 {
		t.Fatalf("want 1 broadcast, got %d", len(events))
	}
	if events[0].Lat != 23.8103 || events[0].Lng != 90.4125 || events[0].Ts != 1700000000000 {
		t.Errorf("broadcast payload wrong: %+v", events[0])
	}

	loc, ok := cache.get("HurryUp000123")
	if !ok {
		t.Fatal("cache not written")
	}
	if loc.Lat != 23.8103 || loc.Ts != 1700000000000 {
		t.Errorf("cached value wrong: %+v", loc)
	}

	select {
	case <-store.done:
	case <-time.After(time.Second):
		t.Fatal("persist never ran")
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.upserted) != 1 || store.upserted[0].Lat != 23.8103 {
		t.Errorf("upserted wrong: %+v", store.upserted)
	}
}

func TestHandleReportArrivalOrderWins(t *testing.T) {
	feed := &mockFeed{}
	cache := newMockLocationCache()
	store := &mockLocationStore{}
	svc := newTracking(feed, cache, store)

	// Second report carries an older timestamp but still wins: ordering is
	// by arrival, not by clock.
	svc.HandleReport(context.Background(), report("b1", 1.0, 1.0, int64(2000)))
	svc.HandleReport(context.Background(), report("b1", 2.0, 2.0, int64(1000)))

	events := feed.all()
	if len(events) != 2 {
		t.Fatalf("want 2 broadcasts, got %d", len(events))
	}
	if events[0].Lat != 1.0 || events[1].Lat != 2.0 {
		t.Errorf("broadcast order wrong: %+v", events)
	}

	loc, _ := cache.get("b1")
	if loc.Lat != 2.0 || loc.Ts != 1000 {
		t.Errorf("cache should hold the last arrival, got %+v", loc)
	}
}

func TestHandleReportDropsMalformed(t *testing.T) {
	cases := []struct {
		name string
		rep  domain.LocationReport
	}{
		{"empty booking id", report("", 1.0, 2.0, nil)},
		{"lat not a number", report("b1", "not-a-number", 2.0, nil)},
		{"lng missing", domain.LocationReport{BookingID: "b1", Lat: 1.0}},
		{"lat infinite", report("b1", "+Inf", 2.0, nil)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			feed := &mockFeed{}
			cache := newMockLocationCache()
			store := &mockLocationStore{}
			svc := newTracking(feed, cache, store)

			svc.HandleReport(context.Background(), tc.rep)

			if n := len(feed.all()); n != 0 {
				t.Errorf("malformed report broadcast %d times", n)
			}
			if _, ok := cache.get(tc.rep.BookingID); ok {
				t.Error("malformed report reached the cache")
			}
		})
	}
}

func TestHandleReportCoercesStringCoordinates(t *testing.T) {
	feed := &mockFeed{}
	cache := newMockLocationCache()
	svc := newTracking(feed, cache, &mockLocationStore{})

	svc.HandleReport(context.Background(), report("b1", "23.81", "90.41", "1700000000000"))

	loc, ok := cache.get("b1")
	if !ok {
		t.Fatal("string coordinates rejected")
	}
	if loc.Lat != 23.81 || loc.Lng != 90.41 || loc.Ts != 1700000000000 {
		t.Errorf("coerced wrong: %+v", loc)
	}
}

func TestHandleReportDefaultsTimestamp(t *testing.T) {
	feed := &mockFeed{}
	cache := newMockLocationCache()
	svc := newTracking(feed, cache, &mockLocationStore{})

	before := time.Now().UnixMilli()
	svc.HandleReport(context.Background(), report("b1", 1.0, 2.0, nil))
	after := time.Now().UnixMilli()

	loc, _ := cache.get("b1")
	if loc.Ts < before || loc.Ts > after {
		t.Errorf("default ts %d outside [%d, %d]", loc.Ts, before, after)
	}
}

func TestHandleReportPersistFailureDoesNotRollBack(t *testing.T) {
	feed := &mockFeed{}
	cache := newMockLocationCache()
	store := &mockLocationStore{
		done:     make(chan struct{}, 1),
		upsertFn: func(context.Context, string, domain.LastLocation) error { return errors.New("mongo down") },
	}
	svc := newTracking(feed, cache, store)

	svc.HandleReport(context.Background(), report("b1", 1.0, 2.0, int64(3000)))

	select {
	case <-store.done:
	case <-time.After(time.Second):
		t.Fatal("persist never ran")
	}

	if len(feed.all()) != 1 {
		t.Error("broadcast lost on persist failure")
	}
	if _, ok := cache.get("b1"); !ok {
		t.Error("cache write lost on persist failure")
	}
}

// ---- Replay ----

func TestReplayFromCacheSkipsStore(t *testing.T) {
	cache := newMockLocationCache()
	cache.Set("b1", domain.LastLocation{Lat: 1.5, Lng: 2.5, Ts: 42})

	storeCalled := false
	store := &mockLocationStore{
		lastLocationFn: func(context.Context, string) (*domain.LastLocation, error) {
			storeCalled = true
			return nil, nil
		},
	}
	svc := newTracking(&mockFeed{}, cache, store)

	upd, ok := svc.Replay(context.Background(), "b1")
	if !ok {
		t.Fatal("cache hit not replayed")
	}
	if upd.BookingID != "b1" || upd.Lat != 1.5 || upd.Ts != 42 {
		t.Errorf("replay payload wrong: %+v", upd)
	}
	if storeCalled {
		t.Error("store consulted despite cache hit")
	}
}

func TestReplayFallsBackToStoreAndWarmsCache(t *testing.T) {
	cache := newMockLocationCache()
	store := &mockLocationStore{
		lastLocationFn: func(_ context.Context, id string) (*domain.LastLocation, error) {
			if id != "HurryUp000123" {
				t.Errorf("unexpected lookup %q", id)
			}
			return &domain.LastLocation{Lat: 23.81, Lng: 90.41, Ts: 1700000000000}, nil
		},
	}
	svc := newTracking(&mockFeed{}, cache, store)

	upd, ok := svc.Replay(context.Background(), "HurryUp000123")
	if !ok {
		t.Fatal("store hit not replayed")
	}
	if upd.Lat != 23.81 || upd.Lng != 90.41 || upd.Ts != 1700000000000 {
		t.Errorf("replay payload wrong: %+v", upd)
	}

	if loc, ok := cache.get("HurryUp000123"); !ok || loc.Lat != 23.81 {
		t.Error("store hit did not warm the cache")
	}
}

func TestReplayMissWhenUnknown(t *testing.T) {
	svc := newTracking(&mockFeed{}, newMockLocationCache(), &mockLocationStore{})

	if _, ok := svc.Replay(context.Background(), "nope"); ok {
		t.Error("replayed a booking nobody reported for")
	}
	if _, ok := svc.Replay(context.Background(), ""); ok {
		t.Error("replayed an empty booking id")
	}
}

func TestReplayStoreFailureIsAMiss(t *testing.T) {
	store := &mockLocationStore{
		lastLocationFn: func(context.Context, string) (*domain.LastLocation, error) {
			return nil, errors.New("mongo down")
		},
	}
	svc := newTracking(&mockFeed{}, newMockLocationCache(), store)

	if _, ok := svc.Replay(context.Background(), "b1"); ok {
		t.Error("store failure should replay nothing")
	}
}

func TestReplayRejectsNonFiniteStoredCoords(t *testing.T) {
	nan := domain.LastLocation{Lat: 1.0, Lng: 2.0, Ts: 5}
	nan.Lat = nanFloat()
	store := &mockLocationStore{
		lastLocationFn: func(context.Context, string) (*domain.LastLocation, error) {
			return &nan, nil
		},
	}
	svc := newTracking(&mockFeed{}, newMockLocationCache(), store)

	if _, ok := svc.Replay(context.Background(), "b1"); ok {
		t.Error("non-finite stored location replayed")
	}
}

func nanFloat() float64 {
	z := 0.0
	return z / z
}
