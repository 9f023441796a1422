package http

import (
	"github.com/hurryup/express/internal/adapters/mongo"
	natsadapter "github.com/hurryup/express/internal/adapters/nats"
	"github.com/hurryup/express/internal/adapters/valkey"
	"github.com/hurryup/express/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers. NATS and Cache
// may be nil when those backends are down; handlers must cope.
type Dependencies struct {
	Bookings  *usecases.BookingService
	Users     *usecases.UserService
	Agents    *usecases.AgentService
	Analytics *usecases.AnalyticsService
	Tracking  *usecases.TrackingService
	Hub       *Hub
	DB        *mongo.DB
	Cache     *valkey.Cache
	NATS      *natsadapter.Publisher
}
