// Package memcache holds the in-process last-location cache backing instant
// replay on room join.
package memcache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/pkg/metrics"
)

// LocationCache is a size- and TTL-bounded map of bookingID to the freshest
// location seen. Entries are evicted LRU when the cache is full and expire
// after the TTL, so the store fallback covers long-idle bookings.
type LocationCache struct {
	lru *expirable.LRU[string, domain.LastLocation]
}

// NewLocationCache builds a cache holding at most size entries, each living
// at most ttl. A zero ttl disables expiry.
func NewLocationCache(size int, ttl time.Duration) *LocationCache {
	return &LocationCache{
		lru: expirable.NewLRU[string, domain.LastLocation](size, nil, ttl),
	}
}

func (c *LocationCache) Get(bookingID string) (domain.LastLocation, bool) {
	loc, ok := c.lru.Get(bookingID)
	if ok {
		metrics.CacheHits.WithLabelValues("location").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("location").Inc()
	}
	return loc, ok
}

func (c *LocationCache) Set(bookingID string, loc domain.LastLocation) {
	c.lru.Add(bookingID, loc)
}

// Len reports the number of live entries, for health reporting.
func (c *LocationCache) Len() int {
	return c.lru.Len()
}
