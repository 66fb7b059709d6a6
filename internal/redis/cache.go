// Package redis caches responses from the external geocoding and routing
// providers. Both are public rate-limited services (Nominatim, OSRM), so
// repeated lookups for the same place or route should not leave the
// process twice.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTL constants
const (
	GeocodeCacheTTL = 24 * time.Hour   // place names move rarely
	RouteCacheTTL   = 15 * time.Minute // traffic-dependent durations go stale
)

// Key prefixes
const (
	geocodeCachePrefix = "cache:geocode:"
	routeCachePrefix   = "cache:route:"
)

// CachedPlace is a cached geocoding candidate.
type CachedPlace struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// CachedRoute is a cached routing provider response.
type CachedRoute struct {
	DistanceKm  float64       `json:"distance_km"`
	DurationMin float64       `json:"duration_min"`
	Path        []CachedPoint `json:"path"`
}

// CachedPoint is one coordinate of a cached route geometry.
type CachedPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CacheStore handles provider response caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// GetPlaces retrieves cached geocoding results for a query. A nil slice
// with nil error is a cache miss.
func (s *CacheStore) GetPlaces(ctx context.Context, query, country string) ([]CachedPlace, error) {
	data, err := s.client.Get(ctx, geocodeKey(query, country)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var places []CachedPlace
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// SetPlaces stores geocoding results for a query.
func (s *CacheStore) SetPlaces(ctx context.Context, query, country string, places []CachedPlace) error {
	data, err := json.Marshal(places)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, geocodeKey(query, country), data, GeocodeCacheTTL).Err()
}

// GetRoute retrieves a cached route for an origin/destination pair. Nil
// with nil error is a cache miss.
func (s *CacheStore) GetRoute(ctx context.Context, originLat, originLng, destLat, destLng float64) (*CachedRoute, error) {
	data, err := s.client.Get(ctx, routeKey(originLat, originLng, destLat, destLng)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var route CachedRoute
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// SetRoute stores a route for an origin/destination pair.
func (s *CacheStore) SetRoute(ctx context.Context, originLat, originLng, destLat, destLng float64, route *CachedRoute) error {
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, routeKey(originLat, originLng, destLat, destLng), data, RouteCacheTTL).Err()
}

func geocodeKey(query, country string) string {
	return geocodeCachePrefix + country + ":" + strings.ToLower(strings.TrimSpace(query))
}

// routeKey renders coordinates at 4 decimal places (~11 m), so nearby
// endpoints share a cache entry.
func routeKey(originLat, originLng, destLat, destLng float64) string {
	return fmt.Sprintf("%s%.4f,%.4f:%.4f,%.4f",
		routeCachePrefix,
		originLat, originLng,
		destLat, destLng,
	)
}
