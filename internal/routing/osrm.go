// Package routing retrieves driving routes from an OSRM-compatible
// endpoint. The service consumes only the distance (and duration for
// display) - route computation itself stays with the provider.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trufi/internal/domain"
	internalRedis "trufi/internal/redis"
)

// ErrNoRoute is returned when the provider finds no driving route between
// the endpoints.
var ErrNoRoute = errors.New("no route found")

// Route is a driving route between two points.
type Route struct {
	DistanceKm  float64
	DurationMin float64
	Path        []domain.LatLng
}

// Provider supplies driving routes. The estimator service depends on this
// interface so tests can substitute a fixed-route implementation.
type Provider interface {
	Route(ctx context.Context, origin, destination domain.LatLng) (*Route, error)
}

// OSRMClient calls the OSRM route API, with an optional Redis cache in
// front of it.
type OSRMClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *internalRedis.CacheStore
}

// Ensure OSRMClient implements Provider.
var _ Provider = (*OSRMClient)(nil)

// NewOSRMClient creates a routing client. cache may be nil.
func NewOSRMClient(baseURL string, cache *internalRedis.CacheStore) *OSRMClient {
	return &OSRMClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cache,
	}
}

// osrmResponse mirrors the subset of the OSRM route response we read.
// Distances arrive in meters, durations in seconds, coordinates as
// [lng, lat] pairs.
type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route fetches the driving route between origin and destination.
func (c *OSRMClient) Route(ctx context.Context, origin, destination domain.LatLng) (*Route, error) {
	if c.cache != nil {
		cached, err := c.cache.GetRoute(ctx, origin.Lat, origin.Lng, destination.Lat, destination.Lng)
		if err == nil && cached != nil {
			return fromCached(cached), nil
		}
	}

	url := fmt.Sprintf(
		"%s/%f,%f;%f,%f?overview=full&geometries=geojson&alternatives=false&steps=false",
		c.baseURL,
		origin.Lng, origin.Lat,
		destination.Lng, destination.Lat,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing service returned status %d", resp.StatusCode)
	}

	var raw osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	if len(raw.Routes) == 0 {
		return nil, ErrNoRoute
	}

	best := raw.Routes[0]
	route := &Route{
		DistanceKm:  best.Distance / 1000,
		DurationMin: best.Duration / 60,
		Path:        make([]domain.LatLng, 0, len(best.Geometry.Coordinates)),
	}
	for _, coord := range best.Geometry.Coordinates {
		if len(coord) < 2 {
			continue
		}
		route.Path = append(route.Path, domain.LatLng{Lat: coord[1], Lng: coord[0]})
	}

	if c.cache != nil {
		_ = c.cache.SetRoute(ctx, origin.Lat, origin.Lng, destination.Lat, destination.Lng, toCached(route))
	}

	return route, nil
}

func fromCached(cached *internalRedis.CachedRoute) *Route {
	route := &Route{
		DistanceKm:  cached.DistanceKm,
		DurationMin: cached.DurationMin,
		Path:        make([]domain.LatLng, 0, len(cached.Path)),
	}
	for _, p := range cached.Path {
		route.Path = append(route.Path, domain.LatLng{Lat: p.Lat, Lng: p.Lng})
	}
	return route
}

func toCached(route *Route) *internalRedis.CachedRoute {
	cached := &internalRedis.CachedRoute{
		DistanceKm:  route.DistanceKm,
		DurationMin: route.DurationMin,
		Path:        make([]internalRedis.CachedPoint, 0, len(route.Path)),
	}
	for _, p := range route.Path {
		cached.Path = append(cached.Path, internalRedis.CachedPoint{Lat: p.Lat, Lng: p.Lng})
	}
	return cached
}
