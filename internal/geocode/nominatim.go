// Package geocode resolves free-text place names to coordinates through a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	internalRedis "trufi/internal/redis"
)

const defaultResultLimit = 5

// Place is one ranked geocoding candidate.
type Place struct {
	DisplayName string
	Lat         float64
	Lng         float64
}

// Client queries a Nominatim search endpoint, with an optional Redis cache
// in front of it.
type Client struct {
	baseURL        string
	defaultCountry string
	httpClient     *http.Client
	cache          *internalRedis.CacheStore
}

// NewClient creates a geocoding client. cache may be nil, in which case
// every search hits the upstream service.
func NewClient(baseURL, defaultCountry string, cache *internalRedis.CacheStore) *Client {
	return &Client{
		baseURL:        baseURL,
		defaultCountry: defaultCountry,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		cache:          cache,
	}
}

// nominatimResult mirrors the upstream JSON. Nominatim serializes
// coordinates as strings.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search returns ranked candidates for a free-text query, restricted to a
// country code unless country is "all". Results are cached; a cache error
// falls through to the upstream call.
func (c *Client) Search(ctx context.Context, query, country string) ([]Place, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if country == "" {
		country = c.defaultCountry
	}

	if c.cache != nil {
		cached, err := c.cache.GetPlaces(ctx, query, country)
		if err == nil && cached != nil {
			places := make([]Place, 0, len(cached))
			for _, p := range cached {
				places = append(places, Place{DisplayName: p.DisplayName, Lat: p.Lat, Lng: p.Lng})
			}
			return places, nil
		}
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(defaultResultLimit))
	params.Set("addressdetails", "0")
	params.Set("q", query)
	if country != "" && country != "all" {
		params.Set("countrycodes", country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "es")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	var raw []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(raw))
	for _, r := range raw {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lng, errLng := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		places = append(places, Place{DisplayName: r.DisplayName, Lat: lat, Lng: lng})
	}

	if c.cache != nil {
		cached := make([]internalRedis.CachedPlace, 0, len(places))
		for _, p := range places {
			cached = append(cached, internalRedis.CachedPlace{DisplayName: p.DisplayName, Lat: p.Lat, Lng: p.Lng})
		}
		_ = c.cache.SetPlaces(ctx, query, country, cached)
	}

	return places, nil
}
