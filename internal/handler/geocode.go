package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trufi/internal/geocode"
	"trufi/internal/metrics"
)

// GeocodeHandler proxies place-name searches to the geocoding provider.
type GeocodeHandler struct {
	client    *geocode.Client
	collector *metrics.Collector
}

// NewGeocodeHandler creates a new GeocodeHandler. collector may be nil.
func NewGeocodeHandler(client *geocode.Client, collector *metrics.Collector) *GeocodeHandler {
	return &GeocodeHandler{
		client:    client,
		collector: collector,
	}
}

// PlaceResponse is one geocoding candidate.
type PlaceResponse struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// Search handles GET /v1/geocode?q=...&country=...
func (h *GeocodeHandler) Search(c *gin.Context) {
	places, err := h.client.Search(c.Request.Context(), c.Query("q"), c.Query("country"))
	if err != nil {
		respondError(c, err)
		return
	}

	if h.collector != nil {
		h.collector.GeocodeLookups.Inc()
	}

	response := make([]PlaceResponse, 0, len(places))
	for _, p := range places {
		response = append(response, PlaceResponse{
			DisplayName: p.DisplayName,
			Lat:         p.Lat,
			Lng:         p.Lng,
		})
	}

	respondJSON(c, http.StatusOK, response)
}
