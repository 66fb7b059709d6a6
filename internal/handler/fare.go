package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trufi/internal/metrics"
	"trufi/internal/service"
)

// FareHandler handles HTTP requests for general fare quotes.
type FareHandler struct {
	estimator *service.EstimatorService
	collector *metrics.Collector
}

// NewFareHandler creates a new FareHandler. collector may be nil.
func NewFareHandler(estimator *service.EstimatorService, collector *metrics.Collector) *FareHandler {
	return &FareHandler{
		estimator: estimator,
		collector: collector,
	}
}

// QuoteRequest is the HTTP request body for a fare quote.
type QuoteRequest struct {
	DistanceKm float64 `json:"distance_km"`
	RatePerKm  float64 `json:"rate_per_km"`
}

// QuoteResponse is the HTTP response for a fare quote.
type QuoteResponse struct {
	DistanceKm float64 `json:"distance_km"`
	Cost       float64 `json:"cost"`
}

// Quote handles POST /v1/fares/quote
func (h *FareHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	cost, err := h.estimator.Quote(req.DistanceKm, req.RatePerKm)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.collector != nil {
		h.collector.FareQuotes.Inc()
	}

	respondJSON(c, http.StatusOK, QuoteResponse{
		DistanceKm: req.DistanceKm,
		Cost:       cost,
	})
}
