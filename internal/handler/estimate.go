package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trufi/internal/domain"
	"trufi/internal/metrics"
	"trufi/internal/service"
)

// noNearbyLinesMessage explains an empty recommendation list; no matching
// line is a legitimate outcome, not an error.
const noNearbyLinesMessage = "no trufi lines pass near both the origin and destination of this route"

// EstimateHandler handles HTTP requests for route estimates and line
// recommendations.
type EstimateHandler struct {
	estimator *service.EstimatorService
	collector *metrics.Collector
}

// NewEstimateHandler creates a new EstimateHandler. collector may be nil.
func NewEstimateHandler(estimator *service.EstimatorService, collector *metrics.Collector) *EstimateHandler {
	return &EstimateHandler{
		estimator: estimator,
		collector: collector,
	}
}

// PointRequest is a coordinate pair in a request body.
type PointRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// EstimateRouteRequest is the HTTP request body for a full route estimate.
type EstimateRouteRequest struct {
	Origin      PointRequest `json:"origin"`
	Destination PointRequest `json:"destination"`
}

// RecommendRequest is the HTTP request body for a recommendation pass with
// a client-supplied distance.
type RecommendRequest struct {
	Origin      PointRequest `json:"origin"`
	Destination PointRequest `json:"destination"`
	DistanceKm  float64      `json:"distance_km"`
}

// MatchResponse is one recommended line for a trip.
type MatchResponse struct {
	Line            LineResponse `json:"line"`
	EstimatedCost   float64      `json:"estimated_cost"`
	BoardStop       StopResponse `json:"board_stop"`
	AlightStop      StopResponse `json:"alight_stop"`
	BoardIndex      int          `json:"board_index"`
	AlightIndex     int          `json:"alight_index"`
	BoardDistanceM  float64      `json:"board_distance_m"`
	AlightDistanceM float64      `json:"alight_distance_m"`
	WalkTotalM      float64      `json:"walk_total_m"`
}

// FareResponse is the trip-level tier classification.
type FareResponse struct {
	Tier             string  `json:"tier"`
	DayPart          string  `json:"day_part"`
	RatePerKm        float64 `json:"rate_per_km"`
	SpeedKmh         float64 `json:"speed_kmh"`
	EstimatedMinutes float64 `json:"estimated_minutes"`
}

// RecommendationResponse is the ranked recommendation list plus the
// trip-level fare classification.
type RecommendationResponse struct {
	DistanceKm float64         `json:"distance_km"`
	Fare       FareResponse    `json:"fare"`
	Matches    []MatchResponse `json:"matches"`
	MaxCost    float64         `json:"max_cost"`
	Message    string          `json:"message,omitempty"`
}

// EstimateRouteResponse adds the provider route to the recommendation.
type EstimateRouteResponse struct {
	DistanceKm  float64         `json:"distance_km"`
	DurationMin float64         `json:"duration_min"`
	Path        []PointRequest  `json:"path"`
	Fare        FareResponse    `json:"fare"`
	Matches     []MatchResponse `json:"matches"`
	MaxCost     float64         `json:"max_cost"`
	Message     string          `json:"message,omitempty"`
}

// EstimateRoute handles POST /v1/routes/estimate
func (h *EstimateHandler) EstimateRoute(c *gin.Context) {
	var req EstimateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	estimate, err := h.estimator.EstimateRoute(
		c.Request.Context(),
		domain.LatLng{Lat: req.Origin.Lat, Lng: req.Origin.Lng},
		domain.LatLng{Lat: req.Destination.Lat, Lng: req.Destination.Lng},
	)
	if err != nil {
		respondError(c, err)
		return
	}

	h.recordEstimate(len(estimate.Recommendation.Matches))

	rec := estimate.Recommendation
	response := EstimateRouteResponse{
		DistanceKm:  estimate.Route.DistanceKm,
		DurationMin: estimate.Route.DurationMin,
		Path:        make([]PointRequest, 0, len(estimate.Route.Path)),
		Fare:        toFareResponse(rec),
		Matches:     toMatchResponses(rec.Matches),
		MaxCost:     rec.MaxCost,
	}
	for _, p := range estimate.Route.Path {
		response.Path = append(response.Path, PointRequest{Lat: p.Lat, Lng: p.Lng})
	}
	if len(response.Matches) == 0 {
		response.Message = noNearbyLinesMessage
	}

	respondJSON(c, http.StatusOK, response)
}

// Recommend handles POST /v1/recommendations
func (h *EstimateHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rec, err := h.estimator.Recommend(c.Request.Context(), domain.TripQuery{
		Origin:      domain.LatLng{Lat: req.Origin.Lat, Lng: req.Origin.Lng},
		Destination: domain.LatLng{Lat: req.Destination.Lat, Lng: req.Destination.Lng},
		DistanceKm:  req.DistanceKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.recordRecommendation(len(rec.Matches))

	response := RecommendationResponse{
		DistanceKm: rec.DistanceKm,
		Fare:       toFareResponse(rec),
		Matches:    toMatchResponses(rec.Matches),
		MaxCost:    rec.MaxCost,
	}
	if len(response.Matches) == 0 {
		response.Message = noNearbyLinesMessage
	}

	respondJSON(c, http.StatusOK, response)
}

func toFareResponse(rec *service.Recommendation) FareResponse {
	return FareResponse{
		Tier:             string(rec.Fare.Tier),
		DayPart:          string(rec.Fare.DayPart),
		RatePerKm:        rec.Fare.RatePerKm,
		SpeedKmh:         rec.Fare.SpeedKmh,
		EstimatedMinutes: rec.Fare.EstimatedMinutes,
	}
}

func toMatchResponses(matches []domain.MatchResult) []MatchResponse {
	out := make([]MatchResponse, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		board := m.Line.Stops[m.BoardIndex]
		alight := m.Line.Stops[m.AlightIndex]
		out = append(out, MatchResponse{
			Line:            toLineResponse(m.Line),
			EstimatedCost:   m.EstimatedCost,
			BoardStop:       StopResponse{Name: board.Name, Lat: board.Lat, Lng: board.Lng},
			AlightStop:      StopResponse{Name: alight.Name, Lat: alight.Lat, Lng: alight.Lng},
			BoardIndex:      m.BoardIndex,
			AlightIndex:     m.AlightIndex,
			BoardDistanceM:  m.BoardDistanceM,
			AlightDistanceM: m.AlightDistanceM,
			WalkTotalM:      m.WalkTotalM(),
		})
	}
	return out
}

func (h *EstimateHandler) recordEstimate(matchCount int) {
	if h.collector == nil {
		return
	}
	h.collector.RouteEstimates.Inc()
	h.collector.MatchesPerQuery.Observe(float64(matchCount))
}

func (h *EstimateHandler) recordRecommendation(matchCount int) {
	if h.collector == nil {
		return
	}
	h.collector.Recommendations.Inc()
	h.collector.MatchesPerQuery.Observe(float64(matchCount))
}
