package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trufi/internal/catalog"
	"trufi/internal/domain"
	"trufi/internal/metrics"
	"trufi/internal/service"
)

// LineHandler handles HTTP requests for the line catalog.
type LineHandler struct {
	lineService *service.LineService
	collector   *metrics.Collector
}

// NewLineHandler creates a new LineHandler. collector may be nil.
func NewLineHandler(lineService *service.LineService, collector *metrics.Collector) *LineHandler {
	return &LineHandler{
		lineService: lineService,
		collector:   collector,
	}
}

// StopResponse is the HTTP shape of a stop.
type StopResponse struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// LineResponse is the HTTP shape of a line.
type LineResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Category  string         `json:"category"`
	Color     string         `json:"color"`
	RatePerKm float64        `json:"rate_per_km"`
	Stops     []StopResponse `json:"stops"`
}

// CreateLineRequest is the HTTP request body for creating a line.
type CreateLineRequest struct {
	Name      string  `json:"name,omitempty"`
	RatePerKm float64 `json:"rate_per_km,omitempty"`
}

// UpdateLineRequest is the HTTP request body for partially updating a line.
type UpdateLineRequest struct {
	Name      *string  `json:"name,omitempty"`
	Category  *string  `json:"category,omitempty"`
	Color     *string  `json:"color,omitempty"`
	RatePerKm *float64 `json:"rate_per_km,omitempty"`
}

// AddStopRequest is the HTTP request body for appending a stop. Lat/Lng
// deliberately carry no binding tags: 0 is a legal coordinate.
type AddStopRequest struct {
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// RenameStopRequest is the HTTP request body for renaming a stop.
type RenameStopRequest struct {
	Name string `json:"name" binding:"required"`
}

func toLineResponse(line domain.Line) LineResponse {
	resp := LineResponse{
		ID:        line.ID,
		Name:      line.Name,
		Category:  line.Category,
		Color:     line.Color,
		RatePerKm: line.RatePerKm,
		Stops:     make([]StopResponse, 0, len(line.Stops)),
	}
	for _, s := range line.Stops {
		resp.Stops = append(resp.Stops, StopResponse{Name: s.Name, Lat: s.Lat, Lng: s.Lng})
	}
	return resp
}

// CreateLine handles POST /v1/lines
func (h *LineHandler) CreateLine(c *gin.Context) {
	var req CreateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	line := h.lineService.CreateLine(c.Request.Context(), req.Name, req.RatePerKm)
	h.countEdit("create_line")
	if h.collector != nil {
		h.collector.CatalogLines.Inc()
	}

	respondJSON(c, http.StatusCreated, toLineResponse(line))
}

// GetAll handles GET /v1/lines
func (h *LineHandler) GetAll(c *gin.Context) {
	lines := h.lineService.ListLines(c.Request.Context())

	response := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		response = append(response, toLineResponse(l))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetLine handles GET /v1/lines/:id
func (h *LineHandler) GetLine(c *gin.Context) {
	line, err := h.lineService.GetLine(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toLineResponse(line))
}

// UpdateLine handles PATCH /v1/lines/:id
func (h *LineHandler) UpdateLine(c *gin.Context) {
	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	line, err := h.lineService.UpdateLine(c.Request.Context(), c.Param("id"), catalog.LineUpdate{
		Name:      req.Name,
		Category:  req.Category,
		Color:     req.Color,
		RatePerKm: req.RatePerKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.countEdit("update_line")

	respondJSON(c, http.StatusOK, toLineResponse(line))
}

// AddStop handles POST /v1/lines/:id/stops
func (h *LineHandler) AddStop(c *gin.Context) {
	var req AddStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	line, index, err := h.lineService.AddStop(c.Request.Context(), c.Param("id"), req.Name, req.Lat, req.Lng)
	if err != nil {
		respondError(c, err)
		return
	}
	h.countEdit("add_stop")

	respondJSON(c, http.StatusCreated, gin.H{
		"index": index,
		"line":  toLineResponse(line),
	})
}

// RenameStop handles PUT /v1/lines/:id/stops/:index
func (h *LineHandler) RenameStop(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid stop index"})
		return
	}

	var req RenameStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	line, err := h.lineService.RenameStop(c.Request.Context(), c.Param("id"), index, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	h.countEdit("rename_stop")

	respondJSON(c, http.StatusOK, toLineResponse(line))
}

// RemoveStop handles DELETE /v1/lines/:id/stops/:index
func (h *LineHandler) RemoveStop(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid stop index"})
		return
	}

	line, err := h.lineService.RemoveStop(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	h.countEdit("remove_stop")

	respondJSON(c, http.StatusOK, toLineResponse(line))
}

func (h *LineHandler) countEdit(op string) {
	if h.collector == nil {
		return
	}
	h.collector.CatalogEdits.WithLabelValues(op).Inc()
}
