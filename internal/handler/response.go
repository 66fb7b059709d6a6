package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trufi/internal/catalog"
	"trufi/internal/fare"
	"trufi/internal/geocode"
	"trufi/internal/routing"
	"trufi/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/catalog errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, catalog.ErrLineNotFound),
		errors.Is(err, catalog.ErrStopIndexOutOfRange):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidOrigin),
		errors.Is(err, service.ErrInvalidDestination),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidRate),
		errors.Is(err, catalog.ErrInvalidCoordinates),
		errors.Is(err, fare.ErrNegativeDistance),
		errors.Is(err, fare.ErrInvalidHour),
		errors.Is(err, geocode.ErrEmptyQuery):
		return http.StatusBadRequest

	// The routing provider found no drivable route between the endpoints.
	case errors.Is(err, routing.ErrNoRoute):
		return http.StatusUnprocessableEntity

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
