package service

import "errors"

var (
	// ErrInvalidOrigin is returned when origin coordinates are malformed.
	ErrInvalidOrigin = errors.New("invalid origin coordinates")

	// ErrInvalidDestination is returned when destination coordinates are malformed.
	ErrInvalidDestination = errors.New("invalid destination coordinates")

	// ErrInvalidDistance is returned when a trip distance is negative or non-finite.
	ErrInvalidDistance = errors.New("invalid distance")

	// ErrInvalidRate is returned when a rate per km is not a positive finite number.
	ErrInvalidRate = errors.New("invalid rate per km")
)
