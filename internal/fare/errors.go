package fare

import "errors"

var (
	// ErrNegativeDistance is returned when a trip distance is below zero.
	ErrNegativeDistance = errors.New("distance must not be negative")

	// ErrInvalidHour is returned when an hour of day is outside [0, 23].
	ErrInvalidHour = errors.New("hour of day must be between 0 and 23")
)
