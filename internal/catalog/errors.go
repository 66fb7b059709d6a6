package catalog

import "errors"

var (
	// ErrLineNotFound is returned when a line id does not exist in the catalog.
	ErrLineNotFound = errors.New("line not found")

	// ErrStopIndexOutOfRange is returned when a stop index does not address an
	// existing stop on the line.
	ErrStopIndexOutOfRange = errors.New("stop index out of range")

	// ErrInvalidCoordinates is returned when a stop coordinate is not a finite
	// number.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)
