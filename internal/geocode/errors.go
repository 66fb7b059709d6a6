package geocode

import "errors"

// ErrEmptyQuery is returned when a search query is blank.
var ErrEmptyQuery = errors.New("empty geocoding query")
