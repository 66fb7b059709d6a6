package domain

// LatLng is a WGS 84 coordinate pair.
type LatLng struct {
	Lat float64
	Lng float64
}

// Stop is a named point on a trufi line. Stops carry no independent
// identity; a stop is addressed by its position within the owning line's
// stop sequence, and those positions shift when earlier stops are removed.
type Stop struct {
	Name string
	Lat  float64
	Lng  float64
}

// Line represents a fixed trufi route: an ordered sequence of stops
// traversed in one physical direction. The stop order is semantically
// meaningful - the matcher relies on "board index <= alight index" as a
// direction check, so the sequence must never be reordered.
type Line struct {
	ID        string
	Name      string
	Category  string
	Color     string // display hint only
	RatePerKm float64
	Stops     []Stop
}

// Clone returns a deep copy of the line. Catalog snapshots hand out clones
// so callers can never mutate catalog state through a returned line.
func (l *Line) Clone() Line {
	c := *l
	c.Stops = make([]Stop, len(l.Stops))
	copy(c.Stops, l.Stops)
	return c
}
