package domain

// TripQuery is the ephemeral input to a matching pass. It is constructed
// per route lookup and never persisted.
type TripQuery struct {
	Origin      LatLng
	Destination LatLng
	DistanceKm  float64
}

// MatchResult is one candidate line for a trip. It is valid only until the
// next catalog edit: BoardIndex/AlightIndex are positions into the line's
// stop sequence and become stale once stops are removed.
type MatchResult struct {
	Line            Line
	EstimatedCost   float64
	BoardDistanceM  float64
	AlightDistanceM float64
	BoardIndex      int
	AlightIndex     int
}

// WalkTotalM is the combined walking distance to reach the boarding stop
// and from the alighting stop; the ranker uses it to break cost ties.
func (m *MatchResult) WalkTotalM() float64 {
	return m.BoardDistanceM + m.AlightDistanceM
}
