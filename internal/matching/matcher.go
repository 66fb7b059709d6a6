// Package matching finds the trufi lines that can serve a trip and ranks
// them for presentation. For each line it picks the stop nearest the trip
// origin (boarding) and the stop nearest the destination (alighting), then
// applies walk-radius and travel-direction constraints.
package matching

import (
	"trufi/internal/domain"
	"trufi/internal/geo"
)

// DefaultMaxWalkMeters is the walk radius used when a query does not
// specify one: the farthest a rider is assumed to walk to reach a stop.
const DefaultMaxWalkMeters = 600

// Match evaluates every line against the trip and returns one MatchResult
// per line that satisfies all constraints. The result order follows the
// input line order; use Rank to sort. A line is skipped when it has no
// stops, when either endpoint is farther than maxWalkMeters from its
// nearest stop (the radius is inclusive), or when the nearest boarding
// stop comes after the nearest alighting stop in the sequence - the line
// runs the wrong way for this trip.
//
// EstimatedCost is the overall trip distance times the line's rate, not
// the distance along the line between the chosen stops.
func Match(origin, destination domain.LatLng, distanceKm float64, lines []domain.Line, maxWalkMeters float64) []domain.MatchResult {
	if maxWalkMeters <= 0 {
		maxWalkMeters = DefaultMaxWalkMeters
	}

	var results []domain.MatchResult
	for i := range lines {
		if r, ok := matchLine(origin, destination, distanceKm, lines[i], maxWalkMeters); ok {
			results = append(results, r)
		}
	}
	return results
}

func matchLine(origin, destination domain.LatLng, distanceKm float64, line domain.Line, maxWalkMeters float64) (domain.MatchResult, bool) {
	if len(line.Stops) == 0 {
		return domain.MatchResult{}, false
	}

	boardIdx, boardDist := nearestStop(line.Stops, origin)
	alightIdx, alightDist := nearestStop(line.Stops, destination)

	if boardDist > maxWalkMeters || alightDist > maxWalkMeters {
		return domain.MatchResult{}, false
	}
	if boardIdx > alightIdx {
		return domain.MatchResult{}, false
	}

	return domain.MatchResult{
		Line:            line,
		EstimatedCost:   distanceKm * line.RatePerKm,
		BoardDistanceM:  boardDist,
		AlightDistanceM: alightDist,
		BoardIndex:      boardIdx,
		AlightIndex:     alightIdx,
	}, true
}

// nearestStop returns the index and distance of the stop closest to p.
// The strict comparison keeps the first occurrence on exact ties, which
// makes the choice deterministic.
func nearestStop(stops []domain.Stop, p domain.LatLng) (int, float64) {
	bestIdx := 0
	bestDist := geo.DistanceMeters(p, domain.LatLng{Lat: stops[0].Lat, Lng: stops[0].Lng})

	for i := 1; i < len(stops); i++ {
		d := geo.DistanceMeters(p, domain.LatLng{Lat: stops[i].Lat, Lng: stops[i].Lng})
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	return bestIdx, bestDist
}
