package service

import (
	"context"
	"math"
	"time"

	"trufi/internal/catalog"
	"trufi/internal/domain"
	"trufi/internal/fare"
	"trufi/internal/geo"
	"trufi/internal/matching"
	"trufi/internal/routing"
)

// EstimatorService runs the trip query pipeline: route lookup, fare tier
// classification and line matching. Each query re-reads the catalog, so
// recommendations always reflect the latest edits - there is no
// notification mechanism, callers simply query again.
type EstimatorService struct {
	catalog     *catalog.Catalog
	classifier  *fare.Classifier
	router      routing.Provider
	walkRadiusM float64

	now func() time.Time
}

// NewEstimatorService creates a new EstimatorService. walkRadiusM <= 0
// selects the default walk radius.
func NewEstimatorService(
	cat *catalog.Catalog,
	classifier *fare.Classifier,
	router routing.Provider,
	walkRadiusM float64,
) *EstimatorService {
	if walkRadiusM <= 0 {
		walkRadiusM = matching.DefaultMaxWalkMeters
	}
	return &EstimatorService{
		catalog:     cat,
		classifier:  classifier,
		router:      router,
		walkRadiusM: walkRadiusM,
		now:         time.Now,
	}
}

// Recommendation is the result of one matching pass over the catalog.
type Recommendation struct {
	DistanceKm float64
	Fare       *fare.Classification
	Matches    []domain.MatchResult // ranked: cheapest first
	MaxCost    float64              // for relative-cost presentation
}

// Recommend classifies the trip and matches it against the current
// catalog. An empty Matches slice is a legitimate result - no line passes
// close enough to both endpoints - not an error.
func (s *EstimatorService) Recommend(ctx context.Context, q domain.TripQuery) (*Recommendation, error) {
	if err := s.validateQuery(q); err != nil {
		return nil, err
	}

	classification, err := s.classifier.Classify(q.DistanceKm, s.now().Hour())
	if err != nil {
		return nil, err
	}

	matches := matching.Match(q.Origin, q.Destination, q.DistanceKm, s.catalog.Lines(), s.walkRadiusM)
	ranked := matching.Rank(matches)

	return &Recommendation{
		DistanceKm: q.DistanceKm,
		Fare:       classification,
		Matches:    ranked,
		MaxCost:    matching.MaxCost(ranked),
	}, nil
}

// RouteEstimate bundles the provider route with the recommendation
// computed from its distance.
type RouteEstimate struct {
	Route          *routing.Route
	Recommendation *Recommendation
}

// EstimateRoute fetches the driving route between two points, then runs
// the recommendation pass with the routed distance.
func (s *EstimatorService) EstimateRoute(ctx context.Context, origin, destination domain.LatLng) (*RouteEstimate, error) {
	if !geo.IsValid(origin) {
		return nil, ErrInvalidOrigin
	}
	if !geo.IsValid(destination) {
		return nil, ErrInvalidDestination
	}

	route, err := s.router.Route(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	rec, err := s.Recommend(ctx, domain.TripQuery{
		Origin:      origin,
		Destination: destination,
		DistanceKm:  route.DistanceKm,
	})
	if err != nil {
		return nil, err
	}

	return &RouteEstimate{
		Route:          route,
		Recommendation: rec,
	}, nil
}

// Quote computes the general (non-line-specific) fare for a distance at a
// given rate: distance times rate, rounded to centavos. This is the same
// multiplication the per-line cost estimate uses.
func (s *EstimatorService) Quote(distanceKm, ratePerKm float64) (float64, error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return 0, ErrInvalidDistance
	}
	if ratePerKm <= 0 || math.IsNaN(ratePerKm) || math.IsInf(ratePerKm, 0) {
		return 0, ErrInvalidRate
	}

	return math.Round(distanceKm*ratePerKm*100) / 100, nil
}

func (s *EstimatorService) validateQuery(q domain.TripQuery) error {
	if !geo.IsValid(q.Origin) {
		return ErrInvalidOrigin
	}
	if !geo.IsValid(q.Destination) {
		return ErrInvalidDestination
	}
	if q.DistanceKm < 0 || math.IsNaN(q.DistanceKm) || math.IsInf(q.DistanceKm, 0) {
		return ErrInvalidDistance
	}
	return nil
}
