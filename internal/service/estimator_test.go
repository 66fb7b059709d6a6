package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"trufi/internal/catalog"
	"trufi/internal/domain"
	"trufi/internal/fare"
	"trufi/internal/routing"
)

type stubRouter struct {
	route *routing.Route
	err   error

	gotOrigin      domain.LatLng
	gotDestination domain.LatLng
}

func (s *stubRouter) Route(_ context.Context, origin, destination domain.LatLng) (*routing.Route, error) {
	s.gotOrigin = origin
	s.gotDestination = destination
	if s.err != nil {
		return nil, s.err
	}
	return s.route, nil
}

func newTestEstimator(cat *catalog.Catalog, router routing.Provider, hour int) *EstimatorService {
	s := NewEstimatorService(cat, fare.NewClassifier(fare.DefaultThresholds(), fare.DefaultRateTable()), router, 0)
	s.now = func() time.Time {
		return time.Date(2026, 3, 10, hour, 30, 0, 0, time.UTC)
	}
	return s
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]domain.Line{
		{
			ID:        "cheap",
			Name:      "Cheap line",
			RatePerKm: 1.5,
			Stops: []domain.Stop{
				{Name: "A", Lat: 0, Lng: 0},
				{Name: "B", Lat: 0, Lng: 0.01},
			},
		},
		{
			ID:        "pricey",
			Name:      "Pricey line",
			RatePerKm: 3.0,
			Stops: []domain.Stop{
				{Name: "A", Lat: 0, Lng: 0},
				{Name: "B", Lat: 0, Lng: 0.01},
			},
		},
	})
}

func TestRecommend(t *testing.T) {
	s := newTestEstimator(testCatalog(), &stubRouter{}, 12)

	rec, err := s.Recommend(context.Background(), domain.TripQuery{
		Origin:      domain.LatLng{Lat: 0, Lng: 0},
		Destination: domain.LatLng{Lat: 0, Lng: 0.01},
		DistanceKm:  4.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Fare.Tier != domain.TierShortSegment {
		t.Errorf("expected short segment tier at 4 km, got %s", rec.Fare.Tier)
	}
	if rec.Fare.DayPart != domain.DayPartDay {
		t.Errorf("expected day rates at noon, got %s", rec.Fare.DayPart)
	}
	if len(rec.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(rec.Matches))
	}
	if rec.Matches[0].Line.ID != "cheap" {
		t.Errorf("expected the cheapest line first, got %s", rec.Matches[0].Line.ID)
	}
	if math.Abs(rec.MaxCost-12.0) > 1e-9 {
		t.Errorf("expected max cost 12.0, got %v", rec.MaxCost)
	}
}

func TestRecommend_NightHourUsesNightRates(t *testing.T) {
	s := newTestEstimator(testCatalog(), &stubRouter{}, 23)

	rec, err := s.Recommend(context.Background(), domain.TripQuery{
		Origin:      domain.LatLng{Lat: 0, Lng: 0},
		Destination: domain.LatLng{Lat: 0, Lng: 0.01},
		DistanceKm:  2.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Fare.DayPart != domain.DayPartNight {
		t.Errorf("expected night rates at 23:00, got %s", rec.Fare.DayPart)
	}
	if rec.Fare.RatePerKm != 3.00 {
		t.Errorf("expected the zonal night rate, got %v", rec.Fare.RatePerKm)
	}
}

func TestRecommend_NoMatchesIsNotAnError(t *testing.T) {
	s := newTestEstimator(testCatalog(), &stubRouter{}, 12)

	// Far from every stop in the catalog.
	rec, err := s.Recommend(context.Background(), domain.TripQuery{
		Origin:      domain.LatLng{Lat: 10, Lng: 10},
		Destination: domain.LatLng{Lat: 10, Lng: 10.1},
		DistanceKm:  11.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.Matches) != 0 {
		t.Errorf("expected zero matches, got %d", len(rec.Matches))
	}
	if rec.MaxCost != 0 {
		t.Errorf("expected max cost 0 with no matches, got %v", rec.MaxCost)
	}
	if rec.Fare == nil {
		t.Error("expected the fare classification even with no matches")
	}
}

func TestRecommend_Validation(t *testing.T) {
	s := newTestEstimator(testCatalog(), &stubRouter{}, 12)
	ok := domain.LatLng{Lat: 0, Lng: 0}

	tests := []struct {
		name    string
		query   domain.TripQuery
		wantErr error
	}{
		{
			name:    "bad origin",
			query:   domain.TripQuery{Origin: domain.LatLng{Lat: 91}, Destination: ok, DistanceKm: 1},
			wantErr: ErrInvalidOrigin,
		},
		{
			name:    "bad destination",
			query:   domain.TripQuery{Origin: ok, Destination: domain.LatLng{Lng: 181}, DistanceKm: 1},
			wantErr: ErrInvalidDestination,
		},
		{
			name:    "negative distance",
			query:   domain.TripQuery{Origin: ok, Destination: ok, DistanceKm: -1},
			wantErr: ErrInvalidDistance,
		},
		{
			name:    "NaN distance",
			query:   domain.TripQuery{Origin: ok, Destination: ok, DistanceKm: math.NaN()},
			wantErr: ErrInvalidDistance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Recommend(context.Background(), tt.query); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEstimateRoute(t *testing.T) {
	router := &stubRouter{
		route: &routing.Route{
			DistanceKm:  4.2,
			DurationMin: 12.5,
			Path: []domain.LatLng{
				{Lat: 0, Lng: 0},
				{Lat: 0, Lng: 0.01},
			},
		},
	}
	s := newTestEstimator(testCatalog(), router, 12)

	origin := domain.LatLng{Lat: 0, Lng: 0}
	destination := domain.LatLng{Lat: 0, Lng: 0.01}

	est, err := s.EstimateRoute(context.Background(), origin, destination)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if router.gotOrigin != origin || router.gotDestination != destination {
		t.Error("provider called with wrong endpoints")
	}
	if est.Route.DistanceKm != 4.2 {
		t.Errorf("expected route distance 4.2, got %v", est.Route.DistanceKm)
	}
	// The recommendation must be computed from the routed distance.
	if est.Recommendation.DistanceKm != 4.2 {
		t.Errorf("expected recommendation distance 4.2, got %v", est.Recommendation.DistanceKm)
	}
	if math.Abs(est.Recommendation.Matches[0].EstimatedCost-4.2*1.5) > 1e-9 {
		t.Errorf("unexpected estimated cost %v", est.Recommendation.Matches[0].EstimatedCost)
	}
}

func TestEstimateRoute_ProviderErrorPropagates(t *testing.T) {
	router := &stubRouter{err: routing.ErrNoRoute}
	s := newTestEstimator(testCatalog(), router, 12)

	_, err := s.EstimateRoute(context.Background(), domain.LatLng{}, domain.LatLng{Lat: 0, Lng: 0.01})
	if !errors.Is(err, routing.ErrNoRoute) {
		t.Errorf("expected ErrNoRoute, got %v", err)
	}
}

func TestEstimateRoute_ValidatesBeforeCallingProvider(t *testing.T) {
	router := &stubRouter{err: errors.New("should not be called")}
	s := newTestEstimator(testCatalog(), router, 12)

	if _, err := s.EstimateRoute(context.Background(), domain.LatLng{Lat: 91}, domain.LatLng{}); !errors.Is(err, ErrInvalidOrigin) {
		t.Errorf("expected ErrInvalidOrigin, got %v", err)
	}
	if _, err := s.EstimateRoute(context.Background(), domain.LatLng{}, domain.LatLng{Lat: math.NaN()}); !errors.Is(err, ErrInvalidDestination) {
		t.Errorf("expected ErrInvalidDestination, got %v", err)
	}
}

func TestQuote(t *testing.T) {
	s := newTestEstimator(testCatalog(), &stubRouter{}, 12)

	tests := []struct {
		distanceKm float64
		ratePerKm  float64
		want       float64
	}{
		{1.2, 2.0, 2.40},
		{3.333, 1.8, 6.00}, // 5.9994 rounds up
		{0, 2.0, 0},
		{2.345, 2.0, 4.69},
	}

	for _, tt := range tests {
		got, err := s.Quote(tt.distanceKm, tt.ratePerKm)
		if err != nil {
			t.Fatalf("Quote(%v, %v): unexpected error %v", tt.distanceKm, tt.ratePerKm, err)
		}
		if got != tt.want {
			t.Errorf("Quote(%v, %v) = %v, want %v", tt.distanceKm, tt.ratePerKm, got, tt.want)
		}
	}
}

func TestQuote_Validation(t *testing.T) {
	s := newTestEstimator(testCatalog(), &stubRouter{}, 12)

	if _, err := s.Quote(-1, 2.0); !errors.Is(err, ErrInvalidDistance) {
		t.Errorf("expected ErrInvalidDistance, got %v", err)
	}
	if _, err := s.Quote(1, 0); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}
	if _, err := s.Quote(1, math.Inf(1)); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}
}
