package fare

import (
	"math"
	"testing"

	"trufi/internal/domain"
)

func newTestClassifier() *Classifier {
	return NewClassifier(DefaultThresholds(), DefaultRateTable())
}

func TestClassify_TierBoundaries(t *testing.T) {
	c := newTestClassifier()

	cases := []struct {
		distanceKm float64
		want       domain.FareTier
	}{
		{0, domain.TierZonal},
		{1.5, domain.TierZonal},
		{3.0, domain.TierZonal}, // inclusive upper bound
		{3.001, domain.TierShortSegment},
		{6.0, domain.TierShortSegment},
		{6.001, domain.TierLongSegment},
		{10.0, domain.TierLongSegment},
		{10.001, domain.TierExtraLongSegment},
		{42, domain.TierExtraLongSegment},
	}

	for _, tc := range cases {
		got, err := c.Classify(tc.distanceKm, 12)
		if err != nil {
			t.Fatalf("Classify(%v): unexpected error: %v", tc.distanceKm, err)
		}
		if got.Tier != tc.want {
			t.Errorf("Classify(%v): expected tier %s, got %s", tc.distanceKm, tc.want, got.Tier)
		}
	}
}

func TestClassify_TierMappingIsContiguous(t *testing.T) {
	c := newTestClassifier()

	// Sweep distances in 100 m steps; every distance must land in exactly
	// one tier and the tier sequence must never go backwards.
	order := map[domain.FareTier]int{
		domain.TierZonal:            0,
		domain.TierShortSegment:     1,
		domain.TierLongSegment:      2,
		domain.TierExtraLongSegment: 3,
	}

	prev := -1
	for d := 0.0; d <= 15.0; d += 0.1 {
		got, err := c.Classify(d, 12)
		if err != nil {
			t.Fatalf("Classify(%v): unexpected error: %v", d, err)
		}
		rank, ok := order[got.Tier]
		if !ok {
			t.Fatalf("Classify(%v): unknown tier %s", d, got.Tier)
		}
		if rank < prev {
			t.Fatalf("tier went backwards at distance %v", d)
		}
		prev = rank
	}
}

func TestIsNight_ExactWindow(t *testing.T) {
	nightHours := 0
	for h := 0; h < 24; h++ {
		want := h >= 21 || h <= 5
		if IsNight(h) != want {
			t.Errorf("IsNight(%d): expected %v", h, want)
		}
		if IsNight(h) {
			nightHours++
		}
	}

	if nightHours != 9 {
		t.Errorf("expected exactly 9 night hours, got %d", nightHours)
	}
}

func TestClassify_DayAndNightRates(t *testing.T) {
	c := newTestClassifier()

	// 2 km is zonal: 2.50 by day, 3.00 by night.
	day, err := c.Classify(2.0, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.DayPart != domain.DayPartDay {
		t.Errorf("expected DAY at hour 12, got %s", day.DayPart)
	}
	if day.RatePerKm != 2.50 {
		t.Errorf("expected day zonal rate 2.50, got %v", day.RatePerKm)
	}

	night, err := c.Classify(2.0, 23)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if night.DayPart != domain.DayPartNight {
		t.Errorf("expected NIGHT at hour 23, got %s", night.DayPart)
	}
	if night.RatePerKm != 3.00 {
		t.Errorf("expected night zonal rate 3.00, got %v", night.RatePerKm)
	}

	// Extra-long at night is the top of the table.
	far, err := c.Classify(12.0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if far.RatePerKm != 4.00 {
		t.Errorf("expected night extra-long rate 4.00, got %v", far.RatePerKm)
	}
}

func TestSpeedKmh_StepFunction(t *testing.T) {
	cases := []struct {
		hour int
		want float64
	}{
		{0, 50}, {3, 50}, {5, 50},
		{6, 25}, {9, 25},
		{10, 40}, {16, 40},
		{17, 20}, {20, 20},
		{21, 45}, {23, 45},
	}

	for _, tc := range cases {
		if got := SpeedKmh(tc.hour); got != tc.want {
			t.Errorf("SpeedKmh(%d): expected %v, got %v", tc.hour, tc.want, got)
		}
	}
}

func TestClassify_EstimatedMinutes(t *testing.T) {
	c := newTestClassifier()

	// 10 km at hour 12 runs at 40 km/h: 15 minutes, unrounded.
	got, err := c.Classify(10.0, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got.EstimatedMinutes-15.0) > 1e-9 {
		t.Errorf("expected 15 minutes, got %v", got.EstimatedMinutes)
	}
}

func TestClassify_InvalidInput(t *testing.T) {
	c := newTestClassifier()

	if _, err := c.Classify(-0.1, 12); err != ErrNegativeDistance {
		t.Errorf("expected ErrNegativeDistance, got %v", err)
	}
	if _, err := c.Classify(1.0, -1); err != ErrInvalidHour {
		t.Errorf("expected ErrInvalidHour for hour -1, got %v", err)
	}
	if _, err := c.Classify(1.0, 24); err != ErrInvalidHour {
		t.Errorf("expected ErrInvalidHour for hour 24, got %v", err)
	}
}
