// Package fare implements the distance and time-of-day fare model for
// trufi trips in La Paz / El Alto: a four-tier distance classification,
// a day/night rate table and a step-function speed model used for travel
// time estimates.
package fare

import (
	"trufi/internal/domain"
)

// Thresholds are the inclusive upper distance bounds (km) of the first
// three fare tiers. Anything beyond LongMaxKm is an extra-long segment.
type Thresholds struct {
	ZonalMaxKm float64
	ShortMaxKm float64
	LongMaxKm  float64
}

// DefaultThresholds returns the city's standard tier boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ZonalMaxKm: 3.0,
		ShortMaxKm: 6.0,
		LongMaxKm:  10.0,
	}
}

// TierRates holds a rate per km (Bs/km) for each fare tier.
type TierRates struct {
	Zonal     float64
	Short     float64
	Long      float64
	ExtraLong float64
}

// RateTable is the full day/night x tier rate lookup.
type RateTable struct {
	Day   TierRates
	Night TierRates
}

// DefaultRateTable returns the reference rates in Bs/km.
func DefaultRateTable() RateTable {
	return RateTable{
		Day:   TierRates{Zonal: 2.50, Short: 2.80, Long: 3.30, ExtraLong: 3.50},
		Night: TierRates{Zonal: 3.00, Short: 3.30, Long: 3.50, ExtraLong: 4.00},
	}
}

func (r TierRates) rate(tier domain.FareTier) float64 {
	switch tier {
	case domain.TierZonal:
		return r.Zonal
	case domain.TierShortSegment:
		return r.Short
	case domain.TierLongSegment:
		return r.Long
	default:
		return r.ExtraLong
	}
}

// Classification is the trip-level fare estimate for a distance at a given
// hour. EstimatedMinutes is not rounded; rounding is a presentation concern.
type Classification struct {
	Tier             domain.FareTier
	DayPart          domain.DayPart
	RatePerKm        float64
	SpeedKmh         float64
	EstimatedMinutes float64
}

// Classifier maps (distance, hour of day) to a fare tier and rate.
type Classifier struct {
	thresholds Thresholds
	rates      RateTable
}

// NewClassifier creates a classifier with the given tier thresholds and
// rate table.
func NewClassifier(thresholds Thresholds, rates RateTable) *Classifier {
	return &Classifier{
		thresholds: thresholds,
		rates:      rates,
	}
}

// Classify computes the tier, rate, assumed speed and estimated travel time
// for a trip of distanceKm starting at the given wall-clock hour.
func (c *Classifier) Classify(distanceKm float64, hourOfDay int) (*Classification, error) {
	if distanceKm < 0 {
		return nil, ErrNegativeDistance
	}
	if hourOfDay < 0 || hourOfDay > 23 {
		return nil, ErrInvalidHour
	}

	tier := c.tierFor(distanceKm)

	dayPart := domain.DayPartDay
	rates := c.rates.Day
	if IsNight(hourOfDay) {
		dayPart = domain.DayPartNight
		rates = c.rates.Night
	}

	speed := SpeedKmh(hourOfDay)

	return &Classification{
		Tier:             tier,
		DayPart:          dayPart,
		RatePerKm:        rates.rate(tier),
		SpeedKmh:         speed,
		EstimatedMinutes: distanceKm / speed * 60,
	}, nil
}

// tierFor buckets a distance into a fare tier. Upper bounds are inclusive.
func (c *Classifier) tierFor(distanceKm float64) domain.FareTier {
	switch {
	case distanceKm <= c.thresholds.ZonalMaxKm:
		return domain.TierZonal
	case distanceKm <= c.thresholds.ShortMaxKm:
		return domain.TierShortSegment
	case distanceKm <= c.thresholds.LongMaxKm:
		return domain.TierLongSegment
	default:
		return domain.TierExtraLongSegment
	}
}

// IsNight reports whether an hour falls in the night fare window
// (21:00-23:59 and 00:00-05:59). The window is a fixed city rule, not
// configuration.
func IsNight(hourOfDay int) bool {
	return hourOfDay >= 21 || hourOfDay <= 5
}

// SpeedKmh is the assumed average traffic speed for a given hour. Morning
// and evening peaks are slow, mid-day flows, late night is fastest.
func SpeedKmh(hourOfDay int) float64 {
	switch {
	case hourOfDay >= 6 && hourOfDay <= 9:
		return 25
	case hourOfDay >= 10 && hourOfDay <= 16:
		return 40
	case hourOfDay >= 17 && hourOfDay <= 20:
		return 20
	case hourOfDay >= 21 && hourOfDay <= 23:
		return 45
	default: // midnight - 05:59
		return 50
	}
}
