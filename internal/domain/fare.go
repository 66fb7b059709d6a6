package domain

// FareTier classifies a trip by distance into one of four fare buckets.
type FareTier string

const (
	TierZonal            FareTier = "ZONAL"
	TierShortSegment     FareTier = "SHORT_SEGMENT"
	TierLongSegment      FareTier = "LONG_SEGMENT"
	TierExtraLongSegment FareTier = "EXTRA_LONG_SEGMENT"
)

// DayPart is the day/night fare modifier.
type DayPart string

const (
	DayPartDay   DayPart = "DAY"
	DayPartNight DayPart = "NIGHT"
)
