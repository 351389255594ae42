package domain

import "time"

// SwellComponent is one ranked swell train for a day. Every field is
// nullable; the whole component is nil when the tier had no samples at all.
type SwellComponent struct {
	Height    *float64 `json:"height"`    // meters
	Period    *float64 `json:"period"`    // seconds
	Direction *int     `json:"direction"` // compass degrees [0,360)
}

// Swell holds the day's swell trains ranked by energy.
type Swell struct {
	Primary   *SwellComponent `json:"primary"`
	Secondary *SwellComponent `json:"secondary"`
	Tertiary  *SwellComponent `json:"tertiary"`
}

// Wind is the day's representative wind.
type Wind struct {
	Speed     *float64 `json:"speed"`
	Direction *int     `json:"direction"`
}

// DailySummary is the compact daily reduction of an hourly bundle. It is an
// immutable value: built fresh per request, or reconstructed by merging a
// persisted form with a freshly built one. Absent data is a nil leaf, which
// marshals as JSON null.
type DailySummary struct {
	Date             string     `json:"date"`
	Label            string     `json:"label,omitempty"`
	Swell            Swell      `json:"swell"`
	WaveHeight       *float64   `json:"wave_height"`
	Wind             Wind       `json:"wind"`
	WaterTemperature *float64   `json:"water_temperature"`
	Tides            TideBundle `json:"tides"`

	// Convenience scalars: the most extreme of the bundle's events, which
	// may differ from the first-in-time event when two are returned.
	TideHigh     *float64 `json:"tide_high"`
	TideHighTime *string  `json:"tide_high_time"`
	TideLow      *float64 `json:"tide_low"`
	TideLowTime  *string  `json:"tide_low_time"`

	GeneratedAt time.Time `json:"generated_at"`
}

// EmptySummary returns a summary for a day with no convertible data: every
// leaf nil. Serving this is a normal case, not an API error.
func EmptySummary(date string) *DailySummary {
	return &DailySummary{Date: date, GeneratedAt: clock.Now()}
}

// applyTideScalars fills the convenience fields from the bundle.
func (s *DailySummary) applyTideScalars() {
	if hh := s.Tides.HighestHigh(); hh != nil {
		h, t := hh.Height, hh.Time
		s.TideHigh, s.TideHighTime = &h, &t
	}
	if ll := s.Tides.LowestLow(); ll != nil {
		h, t := ll.Height, ll.Time
		s.TideLow, s.TideLowTime = &h, &t
	}
}
