package domain

import (
	"encoding/json"
	"fmt"
)

// MergeSummaries reconciles a persisted summary with a freshly built one for
// the same day. Every leaf is picked independently: the persisted value wins
// when present, the fresh value fills gaps, absence stays nil. Tide bundles
// are structurally paired, so a persisted bundle with at least one event is
// taken wholesale instead of field-merged.
func MergeSummaries(persisted, fresh *DailySummary) *DailySummary {
	if persisted == nil {
		return fresh
	}
	if fresh == nil {
		fresh = &DailySummary{Date: persisted.Date}
	}

	out := &DailySummary{
		Date:        pickString(persisted.Date, fresh.Date),
		Label:       pickString(persisted.Label, fresh.Label),
		GeneratedAt: fresh.GeneratedAt,
	}
	if out.GeneratedAt.IsZero() {
		out.GeneratedAt = persisted.GeneratedAt
	}

	out.Swell.Primary = mergeSwellComponent(persisted.Swell.Primary, fresh.Swell.Primary)
	out.Swell.Secondary = mergeSwellComponent(persisted.Swell.Secondary, fresh.Swell.Secondary)
	out.Swell.Tertiary = mergeSwellComponent(persisted.Swell.Tertiary, fresh.Swell.Tertiary)

	out.WaveHeight = pickFloat(persisted.WaveHeight, fresh.WaveHeight)
	out.Wind.Speed = pickFloat(persisted.Wind.Speed, fresh.Wind.Speed)
	out.Wind.Direction = pickInt(persisted.Wind.Direction, fresh.Wind.Direction)
	out.WaterTemperature = pickFloat(persisted.WaterTemperature, fresh.WaterTemperature)

	if !persisted.Tides.Empty() {
		out.Tides = persisted.Tides
	} else {
		out.Tides = fresh.Tides
	}
	if !out.Tides.Empty() {
		out.applyTideScalars()
	} else {
		// Legacy persisted summaries may carry tide scalars without a bundle.
		out.TideHigh = pickFloat(persisted.TideHigh, fresh.TideHigh)
		out.TideHighTime = pickStringPtr(persisted.TideHighTime, fresh.TideHighTime)
		out.TideLow = pickFloat(persisted.TideLow, fresh.TideLow)
		out.TideLowTime = pickStringPtr(persisted.TideLowTime, fresh.TideLowTime)
	}

	return out
}

func mergeSwellComponent(persisted, fresh *SwellComponent) *SwellComponent {
	if persisted == nil {
		return fresh
	}
	if fresh == nil {
		fresh = &SwellComponent{}
	}
	c := &SwellComponent{
		Height:    pickFloat(persisted.Height, fresh.Height),
		Period:    pickFloat(persisted.Period, fresh.Period),
		Direction: pickInt(persisted.Direction, fresh.Direction),
	}
	if c.Height == nil && c.Period == nil && c.Direction == nil {
		return nil
	}
	return c
}

func pickFloat(a, b *float64) *float64 {
	if a != nil {
		return a
	}
	return b
}

func pickInt(a, b *int) *int {
	if a != nil {
		return a
	}
	return b
}

func pickStringPtr(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}

func pickString(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// legacySummary is the flat shape written by the first version of the
// persistence layer. Only the documented fields are read; anything else in
// storage is ignored rather than guessed at.
type legacySummary struct {
	Date             string   `json:"date"`
	SwellHeight      *float64 `json:"swellHeight"`
	SwellPeriod      *float64 `json:"swellPeriod"`
	SwellDirection   *int     `json:"swellDirection"`
	WaveHeight       *float64 `json:"waveHeight"`
	WindSpeed        *float64 `json:"windSpeed"`
	WindDirection    *int     `json:"windDirection"`
	WaterTemperature *float64 `json:"waterTemperature"`
	TideHigh         *float64 `json:"tideHigh"`
	TideHighTime     *string  `json:"tideHighTime"`
	TideLow          *float64 `json:"tideLow"`
	TideLowTime      *string  `json:"tideLowTime"`
}

// DecodeStoredSummary reads a persisted summary in whichever historical
// shape it was written: the current DailySummary JSON, or the legacy flat
// shape. Shapes are tried in priority order; the caller falls back to raw
// hourly recomputation when decoding fails.
func DecodeStoredSummary(data []byte) (*DailySummary, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, fmt.Errorf("decode stored summary: %w", err)
	}

	// The current shape always carries a "swell" object.
	if _, ok := members["swell"]; ok {
		var s DailySummary
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode stored summary: %w", err)
		}
		return &s, nil
	}

	var legacy legacySummary
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("decode stored summary: %w", err)
	}

	s := &DailySummary{
		Date:             legacy.Date,
		WaveHeight:       legacy.WaveHeight,
		WaterTemperature: legacy.WaterTemperature,
		TideHigh:         legacy.TideHigh,
		TideHighTime:     legacy.TideHighTime,
		TideLow:          legacy.TideLow,
		TideLowTime:      legacy.TideLowTime,
	}
	s.Wind.Speed = legacy.WindSpeed
	s.Wind.Direction = legacy.WindDirection
	if legacy.SwellHeight != nil || legacy.SwellPeriod != nil || legacy.SwellDirection != nil {
		s.Swell.Primary = &SwellComponent{
			Height:    legacy.SwellHeight,
			Period:    legacy.SwellPeriod,
			Direction: legacy.SwellDirection,
		}
	}
	return s, nil
}
