package domain

// swellTierChannels groups the three channels of one swell tier.
type swellTierChannels struct {
	height, period, direction string
}

var swellTiers = struct {
	primary, secondary, tertiary swellTierChannels
}{
	primary:   swellTierChannels{ChannelSwellHeight, ChannelSwellPeriod, ChannelSwellDirection},
	secondary: swellTierChannels{ChannelSecondarySwellHeight, ChannelSecondarySwellPeriod, ChannelSecondarySwellDirection},
	tertiary:  swellTierChannels{ChannelTertiarySwellHeight, ChannelTertiarySwellPeriod, ChannelTertiarySwellDirection},
}

// BuildDailySummary projects one calendar day out of an hourly bundle.
// Returns nil when the bundle carries no timestamps for the date, which the
// caller must treat as data absent rather than as an error. Channels missing
// from the bundle (e.g. the wind fetch failed) yield nil summary fields; the
// rest of the summary is still produced.
func BuildDailySummary(h Hourly, date string) *DailySummary {
	if len(h.Time) == 0 {
		return nil
	}
	dayIdx := h.DayIndexes(date)
	if len(dayIdx) == 0 {
		return nil
	}

	s := &DailySummary{Date: date, GeneratedAt: clock.Now()}

	s.Swell.Primary = buildSwellComponent(h, dayIdx, swellTiers.primary)
	s.Swell.Secondary = buildSwellComponent(h, dayIdx, swellTiers.secondary)
	s.Swell.Tertiary = buildSwellComponent(h, dayIdx, swellTiers.tertiary)

	s.WaveHeight = round3Ptr(medianSample(h.Slice(ChannelWaveHeight, dayIdx)))
	s.Wind.Speed = medianSample(h.Slice(ChannelWindSpeed, dayIdx))
	s.Wind.Direction = MostCommonDirection(h.Slice(ChannelWindDirection, dayIdx))
	s.WaterTemperature = medianSample(h.Slice(ChannelWaterTemperature, dayIdx))

	// Tides scan the full unsliced series so extrema near midnight keep
	// their neighbors from the padding days.
	s.Tides = DetectTideEvents(h.Time, h.Channel(ChannelSeaLevel), date)
	s.applyTideScalars()

	return s
}

// buildSwellComponent reduces one swell tier for the day. A tier with no
// present sample in any of its three channels is absent, not zero.
func buildSwellComponent(h Hourly, dayIdx []int, tier swellTierChannels) *SwellComponent {
	c := &SwellComponent{
		Height:    round3Ptr(medianSample(h.Slice(tier.height, dayIdx))),
		Period:    medianSample(h.Slice(tier.period, dayIdx)),
		Direction: MostCommonDirection(h.Slice(tier.direction, dayIdx)),
	}
	if c.Height == nil && c.Period == nil && c.Direction == nil {
		return nil
	}
	return c
}
