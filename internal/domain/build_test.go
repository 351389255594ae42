package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBundle() Hourly {
	times := append(fullDay("2025-06-01"), fullDay("2025-06-02")...)

	seaLevel := make([]*float64, 48)
	for i := 0; i < 48; i++ {
		v := 0.1 * float64(i%24)
		seaLevel[i] = &v
	}

	repeat := func(v float64, n int) []*float64 {
		out := make([]*float64, n)
		for i := range out {
			vv := v
			out[i] = &vv
		}
		return out
	}

	return Hourly{
		Time: times,
		Channels: map[string][]*float64{
			ChannelSwellHeight:      {f(1.0), f(1.2), f(1.4)},
			ChannelSwellPeriod:      {f(10), f(12), f(14), f(16)},
			ChannelSwellDirection:   {f(270), f(268), f(274)},
			ChannelWaveHeight:       {f(0.8), f(1.6)},
			ChannelWindSpeed:        repeat(12, 24),
			ChannelWindDirection:    repeat(90, 24),
			ChannelWaterTemperature: {f(18.1), f(18.3), f(18.5)},
			ChannelSeaLevel:         seaLevel,
		},
	}
}

func TestBuildDailySummary(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.June, 2, 6, 0, 0, 0, time.UTC)))
	defer SetClock(nil)

	s := BuildDailySummary(testBundle(), "2025-06-01")
	require.NotNil(t, s)

	assert.Equal(t, "2025-06-01", s.Date)
	assert.Equal(t, time.Date(2025, time.June, 2, 6, 0, 0, 0, time.UTC), s.GeneratedAt)

	require.NotNil(t, s.Swell.Primary)
	require.NotNil(t, s.Swell.Primary.Height)
	assert.Equal(t, 1.2, *s.Swell.Primary.Height)
	require.NotNil(t, s.Swell.Primary.Period)
	assert.Equal(t, 13.0, *s.Swell.Primary.Period, "even count averages the middle pair")
	require.NotNil(t, s.Swell.Primary.Direction)
	assert.Equal(t, 270, *s.Swell.Primary.Direction)

	assert.Nil(t, s.Swell.Secondary, "tier without samples is absent, not zero")
	assert.Nil(t, s.Swell.Tertiary)

	require.NotNil(t, s.WaveHeight)
	assert.Equal(t, 1.2, *s.WaveHeight)
	require.NotNil(t, s.Wind.Speed)
	assert.Equal(t, 12.0, *s.Wind.Speed)
	require.NotNil(t, s.Wind.Direction)
	assert.Equal(t, 90, *s.Wind.Direction)
	require.NotNil(t, s.WaterTemperature)
	assert.Equal(t, 18.3, *s.WaterTemperature)

	// Monotonic sea level on the day: fallback high at 23:00, low at 00:00.
	require.Len(t, s.Tides.Highs, 1)
	assert.Equal(t, "2025-06-01T23:00", s.Tides.Highs[0].Time)
	require.NotNil(t, s.TideHigh)
	assert.InDelta(t, 2.3, *s.TideHigh, 1e-9)
	require.NotNil(t, s.TideHighTime)
	assert.Equal(t, "2025-06-01T23:00", *s.TideHighTime)
	require.NotNil(t, s.TideLow)
	assert.Equal(t, 0.0, *s.TideLow)
}

func TestBuildDailySummary_NoDataForDate(t *testing.T) {
	assert.Nil(t, BuildDailySummary(testBundle(), "2025-07-15"))
}

func TestBuildDailySummary_MissingTimeAxis(t *testing.T) {
	h := Hourly{Channels: map[string][]*float64{ChannelWaveHeight: {f(1)}}}
	assert.Nil(t, BuildDailySummary(h, "2025-06-01"))
}

func TestBuildDailySummary_WindFetchMissing(t *testing.T) {
	h := testBundle()
	delete(h.Channels, ChannelWindSpeed)
	delete(h.Channels, ChannelWindDirection)

	s := BuildDailySummary(h, "2025-06-01")
	require.NotNil(t, s)

	assert.Nil(t, s.Wind.Speed)
	assert.Nil(t, s.Wind.Direction)
	assert.NotNil(t, s.WaveHeight, "marine channels still reduce")
}

func TestBuildDailySummary_NullsPropagate(t *testing.T) {
	h := Hourly{
		Time: fullDay("2025-06-01"),
		Channels: map[string][]*float64{
			ChannelWaveHeight: {nil, nil, nil},
		},
	}

	s := BuildDailySummary(h, "2025-06-01")
	require.NotNil(t, s)

	assert.Nil(t, s.WaveHeight)
	assert.Nil(t, s.Swell.Primary)
	assert.Nil(t, s.WaterTemperature)
	assert.True(t, s.Tides.Empty())
	assert.Nil(t, s.TideHigh)
	assert.Nil(t, s.TideLowTime)
}

func TestBuildDailySummary_SecondTierPresent(t *testing.T) {
	h := testBundle()
	h.Channels[ChannelSecondarySwellPeriod] = []*float64{f(8)}

	s := BuildDailySummary(h, "2025-06-01")
	require.NotNil(t, s)

	require.NotNil(t, s.Swell.Secondary, "one present channel is enough for the tier")
	assert.Nil(t, s.Swell.Secondary.Height)
	require.NotNil(t, s.Swell.Secondary.Period)
	assert.Equal(t, 8.0, *s.Swell.Secondary.Period)
	assert.Nil(t, s.Swell.Secondary.Direction)
}

func TestEmptySummary(t *testing.T) {
	s := EmptySummary("2025-06-01")

	assert.Equal(t, "2025-06-01", s.Date)
	assert.Nil(t, s.WaveHeight)
	assert.Nil(t, s.Swell.Primary)
	assert.True(t, s.Tides.Empty())
	assert.False(t, s.GeneratedAt.IsZero())
}
