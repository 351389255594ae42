package domain

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hourlyTimes builds hour-resolution timestamps for one date.
func hourlyTimes(date string, hours ...int) []string {
	out := make([]string, len(hours))
	for i, h := range hours {
		out[i] = fmt.Sprintf("%sT%02d:00", date, h)
	}
	return out
}

func fullDay(date string) []string {
	hours := make([]int, 24)
	for i := range hours {
		hours[i] = i
	}
	return hourlyTimes(date, hours...)
}

func samples(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

func TestDetectTideEvents_InteriorExtrema(t *testing.T) {
	// Semidiurnal sine across three days; the middle day is the target.
	var times []string
	var heights []float64
	for i, date := range []string{"2025-05-31", "2025-06-01", "2025-06-02"} {
		times = append(times, fullDay(date)...)
		for h := 0; h < 24; h++ {
			tt := float64(i*24 + h)
			heights = append(heights, 1.5*math.Sin(2*math.Pi*tt/12))
		}
	}

	bundle := DetectTideEvents(times, samples(heights...), "2025-06-01")

	require.Len(t, bundle.Highs, 2)
	assert.Equal(t, "2025-06-01T03:00", bundle.Highs[0].Time)
	assert.Equal(t, "2025-06-01T15:00", bundle.Highs[1].Time)
	assert.Equal(t, 1.5, bundle.Highs[0].Height)

	require.Len(t, bundle.Lows, 2)
	assert.Equal(t, "2025-06-01T09:00", bundle.Lows[0].Time)
	assert.Equal(t, "2025-06-01T21:00", bundle.Lows[1].Time)
	assert.Equal(t, -1.5, bundle.Lows[0].Height)
}

func TestDetectTideEvents_TopTwoResortedByTime(t *testing.T) {
	// Three highs: 06:00 is the smallest and must be dropped; the survivors
	// come back in time order even though selection ranks by height.
	times := fullDay("2025-06-01")
	heights := samples(
		0.5, 0.6, 0.7, 0.9, 1.2, 1.6, 2.0, 1.6, 1.2, 0.8, // high 2.0 at 06:00
		1.4, 2.2, 3.0, 2.2, 1.4, 0.6, // high 3.0 at 12:00
		1.1, 1.6, 2.5, 1.6, 1.1, 0.7, 0.5, 0.4, // high 2.5 at 18:00
	)

	bundle := DetectTideEvents(times, heights, "2025-06-01")

	require.Len(t, bundle.Highs, 2)
	assert.Equal(t, "2025-06-01T12:00", bundle.Highs[0].Time)
	assert.Equal(t, 3.0, bundle.Highs[0].Height)
	assert.Equal(t, "2025-06-01T18:00", bundle.Highs[1].Time)
	assert.Equal(t, 2.5, bundle.Highs[1].Height)
}

func TestDetectTideEvents_MidnightBoundaryNeedsPadding(t *testing.T) {
	// The day's greatest high sits at 00:00; its left neighbor lives in the
	// prior day.
	dayHeights := []float64{
		2.0, 1.0, 0.8, 0.6, 0.4, 0.3, 0.2, 0.4, 0.8, 1.2, 1.5, 1.7,
		1.8, 1.7, 1.5, 1.2, 0.9, 0.5, 0.3, 0.4, 0.6, 0.8, 0.9, 1.0,
	}

	t.Run("padded series detects the midnight high", func(t *testing.T) {
		times := append(hourlyTimes("2025-05-31", 22, 23), fullDay("2025-06-01")...)
		heights := samples(append([]float64{0.5, 1.0}, dayHeights...)...)

		bundle := DetectTideEvents(times, heights, "2025-06-01")

		require.Len(t, bundle.Highs, 2)
		assert.Equal(t, "2025-06-01T00:00", bundle.Highs[0].Time)
		assert.Equal(t, 2.0, bundle.Highs[0].Height)
		assert.Equal(t, "2025-06-01T12:00", bundle.Highs[1].Time)
	})

	t.Run("unpadded series misses it", func(t *testing.T) {
		bundle := DetectTideEvents(fullDay("2025-06-01"), samples(dayHeights...), "2025-06-01")

		require.Len(t, bundle.Highs, 1)
		assert.Equal(t, "2025-06-01T12:00", bundle.Highs[0].Time)
	})
}

func TestDetectTideEvents_MonotonicDayFallsBack(t *testing.T) {
	times := fullDay("2025-06-01")
	heights := make([]float64, 24)
	for i := range heights {
		heights[i] = 0.1 * float64(i)
	}

	bundle := DetectTideEvents(times, samples(heights...), "2025-06-01")

	require.Len(t, bundle.Highs, 1)
	assert.Equal(t, "2025-06-01T23:00", bundle.Highs[0].Time)
	assert.InDelta(t, 2.3, bundle.Highs[0].Height, 1e-9)

	require.Len(t, bundle.Lows, 1)
	assert.Equal(t, "2025-06-01T00:00", bundle.Lows[0].Time)
	assert.Equal(t, 0.0, bundle.Lows[0].Height)
}

func TestDetectTideEvents_FallbackTiesGoToFirstOccurrence(t *testing.T) {
	times := hourlyTimes("2025-06-01", 0, 1, 2, 3)
	heights := samples(1.0, 1.0, 0.2, 0.2)

	bundle := DetectTideEvents(times, heights, "2025-06-01")

	require.Len(t, bundle.Highs, 1)
	assert.Equal(t, "2025-06-01T00:00", bundle.Highs[0].Time)
	require.Len(t, bundle.Lows, 1)
	assert.Equal(t, "2025-06-01T02:00", bundle.Lows[0].Time)
}

func TestDetectTideEvents_TooFewSamples(t *testing.T) {
	times := hourlyTimes("2025-06-01", 0, 1)
	bundle := DetectTideEvents(times, samples(1.0, 2.0), "2025-06-01")

	assert.True(t, bundle.Empty())
	assert.Nil(t, bundle.HighestHigh())
	assert.Nil(t, bundle.LowestLow())
}

func TestDetectTideEvents_HeightsRounded(t *testing.T) {
	times := hourlyTimes("2025-06-01", 0, 1, 2, 3, 4)
	heights := samples(0.11111, 1.23456, 0.21111, 1.55555, 0.31111)

	bundle := DetectTideEvents(times, heights, "2025-06-01")

	require.Len(t, bundle.Highs, 2)
	assert.Equal(t, 1.235, bundle.Highs[0].Height)
	assert.Equal(t, 1.556, bundle.Highs[1].Height)
}

func TestDetectTideEvents_AbsentNeighborBlocksExtremum(t *testing.T) {
	times := fullDay("2025-06-01")
	heights := samples(
		0.4, 0.7, 1.0, 1.4, 1.8, 2.0, 1.8, 1.6, 1.4, 1.2, 1.0, 0.9,
		9.0, 0.8, 0.7, 0.6, 0.5, 0.4, 0.2, 0.3, 0.5, 0.7, 0.9, 1.1,
	)
	// A spike whose left neighbor is a gap is not a detectable extremum.
	heights[11] = nil

	bundle := DetectTideEvents(times, heights, "2025-06-01")

	require.Len(t, bundle.Highs, 1)
	assert.Equal(t, "2025-06-01T05:00", bundle.Highs[0].Time)
	require.Len(t, bundle.Lows, 1)
	assert.Equal(t, "2025-06-01T18:00", bundle.Lows[0].Time)
}

func TestTideBundle_MostExtremeConvenienceEvents(t *testing.T) {
	bundle := TideBundle{
		Highs: []TideEvent{
			{Time: "2025-06-01T04:00", Height: 1.8},
			{Time: "2025-06-01T16:00", Height: 2.4},
		},
		Lows: []TideEvent{
			{Time: "2025-06-01T10:00", Height: -0.3},
			{Time: "2025-06-01T22:00", Height: -0.9},
		},
	}

	hh := bundle.HighestHigh()
	require.NotNil(t, hh)
	assert.Equal(t, "2025-06-01T16:00", hh.Time, "most extreme, not first in time")

	ll := bundle.LowestLow()
	require.NotNil(t, ll)
	assert.Equal(t, "2025-06-01T22:00", ll.Time)
}

// Single sine cycle over a day, padded two hours each side: exactly one high
// at the peak hour and one low at the trough hour.
func TestDetectTideEvents_SingleCycleDay(t *testing.T) {
	var times []string
	var heights []float64
	wave := func(tt float64) float64 { return math.Sin(2 * math.Pi * (tt - 4) / 24) }

	times = append(times, hourlyTimes("2025-05-31", 22, 23)...)
	heights = append(heights, wave(-2), wave(-1))
	times = append(times, fullDay("2025-06-01")...)
	for h := 0; h < 24; h++ {
		heights = append(heights, wave(float64(h)))
	}
	times = append(times, hourlyTimes("2025-06-02", 0, 1)...)
	heights = append(heights, wave(24), wave(25))

	bundle := DetectTideEvents(times, samples(heights...), "2025-06-01")

	require.Len(t, bundle.Highs, 1)
	assert.Equal(t, "2025-06-01T10:00", bundle.Highs[0].Time)
	assert.Equal(t, 1.0, bundle.Highs[0].Height)

	require.Len(t, bundle.Lows, 1)
	assert.Equal(t, "2025-06-01T22:00", bundle.Lows[0].Time)
	assert.Equal(t, -1.0, bundle.Lows[0].Height)
}
