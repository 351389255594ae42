package domain

import (
	"math"
	"sort"
	"strings"
)

// TideEvent is one detected local extremum of sea level.
type TideEvent struct {
	Time   string  `json:"time"`
	Height float64 `json:"height"`
}

// TideBundle holds up to two high and two low tide events for one day, each
// list ordered by time ascending.
type TideBundle struct {
	Highs []TideEvent `json:"highs"`
	Lows  []TideEvent `json:"lows"`
}

// Empty reports whether the bundle holds no events at all.
func (b TideBundle) Empty() bool {
	return len(b.Highs) == 0 && len(b.Lows) == 0
}

// HighestHigh returns the high event of greatest height, which is not
// necessarily the first in time. Nil when there are no highs.
func (b TideBundle) HighestHigh() *TideEvent {
	var best *TideEvent
	for i := range b.Highs {
		if best == nil || b.Highs[i].Height > best.Height {
			best = &b.Highs[i]
		}
	}
	return best
}

// LowestLow returns the low event of least height. Nil when there are no lows.
func (b TideBundle) LowestLow() *TideEvent {
	var best *TideEvent
	for i := range b.Lows {
		if best == nil || b.Lows[i].Height < best.Height {
			best = &b.Lows[i]
		}
	}
	return best
}

// DetectTideEvents finds tide turning points for one calendar date in a
// sea-level series. The series should be padded with the neighbor days so
// that extrema near midnight keep their true neighbors; the scan covers the
// whole series and only the date filter restricts the result.
//
// Interior strict local extrema win: up to the two greatest highs and the
// two least lows, each re-sorted by time. A day without interior extrema
// (flat or monotonic water level) falls back to the day's single global
// maximum and minimum samples. Fewer than three present samples on the date
// yield an empty bundle, which is a normal result, not an error.
func DetectTideEvents(times []string, heights []*float64, date string) TideBundle {
	prefix := date + "T"

	at := func(i int) *float64 {
		if i < 0 || i >= len(heights) {
			return nil
		}
		s := heights[i]
		if s == nil || math.IsNaN(*s) || math.IsInf(*s, 0) {
			return nil
		}
		return s
	}
	onDate := func(i int) bool {
		return strings.HasPrefix(times[i], prefix)
	}

	var dateIdx []int
	for i := range times {
		if onDate(i) && at(i) != nil {
			dateIdx = append(dateIdx, i)
		}
	}
	if len(dateIdx) < 3 {
		return TideBundle{}
	}

	var highs, lows []TideEvent
	for i := 1; i+1 < len(times); i++ {
		prev, cur, next := at(i-1), at(i), at(i+1)
		if prev == nil || cur == nil || next == nil || !onDate(i) {
			continue
		}
		switch {
		case *cur > *prev && *cur > *next:
			highs = append(highs, TideEvent{Time: times[i], Height: Round3(*cur)})
		case *cur < *prev && *cur < *next:
			lows = append(lows, TideEvent{Time: times[i], Height: Round3(*cur)})
		}
	}

	if len(highs) == 0 || len(lows) == 0 {
		return fallbackTideEvents(times, dateIdx, at)
	}

	sort.SliceStable(highs, func(a, b int) bool { return highs[a].Height > highs[b].Height })
	if len(highs) > 2 {
		highs = highs[:2]
	}
	sort.SliceStable(lows, func(a, b int) bool { return lows[a].Height < lows[b].Height })
	if len(lows) > 2 {
		lows = lows[:2]
	}

	sort.Slice(highs, func(a, b int) bool { return highs[a].Time < highs[b].Time })
	sort.Slice(lows, func(a, b int) bool { return lows[a].Time < lows[b].Time })

	return TideBundle{Highs: highs, Lows: lows}
}

// fallbackTideEvents picks the single greatest and least sample on the date,
// first occurrence winning ties.
func fallbackTideEvents(times []string, dateIdx []int, at func(int) *float64) TideBundle {
	maxI, minI := dateIdx[0], dateIdx[0]
	for _, i := range dateIdx[1:] {
		if *at(i) > *at(maxI) {
			maxI = i
		}
		if *at(i) < *at(minI) {
			minI = i
		}
	}
	return TideBundle{
		Highs: []TideEvent{{Time: times[maxI], Height: Round3(*at(maxI))}},
		Lows:  []TideEvent{{Time: times[minI], Height: Round3(*at(minI))}},
	}
}
