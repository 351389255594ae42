package domain

import (
	"math"
	"sort"
)

// NormalizeDirection reduces a compass bearing to integer degrees in [0, 360).
func NormalizeDirection(d float64) int {
	n := int(math.Round(d)) % 360
	if n < 0 {
		n += 360
	}
	return n
}

// MostCommonDirection buckets bearings into 10-degree bins and returns the
// key of the fullest bin, or nil when no sample is present. Bin keys wrap,
// so 358 and 2 land in the same bin 0. Ties go to the lowest bin key, which
// keeps the result deterministic regardless of input order.
func MostCommonDirection(samples []*float64) *int {
	counts := map[int]int{}
	for _, s := range samples {
		if s == nil || math.IsNaN(*s) || math.IsInf(*s, 0) {
			continue
		}
		nd := NormalizeDirection(*s)
		bin := int(math.Round(float64(nd)/10)) * 10 % 360
		counts[bin]++
	}
	if len(counts) == 0 {
		return nil
	}

	bins := make([]int, 0, len(counts))
	for bin := range counts {
		bins = append(bins, bin)
	}
	sort.Ints(bins)

	best := bins[0]
	for _, bin := range bins[1:] {
		if counts[bin] > counts[best] {
			best = bin
		}
	}
	return &best
}
