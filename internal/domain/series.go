package domain

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// Channel names as produced by the Open-Meteo marine and forecast APIs.
const (
	ChannelSwellHeight    = "swell_wave_height"
	ChannelSwellPeriod    = "swell_wave_period"
	ChannelSwellDirection = "swell_wave_direction"

	ChannelSecondarySwellHeight    = "secondary_swell_wave_height"
	ChannelSecondarySwellPeriod    = "secondary_swell_wave_period"
	ChannelSecondarySwellDirection = "secondary_swell_wave_direction"

	ChannelTertiarySwellHeight    = "tertiary_swell_wave_height"
	ChannelTertiarySwellPeriod    = "tertiary_swell_wave_period"
	ChannelTertiarySwellDirection = "tertiary_swell_wave_direction"

	ChannelWaveHeight       = "wave_height"
	ChannelWindSpeed        = "wind_speed_10m"
	ChannelWindDirection    = "wind_direction_10m"
	ChannelWaterTemperature = "sea_surface_temperature"
	ChannelSeaLevel         = "sea_level_height_msl"
)

// Hourly is one batch of hourly samples: an ordered timestamp axis plus
// named channel arrays index-aligned to it. A channel may be missing or
// shorter than the time axis; the missing tail reads as absent samples.
type Hourly struct {
	Time     []string
	Channels map[string][]*float64
}

// Channel returns the named channel array, or nil when absent.
func (h Hourly) Channel(name string) []*float64 {
	return h.Channels[name]
}

// Sample returns the channel value at index i, or nil when the channel is
// missing, shorter than i, or holds a non-finite value there.
func (h Hourly) Sample(name string, i int) *float64 {
	ch := h.Channels[name]
	if i < 0 || i >= len(ch) {
		return nil
	}
	s := ch[i]
	if s == nil || math.IsNaN(*s) || math.IsInf(*s, 0) {
		return nil
	}
	return s
}

// Slice projects the named channel onto the given index set, preserving
// order. Indexes beyond the channel length yield absent samples.
func (h Hourly) Slice(name string, idx []int) []*float64 {
	out := make([]*float64, len(idx))
	for n, i := range idx {
		out[n] = h.Sample(name, i)
	}
	return out
}

// DayIndexes returns the positions on the time axis belonging to the given
// calendar date, matched by timestamp prefix.
func (h Hourly) DayIndexes(date string) []int {
	prefix := date + "T"
	var idx []int
	for i, ts := range h.Time {
		if strings.HasPrefix(ts, prefix) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Merge combines two bundles fetched for the same grid, e.g. the marine and
// the wind fetch for one coordinate. The receiver's time axis wins when both
// are present; the other bundle's channels are adopted where the receiver
// has none. Channels stay index-aligned because both fetches use the same
// hourly window.
func (h Hourly) Merge(other Hourly) Hourly {
	out := Hourly{Time: h.Time, Channels: map[string][]*float64{}}
	if len(out.Time) == 0 {
		out.Time = other.Time
	}
	for name, ch := range h.Channels {
		out.Channels[name] = ch
	}
	for name, ch := range other.Channels {
		if _, taken := out.Channels[name]; !taken {
			out.Channels[name] = ch
		}
	}
	return out
}

// UnmarshalJSON decodes an Open-Meteo style "hourly" object: the "time"
// member becomes the timestamp axis and every other array member becomes a
// channel. Samples that are not finite numbers decode as absent rather than
// failing the batch.
func (h *Hourly) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	h.Time = nil
	h.Channels = map[string][]*float64{}

	for name, raw := range members {
		if name == "time" {
			if err := json.Unmarshal(raw, &h.Time); err != nil {
				return err
			}
			continue
		}

		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			// Non-array member (units metadata etc.); not a channel.
			continue
		}
		ch := make([]*float64, len(elems))
		for i, e := range elems {
			var v *float64
			if err := json.Unmarshal(e, &v); err == nil {
				ch[i] = v
			}
		}
		h.Channels[name] = ch
	}
	return nil
}

// CleanSamples drops absent and non-finite entries, preserving order.
func CleanSamples(samples []*float64) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s == nil || math.IsNaN(*s) || math.IsInf(*s, 0) {
			continue
		}
		out = append(out, *s)
	}
	return out
}

// Median returns the statistical median: the middle element for odd-length
// input, the mean of the two middle elements for even-length input, nil for
// empty input. The argument is not modified.
func Median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	var m float64
	if len(sorted)%2 == 1 {
		m = sorted[mid]
	} else {
		m = (sorted[mid-1] + sorted[mid]) / 2
	}
	return &m
}

// Round3 fixes a value to 3 decimal places, the precision used for
// height-like outputs.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// medianSample is the clean-then-median reduction applied to day slices.
func medianSample(samples []*float64) *float64 {
	return Median(CleanSamples(samples))
}

// round3Ptr rounds through a possibly absent value.
func round3Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round3(*v)
	return &r
}
