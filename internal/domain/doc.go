// Package domain reduces hourly marine and weather time series to daily
// surf summaries.
//
// # Data Source
//
// Hourly arrays follow the Open-Meteo marine and forecast API conventions:
// a "time" array of ISO-8601 timestamps (naive local or UTC, consistent
// within a batch) plus named channel arrays index-aligned to it, e.g.
// "swell_wave_height" or "sea_level_height_msl". A channel array may be
// shorter than the time array or missing entirely; the tail is treated as
// absent samples, never as an error. JSON null and non-finite values are
// absent too.
//
// # Reduction
//
// One calendar day is projected out of a possibly multi-day bundle by
// timestamp prefix ("2025-06-01T"). Scalar channels (heights, periods,
// temperature, wind speed) collapse to the statistical median of the day's
// present samples. Compass bearings are circular, so a linear mean is
// meaningless (the mean of 1 and 359 degrees is not 180); bearings instead
// collapse to the mode of 10-degree histogram bins, ties broken by the
// lowest bin key. Height-like outputs are fixed to 3 decimals; intermediate
// math keeps full precision.
//
// # Tide turning points
//
// Tide high/low events are strict interior local extrema of the sea-level
// channel. The detector scans the full padded series, including neighbor
// days, so an extremum near midnight of the target day keeps its true
// neighbors instead of being clipped at the day boundary. At most two highs
// and two lows are kept per day; a flat or monotonic day falls back to the
// day's single global maximum and minimum samples.
//
// # Persisted summaries
//
// Summaries persisted by earlier versions of the system exist in more than
// one JSON shape. [DecodeStoredSummary] reads the known shapes in priority
// order, and [MergeSummaries] fills whatever a persisted summary is missing
// from a freshly built one, field by field. Absence is always a nil leaf,
// never an error or a zero.
package domain
