// Command recap fetches one day of hourly marine and wind data for a
// coordinate, reduces it to a daily summary, and prints the summary as JSON.
// It uses the actual domain package so the output matches server behavior,
// but touches no store and publishes nothing.
//
// Usage:
//
//	go run ./cmd/recap -lat 36.95 -lon -122.03 -date 2026-03-14
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chrstroll/swell-recap/internal/adapter/openmeteo"
	"github.com/chrstroll/swell-recap/internal/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	lat := flag.Float64("lat", 0, "latitude in decimal degrees")
	lon := flag.Float64("lon", 0, "longitude in decimal degrees")
	date := flag.String("date", time.Now().UTC().Format("2006-01-02"), "day to summarize (YYYY-MM-DD)")
	timeout := flag.Duration("timeout", 15*time.Second, "per-request fetch timeout")
	flag.Parse()

	day, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return fmt.Errorf("invalid -date %q: %w", *date, err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := openmeteo.NewClient(*timeout, 2, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*(*timeout))
	defer cancel()

	// Pad the window one day each side so tide turning points near midnight
	// keep their neighbors.
	start := day.AddDate(0, 0, -1).Format("2006-01-02")
	end := day.AddDate(0, 0, 1).Format("2006-01-02")

	marine, err := client.FetchMarine(ctx, *lat, *lon, start, end)
	if err != nil {
		return fmt.Errorf("fetching marine data: %w", err)
	}
	wind, err := client.FetchWind(ctx, *lat, *lon, start, end)
	if err != nil {
		logger.Warn("wind fetch failed, continuing without wind", "error", err)
	}

	summary := domain.BuildDailySummary(marine.Merge(wind), *date)
	if summary == nil {
		summary = domain.EmptySummary(*date)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
