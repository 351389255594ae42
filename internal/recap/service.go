// Package recap orchestrates the fetch-reduce-reconcile cycle that turns
// hourly marine data into persisted daily summaries.
package recap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chrstroll/swell-recap/internal/adapter/store"
	"github.com/chrstroll/swell-recap/internal/domain"
	"github.com/chrstroll/swell-recap/internal/observability"
)

// MarineSource fetches the swell/wave/sea-level channels for a window.
type MarineSource interface {
	FetchMarine(ctx context.Context, lat, lon float64, start, end string) (domain.Hourly, error)
}

// WindSource fetches the wind channels for a window.
type WindSource interface {
	FetchWind(ctx context.Context, lat, lon float64, start, end string) (domain.Hourly, error)
}

// SummaryStore is the opaque key-value persistence collaborator.
type SummaryStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Scan(ctx context.Context, prefix string) (map[string][]byte, error)
}

// Labeler resolves a coordinate to a display label.
type Labeler interface {
	ReverseLabel(ctx context.Context, lat, lon float64) (string, error)
}

// Publisher forwards persisted summaries to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, key string, summary *domain.DailySummary) error
}

// Service composes the reduction engine with its I/O collaborators. The
// engine itself is pure; everything fallible lives behind the interfaces
// above, and every collaborator except the marine source is optional.
type Service struct {
	marine    MarineSource
	wind      WindSource
	store     SummaryStore
	labeler   Labeler
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Service. labeler and publisher may be nil to disable place
// labels and summary publication.
func New(marine MarineSource, wind WindSource, st SummaryStore, labeler Labeler, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		marine:    marine,
		wind:      wind,
		store:     st,
		labeler:   labeler,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the service has produced at least one summary.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no summary produced yet")
	}
	return nil
}

// Summary produces the daily summary for a coordinate and date. A persisted
// summary is reconciled with a freshly built one; gaps in either are normal
// and never an error. A day with no convertible data at all yields a summary
// with every leaf null.
func (s *Service) Summary(ctx context.Context, lat, lon float64, date string) (*domain.DailySummary, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	start := time.Now()
	key := store.Key(lat, lon, date)

	persisted := s.loadPersisted(ctx, key)
	hourly := s.fetchHourly(ctx, lat, lon, date)

	fresh := domain.BuildDailySummary(hourly, date)
	if fresh != nil {
		s.metrics.SummariesBuilt.Inc()
	}

	merged := domain.MergeSummaries(persisted, fresh)
	if merged == nil {
		merged = domain.EmptySummary(date)
		s.metrics.EmptySummaries.Inc()
	}

	s.attachLabel(ctx, merged, lat, lon)
	s.persist(ctx, key, merged)

	s.metrics.BuildDuration.Observe(time.Since(start).Seconds())
	s.metrics.SummariesServed.Inc()
	s.ready.Store(true)
	return merged, nil
}

// Snapshot recomputes and persists the summary for every location the store
// has seen, for the given date. Used by the daily cron pass so "actual"
// observed data replaces forecast-derived numbers once the day is over.
func (s *Service) Snapshot(ctx context.Context, date string) error {
	if s.store == nil {
		return errors.New("snapshot requires a summary store")
	}

	entries, err := s.store.Scan(ctx, "")
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("scan").Inc()
		return fmt.Errorf("scan stored locations: %w", err)
	}

	type coord struct{ lat, lon float64 }
	seen := map[coord]bool{}
	for key := range entries {
		lat, lon, _, err := store.ParseKey(key)
		if err != nil {
			s.logger.Warn("skipping malformed storage key", "key", key)
			continue
		}
		seen[coord{lat, lon}] = true
	}

	for c := range seen {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.Summary(ctx, c.lat, c.lon, date); err != nil {
			s.logger.Error("snapshot failed for location", "lat", c.lat, "lon", c.lon, "date", date, "error", err)
		}
	}

	s.metrics.SnapshotRuns.Inc()
	s.logger.Info("snapshot pass complete", "date", date, "locations", len(seen))
	return nil
}

// loadPersisted reads and decodes the stored summary for key. Storage
// trouble and unreadable shapes degrade to "nothing persisted".
func (s *Service) loadPersisted(ctx context.Context, key string) *domain.DailySummary {
	if s.store == nil {
		return nil
	}
	data, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("get").Inc()
		s.logger.Warn("stored summary read failed", "key", key, "error", err)
		return nil
	}
	if !found {
		return nil
	}
	persisted, err := domain.DecodeStoredSummary(data)
	if err != nil {
		s.logger.Warn("stored summary unreadable, rebuilding from hourly data", "key", key, "error", err)
		return nil
	}
	return persisted
}

// fetchHourly issues the marine and wind fetches concurrently over a window
// padded one day each side, so tide extrema near midnight keep their
// neighbors. Either source failing degrades to whatever the other returned.
func (s *Service) fetchHourly(ctx context.Context, lat, lon float64, date string) domain.Hourly {
	start, end := padWindow(date)

	var marine, wind domain.Hourly
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		h, err := s.marine.FetchMarine(gctx, lat, lon, start, end)
		if err != nil {
			s.metrics.FetchErrors.WithLabelValues("marine").Inc()
			s.logger.Warn("marine fetch failed", "lat", lat, "lon", lon, "error", err)
			return nil
		}
		marine = h
		return nil
	})

	if s.wind != nil {
		g.Go(func() error {
			h, err := s.wind.FetchWind(gctx, lat, lon, start, end)
			if err != nil {
				s.metrics.FetchErrors.WithLabelValues("wind").Inc()
				s.logger.Warn("wind fetch failed", "lat", lat, "lon", lon, "error", err)
				return nil
			}
			wind = h
			return nil
		})
	}

	_ = g.Wait() // goroutines swallow their errors; they only degrade

	return marine.Merge(wind)
}

func (s *Service) attachLabel(ctx context.Context, summary *domain.DailySummary, lat, lon float64) {
	if s.labeler == nil || summary.Label != "" {
		return
	}
	label, err := s.labeler.ReverseLabel(ctx, lat, lon)
	if err != nil {
		s.metrics.LabelLookups.WithLabelValues("error").Inc()
		s.logger.Warn("place label lookup failed", "lat", lat, "lon", lon, "error", err)
		return
	}
	s.metrics.LabelLookups.WithLabelValues("success").Inc()
	summary.Label = label
}

func (s *Service) persist(ctx context.Context, key string, summary *domain.DailySummary) {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		s.logger.Error("summary marshal failed", "key", key, "error", err)
		return
	}
	if err := s.store.Put(ctx, key, data); err != nil {
		s.metrics.StoreErrors.WithLabelValues("put").Inc()
		s.logger.Warn("summary persist failed", "key", key, "error", err)
		return
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, key, summary); err != nil {
			s.metrics.PublishErrors.Inc()
			s.logger.Warn("summary publish failed", "key", key, "error", err)
		}
	}
}

// padWindow returns the fetch window [date-1, date+1].
func padWindow(date string) (string, string) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date, date
	}
	const layout = "2006-01-02"
	return d.AddDate(0, 0, -1).Format(layout), d.AddDate(0, 0, 1).Format(layout)
}
