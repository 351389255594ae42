// Package openmeteo fetches hourly marine and wind data from the Open-Meteo
// public APIs. The marine API carries swell, wave, sea-level, and water
// temperature channels; the regular forecast API carries the 10m wind
// channels. Both return the same hourly grid for a coordinate and date
// window, so the two bundles merge index-aligned.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/chrstroll/swell-recap/internal/domain"
)

var marineChannels = []string{
	domain.ChannelSwellHeight,
	domain.ChannelSwellPeriod,
	domain.ChannelSwellDirection,
	domain.ChannelSecondarySwellHeight,
	domain.ChannelSecondarySwellPeriod,
	domain.ChannelSecondarySwellDirection,
	domain.ChannelTertiarySwellHeight,
	domain.ChannelTertiarySwellPeriod,
	domain.ChannelTertiarySwellDirection,
	domain.ChannelWaveHeight,
	domain.ChannelWaterTemperature,
	domain.ChannelSeaLevel,
}

var windChannels = []string{
	domain.ChannelWindSpeed,
	domain.ChannelWindDirection,
}

// Client fetches hourly bundles from the Open-Meteo APIs. A shared rate
// limiter covers both endpoints so concurrent fetches stay inside the
// upstream request budget.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	marineURL   string
	forecastURL string
}

// NewClient creates an Open-Meteo client. requestsPerSecond bounds the
// combined request rate against both APIs.
func NewClient(timeout time.Duration, requestsPerSecond float64, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:      logger,
		marineURL:   "https://marine-api.open-meteo.com/v1/marine",
		forecastURL: "https://api.open-meteo.com/v1/forecast",
	}
}

// FetchMarine retrieves the swell/wave/sea-level/temperature channels for a
// coordinate over the inclusive [start, end] date window.
func (c *Client) FetchMarine(ctx context.Context, lat, lon float64, start, end string) (domain.Hourly, error) {
	return c.fetch(ctx, c.marineURL, marineChannels, lat, lon, start, end)
}

// FetchWind retrieves the 10m wind channels for the same window.
func (c *Client) FetchWind(ctx context.Context, lat, lon float64, start, end string) (domain.Hourly, error) {
	return c.fetch(ctx, c.forecastURL, windChannels, lat, lon, start, end)
}

func (c *Client) fetch(ctx context.Context, baseURL string, channels []string, lat, lon float64, start, end string) (domain.Hourly, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Hourly{}, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{
		"latitude":   {fmt.Sprintf("%.4f", lat)},
		"longitude":  {fmt.Sprintf("%.4f", lon)},
		"hourly":     {strings.Join(channels, ",")},
		"start_date": {start},
		"end_date":   {end},
		"timezone":   {"auto"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Hourly{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Hourly{}, fmt.Errorf("fetch hourly data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("open-meteo request failed",
			"status", resp.StatusCode,
			"url", baseURL,
			"body", string(body),
		)
		return domain.Hourly{}, fmt.Errorf("open-meteo status %d", resp.StatusCode)
	}

	var payload struct {
		Hourly domain.Hourly `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Hourly{}, fmt.Errorf("decode hourly response: %w", err)
	}
	return payload.Hourly, nil
}
