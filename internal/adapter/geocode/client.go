// Package geocode resolves a coordinate to a short place label for display
// on summaries. Lookup is best-effort: a failed or empty result means the
// summary simply carries no label.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client resolves labels against the Nominatim reverse geocoding API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a Nominatim reverse geocoding client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://nominatim.openstreetmap.org/reverse",
		userAgent:  "swell-recap/1.0",
		logger:     logger,
	}
}

// nominatimResponse is the subset of the reverse geocoding payload we read.
type nominatimResponse struct {
	Name    string `json:"name"`
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
		State   string `json:"state"`
	} `json:"address"`
	DisplayName string `json:"display_name"`
}

// ReverseLabel converts a coordinate to a short place label, e.g.
// "Santa Monica, California". Returns an empty string when the provider
// knows nothing about the point.
func (c *Client) ReverseLabel(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{
		"format": {"jsonv2"},
		"lat":    {fmt.Sprintf("%.6f", lat)},
		"lon":    {fmt.Sprintf("%.6f", lon)},
		"zoom":   {"10"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("nominatim request failed", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	return buildLabel(payload), nil
}

// buildLabel picks the most specific populated place, adding the state when
// known.
func buildLabel(r nominatimResponse) string {
	place := r.Address.City
	for _, candidate := range []string{r.Address.Town, r.Address.Village, r.Address.County, r.Name} {
		if place != "" {
			break
		}
		place = candidate
	}
	if place == "" {
		return ""
	}
	if r.Address.State != "" {
		return place + ", " + r.Address.State
	}
	return place
}
