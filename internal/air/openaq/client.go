// Package openaq provides a client for the OpenAQ latest-measurements API.
package openaq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/terrapulse/terrapulse/internal/aggregate"
	"github.com/terrapulse/terrapulse/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the OpenAQ API.
	DefaultBaseURL = "https://api.openaq.org"

	// ProviderName identifies this provider.
	ProviderName = "openaq"

	// latestPath requests the most recent geo-located PM2.5 readings.
	latestPath = "/v2/latest?limit=200&parameter=pm25&sort=desc&has_geo=true"

	// pm25Unit is the unit OpenAQ reports PM2.5 concentrations in.
	pm25Unit = "µg/m³"
)

// ClientConfig holds configuration for the OpenAQ client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an OpenAQ API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new OpenAQ client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// API response types (from the OpenAQ v2 API).

type latestResponse struct {
	Results []locationData `json:"results"`
}

type locationData struct {
	Name         string            `json:"name"`
	City         string            `json:"city"`
	Country      string            `json:"country"`
	Coordinates  *coordinatesData  `json:"coordinates"`
	Measurements []measurementData `json:"measurements"`
}

type coordinatesData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type measurementData struct {
	Parameter   string  `json:"parameter"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	LastUpdated string  `json:"lastUpdated"`
}

// Name identifies the upstream source.
func (c *Client) Name() string {
	return ProviderName
}

// FetchRecords retrieves the latest PM2.5 readings as raw records.
// Locations without any measurement are dropped; locations without a PM2.5
// measurement contribute their first measurement instead, matching how the
// feed mixes parameters near the page boundary.
func (c *Client) FetchRecords(ctx context.Context) ([]aggregate.Record, error) {
	url := c.baseURL + latestPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest measurements: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from latest endpoint", resp.StatusCode)
	}

	var payload latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode latest response: %w", err)
	}

	records := make([]aggregate.Record, 0, len(payload.Results))
	for i := range payload.Results {
		if rec, ok := toRecord(&payload.Results[i]); ok {
			records = append(records, rec)
		}
	}

	return records, nil
}

// toRecord converts one OpenAQ location into a raw record.
func toRecord(loc *locationData) (aggregate.Record, bool) {
	if len(loc.Measurements) == 0 {
		return aggregate.Record{}, false
	}

	m := loc.Measurements[0]
	for i := range loc.Measurements {
		if strings.EqualFold(loc.Measurements[i].Parameter, "pm25") {
			m = loc.Measurements[i]
			break
		}
	}

	unit := m.Unit
	if unit == "" {
		unit = pm25Unit
	}

	place := strings.TrimSpace(loc.City)
	if place == "" {
		place = strings.TrimSpace(loc.Name)
	}

	rec := aggregate.Record{
		Location:  loc.Country,
		Value:     m.Value,
		Unit:      unit,
		UpdatedAt: m.LastUpdated,
		Place:     place,
	}
	if loc.Coordinates != nil {
		rec.Coords = &aggregate.LatLng{
			Lat: loc.Coordinates.Latitude,
			Lng: loc.Coordinates.Longitude,
		}
	}

	return rec, true
}
