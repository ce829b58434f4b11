// Package worldbank provides a client for the World Bank indicator API.
package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/terrapulse/terrapulse/internal/aggregate"
	"github.com/terrapulse/terrapulse/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the World Bank API.
	DefaultBaseURL = "https://api.worldbank.org"

	// ProviderName identifies this provider.
	ProviderName = "worldbank"

	// Indicator is the safely-managed drinking water coverage indicator.
	Indicator = "SH.H2O.SMDW.ZS"

	// indicatorPath requests recent survey years for all countries.
	indicatorPath = "/v2/country/all/indicator/" + Indicator + "?per_page=400&format=json&date=2018:2023"

	// coverageUnit labels the indicator values.
	coverageUnit = "% population"
)

// ClientConfig holds configuration for the World Bank client.
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

// Client is a World Bank indicator API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new World Bank client.
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

// indicatorRow mirrors one row of the World Bank indicator payload.
// The payload is a 2-element array: [pagination, rows].
type indicatorRow struct {
	CountryISO3 string `json:"countryiso3code"`
	Country     struct {
		Value string `json:"value"`
	} `json:"country"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Name identifies the upstream source.
func (c *Client) Name() string {
	return ProviderName
}

// FetchRecords retrieves the water coverage survey as raw records, one per
// country, keeping only the latest surveyed year with a usable value. The
// feed mixes aggregate rows (regions, income groups) with real countries;
// those carry no iso3 code and are dropped here. Zero and negative values
// mean "no survey", matching how the indicator publishes gaps, and are
// dropped as well.
func (c *Client) FetchRecords(ctx context.Context) ([]aggregate.Record, error) {
	url := c.baseURL + indicatorPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch indicator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from indicator endpoint", resp.StatusCode)
	}

	var envelope []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode indicator response: %w", err)
	}
	if len(envelope) < 2 {
		return nil, fmt.Errorf("indicator response has %d elements, want 2", len(envelope))
	}

	var rows []indicatorRow
	if err := json.Unmarshal(envelope[1], &rows); err != nil {
		return nil, fmt.Errorf("decode indicator rows: %w", err)
	}

	return toRecords(rows), nil
}

// toRecords reduces survey rows to one record per country, preferring the
// most recent year. Output order follows first appearance in the feed.
func toRecords(rows []indicatorRow) []aggregate.Record {
	type latest struct {
		row  indicatorRow
		year int
	}

	byCountry := make(map[string]*latest)
	var order []string

	for _, row := range rows {
		if row.CountryISO3 == "" || row.Value == nil || *row.Value <= 0 {
			continue
		}

		year, err := strconv.Atoi(row.Date)
		if err != nil {
			continue
		}

		cur, ok := byCountry[row.CountryISO3]
		if !ok {
			byCountry[row.CountryISO3] = &latest{row: row, year: year}
			order = append(order, row.CountryISO3)
			continue
		}
		if year > cur.year {
			cur.row = row
			cur.year = year
		}
	}

	records := make([]aggregate.Record, 0, len(order))
	for _, iso3 := range order {
		row := byCountry[iso3].row
		records = append(records, aggregate.Record{
			Location:  iso3,
			Value:     *row.Value,
			Unit:      coverageUnit,
			UpdatedAt: row.Date,
		})
	}
	return records
}
