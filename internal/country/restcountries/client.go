// Package restcountries provides a client for the REST Countries API.
package restcountries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/terrapulse/terrapulse/internal/country"
	"github.com/terrapulse/terrapulse/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the REST Countries API.
	DefaultBaseURL = "https://restcountries.com"

	// ProviderName identifies this provider.
	ProviderName = "restcountries"

	// countriesPath requests only the fields the directory needs.
	countriesPath = "/v3.1/all?fields=name,cca2,cca3,latlng,region,capital"
)

// ClientConfig holds configuration for the REST Countries client.
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

// Client is a REST Countries API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new REST Countries client.
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

// countryData mirrors the REST Countries payload for the requested fields.
type countryData struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2    string    `json:"cca2"`
	CCA3    string    `json:"cca3"`
	LatLng  []float64 `json:"latlng"`
	Region  string    `json:"region"`
	Capital []string  `json:"capital"`
}

// FetchCountries retrieves the country reference table.
func (c *Client) FetchCountries(ctx context.Context) ([]country.Meta, error) {
	url := c.baseURL + countriesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch countries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from countries endpoint", resp.StatusCode)
	}

	var payload []countryData
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode countries response: %w", err)
	}

	entries := make([]country.Meta, 0, len(payload))
	for _, cd := range payload {
		if cd.CCA3 == "" {
			continue
		}
		entries = append(entries, toMeta(&cd))
	}

	return entries, nil
}

// toMeta converts API country data to directory metadata.
func toMeta(cd *countryData) country.Meta {
	var lat, lng float64
	if len(cd.LatLng) >= 2 {
		lat = cd.LatLng[0]
		lng = cd.LatLng[1]
	}

	name := cd.Name.Common
	if name == "" {
		name = cd.CCA3
	}

	region := cd.Region
	if region == "" {
		region = "Unknown"
	}

	var capital string
	if len(cd.Capital) > 0 {
		capital = cd.Capital[0]
	}

	return country.Meta{
		CCA3:    strings.ToUpper(cd.CCA3),
		Name:    name,
		CCA2:    strings.ToUpper(cd.CCA2),
		Lat:     lat,
		Lng:     lng,
		Region:  region,
		Capital: capital,
	}
}
