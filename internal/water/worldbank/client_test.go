package worldbank_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrapulse/terrapulse/internal/water/worldbank"
)

func TestClient_FetchRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/country/all/indicator/SH.H2O.SMDW.ZS", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "400", r.URL.Query().Get("per_page"))
		assert.Equal(t, "2018:2023", r.URL.Query().Get("date"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"page": 1, "pages": 1, "per_page": 400, "total": 7},
			[
				{"countryiso3code": "NLD", "country": {"value": "Netherlands"}, "date": "2020", "value": 99.1},
				{"countryiso3code": "NLD", "country": {"value": "Netherlands"}, "date": "2022", "value": 99.5},
				{"countryiso3code": "NLD", "country": {"value": "Netherlands"}, "date": "2021", "value": 99.3},
				{"countryiso3code": "", "country": {"value": "Euro area"}, "date": "2022", "value": 98.0},
				{"countryiso3code": "ETH", "country": {"value": "Ethiopia"}, "date": "2022", "value": null},
				{"countryiso3code": "ETH", "country": {"value": "Ethiopia"}, "date": "2019", "value": 12.6},
				{"countryiso3code": "NGA", "country": {"value": "Nigeria"}, "date": "2021", "value": 0}
			]
		]`))
	}))
	defer server.Close()

	client := worldbank.NewClient(worldbank.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})
	assert.Equal(t, "worldbank", client.Name())

	records, err := client.FetchRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// One record per country, latest surveyed year wins.
	nld := records[0]
	assert.Equal(t, "NLD", nld.Location)
	assert.Equal(t, 99.5, nld.Value)
	assert.Equal(t, "2022", nld.UpdatedAt)
	assert.Equal(t, "% population", nld.Unit)
	assert.Empty(t, nld.Place)

	// Null values are skipped, so Ethiopia falls back to its 2019 survey.
	eth := records[1]
	assert.Equal(t, "ETH", eth.Location)
	assert.Equal(t, 12.6, eth.Value)
	assert.Equal(t, "2019", eth.UpdatedAt)
}

func TestClient_FetchRecords_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := worldbank.NewClient(worldbank.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchRecords(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestClient_FetchRecords_ShortEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Error responses come back as a 1-element envelope.
		w.Write([]byte(`[{"message": [{"id": "120", "value": "Invalid indicator"}]}]`))
	}))
	defer server.Close()

	client := worldbank.NewClient(worldbank.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchRecords(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 2")
}

func TestClient_FetchRecords_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"not": "an envelope"}`))
	}))
	defer server.Close()

	client := worldbank.NewClient(worldbank.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchRecords(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode indicator response")
}
