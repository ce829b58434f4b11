package aggregate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrapulse/terrapulse/internal/aggregate"
	"github.com/terrapulse/terrapulse/internal/country"
)

func testDirectory() *country.Directory {
	return country.NewDirectory([]country.Meta{
		{CCA3: "USA", Name: "United States", CCA2: "US", Lat: 38.0, Lng: -97.0, Region: "Americas"},
		{CCA3: "DEU", Name: "Germany", CCA2: "DE", Lat: 51.0, Lng: 9.0, Region: "Europe"},
	})
}

func TestAggregate_CountrySums(t *testing.T) {
	records := []aggregate.Record{
		{Location: "US", Value: 5.0, Unit: "µg/m³", UpdatedAt: "2026-01-01T00:00:00Z"},
		{Location: "US", Value: 7.0, Unit: "µg/m³", UpdatedAt: "2026-01-03T00:00:00Z"},
		{Location: "US", Value: 9.0, Unit: "µg/m³", UpdatedAt: "2026-01-02T00:00:00Z"},
		{Location: "DE", Value: 20.0, Unit: "µg/m³", UpdatedAt: "2026-01-01T00:00:00Z"},
	}

	countries, _ := aggregate.Aggregate(records, testDirectory())
	require.Equal(t, 2, countries.Len())

	usa := countries.Get("USA")
	require.NotNil(t, usa)
	assert.Equal(t, 7.0, usa.Average())
	assert.Equal(t, 3, usa.Count)
	assert.Equal(t, "United States", usa.Name)
	assert.Equal(t, "Americas", usa.Region)
	// Latest timestamp wins regardless of arrival order.
	assert.Equal(t, "2026-01-03T00:00:00Z", usa.UpdatedAt)

	deu := countries.Get("DEU")
	require.NotNil(t, deu)
	assert.Equal(t, 20.0, deu.Average())
	assert.Equal(t, 1, deu.Count)
}

func TestAggregate_SkipsUnresolvedAndNonFinite(t *testing.T) {
	records := []aggregate.Record{
		{Location: "US", Value: 5.0},
		{Location: "", Value: 1.0},            // empty token
		{Location: "XX", Value: 1.0},          // unknown 2-letter code
		{Location: "US", Value: math.NaN()},   // not a number
		{Location: "US", Value: math.Inf(1)},  // infinite
	}

	countries, _ := aggregate.Aggregate(records, testDirectory())
	require.Equal(t, 1, countries.Len())
	assert.Equal(t, 1, countries.Get("USA").Count)
}

func TestAggregate_UncheckedThreeLetterCode(t *testing.T) {
	records := []aggregate.Record{
		{Location: "QQQ", Value: 3.0},
	}

	countries, _ := aggregate.Aggregate(records, testDirectory())
	agg := countries.Get("QQQ")
	require.NotNil(t, agg)

	// No directory metadata: display fields degrade to the bare code.
	assert.Equal(t, "QQQ", agg.Name)
	assert.Equal(t, "Unknown region", agg.Region)
	assert.Equal(t, aggregate.LatLng{}, agg.Centroid)
}

func TestAggregate_CentroidRunningMean(t *testing.T) {
	records := []aggregate.Record{
		{Location: "US", Value: 1.0, Coords: &aggregate.LatLng{Lat: 40.0, Lng: -100.0}},
		{Location: "US", Value: 1.0, Coords: &aggregate.LatLng{Lat: 20.0, Lng: -80.0}},
		{Location: "US", Value: 1.0, Coords: &aggregate.LatLng{Lat: 10.0, Lng: -60.0}},
	}

	countries, _ := aggregate.Aggregate(records, testDirectory())
	usa := countries.Get("USA")
	require.NotNil(t, usa)

	// (40+20)/2 = 30, then (30+10)/2 = 20: the running mean halves toward
	// the newest sample rather than weighting by count.
	assert.InDelta(t, 20.0, usa.Centroid.Lat, 1e-9)
	assert.InDelta(t, -75.0, usa.Centroid.Lng, 1e-9)
}

func TestAggregate_CentroidIsOrderSensitive(t *testing.T) {
	forward := []aggregate.Record{
		{Location: "US", Value: 1.0, Coords: &aggregate.LatLng{Lat: 40.0, Lng: 0}},
		{Location: "US", Value: 1.0, Coords: &aggregate.LatLng{Lat: 20.0, Lng: 0}},
		{Location: "US", Value: 1.0, Coords: &aggregate.LatLng{Lat: 10.0, Lng: 0}},
	}
	reversed := []aggregate.Record{forward[2], forward[1], forward[0]}

	a, _ := aggregate.Aggregate(forward, testDirectory())
	b, _ := aggregate.Aggregate(reversed, testDirectory())

	// Documented drift: reordering the stream moves the centroid.
	assert.NotEqual(t, a.Get("USA").Centroid.Lat, b.Get("USA").Centroid.Lat)
}

func TestAggregate_CentroidDirectoryFallback(t *testing.T) {
	records := []aggregate.Record{
		{Location: "DE", Value: 1.0}, // no coords on the record
	}

	countries, _ := aggregate.Aggregate(records, testDirectory())
	deu := countries.Get("DEU")
	require.NotNil(t, deu)
	assert.Equal(t, 51.0, deu.Centroid.Lat)
	assert.Equal(t, 9.0, deu.Centroid.Lng)
}

func TestAggregate_PlaceBuckets(t *testing.T) {
	records := []aggregate.Record{
		{Location: "US", Value: 10.0, Place: "Denver", UpdatedAt: "2026-01-01T00:00:00Z"},
		{Location: "US", Value: 20.0, Place: "denver", UpdatedAt: "2026-01-02T00:00:00Z"},
		{Location: "US", Value: 30.0, Place: "Boston"},
		{Location: "US", Value: 40.0, Place: "   "}, // blank place, country only
		{Location: "DE", Value: 50.0, Place: "Denver"},
	}

	_, places := aggregate.Aggregate(records, testDirectory())
	require.Equal(t, 3, places.Len())

	// Case-insensitive key, first-seen casing preserved.
	denver := places.Get("USA", "DENVER")
	require.NotNil(t, denver)
	assert.Equal(t, "Denver", denver.Place)
	assert.Equal(t, 15.0, denver.Average())
	assert.Equal(t, 2, denver.Count)
	assert.Equal(t, "United States", denver.Country)
	assert.Equal(t, "2026-01-02T00:00:00Z", denver.UpdatedAt)

	// Same place name in another country is a distinct bucket.
	deDenver := places.Get("DEU", "Denver")
	require.NotNil(t, deDenver)
	assert.Equal(t, 1, deDenver.Count)
	assert.Equal(t, "Germany", deDenver.Country)
}

func TestAggregate_EmptyInput(t *testing.T) {
	countries, places := aggregate.Aggregate(nil, testDirectory())
	assert.Equal(t, 0, countries.Len())
	assert.Equal(t, 0, places.Len())
	assert.Empty(t, countries.All())
	assert.Empty(t, places.All())
}

func TestAggregate_InsertionOrderPreserved(t *testing.T) {
	records := []aggregate.Record{
		{Location: "DE", Value: 1.0},
		{Location: "US", Value: 1.0},
		{Location: "DE", Value: 2.0},
	}

	countries, _ := aggregate.Aggregate(records, testDirectory())
	all := countries.All()
	require.Len(t, all, 2)
	assert.Equal(t, "DEU", all[0].CCA3)
	assert.Equal(t, "USA", all[1].CCA3)
}

func TestAggregate_RoundingAtEmissionOnly(t *testing.T) {
	records := []aggregate.Record{
		{Location: "US", Value: 1.005},
		{Location: "US", Value: 1.005},
		{Location: "US", Value: 1.005},
	}

	countries, _ := aggregate.Aggregate(records, testDirectory())
	usa := countries.Get("USA")
	require.NotNil(t, usa)

	// Accumulated sum keeps full precision; only the emitted average rounds.
	assert.InDelta(t, 3.015, usa.Sum, 1e-12)
	assert.Equal(t, 1.0, usa.Average())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 7.0, aggregate.Round2(7.0))
	assert.Equal(t, 7.13, aggregate.Round2(7.125))
	assert.Equal(t, -3.33, aggregate.Round2(-3.3333))
}
