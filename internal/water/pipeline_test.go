package water_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrapulse/terrapulse/internal/aggregate"
	"github.com/terrapulse/terrapulse/internal/country"
	"github.com/terrapulse/terrapulse/internal/water"
)

type stubFeed struct {
	records []aggregate.Record
	err     error
}

func (s *stubFeed) Name() string { return "stub" }

func (s *stubFeed) FetchRecords(_ context.Context) ([]aggregate.Record, error) {
	return s.records, s.err
}

type stubDirectory struct {
	dir *country.Directory
}

func (s *stubDirectory) Directory(_ context.Context) *country.Directory {
	return s.dir
}

func testCountries() *stubDirectory {
	return &stubDirectory{dir: country.NewDirectory([]country.Meta{
		{CCA3: "NLD", Name: "Netherlands", CCA2: "NL", Region: "Europe", Capital: "Amsterdam"},
		{CCA3: "ETH", Name: "Ethiopia", CCA2: "ET", Region: "Africa", Capital: "Addis Ababa"},
		{CCA3: "ATA", Name: "Antarctica", CCA2: "AQ", Region: "Antarctic"},
	})}
}

func TestPipeline_DescendingRanking(t *testing.T) {
	feed := &stubFeed{records: []aggregate.Record{
		{Location: "NLD", Value: 99.5, Unit: "% population", UpdatedAt: "2022"},
		{Location: "ETH", Value: 12.6, Unit: "% population", UpdatedAt: "2019"},
	}}

	pipeline := water.NewPipeline(water.PipelineConfig{
		Feed:      feed,
		Countries: testCountries(),
		Logger:    zerolog.Nop(),
	})

	ov := pipeline.Overview(context.Background())
	assert.Equal(t, water.LiveSource, ov.Source)

	// Higher coverage ranks best.
	require.NotEmpty(t, ov.TopBest)
	assert.Equal(t, "NLD", ov.TopBest[0].Code)
	require.NotEmpty(t, ov.TopWorst)
	assert.Equal(t, "ETH", ov.TopWorst[0].Code)
}

func TestPipeline_CapitalPlaces(t *testing.T) {
	feed := &stubFeed{records: []aggregate.Record{
		{Location: "NLD", Value: 99.5, Unit: "% population", UpdatedAt: "2022"},
		{Location: "ATA", Value: 50.0, Unit: "% population", UpdatedAt: "2022"},
		{Location: "ETH", Value: 12.6, Unit: "% population", UpdatedAt: "2019", Place: "Dire Dawa"},
	}}

	pipeline := water.NewPipeline(water.PipelineConfig{
		Feed:      feed,
		Countries: testCountries(),
		Logger:    zerolog.Nop(),
	})

	ov := pipeline.Overview(context.Background())
	require.Len(t, ov.PlaceBest, 3)

	byPlace := make(map[string]string, len(ov.PlaceBest))
	for _, p := range ov.PlaceBest {
		byPlace[p.Country] = p.Place
	}

	// Capitals stand in for place names; a directory entry without a capital
	// degrades to a synthesized label, and records with a place keep it.
	assert.Equal(t, "Amsterdam", byPlace["Netherlands"])
	assert.Equal(t, "Antarctica Capital", byPlace["Antarctica"])
	assert.Equal(t, "Dire Dawa", byPlace["Ethiopia"])
}

func TestPipeline_FallbackDataset(t *testing.T) {
	feed := &stubFeed{err: errors.New("connection refused")}

	pipeline := water.NewPipeline(water.PipelineConfig{
		Feed:      feed,
		Countries: testCountries(),
		Logger:    zerolog.Nop(),
	})

	ov := pipeline.Overview(context.Background())
	assert.Equal(t, water.FallbackSource, ov.Source)
	require.Len(t, ov.Stats, 6)

	// Singapore's full coverage tops the board, Ethiopia sits at the bottom.
	assert.Equal(t, "SGP", ov.TopBest[0].Code)
	assert.Equal(t, "ETH", ov.TopWorst[0].Code)
}

func TestFallbackRecords(t *testing.T) {
	records := water.FallbackRecords(time.Now())
	require.Len(t, records, 6)

	for _, rec := range records {
		assert.NotEmpty(t, rec.Location)
		assert.Greater(t, rec.Value, 0.0)
		assert.Equal(t, "% population", rec.Unit)
		assert.NotEmpty(t, rec.Place)
		// Survey values keep their original year.
		assert.Len(t, rec.UpdatedAt, 4)
	}
}
