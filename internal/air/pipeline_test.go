package air_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrapulse/terrapulse/internal/aggregate"
	"github.com/terrapulse/terrapulse/internal/air"
	"github.com/terrapulse/terrapulse/internal/country"
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

func TestPipeline_AscendingRanking(t *testing.T) {
	feed := &stubFeed{records: []aggregate.Record{
		{Location: "FI", Value: 4.5, Unit: "µg/m³", Place: "Helsinki"},
		{Location: "IN", Value: 62.0, Unit: "µg/m³", Place: "Delhi"},
	}}
	countries := &stubDirectory{dir: country.NewDirectory([]country.Meta{
		{CCA3: "FIN", Name: "Finland", CCA2: "FI", Region: "Europe"},
		{CCA3: "IND", Name: "India", CCA2: "IN", Region: "Asia"},
	})}

	pipeline := air.NewPipeline(air.PipelineConfig{
		Feed:      feed,
		Countries: countries,
		Logger:    zerolog.Nop(),
	})

	ov := pipeline.Overview(context.Background())
	assert.Equal(t, air.LiveSource, ov.Source)

	// Lower PM2.5 ranks best.
	require.NotEmpty(t, ov.TopBest)
	assert.Equal(t, "FIN", ov.TopBest[0].Code)
	require.NotEmpty(t, ov.TopWorst)
	assert.Equal(t, "IND", ov.TopWorst[0].Code)
}

func TestPipeline_FallbackDataset(t *testing.T) {
	feed := &stubFeed{err: errors.New("connection refused")}
	countries := &stubDirectory{dir: country.FallbackDirectory()}

	pipeline := air.NewPipeline(air.PipelineConfig{
		Feed:      feed,
		Countries: countries,
		Logger:    zerolog.Nop(),
	})

	ov := pipeline.Overview(context.Background())
	assert.Equal(t, air.FallbackSource, ov.Source)
	require.Len(t, ov.Stats, 16)

	// All 16 fit under the default leaderboard length, ordered by value.
	require.Len(t, ov.TopBest, 15)
	assert.Equal(t, "FIN", ov.TopBest[0].Code)
	assert.Equal(t, "IND", ov.TopWorst[0].Code)
}

func TestFallbackRecords(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := air.FallbackRecords(now)
	require.Len(t, records, 16)

	for _, rec := range records {
		assert.Len(t, rec.Location, 3)
		assert.Greater(t, rec.Value, 0.0)
		assert.Equal(t, "µg/m³", rec.Unit)
		assert.Equal(t, "2026-03-01T12:00:00Z", rec.UpdatedAt)
		assert.NotEmpty(t, rec.Place)
		require.NotNil(t, rec.Coords)
	}
}
