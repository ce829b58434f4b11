// Package water wires the drinking-water coverage overview pipeline:
// World Bank survey feed, embedded fallback, descending-is-better ranking.
package water

import (
	"github.com/rs/zerolog"

	"github.com/terrapulse/terrapulse/internal/aggregate"
	"github.com/terrapulse/terrapulse/internal/country"
	"github.com/terrapulse/terrapulse/internal/overview"
	"github.com/terrapulse/terrapulse/internal/rank"
)

// Domain is the metric domain label.
const Domain = "water"

// Provenance labels for the Overview Source field.
const (
	LiveSource     = "World Bank indicator SH.H2O.SMDW.ZS (% population with safely managed drinking water)"
	FallbackSource = "Static World Bank sample (offline mode: % safely managed drinking water)"
)

// PipelineConfig holds the domain-independent collaborators.
type PipelineConfig struct {
	Feed      overview.FeedProvider
	Countries overview.DirectoryProvider
	Logger    zerolog.Logger
	Metrics   *overview.Metrics
}

// NewPipeline creates the water coverage overview pipeline. Higher coverage
// is better, so rankings sort descending-best.
func NewPipeline(cfg PipelineConfig) *overview.Pipeline {
	return overview.NewPipeline(overview.PipelineConfig{
		Domain:         Domain,
		Feed:           cfg.Feed,
		Countries:      cfg.Countries,
		Direction:      rank.DescendingBest,
		LiveSource:     LiveSource,
		FallbackSource: FallbackSource,
		Fallback:       FallbackRecords,
		Enrich:         capitalPlaces,
		Logger:         cfg.Logger,
		Metrics:        cfg.Metrics,
	})
}

// capitalPlaces attaches a country's capital as the record's place name so
// the survey feed, which carries no sub-national rows, still produces
// place-level rankings. Records that already carry a place keep it.
func capitalPlaces(rec *aggregate.Record, dir *country.Directory) {
	if rec.Place != "" {
		return
	}

	cca3, ok := dir.ResolveISO3(rec.Location)
	if !ok {
		return
	}

	if meta, found := dir.Lookup(cca3); found {
		if meta.Capital != "" {
			rec.Place = meta.Capital
			return
		}
		rec.Place = meta.Name + " Capital"
		return
	}
	rec.Place = cca3 + " Capital"
}
