// Package air wires the PM2.5 overview pipeline: OpenAQ feed, embedded
// fallback, and ascending-is-better ranking.
package air

import (
	"github.com/rs/zerolog"

	"github.com/terrapulse/terrapulse/internal/overview"
	"github.com/terrapulse/terrapulse/internal/rank"
)

// Domain is the metric domain label.
const Domain = "air"

// Provenance labels for the Overview Source field.
const (
	LiveSource     = "OpenAQ latest PM2.5 readings (µg/m³)"
	FallbackSource = "Static OpenAQ sample (offline mode: µg/m³)"
)

// PipelineConfig holds the domain-independent collaborators.
type PipelineConfig struct {
	Feed      overview.FeedProvider
	Countries overview.DirectoryProvider
	Logger    zerolog.Logger
	Metrics   *overview.Metrics
}

// NewPipeline creates the air quality overview pipeline. Lower PM2.5 is
// better, so rankings sort ascending-best.
func NewPipeline(cfg PipelineConfig) *overview.Pipeline {
	return overview.NewPipeline(overview.PipelineConfig{
		Domain:         Domain,
		Feed:           cfg.Feed,
		Countries:      cfg.Countries,
		Direction:      rank.AscendingBest,
		LiveSource:     LiveSource,
		FallbackSource: FallbackSource,
		Fallback:       FallbackRecords,
		Logger:         cfg.Logger,
		Metrics:        cfg.Metrics,
	})
}
