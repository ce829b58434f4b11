package overview

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/terrapulse/terrapulse/internal/aggregate"
	"github.com/terrapulse/terrapulse/internal/country"
	"github.com/terrapulse/terrapulse/internal/rank"
)

// FeedProvider fetches one domain's raw measurement records.
type FeedProvider interface {
	// Name identifies the upstream source for logging.
	Name() string

	// FetchRecords returns the current batch of raw records.
	FetchRecords(ctx context.Context) ([]aggregate.Record, error)
}

// DirectoryProvider supplies the country directory snapshot. It never fails;
// degraded sources return the embedded fallback directory.
type DirectoryProvider interface {
	Directory(ctx context.Context) *country.Directory
}

// Enricher optionally rewrites a record before aggregation, with the
// directory available for lookups. The water pipeline uses it to attach
// capital cities as place names; feeds that carry their own places leave
// it nil.
type Enricher func(rec *aggregate.Record, dir *country.Directory)

// PipelineConfig holds configuration for one domain's overview pipeline.
type PipelineConfig struct {
	// Domain is a short label ("air", "water") used in logs and metrics.
	Domain string

	// Feed is the live measurement source.
	Feed FeedProvider

	// Countries supplies directory snapshots.
	Countries DirectoryProvider

	// Direction fixes whether lower or higher values rank best.
	Direction rank.Direction

	// TopN is the leaderboard length (default: rank.DefaultN).
	TopN int

	// LiveSource and FallbackSource are the provenance labels.
	LiveSource     string
	FallbackSource string

	// Fallback builds the embedded dataset, stamped with the current time.
	Fallback func(now time.Time) []aggregate.Record

	// Enrich optionally rewrites records before aggregation.
	Enrich Enricher

	// Logger for pipeline operations.
	Logger zerolog.Logger

	// Metrics instruments, optional.
	Metrics *Metrics

	// Clock is used to stamp fallback data; defaults to the real clock.
	Clock clockwork.Clock
}

// Pipeline orchestrates fetch, normalization, aggregation, ranking, and
// composition for one metric domain. Its Overview method never fails: any
// upstream failure routes the embedded fallback dataset through the exact
// same aggregation and ranking path, so consumers see an identical shape
// and learn about degradation only from the Source label.
type Pipeline struct {
	domain         string
	feed           FeedProvider
	countries      DirectoryProvider
	direction      rank.Direction
	topN           int
	liveSource     string
	fallbackSource string
	fallback       func(now time.Time) []aggregate.Record
	enrich         Enricher
	logger         zerolog.Logger
	metrics        *Metrics
	clock          clockwork.Clock
}

// NewPipeline creates a pipeline for one metric domain.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	topN := cfg.TopN
	if topN == 0 {
		topN = rank.DefaultN
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Pipeline{
		domain:         cfg.Domain,
		feed:           cfg.Feed,
		countries:      cfg.Countries,
		direction:      cfg.Direction,
		topN:           topN,
		liveSource:     cfg.LiveSource,
		fallbackSource: cfg.FallbackSource,
		fallback:       cfg.Fallback,
		enrich:         cfg.Enrich,
		logger:         cfg.Logger,
		metrics:        cfg.Metrics,
		clock:          clock,
	}
}

type feedResult struct {
	records []aggregate.Record
	err     error
}

// Overview runs one complete pass and always returns a structurally valid
// Overview. The directory and feed fetches run concurrently; each call
// re-attempts the live feed regardless of earlier failures.
func (p *Pipeline) Overview(ctx context.Context) *Overview {
	start := time.Now()

	dirCh := make(chan *country.Directory, 1)
	feedCh := make(chan feedResult, 1)

	go func() {
		dirCh <- p.countries.Directory(ctx)
	}()
	go func() {
		records, err := p.feed.FetchRecords(ctx)
		feedCh <- feedResult{records: records, err: err}
	}()

	dir := <-dirCh
	feed := <-feedCh

	origin := OriginLive
	records := feed.records
	if feed.err != nil {
		origin = OriginFallback
		records = p.fallback(p.clock.Now())
		p.logger.Warn().
			Err(feed.err).
			Str("domain", p.domain).
			Str("feed", p.feed.Name()).
			Msg("feed fetch failed, serving embedded fallback dataset")
	}

	ov := p.compose(records, dir, origin)

	if p.metrics != nil {
		p.metrics.Passes.WithLabelValues(p.domain, origin.String()).Inc()
		p.metrics.FeedRecords.WithLabelValues(p.domain).Add(float64(len(records)))
		p.metrics.PassDuration.WithLabelValues(p.domain).Observe(time.Since(start).Seconds())
	}

	p.logger.Info().
		Str("domain", p.domain).
		Str("origin", origin.String()).
		Int("records", len(records)).
		Int("countries", len(ov.Stats)).
		Dur("duration", time.Since(start)).
		Msg("overview pass completed")

	return ov
}

// compose is the single aggregation-to-overview path shared by the live and
// fallback branches.
func (p *Pipeline) compose(records []aggregate.Record, dir *country.Directory, origin Origin) *Overview {
	if p.enrich != nil {
		for i := range records {
			p.enrich(&records[i], dir)
		}
	}

	countries, places := aggregate.Aggregate(records, dir)

	stats := make([]Stat, 0, countries.Len())
	for _, agg := range countries.All() {
		stats = append(stats, NewStat(agg))
	}

	placeStats := make([]PlaceStat, 0, places.Len())
	for _, agg := range places.All() {
		placeStats = append(placeStats, NewPlaceStat(agg))
	}

	statValue := func(s Stat) float64 { return s.Value }
	placeValue := func(s PlaceStat) float64 { return s.Value }

	valid := rank.Valid(stats, statValue)
	topBest, topWorst := rank.Top(valid, statValue, p.direction, p.topN)
	placeBest, placeWorst := rank.Top(rank.Valid(placeStats, placeValue), placeValue, p.direction, p.topN)

	source := p.liveSource
	if origin == OriginFallback {
		source = p.fallbackSource
	}

	return Compose(valid, topBest, topWorst, placeBest, placeWorst, source)
}
