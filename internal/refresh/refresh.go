// Package refresh keeps upstream-backed snapshots warm. A periodic pass
// recomputes every registered target so the first request after startup or a
// cache expiry never pays upstream latency, and circuit breakers observe
// upstream health even during quiet traffic.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Target is one snapshot to keep warm.
type Target struct {
	// Name identifies the target in logs.
	Name string

	// Warm recomputes the snapshot.
	Warm func(ctx context.Context) error
}

// WarmerConfig holds configuration for the warmer.
type WarmerConfig struct {
	// Targets are the snapshots to keep warm.
	Targets []Target

	// Interval between passes (default: 10m).
	Interval time.Duration

	// Timeout per target (default: 30s).
	Timeout time.Duration

	// Concurrency is the number of targets warmed in parallel (default: 2).
	Concurrency int

	// Logger for warmer operations.
	Logger zerolog.Logger

	// Clock drives the pass schedule; defaults to the real clock.
	Clock clockwork.Clock
}

// Warmer runs periodic warm passes over its targets.
type Warmer struct {
	targets     []Target
	interval    time.Duration
	timeout     time.Duration
	concurrency int
	logger      zerolog.Logger
	clock       clockwork.Clock
}

// NewWarmer creates a new snapshot warmer.
func NewWarmer(cfg WarmerConfig) *Warmer {
	interval := cfg.Interval
	if interval == 0 {
		interval = 10 * time.Minute
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	concurrency := cfg.Concurrency
	if concurrency == 0 {
		concurrency = 2
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Warmer{
		targets:     cfg.Targets,
		interval:    interval,
		timeout:     timeout,
		concurrency: concurrency,
		logger:      cfg.Logger,
		clock:       clock,
	}
}

// Result summarizes one warm pass.
type Result struct {
	Duration   time.Duration
	Successful int
	Failed     int
	Errors     []TargetError
}

// TargetError records one target's failure during a pass.
type TargetError struct {
	Target string
	Error  string
}

type targetResult struct {
	name string
	err  error
}

// Run executes a single warm pass over all targets and returns its summary.
func (w *Warmer) Run(ctx context.Context) *Result {
	start := w.clock.Now()

	targetsCh := make(chan Target, len(w.targets))
	resultsCh := make(chan targetResult, len(w.targets))

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.worker(ctx, targetsCh, resultsCh)
		}()
	}

	for _, t := range w.targets {
		targetsCh <- t
	}
	close(targetsCh)

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	result := &Result{}
	for tr := range resultsCh {
		if tr.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, TargetError{
				Target: tr.name,
				Error:  tr.err.Error(),
			})
			continue
		}
		result.Successful++
	}
	result.Duration = w.clock.Since(start)

	w.logger.Info().
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("warm pass completed")

	return result
}

func (w *Warmer) worker(ctx context.Context, targets <-chan Target, results chan<- targetResult) {
	for t := range targets {
		select {
		case <-ctx.Done():
			return
		default:
		}

		targetCtx, cancel := context.WithTimeout(ctx, w.timeout)
		err := t.Warm(targetCtx)
		cancel()

		if err != nil {
			w.logger.Warn().
				Err(err).
				Str("target", t.Name).
				Msg("warm target failed")
		}
		results <- targetResult{name: t.Name, err: err}
	}
}

// Start runs an immediate pass and then one per interval until the context
// is cancelled. It blocks; callers run it in a goroutine.
func (w *Warmer) Start(ctx context.Context) {
	w.logger.Info().
		Dur("interval", w.interval).
		Int("targets", len(w.targets)).
		Msg("snapshot warmer started")

	w.Run(ctx)

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("snapshot warmer stopped")
			return
		case <-ticker.Chan():
			w.Run(ctx)
		}
	}
}
