package country

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Provider fetches the country reference table from an upstream source.
type Provider interface {
	// FetchCountries returns the reference entries in upstream order.
	FetchCountries(ctx context.Context) ([]Meta, error)
}

// ServiceConfig holds configuration for the directory service.
type ServiceConfig struct {
	// Provider is the reference data source.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// RefreshInterval is how long a fetched directory stays current
	// (default: 24 hours). A failed fetch is not cached; the next call
	// re-attempts the provider.
	RefreshInterval time.Duration

	// Clock is used for cache expiry; defaults to the real clock.
	Clock clockwork.Clock
}

// Service serves immutable directory snapshots with a process-lifetime cache.
// The snapshot is replaced wholesale on refresh, never mutated, so readers
// never need locks on the Directory itself.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	refreshInterval time.Duration
	clock           clockwork.Clock

	mu        sync.Mutex
	snapshot  *Directory
	expiresAt time.Time
}

// NewService creates a new directory service.
func NewService(cfg ServiceConfig) *Service {
	refreshInterval := cfg.RefreshInterval
	if refreshInterval == 0 {
		refreshInterval = 24 * time.Hour
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		refreshInterval: refreshInterval,
		clock:           clock,
	}
}

// Directory returns the current directory snapshot. It never fails: when the
// provider is unreachable or returns a malformed payload, the embedded
// fallback directory is returned instead and the degradation is logged.
// Successful fetches are cached until the refresh interval elapses.
func (s *Service) Directory(ctx context.Context) *Directory {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil && s.clock.Now().Before(s.expiresAt) {
		return s.snapshot
	}

	entries, err := s.provider.FetchCountries(ctx)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("country reference fetch failed, serving embedded fallback directory")

		// Keep a stale snapshot over the fallback if we ever had a good one.
		if s.snapshot != nil {
			return s.snapshot
		}
		return FallbackDirectory()
	}

	snapshot := NewDirectory(entries)
	if snapshot.Len() == 0 {
		s.logger.Warn().Msg("country reference feed returned no usable entries, serving embedded fallback directory")
		if s.snapshot != nil {
			return s.snapshot
		}
		return FallbackDirectory()
	}

	s.snapshot = snapshot
	s.expiresAt = s.clock.Now().Add(s.refreshInterval)

	s.logger.Info().
		Int("countries", snapshot.Len()).
		Time("expires_at", s.expiresAt).
		Msg("country directory refreshed")

	return snapshot
}
