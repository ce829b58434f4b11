// Package main provides the entrypoint for the TerraPulse API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/terrapulse/terrapulse/internal/air"
	"github.com/terrapulse/terrapulse/internal/air/openaq"
	"github.com/terrapulse/terrapulse/internal/api"
	"github.com/terrapulse/terrapulse/internal/api/handler"
	"github.com/terrapulse/terrapulse/internal/api/middleware"
	"github.com/terrapulse/terrapulse/internal/country"
	"github.com/terrapulse/terrapulse/internal/country/restcountries"
	"github.com/terrapulse/terrapulse/internal/overview"
	"github.com/terrapulse/terrapulse/internal/provider/resilience"
	"github.com/terrapulse/terrapulse/internal/refresh"
	"github.com/terrapulse/terrapulse/internal/telemetry"
	"github.com/terrapulse/terrapulse/internal/water"
	"github.com/terrapulse/terrapulse/internal/water/worldbank"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "terrapulse-api"

	// Optional local .env; real deployments set the environment directly.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting TerraPulse API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        os.Getenv("OTEL_ENABLED") == "true",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize HTTP metrics")
	}

	pipelineMetrics := overview.NewMetrics()

	// Resilient HTTP clients are built here so their circuit breakers can
	// feed the ops status endpoint.
	countryHTTP := resilience.NewClient(resilience.ClientConfig{Name: restcountries.ProviderName})
	airHTTP := resilience.NewClient(resilience.ClientConfig{Name: openaq.ProviderName})
	waterHTTP := resilience.NewClient(resilience.ClientConfig{Name: worldbank.ProviderName})

	// Country directory with process-lifetime cache.
	countryClient := restcountries.NewClient(restcountries.ClientConfig{
		BaseURL:    os.Getenv("RESTCOUNTRIES_BASE_URL"),
		HTTPClient: countryHTTP,
	})
	countryService := country.NewService(country.ServiceConfig{
		Provider: countryClient,
		Logger:   log.With().Str("component", "country").Logger(),
	})
	log.Info().Msg("country directory service initialized")

	// Domain pipelines.
	airClient := openaq.NewClient(openaq.ClientConfig{
		BaseURL:    os.Getenv("OPENAQ_BASE_URL"),
		HTTPClient: airHTTP,
	})
	airPipeline := air.NewPipeline(air.PipelineConfig{
		Feed:      airClient,
		Countries: countryService,
		Logger:    log.With().Str("component", "air").Logger(),
		Metrics:   pipelineMetrics,
	})

	waterClient := worldbank.NewClient(worldbank.ClientConfig{
		BaseURL:    os.Getenv("WORLDBANK_BASE_URL"),
		HTTPClient: waterHTTP,
	})
	waterPipeline := water.NewPipeline(water.PipelineConfig{
		Feed:      waterClient,
		Countries: countryService,
		Logger:    log.With().Str("component", "water").Logger(),
		Metrics:   pipelineMetrics,
	})
	log.Info().Msg("overview pipelines initialized")

	// Background warmer keeps snapshots fresh so requests after a quiet
	// period don't pay upstream latency.
	warmerCtx, stopWarmer := context.WithCancel(ctx)
	defer stopWarmer()
	warmer := refresh.NewWarmer(refresh.WarmerConfig{
		Targets: []refresh.Target{
			{Name: "countries", Warm: func(ctx context.Context) error {
				countryService.Directory(ctx)
				return nil
			}},
			{Name: air.Domain, Warm: func(ctx context.Context) error {
				airPipeline.Overview(ctx)
				return nil
			}},
			{Name: water.Domain, Warm: func(ctx context.Context) error {
				waterPipeline.Overview(ctx)
				return nil
			}},
		},
		Interval: refreshInterval(log),
		Logger:   log.With().Str("component", "refresh").Logger(),
	})
	go warmer.Start(warmerCtx)

	router := api.NewRouter(api.RouterConfig{
		Version:   Version,
		BuildTime: BuildTime,
		Logger:    log,
		Metrics:   httpMetrics,
		Air:       airPipeline,
		Water:     waterPipeline,
		Countries: countryService,
		Feeds: map[string]handler.CircuitReporter{
			restcountries.ProviderName: countryHTTP,
			openaq.ProviderName:        airHTTP,
			worldbank.ProviderName:     waterHTTP,
		},
	})

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in background; wait for shutdown signal.
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}

	log.Info().Msg("TerraPulse API stopped")
}

// refreshInterval reads REFRESH_INTERVAL, falling back to the warmer default.
func refreshInterval(log zerolog.Logger) time.Duration {
	raw := os.Getenv("REFRESH_INTERVAL")
	if raw == "" {
		return 0
	}

	interval, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("value", raw).Msg("invalid REFRESH_INTERVAL, using default")
		return 0
	}
	return interval
}
