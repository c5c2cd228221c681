package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/talklens/talklens/internal/adapters/http/api"
	"github.com/talklens/talklens/internal/adapters/http/site"
	"github.com/talklens/talklens/internal/adapters/http/swagger"
	"github.com/talklens/talklens/internal/adapters/rubricfile"
	"github.com/talklens/talklens/internal/adapters/samples"
	app "github.com/talklens/talklens/internal/app"
	"github.com/talklens/talklens/internal/config"
	"github.com/talklens/talklens/internal/domain/embedding"
	"github.com/talklens/talklens/pkg/logger"
	"github.com/talklens/talklens/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	// We collect our own custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Load the rubric and sample fixtures
	rub, err := rubricfile.Load(cfg.RubricPath)
	if err != nil {
		os.Stderr.WriteString("failed to load rubric: " + err.Error() + "\n")
		return
	}
	sampleStore, err := samples.Load(cfg.SamplesPath)
	if err != nil {
		os.Stderr.WriteString("failed to load samples: " + err.Error() + "\n")
		return
	}

	provider := buildProvider(cfg)

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithRubric(rub),
		app.WithSamples(sampleStore),
		app.WithProvider(provider),
		app.WithTranscriptBounds(cfg.MinTranscriptWords, cfg.MaxTranscriptWords),
		app.WithLengthPenalty(cfg.LengthPenalty),
		app.WithPhraseBonus(cfg.PhraseBonus),
		app.WithParallelism(cfg.Parallelism),
		app.WithDegradedFallback(cfg.DegradedFallback),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Embedded web UI at /, API docs under /api-docs.
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildProvider constructs the configured embedding backend wrapped in a
// bounded cache.
func buildProvider(cfg *config.Config) embedding.Provider {
	var base embedding.Provider
	switch cfg.EmbedProvider {
	case config.ProviderHTTP:
		base = embedding.NewHTTPProvider(cfg.EmbedEndpoint,
			embedding.WithModel(cfg.EmbedModel),
			embedding.WithTimeout(time.Duration(cfg.EmbedTimeoutMS)*time.Millisecond),
		)
	default:
		base = embedding.NewHashProvider(embedding.WithDimension(cfg.EmbedDimension))
	}
	return embedding.NewCachingProvider(base, embedding.WithMaxEntries(cfg.EmbedCacheSize))
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
