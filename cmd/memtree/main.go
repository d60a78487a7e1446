// Command memtree serves distance and recommendation queries over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/memtree/internal/adapters/http/api"
	"github.com/okian/memtree/internal/adapters/http/site"
	"github.com/okian/memtree/internal/adapters/http/swagger"
	"github.com/okian/memtree/internal/adapters/treefile"
	app "github.com/okian/memtree/internal/app"
	"github.com/okian/memtree/internal/config"
	"github.com/okian/memtree/pkg/logger"
	"github.com/okian/memtree/pkg/metrics"
)

// HTTP server limits.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Only the memtree_* series are exported; drop the stock collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		// The logger may not be up yet.
		_, _ = os.Stderr.WriteString("memtree: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	return serve(ctx, &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}, log)
}

// serve runs srv until ctx is done or the listener fails, then drains
// in-flight requests for up to shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, log logger.Logger) error {
	failed := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return err
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down")
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		log.Error(ctx, "shutdown incomplete", logger.Error(err))
		return err
	}
	log.Info(ctx, "stopped")
	return nil
}

// newService loads the hierarchy and starts the service.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	tree, err := treefile.LoadOrDefault(cfg.TreePath)
	if err != nil {
		return nil, err
	}
	if cfg.TreePath != "" {
		log.Info(ctx, "loaded hierarchy", logger.String("path", cfg.TreePath), logger.Int("nodes", tree.Len()))
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithTree(tree),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithDefaultMetric(cfg.Metric()),
		app.WithRecommendLimits(cfg.RecommendLimit, cfg.MaxRecommendLimit),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// newHandler builds the full route table wrapped in request-ID tagging.
func newHandler(ctx context.Context, svc *app.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc, log.Named("http"))
	apiServer.Register(ctx, mux)

	return api.RequestID(mux)
}

// startSystemMetricsUpdater samples runtime stats until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
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

// updateSystemMetrics publishes heap, goroutine and average GC pause figures.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
