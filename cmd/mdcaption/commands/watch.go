package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/logfields"
	"git.home.luguber.info/inful/mdcaption/internal/metrics"
	"git.home.luguber.info/inful/mdcaption/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Dir           string        `arg:"" help:"Directory to watch" type:"existingdir"`
	Output        string        `short:"o" help:"Output directory (default: next to each source)"`
	MetricsListen string        `name:"metrics-listen" help:"Serve Prometheus metrics on this address (overrides metrics.listen)"`
	Debounce      time.Duration `help:"Quiet period before a batch of changes is rendered" default:"300ms"`
}

func (w *WatchCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, logger, err := root.loadConfig(g)
	if err != nil {
		return err
	}

	var rec metrics.Recorder = metrics.NoopRecorder{}
	listen := cfg.Metrics.Listen
	if w.MetricsListen != "" {
		listen = w.MetricsListen
	}
	if cfg.Metrics.Enabled || w.MetricsListen != "" {
		reg := prometheus.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		stop, err := serveMetrics(ctx, listen, reg, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	p, err := newPipeline(cfg, logger, rec)
	if err != nil {
		return err
	}
	watcher, err := watch.New(w.Dir, watch.WithDebounce(w.Debounce), watch.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	rn := &renderer{
		pipeline:     p,
		recorder:     rec,
		logger:       logger,
		outDir:       w.Output,
		extension:    cfg.Output.Extension,
		fingerprints: make(map[string]string),
	}
	sources, err := collectSources([]string{watcher.Root()})
	if err != nil {
		return err
	}
	paths := make([]string, len(sources))
	for i, s := range sources {
		paths[i] = s.Path
	}
	rn.batch(ctx, watcher.Root(), paths)

	logger.Info("Watching for changes", logfields.Path(watcher.Root()))
	err = watcher.Run(ctx, func(ctx context.Context, paths []string) {
		rn.batch(ctx, watcher.Root(), paths)
	})
	if stderrors.Is(err, context.Canceled) {
		logger.Info("Watch stopped")
		return nil
	}
	return err
}

// batch renders one set of changed paths under root. Removed files have
// their output deleted.
func (r *renderer) batch(ctx context.Context, root string, paths []string) {
	logger := r.logger.With(logfields.RunID(uuid.NewString()))
	written := 0
	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		src := source{Path: path, Rel: rel}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			r.forget(logger, src)
			continue
		}
		ok, err := r.write(ctx, logger, src)
		if err != nil {
			logger.Error("Failed to render document", logfields.Document(rel), logfields.Error(err))
			continue
		}
		if ok {
			written++
		}
	}
	logger.Debug("Batch complete", logfields.Count(len(paths)), slog.Int("written", written))
}

// serveMetrics starts the metrics endpoint and returns its shutdown func.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case err := <-errCh:
		return nil, errors.RuntimeError("failed to start metrics server").WithCause(err).
			WithContext("addr", addr).
			Build()
	case <-time.After(100 * time.Millisecond):
	}
	logger.Info("Serving metrics", logfields.Addr(addr))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown error", logfields.Error(err))
		}
	}, nil
}
