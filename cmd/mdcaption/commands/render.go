package commands

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/logfields"
	"git.home.luguber.info/inful/mdcaption/internal/metrics"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Paths  []string `arg:"" optional:"" help:"Markdown files or directories (default: current directory)"`
	Output string   `short:"o" help:"Output directory (default: next to each source)"`
	Stdout bool     `help:"Write HTML to standard output instead of files"`
	Jobs   int      `short:"j" help:"Number of documents rendered concurrently" default:"4"`
}

func (r *RenderCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, logger, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	paths := r.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	sources, err := collectSources(paths)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger = logger.With(logfields.RunID(runID))
	rec := metrics.NoopRecorder{}
	p, err := newPipeline(cfg, logger, rec)
	if err != nil {
		return err
	}
	rn := &renderer{
		pipeline:  p,
		recorder:  rec,
		logger:    logger,
		outDir:    r.Output,
		extension: cfg.Output.Extension,
	}

	logger.Info("Starting render", logfields.Count(len(sources)))

	// Standard output keeps input order; files are independent.
	pages := make([]string, len(sources))
	var failed atomic.Int32
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, r.Jobs))
	for i, src := range sources {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var err error
			if r.Stdout {
				res, cerr := rn.convert(gctx, logger, src)
				if cerr == nil {
					pages[i] = res.HTML
				}
				err = cerr
			} else {
				_, err = rn.write(gctx, logger, src)
			}
			if err != nil {
				failed.Add(1)
				logger.Error("Failed to render document",
					logfields.Document(src.Rel),
					logfields.Error(err))
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if r.Stdout {
		out := g.stdout()
		first := true
		for _, page := range pages {
			if page == "" {
				continue
			}
			if !first {
				fmt.Fprintln(out)
			}
			first = false
			fmt.Fprintln(out, page)
		}
	}

	if n := failed.Load(); n > 0 {
		return errors.RenderError(fmt.Sprintf("%d of %d documents failed", n, len(sources))).
			WithContext("run_id", runID).
			Build()
	}
	logger.Info("Render complete", logfields.Count(len(sources)))
	return nil
}
