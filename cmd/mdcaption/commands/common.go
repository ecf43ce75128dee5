// Package commands implements the mdcaption command line.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdcaption/internal/attrlist"
	"git.home.luguber.info/inful/mdcaption/internal/caption"
	"git.home.luguber.info/inful/mdcaption/internal/config"
	"git.home.luguber.info/inful/mdcaption/internal/logfields"
	"git.home.luguber.info/inful/mdcaption/internal/metrics"
	"git.home.luguber.info/inful/mdcaption/internal/pipeline"
	"git.home.luguber.info/inful/mdcaption/internal/postprocess"
)

// Global carries the process streams into subcommands.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"mdcaption.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render RenderCmd `cmd:"" help:"Render Markdown files to HTML with numbered captions"`
	Watch  WatchCmd  `cmd:"" help:"Re-render a directory whenever its Markdown files change"`
	Init   InitCmd   `cmd:"" help:"Write a configuration file with all defaults"`
}

// AfterApply runs after flag parsing; it installs a logger usable before
// the configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig loads the configuration named by the global flags and
// installs the logger it describes. The default path may be missing.
func (c *CLI) loadConfig(g *Global) (*config.Config, *slog.Logger, error) {
	explicit := c.Config != "" && c.Config != config.DefaultPath
	path := c.Config
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.Logging.NewLogger(g.stderr(), c.Verbose)
	slog.SetDefault(logger)
	for _, f := range cfg.EnvFiles {
		logger.Debug("Loaded environment file", logfields.Path(f))
	}
	return cfg, logger, nil
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) stderr() io.Writer {
	if g == nil || g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

// newPipeline assembles the conversion pipeline described by cfg. The
// recorder doubles as the caption observer.
func newPipeline(cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) (*pipeline.Pipeline, error) {
	p := pipeline.New(
		pipeline.WithMarkdown(cfg.Markdown.Options),
		pipeline.WithLogger(logger),
		pipeline.WithRecorder(rec),
	)

	captions, err := caption.NewExtension(cfg.Captions,
		caption.WithLogger(logger),
		caption.WithObserver(rec))
	if err != nil {
		return nil, err
	}

	exts := []pipeline.Extender{captions}
	if cfg.Markdown.AttrList {
		exts = append(exts, attrlist.Extension{})
	}
	if cfg.Output.Sanitize {
		exts = append(exts, postprocess.NewSanitizer())
	}
	if cfg.Output.Minify {
		exts = append(exts, postprocess.NewMinifier())
	}
	if err := p.Use(exts...); err != nil {
		return nil, err
	}
	return p, nil
}
