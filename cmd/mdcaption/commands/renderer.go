package commands

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"git.home.luguber.info/inful/mdcaption/internal/caption"
	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/frontmatter"
	"git.home.luguber.info/inful/mdcaption/internal/logfields"
	"git.home.luguber.info/inful/mdcaption/internal/metrics"
	"git.home.luguber.info/inful/mdcaption/internal/pipeline"
	"git.home.luguber.info/inful/mdcaption/internal/watch"
)

// source is one Markdown file and its path relative to the directory it
// was found in.
type source struct {
	Path string
	Rel  string
}

// collectSources expands files and directories into Markdown sources.
// Hidden and editor temp files inside directories are skipped; files named
// explicitly are taken as they are.
func collectSources(paths []string) ([]source, error) {
	var out []source
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot read input").
				WithContext("path", p).
				Build()
		}
		if !fi.IsDir() {
			out = append(out, source{Path: p, Rel: filepath.Base(p)})
			continue
		}
		root := p
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && watch.ShouldIgnore(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !watch.IsMarkdown(path) {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			out = append(out, source{Path: path, Rel: rel})
			return nil
		})
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk input directory").
				WithContext("path", root).
				Build()
		}
	}
	return out, nil
}

// renderer converts sources and writes the results.
type renderer struct {
	pipeline  *pipeline.Pipeline
	recorder  metrics.Recorder
	logger    *slog.Logger
	outDir    string
	extension string

	// fingerprints is set in watch mode; unchanged sources are skipped.
	mu           sync.Mutex
	fingerprints map[string]string
}

// outputPath returns where the HTML for src goes. Without an output
// directory it lands next to the source.
func (r *renderer) outputPath(src source) string {
	if r.outDir == "" {
		return strings.TrimSuffix(src.Path, filepath.Ext(src.Path)) + r.extension
	}
	rel := strings.TrimSuffix(src.Rel, filepath.Ext(src.Rel)) + r.extension
	return filepath.Join(r.outDir, rel)
}

// convert renders src. It returns a nil result when watch mode found the
// source unchanged since the last render.
func (r *renderer) convert(ctx context.Context, logger *slog.Logger, src source) (*pipeline.Result, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", src.Path).
			Build()
	}

	if r.fingerprints != nil {
		if parts, err := frontmatter.Split(data); err == nil {
			fp := pipeline.Fingerprint(parts)
			r.mu.Lock()
			unchanged := r.fingerprints[src.Path] == fp
			r.mu.Unlock()
			if unchanged {
				r.recorder.IncDocumentOutcome(metrics.OutcomeUnchanged)
				logger.Debug("Document unchanged", logfields.Document(src.Rel))
				return nil, nil
			}
		}
	}

	res, err := r.pipeline.Convert(ctx, src.Rel, data)
	if err != nil {
		return nil, err
	}
	if r.fingerprints != nil {
		r.mu.Lock()
		r.fingerprints[src.Path] = res.Fingerprint
		r.mu.Unlock()
	}
	return res, nil
}

// write renders src into its output file and reports whether a file was
// written. Log lines go to logger, which carries the run id.
func (r *renderer) write(ctx context.Context, logger *slog.Logger, src source) (bool, error) {
	res, err := r.convert(ctx, logger, src)
	if err != nil || res == nil {
		return false, err
	}
	dst := r.outputPath(src)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(dst)).
			Build()
	}
	if err := os.WriteFile(dst, []byte(res.HTML+"\n"), 0o644); err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithContext("path", dst).
			Build()
	}
	logger.Info("Rendered document",
		logfields.Document(src.Rel),
		logfields.Path(dst),
		slog.Int("captions", captionCount(res)))
	return true, nil
}

// forget drops the output and fingerprint of a removed source.
func (r *renderer) forget(logger *slog.Logger, src source) {
	r.mu.Lock()
	delete(r.fingerprints, src.Path)
	r.mu.Unlock()
	dst := r.outputPath(src)
	if err := os.Remove(dst); err == nil {
		logger.Info("Removed output of deleted document", logfields.Path(dst))
	}
}

func captionCount(res *pipeline.Result) int {
	total := 0
	for _, n := range res.Stats[caption.ProcessorName] {
		total += n
	}
	return total
}
