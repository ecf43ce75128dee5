// Package config loads the mdcaption configuration file.
//
// The file is YAML. `${VAR}` references are expanded from the environment
// before decoding, and `.env.local` / `.env` files next to the configuration
// file are loaded first without overriding variables already set.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdcaption/internal/caption"
	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/markdown"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "mdcaption.yaml"

// Config is the root of the configuration file.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Captions caption.Config `yaml:"captions"`
	Output   OutputConfig   `yaml:"output"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// EnvFiles lists the .env files that were loaded, for diagnostics.
	EnvFiles []string `yaml:"-"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MarkdownConfig is the Markdown dialect plus the tree processors that
// depend on it.
type MarkdownConfig struct {
	markdown.Options `yaml:",inline"`
	// AttrList enables `{: #id .class }` attribute lists.
	AttrList bool `yaml:"attr_list"`
}

// OutputConfig controls what is written for each rendered document.
type OutputConfig struct {
	Extension string `yaml:"extension"`
	Sanitize  bool   `yaml:"sanitize"`
	Minify    bool   `yaml:"minify"`
}

// MetricsConfig controls the Prometheus endpoint of the watch command.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		Logging:  LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Markdown: MarkdownConfig{
			Options:  markdown.DefaultOptions(),
			AttrList: true,
		},
		Output:  OutputConfig{Extension: ".html"},
		Metrics: MetricsConfig{Listen: ":9464"},
	}
}

// Load reads, expands, normalizes and validates the file at path.
func Load(path string) (*Config, error) {
	envFiles, err := loadEnvFiles(filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileSystemError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read configuration file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	cfg.EnvFiles = envFiles
	return cfg, nil
}

// LoadOrDefault loads path when it exists and returns Defaults otherwise.
// An explicitly requested file must exist.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		cfg := Defaults()
		envFiles, err := loadEnvFiles(".")
		if err != nil {
			return nil, err
		}
		cfg.EnvFiles = envFiles
		return cfg, nil
	}
	return Load(path)
}

var envRefRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references. Bare $VAR is left alone so that
// caption patterns may use `$` anchors.
func expandEnv(data []byte) []byte {
	return envRefRe.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(ref[2 : len(ref)-1])))
	})
}

// Parse decodes configuration data on top of Defaults. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(expandEnv(data)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to decode configuration").Build()
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	// Unknown spellings are kept for Validate to report.
	if v, err := logLevels.parse(string(c.Logging.Level)); err == nil {
		c.Logging.Level = v
	}
	if v, err := logFormats.parse(string(c.Logging.Format)); err == nil {
		c.Logging.Format = v
	}
	if c.Output.Extension != "" && c.Output.Extension[0] != '.' {
		c.Output.Extension = "." + c.Output.Extension
	}
	if c.Markdown.HTMLBlocks == "" {
		c.Markdown.HTMLBlocks = markdown.HTMLBlocksRaw
	}
}

// Init writes a configuration file with every default spelled out.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	cfg := Defaults()
	for _, kind := range caption.Kinds {
		opts, err := caption.DefaultOptions(kind)
		if err != nil {
			return err
		}
		v := caption.OverridesFrom(opts)
		switch kind {
		case caption.KindFigure:
			cfg.Captions.Figure = v
		case caption.KindTable:
			cfg.Captions.Table = v
		case caption.KindListing:
			cfg.Captions.Listing = v
		}
	}
	cfg.Captions.Order = caption.Kinds

	var buf bytes.Buffer
	buf.WriteString("# mdcaption configuration\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode configuration").Build()
	}
	if err := enc.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode configuration").Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create configuration directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration file").
			WithContext("path", path).
			Build()
	}
	return nil
}
