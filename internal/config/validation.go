package config

import (
	"strings"

	"git.home.luguber.info/inful/mdcaption/internal/caption"
	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/markdown"
)

// Validate reports the first invalid setting. Caption settings are checked
// by building the matchers, so a bad pattern fails here rather than on the
// first document.
func (c *Config) Validate() error {
	if _, err := logLevels.parse(string(c.Logging.Level)); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid logging.level").Build()
	}
	if _, err := logFormats.parse(string(c.Logging.Format)); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid logging.format").Build()
	}

	switch c.Markdown.HTMLBlocks {
	case markdown.HTMLBlocksRaw, markdown.HTMLBlocksParse:
	default:
		return errors.ValidationError("invalid markdown.html_blocks").
			WithContext("value", c.Markdown.HTMLBlocks).
			WithContext("valid", markdown.HTMLBlocksRaw+", "+markdown.HTMLBlocksParse).
			Build()
	}

	if len(c.Output.Extension) < 2 || strings.ContainsAny(c.Output.Extension, `/\`) {
		return errors.ValidationError("invalid output.extension").
			WithContext("value", c.Output.Extension).
			Build()
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return errors.ValidationError("metrics.listen is required when metrics are enabled").Build()
	}

	if _, err := caption.NewExtension(c.Captions); err != nil {
		return err
	}
	return nil
}
