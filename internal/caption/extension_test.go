package caption

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdcaption/internal/attrlist"
	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/pipeline"
)

func newPipeline(t *testing.T, cfg Config, opts ...EngineOption) *pipeline.Pipeline {
	t.Helper()
	ext, err := NewExtension(cfg, opts...)
	require.NoError(t, err)
	p := pipeline.New()
	require.NoError(t, p.Use(attrlist.Extension{}, ext))
	return p
}

func TestExtension_RegistersAfterAttrList(t *testing.T) {
	p := newPipeline(t, Config{})
	require.Equal(t, []string{attrlist.ProcessorName, ProcessorName}, p.TreeProcessors())
	require.True(t, p.HasTreeProcessor(ProcessorName))
}

func TestExtension_RegisteringTwiceFails(t *testing.T) {
	ext, err := NewExtension(Config{})
	require.NoError(t, err)
	p := pipeline.New()
	require.NoError(t, p.Use(ext))
	err = p.Use(ext)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestExtension_InvalidConfig(t *testing.T) {
	_, err := NewExtension(Config{Order: []string{KindFigure, "chart"}})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = NewExtension(Config{Order: []string{KindListing, KindListing}})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestExtension_StatsInResult(t *testing.T) {
	src := lines(simpleImage, "", "Listing: one", "", "Listing: two")
	res, err := newPipeline(t, Config{}).Convert(context.Background(), "doc.md", []byte(src))
	require.NoError(t, err)
	require.Equal(t, map[string]int{KindFigure: 1, KindListing: 2}, res.Stats[ProcessorName])
}

func TestExtension_FrontMatterOverrides(t *testing.T) {
	src := lines(
		"---",
		"captions:",
		"  figure:",
		"    caption_prefix: Abb.",
		"---",
		simpleImage,
	)
	p := newPipeline(t, Config{Figure: Overrides{CaptionClass: ptr("cap")}})

	res, err := p.Convert(context.Background(), "de.md", []byte(src))
	require.NoError(t, err)
	require.Contains(t, res.HTML, `<figcaption class="cap"><span>Abb.&nbsp;1:</span> Title</figcaption>`)

	// Overrides stay with their document.
	res, err = p.Convert(context.Background(), "en.md", []byte(simpleImage))
	require.NoError(t, err)
	require.Contains(t, res.HTML, `<figcaption class="cap"><span>Figure&nbsp;1:</span> Title</figcaption>`)
}

func TestExtension_FrontMatterOrder(t *testing.T) {
	src := lines(
		"---",
		"captions:",
		"  order: [listing]",
		"---",
		simpleImage,
		"",
		"Listing: kept",
	)
	res, err := newPipeline(t, Config{}).Convert(context.Background(), "doc.md", []byte(src))
	require.NoError(t, err)
	require.Equal(t, map[string]int{KindListing: 1}, res.Stats[ProcessorName])
	require.Contains(t, res.HTML, `title="Title"`)
}

func TestExtension_BadFrontMatterFallsBack(t *testing.T) {
	tests := map[string]string{
		"invalid pattern": "captions:\n  listing:\n    caption_match_re: \"(\"",
		"wrong shape":     "captions: 5",
		"unknown kind":    "captions:\n  order: [chart]",
	}
	for name, meta := range tests {
		t.Run(name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			p := newPipeline(t, Config{}, WithLogger(logger))

			src := "---\n" + meta + "\n---\nListing: still captioned\n"
			res, err := p.Convert(context.Background(), "doc.md", []byte(src))
			require.NoError(t, err)
			require.Contains(t, res.HTML, `<div class="listing" id="_listing-1">`)
			require.Contains(t, logs.String(), "Ignoring caption overrides in front matter")
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := Config{
		Order:   []string{KindFigure, KindTable},
		Listing: Overrides{CaptionPrefix: ptr("Code")},
	}
	got := base.Merge(Config{Listing: Overrides{Numbering: ptr(false)}})
	require.Equal(t, []string{KindFigure, KindTable}, got.Order)
	require.Equal(t, "Code", *got.Listing.CaptionPrefix)
	require.False(t, *got.Listing.Numbering)

	got = base.Merge(Config{Order: []string{KindListing}})
	require.Equal(t, []string{KindListing}, got.Kinds())
}

func TestConfigKindsDefault(t *testing.T) {
	kinds := Config{}.Kinds()
	require.Equal(t, Kinds, kinds)
	kinds[0] = "mutated"
	require.Equal(t, KindFigure, Kinds[0])
}
