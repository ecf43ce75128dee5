package caption

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
)

// Content kinds known to the default matcher set, in their default
// registration order.
const (
	KindFigure  = "figure"
	KindTable   = "table"
	KindListing = "listing"
)

// Kinds lists the built-in content kinds in default registration order.
var Kinds = []string{KindFigure, KindTable, KindListing}

// Options is the immutable behaviour of one matcher.
type Options struct {
	// Name identifies the content kind; generated ids are "_{Name}-{number}".
	Name       string
	ContentTag string
	CaptionTag string
	PrefixTag  string

	CaptionPrefix      string
	Numbering          bool
	NumberingPreserve  bool
	CaptionPrefixClass string
	CaptionClass       string
	ContentClass       string
	CaptionTop         bool
	CaptionSkipEmpty   bool
	// CaptionMatchRe must contain a named "title" group and may contain a
	// named "number" group. Only keyword-triggered kinds use it.
	CaptionMatchRe string
	// StripTitle removes the image title once it became the caption (figures).
	StripTitle bool
}

// DefaultOptions returns the built-in defaults for kind.
func DefaultOptions(kind string) (Options, error) {
	switch kind {
	case KindFigure:
		return Options{
			Name:          KindFigure,
			ContentTag:    "figure",
			CaptionTag:    "figcaption",
			PrefixTag:     "span",
			CaptionPrefix: defaultPrefix(KindFigure),
			Numbering:     true,
			StripTitle:    true,
		}, nil
	case KindTable:
		return Options{
			Name:           KindTable,
			ContentTag:     "table",
			CaptionTag:     "caption",
			PrefixTag:      "span",
			CaptionPrefix:  defaultPrefix(KindTable),
			Numbering:      true,
			CaptionTop:     true,
			CaptionMatchRe: `^Table\s*?(?P<number>\d*)\:\s*(?P<title>.*)`,
		}, nil
	case KindListing:
		return Options{
			Name:           KindListing,
			ContentTag:     "div",
			CaptionTag:     "figcaption",
			PrefixTag:      "span",
			CaptionPrefix:  defaultPrefix(KindListing),
			Numbering:      true,
			CaptionTop:     true,
			ContentClass:   "listing",
			CaptionMatchRe: `^Listing\s*?(?P<number>\d*)\:\s*(?P<title>.*)`,
		}, nil
	default:
		return Options{}, errors.ConfigError("unknown caption kind").
			WithContext("kind", kind).
			Build()
	}
}

func (o Options) validate() error {
	switch {
	case o.Name == "":
		return errors.ConfigError("caption matcher has no name").Build()
	case o.ContentTag == "" || o.CaptionTag == "":
		return errors.ConfigError("caption matcher needs content and caption tags").
			WithContext("kind", o.Name).
			Build()
	case o.Numbering && o.PrefixTag == "":
		return errors.ConfigError("numbered captions need a prefix tag").
			WithContext("kind", o.Name).
			Build()
	}
	return nil
}

func defaultPrefix(name string) string {
	// Casers carry state; build one per call.
	return cases.Title(language.Und).String(name)
}

// Overrides layers user settings onto Options. Nil fields keep the value
// they are applied to.
type Overrides struct {
	CaptionPrefix      *string `yaml:"caption_prefix,omitempty"`
	Numbering          *bool   `yaml:"numbering,omitempty"`
	NumberingPreserve  *bool   `yaml:"numbering_preserve,omitempty"`
	CaptionPrefixClass *string `yaml:"caption_prefix_class,omitempty"`
	CaptionClass       *string `yaml:"caption_class,omitempty"`
	ContentClass       *string `yaml:"content_class,omitempty"`
	CaptionTop         *bool   `yaml:"caption_top,omitempty"`
	CaptionSkipEmpty   *bool   `yaml:"caption_skip_empty,omitempty"`
	CaptionMatchRe     *string `yaml:"caption_match_re,omitempty"`
	StripTitle         *bool   `yaml:"strip_title,omitempty"`
}

// Apply returns o with every set override applied.
func (v Overrides) Apply(o Options) Options {
	setString(&o.CaptionPrefix, v.CaptionPrefix)
	setBool(&o.Numbering, v.Numbering)
	setBool(&o.NumberingPreserve, v.NumberingPreserve)
	setString(&o.CaptionPrefixClass, v.CaptionPrefixClass)
	setString(&o.CaptionClass, v.CaptionClass)
	setString(&o.ContentClass, v.ContentClass)
	setBool(&o.CaptionTop, v.CaptionTop)
	setBool(&o.CaptionSkipEmpty, v.CaptionSkipEmpty)
	setString(&o.CaptionMatchRe, v.CaptionMatchRe)
	setBool(&o.StripTitle, v.StripTitle)
	return o
}

// Merge returns v overlaid with every field set in other.
func (v Overrides) Merge(other Overrides) Overrides {
	pickString(&v.CaptionPrefix, other.CaptionPrefix)
	pickBool(&v.Numbering, other.Numbering)
	pickBool(&v.NumberingPreserve, other.NumberingPreserve)
	pickString(&v.CaptionPrefixClass, other.CaptionPrefixClass)
	pickString(&v.CaptionClass, other.CaptionClass)
	pickString(&v.ContentClass, other.ContentClass)
	pickBool(&v.CaptionTop, other.CaptionTop)
	pickBool(&v.CaptionSkipEmpty, other.CaptionSkipEmpty)
	pickString(&v.CaptionMatchRe, other.CaptionMatchRe)
	pickBool(&v.StripTitle, other.StripTitle)
	return v
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func pickString(dst **string, v *string) {
	if v != nil {
		*dst = v
	}
}

func pickBool(dst **bool, v *bool) {
	if v != nil {
		*dst = v
	}
}

// OverridesFrom returns overrides that set every behavioural field of o.
// Empty strings are left unset.
func OverridesFrom(o Options) Overrides {
	str := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return Overrides{
		CaptionPrefix:      str(o.CaptionPrefix),
		Numbering:          &o.Numbering,
		NumberingPreserve:  &o.NumberingPreserve,
		CaptionPrefixClass: str(o.CaptionPrefixClass),
		CaptionClass:       str(o.CaptionClass),
		ContentClass:       str(o.ContentClass),
		CaptionTop:         &o.CaptionTop,
		CaptionSkipEmpty:   &o.CaptionSkipEmpty,
		CaptionMatchRe:     str(o.CaptionMatchRe),
		StripTitle:         &o.StripTitle,
	}
}
