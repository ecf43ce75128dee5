package caption

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
	"git.home.luguber.info/inful/mdcaption/internal/node"
)

// keyword recognises paragraphs whose leading text starts with a caption
// keyword such as "Table:" or "Listing 3:".
type keyword struct {
	re     *regexp.Regexp
	title  int
	number int
}

func compileKeyword(opts Options) (*keyword, error) {
	re, err := regexp.Compile(opts.CaptionMatchRe)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid caption_match_re").
			Fatal().
			WithContext("kind", opts.Name).
			WithContext("pattern", opts.CaptionMatchRe).
			Build()
	}
	title := re.SubexpIndex("title")
	if title < 0 {
		return nil, errors.ConfigError("caption_match_re needs a named title group").
			WithContext("kind", opts.Name).
			WithContext("pattern", opts.CaptionMatchRe).
			Build()
	}
	return &keyword{re: re, title: title, number: re.SubexpIndex("number")}, nil
}

// match applies the pattern to the paragraph's leading text. Like an
// anchored match, the pattern must match at the very start.
func (k *keyword) match(candidate *node.Node) *Match {
	if candidate.Tag != "p" {
		return nil
	}
	text := candidate.Text
	loc := k.re.FindStringSubmatchIndex(text)
	if loc == nil || loc[0] != 0 {
		return nil
	}

	m := &Match{Candidate: candidate, Target: candidate}
	// Leading text past the pattern's end still belongs to the caption.
	title := group(text, loc, k.title) + text[loc[1]:]
	if candidate.Len() == 0 {
		m.Title = strings.TrimSpace(title)
	} else {
		m.Title = strings.TrimLeft(title, " \t\n")
		m.Inline = slices.Clone(candidate.Children)
	}

	if k.number >= 0 {
		if raw := group(text, loc, k.number); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				m.NumberErr = fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
			} else {
				m.Number, m.HasNumber = n, true
			}
		}
	}
	return m
}

func group(text string, loc []int, i int) string {
	start, end := loc[2*i], loc[2*i+1]
	if start < 0 {
		return ""
	}
	return text[start:end]
}
