package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// Parts is a document split at its front matter.
type Parts struct {
	// Raw is the YAML between the delimiters, without the delimiters.
	Raw []byte
	// Body is the Markdown that follows the closing delimiter.
	Body []byte
	// Present reports whether the document opened with a delimiter.
	Present bool
	// Newline is the document's line ending ("\n" or "\r\n").
	Newline string
}

// Split separates YAML front matter (`---` delimited) from the Markdown body.
//
// Without an opening delimiter Present is false and Body is the full input.
func Split(content []byte) (Parts, error) {
	nl := detectNewline(content)
	parts := Parts{Body: content, Newline: nl}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return parts, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		parts.Raw, parts.Body, parts.Present = []byte{}, content[start+len(open):], true
		return parts, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line without a newline still counts.
		tail := []byte(nl + "---")
		if !bytes.HasSuffix(content, tail) {
			return Parts{Newline: nl}, ErrMissingClosingDelimiter
		}
		parts.Raw = content[start : len(content)-len(tail)+len(nl)]
		parts.Body, parts.Present = []byte{}, true
		return parts, nil
	}

	parts.Raw = content[start : start+idx+len(nl)]
	parts.Body = content[start+idx+len(closeSeq):]
	parts.Present = true
	return parts, nil
}

// ParseYAML parses raw YAML front matter (without --- delimiters) into a map.
func ParseYAML(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
