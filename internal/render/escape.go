package render

import (
	"regexp"
	"strings"
)

// entity matches a character or named reference at the start of a string.
var entity = regexp.MustCompile(`(?i)^&(?:#[0-9]+|#x[0-9a-f]+|[0-9a-z]+);`)

// EscapeText escapes character data. An ampersand that already starts an
// entity reference is kept, so text may carry entities such as &nbsp;.
func EscapeText(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	return escape(s, false)
}

// EscapeAttr escapes an attribute value for a double-quoted attribute.
func EscapeAttr(s string) string {
	if !strings.ContainsAny(s, "&<>\"") {
		return s
	}
	return escape(s, true)
}

// EscapeAll escapes every ampersand, including those that look like entity
// references. Use it for text that must reach the output literally, such
// as code.
func EscapeAll(s string) string {
	return strings.ReplaceAll(s, "&", "&amp;")
}

func escape(s string, attr bool) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '&':
			if entity.MatchString(s[i:]) {
				b.WriteByte(c)
			} else {
				b.WriteString("&amp;")
			}
		case c == '<':
			b.WriteString("&lt;")
		case c == '>':
			b.WriteString("&gt;")
		case attr && c == '"':
			b.WriteString("&quot;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
