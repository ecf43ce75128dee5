package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	parts, err := Split(input)
	require.NoError(t, err)
	require.False(t, parts.Present)
	require.Empty(t, parts.Raw)
	require.Equal(t, input, parts.Body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	parts, err := Split([]byte("---\ncaptions:\n  order: [table]\n---\nTable: x\n"))
	require.NoError(t, err)
	require.True(t, parts.Present)
	require.Equal(t, "captions:\n  order: [table]\n", string(parts.Raw))
	require.Equal(t, "Table: x\n", string(parts.Body))
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	parts, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.False(t, parts.Present)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	parts, err := Split([]byte("---\nkey: value\n---"))
	require.NoError(t, err)
	require.True(t, parts.Present)
	require.Equal(t, "key: value\n", string(parts.Raw))
	require.Empty(t, parts.Body)
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	parts, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, parts.Present)
	require.Equal(t, "\r\n", parts.Newline)
	require.Equal(t, "key: value\r\n", string(parts.Raw))
	require.Equal(t, "# Title\r\n", string(parts.Body))
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	parts, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, parts.Present)
	require.Empty(t, parts.Raw)
	require.Equal(t, "# Title\n", string(parts.Body))
}

func TestParseYAML(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		fields, err := ParseYAML([]byte("  \n"))
		require.NoError(t, err)
		require.Empty(t, fields)
	})

	t.Run("nested captions section", func(t *testing.T) {
		fields, err := ParseYAML([]byte("title: Doc\ncaptions:\n  figure:\n    caption_prefix: Abb.\n"))
		require.NoError(t, err)
		require.Equal(t, "Doc", fields["title"])
		captions, ok := fields["captions"].(map[string]any)
		require.True(t, ok)
		require.Contains(t, captions, "figure")
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseYAML([]byte("a: [1, 2\n"))
		require.Error(t, err)
	})
}
