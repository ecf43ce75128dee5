package postprocess

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdcaption/internal/pipeline"
)

const captioned = `<figure id="_figure-1">
<img alt="alt text" src="/i.png" onerror="alert(1)" />
<figcaption><span>Figure&nbsp;1:</span> Title</figcaption>
</figure>
<table id="_table-1">
<caption style="caption-side:bottom"><span>Table&nbsp;1:</span> T</caption>
<tbody><tr><td>x</td></tr></tbody>
</table>
<script>alert(2)</script>`

func TestSanitizer_KeepsCaptionMarkup(t *testing.T) {
	out, err := NewSanitizer().Run(pipeline.NewDocument("doc.md"), captioned)
	require.NoError(t, err)
	require.NotContains(t, out, "onerror")
	require.NotContains(t, out, "<script>")

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 1, dom.Find("figure#_figure-1 > figcaption > span").Length())
	require.Equal(t, "Title", strings.TrimSpace(dom.Find("figcaption").Contents().Last().Text()))
	style, ok := dom.Find("caption").Attr("style")
	require.True(t, ok)
	require.Contains(t, style, "caption-side")
	require.Equal(t, 1, dom.Find("table#_table-1").Length())
}

func TestMinifier_RemovesWhitespace(t *testing.T) {
	out, err := NewMinifier().Run(pipeline.NewDocument("doc.md"), "<div class=\"listing\" id=\"_listing-1\">\n<figcaption><span>Listing&nbsp;1:</span> Code</figcaption>\n</div>")
	require.NoError(t, err)
	require.NotContains(t, out, "\n")
	require.Contains(t, out, "</figcaption>")
	require.Contains(t, out, "Code")
}

func TestExtendersRegisterInOrder(t *testing.T) {
	p := pipeline.New()
	require.NoError(t, p.Use(NewMinifier(), NewSanitizer()))
	require.Equal(t, []string{"sanitize", "minify"}, p.PostProcessors())

	res, err := p.Convert(context.Background(), "doc.md", []byte("Hello <script>x</script> *world*\n"))
	require.NoError(t, err)
	require.NotContains(t, res.HTML, "<script>")
	require.Contains(t, res.HTML, "<em>world</em>")
}
