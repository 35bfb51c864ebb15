package html_test

import (
	"strings"
	"testing"

	"github.com/larsmarsfars/chatsite/html"
	"github.com/stretchr/testify/assert"
)

func TestExtractor_ExtractText_strips_script_and_style_content(t *testing.T) {
	t.Parallel()

	e := html.NewExtractor()

	raw := `<html><head>
		<style>body { color: red; }</style>
		<script>var secret = "leaky";</script>
	</head><body>
		<noscript>enable javascript</noscript>
		<p>Visible text</p>
	</body></html>`

	got := e.ExtractText(raw)

	assert.Equal(t, "Visible text", got)
	assert.NotContains(t, got, "secret")
	assert.NotContains(t, got, "color: red")
	assert.NotContains(t, got, "enable javascript")
}

func TestExtractor_ExtractText_drops_comments(t *testing.T) {
	t.Parallel()

	e := html.NewExtractor()

	got := e.ExtractText(`<p>before</p><!-- hidden note --><p>after</p>`)

	assert.Equal(t, "before after", got)
}

func TestExtractor_ExtractText_keeps_text_inside_structural_elements(t *testing.T) {
	t.Parallel()

	e := html.NewExtractor()

	// Structural elements lose their tags but not their text.
	got := e.ExtractText(`<form><button>Submit</button></form><svg><title>Logo</title></svg>`)

	assert.Contains(t, got, "Submit")
	assert.Contains(t, got, "Logo")
}

func TestExtractor_ExtractText_collapses_whitespace(t *testing.T) {
	t.Parallel()

	e := html.NewExtractor()

	got := e.ExtractText("<div>  one \n\t two  </div>\n<div>three</div>")

	assert.Equal(t, "one two three", got)
}

func TestExtractor_ExtractText_tolerates_malformed_html(t *testing.T) {
	t.Parallel()

	e := html.NewExtractor()

	got := e.ExtractText(`<p>unclosed <b>bold <div>still here`)

	assert.Equal(t, "unclosed bold still here", got)
}

func TestExtractor_ExtractText_empty_input(t *testing.T) {
	t.Parallel()

	e := html.NewExtractor()

	assert.Equal(t, "", e.ExtractText(""))
	assert.Equal(t, "", e.ExtractText("<script>only(code)</script>"))
}

func TestExtractor_ExtractText_large_page(t *testing.T) {
	t.Parallel()

	e := html.NewExtractor()

	raw := "<p>" + strings.Repeat("word ", 10000) + "</p>"
	got := e.ExtractText(raw)

	assert.True(t, strings.HasPrefix(got, "word word"))
	assert.NotContains(t, got, "  ")
}
