// Package html provides plain-text extraction from raw HTML using the
// x/net tokenizer. It implements chatsite.TextExtractor for pages that
// feed the chunked summarizer.
package html

import (
	"strings"

	"github.com/larsmarsfars/chatsite"
	"golang.org/x/net/html"
)

// Ensure Extractor implements chatsite.TextExtractor at compile time.
var _ chatsite.TextExtractor = (*Extractor)(nil)

// skipContent lists elements whose text content never survives
// extraction. Other non-textual elements (svg, form, video, ...) lose
// only their tags; any text inside them is kept.
var skipContent = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
}

// Extractor reduces raw HTML to whitespace-collapsed plain text.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText strips markup, scripts, styles and comments from raw HTML
// and collapses runs of whitespace to single spaces. Malformed input
// degrades gracefully: the tokenizer yields whatever text it can still
// see, and an empty result is a valid outcome.
func (e *Extractor) ExtractText(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))

	var b strings.Builder
	skipping := "" // element whose content is being skipped

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or unrecoverable garbage; either way we are done.
			return collapse(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if skipping == "" && skipContent[string(name)] {
				skipping = string(name)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skipping == string(name) {
				skipping = ""
			}
		case html.TextToken:
			if skipping == "" {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

// collapse reduces all whitespace runs to single spaces and trims.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
