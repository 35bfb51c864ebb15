package chatsite

// TextExtractor reduces raw HTML to whitespace-collapsed plain text.
// Malformed HTML degrades gracefully to whatever text remains after tag
// stripping; extraction has no error conditions.
type TextExtractor interface {
	ExtractText(html string) string
}

// LinkExtractor pulls anchor targets from a page, resolved against the
// page's base URL. Hrefs that cannot be resolved to an absolute HTTP URL
// are silently discarded, not reported.
type LinkExtractor interface {
	ExtractLinks(html, baseURL string) []string
}

// ImageExtractor pulls candidate illustrative image URLs from a page:
// Open Graph and Twitter-card metas first, then inline <img> sources.
// Results are resolved against the base URL, deduplicated, and bounded
// to a small fixed count.
type ImageExtractor interface {
	ExtractImages(html, baseURL string) []string
}
