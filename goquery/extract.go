// Package goquery implements link and image extraction on top of the
// goquery DOM library. It provides the chatsite.LinkExtractor and
// chatsite.ImageExtractor used by the domain crawler.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/larsmarsfars/chatsite"
)

// maxImages bounds how many gallery candidates one page contributes.
const maxImages = 4

// imageExtensions are the inline <img> suffixes accepted as gallery
// candidates. Meta-declared images (og:image, twitter:image) are trusted
// without an extension check.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// Ensure Extractor implements the extraction interfaces at compile time.
var (
	_ chatsite.LinkExtractor  = (*Extractor)(nil)
	_ chatsite.ImageExtractor = (*Extractor)(nil)
)

// Extractor pulls anchor targets and candidate image URLs from raw HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractLinks returns the absolute form of every anchor href on the
// page, resolved against baseURL. Unresolvable hrefs and non-HTTP
// schemes (mailto:, javascript:, ...) are silently discarded.
func (e *Extractor) ExtractLinks(rawHTML, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		if resolved := resolveURL(base, href); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links
}

// ExtractImages returns up to maxImages candidate image URLs, resolved
// against baseURL and deduplicated. Priority order: og:image metas,
// twitter:image metas, then inline <img> sources with a recognized image
// extension.
func (e *Extractor) ExtractImages(rawHTML, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var images []string
	add := func(raw string) {
		if len(images) >= maxImages {
			return
		}
		resolved := resolveURL(base, raw)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		images = append(images, resolved)
	}

	doc.Find(`meta[property="og:image"]`).Each(func(_ int, sel *goquery.Selection) {
		if content, ok := sel.Attr("content"); ok {
			add(strings.TrimSpace(content))
		}
	})
	doc.Find(`meta[name="twitter:image"]`).Each(func(_ int, sel *goquery.Selection) {
		if content, ok := sel.Attr("content"); ok {
			add(strings.TrimSpace(content))
		}
	})
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" {
			return
		}
		if resolved := resolveURL(base, src); hasImageExtension(resolved) {
			add(src)
		}
	})

	return images
}

// resolveURL resolves href against base and returns the absolute URL,
// or "" if the result is not a usable HTTP(S) URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host == "" {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink reports whether href uses a scheme that can never
// resolve to a fetchable page.
func isNonHTTPLink(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:", "ftp:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// hasImageExtension reports whether the resolved URL ends in a
// recognized raster image extension.
func hasImageExtension(resolved string) bool {
	if resolved == "" {
		return false
	}
	lower := strings.ToLower(resolved)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
