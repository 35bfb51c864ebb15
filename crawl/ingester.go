package crawl

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/larsmarsfars/chatsite"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxBytes is the per-page extracted-text budget before
	// chunked summarization.
	DefaultMaxBytes = 180000

	// offlineNoteBytes is the truncated raw-text note length used when
	// no language-model credential is configured.
	offlineNoteBytes = 800

	// defaultSummarizeConcurrency bounds cross-page summarization
	// fan-out. Chunk ordering within a page is always sequential.
	defaultSummarizeConcurrency = 3
)

// Ingester runs one full ingest pass: cache check, crawl, text
// extraction, summarization (or the offline fallback), cache write.
// The cache write is all-or-nothing; a canceled pass writes nothing.
type Ingester struct {
	Crawler *Crawler
	Text    chatsite.TextExtractor
	Cache   chatsite.IngestCache

	// Summarizer produces fact notes from page text. When nil the
	// ingester runs in offline degraded mode: notes are the first 800
	// characters of each page's extracted text.
	Summarizer chatsite.Summarizer

	// MaxBytes truncates extracted page text before summarization.
	// Defaults to DefaultMaxBytes when zero.
	MaxBytes int

	// Concurrency bounds how many pages are summarized at once.
	Concurrency int
}

// Ingest serves the cached result when it is still fresh, otherwise
// performs a crawl+summarize pass and replaces the cache wholesale.
// The bool result reports whether the response came from the cache.
func (ing *Ingester) Ingest(ctx context.Context, req chatsite.CrawlRequest) (chatsite.IngestResult, bool, error) {
	if cached, ok := ing.Cache.Get(); ok {
		return cached, true, nil
	}

	crawled, err := ing.Crawler.Crawl(ctx, req)
	if err != nil {
		return chatsite.IngestResult{}, false, err
	}

	type pageText struct {
		url  string
		text string
	}
	var texts []pageText
	for _, page := range crawled.Pages {
		text := truncate(ing.Text.ExtractText(page.HTML), ing.maxBytes())
		if text == "" {
			continue
		}
		texts = append(texts, pageText{url: page.URL, text: text})
	}

	result := chatsite.IngestResult{Gallery: crawled.Gallery}

	if ing.Summarizer == nil {
		result.Offline = true
		for _, pt := range texts {
			result.Notes = append(result.Notes, chatsite.Note{
				URL:  pt.url,
				Note: truncate(pt.text, offlineNoteBytes),
			})
		}
	} else {
		notes := make([]chatsite.Note, len(texts))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(ing.concurrency())
		for i, pt := range texts {
			g.Go(func() error {
				note, err := ing.Summarizer.Summarize(gctx, pt.text)
				if err != nil {
					return err
				}
				notes[i] = chatsite.Note{URL: pt.url, Note: note}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return chatsite.IngestResult{}, false, err
		}
		result.Notes = notes
	}

	// Put returns the stamped copy; a re-read could observe a result a
	// concurrent pass stored in the meantime.
	result = ing.Cache.Put(result)
	return result, false, nil
}

func (ing *Ingester) maxBytes() int {
	if ing.MaxBytes > 0 {
		return ing.MaxBytes
	}
	return DefaultMaxBytes
}

func (ing *Ingester) concurrency() int {
	if ing.Concurrency > 0 {
		return ing.Concurrency
	}
	return defaultSummarizeConcurrency
}

// Fingerprint returns a stable hash of an ingest result's notes and
// gallery, suitable for use as an HTTP entity tag.
func Fingerprint(res chatsite.IngestResult) string {
	h := xxhash.New()
	for _, n := range res.Notes {
		_, _ = h.WriteString(n.URL)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(n.Note)
		_, _ = h.WriteString("\x00")
	}
	for _, img := range res.Gallery {
		_, _ = h.WriteString(img.Src)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(img.From)
		_, _ = h.WriteString("\x00")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// truncate bounds s to at most max bytes, backing up so a multi-byte
// rune is never cut in half.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
