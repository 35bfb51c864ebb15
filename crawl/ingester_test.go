package crawl_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/larsmarsfars/chatsite"
	"github.com/larsmarsfars/chatsite/crawl"
	"github.com/larsmarsfars/chatsite/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is a minimal in-test cache: always fresh once filled.
type memCache struct {
	mu     sync.Mutex
	result chatsite.IngestResult
	filled bool
}

func (c *memCache) Get() (chatsite.IngestResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.filled
}

func (c *memCache) Put(res chatsite.IngestResult) chatsite.IngestResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	res.ProducedAt = time.Now()
	c.result, c.filled = res, true
	return res
}

func singlePageCrawler(html string) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher: &mock.PageFetcher{FetchFn: func(_ context.Context, u string) chatsite.FetchResult {
			return chatsite.FetchResult{OK: true, Status: 200, URL: u, Body: html}
		}},
		Links:  &mock.LinkExtractor{ExtractLinksFn: func(_, _ string) []string { return nil }},
		Images: &mock.ImageExtractor{ExtractImagesFn: func(_, _ string) []string { return nil }},
	}
}

func TestIngester_Ingest_offline_truncates_notes(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 2000)
	ing := &crawl.Ingester{
		Crawler: singlePageCrawler("<p>page</p>"),
		Text:    &mock.TextExtractor{ExtractTextFn: func(string) string { return long }},
		Cache:   &memCache{},
	}

	res, cached, err := ing.Ingest(context.Background(), chatsite.CrawlRequest{URLs: []string{"https://example.com"}})
	require.NoError(t, err)

	assert.False(t, cached)
	assert.True(t, res.Offline)
	require.Len(t, res.Notes, 1)
	assert.Len(t, res.Notes[0].Note, 800)
	assert.False(t, res.ProducedAt.IsZero())
}

func TestIngester_Ingest_cache_hit_short_circuits(t *testing.T) {
	t.Parallel()

	cache := &memCache{}
	cache.Put(chatsite.IngestResult{
		Notes: []chatsite.Note{{URL: "https://example.com", Note: "- stored"}},
	})

	// Crawler and extractor are nil: a cache hit must never reach them.
	ing := &crawl.Ingester{Cache: cache}

	res, cached, err := ing.Ingest(context.Background(), chatsite.CrawlRequest{URLs: []string{"https://example.com"}})
	require.NoError(t, err)

	assert.True(t, cached)
	assert.Equal(t, "- stored", res.Notes[0].Note)
}

func TestIngester_Ingest_summarizes_pages_in_order(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"https://example.com/a": "text about a",
		"https://example.com/b": "text about b",
		"https://example.com/c": "text about c",
	}

	ing := &crawl.Ingester{
		Crawler: &crawl.Crawler{
			Fetcher: &mock.PageFetcher{FetchFn: func(_ context.Context, u string) chatsite.FetchResult {
				return chatsite.FetchResult{OK: true, Status: 200, URL: u, Body: pages[u]}
			}},
			Links:  &mock.LinkExtractor{ExtractLinksFn: func(_, _ string) []string { return nil }},
			Images: &mock.ImageExtractor{ExtractImagesFn: func(_, _ string) []string { return nil }},
		},
		Text:  &mock.TextExtractor{ExtractTextFn: func(html string) string { return html }},
		Cache: &memCache{},
		Summarizer: &mock.Summarizer{SummarizeFn: func(_ context.Context, text string) (string, error) {
			return "summary of " + text, nil
		}},
	}

	req := chatsite.CrawlRequest{URLs: []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}}
	res, _, err := ing.Ingest(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, res.Notes, 3)
	assert.False(t, res.Offline)
	assert.Equal(t, "https://example.com/a", res.Notes[0].URL)
	assert.Equal(t, "summary of text about a", res.Notes[0].Note)
	assert.Equal(t, "summary of text about c", res.Notes[2].Note)
}

func TestIngester_Ingest_skips_empty_text(t *testing.T) {
	t.Parallel()

	ing := &crawl.Ingester{
		Crawler: singlePageCrawler("<script>only()</script>"),
		Text:    &mock.TextExtractor{ExtractTextFn: func(string) string { return "" }},
		Cache:   &memCache{},
	}

	res, _, err := ing.Ingest(context.Background(), chatsite.CrawlRequest{URLs: []string{"https://example.com"}})
	require.NoError(t, err)

	assert.Empty(t, res.Notes)
}

func TestIngester_Ingest_summarizer_error_fails_pass(t *testing.T) {
	t.Parallel()

	cache := &memCache{}
	ing := &crawl.Ingester{
		Crawler: singlePageCrawler("<p>page</p>"),
		Text:    &mock.TextExtractor{ExtractTextFn: func(string) string { return "some text" }},
		Cache:   cache,
		Summarizer: &mock.Summarizer{SummarizeFn: func(context.Context, string) (string, error) {
			return "", fmt.Errorf("model unavailable")
		}},
	}

	_, _, err := ing.Ingest(context.Background(), chatsite.CrawlRequest{URLs: []string{"https://example.com"}})
	require.Error(t, err)

	_, ok := cache.Get()
	assert.False(t, ok, "a failed pass must not populate the cache")
}

func TestIngester_Ingest_offline_notes_keep_runes_whole(t *testing.T) {
	t.Parallel()

	// 3-byte runes: 800 bytes is not a rune boundary (800/3 is not whole).
	text := strings.Repeat("日", 300)
	ing := &crawl.Ingester{
		Crawler: singlePageCrawler("<p>page</p>"),
		Text:    &mock.TextExtractor{ExtractTextFn: func(string) string { return text }},
		Cache:   &memCache{},
	}

	res, _, err := ing.Ingest(context.Background(), chatsite.CrawlRequest{URLs: []string{"https://example.com"}})
	require.NoError(t, err)

	require.Len(t, res.Notes, 1)
	note := res.Notes[0].Note
	assert.LessOrEqual(t, len(note), 800)
	assert.True(t, utf8.ValidString(note), "truncation must not split a rune")
}

func TestIngester_Ingest_returns_its_own_pass_not_a_concurrent_one(t *testing.T) {
	t.Parallel()

	other := chatsite.IngestResult{
		ProducedAt: time.Now(),
		Notes:      []chatsite.Note{{URL: "https://elsewhere.com", Note: "- someone else's pass"}},
	}

	// Get misses before the pass and would serve a different pass's
	// result afterwards; the returned notes must still be this pass's.
	var put bool
	cache := &mock.IngestCache{
		GetFn: func() (chatsite.IngestResult, bool) {
			if put {
				return other, true
			}
			return chatsite.IngestResult{}, false
		},
		PutFn: func(res chatsite.IngestResult) chatsite.IngestResult {
			put = true
			res.ProducedAt = time.Now()
			return res
		},
	}

	ing := &crawl.Ingester{
		Crawler: singlePageCrawler("<p>page</p>"),
		Text:    &mock.TextExtractor{ExtractTextFn: func(string) string { return "own text" }},
		Cache:   cache,
	}

	res, cached, err := ing.Ingest(context.Background(), chatsite.CrawlRequest{URLs: []string{"https://example.com"}})
	require.NoError(t, err)

	assert.False(t, cached)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, "https://example.com", res.Notes[0].URL)
	assert.False(t, res.ProducedAt.IsZero())
}

func TestFingerprint_is_stable_and_content_sensitive(t *testing.T) {
	t.Parallel()

	res := chatsite.IngestResult{
		Notes:   []chatsite.Note{{URL: "https://example.com", Note: "- fact"}},
		Gallery: []chatsite.GalleryImage{{Src: "https://example.com/a.jpg", From: "https://example.com"}},
	}

	assert.Equal(t, crawl.Fingerprint(res), crawl.Fingerprint(res))
	assert.Len(t, crawl.Fingerprint(res), 16)

	changed := res
	changed.Notes = []chatsite.Note{{URL: "https://example.com", Note: "- other fact"}}
	assert.NotEqual(t, crawl.Fingerprint(res), crawl.Fingerprint(changed))
}
