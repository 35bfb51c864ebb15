// Package mock provides function-field mock implementations of the
// chatsite interfaces for use in tests.
package mock

import (
	"context"

	"github.com/larsmarsfars/chatsite"
)

var (
	_ chatsite.PageFetcher    = (*PageFetcher)(nil)
	_ chatsite.TextExtractor  = (*TextExtractor)(nil)
	_ chatsite.LinkExtractor  = (*LinkExtractor)(nil)
	_ chatsite.ImageExtractor = (*ImageExtractor)(nil)
	_ chatsite.SearchProvider = (*SearchProvider)(nil)
	_ chatsite.ImageSearcher  = (*ImageSearcher)(nil)
	_ chatsite.Summarizer     = (*Summarizer)(nil)
	_ chatsite.ChatService    = (*ChatService)(nil)
	_ chatsite.IngestCache    = (*IngestCache)(nil)
)

// PageFetcher is a mock implementation of chatsite.PageFetcher.
type PageFetcher struct {
	FetchFn func(ctx context.Context, url string) chatsite.FetchResult
}

func (f *PageFetcher) Fetch(ctx context.Context, url string) chatsite.FetchResult {
	return f.FetchFn(ctx, url)
}

// TextExtractor is a mock implementation of chatsite.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(html string) string
}

func (e *TextExtractor) ExtractText(html string) string {
	return e.ExtractTextFn(html)
}

// LinkExtractor is a mock implementation of chatsite.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) []string
}

func (e *LinkExtractor) ExtractLinks(html, baseURL string) []string {
	return e.ExtractLinksFn(html, baseURL)
}

// ImageExtractor is a mock implementation of chatsite.ImageExtractor.
type ImageExtractor struct {
	ExtractImagesFn func(html, baseURL string) []string
}

func (e *ImageExtractor) ExtractImages(html, baseURL string) []string {
	return e.ExtractImagesFn(html, baseURL)
}

// SearchProvider is a mock implementation of chatsite.SearchProvider.
type SearchProvider struct {
	SearchFn func(ctx context.Context, query string, count int) ([]string, error)
}

func (s *SearchProvider) Search(ctx context.Context, query string, count int) ([]string, error) {
	return s.SearchFn(ctx, query, count)
}

// ImageSearcher is a mock implementation of chatsite.ImageSearcher.
type ImageSearcher struct {
	SearchImagesFn func(ctx context.Context, query string, count int) ([]string, error)
}

func (s *ImageSearcher) SearchImages(ctx context.Context, query string, count int) ([]string, error) {
	return s.SearchImagesFn(ctx, query, count)
}

// Summarizer is a mock implementation of chatsite.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, text string) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.SummarizeFn(ctx, text)
}

// ChatService is a mock implementation of chatsite.ChatService.
type ChatService struct {
	ChatFn func(ctx context.Context, messages []chatsite.Message) (string, error)
}

func (c *ChatService) Chat(ctx context.Context, messages []chatsite.Message) (string, error) {
	return c.ChatFn(ctx, messages)
}

// IngestCache is a mock implementation of chatsite.IngestCache.
type IngestCache struct {
	GetFn func() (chatsite.IngestResult, bool)
	PutFn func(chatsite.IngestResult) chatsite.IngestResult
}

func (c *IngestCache) Get() (chatsite.IngestResult, bool) {
	return c.GetFn()
}

func (c *IngestCache) Put(res chatsite.IngestResult) chatsite.IngestResult {
	return c.PutFn(res)
}
