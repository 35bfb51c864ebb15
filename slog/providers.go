// Package slog provides logging decorators for the external-provider
// interfaces. Each decorator wraps an implementation and logs the
// operation, duration and error without changing behavior.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/larsmarsfars/chatsite"
)

// Ensure decorators implement their interfaces at compile time.
var (
	_ chatsite.SearchProvider = (*LoggingSearchProvider)(nil)
	_ chatsite.ImageSearcher  = (*LoggingImageSearcher)(nil)
	_ chatsite.Summarizer     = (*LoggingSummarizer)(nil)
)

// LoggingSearchProvider wraps a SearchProvider with debug logging.
type LoggingSearchProvider struct {
	next   chatsite.SearchProvider
	logger *slog.Logger
}

// NewLoggingSearchProvider creates a new LoggingSearchProvider.
func NewLoggingSearchProvider(next chatsite.SearchProvider, logger *slog.Logger) *LoggingSearchProvider {
	return &LoggingSearchProvider{next: next, logger: logger}
}

// Search delegates to the wrapped provider and logs the operation.
func (s *LoggingSearchProvider) Search(ctx context.Context, query string, count int) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search expansion",
			"query", query,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, count)
}

// LoggingImageSearcher wraps an ImageSearcher with debug logging.
type LoggingImageSearcher struct {
	next   chatsite.ImageSearcher
	name   string
	logger *slog.Logger
}

// NewLoggingImageSearcher creates a new LoggingImageSearcher. The name
// distinguishes searchers in a fallback chain.
func NewLoggingImageSearcher(next chatsite.ImageSearcher, name string, logger *slog.Logger) *LoggingImageSearcher {
	return &LoggingImageSearcher{next: next, name: name, logger: logger}
}

// SearchImages delegates to the wrapped searcher and logs the operation.
func (s *LoggingImageSearcher) SearchImages(ctx context.Context, query string, count int) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("image search",
			"provider", s.name,
			"query", query,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SearchImages(ctx, query, count)
}

// LoggingSummarizer wraps a Summarizer with debug logging.
type LoggingSummarizer struct {
	next   chatsite.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next chatsite.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs the operation.
func (s *LoggingSummarizer) Summarize(ctx context.Context, text string) (note string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("summarize",
			"input_bytes", len(text),
			"note_bytes", len(note),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, text)
}
