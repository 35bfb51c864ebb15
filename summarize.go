package chatsite

import "context"

// Summarizer condenses extracted page text into a single consolidated
// fact note. A summarizer handles its own chunking; callers pass the
// full (already truncated) page text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
