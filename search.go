package chatsite

import "context"

// SearchProvider expands a free-text query into candidate URLs.
// Providers are best-effort collaborators: the crawler treats an error
// as an empty result and moves on.
type SearchProvider interface {
	Search(ctx context.Context, query string, count int) ([]string, error)
}

// ImageSearcher finds illustrative image URLs for a query. Multiple
// searchers can be chained as a fallback sequence.
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string, count int) ([]string, error)
}
