package chatsite

import "time"

// Note is a consolidated fact summary of one crawled page. Notes are
// immutable once produced; they are the unit stored in the ingest cache
// and forwarded to the chat handler as conversation context.
type Note struct {
	URL  string `json:"url"`
	Note string `json:"note"`
}

// GalleryImage is a candidate illustrative image discovered on a crawled
// page. Src is always an absolute URL; From is the page it came from.
type GalleryImage struct {
	Src  string `json:"src"`
	From string `json:"from"`
}

// CrawlRequest describes one ingest pass: explicit seed URLs, free-text
// queries to expand through a search provider, and an optional domain
// allow-list. An empty allow-list means no restriction.
type CrawlRequest struct {
	URLs         []string `json:"urls"`
	Queries      []string `json:"queries"`
	AllowDomains []string `json:"allowDomains"`
}

// IngestResult is the product of one completed crawl+summarize pass.
// Offline marks results produced without a language-model credential,
// where notes fall back to truncated raw page text.
type IngestResult struct {
	ProducedAt time.Time
	Notes      []Note
	Gallery    []GalleryImage
	Offline    bool
}

// IngestCache memoizes the last completed ingest pass for a bounded time
// window. Get reports a hit only while the stored result is fresh and
// has at least one note. Put replaces the stored result wholesale and
// returns it with ProducedAt stamped; there are no partial updates.
// Implementations must be safe for concurrent use.
type IngestCache interface {
	Get() (IngestResult, bool)
	Put(IngestResult) IngestResult
}
