// Package http provides the HTTP side of the system: the time-boxed page
// fetcher used by the crawler, and the server exposing the ingest, ask
// and images endpoints.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/larsmarsfars/chatsite"
)

// DefaultFetchTimeout bounds one page fetch, including body read.
const DefaultFetchTimeout = 12 * time.Second

// userAgent identifies crawl fetches to origin servers.
const userAgent = "chatsite-ingest/1.0"

// Ensure Fetcher implements chatsite.PageFetcher at compile time.
var _ chatsite.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves page bodies over plain HTTP. It never reports a Go
// error: transport and timeout failures are folded into the FetchResult
// so the crawl loop can treat every fetch uniformly.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout overrides the per-fetch timeout.
// Defaults to DefaultFetchTimeout (12s) if not specified.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new page Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{}
	return f
}

// Fetch performs one GET bounded by the fetcher timeout. A non-2xx
// response still carries its status and body; a transport failure or
// timeout yields OK=false with Status 0 and the error text in Err.
func (f *Fetcher) Fetch(ctx context.Context, url string) chatsite.FetchResult {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return chatsite.FetchResult{URL: url, Err: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return chatsite.FetchResult{URL: url, Err: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return chatsite.FetchResult{URL: url, Status: resp.StatusCode, Err: err.Error()}
	}

	return chatsite.FetchResult{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		URL:    url,
		Body:   string(body),
	}
}
