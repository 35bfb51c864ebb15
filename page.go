package chatsite

import "context"

// Page represents a successfully fetched raw page awaiting extraction.
// Pages are transient; they live only for the duration of one crawl pass.
type Page struct {
	URL  string
	HTML string
}

// FetchResult is the outcome of a single page fetch. Fetching never fails
// with a Go error: transport and timeout problems are captured in Err
// with OK false and Status zero so the crawl loop can carry on.
type FetchResult struct {
	OK     bool
	Status int
	URL    string
	Body   string
	Err    string
}

// PageFetcher performs one time-boxed network fetch of a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) FetchResult
}
