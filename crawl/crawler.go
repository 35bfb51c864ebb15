// Package crawl orchestrates the ingest pipeline: search-provider query
// expansion, bounded breadth-first crawling, and chunked summarization
// of crawled pages into fact notes.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/larsmarsfars/chatsite"
	"golang.org/x/sync/errgroup"
)

const (
	// searchResultsPerQuery caps provider expansion per free-text query.
	searchResultsPerQuery = 8

	// DefaultPerDomain is the per-domain fetch quota within one pass.
	DefaultPerDomain = 6

	// frontierExpectedURLs sizes the frontier's Bloom filter.
	frontierExpectedURLs = 1000
)

// looksLikePage weeds out discovered links without a plausible hostname
// TLD before they reach the queue.
var looksLikePage = regexp.MustCompile(`\.[a-z]{2,}`)

// FetchObserver receives the terminal outcome of every URL that entered
// a crawl pass, keyed by the lowercase URLStatus name.
type FetchObserver interface {
	ObserveFetch(outcome string)
}

// Crawler performs a shallow, quota-bounded, same-domain breadth-first
// crawl. One fetch is in flight at a time; breadth is bounded by the
// per-domain quota and the frontier's pending cap.
type Crawler struct {
	Fetcher chatsite.PageFetcher
	Links   chatsite.LinkExtractor
	Images  chatsite.ImageExtractor

	// Search expands free-text queries into seed URLs. Optional; when
	// nil, queries are ignored.
	Search chatsite.SearchProvider

	// Limiter applies per-domain politeness. Optional.
	Limiter *DomainLimiter

	// Observer counts per-URL outcomes. Optional.
	Observer FetchObserver

	// PerDomain is the fetch-attempt quota per domain per pass.
	// Defaults to DefaultPerDomain when zero.
	PerDomain int
}

// PageReport records the terminal state of one URL in a pass.
type PageReport struct {
	URL    string
	Status URLStatus
	Reason string
}

// Result holds everything one crawl pass produced.
type Result struct {
	Pages   []chatsite.Page
	Gallery []chatsite.GalleryImage
	Report  []PageReport
}

// Crawl expands the request's queries, filters by the allow-list, and
// walks the resulting seeds breadth-first. Failed fetches contribute no
// page and are not retried; they still consume domain quota so a dead
// host cannot monopolize a pass. Returns an error only on context
// cancellation.
func (c *Crawler) Crawl(ctx context.Context, req chatsite.CrawlRequest) (*Result, error) {
	seeds := c.expand(ctx, req)
	seeds = filterAllowed(seeds, req.AllowDomains)

	frontier := NewFrontier(frontierExpectedURLs)
	quota := newQuotaLedger(c.perDomain())
	for _, u := range seeds {
		frontier.Push(u)
	}

	var result Result
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		u, ok := frontier.Pop()
		if !ok {
			break
		}

		domain := domainOf(u)
		if domain == "" {
			frontier.SetStatus(u, StatusDropped)
			continue
		}
		if quota.exhausted(domain) {
			frontier.SetStatus(u, StatusSkipped)
			continue
		}
		quota.record(domain)

		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx, domain); err != nil {
				return nil, err
			}
		}

		frontier.SetStatus(u, StatusFetching)
		fetched := c.Fetcher.Fetch(ctx, u)
		if !fetched.OK || fetched.Body == "" {
			frontier.SetStatus(u, StatusFailed, reasonForFetch(fetched))
			continue
		}
		frontier.SetStatus(u, StatusFetched)

		result.Pages = append(result.Pages, chatsite.Page{URL: u, HTML: fetched.Body})
		for _, src := range c.Images.ExtractImages(fetched.Body, u) {
			result.Gallery = append(result.Gallery, chatsite.GalleryImage{Src: src, From: u})
		}

		// No room left on this domain; discovered links would only be
		// skipped later.
		if quota.exhausted(domain) {
			continue
		}
		for _, link := range c.Links.ExtractLinks(fetched.Body, u) {
			if domainOf(link) != domain {
				continue
			}
			if !looksLikePage.MatchString(strings.ToLower(link)) {
				continue
			}
			frontier.Push(link)
		}
	}

	result.Gallery = dedupeGallery(result.Gallery)
	result.Report = frontier.Report()
	if c.Observer != nil {
		for _, r := range result.Report {
			c.Observer.ObserveFetch(r.Status.String())
		}
	}
	return &result, nil
}

// expand combines explicit seed URLs with search-provider results for
// each query, deduplicated by fragment-stripped normalized form.
// Provider lookups run concurrently and are best-effort: a failed or
// absent provider contributes nothing.
func (c *Crawler) expand(ctx context.Context, req chatsite.CrawlRequest) []string {
	urls := append([]string(nil), req.URLs...)

	if c.Search != nil && len(req.Queries) > 0 {
		found := make([][]string, len(req.Queries))
		var g errgroup.Group
		for i, q := range req.Queries {
			g.Go(func() error {
				results, err := c.Search.Search(ctx, q, searchResultsPerQuery)
				if err != nil {
					return nil // best-effort
				}
				found[i] = results
				return nil
			})
		}
		_ = g.Wait()
		for _, results := range found {
			urls = append(urls, results...)
		}
	}

	return dedupeURLs(urls)
}

func (c *Crawler) perDomain() int {
	if c.PerDomain > 0 {
		return c.PerDomain
	}
	return DefaultPerDomain
}

// quotaLedger counts fetch attempts per domain within one pass.
type quotaLedger struct {
	limit  int
	counts map[string]int
}

func newQuotaLedger(limit int) *quotaLedger {
	return &quotaLedger{limit: limit, counts: make(map[string]int)}
}

func (l *quotaLedger) exhausted(domain string) bool {
	return l.counts[domain] >= l.limit
}

func (l *quotaLedger) record(domain string) {
	l.counts[domain]++
}

// domainOf returns the lowercase hostname with a leading "www."
// stripped, or "" if the URL cannot be parsed.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// dedupeURLs removes duplicates by normalized (fragment-stripped) form,
// preserving first-seen order. Unparseable entries dedupe by raw string.
func dedupeURLs(urls []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, raw := range urls {
		key := raw
		if u, err := url.Parse(raw); err == nil {
			u.Fragment = ""
			key = u.String()
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

// filterAllowed drops URLs whose domain is not in the allow-list.
// An empty allow-list means no restriction.
func filterAllowed(urls []string, allowDomains []string) []string {
	if len(allowDomains) == 0 {
		return urls
	}
	allowed := make(map[string]bool, len(allowDomains))
	for _, d := range allowDomains {
		allowed[strings.ToLower(d)] = true
	}
	var out []string
	for _, u := range urls {
		if allowed[domainOf(u)] {
			out = append(out, u)
		}
	}
	return out
}

// dedupeGallery removes gallery entries with duplicate Src, keeping the
// first occurrence.
func dedupeGallery(gallery []chatsite.GalleryImage) []chatsite.GalleryImage {
	seen := make(map[string]bool, len(gallery))
	out := gallery[:0]
	for _, img := range gallery {
		if img.Src == "" || seen[img.Src] {
			continue
		}
		seen[img.Src] = true
		out = append(out, img)
	}
	return out
}

// reasonForFetch summarizes a failed fetch for the report.
func reasonForFetch(res chatsite.FetchResult) string {
	if res.Err != "" {
		return res.Err
	}
	if res.OK {
		return "empty body"
	}
	return fmt.Sprintf("HTTP %d", res.Status)
}
