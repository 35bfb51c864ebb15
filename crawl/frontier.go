package crawl

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// URLStatus tracks a URL through one crawl pass.
type URLStatus int

// Per-URL crawl states. Terminal states are Fetched, Skipped, Failed
// and Dropped; Queued and Fetching are in-flight.
const (
	StatusQueued URLStatus = iota
	StatusFetching
	StatusFetched
	StatusSkipped // domain quota exhausted before the fetch
	StatusFailed  // fetch attempted, no usable body
	StatusDropped // unparseable domain
)

// String returns the lowercase name of the status.
func (s URLStatus) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusFetching:
		return "fetching"
	case StatusFetched:
		return "fetched"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusDropped:
		return "dropped"
	}
	return "unknown"
}

// maxPending bounds the number of queued-but-unprocessed URLs in one
// pass, as a safety cap against link farms.
const maxPending = 100

// frontierFalsePositiveRate is the acceptable Bloom filter false
// positive rate for enqueue deduplication.
const frontierFalsePositiveRate = 0.01

// Frontier is a FIFO crawl queue with Bloom-filter deduplication of
// everything ever enqueued. URL fragments are stripped before
// deduplication, so URLs differing only by fragment are one entry.
// It is safe for concurrent use.
type Frontier struct {
	mu     sync.Mutex
	seen   *bloom.BloomFilter
	queue  []string
	order  []string // insertion order, for the report
	state  map[string]URLStatus
	reason map[string]string
}

// NewFrontier creates a Frontier sized for n expected URLs.
func NewFrontier(n uint) *Frontier {
	return &Frontier{
		seen:   bloom.NewWithEstimates(n, frontierFalsePositiveRate),
		state:  make(map[string]URLStatus),
		reason: make(map[string]string),
	}
}

// Push enqueues a URL in StatusQueued. Returns false when the URL was
// already seen this pass or the pending queue is at capacity.
func (f *Frontier) Push(rawURL string) bool {
	u := stripFragment(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestString(u) {
		return false
	}
	if len(f.queue) >= maxPending {
		return false
	}
	f.seen.AddString(u)
	f.queue = append(f.queue, u)
	f.order = append(f.order, u)
	f.state[u] = StatusQueued
	return true
}

// Pop returns the next URL in FIFO order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue = f.queue[1:]
	return u, true
}

// Len returns the number of pending URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen reports whether the URL has been enqueued this pass.
// Fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.TestString(stripFragment(rawURL))
}

// SetStatus records the state transition for a URL. An optional reason
// explains terminal failure states in the report.
func (f *Frontier) SetStatus(rawURL string, s URLStatus, reason ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := stripFragment(rawURL)
	f.state[u] = s
	if len(reason) > 0 {
		f.reason[u] = reason[0]
	}
}

// Report returns the terminal state of every URL that entered the
// frontier, in insertion order.
func (f *Frontier) Report() []PageReport {
	f.mu.Lock()
	defer f.mu.Unlock()

	report := make([]PageReport, 0, len(f.order))
	for _, u := range f.order {
		report = append(report, PageReport{URL: u, Status: f.state[u], Reason: f.reason[u]})
	}
	return report
}

// stripFragment removes the #fragment part of a URL, if any.
func stripFragment(u string) string {
	if idx := strings.Index(u, "#"); idx != -1 {
		return u[:idx]
	}
	return u
}
