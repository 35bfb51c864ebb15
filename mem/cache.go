// Package mem provides the process-lifetime, in-memory implementation of
// the ingest cache. State is reset on process restart; there is no
// durable storage behind it.
package mem

import (
	"sync"
	"time"

	"github.com/larsmarsfars/chatsite"
)

// DefaultTTL is how long a completed ingest pass is served from memory
// before a fresh crawl is required.
const DefaultTTL = 5 * time.Minute

// Ensure IngestCache implements chatsite.IngestCache at compile time.
var _ chatsite.IngestCache = (*IngestCache)(nil)

// IngestCache memoizes the last completed ingest pass. A single mutex
// guards all three fields so concurrent ingest requests cannot
// interleave partial writes.
type IngestCache struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	result chatsite.IngestResult
	filled bool
}

// Option configures an IngestCache.
type Option func(*IngestCache)

// WithTTL overrides the freshness window. Defaults to DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(c *IngestCache) {
		c.ttl = d
	}
}

// WithClock overrides the time source. Tests use this to step through
// the freshness window without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *IngestCache) {
		c.now = now
	}
}

// NewIngestCache creates an empty IngestCache.
func NewIngestCache(opts ...Option) *IngestCache {
	c := &IngestCache{
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the stored result while it is fresh and has at least one
// note. A stale or empty cache reports a miss; the caller is expected
// to run a fresh pass and Put the outcome.
func (c *IngestCache) Get() (chatsite.IngestResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.filled || len(c.result.Notes) == 0 {
		return chatsite.IngestResult{}, false
	}
	if c.now().Sub(c.result.ProducedAt) >= c.ttl {
		return chatsite.IngestResult{}, false
	}
	return c.result, true
}

// Put replaces the stored result wholesale and returns it with
// ProducedAt stamped. There are no partial updates and no per-entry
// expiry.
func (c *IngestCache) Put(result chatsite.IngestResult) chatsite.IngestResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	result.ProducedAt = c.now()
	c.result = result
	c.filled = true
	return result
}
