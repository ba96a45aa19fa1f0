// Package cache implements the CompilationCache spec.md §3/§4.5 describes:
// a bounded, URI-keyed cache of ParseResults validated by a content
// fingerprint, evicted LRU-first, with concurrent compiles of the same
// (uri, content) pair collapsed so two concurrent requests for the same
// stale document trigger exactly one recompile rather than a thundering
// herd (spec.md §5's ordering guarantee).
package cache

import (
	"container/list"
	"hash/fnv"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/groovylang/lsp-core/gparse"
)

// DefaultCapacity is the default max_cached_documents value (spec.md
// §4.5, internal/config.CoreConfig).
const DefaultCapacity = 100

// Stats mirrors the hit/miss/eviction counters the teacher's
// ASTCache.Stats() exposes, surfaced here for the engine's diagnostics and
// debug logging (SPEC_FULL.md §1.1).
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

type entry struct {
	uri         string
	fingerprint uint64
	result      gparse.ParseResult
}

// Cache is safe for concurrent use. Capacity <= 0 falls back to
// DefaultCapacity.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	index    map[string]*list.Element
	group    singleflight.Group
	stats    Stats
	log      *zap.Logger
}

// New creates an empty Cache. log may be nil, in which case a no-op
// logger is used — callers that haven't wired internal/logging yet (e.g.
// unit tests) still get a working Cache.
func New(capacity int, log *zap.Logger) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
		log:      log,
	}
}

func fingerprint(content string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(content))
	return h.Sum64()
}

// Get returns the cached ParseResult for uri without validating it
// against any current content — callers that already know the document
// hasn't changed since the last Put (e.g. a provider re-reading the same
// compiled document within one request) use this to avoid re-hashing.
func (c *Cache) Get(uri string) (gparse.ParseResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[uri]
	if !ok {
		c.stats.Misses++
		return gparse.ParseResult{}, false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	return el.Value.(*entry).result, true
}

// GetOrCompile returns the cached ParseResult for uri if its fingerprint
// still matches content, or compiles, caches, and returns a fresh one
// otherwise. Concurrent calls for the same uri and the same content while
// a compile is in flight share a single gparse.Parse invocation via
// singleflight, so a burst of requests against one freshly-edited document
// never causes redundant parses (spec.md §4.5, §5); a call with different
// content never receives another content's result.
func (c *Cache) GetOrCompile(uri, content string) gparse.ParseResult {
	fp := fingerprint(content)

	c.mu.Lock()
	if el, ok := c.index[uri]; ok {
		e := el.Value.(*entry)
		if e.fingerprint == fp {
			c.order.MoveToFront(el)
			c.stats.Hits++
			c.mu.Unlock()
			return e.result
		}
	}
	c.stats.Misses++
	c.mu.Unlock()

	key := uri + "\x00" + strconv.FormatUint(fp, 16)
	v, _, _ := c.group.Do(key, func() (any, error) {
		result := gparse.Parse(gparse.Request{URI: uri, Source: content})
		c.Put(uri, content, result)
		return result, nil
	})
	return v.(gparse.ParseResult)
}

// Put inserts or replaces uri's cached entry, evicting the least recently
// used entry first if the cache is at capacity.
func (c *Cache) Put(uri, content string, result gparse.ParseResult) {
	fp := fingerprint(content)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[uri]; ok {
		el.Value.(*entry).fingerprint = fp
		el.Value.(*entry).result = result
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&entry{uri: uri, fingerprint: fp, result: result})
	c.index[uri] = el

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		oe := oldest.Value.(*entry)
		c.order.Remove(oldest)
		delete(c.index, oe.uri)
		c.stats.Evictions++
		c.log.Debug("cache eviction", zap.String("uri", oe.uri))
	}
}

// CompileTransient parses content without touching the cache at all —
// used by the completion provider's speculative sentinel-insertion flow
// (spec.md §4.6.1), which must never let a throwaway, sentinel-patched
// compile displace the real cached ParseResult for uri.
func (c *Cache) CompileTransient(uri, content string) gparse.ParseResult {
	return gparse.Parse(gparse.Request{URI: uri, Source: content})
}

// Invalidate removes uri's cached entry without compiling a replacement,
// used on document close (spec.md §6 "close").
func (c *Cache) Invalidate(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[uri]; ok {
		c.order.Remove(el)
		delete(c.index, uri)
	}
}

// Clear empties the cache entirely, used on a coarse workspace-changed
// invalidation event (spec.md §4.5, workspace/).
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.index = make(map[string]*list.Element)
}

// Statistics returns a snapshot of the cache's hit/miss/eviction counters.
func (c *Cache) Statistics() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
