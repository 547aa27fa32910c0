// Package cache provides an LRU cache and a cache of compiled token streams
// keyed by document content.
package cache

import (
	"container/list"
	"sync"

	"github.com/FocuswithJustin/annodex/core/compiler"
	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/core/stream"
)

// Stats contains cache statistics.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	MaxSize   int
}

// Config contains cache configuration options.
type Config struct {
	// MaxSize is the maximum number of entries (0 = unlimited).
	MaxSize int

	// OnEvict is called when an entry is evicted.
	OnEvict func(key, value any)
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{MaxSize: 1024}
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// LRU is a thread-safe least-recently-used cache.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	config    Config
	entries   map[K]*list.Element
	evictList *list.List
	stats     Stats
}

// NewLRU creates an LRU cache with the given configuration.
func NewLRU[K comparable, V any](config Config) *LRU[K, V] {
	if config.MaxSize < 0 {
		config.MaxSize = 0
	}
	return &LRU[K, V]{
		config:    config,
		entries:   make(map[K]*list.Element),
		evictList: list.New(),
	}
}

// Get retrieves a value and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.evictList.MoveToFront(ent)
	c.stats.Hits++
	return ent.Value.(*entry[K, V]).value, true
}

// Put stores a value, evicting the least recently used entry when full.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*entry[K, V]).value = value
		return
	}

	c.entries[key] = c.evictList.PushFront(&entry[K, V]{key: key, value: value})
	if c.config.MaxSize > 0 && c.evictList.Len() > c.config.MaxSize {
		if oldest := c.evictList.Back(); oldest != nil {
			c.remove(oldest)
			c.stats.Evictions++
		}
	}
}

// Remove removes a value.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.remove(ent)
	}
}

// Clear removes all entries without calling OnEvict.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*list.Element)
	c.evictList.Init()
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Stats returns cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.evictList.Len()
	s.MaxSize = c.config.MaxSize
	return s
}

func (c *LRU[K, V]) remove(ent *list.Element) {
	c.evictList.Remove(ent)
	e := ent.Value.(*entry[K, V])
	delete(c.entries, e.key)
	if c.config.OnEvict != nil {
		c.config.OnEvict(e.key, e.value)
	}
}

// compiled is what Streams keeps per document.
type compiled struct {
	positions int
	tokens    []stream.IndexToken
	stats     compiler.Stats
}

// Streams caches compilation results by document content, so a document
// seen again with identical ID, text and spans is not recompiled.
// Results are only valid for the compiler that produced them.
type Streams struct {
	lru *LRU[string, compiled]
}

// NewStreams creates a stream cache.
func NewStreams(config Config) *Streams {
	return &Streams{lru: NewLRU[string, compiled](config)}
}

// Key returns the cache key of doc.
func Key(doc *ir.Document) (string, error) {
	return ir.HashDocument(doc)
}

// Get returns a fresh stream for a cached key.
func (c *Streams) Get(key string, docID string) (*stream.Stream, compiler.Stats, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, compiler.Stats{}, false
	}
	return stream.Assemble(docID, v.positions, v.tokens), v.stats, true
}

// Put records the result of compiling the document with the given key.
// The stream is not consumed.
func (c *Streams) Put(key string, s *stream.Stream, stats compiler.Stats) {
	c.lru.Put(key, compiled{positions: s.PositionCount(), tokens: s.Tokens(), stats: stats})
}

// Compile returns the cached result for doc or compiles it with comp.
// Failed compilations are not cached.
func (c *Streams) Compile(comp *compiler.Compiler, doc *ir.Document) (*stream.Stream, compiler.Stats, error) {
	key, err := Key(doc)
	if err != nil {
		return comp.CompileStats(doc)
	}
	if s, stats, ok := c.Get(key, doc.ID); ok {
		return s, stats, nil
	}
	s, stats, err := comp.CompileStats(doc)
	if err != nil {
		return nil, stats, err
	}
	c.Put(key, s, stats)
	return s, stats, nil
}

// Stats returns cache statistics.
func (c *Streams) Stats() Stats {
	return c.lru.Stats()
}
