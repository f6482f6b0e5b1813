// Package cache provides the content-addressed result cache shared by concurrent scoring calls.
//
// Entries carry a TTL and are evicted least-recently-used first when the cache is full.
// When the estimated memory footprint would exceed the configured limit, the oldest 20%
// of entries by insertion time are dropped until the new entry fits. A background task,
// owned by whoever constructs the cache, removes expired entries independently of access.
package cache

import (
	"container/heap"
	"container/list"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/logging"
	"github.com/jonathan/match-engine/internal/metrics"
	"github.com/jonathan/match-engine/internal/types"
)

const (
	// memoryEvictionFraction is the share of entries dropped per memory-pressure pass
	memoryEvictionFraction = 0.2
	// cleanupBatchSize bounds how many expired entries are removed per lock acquisition
	cleanupBatchSize = 256
)

var errEntryTooLarge = errors.New("entry exceeds memory limit")

// Config holds cache limits.
type Config struct {
	MaxEntries      int           `json:"max_entries" mapstructure:"max_entries" validate:"gte=1"`
	MaxMemoryBytes  int64         `json:"max_memory_bytes" mapstructure:"max_memory_bytes" validate:"gte=0"` // 0 disables the memory limit
	DefaultTTL      time.Duration `json:"default_ttl" mapstructure:"default_ttl" validate:"gte=0"`            // 0 means entries never expire
	CleanupInterval time.Duration `json:"cleanup_interval" mapstructure:"cleanup_interval" validate:"gte=0"`  // 0 disables the background task
}

// DefaultConfig returns the default cache limits.
func DefaultConfig() Config {
	return Config{
		MaxEntries:      1000,
		MaxMemoryBytes:  100 << 20,
		DefaultTTL:      time.Hour,
		CleanupInterval: 5 * time.Minute,
	}
}

// Sizer lets payloads report their own memory estimate instead of being JSON-encoded.
type Sizer interface {
	SizeBytes() int64
}

// Entry is one cached payload with its bookkeeping.
type Entry struct {
	Key            string
	Payload        any
	CreatedAt      time.Time
	ExpiresAt      time.Time // zero means no expiry
	HitCount       int64
	LastAccessedAt time.Time
	Size           int64

	elem      *list.Element
	heapIndex int
}

func (e *Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Cache is a concurrency-safe TTL + LRU cache.
type Cache struct {
	mu      sync.Mutex
	cfg     Config
	entries map[string]*Entry
	lru     *list.List // front is most recently used
	expiry  expiryHeap
	memory  int64

	hits            int64
	misses          int64
	evictions       int64
	memoryEvictions int64
	expirations     int64

	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	done      chan struct{}
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock injects the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) { c.logger = logging.Component(logger, "cache") }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// New creates a cache. The cleanup task is not running until Start is called.
func New(cfg Config, opts ...Option) *Cache {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultConfig().MaxEntries
	}

	c := &Cache{
		cfg:     cfg,
		entries: make(map[string]*Entry),
		lru:     list.New(),
		now:     time.Now,
		logger:  zap.NewNop(),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives a bounded-size key from the signal kind, both texts and the options.
// Texts are hashed, never embedded.
func Key(kind string, textA, textB string, opts any) string {
	optHash := uint64(0)
	if opts != nil {
		data, err := json.Marshal(opts)
		if err != nil {
			data = []byte(fmt.Sprintf("%v", opts))
		}
		optHash = xxhash.Sum64(data)
	}
	return fmt.Sprintf("%s:%016x:%016x:%016x", kind, xxhash.Sum64String(textA), xxhash.Sum64String(textB), optHash)
}

// Get returns the payload stored under key. Expired entries are removed and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		c.metrics.CacheMiss()
		return nil, false
	}
	if e.expired(now) {
		c.removeLocked(e)
		c.expirations++
		c.misses++
		c.metrics.CacheEviction(metrics.EvictExpired, 1)
		c.metrics.CacheMiss()
		return nil, false
	}

	e.HitCount++
	e.LastAccessedAt = now
	c.lru.MoveToFront(e.elem)
	c.hits++
	c.metrics.CacheHit()
	return e.Payload, true
}

// Set stores payload under key. A ttl of 0 uses the configured default.
// The returned error is informational; callers on the scoring path ignore it and recompute.
func (c *Cache) Set(key string, payload any, ttl time.Duration) error {
	size, err := estimateSize(key, payload)
	if err != nil {
		c.logger.Warn("cache set failed", zap.String(logging.FieldCacheKey, key), zap.Error(err))
		return &types.CacheError{Op: "set", Key: key, Cause: err}
	}
	if c.cfg.MaxMemoryBytes > 0 && size > c.cfg.MaxMemoryBytes {
		c.logger.Warn("cache entry too large", zap.String(logging.FieldCacheKey, key), zap.Int64("size", size))
		return &types.CacheError{Op: "set", Key: key, Cause: errEntryTooLarge}
	}
	if ttl <= 0 {
		ttl = c.cfg.DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if old, ok := c.entries[key]; ok {
		c.removeLocked(old)
	}

	for len(c.entries) >= c.cfg.MaxEntries {
		c.evictLRULocked()
	}

	for c.cfg.MaxMemoryBytes > 0 && c.memory+size > c.cfg.MaxMemoryBytes && len(c.entries) > 0 {
		c.evictOldestLocked()
	}

	e := &Entry{
		Key:            key,
		Payload:        payload,
		CreatedAt:      now,
		LastAccessedAt: now,
		Size:           size,
		heapIndex:      -1,
	}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
		heap.Push(&c.expiry, e)
	}
	e.elem = c.lru.PushFront(e)
	c.entries[key] = e
	c.memory += size
	c.metrics.CacheEntries(len(c.entries))
	return nil
}

// Delete removes key if present.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeLocked(e)
	c.metrics.CacheEntries(len(c.entries))
	return true
}

// Len returns the number of stored entries, including expired ones not yet cleaned up.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes every entry. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry)
	c.lru.Init()
	c.expiry = nil
	c.memory = 0
	c.metrics.CacheEntries(0)
}

// Cleanup removes expired entries and returns how many were removed.
// The lock is released between batches so request-path reads are never blocked for long.
func (c *Cache) Cleanup() int {
	total := 0
	for {
		n := c.cleanupBatch()
		total += n
		if n < cleanupBatchSize {
			break
		}
	}
	if total > 0 {
		c.logger.Debug("expired entries removed", zap.Int("count", total))
	}
	return total
}

func (c *Cache) cleanupBatch() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for removed < cleanupBatchSize && len(c.expiry) > 0 && c.expiry[0].expired(now) {
		c.removeLocked(c.expiry[0])
		removed++
	}
	c.expirations += int64(removed)
	c.metrics.CacheEviction(metrics.EvictExpired, removed)
	c.metrics.CacheEntries(len(c.entries))
	return removed
}

// Start launches the periodic cleanup task. It is a no-op when CleanupInterval is 0
// or when called more than once.
func (c *Cache) Start() {
	if c.cfg.CleanupInterval <= 0 {
		return
	}
	c.startOnce.Do(func() {
		go c.cleanupLoop()
	})
}

func (c *Cache) cleanupLoop() {
	defer close(c.done)

	ticker := time.NewTicker(c.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Cleanup()
		case <-c.stopCh:
			return
		}
	}
}

// Stop halts the cleanup task and waits for it to exit.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		started := true
		c.startOnce.Do(func() { started = false })
		if started {
			<-c.done
		}
	})
}

// Close stops the cleanup task and drops every entry.
func (c *Cache) Close() error {
	c.Stop()
	c.Clear()
	return nil
}

func (c *Cache) evictLRULocked() {
	back := c.lru.Back()
	if back == nil {
		return
	}
	c.removeLocked(back.Value.(*Entry))
	c.evictions++
	c.metrics.CacheEviction(metrics.EvictLRU, 1)
}

// evictOldestLocked drops the oldest memoryEvictionFraction of entries by insertion time.
func (c *Cache) evictOldestLocked() {
	all := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].Key < all[j].Key
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	n := int(float64(len(all)) * memoryEvictionFraction)
	if n < 1 {
		n = 1
	}
	for _, e := range all[:n] {
		c.removeLocked(e)
	}
	c.memoryEvictions += int64(n)
	c.metrics.CacheEviction(metrics.EvictMemory, n)
	c.logger.Debug("memory pressure eviction", zap.Int("evicted", n), zap.Int64("memory_bytes", c.memory))
}

func (c *Cache) removeLocked(e *Entry) {
	delete(c.entries, e.Key)
	if e.elem != nil {
		c.lru.Remove(e.elem)
		e.elem = nil
	}
	if e.heapIndex >= 0 && e.heapIndex < len(c.expiry) && c.expiry[e.heapIndex] == e {
		heap.Remove(&c.expiry, e.heapIndex)
	}
	c.memory -= e.Size
}

func estimateSize(key string, payload any) (int64, error) {
	if s, ok := payload.(Sizer); ok {
		return s.SizeBytes() + int64(len(key)), nil
	}
	switch p := payload.(type) {
	case string:
		return int64(len(p) + len(key)), nil
	case []byte:
		return int64(len(p) + len(key)), nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to estimate payload size: %w", err)
	}
	return int64(len(data) + len(key)), nil
}

// expiryHeap is a min-heap of entries ordered by ExpiresAt.
type expiryHeap []*Entry

func (h expiryHeap) Len() int           { return len(h) }
func (h expiryHeap) Less(i, j int) bool { return h[i].ExpiresAt.Before(h[j].ExpiresAt) }
func (h expiryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *expiryHeap) Push(x any) {
	e := x.(*Entry)
	e.heapIndex = len(*h)
	*h = append(*h, e)
}

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heapIndex = -1
	*h = old[:n-1]
	return e
}
