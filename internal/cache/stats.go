package cache

import (
	"sort"
	"time"
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries         int     `json:"entries"`
	MaxEntries      int     `json:"max_entries"`
	MemoryBytes     int64   `json:"memory_bytes"`
	MaxMemoryBytes  int64   `json:"max_memory_bytes"`
	Hits            int64   `json:"hits"`
	Misses          int64   `json:"misses"`
	HitRate         float64 `json:"hit_rate"` // 0-1
	Evictions       int64   `json:"evictions"`
	MemoryEvictions int64   `json:"memory_evictions"`
	Expirations     int64   `json:"expirations"`
}

// AgeBucket counts entries whose age falls in one histogram bucket.
type AgeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// KeyStat reports activity for one key.
type KeyStat struct {
	Key      string `json:"key"`
	HitCount int64  `json:"hit_count"`
	Size     int64  `json:"size"`
}

// DetailedMetrics extends Stats with age and hit distributions.
type DetailedMetrics struct {
	Stats
	AgeHistogram    []AgeBucket   `json:"age_histogram"`
	AverageHitCount float64       `json:"average_hit_count"`
	OldestEntryAge  time.Duration `json:"oldest_entry_age"`
	ExpiredPending  int           `json:"expired_pending"` // expired but not yet cleaned up
	TopKeys         []KeyStat     `json:"top_keys"`
}

// topKeysLimit bounds DetailedMetrics.TopKeys.
const topKeysLimit = 5

var ageBuckets = []struct {
	label string
	upTo  time.Duration
}{
	{"<1m", time.Minute},
	{"1-5m", 5 * time.Minute},
	{"5-15m", 15 * time.Minute},
	{"15-60m", time.Hour},
	{">1h", 0},
}

// Stats returns current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statsLocked()
}

func (c *Cache) statsLocked() Stats {
	s := Stats{
		Entries:         len(c.entries),
		MaxEntries:      c.cfg.MaxEntries,
		MemoryBytes:     c.memory,
		MaxMemoryBytes:  c.cfg.MaxMemoryBytes,
		Hits:            c.hits,
		Misses:          c.misses,
		Evictions:       c.evictions,
		MemoryEvictions: c.memoryEvictions,
		Expirations:     c.expirations,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// DetailedMetrics returns counters plus an entry age histogram and the most hit keys.
func (c *Cache) DetailedMetrics() DetailedMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	dm := DetailedMetrics{
		Stats:        c.statsLocked(),
		AgeHistogram: make([]AgeBucket, len(ageBuckets)),
	}
	for i, b := range ageBuckets {
		dm.AgeHistogram[i].Label = b.label
	}

	keys := make([]KeyStat, 0, len(c.entries))
	var totalHits int64
	for _, e := range c.entries {
		age := now.Sub(e.CreatedAt)
		dm.AgeHistogram[ageBucketIndex(age)].Count++
		if age > dm.OldestEntryAge {
			dm.OldestEntryAge = age
		}
		if e.expired(now) {
			dm.ExpiredPending++
		}
		totalHits += e.HitCount
		keys = append(keys, KeyStat{Key: e.Key, HitCount: e.HitCount, Size: e.Size})
	}
	if len(c.entries) > 0 {
		dm.AverageHitCount = float64(totalHits) / float64(len(c.entries))
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].HitCount != keys[j].HitCount {
			return keys[i].HitCount > keys[j].HitCount
		}
		return keys[i].Key < keys[j].Key
	})
	if len(keys) > topKeysLimit {
		keys = keys[:topKeysLimit]
	}
	dm.TopKeys = keys
	return dm
}

func ageBucketIndex(age time.Duration) int {
	for i, b := range ageBuckets {
		if b.upTo == 0 || age < b.upTo {
			return i
		}
	}
	return len(ageBuckets) - 1
}
