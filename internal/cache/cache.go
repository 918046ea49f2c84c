// Package cache provides the process-wide keyed store for parsed day indexes
// and other derived values. Entries carry no TTL of their own: the freshness
// window is chosen by the reader, so one stored value can be fresh for a
// historical query and stale for a current-day one. Because of that, cache
// keys must encode the full semantic scope of a query.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Window presets by data class. Current-day data may still be growing under
// the crawler, historical days are immutable, configuration changes rarely.
const (
	TodayWindow      = 15 * time.Minute
	HistoricalWindow = 30 * time.Minute
	ConfigWindow     = time.Hour
)

type cacheEntry struct {
	value    interface{}
	storedAt time.Time
}

// Stats describes the current contents of the store.
type Stats struct {
	TotalEntries   int           `json:"totalEntries"`
	OldestEntryAge time.Duration `json:"oldestEntryAge"`
	NewestEntryAge time.Duration `json:"newestEntryAge"`
}

// Store is a mutex-guarded in-memory cache. One instance is constructed at
// process start and passed to every component that needs it.
type Store struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// New creates an empty store.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock creates a store with an injected clock. Tests use this to
// exercise expiry without sleeping.
func NewWithClock(now func() time.Time) *Store {
	return &Store{entries: make(map[string]cacheEntry), now: now}
}

// Get returns the value stored under key if it is younger than maxAge.
// An entry found older than maxAge is deleted on the spot, so a later read
// with a wider window will not resurrect it.
func (s *Store) Get(key string, maxAge time.Duration) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.storedAt) >= maxAge {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, overwriting any prior entry.
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = cacheEntry{value: value, storedAt: s.now()}
}

// Delete removes key. It reports whether an entry existed.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// DeletePrefix removes every entry whose key starts with prefix and returns
// the count removed. The watcher uses this to drop all variants of a day's
// index when new snapshot files land.
func (s *Store) DeletePrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]cacheEntry)
}

// SweepExpired removes every entry older than maxAge and returns the count.
// Not required for correctness, only for memory reclamation.
func (s *Store) SweepExpired(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for k, e := range s.entries {
		if now.Sub(e.storedAt) >= maxAge {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// GetStats reports entry count and age spread.
func (s *Store) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{TotalEntries: len(s.entries)}
	now := s.now()
	first := true
	for _, e := range s.entries {
		age := now.Sub(e.storedAt)
		if first {
			stats.OldestEntryAge = age
			stats.NewestEntryAge = age
			first = false
			continue
		}
		if age > stats.OldestEntryAge {
			stats.OldestEntryAge = age
		}
		if age < stats.NewestEntryAge {
			stats.NewestEntryAge = age
		}
	}
	return stats
}
