package aggregator

import (
	"slices"
	"sync"
	"time"

	"github.com/mmynk/macrotrack/internal/calendar"
	"github.com/mmynk/macrotrack/internal/models"
)

// DayCache keeps fetched raw entries per user and ISO date so re-expanding a
// day does not re-fetch it. It is advisory: an empty cache is always correct.
//
// Each slot carries a generation. Invalidate bumps it, and a fetch that began
// before the bump cannot store its (now stale) result. A slot exists only
// while it holds entries or has fetches in flight.
type DayCache struct {
	cal calendar.Calendar

	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	gen     uint64
	pending int
	filled  bool
	entries []models.MealLogEntry
}

// NewDayCache creates an empty cache keyed by days of cal.
func NewDayCache(cal calendar.Calendar) *DayCache {
	return &DayCache{cal: cal, slots: make(map[string]*slot)}
}

func cacheKey(userID, dayKey string) string {
	return userID + "|" + dayKey
}

// Get returns the cached entries for the day. On a miss it registers a fetch
// and returns the generation to pass to Put, or Abandon if the fetch fails.
func (c *DayCache) Get(userID, dayKey string) ([]models.MealLogEntry, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(userID, dayKey)
	s, ok := c.slots[key]
	if !ok {
		s = &slot{}
		c.slots[key] = s
	}
	if s.filled {
		return slices.Clone(s.entries), s.gen, true
	}
	s.pending++
	return nil, s.gen, false
}

// Put stores entries fetched at generation gen. It reports false and stores
// nothing if the day was invalidated in the meantime.
func (c *DayCache) Put(userID, dayKey string, gen uint64, entries []models.MealLogEntry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(userID, dayKey)
	s, ok := c.slots[key]
	if !ok {
		if gen != 0 {
			return false
		}
		s = &slot{}
		c.slots[key] = s
	}
	if s.pending > 0 {
		s.pending--
	}
	if s.gen != gen {
		c.prune(key, s)
		return false
	}
	s.filled = true
	s.entries = slices.Clone(entries)
	return true
}

// Abandon ends a fetch registered by Get without storing anything.
func (c *DayCache) Abandon(userID, dayKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(userID, dayKey)
	s, ok := c.slots[key]
	if !ok {
		return
	}
	if s.pending > 0 {
		s.pending--
	}
	c.prune(key, s)
}

// Invalidate drops the cached day containing t.
func (c *DayCache) Invalidate(userID string, t time.Time) {
	c.InvalidateKey(userID, c.cal.Key(t))
}

// InvalidateKey drops the cached day with the given ISO date.
func (c *DayCache) InvalidateKey(userID, dayKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(userID, dayKey)
	s, ok := c.slots[key]
	if !ok {
		return
	}
	s.gen++
	s.filled = false
	s.entries = nil
	c.prune(key, s)
}

// prune removes a slot with nothing cached and no fetch in flight.
// Caller holds mu.
func (c *DayCache) prune(key string, s *slot) {
	if !s.filled && s.pending == 0 {
		delete(c.slots, key)
	}
}

// Len returns the number of filled days.
func (c *DayCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, s := range c.slots {
		if s.filled {
			n++
		}
	}
	return n
}
