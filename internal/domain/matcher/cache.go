package matcher

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/corey/reel/internal/logging"
	"github.com/corey/reel/internal/ports"
)

// Cache memoizes raw fuzzy-match results per mention text for one ontology.
// It is loaded from a CandidateStore when opened and written back by Close.
// Safe for concurrent use; concurrent misses on the same key compute once.
type Cache struct {
	ontology ports.Ontology
	store    ports.CandidateStore // nil = in-memory only
	log      logging.Logger

	mu      sync.RWMutex
	entries map[string][]ports.RawMatch
	dirty   map[string]struct{}
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// OpenCache loads the persisted entries for ontology. An unreadable store is
// treated as an empty cache: the stored entries of the ontology are dropped
// so the next flush starts a clean namespace, and the run continues.
func OpenCache(store ports.CandidateStore, ontology ports.Ontology, log logging.Logger) *Cache {
	c := &Cache{
		ontology: ontology,
		store:    store,
		log:      log,
		entries:  make(map[string][]ports.RawMatch),
		dirty:    make(map[string]struct{}),
	}
	if store == nil {
		return c
	}
	entries, err := store.Load(ontology)
	if err != nil {
		log.Warn("match cache unreadable, starting empty",
			logging.String("ontology", string(ontology)), logging.Err(err))
		if err := store.Delete(ontology); err != nil {
			log.Warn("match cache reset failed",
				logging.String("ontology", string(ontology)), logging.Err(err))
		}
		return c
	}
	if entries != nil {
		c.entries = entries
	}
	log.Info("match cache loaded",
		logging.String("ontology", string(ontology)), logging.Int("entries", len(c.entries)))
	return c
}

// Get returns the cached matches for key.
func (c *Cache) Get(key string) ([]ports.RawMatch, bool) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	}
	return v, ok
}

// Put stores matches under key and marks it for the next flush.
func (c *Cache) Put(key string, v []ports.RawMatch) {
	c.mu.Lock()
	c.entries[key] = v
	c.dirty[key] = struct{}{}
	c.mu.Unlock()
}

// GetOrCompute returns the cached value for key, computing and storing it
// on a miss.
func (c *Cache) GetOrCompute(key string, compute func() []ports.RawMatch) []ports.RawMatch {
	if v, ok := c.Get(key); ok {
		return v
	}
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		v, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}
		c.misses.Add(1)
		v = compute()
		c.Put(key, v)
		return v, nil
	})
	return v.([]ports.RawMatch)
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns the hit and miss counts since the cache was opened.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close flushes entries added since open to the store. The store itself is
// owned by the caller and stays open. Flushing is best-effort: a failure
// loses only derived data.
func (c *Cache) Close() error {
	if c.store == nil {
		return nil
	}
	c.mu.Lock()
	pending := make(map[string][]ports.RawMatch, len(c.dirty))
	for k := range c.dirty {
		pending[k] = c.entries[k]
	}
	c.dirty = make(map[string]struct{})
	c.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	if err := c.store.Save(c.ontology, pending); err != nil {
		return err
	}
	c.log.Info("match cache saved",
		logging.String("ontology", string(c.ontology)), logging.Int("new_entries", len(pending)))
	return nil
}
