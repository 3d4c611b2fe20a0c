package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vocab-quiz-service/internal/domain"
)

// DictionaryLoader fetches dictionaries and access grants from a backing store.
type DictionaryLoader interface {
	GetDictionary(ctx context.Context, dictionaryID string) (domain.Dictionary, error)
	HasAccess(ctx context.Context, userID, dictionaryID string) (bool, error)
}

// DictionaryCache caches dictionary metadata with TTL to avoid repeated DB hits.
// Access checks always go to the loader.
type DictionaryCache struct {
	loader DictionaryLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedDictionary
}

type cachedDictionary struct {
	dictionary domain.Dictionary
	expiresAt  time.Time
}

func NewDictionaryCache(loader DictionaryLoader, ttl time.Duration) *DictionaryCache {
	return &DictionaryCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedDictionary),
	}
}

func (c *DictionaryCache) GetDictionary(ctx context.Context, dictionaryID string) (domain.Dictionary, error) {
	if d, ok := c.lookup(dictionaryID); ok {
		return d, nil
	}

	result, err, _ := c.sf.Do(dictionaryID, func() (interface{}, error) {
		if d, ok := c.lookup(dictionaryID); ok {
			return d, nil
		}

		d, err := c.loader.GetDictionary(ctx, dictionaryID)
		if err != nil {
			return domain.Dictionary{}, err
		}

		c.mu.Lock()
		c.cache[dictionaryID] = cachedDictionary{
			dictionary: d,
			expiresAt:  c.clock().Add(c.ttlWithJitterLocked()),
		}
		c.mu.Unlock()
		return d, nil
	})
	if err != nil {
		return domain.Dictionary{}, err
	}
	return result.(domain.Dictionary), nil
}

func (c *DictionaryCache) HasAccess(ctx context.Context, userID, dictionaryID string) (bool, error) {
	return c.loader.HasAccess(ctx, userID, dictionaryID)
}

func (c *DictionaryCache) lookup(dictionaryID string) (domain.Dictionary, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[dictionaryID]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Dictionary{}, false
	}
	return entry.dictionary, true
}

func (c *DictionaryCache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
