package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"vocab-quiz-service/internal/domain"
)

// DictionaryLoader fetches dictionaries and access grants from the source of truth.
type DictionaryLoader interface {
	GetDictionary(ctx context.Context, dictionaryID string) (domain.Dictionary, error)
	HasAccess(ctx context.Context, userID, dictionaryID string) (bool, error)
}

// DictionaryCache keeps dictionary metadata in Redis so every instance shares
// one warm copy. Entries live under vocabquiz:dictionary:{id} as JSON and fall back to
// the loader on a miss.
type DictionaryCache struct {
	client *redis.Client
	loader DictionaryLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewDictionaryCache(client *redis.Client, loader DictionaryLoader, ttl time.Duration) *DictionaryCache {
	return &DictionaryCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *DictionaryCache) GetDictionary(ctx context.Context, dictionaryID string) (domain.Dictionary, error) {
	if d, ok := c.fromCache(ctx, dictionaryID); ok {
		return d, nil
	}

	result, err, _ := c.sf.Do(dictionaryID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if d, ok := c.fromCache(ctx, dictionaryID); ok {
			return d, nil
		}

		d, err := c.loader.GetDictionary(ctx, dictionaryID)
		if err != nil {
			return domain.Dictionary{}, err
		}

		if raw, err := json.Marshal(d); err == nil {
			_ = c.client.Set(ctx, c.key(dictionaryID), raw, c.ttlWithJitter()).Err()
		}
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

// Invalidate drops the cached copy of a dictionary.
func (c *DictionaryCache) Invalidate(ctx context.Context, dictionaryID string) error {
	return c.client.Del(ctx, c.key(dictionaryID)).Err()
}

func (c *DictionaryCache) fromCache(ctx context.Context, dictionaryID string) (domain.Dictionary, bool) {
	// redis.Nil and connection errors both fall through to the loader
	raw, err := c.client.Get(ctx, c.key(dictionaryID)).Bytes()
	if err != nil {
		return domain.Dictionary{}, false
	}
	var d domain.Dictionary
	if err := json.Unmarshal(raw, &d); err != nil {
		return domain.Dictionary{}, false
	}
	return d, true
}

func (c *DictionaryCache) key(dictionaryID string) string {
	return "vocabquiz:dictionary:" + dictionaryID
}

func (c *DictionaryCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
