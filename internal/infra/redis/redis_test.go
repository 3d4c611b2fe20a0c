package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
)

func TestDictionaryCacheCachesInRedis(t *testing.T) {
	mr := startRedis(t)
	client := newClient(mr)

	loader := &countingLoader{DictionaryLoader: seededStore()}
	cache := NewDictionaryCache(client, loader, time.Minute)

	d, err := cache.GetDictionary(context.Background(), "d1")
	if err != nil {
		t.Fatalf("get dictionary: %v", err)
	}
	if d.Name != "Japanese" {
		t.Fatalf("unexpected dictionary %+v", d)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("vocabquiz:dictionary:d1") {
		t.Fatalf("expected dictionary stored in redis")
	}

	// Second call should hit cache, loader not incremented.
	_, _ = cache.GetDictionary(context.Background(), "d1")
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}

	if err := cache.Invalidate(context.Background(), "d1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = cache.GetDictionary(context.Background(), "d1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}
}

func TestDictionaryCacheExpiresWithTTL(t *testing.T) {
	mr := startRedis(t)
	cache := NewDictionaryCache(newClient(mr), seededStore(), time.Minute)

	_, _ = cache.GetDictionary(context.Background(), "d1")
	mr.FastForward(2 * time.Minute)
	if mr.Exists("vocabquiz:dictionary:d1") {
		t.Fatalf("expected entry to expire")
	}
}

func TestDictionaryCachePassesMissThrough(t *testing.T) {
	mr := startRedis(t)
	cache := NewDictionaryCache(newClient(mr), seededStore(), time.Minute)

	_, err := cache.GetDictionary(context.Background(), "missing")
	if !errors.Is(err, domain.ErrDictionaryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if mr.Exists("vocabquiz:dictionary:missing") {
		t.Fatalf("miss should not be cached")
	}
}

func TestLockerExcludesSecondHolder(t *testing.T) {
	mr := startRedis(t)
	locker := NewLocker(newClient(mr), time.Minute)

	unlock, err := locker.Lock(context.Background(), "quiz:1")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(ctx, "quiz:1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	unlock()
	if mr.Exists("vocabquiz:lock:quiz:1") {
		t.Fatalf("expected lock key removed")
	}

	unlock2, err := locker.Lock(context.Background(), "quiz:1")
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	unlock2()
}

func TestLockerStaleUnlockKeepsNewHolder(t *testing.T) {
	mr := startRedis(t)
	locker := NewLocker(newClient(mr), time.Second)

	stale, err := locker.Lock(context.Background(), "quiz:1")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	mr.FastForward(2 * time.Second)

	fresh, err := locker.Lock(context.Background(), "quiz:1")
	if err != nil {
		t.Fatalf("lock after expiry: %v", err)
	}
	defer fresh()

	stale()
	if !mr.Exists("vocabquiz:lock:quiz:1") {
		t.Fatalf("stale unlock released the new holder's lock")
	}
}

type countingLoader struct {
	DictionaryLoader
	calls int
}

func (l *countingLoader) GetDictionary(ctx context.Context, dictionaryID string) (domain.Dictionary, error) {
	l.calls++
	return l.DictionaryLoader.GetDictionary(ctx, dictionaryID)
}

func seededStore() *memory.Store {
	store := memory.NewStore()
	_ = store.SaveDictionary(context.Background(), domain.Dictionary{
		ID:             "d1",
		Name:           "Japanese",
		SourceLanguage: "ja",
		TargetLanguage: "en",
	})
	return store
}

func startRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
