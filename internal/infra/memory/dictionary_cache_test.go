package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"vocab-quiz-service/internal/domain"
)

func TestDictionaryCacheCaches(t *testing.T) {
	loader := &countingLoader{DictionaryLoader: seededStore()}
	cache := NewDictionaryCache(loader, time.Minute)

	if _, err := cache.GetDictionary(context.Background(), "d1"); err != nil {
		t.Fatalf("get dictionary: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	d, err := cache.GetDictionary(context.Background(), "d1")
	if err != nil {
		t.Fatalf("get dictionary 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if d.Name != "Japanese" {
		t.Fatalf("unexpected dictionary %+v", d)
	}
}

func TestDictionaryCacheExpires(t *testing.T) {
	loader := &countingLoader{DictionaryLoader: seededStore()}
	cache := NewDictionaryCache(loader, time.Minute)
	now := time.Now()
	cache.clock = func() time.Time { return now }

	_, _ = cache.GetDictionary(context.Background(), "d1")
	now = now.Add(2 * time.Minute)
	_, _ = cache.GetDictionary(context.Background(), "d1")

	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

func TestDictionaryCacheDoesNotCacheMisses(t *testing.T) {
	loader := &countingLoader{DictionaryLoader: seededStore()}
	cache := NewDictionaryCache(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.GetDictionary(context.Background(), "missing"); !errors.Is(err, domain.ErrDictionaryNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected misses to reach loader, calls %d", loader.calls)
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

func seededStore() *Store {
	store := NewStore()
	_ = store.SaveDictionary(context.Background(), domain.Dictionary{ID: "d1", Name: "Japanese"})
	return store
}
