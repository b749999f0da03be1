package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type memStore struct {
	entries map[string]memEntry
	deleted []string
}

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]memEntry)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, time.Time, bool, error) {
	e, ok := m.entries[key]
	if !ok {
		return nil, time.Time{}, false, nil
	}
	if !e.expiresAt.After(time.Now().UTC()) {
		delete(m.entries, key)
		m.deleted = append(m.deleted, key)
		return nil, time.Time{}, false, nil
	}
	return e.value, e.expiresAt, true, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, expiresAt time.Time) error {
	m.entries[key] = memEntry{value: value, expiresAt: expiresAt}
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memStore) DeleteExpired(_ context.Context) (int64, error) {
	now := time.Now().UTC()
	var n int64
	for k, e := range m.entries {
		if !e.expiresAt.After(now) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func newTestService(store Store) *Service {
	return NewService(store, zerolog.Nop())
}

func TestSetThenGet(t *testing.T) {
	svc := newTestService(newMemStore())
	ctx := context.Background()

	in := map[string]float64{"temp_max": 36.5}
	if err := svc.Set(ctx, "weather_hyderabad_2025-06-01", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out map[string]float64
	ok, err := svc.Get(ctx, "weather_hyderabad_2025-06-01", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if out["temp_max"] != 36.5 {
		t.Errorf("expected 36.5, got %v", out["temp_max"])
	}
}

func TestZeroTTLIsAbsent(t *testing.T) {
	svc := newTestService(newMemStore())
	ctx := context.Background()

	if err := svc.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out string
	ok, err := svc.Get(ctx, "k", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("entry with zero ttl should be absent")
	}
}

func TestMissingKey(t *testing.T) {
	svc := newTestService(newMemStore())

	var out string
	ok, err := svc.Get(context.Background(), "nope", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected miss")
	}
}

func TestExpiredStoreEntryDeletedOnAccess(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	// Entry only in the persistent tier, already dead.
	store.entries["stale"] = memEntry{
		value:     []byte(`"old"`),
		expiresAt: time.Now().UTC().Add(-time.Hour),
	}

	var out string
	ok, err := svc.Get(ctx, "stale", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expired entry should be a miss")
	}
	if len(store.deleted) != 1 || store.deleted[0] != "stale" {
		t.Errorf("expected stale entry deleted on access, got %v", store.deleted)
	}
}

func TestStoreHitPromotedToMemory(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	store.entries["warm"] = memEntry{
		value:     []byte(`"v"`),
		expiresAt: time.Now().UTC().Add(time.Hour),
	}

	var out string
	ok, err := svc.Get(ctx, "warm", &out)
	if err != nil || !ok {
		t.Fatalf("first get: ok=%v err=%v", ok, err)
	}

	// Second read must come from memory even if the store loses the key.
	delete(store.entries, "warm")
	ok, err = svc.Get(ctx, "warm", &out)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if !ok {
		t.Error("expected memory-tier hit after promotion")
	}
	if out != "v" {
		t.Errorf("expected v, got %q", out)
	}
}

func TestPromotedEntryHonorsStoreExpiry(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	// Entry only in the persistent tier, about to expire.
	store.entries["short"] = memEntry{
		value:     []byte(`"v"`),
		expiresAt: time.Now().UTC().Add(50 * time.Millisecond),
	}

	var out string
	ok, err := svc.Get(ctx, "short", &out)
	if err != nil || !ok {
		t.Fatalf("first get: ok=%v err=%v", ok, err)
	}

	time.Sleep(100 * time.Millisecond)

	// The promoted memory copy must die with the persistent entry, not
	// outlive it.
	ok, err = svc.Get(ctx, "short", &out)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if ok {
		t.Error("promoted entry served past its expiry")
	}
}

func TestDeleteRemovesBothTiers(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	if err := svc.Set(ctx, "k", 1, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := svc.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var out int
	ok, _ := svc.Get(ctx, "k", &out)
	if ok {
		t.Error("deleted key should be absent")
	}
	if _, exists := store.entries["k"]; exists {
		t.Error("deleted key should be gone from the store")
	}
}

func TestClearExpired(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	store.entries["dead"] = memEntry{value: []byte(`1`), expiresAt: time.Now().UTC().Add(-time.Minute)}
	store.entries["live"] = memEntry{value: []byte(`2`), expiresAt: time.Now().UTC().Add(time.Hour)}

	n, err := svc.ClearExpired(ctx)
	if err != nil {
		t.Fatalf("clear expired: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 removed, got %d", n)
	}
	if _, exists := store.entries["live"]; !exists {
		t.Error("live entry should survive the sweep")
	}
}
