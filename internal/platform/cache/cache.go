package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/surgewatch/surgewatch/internal/platform/telemetry"
)

// Store is the persistent tier behind the in-process cache. Implementations
// must treat expired entries as absent. Get returns the entry's expiry so the
// memory tier can honor it when promoting.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, time.Time, bool, error)
	Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// Service is a two-tier TTL cache: an in-process tier for hot keys and a
// persistent tier that survives restarts. Reads check memory first, then the
// store, promoting store hits back into memory.
type Service struct {
	mem    *gocache.Cache
	store  Store
	logger zerolog.Logger
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		mem:    gocache.New(gocache.NoExpiration, 10*time.Minute),
		store:  store,
		logger: logger,
	}
}

// Get looks up key and unmarshals the cached JSON into dest. Returns false
// when the key is absent or expired in both tiers. Expired persistent entries
// are deleted on access.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if raw, ok := s.mem.Get(key); ok {
		telemetry.CacheHitsTotal.WithLabelValues("memory").Inc()
		return true, json.Unmarshal(raw.([]byte), dest)
	}

	raw, expiresAt, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("cache store get %s: %w", key, err)
	}
	if !ok {
		telemetry.CacheMissesTotal.Inc()
		return false, nil
	}

	telemetry.CacheHitsTotal.WithLabelValues("store").Inc()
	// Promote with the remaining lifetime so the memory copy dies when the
	// persistent entry would.
	if ttl := time.Until(expiresAt); ttl > 0 {
		s.mem.Set(key, raw, ttl)
	}
	return true, json.Unmarshal(raw, dest)
}

// Set stores value under key in both tiers. Expiry is computed once, in UTC,
// so both tiers agree on when the entry dies. A non-positive TTL makes the
// entry immediately absent.
func (s *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	expiresAt := time.Now().UTC().Add(ttl)
	if ttl > 0 {
		s.mem.Set(key, raw, ttl)
	} else {
		s.mem.Delete(key)
	}

	if err := s.store.Set(ctx, key, raw, expiresAt); err != nil {
		return fmt.Errorf("cache store set %s: %w", key, err)
	}
	return nil
}

// Delete removes key from both tiers.
func (s *Service) Delete(ctx context.Context, key string) error {
	s.mem.Delete(key)
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("cache store delete %s: %w", key, err)
	}
	return nil
}

// ClearExpired sweeps dead entries from both tiers and returns how many
// persistent entries were removed.
func (s *Service) ClearExpired(ctx context.Context) (int64, error) {
	s.mem.DeleteExpired()
	n, err := s.store.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("cache store sweep: %w", err)
	}
	if n > 0 {
		s.logger.Debug().Int64("removed", n).Msg("cache sweep")
	}
	return n, nil
}
