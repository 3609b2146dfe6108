package content

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cache holds the current content snapshot and refreshes it from the
// fetcher once the TTL expires. A failed refresh keeps serving the last
// good snapshot; before the first successful fetch the built-in defaults
// are served. Safe for concurrent use.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  *zap.Logger

	mu        sync.RWMutex
	snapshot  *Snapshot
	expiresAt time.Time
}

// NewCache creates a snapshot cache seeded with the built-in defaults.
func NewCache(fetcher Fetcher, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		fetcher:  fetcher,
		ttl:      ttl,
		logger:   logger,
		snapshot: DefaultSnapshot(),
	}
}

// Get returns the current snapshot, refreshing it first when stale.
func (c *Cache) Get(ctx context.Context) *Snapshot {
	c.mu.RLock()
	fresh := time.Now().Before(c.expiresAt)
	snapshot := c.snapshot
	c.mu.RUnlock()

	if fresh {
		return snapshot
	}
	return c.Refresh(ctx)
}

// Refresh fetches a new snapshot regardless of TTL and returns the
// snapshot in effect afterwards. On fetch failure the previous snapshot
// stays in place and the next Get retries after a shortened backoff.
func (c *Cache) Refresh(ctx context.Context) *Snapshot {
	snapshot, err := c.fetcher.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Warn("Content snapshot refresh failed, keeping previous content",
			zap.String("contract_version", c.snapshot.ContractVersion),
			zap.Error(err))
		c.expiresAt = time.Now().Add(c.ttl / 4)
		return c.snapshot
	}

	if c.snapshot.ContractVersion != snapshot.ContractVersion {
		c.logger.Info("Content snapshot updated",
			zap.String("previous_version", c.snapshot.ContractVersion),
			zap.String("contract_version", snapshot.ContractVersion))
	}
	c.snapshot = snapshot
	c.expiresAt = time.Now().Add(c.ttl)
	return c.snapshot
}

// Current returns the cached snapshot without triggering a refresh.
func (c *Cache) Current() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}
