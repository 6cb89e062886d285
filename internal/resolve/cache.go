package resolve

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexanderramin/focusroom/internal/content"
	"github.com/alexanderramin/focusroom/internal/kvstore"
)

const cacheKeyPrefix = "focus:content:"

// cacheEntry is the serialized form of one cached resolution.
type cacheEntry struct {
	Content  *content.Resolved `json:"content"`
	CachedAt time.Time         `json:"cached_at"`
}

// Cache is a durable, per-item, time-boxed store of resolved content. It
// owns its entries exclusively: a stored entry is only ever replaced
// wholesale, never mutated in place.
type Cache struct {
	store kvstore.Store
	ttl   time.Duration
}

// NewCache creates a content cache over the given store. A non-positive ttl
// falls back to one hour.
func NewCache(store kvstore.Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{store: store, ttl: ttl}
}

// Get returns the cached content for itemID, if a fresh entry exists. A
// corrupt entry, or one carrying an unexpected schema version, reads as
// absent and is purged; Get never fails the caller over bad persisted data.
func (c *Cache) Get(ctx context.Context, itemID string) (*content.Resolved, bool) {
	raw, ok, err := c.store.Get(ctx, cacheKeyPrefix+itemID)
	if err != nil || !ok {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Content == nil ||
		entry.Content.SchemaVersion != content.ExpectedSchemaVersion ||
		entry.Content.Payload() == nil {
		_ = c.store.Delete(ctx, cacheKeyPrefix+itemID)
		return nil, false
	}

	return entry.Content, true
}

// Put stores resolved content for itemID, overwriting any existing entry.
func (c *Cache) Put(ctx context.Context, itemID string, r *content.Resolved) error {
	entry := cacheEntry{Content: r, CachedAt: time.Now().UTC()}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.store.Put(ctx, cacheKeyPrefix+itemID, data, c.ttl)
}
