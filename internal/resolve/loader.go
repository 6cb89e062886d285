// Package resolve implements the lazy content resolution pipeline:
// cache lookup, single-flight deduplication, remote fetch, validate/repair,
// cache write, and deterministic fallback. For any recoverable failure the
// pipeline resolves to some displayable content; only caller-level
// cancellation propagates as an error.
package resolve

import (
	"context"
	"time"

	"github.com/alexanderramin/focusroom/internal/content"
	"github.com/alexanderramin/focusroom/internal/generation"
	"github.com/alexanderramin/focusroom/internal/validate"
)

// Loader orchestrates content resolution for single items.
type Loader struct {
	cache    *Cache
	registry *Registry
	client   generation.Client
	observer generation.Observer
}

// NewLoader creates a Loader with its own dedup registry.
func NewLoader(cache *Cache, client generation.Client, observer generation.Observer) *Loader {
	if observer == nil {
		observer = generation.NoopObserver{}
	}
	return &Loader{
		cache:    cache,
		registry: NewRegistry(),
		client:   client,
		observer: observer,
	}
}

// LoadContent resolves content for one item. The call is idempotent: a
// fresh cache entry short-circuits the network entirely, and concurrent
// calls for the same item id share one fetch. When generation fails or
// produces unrepairable content, a deterministic fallback template is
// returned and cached so repeated failures inside the TTL don't re-penalize
// the user.
func (l *Loader) LoadContent(ctx context.Context, item content.Item) (*content.Resolved, error) {
	if cached, ok := l.cache.Get(ctx, item.ID); ok {
		return cached, nil
	}

	// The fetch is shared between every caller awaiting this item id, so
	// it must outlive any individual caller's cancellation. The caller's
	// own ctx is still checked below before the result is handed back.
	fetchCtx := context.WithoutCancel(ctx)

	resolved, err := l.registry.Resolve(item.ID, func() (*content.Resolved, error) {
		return l.fetch(fetchCtx, item), nil
	})
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return resolved, nil
}

// fetch performs one remote generation round trip and always returns
// displayable content.
func (l *Loader) fetch(ctx context.Context, item content.Item) *content.Resolved {
	// A fetcher may have populated the cache between the caller's miss and
	// this flight starting.
	if cached, ok := l.cache.Get(ctx, item.ID); ok {
		return cached
	}

	start := time.Now()
	raw, err := l.client.Generate(ctx, item)
	if err != nil {
		return l.fallback(ctx, item, "generation: "+err.Error(), start)
	}

	result := validate.ValidateRaw(raw)
	if !result.Usable() {
		return l.fallback(ctx, item, "validation: unrepairable content", start)
	}

	_ = l.cache.Put(ctx, item.ID, result.Content)
	return result.Content
}

// fallback synthesizes and caches the fallback template for an item,
// reporting the underlying failure to the observer so operators keep a
// diagnostic trail the user never sees.
func (l *Loader) fallback(ctx context.Context, item content.Item, reason string, start time.Time) *content.Resolved {
	l.observer.OnCallComplete(generation.CallEvent{
		ItemID:    item.ID,
		Kind:      item.Kind,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: "FALLBACK: " + reason,
	})

	fb := validate.Fallback(item)
	_ = l.cache.Put(ctx, item.ID, fb)
	return fb
}
