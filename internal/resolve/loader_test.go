package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/focusroom/internal/content"
	"github.com/alexanderramin/focusroom/internal/generation"
	"github.com/alexanderramin/focusroom/internal/kvstore"
	"github.com/alexanderramin/focusroom/internal/testutil"
)

// fakeGenClient counts calls and serves canned responses. Setting gate makes
// every call block until the channel closes, for concurrency tests.
type fakeGenClient struct {
	calls   atomic.Int32
	gate    chan struct{}
	respond func(item content.Item) (json.RawMessage, error)
}

func (f *fakeGenClient) Generate(_ context.Context, item content.Item) (json.RawMessage, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	return f.respond(item)
}

func goodWritingPayload(item content.Item) (json.RawMessage, error) {
	return json.RawMessage(fmt.Sprintf(`{
		"schema_version": "1.0",
		"kind": "writing",
		"title": "About %s",
		"writing": {"prompt": "Write about %s."},
		"validation": {"require_interaction": true, "min_chars": 50}
	}`, item.Topic, item.Topic)), nil
}

func newTestLoader(client generation.Client, ttl time.Duration, now func() time.Time) *Loader {
	store := kvstore.NewMemoryStore()
	if now != nil {
		store.WithClock(now)
	}
	return NewLoader(NewCache(store, ttl), client, generation.NoopObserver{})
}

func TestLoadContent_IdempotentResolution(t *testing.T) {
	client := &fakeGenClient{respond: goodWritingPayload}
	loader := newTestLoader(client, time.Hour, nil)
	item := testutil.NewTestItem(content.KindWriting)

	first, err := loader.LoadContent(context.Background(), item)
	require.NoError(t, err)
	second, err := loader.LoadContent(context.Background(), item)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), client.calls.Load(), "second load must be served from cache")
}

func TestLoadContent_SingleFlightDedup(t *testing.T) {
	client := &fakeGenClient{gate: make(chan struct{}), respond: goodWritingPayload}
	loader := newTestLoader(client, time.Hour, nil)
	item := testutil.NewTestItem(content.KindWriting)

	const callers = 5
	results := make([]*content.Resolved, callers)
	errs := make([]error, callers)

	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i], errs[i] = loader.LoadContent(context.Background(), item)
		}(i)
	}

	started.Wait()
	time.Sleep(50 * time.Millisecond) // let every caller reach the registry
	close(client.gate)
	done.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Same(t, results[0], results[i], "all concurrent callers share one result")
	}
	assert.Equal(t, int32(1), client.calls.Load(), "exactly one network call for N concurrent callers")
}

func TestLoadContent_TTLExpiryTriggersRefetch(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	client := &fakeGenClient{respond: goodWritingPayload}
	loader := newTestLoader(client, time.Hour, now)
	item := testutil.NewTestItem(content.KindWriting)

	_, err := loader.LoadContent(context.Background(), item)
	require.NoError(t, err)
	require.Equal(t, int32(1), client.calls.Load())

	clock = clock.Add(time.Hour - time.Second)
	_, err = loader.LoadContent(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, int32(1), client.calls.Load(), "entry still fresh just before TTL")

	clock = clock.Add(2 * time.Second)
	_, err = loader.LoadContent(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, int32(2), client.calls.Load(), "expired entry triggers a fresh fetch")
}

func TestLoadContent_FallbackGuarantee(t *testing.T) {
	client := &fakeGenClient{respond: func(content.Item) (json.RawMessage, error) {
		return nil, generation.ErrServiceUnavailable
	}}
	loader := newTestLoader(client, time.Hour, nil)
	item := testutil.NewTestItem(content.KindQuiz, testutil.WithTopic("irregular verbs"))

	resolved, err := loader.LoadContent(context.Background(), item)
	require.NoError(t, err, "recoverable failures must resolve, not error")
	require.NotNil(t, resolved)
	assert.Equal(t, content.KindQuiz, resolved.Kind)
	assert.True(t, resolved.Fallback)
	assert.NotNil(t, resolved.Payload())

	// The fallback is cached so repeated failures inside the TTL don't
	// hammer a broken service.
	_, err = loader.LoadContent(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestLoadContent_UnrepairableContentFallsBack(t *testing.T) {
	client := &fakeGenClient{respond: func(content.Item) (json.RawMessage, error) {
		// Declared quiz with a single option: unrecoverable.
		return json.RawMessage(`{
			"kind": "quiz",
			"title": "q",
			"quiz": {"questions": [{"question": "?", "options": ["only"], "correct_index": 0}]}
		}`), nil
	}}
	loader := newTestLoader(client, time.Hour, nil)
	item := testutil.NewTestItem(content.KindQuiz)

	resolved, err := loader.LoadContent(context.Background(), item)
	require.NoError(t, err)
	assert.True(t, resolved.Fallback)
	assert.Equal(t, content.KindQuiz, resolved.Kind)
}

func TestLoadContent_RepairedContentIsCached(t *testing.T) {
	client := &fakeGenClient{respond: func(content.Item) (json.RawMessage, error) {
		return json.RawMessage(`{
			"kind": "quiz",
			"title": "q",
			"quiz": {"questions": [{"question": "pick", "options": ["a", "b"], "correct_index": "1"}]}
		}`), nil
	}}
	loader := newTestLoader(client, time.Hour, nil)
	item := testutil.NewTestItem(content.KindQuiz)

	resolved, err := loader.LoadContent(context.Background(), item)
	require.NoError(t, err)
	assert.False(t, resolved.Fallback)
	assert.Equal(t, 1, resolved.Quiz.Questions[0].CorrectIndex)

	_, err = loader.LoadContent(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestLoadContent_CancelledCallerStillPopulatesCache(t *testing.T) {
	client := &fakeGenClient{respond: goodWritingPayload}
	loader := newTestLoader(client, time.Hour, nil)
	item := testutil.NewTestItem(content.KindWriting)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.LoadContent(ctx, item)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	// The shared fetch was not cancelled with the caller: a later caller
	// finds the result already cached.
	_, err = loader.LoadContent(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestLoadContent_FailureIsolatedPerItem(t *testing.T) {
	// One item's failing generation must not affect a sibling item.
	client := &fakeGenClient{respond: func(item content.Item) (json.RawMessage, error) {
		if item.Topic == "broken" {
			return nil, generation.ErrServiceUnavailable
		}
		return goodWritingPayload(item)
	}}
	loader := newTestLoader(client, time.Hour, nil)

	bad, err := loader.LoadContent(context.Background(), testutil.NewTestItem(content.KindWriting, testutil.WithTopic("broken")))
	require.NoError(t, err)
	assert.True(t, bad.Fallback)

	good, err := loader.LoadContent(context.Background(), testutil.NewTestItem(content.KindWriting, testutil.WithTopic("fine")))
	require.NoError(t, err)
	assert.False(t, good.Fallback)
}

func TestCache_CorruptEntryReadsAsAbsent(t *testing.T) {
	store := kvstore.NewMemoryStore()
	cache := NewCache(store, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "focus:content:item-1", []byte("{{corrupt"), time.Hour))
	_, ok := cache.Get(ctx, "item-1")
	assert.False(t, ok)

	// The corrupt entry was purged.
	_, present, err := store.Get(ctx, "focus:content:item-1")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestCache_MismatchedSchemaVersionReadsAsAbsent(t *testing.T) {
	store := kvstore.NewMemoryStore()
	cache := NewCache(store, time.Hour)
	ctx := context.Background()

	stale := testutil.NewTestResolved(content.KindWriting)
	stale.SchemaVersion = "0.9"
	entry, err := json.Marshal(map[string]any{"content": stale, "cached_at": time.Now()})
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "focus:content:item-1", entry, time.Hour))

	_, ok := cache.Get(ctx, "item-1")
	assert.False(t, ok, "older-schema entries must be treated as absent")
}
