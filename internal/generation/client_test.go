package generation_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/focusroom/internal/content"
	"github.com/alexanderramin/focusroom/internal/generation"
	"github.com/alexanderramin/focusroom/internal/testutil"
)

func testConfig(endpoint string) generation.Config {
	cfg := generation.DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.TTSEndpoint = endpoint
	cfg.MaxRetries = 0
	return cfg
}

func TestGenerate_Success(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/content/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"ok":true,"content":{"schema_version":"1.0","kind":"writing","title":"t","writing":{"prompt":"p"}}}`)
	}))
	defer srv.Close()

	client := generation.NewHTTPClient(testConfig(srv.URL), generation.NoopObserver{})
	item := testutil.NewTestItem(content.KindWriting, testutil.WithDayContext("Day 1", "intro"))

	raw, err := client.Generate(context.Background(), item)
	require.NoError(t, err)

	var resolved content.Resolved
	require.NoError(t, json.Unmarshal(raw, &resolved))
	assert.Equal(t, content.KindWriting, resolved.Kind)

	// Wire contract: item identity and day context travel with the request.
	assert.Equal(t, item.ID, gotBody["item_id"])
	assert.Equal(t, "writing", gotBody["kind"])
	reqCtx, ok := gotBody["context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Day 1", reqCtx["day_title"])
}

func TestGenerate_NonOKResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"model overloaded"}`)
	}))
	defer srv.Close()

	client := generation.NewHTTPClient(testConfig(srv.URL), generation.NoopObserver{})
	_, err := client.Generate(context.Background(), testutil.NewTestItem(content.KindQuiz))
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrInvalidContent)
}

func TestGenerate_ServerErrorRetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 2
	client := generation.NewHTTPClient(cfg, generation.NoopObserver{})

	_, err := client.Generate(context.Background(), testutil.NewTestItem(content.KindCards))
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrRetryExhausted)
	assert.Equal(t, int32(3), calls.Load(), "initial attempt plus two retries")
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(10 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.TimeoutMs = 300
	client := generation.NewHTTPClient(cfg, generation.NoopObserver{})

	start := time.Now()
	_, err := client.Generate(context.Background(), testutil.NewTestItem(content.KindLesson))
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrTimeout)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestGenerate_Unavailable(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := generation.NewHTTPClient(testConfig(srv.URL), generation.NoopObserver{})
	_, err := client.Generate(context.Background(), testutil.NewTestItem(content.KindLesson))
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrServiceUnavailable)
}

func TestGenerate_ObserverReceivesEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true,"content":{"kind":"writing"}}`)
	}))
	defer srv.Close()

	events := &recordingObserver{}
	client := generation.NewHTTPClient(testConfig(srv.URL), events)
	item := testutil.NewTestItem(content.KindWriting)

	_, err := client.Generate(context.Background(), item)
	require.NoError(t, err)
	require.Len(t, events.events, 1)
	assert.True(t, events.events[0].Success)
	assert.Equal(t, item.ID, events.events[0].ItemID)
}

type recordingObserver struct {
	events []generation.CallEvent
}

func (o *recordingObserver) OnCallComplete(e generation.CallEvent) {
	o.events = append(o.events, e)
}

func TestTTS_SynthesizeAndCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tts", r.URL.Path)
		calls.Add(1)
		fmt.Fprint(w, `{"audio_base64":"QUJD","content_type":"audio/mpeg"}`)
	}))
	defer srv.Close()

	client := generation.NewTTSClient(testConfig(srv.URL))

	a1, err := client.Synthesize(context.Background(), "step-1", "Hello!")
	require.NoError(t, err)
	assert.Equal(t, "QUJD", a1.AudioBase64)
	assert.Equal(t, "audio/mpeg", a1.ContentType)

	// Second call for the same step id is served from the session cache.
	a2, err := client.Synthesize(context.Background(), "step-1", "Hello!")
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, int32(1), calls.Load())
}
