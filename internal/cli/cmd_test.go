package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/focusroom/internal/content"
	"github.com/alexanderramin/focusroom/internal/generation"
	"github.com/alexanderramin/focusroom/internal/kvstore"
	"github.com/alexanderramin/focusroom/internal/planner"
	"github.com/alexanderramin/focusroom/internal/progress"
	"github.com/alexanderramin/focusroom/internal/render"
	"github.com/alexanderramin/focusroom/internal/resolve"
	"github.com/alexanderramin/focusroom/internal/testutil"
)

func newTestApp(svc planner.Service) *App {
	cache := resolve.NewCache(kvstore.NewMemoryStore(), time.Hour)
	return &App{
		Plans:         svc,
		Loader:        resolve.NewLoader(cache, unreachableGenClient{}, generation.NoopObserver{}),
		Renderer:      render.NewDispatcher(),
		IsInteractive: func() bool { return false },
	}
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func fixtureService() *fakePlanService {
	meta := progress.NewPlanMeta(7)
	meta.CurrentDayIndex = 3
	meta.CompletedDays[1] = true
	meta.CompletedDays[2] = true
	meta.Streak = 2

	day := &planner.Day{
		ID:       "d3",
		PlanID:   "p1",
		DayIndex: 3,
		Title:    "Day 3: Greetings",
	}
	item := testutil.NewTestItem(content.KindWriting)
	day.Items = append(day.Items, item)

	return &fakePlanService{
		plan: &planner.Plan{ID: "p1", Title: "Greetings", Meta: *meta},
		day:  day,
	}
}

func TestPlanStatusCmd_ListsDayStates(t *testing.T) {
	out, err := execute(t, newTestApp(fixtureService()), "plan", "status")
	require.NoError(t, err)

	assert.Contains(t, out, "GREETINGS")
	assert.Contains(t, out, "streak:")
	assert.Contains(t, out, "current")
	assert.Contains(t, out, "locked")
	assert.Contains(t, out, "done")
}

func TestPlanCreateCmd_NonInteractiveNeedsTitle(t *testing.T) {
	_, err := execute(t, newTestApp(fixtureService()), "plan", "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--title")
}

func TestPlanCreateCmd_WithFlags(t *testing.T) {
	svc := fixtureService()
	out, err := execute(t, newTestApp(svc), "plan", "create", "--title", "Guitar", "--days", "14")
	require.NoError(t, err)
	assert.Contains(t, out, "Created plan")
}

func TestDayShowCmd_DefaultsToCurrentDay(t *testing.T) {
	out, err := execute(t, newTestApp(fixtureService()), "day", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "DAY 3: GREETINGS")
	assert.Contains(t, out, "(writing)")
}

func TestDayCompleteCmd_ReportsAdvance(t *testing.T) {
	svc := fixtureService()
	out, err := execute(t, newTestApp(svc), "day", "complete")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.completeCalls)
	assert.Contains(t, out, "Day 3 done.")
	assert.Contains(t, out, "streak:")
}

func TestItemResolveCmd_RendersOfflineContent(t *testing.T) {
	out, err := execute(t, newTestApp(fixtureService()), "item", "resolve", "1")
	require.NoError(t, err)
	// The generation service is unreachable; the fallback still renders.
	assert.Contains(t, out, "offline practice version")
}

// countingGenClient fails like an offline service but records whether the
// resolution pipeline was reached at all.
type countingGenClient struct{ calls int }

func (c *countingGenClient) Generate(context.Context, content.Item) (json.RawMessage, error) {
	c.calls++
	return nil, generation.ErrServiceUnavailable
}

func TestItemResolveCmd_LockedDayNeverReachesPipeline(t *testing.T) {
	gen := &countingGenClient{}
	app := newTestApp(fixtureService())
	app.Loader = resolve.NewLoader(resolve.NewCache(kvstore.NewMemoryStore(), time.Hour), gen, generation.NoopObserver{})

	// Current day is 3; day 5 is locked.
	_, err := execute(t, app, "item", "resolve", "1", "--day", "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, progress.ErrDayLocked)
	assert.Zero(t, gen.calls, "a locked day must not trigger content generation")
}

func TestItemSpeakCmd_LockedDayRejected(t *testing.T) {
	app := newTestApp(fixtureService())
	app.TTS = generation.NewTTSClient(generation.DefaultConfig())

	_, err := execute(t, app, "item", "speak", "1", "--day", "5", "--out", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, progress.ErrDayLocked)
}

func TestItemResolveCmd_PositionOutOfRange(t *testing.T) {
	_, err := execute(t, newTestApp(fixtureService()), "item", "resolve", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestRoomCmd_RefusesNonInteractive(t *testing.T) {
	_, err := execute(t, newTestApp(fixtureService()), "room")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestItemSpeakCmd_WritesOneClipPerScriptStep(t *testing.T) {
	var ttsCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ttsCalls++
		json.NewEncoder(w).Encode(generation.Audio{
			AudioBase64: base64.StdEncoding.EncodeToString([]byte("fake audio")),
			ContentType: "audio/mpeg",
		})
	}))
	defer server.Close()

	cfg := generation.DefaultConfig()
	cfg.TTSEndpoint = server.URL

	app := newTestApp(fixtureService())
	app.TTS = generation.NewTTSClient(cfg)

	outDir := t.TempDir()
	out, err := execute(t, app, "item", "speak", "1", "--out", outDir)
	require.NoError(t, err)

	// The writing item's offline script is a single step (its title).
	assert.Equal(t, 1, ttsCalls)
	assert.Contains(t, out, "step-01.mp3")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "fake audio", string(data))
}

func TestItemSpeakCmd_NoSpeechServiceConfigured(t *testing.T) {
	app := newTestApp(fixtureService())
	_, err := execute(t, app, "item", "speak", "1", "--out", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no speech service")
}
