package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/focusroom/internal/content"
)

func TestHTTPService_GetDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/plans/p1/days/2", r.URL.Path)
		json.NewEncoder(w).Encode(dayDTO{
			ID:       "d2",
			PlanID:   "p1",
			DayIndex: 2,
			Title:    "Day 2: Ordering food",
			Items: []itemDTO{
				{ID: "i1", Kind: "smart_lesson", Topic: "menus"},
				{ID: "i2", Kind: "flashcards", Topic: "menus"},
			},
		})
	}))
	defer server.Close()

	svc := NewHTTPService(server.URL, 5*time.Second)
	day, err := svc.GetDay(context.Background(), "p1", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, day.DayIndex)
	require.Len(t, day.Items, 2)
	// Legacy labels normalize at the boundary.
	assert.Equal(t, content.KindLesson, day.Items[0].Kind)
	assert.Equal(t, content.KindCards, day.Items[1].Kind)
	assert.Equal(t, "Day 2: Ordering food", day.Items[0].DayTitle)
}

func TestHTTPService_GetDay_ServerErrorIsDayUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "still generating", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewHTTPService(server.URL, 5*time.Second)
	_, err := svc.GetDay(context.Background(), "p1", 1)
	assert.ErrorIs(t, err, ErrDayUnavailable)
}

func TestHTTPService_StartDay_TransportFailureIsDayUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	svc := NewHTTPService(server.URL, time.Second)
	_, err := svc.StartDay(context.Background(), "p1", 1)
	assert.ErrorIs(t, err, ErrDayUnavailable)
}

func TestHTTPService_GetActivePlan_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	svc := NewHTTPService(server.URL, 5*time.Second)
	_, err := svc.GetActivePlan(context.Background())
	assert.ErrorIs(t, err, ErrNoActivePlan)
}

func TestHTTPService_CreatePlan_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/plans", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Spanish basics", body["title"])
		assert.EqualValues(t, 7, body["duration_days"])

		json.NewEncoder(w).Encode(planDTO{
			ID:              "p1",
			Title:           "Spanish basics",
			DurationDays:    7,
			CurrentDayIndex: 1,
			CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		})
	}))
	defer server.Close()

	svc := NewHTTPService(server.URL, 5*time.Second)
	plan, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		Title:        "Spanish basics",
		DurationDays: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", plan.ID)
	assert.Equal(t, 1, plan.Meta.CurrentDayIndex)
}

func TestHTTPService_CompleteDay_ReturnsUpdatedPlan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/plans/p1/days/3/complete", r.URL.Path)
		json.NewEncoder(w).Encode(planDTO{
			ID:              "p1",
			DurationDays:    7,
			CurrentDayIndex: 4,
			CompletedDays:   []int{1, 2, 3},
			Streak:          3,
		})
	}))
	defer server.Close()

	svc := NewHTTPService(server.URL, 5*time.Second)
	plan, err := svc.CompleteDay(context.Background(), "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, plan.Meta.CurrentDayIndex)
	assert.True(t, plan.Meta.CompletedDays[3])
	assert.Equal(t, 3, plan.Meta.Streak)
}
