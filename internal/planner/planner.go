// Package planner is the plan/day boundary of the focus engine: creating
// multi-day plans, handing out day content, and recording day completion.
// Two implementations exist: an HTTP client against a remote plan service,
// and a local SQLite-backed service used when no remote is configured.
package planner

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/focusroom/internal/content"
	"github.com/alexanderramin/focusroom/internal/progress"
)

var (
	// ErrDayUnavailable means a day could not be fetched or started right
	// now. It is always retryable and never fatal to the session.
	ErrDayUnavailable = errors.New("day not yet available")

	// ErrNoActivePlan means no unarchived plan exists.
	ErrNoActivePlan = errors.New("no active plan")

	// ErrPlanNotFound means the referenced plan id does not exist.
	ErrPlanNotFound = errors.New("plan not found")
)

// Plan is a multi-day focus plan together with its progression state.
type Plan struct {
	ID         string
	Title      string
	Domain     string
	Level      string
	Lang       string
	Meta       progress.PlanMeta
	CreatedAt  time.Time
	ArchivedAt *time.Time
}

// Day is one day of a plan with its practice items in order.
type Day struct {
	ID          string
	PlanID      string
	DayIndex    int
	Title       string
	Intro       string
	Items       []content.Item
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// CreatePlanRequest describes the plan to build.
type CreatePlanRequest struct {
	Title        string
	Domain       string
	Level        string
	Lang         string
	DurationDays int
}

// Service is the plan/day boundary used by the CLI.
type Service interface {
	// CreatePlan builds a new plan and makes it the active one.
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)

	// GetActivePlan returns the single unarchived plan, or ErrNoActivePlan.
	GetActivePlan(ctx context.Context) (*Plan, error)

	// StartDay marks the given day as started and returns it. Only the
	// current day can start; locked days are rejected.
	StartDay(ctx context.Context, planID string, dayIndex int) (*Day, error)

	// GetDay returns the given day without changing any state.
	GetDay(ctx context.Context, planID string, dayIndex int) (*Day, error)

	// CompleteDay records the day as done and advances the plan's
	// progression by exactly one day. The updated plan is returned.
	CompleteDay(ctx context.Context, planID string, dayIndex int) (*Plan, error)
}
