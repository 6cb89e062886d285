// Package progress tracks which day of a multi-day plan is active,
// completed, or locked, and drives the room session's sub-phase machine.
// All state transitions run through explicit transition functions that
// reject invalid moves instead of tolerating ad hoc flag combinations.
package progress

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDayLocked is returned for any attempt to interact with a day
	// whose index is beyond the current day.
	ErrDayLocked = errors.New("day is locked")

	// ErrAlreadyDoneToday is returned when a second day completion is
	// attempted on the same calendar day.
	ErrAlreadyDoneToday = errors.New("already completed a day today")

	// ErrDayOutOfRange is returned for day indexes outside 1..DurationDays.
	ErrDayOutOfRange = errors.New("day index out of range")
)

// DayStatus is the state of one day relative to the plan's progression.
type DayStatus string

const (
	DayDone    DayStatus = "done"
	DayCurrent DayStatus = "current"
	DayLocked  DayStatus = "locked"
)

// PlanMeta is the progression state of one plan. Day indexes are 1-based.
type PlanMeta struct {
	DurationDays    int
	CurrentDayIndex int
	CompletedDays   map[int]bool
	Streak          int
	LastStreakDate  string // YYYY-MM-DD of the last streak-counted completion
}

// NewPlanMeta creates the progression state for a fresh plan.
func NewPlanMeta(durationDays int) *PlanMeta {
	return &PlanMeta{
		DurationDays:    durationDays,
		CurrentDayIndex: 1,
		CompletedDays:   make(map[int]bool),
	}
}

// Status classifies a day index against the current progression. Days below
// the current index that are missing from CompletedDays are reported as done
// anyway: that inconsistency can occur in old persisted data and must be
// tolerated, not crashed on.
func (m *PlanMeta) Status(dayIndex int) DayStatus {
	switch {
	case m.CompletedDays[dayIndex]:
		return DayDone
	case dayIndex < m.CurrentDayIndex:
		// Completed by implication.
		return DayDone
	case dayIndex == m.CurrentDayIndex:
		return DayCurrent
	default:
		return DayLocked
	}
}

// CompleteDay records a successful completion of dayIndex on the given
// calendar day (YYYY-MM-DD). Only the current day can complete; the current
// index then advances by exactly one, capped at DurationDays. The streak
// increments once per calendar day. Completing an already-done day on the
// same calendar day is rejected with ErrAlreadyDoneToday.
func (m *PlanMeta) CompleteDay(dayIndex int, today string) error {
	if dayIndex < 1 || dayIndex > m.DurationDays {
		return fmt.Errorf("%w: %d of %d", ErrDayOutOfRange, dayIndex, m.DurationDays)
	}

	switch m.Status(dayIndex) {
	case DayLocked:
		return fmt.Errorf("%w: day %d", ErrDayLocked, dayIndex)
	case DayDone:
		if m.LastStreakDate == today {
			return ErrAlreadyDoneToday
		}
		// A done day outside today's completion is a silent no-op: the
		// write-back already happened.
		return nil
	}

	if m.LastStreakDate == today {
		return ErrAlreadyDoneToday
	}

	if m.CompletedDays == nil {
		m.CompletedDays = make(map[int]bool)
	}
	m.CompletedDays[dayIndex] = true
	if m.CurrentDayIndex < m.DurationDays {
		m.CurrentDayIndex++
	}

	// Streak counts one completion per calendar day. Skipped calendar days
	// do not reset the count; that matches the shipped behavior and stays
	// until product confirms stricter semantics.
	m.Streak++
	m.LastStreakDate = today

	return nil
}

// Today formats t as the calendar-day key used by streak accounting.
func Today(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
