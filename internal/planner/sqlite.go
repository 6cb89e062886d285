package planner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/focusroom/internal/content"
	"github.com/alexanderramin/focusroom/internal/db"
	"github.com/alexanderramin/focusroom/internal/progress"
)

// SQLitePlanRepo persists plans, days, and items in the local database.
// It depends on db.DBTX so the same repository code runs inside and outside
// a transaction.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(dbtx db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: dbtx}
}

// CreatePlan inserts the plan with its days and items. Any previously active
// plan is archived first: the engine keeps exactly one active plan.
func (r *SQLitePlanRepo) CreatePlan(ctx context.Context, p *Plan, days []*Day) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx,
		`UPDATE focus_plans SET archived_at = ? WHERE archived_at IS NULL`, now); err != nil {
		return fmt.Errorf("archiving previous plans: %w", err)
	}

	query := `INSERT INTO focus_plans (id, title, domain, level, lang, duration_days, current_day_index, streak, last_streak_date, archived_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Domain,
		p.Level,
		p.Lang,
		p.Meta.DurationDays,
		p.Meta.CurrentDayIndex,
		p.Meta.Streak,
		nullableString(p.Meta.LastStreakDate),
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	for _, day := range days {
		if err := r.insertDay(ctx, day); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLitePlanRepo) insertDay(ctx context.Context, d *Day) error {
	query := `INSERT INTO focus_days (id, plan_id, day_index, title, intro, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, NULL, NULL)`
	if _, err := r.db.ExecContext(ctx, query, d.ID, d.PlanID, d.DayIndex, d.Title, d.Intro); err != nil {
		return fmt.Errorf("inserting day %d: %w", d.DayIndex, err)
	}

	for i, item := range d.Items {
		query := `INSERT INTO focus_items (id, day_id, order_index, kind, topic, label, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, NULL)`
		if _, err := r.db.ExecContext(ctx, query, item.ID, d.ID, i, string(item.Kind), item.Topic, item.Label); err != nil {
			return fmt.Errorf("inserting item %d of day %d: %w", i, d.DayIndex, err)
		}
	}
	return nil
}

// GetActive returns the single unarchived plan.
func (r *SQLitePlanRepo) GetActive(ctx context.Context) (*Plan, error) {
	query := `SELECT id, title, domain, level, lang, duration_days, current_day_index, streak, last_streak_date, archived_at, created_at
		FROM focus_plans WHERE archived_at IS NULL ORDER BY created_at DESC LIMIT 1`
	p, err := r.scanPlan(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActivePlan
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadCompletedDays(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID returns the plan with the given id regardless of archive state.
func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*Plan, error) {
	query := `SELECT id, title, domain, level, lang, duration_days, current_day_index, streak, last_streak_date, archived_at, created_at
		FROM focus_plans WHERE id = ?`
	p, err := r.scanPlan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadCompletedDays(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateMeta writes the progression columns of the plan row.
func (r *SQLitePlanRepo) UpdateMeta(ctx context.Context, planID string, meta progress.PlanMeta) error {
	query := `UPDATE focus_plans SET current_day_index = ?, streak = ?, last_streak_date = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		meta.CurrentDayIndex, meta.Streak, nullableString(meta.LastStreakDate), planID)
	if err != nil {
		return fmt.Errorf("updating plan meta: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	return nil
}

// GetDay returns one day of a plan with its items.
func (r *SQLitePlanRepo) GetDay(ctx context.Context, planID string, dayIndex int) (*Day, error) {
	query := `SELECT id, plan_id, day_index, title, intro, started_at, completed_at
		FROM focus_days WHERE plan_id = ? AND day_index = ?`
	row := r.db.QueryRowContext(ctx, query, planID, dayIndex)

	var d Day
	var startedAt, completedAt sql.NullString
	err := row.Scan(&d.ID, &d.PlanID, &d.DayIndex, &d.Title, &d.Intro, &startedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: day %d of plan %s", ErrDayUnavailable, dayIndex, planID)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning day: %w", err)
	}
	d.StartedAt = parseNullableTime(startedAt)
	d.CompletedAt = parseNullableTime(completedAt)

	if err := r.loadItems(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// MarkDayStarted stamps started_at on first start; repeat starts keep the
// original timestamp.
func (r *SQLitePlanRepo) MarkDayStarted(ctx context.Context, dayID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `UPDATE focus_days SET started_at = ? WHERE id = ? AND started_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, now, dayID); err != nil {
		return fmt.Errorf("marking day started: %w", err)
	}
	return nil
}

// MarkDayCompleted stamps completed_at on the day row.
func (r *SQLitePlanRepo) MarkDayCompleted(ctx context.Context, dayID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `UPDATE focus_days SET completed_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, now, dayID); err != nil {
		return fmt.Errorf("marking day completed: %w", err)
	}
	return nil
}

// MarkItemCompleted stamps completed_at on the item row.
func (r *SQLitePlanRepo) MarkItemCompleted(ctx context.Context, itemID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `UPDATE focus_items SET completed_at = ? WHERE id = ? AND completed_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, now, itemID); err != nil {
		return fmt.Errorf("marking item completed: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) loadItems(ctx context.Context, d *Day) error {
	query := `SELECT id, kind, topic, label FROM focus_items WHERE day_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, d.ID)
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item content.Item
		var kindStr string
		if err := rows.Scan(&item.ID, &kindStr, &item.Topic, &item.Label); err != nil {
			return fmt.Errorf("scanning item row: %w", err)
		}
		item.Kind = content.Kind(kindStr)
		item.DayTitle = d.Title
		item.DayIntro = d.Intro
		d.Items = append(d.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating items: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) loadCompletedDays(ctx context.Context, p *Plan) error {
	query := `SELECT day_index FROM focus_days WHERE plan_id = ? AND completed_at IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, query, p.ID)
	if err != nil {
		return fmt.Errorf("listing completed days: %w", err)
	}
	defer rows.Close()

	p.Meta.CompletedDays = make(map[int]bool)
	for rows.Next() {
		var dayIndex int
		if err := rows.Scan(&dayIndex); err != nil {
			return fmt.Errorf("scanning completed day: %w", err)
		}
		p.Meta.CompletedDays[dayIndex] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating completed days: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) scanPlan(row *sql.Row) (*Plan, error) {
	var p Plan
	var lastStreakDate, archivedAt sql.NullString
	var createdAtStr string

	err := row.Scan(
		&p.ID, &p.Title, &p.Domain, &p.Level, &p.Lang,
		&p.Meta.DurationDays, &p.Meta.CurrentDayIndex, &p.Meta.Streak,
		&lastStreakDate, &archivedAt, &createdAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	p.Meta.LastStreakDate = lastStreakDate.String
	p.ArchivedAt = parseNullableTime(archivedAt)
	p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &p, nil
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
