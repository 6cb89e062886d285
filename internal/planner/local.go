package planner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/focusroom/internal/content"
	"github.com/alexanderramin/focusroom/internal/db"
	"github.com/alexanderramin/focusroom/internal/progress"
)

// LocalService implements Service against the local database, with no remote
// plan service involved. Day structure comes from a fixed rotation of
// practice kinds, so plans are usable fully offline.
type LocalService struct {
	db  *sql.DB
	uow db.UnitOfWork
	now func() time.Time
}

// NewLocalService creates a LocalService on the given database.
func NewLocalService(database *sql.DB, uow db.UnitOfWork) *LocalService {
	return &LocalService{db: database, uow: uow, now: time.Now}
}

// WithClock overrides the service clock. Intended for tests.
func (s *LocalService) WithClock(now func() time.Time) *LocalService {
	s.now = now
	return s
}

// dayTemplates is the per-day kind rotation for locally built plans: every
// day opens with a lesson and closes with a production task.
var dayTemplates = [][]content.Kind{
	{content.KindLesson, content.KindQuiz, content.KindWriting},
	{content.KindLesson, content.KindTranslation, content.KindCards},
	{content.KindLesson, content.KindRoleplay, content.KindChecklist},
}

var kindLabels = map[content.Kind]string{
	content.KindLesson:      "Read today's lesson",
	content.KindTranslation: "Complete the sentences",
	content.KindQuiz:        "Check your understanding",
	content.KindCards:       "Review the cards",
	content.KindRoleplay:    "Practice the dialogue",
	content.KindWriting:     "Write it in your own words",
	content.KindChecklist:   "Take it offline",
}

func (s *LocalService) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	if req.DurationDays < 1 {
		return nil, fmt.Errorf("plan needs at least one day, got %d", req.DurationDays)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("plan title is required")
	}

	plan := &Plan{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Domain:    req.Domain,
		Level:     req.Level,
		Lang:      req.Lang,
		Meta:      *progress.NewPlanMeta(req.DurationDays),
		CreatedAt: s.now().UTC(),
	}

	days := make([]*Day, 0, req.DurationDays)
	for dayIndex := 1; dayIndex <= req.DurationDays; dayIndex++ {
		day := &Day{
			ID:       uuid.New().String(),
			PlanID:   plan.ID,
			DayIndex: dayIndex,
			Title:    fmt.Sprintf("Day %d: %s", dayIndex, req.Title),
		}
		for _, kind := range dayTemplates[(dayIndex-1)%len(dayTemplates)] {
			day.Items = append(day.Items, content.Item{
				ID:       uuid.New().String(),
				Kind:     kind,
				Topic:    req.Title,
				Label:    kindLabels[kind],
				DayTitle: day.Title,
				Domain:   req.Domain,
				Level:    req.Level,
				Lang:     req.Lang,
			})
		}
		days = append(days, day)
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLitePlanRepo(tx).CreatePlan(ctx, plan, days)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *LocalService) GetActivePlan(ctx context.Context) (*Plan, error) {
	return NewSQLitePlanRepo(s.db).GetActive(ctx)
}

func (s *LocalService) GetDay(ctx context.Context, planID string, dayIndex int) (*Day, error) {
	repo := NewSQLitePlanRepo(s.db)
	if _, err := repo.GetByID(ctx, planID); err != nil {
		return nil, err
	}
	return repo.GetDay(ctx, planID, dayIndex)
}

func (s *LocalService) StartDay(ctx context.Context, planID string, dayIndex int) (*Day, error) {
	repo := NewSQLitePlanRepo(s.db)
	plan, err := repo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Meta.Status(dayIndex) == progress.DayLocked {
		return nil, fmt.Errorf("%w: day %d", progress.ErrDayLocked, dayIndex)
	}

	day, err := repo.GetDay(ctx, planID, dayIndex)
	if err != nil {
		return nil, err
	}
	if err := repo.MarkDayStarted(ctx, day.ID); err != nil {
		return nil, err
	}
	return repo.GetDay(ctx, planID, dayIndex)
}

// CompleteDay runs the day-completion write-back in one transaction: the
// progression state advances and the day row is stamped together, or neither
// happens. Returns the updated plan.
func (s *LocalService) CompleteDay(ctx context.Context, planID string, dayIndex int) (*Plan, error) {
	var updated *Plan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := NewSQLitePlanRepo(tx)

		plan, err := repo.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		if err := plan.Meta.CompleteDay(dayIndex, progress.Today(s.now())); err != nil {
			return err
		}

		day, err := repo.GetDay(ctx, planID, dayIndex)
		if err != nil {
			return err
		}
		if err := repo.MarkDayCompleted(ctx, day.ID); err != nil {
			return err
		}
		if err := repo.UpdateMeta(ctx, planID, plan.Meta); err != nil {
			return err
		}
		updated = plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

var _ Service = (*LocalService)(nil)

// CompleteItem stamps one item as done once the gate allows it.
func (s *LocalService) CompleteItem(ctx context.Context, itemID string) error {
	return NewSQLitePlanRepo(s.db).MarkItemCompleted(ctx, itemID)
}
