package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexanderramin/focusroom/internal/content"
	"github.com/alexanderramin/focusroom/internal/progress"
)

// HTTPService implements Service against a remote plan service. Transport
// failures and non-ok responses on day operations surface as
// ErrDayUnavailable: from the session's point of view the day simply is not
// ready yet, and the caller retries later.
type HTTPService struct {
	endpoint string
	http     *http.Client
}

var _ Service = (*HTTPService)(nil)

// NewHTTPService creates an HTTPService for the given base endpoint.
func NewHTTPService(endpoint string, timeout time.Duration) *HTTPService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPService{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Wire representations of plans and days.
type planDTO struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Domain          string `json:"domain,omitempty"`
	Level           string `json:"level,omitempty"`
	Lang            string `json:"lang,omitempty"`
	DurationDays    int    `json:"duration_days"`
	CurrentDayIndex int    `json:"current_day_index"`
	CompletedDays   []int  `json:"completed_days,omitempty"`
	Streak          int    `json:"streak"`
	LastStreakDate  string `json:"last_streak_date,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

type dayDTO struct {
	ID       string    `json:"id"`
	PlanID   string    `json:"plan_id"`
	DayIndex int       `json:"day_index"`
	Title    string    `json:"title"`
	Intro    string    `json:"intro,omitempty"`
	Items    []itemDTO `json:"items"`
}

type itemDTO struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Topic string `json:"topic,omitempty"`
	Label string `json:"label,omitempty"`
}

func (s *HTTPService) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	body := map[string]any{
		"title":         req.Title,
		"domain":        req.Domain,
		"level":         req.Level,
		"lang":          req.Lang,
		"duration_days": req.DurationDays,
	}
	var dto planDTO
	if err := s.do(ctx, http.MethodPost, "/plans", body, &dto); err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	return dtoToPlan(dto), nil
}

func (s *HTTPService) GetActivePlan(ctx context.Context) (*Plan, error) {
	var dto planDTO
	err := s.do(ctx, http.MethodGet, "/plans/active", nil, &dto)
	if isNotFound(err) {
		return nil, ErrNoActivePlan
	}
	if err != nil {
		return nil, fmt.Errorf("fetching active plan: %w", err)
	}
	return dtoToPlan(dto), nil
}

func (s *HTTPService) StartDay(ctx context.Context, planID string, dayIndex int) (*Day, error) {
	var dto dayDTO
	path := fmt.Sprintf("/plans/%s/days/%d/start", planID, dayIndex)
	if err := s.do(ctx, http.MethodPost, path, nil, &dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDayUnavailable, err)
	}
	return dtoToDay(dto), nil
}

func (s *HTTPService) CompleteDay(ctx context.Context, planID string, dayIndex int) (*Plan, error) {
	var dto planDTO
	path := fmt.Sprintf("/plans/%s/days/%d/complete", planID, dayIndex)
	if err := s.do(ctx, http.MethodPost, path, nil, &dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDayUnavailable, err)
	}
	return dtoToPlan(dto), nil
}

func (s *HTTPService) GetDay(ctx context.Context, planID string, dayIndex int) (*Day, error) {
	var dto dayDTO
	path := fmt.Sprintf("/plans/%s/days/%d", planID, dayIndex)
	if err := s.do(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDayUnavailable, err)
	}
	return dtoToDay(dto), nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("plan service returned status %d: %s", e.code, e.body)
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

func (s *HTTPService) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, body: string(respBody)}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func dtoToPlan(dto planDTO) *Plan {
	p := &Plan{
		ID:     dto.ID,
		Title:  dto.Title,
		Domain: dto.Domain,
		Level:  dto.Level,
		Lang:   dto.Lang,
		Meta: progress.PlanMeta{
			DurationDays:    dto.DurationDays,
			CurrentDayIndex: dto.CurrentDayIndex,
			CompletedDays:   make(map[int]bool, len(dto.CompletedDays)),
			Streak:          dto.Streak,
			LastStreakDate:  dto.LastStreakDate,
		},
	}
	for _, dayIndex := range dto.CompletedDays {
		p.Meta.CompletedDays[dayIndex] = true
	}
	if t, err := time.Parse(time.RFC3339, dto.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	return p
}

func dtoToDay(dto dayDTO) *Day {
	d := &Day{
		ID:       dto.ID,
		PlanID:   dto.PlanID,
		DayIndex: dto.DayIndex,
		Title:    dto.Title,
		Intro:    dto.Intro,
	}
	for _, item := range dto.Items {
		kind, ok := content.NormalizeKind(item.Kind)
		if !ok {
			kind = content.Kind(item.Kind)
		}
		d.Items = append(d.Items, content.Item{
			ID:       item.ID,
			Kind:     kind,
			Topic:    item.Topic,
			Label:    item.Label,
			DayTitle: dto.Title,
			DayIntro: dto.Intro,
		})
	}
	return d
}
