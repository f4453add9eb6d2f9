package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"pomovity/internal/model"
	"pomovity/internal/store"
)

// RecurringClient is the remote surface for recurring templates.
type RecurringClient interface {
	ListRecurringTasks(ctx context.Context) ([]model.RecurringTask, error)
	CreateRecurringTask(ctx context.Context, input model.RecurringTaskInput) (*model.Task, error)
	UpdateRecurringTask(ctx context.Context, id int64, input model.RecurringTaskInput) (*model.RecurringTask, error)
	DeleteRecurringTask(ctx context.Context, id int64) error
}

// RecurringInput is what a user fills in for a recurring template.
type RecurringInput struct {
	Title          string
	Description    string
	Priority       int
	RecurrenceType string
	Days           []int
}

// RecurringService manages recurring templates. Templates only exist on the
// server, so guests are turned away.
type RecurringService struct {
	mode   store.Mode
	client RecurringClient
	now    func() time.Time
}

func NewRecurringService(mode store.Mode, client RecurringClient) *RecurringService {
	return &RecurringService{mode: mode, client: client, now: time.Now}
}

func (s *RecurringService) List(ctx context.Context) ([]model.RecurringTask, error) {
	if s.mode.IsGuest() {
		return nil, ErrGuestMode
	}
	return s.client.ListRecurringTasks(ctx)
}

func (s *RecurringService) Create(ctx context.Context, input RecurringInput) (*model.Task, error) {
	body, err := s.build(input)
	if err != nil {
		return nil, err
	}
	if s.mode.IsGuest() {
		return nil, ErrGuestMode
	}
	return s.client.CreateRecurringTask(ctx, body)
}

func (s *RecurringService) Update(ctx context.Context, id int64, input RecurringInput) (*model.RecurringTask, error) {
	body, err := s.build(input)
	if err != nil {
		return nil, err
	}
	if s.mode.IsGuest() {
		return nil, ErrGuestMode
	}
	return s.client.UpdateRecurringTask(ctx, id, body)
}

func (s *RecurringService) Delete(ctx context.Context, id int64) error {
	if s.mode.IsGuest() {
		return ErrGuestMode
	}
	return s.client.DeleteRecurringTask(ctx, id)
}

// build validates input and produces the request body. Weekly templates need
// at least one weekday; daily templates never carry days.
func (s *RecurringService) build(input RecurringInput) (model.RecurringTaskInput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.RecurringTaskInput{}, invalid("title", "Title is required")
	}
	priority := input.Priority
	if priority == 0 {
		priority = model.DefaultPriority
	}
	if err := validatePriority(priority); err != nil {
		return model.RecurringTaskInput{}, err
	}

	body := model.RecurringTaskInput{
		Title:          title,
		Description:    input.Description,
		Priority:       priority,
		RecurrenceType: strings.ToLower(strings.TrimSpace(input.RecurrenceType)),
		DueDate:        s.now().Format(model.DateLayout),
	}
	if body.RecurrenceType == "" {
		body.RecurrenceType = model.RecurrenceDaily
	}

	switch body.RecurrenceType {
	case model.RecurrenceDaily:
	case model.RecurrenceWeekly:
		days, err := normalizeDays(input.Days)
		if err != nil {
			return model.RecurringTaskInput{}, err
		}
		if len(days) == 0 {
			return model.RecurringTaskInput{}, invalid("recurrence_days", "Please select at least one day for weekly recurrence")
		}
		joined := model.JoinDays(days)
		body.RecurrenceDays = &joined
	default:
		return model.RecurringTaskInput{}, invalid("recurrence_type", "Recurrence must be daily or weekly")
	}
	return body, nil
}

func normalizeDays(days []int) ([]int, error) {
	seen := make(map[int]bool, len(days))
	var out []int
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, invalid("recurrence_days", "Weekdays must be between 0 (Mon) and 6 (Sun)")
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out, nil
}
