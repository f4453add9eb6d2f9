package service

import (
	"context"
	"strings"
	"time"

	"pomovity/internal/model"
	"pomovity/internal/store"
)

// AnalyticsSource fetches the server-side productivity report.
type AnalyticsSource interface {
	Analytics(ctx context.Context) (*model.Analytics, error)
}

// TaskService validates task input and forwards it to the backend chosen by
// the selector.
type TaskService struct {
	store     *store.Selector
	analytics AnalyticsSource
	now       func() time.Time
}

func NewTaskService(selector *store.Selector, analytics AnalyticsSource) *TaskService {
	return &TaskService{store: selector, analytics: analytics, now: time.Now}
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.store.ListTasks(ctx)
}

// FindTask looks a task up by id in the active backend.
func (s *TaskService) FindTask(ctx context.Context, id int64) (*model.Task, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *TaskService) CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, invalid("title", "Title is required")
	}
	if input.Priority == 0 {
		input.Priority = model.DefaultPriority
	}
	if err := validatePriority(input.Priority); err != nil {
		return nil, err
	}
	if input.DueDate == "" {
		input.DueDate = s.now().Format(model.DateLayout)
	} else if err := validateDate(input.DueDate); err != nil {
		return nil, err
	}
	return s.store.CreateTask(ctx, input)
}

func (s *TaskService) UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, invalid("title", "Title is required")
		}
		patch.Title = &title
	}
	if patch.Priority != nil {
		if err := validatePriority(*patch.Priority); err != nil {
			return nil, err
		}
	}
	if patch.DueDate != nil {
		if err := validateDate(*patch.DueDate); err != nil {
			return nil, err
		}
	}
	return s.store.UpdateTask(ctx, id, patch)
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	return s.store.DeleteTask(ctx, id)
}

func (s *TaskService) ToggleTask(ctx context.Context, id int64) (*model.Task, error) {
	return s.store.ToggleTask(ctx, id)
}

func (s *TaskService) PomodoroStats(ctx context.Context) (*model.PomodoroStats, error) {
	return s.store.PomodoroStats(ctx)
}

// Analytics returns the server report, or an empty report for guests.
func (s *TaskService) Analytics(ctx context.Context) (*model.Analytics, error) {
	if s.store.IsGuest() {
		return &model.Analytics{}, nil
	}
	return s.analytics.Analytics(ctx)
}

func validatePriority(priority int) error {
	if priority < model.MinPriority || priority > model.MaxPriority {
		return invalid("priority", "Priority must be between 1 and 5")
	}
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return invalid("due_date", "Due date must look like 2006-01-02")
	}
	return nil
}
