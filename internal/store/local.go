package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"pomovity/internal/model"
)

const (
	tasksKey           = "pomovity_guest_tasks"
	pomodorosKey       = "pomovity_guest_pomodoros"
	taskCounterKey     = "pomovity_task_id_counter"
	pomodoroCounterKey = "pomovity_pomodoro_id_counter"
)

// Storage is the named-blob device storage the guest store is kept in.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Local keeps guest tasks and pomodoros on the device. Reads that fail or
// find malformed data behave as if nothing was stored.
type Local struct {
	storage Storage
	now     func() time.Time
	mu      sync.Mutex
}

func NewLocal(storage Storage) *Local {
	return &Local{storage: storage, now: time.Now}
}

// WithClock replaces the time source.
func (l *Local) WithClock(now func() time.Time) *Local {
	l.now = now
	return l
}

func (l *Local) ListTasks(ctx context.Context) ([]model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readTasks(ctx), nil
}

func (l *Local) CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	tasks := l.readTasks(ctx)
	id := l.readCounter(ctx, taskCounterKey)

	task := model.Task{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Completed:   false,
		CreatedAt:   model.NewTimestamp(now),
		UpdatedAt:   model.NewTimestamp(now),
	}
	if task.Priority == 0 {
		task.Priority = model.DefaultPriority
	}
	if task.DueDate == "" {
		task.DueDate = now.Format(model.DateLayout)
	}

	tasks = append(tasks, task)
	if err := l.write(ctx, tasksKey, tasks); err != nil {
		log.Printf("create guest task: %v", err)
		return nil, err
	}
	if err := l.storage.Set(ctx, taskCounterKey, strconv.FormatInt(id+1, 10)); err != nil {
		log.Printf("increment task id counter: %v", err)
	}
	return &task, nil
}

func (l *Local) UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.updateTask(ctx, id, patch)
}

func (l *Local) updateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	tasks := l.readTasks(ctx)
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		patch.Apply(&tasks[i])
		tasks[i].UpdatedAt = model.NewTimestamp(l.now())
		if err := l.write(ctx, tasksKey, tasks); err != nil {
			log.Printf("update guest task %d: %v", id, err)
			return nil, err
		}
		updated := tasks[i]
		return &updated, nil
	}
	return nil, fmt.Errorf("update task %d: %w", id, ErrNotFound)
}

// ToggleTask flips the completed flag of a guest task.
func (l *Local) ToggleTask(ctx context.Context, id int64) (*model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, task := range l.readTasks(ctx) {
		if task.ID == id {
			completed := !task.Completed
			return l.updateTask(ctx, id, model.TaskPatch{Completed: &completed})
		}
	}
	return nil, fmt.Errorf("toggle task %d: %w", id, ErrNotFound)
}

// DeleteTask removes a guest task. Deleting an unknown id is not an error.
func (l *Local) DeleteTask(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tasks := l.readTasks(ctx)
	kept := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	if len(kept) == len(tasks) {
		return nil
	}
	if err := l.write(ctx, tasksKey, kept); err != nil {
		log.Printf("delete guest task %d: %v", id, err)
		return err
	}
	return nil
}

func (l *Local) ListPomodoros(ctx context.Context) []model.Pomodoro {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readPomodoros(ctx)
}

// CreatePomodoro records a guest pomodoro. Ids come from their own counter so
// rapid successive creations never collide.
func (l *Local) CreatePomodoro(ctx context.Context, input model.PomodoroInput) (*model.Pomodoro, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if input.Duration <= 0 {
		input.Duration = model.DefaultPomodoroMinutes
	}
	if input.Type == "" {
		input.Type = model.PomodoroWork
	}

	pomodoros := l.readPomodoros(ctx)
	id := l.readCounter(ctx, pomodoroCounterKey)
	p := model.Pomodoro{
		ID:        id,
		TaskID:    input.TaskID,
		Duration:  input.Duration,
		Type:      input.Type,
		CreatedAt: model.NewTimestamp(l.now()),
	}

	pomodoros = append(pomodoros, p)
	if err := l.write(ctx, pomodorosKey, pomodoros); err != nil {
		log.Printf("create guest pomodoro: %v", err)
		return nil, err
	}
	if err := l.storage.Set(ctx, pomodoroCounterKey, strconv.FormatInt(id+1, 10)); err != nil {
		log.Printf("increment pomodoro id counter: %v", err)
	}
	return &p, nil
}

// PomodoroStats splits stored pomodoros into today's and all-time totals.
// "Today" compares calendar-date strings in the local time zone.
func (l *Local) PomodoroStats(ctx context.Context) (*model.PomodoroStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	today := now.Format(model.DateLayout)

	var stats model.PomodoroStats
	for _, p := range l.readPomodoros(ctx) {
		minutes := p.Minutes()
		stats.Total.Count++
		stats.Total.FocusTime += minutes
		if p.CreatedAt.In(now.Location()).Format(model.DateLayout) == today {
			stats.Today.Count++
			stats.Today.FocusTime += minutes
		}
	}
	return &stats, nil
}

// HasGuestData reports whether any guest task or pomodoro is stored.
func (l *Local) HasGuestData(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.readTasks(ctx)) > 0 || len(l.readPomodoros(ctx)) > 0
}

// GuestData returns a snapshot of everything stored for migration.
func (l *Local) GuestData(ctx context.Context) model.GuestData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return model.GuestData{
		Tasks:     l.readTasks(ctx),
		Pomodoros: l.readPomodoros(ctx),
	}
}

// ClearGuestData removes both collections and the id counters.
func (l *Local) ClearGuestData(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.storage.Delete(ctx, tasksKey, pomodorosKey, taskCounterKey, pomodoroCounterKey); err != nil {
		log.Printf("clear guest data: %v", err)
		return err
	}
	return nil
}

func (l *Local) readTasks(ctx context.Context) []model.Task {
	var tasks []model.Task
	if !l.read(ctx, tasksKey, &tasks) {
		return []model.Task{}
	}
	return tasks
}

func (l *Local) readPomodoros(ctx context.Context) []model.Pomodoro {
	var pomodoros []model.Pomodoro
	if !l.read(ctx, pomodorosKey, &pomodoros) {
		return []model.Pomodoro{}
	}
	return pomodoros
}

func (l *Local) read(ctx context.Context, key string, out any) bool {
	raw, ok, err := l.storage.Get(ctx, key)
	if err != nil {
		log.Printf("read %s: %v", key, err)
		return false
	}
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("[warn] %s is malformed, treating as empty: %v", key, err)
		return false
	}
	return true
}

func (l *Local) readCounter(ctx context.Context, key string) int64 {
	raw, ok, err := l.storage.Get(ctx, key)
	if err != nil || !ok {
		return 1
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (l *Local) write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return l.storage.Set(ctx, key, string(raw))
}
