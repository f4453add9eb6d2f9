// Package store routes task and pomodoro operations to device storage while
// the user is a guest, and to the remote service once signed in.
package store

import (
	"context"
	"errors"

	"pomovity/internal/api"
	"pomovity/internal/model"
)

// ErrNotFound is returned when a task id does not exist in the store.
var ErrNotFound = errors.New("task not found")

// TaskStore is the set of operations both backends provide.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ToggleTask(ctx context.Context, id int64) (*model.Task, error)
	CreatePomodoro(ctx context.Context, input model.PomodoroInput) (*model.Pomodoro, error)
	PomodoroStats(ctx context.Context) (*model.PomodoroStats, error)
}

// Remote is the TaskStore backed by the remote service.
type Remote struct {
	*api.Client
}

func NewRemote(client *api.Client) *Remote {
	return &Remote{Client: client}
}

var (
	_ TaskStore = (*Remote)(nil)
	_ TaskStore = (*Local)(nil)
	_ TaskStore = (*Selector)(nil)
)

// Mode reports whether the current session is unauthenticated.
type Mode interface {
	IsGuest() bool
}

// Selector picks the backend once per operation.
type Selector struct {
	mode   Mode
	local  *Local
	remote TaskStore
}

func NewSelector(mode Mode, local *Local, remote TaskStore) *Selector {
	return &Selector{mode: mode, local: local, remote: remote}
}

// Current returns the backend for the next operation.
func (s *Selector) Current() TaskStore {
	if s.mode.IsGuest() {
		return s.local
	}
	return s.remote
}

func (s *Selector) IsGuest() bool {
	return s.mode.IsGuest()
}

func (s *Selector) Local() *Local {
	return s.local
}

func (s *Selector) Remote() TaskStore {
	return s.remote
}

func (s *Selector) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.Current().ListTasks(ctx)
}

func (s *Selector) CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error) {
	return s.Current().CreateTask(ctx, input)
}

func (s *Selector) UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	return s.Current().UpdateTask(ctx, id, patch)
}

func (s *Selector) DeleteTask(ctx context.Context, id int64) error {
	return s.Current().DeleteTask(ctx, id)
}

func (s *Selector) ToggleTask(ctx context.Context, id int64) (*model.Task, error) {
	return s.Current().ToggleTask(ctx, id)
}

func (s *Selector) CreatePomodoro(ctx context.Context, input model.PomodoroInput) (*model.Pomodoro, error) {
	return s.Current().CreatePomodoro(ctx, input)
}

func (s *Selector) PomodoroStats(ctx context.Context) (*model.PomodoroStats, error) {
	return s.Current().PomodoroStats(ctx)
}
