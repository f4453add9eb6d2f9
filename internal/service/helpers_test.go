package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"pomovity/internal/model"
	"pomovity/internal/repository"
	"pomovity/internal/store"
)

type fakeMode struct{ guest bool }

func (m *fakeMode) IsGuest() bool { return m.guest }

func newTestEntries(t *testing.T) *repository.EntryRepository {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "pomovity.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		t.Cleanup(func() { sqlDB.Close() })
	}
	return repository.NewEntryRepository(db)
}

// fakeRemote records calls and fails the task creations whose titles are
// listed in failTitles.
type fakeRemote struct {
	failTitles map[string]bool
	tasks      []model.TaskInput
	pomodoros  []model.PomodoroInput
	calls      int
}

func (f *fakeRemote) ListTasks(context.Context) ([]model.Task, error) {
	f.calls++
	var out []model.Task
	for i, in := range f.tasks {
		out = append(out, model.Task{ID: int64(100 + i), Title: in.Title, Priority: in.Priority, DueDate: in.DueDate})
	}
	return out, nil
}

func (f *fakeRemote) CreateTask(_ context.Context, input model.TaskInput) (*model.Task, error) {
	f.calls++
	if f.failTitles[input.Title] {
		return nil, errors.New("server unavailable")
	}
	f.tasks = append(f.tasks, input)
	return &model.Task{ID: int64(100 + len(f.tasks)), Title: input.Title}, nil
}

func (f *fakeRemote) UpdateTask(context.Context, int64, model.TaskPatch) (*model.Task, error) {
	f.calls++
	return nil, store.ErrNotFound
}

func (f *fakeRemote) DeleteTask(context.Context, int64) error {
	f.calls++
	return nil
}

func (f *fakeRemote) ToggleTask(context.Context, int64) (*model.Task, error) {
	f.calls++
	return nil, store.ErrNotFound
}

func (f *fakeRemote) CreatePomodoro(_ context.Context, input model.PomodoroInput) (*model.Pomodoro, error) {
	f.calls++
	f.pomodoros = append(f.pomodoros, input)
	return &model.Pomodoro{ID: int64(len(f.pomodoros)), Duration: input.Duration, Type: input.Type}, nil
}

func (f *fakeRemote) PomodoroStats(context.Context) (*model.PomodoroStats, error) {
	f.calls++
	return &model.PomodoroStats{Today: model.FocusTotals{Count: len(f.pomodoros)}}, nil
}

func (f *fakeRemote) Analytics(context.Context) (*model.Analytics, error) {
	f.calls++
	return &model.Analytics{Today: model.CompletionRate{Completed: 1, Total: 2, Rate: 50}}, nil
}
