package service

import (
	"context"
	"log"

	"pomovity/internal/model"
	"pomovity/internal/store"
)

// MigrationTarget receives guest records once the user has signed in.
type MigrationTarget interface {
	CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error)
	CreatePomodoro(ctx context.Context, input model.PomodoroInput) (*model.Pomodoro, error)
}

// MigrationResult reports how many guest records reached the account.
type MigrationResult struct {
	Success   bool
	Migrated  bool
	Tasks     int
	Pomodoros int
}

// Migrator copies guest data into the signed-in account. It is best-effort:
// failed items are logged and dropped, and local data is cleared regardless.
type Migrator struct {
	mode   store.Mode
	local  *store.Local
	remote MigrationTarget
}

func NewMigrator(mode store.Mode, local *store.Local, remote MigrationTarget) *Migrator {
	return &Migrator{mode: mode, local: local, remote: remote}
}

// Migrate is a no-op while still in guest mode or when nothing is stored.
func (m *Migrator) Migrate(ctx context.Context) MigrationResult {
	if m.mode.IsGuest() || !m.local.HasGuestData(ctx) {
		return MigrationResult{Success: true}
	}

	data := m.local.GuestData(ctx)
	result := MigrationResult{Success: true, Migrated: true}

	for _, task := range data.Tasks {
		_, err := m.remote.CreateTask(ctx, model.TaskInput{
			Title:       task.Title,
			Description: task.Description,
			Priority:    task.Priority,
			DueDate:     task.DueDate,
			Completed:   task.Completed,
		})
		if err != nil {
			log.Printf("migrate task %d: %v", task.ID, err)
			continue
		}
		result.Tasks++
	}

	for _, p := range data.Pomodoros {
		kind := p.Type
		if kind == "" {
			kind = model.PomodoroWork
		}
		// Guest task ids mean nothing to the server.
		_, err := m.remote.CreatePomodoro(ctx, model.PomodoroInput{
			TaskID:   nil,
			Duration: p.Minutes(),
			Type:     kind,
		})
		if err != nil {
			log.Printf("migrate pomodoro %d: %v", p.ID, err)
			continue
		}
		result.Pomodoros++
	}

	if err := m.local.ClearGuestData(ctx); err != nil {
		log.Printf("clear guest data after migration: %v", err)
	}
	log.Printf("[info] migrated %d/%d tasks and %d/%d pomodoros", result.Tasks, len(data.Tasks), result.Pomodoros, len(data.Pomodoros))
	return result
}
