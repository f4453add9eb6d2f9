package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"pomovity/internal/model"
	"pomovity/internal/store"
)

// ReminderService builds human-readable summaries of the day.
type ReminderService struct {
	tasks store.TaskStore
}

func NewReminderService(tasks store.TaskStore) *ReminderService {
	return &ReminderService{tasks: tasks}
}

// DailySummary lists open tasks by due date and priority, followed by
// today's focus totals. A failed stats fetch only drops that section.
func (s *ReminderService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return "", err
	}

	var pending []model.Task
	for _, task := range tasks {
		if !task.Completed {
			pending = append(pending, task)
		}
	}
	SortTasks(pending, now.Location())

	var builder strings.Builder
	builder.WriteString("📋 Daily report\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Mon 02 Jan 2006")))

	builder.WriteString("🔥 Open tasks\n")
	if len(pending) == 0 {
		builder.WriteString("Nothing left to do\n")
	} else {
		for _, task := range pending {
			builder.WriteString(FormatTask(task, now))
		}
	}

	stats, err := s.tasks.PomodoroStats(ctx)
	if err != nil {
		log.Printf("report stats: %v", err)
	} else {
		builder.WriteString("\n🍅 Focus today\n")
		builder.WriteString(fmt.Sprintf("%d pomodoros · %d min\n", stats.Today.Count, stats.Today.FocusTime))
	}

	return strings.TrimSpace(builder.String()), nil
}

// SortTasks orders tasks by due date (undated last), then priority, then newest first.
func SortTasks(tasks []model.Task, loc *time.Location) {
	sort.SliceStable(tasks, func(i, j int) bool {
		di, okI := tasks[i].Due(loc)
		dj, okJ := tasks[j].Due(loc)
		switch {
		case okI && okJ && !di.Equal(dj):
			return di.Before(dj)
		case okI != okJ:
			return okI
		case tasks[i].Priority != tasks[j].Priority:
			return tasks[i].Priority > tasks[j].Priority
		default:
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt.Time)
		}
	})
}

// FormatTask renders one task line with its status icon and due-date hint.
func FormatTask(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	if task.Completed {
		icon = "✅"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	due, hasDue := task.Due(now.Location())
	if hasDue && !task.Completed {
		switch {
		case due.Before(today):
			icon = "⚠️"
		case due.Sub(today) <= 48*time.Hour:
			icon = "⏳"
		}
	}

	sb.WriteString(fmt.Sprintf("%s #%d %s [%s]", icon, task.ID, strings.TrimSpace(task.Title), model.PriorityLabel(task.Priority)))
	if task.PomodoroCount > 0 {
		sb.WriteString(fmt.Sprintf(" 🍅×%d", task.PomodoroCount))
	}

	if hasDue && !task.Completed {
		if due.Before(today) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s · overdue", due.Format(model.DateLayout)))
		} else {
			daysLeft := int(due.Sub(today).Hours() / 24)
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s · %d days left", due.Format(model.DateLayout), daysLeft))
		}
	}

	if desc := strings.TrimSpace(task.Description); desc != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", desc))
	}

	sb.WriteByte('\n')
	return sb.String()
}
