package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for due dates on the wire.
const DateLayout = "2006-01-02"

const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
)

// Task represents a single to-do item, either stored on the device (guest mode)
// or owned by the remote service.
type Task struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Priority          int       `json:"priority"`
	DueDate           string    `json:"due_date"`
	Completed         bool      `json:"completed"`
	PomodoroCount     int       `json:"pomodoro_count"`
	IsRecurring       bool      `json:"is_recurring,omitempty"`
	RecurringParentID *int64    `json:"recurring_parent_id,omitempty"`
	CreatedAt         Timestamp `json:"created_at"`
	UpdatedAt         Timestamp `json:"updated_at"`
}

// TaskInput carries the fields accepted when creating a task.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	DueDate     string `json:"due_date"`
	Completed   bool   `json:"completed,omitempty"`
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Apply merges the patch onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// PriorityLabel buckets a 1-5 priority into the three display levels.
func PriorityLabel(priority int) string {
	switch {
	case priority >= 4:
		return "high"
	case priority == 3:
		return "medium"
	default:
		return "low"
	}
}

// Due parses the due date in loc. ok is false when the date is missing or malformed.
func (t Task) Due(loc *time.Location) (time.Time, bool) {
	raw := strings.TrimSpace(t.DueDate)
	if raw == "" {
		return time.Time{}, false
	}
	// The server sends plain dates, but tolerate full timestamps.
	if len(raw) > len(DateLayout) {
		raw = raw[:len(DateLayout)]
	}
	d, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
