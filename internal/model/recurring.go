package model

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	RecurrenceDaily  = "daily"
	RecurrenceWeekly = "weekly"
)

// RecurringTask is a template the remote service expands into concrete tasks
// on matching days.
type RecurringTask struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Priority       int     `json:"priority"`
	RecurrenceType string  `json:"recurrence_type"`
	RecurrenceDays *string `json:"recurrence_days"`
	IsRecurring    bool    `json:"is_recurring"`
	DueDate        string  `json:"due_date,omitempty"`
}

// Days returns the weekday indices of a weekly template (0 = Monday).
func (r RecurringTask) Days() ([]int, error) {
	if r.RecurrenceDays == nil {
		return nil, nil
	}
	return ParseDays(*r.RecurrenceDays)
}

// RecurringTaskInput is the body sent when creating or editing a template.
type RecurringTaskInput struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Priority       int     `json:"priority"`
	RecurrenceType string  `json:"recurrence_type"`
	RecurrenceDays *string `json:"recurrence_days"`
	DueDate        string  `json:"due_date,omitempty"`
	IsRecurring    bool    `json:"is_recurring,omitempty"`
}

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayName returns the short name for a 0-6 (Monday-first) index.
func WeekdayName(day int) string {
	if day < 0 || day > 6 {
		return "?"
	}
	return weekdayNames[day]
}

// JoinDays renders weekday indices in the comma-separated wire form.
func JoinDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// ParseDays reads the comma-separated wire form.
func ParseDays(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var days []int
	for _, part := range strings.Split(raw, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		days = append(days, d)
	}
	return days, nil
}
