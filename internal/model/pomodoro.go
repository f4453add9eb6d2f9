package model

import "time"

const (
	PomodoroWork  = "work"
	PomodoroBreak = "break"

	DefaultPomodoroMinutes = 25
)

// Pomodoro records one completed timer interval.
type Pomodoro struct {
	ID          int64      `json:"id"`
	TaskID      *int64     `json:"task_id"`
	Duration    int        `json:"duration,omitempty"`
	Type        string     `json:"type,omitempty"`
	CreatedAt   Timestamp  `json:"created_at"`
	CompletedAt *Timestamp `json:"completed_at,omitempty"`
}

// RecordedAt is the moment the interval finished, whichever field carries it.
func (p Pomodoro) RecordedAt() time.Time {
	if p.CompletedAt != nil && !p.CompletedAt.IsZero() {
		return p.CompletedAt.Time
	}
	return p.CreatedAt.Time
}

// Minutes returns the recorded duration, treating a missing value as the default.
func (p Pomodoro) Minutes() int {
	if p.Duration <= 0 {
		return DefaultPomodoroMinutes
	}
	return p.Duration
}

// PomodoroInput is the body sent when recording a pomodoro.
type PomodoroInput struct {
	TaskID   *int64 `json:"task_id"`
	Duration int    `json:"duration"`
	Type     string `json:"type"`
}

// FocusTotals aggregates a set of pomodoros.
type FocusTotals struct {
	Count     int `json:"count"`
	FocusTime int `json:"focus_time"`
}

// PomodoroStats is returned by both backends. Local stats fill Today and Total,
// the remote service fills Today and Week.
type PomodoroStats struct {
	Today FocusTotals  `json:"today"`
	Total FocusTotals  `json:"total"`
	Week  *FocusTotals `json:"week,omitempty"`
}

// GuestData is the snapshot of everything held on the device in guest mode.
type GuestData struct {
	Tasks     []Task     `json:"tasks"`
	Pomodoros []Pomodoro `json:"pomodoros"`
}
