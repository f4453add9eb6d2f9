package timer

import (
	"fmt"
	"time"
)

// Snapshot is a read-only view of the timer for rendering.
type Snapshot struct {
	State     State
	Mode      Mode
	Remaining time.Duration
	Total     time.Duration
	TaskID    *int64
	Sessions  int
}

// Snapshot captures the current state.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		State:     t.state,
		Mode:      t.mode,
		Remaining: time.Duration(t.remaining) * time.Second,
		Total:     time.Duration(t.fullSeconds(t.mode)) * time.Second,
		Sessions:  t.sessions,
	}
	if t.taskID != nil {
		id := *t.taskID
		s.TaskID = &id
	}
	return s
}

// Clock renders the remaining time as MM:SS.
func (s Snapshot) Clock() string {
	secs := int(s.Remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Progress is the elapsed fraction of the current interval, 0..1.
func (s Snapshot) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Total-s.Remaining) / float64(s.Total)
}

func (s Snapshot) String() string {
	label := "Focus"
	if s.Mode == ModeBreak {
		label = "Break"
	}
	return fmt.Sprintf("%s %s (%s)", label, s.Clock(), s.State)
}
