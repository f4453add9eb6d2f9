// Package timer implements the Pomodoro countdown: a work/break state machine
// driven by an injected one-second ticker.
package timer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"pomovity/internal/model"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

type Mode string

const (
	ModeWork  Mode = model.PomodoroWork
	ModeBreak Mode = model.PomodoroBreak
)

const (
	DefaultWork  = 25 * time.Minute
	DefaultBreak = 5 * time.Minute

	recordTimeout = 15 * time.Second
)

// ErrInvalidTransition is returned when an action does not apply to the
// current state, e.g. pausing an idle timer.
var ErrInvalidTransition = errors.New("invalid timer transition")

// Ticker calls tick once per second until the returned cancel func is called.
type Ticker interface {
	Schedule(tick func()) (cancel func(), err error)
}

// Recorder stores a completed work interval in the active backend.
type Recorder interface {
	CreatePomodoro(ctx context.Context, input model.PomodoroInput) (*model.Pomodoro, error)
}

// Notifier raises user-visible notifications once permission is granted.
type Notifier interface {
	RequestPermission() bool
	Notify(title, body string) error
}

// Sounder plays the audible cues.
type Sounder interface {
	StartCue()
	CompletionCue()
}

// Options wires a Timer. Zero durations fall back to 25/5 minutes; a nil
// Notifier or Sounder disables that side effect.
type Options struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration

	Ticker   Ticker
	Recorder Recorder
	Notifier Notifier
	Sounder  Sounder

	// OnComplete fires after every finished interval with the mode that just
	// completed.
	OnComplete func(completed Mode)
}

type Timer struct {
	opts Options

	mu        sync.Mutex
	state     State
	mode      Mode
	remaining int
	taskID    *int64
	permitted bool
	sessions  int
	cancel    func()
}

func New(opts Options) *Timer {
	if opts.WorkDuration <= 0 {
		opts.WorkDuration = DefaultWork
	}
	if opts.BreakDuration <= 0 {
		opts.BreakDuration = DefaultBreak
	}
	t := &Timer{opts: opts, state: StateIdle, mode: ModeWork}
	t.remaining = t.fullSeconds(ModeWork)
	return t
}

// SelectTask associates future work intervals with a task; nil clears it.
func (t *Timer) SelectTask(taskID *int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if taskID == nil {
		t.taskID = nil
		return
	}
	id := *taskID
	t.taskID = &id
}

// Start moves an idle timer to running.
func (t *Timer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateIdle {
		return fmt.Errorf("start from %s: %w", t.state, ErrInvalidTransition)
	}
	if t.opts.Notifier != nil {
		t.permitted = t.opts.Notifier.RequestPermission()
	}
	if t.opts.Sounder != nil {
		t.opts.Sounder.StartCue()
	}
	if err := t.schedule(); err != nil {
		return err
	}
	t.state = StateRunning
	return nil
}

func (t *Timer) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return fmt.Errorf("pause from %s: %w", t.state, ErrInvalidTransition)
	}
	t.unschedule()
	t.state = StatePaused
	return nil
}

func (t *Timer) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePaused {
		return fmt.Errorf("resume from %s: %w", t.state, ErrInvalidTransition)
	}
	if err := t.schedule(); err != nil {
		return err
	}
	t.state = StateRunning
	return nil
}

// Stop abandons the current interval; the mode is kept.
func (t *Timer) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle {
		return fmt.Errorf("stop from %s: %w", t.state, ErrInvalidTransition)
	}
	t.unschedule()
	t.state = StateIdle
	t.remaining = t.fullSeconds(t.mode)
	return nil
}

// Reset returns to an idle work interval from any state.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.unschedule()
	t.state = StateIdle
	t.mode = ModeWork
	t.remaining = t.fullSeconds(ModeWork)
}

// Tick advances a running timer by one second. Ticks arriving in any other
// state are ignored.
func (t *Timer) Tick() {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return
	}
	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return
	}
	done := t.complete()
	t.mu.Unlock()

	t.finish(done)
}

// completion is what a finished interval still has to do once the lock is
// released.
type completion struct {
	mode   Mode
	notify bool
	record *model.PomodoroInput
}

// complete runs with t.mu held. It only changes state; cues, notifications
// and recording happen in finish.
func (t *Timer) complete() completion {
	done := completion{mode: t.mode, notify: t.permitted && t.opts.Notifier != nil}
	t.unschedule()
	t.state = StateIdle

	if done.mode == ModeWork && t.taskID != nil && t.opts.Recorder != nil {
		id := *t.taskID
		done.record = &model.PomodoroInput{
			TaskID:   &id,
			Duration: int(t.opts.WorkDuration / time.Minute),
			Type:     model.PomodoroWork,
		}
	}

	if done.mode == ModeWork {
		t.mode = ModeBreak
	} else {
		t.mode = ModeWork
	}
	t.remaining = t.fullSeconds(t.mode)
	return done
}

func (t *Timer) finish(done completion) {
	if t.opts.Sounder != nil {
		t.opts.Sounder.CompletionCue()
	}
	if done.notify {
		title, body := completionMessage(done.mode)
		if err := t.opts.Notifier.Notify(title, body); err != nil {
			log.Printf("notify: %v", err)
		}
	}

	if done.record != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		_, err := t.opts.Recorder.CreatePomodoro(ctx, *done.record)
		cancel()
		if err != nil {
			log.Printf("save pomodoro: %v", err)
		} else {
			t.mu.Lock()
			t.sessions++
			t.mu.Unlock()
		}
	}

	if t.opts.OnComplete != nil {
		t.opts.OnComplete(done.mode)
	}
}

func (t *Timer) schedule() error {
	if t.opts.Ticker == nil {
		return fmt.Errorf("timer has no ticker")
	}
	cancel, err := t.opts.Ticker.Schedule(t.Tick)
	if err != nil {
		return fmt.Errorf("schedule ticks: %w", err)
	}
	t.cancel = cancel
	return nil
}

func (t *Timer) unschedule() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Timer) fullSeconds(mode Mode) int {
	if mode == ModeBreak {
		return int(t.opts.BreakDuration / time.Second)
	}
	return int(t.opts.WorkDuration / time.Second)
}

func completionMessage(completed Mode) (title, body string) {
	if completed == ModeWork {
		return "🎉 Work session complete!", "Time to take a break! You earned it."
	}
	return "☕ Break time over!", "Ready to focus again? Let's get back to work!"
}
