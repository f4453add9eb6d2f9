package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	"pomovity/internal/model"
)

type fakeTicker struct {
	tick      func()
	scheduled int
	cancelled int
}

func (f *fakeTicker) Schedule(tick func()) (func(), error) {
	f.tick = tick
	f.scheduled++
	return func() {
		f.tick = nil
		f.cancelled++
	}, nil
}

// advance fires n ticks, stopping early if the timer cancelled them.
func (f *fakeTicker) advance(n int) int {
	fired := 0
	for i := 0; i < n && f.tick != nil; i++ {
		f.tick()
		fired++
	}
	return fired
}

type fakeRecorder struct {
	inputs []model.PomodoroInput
	err    error
}

func (f *fakeRecorder) CreatePomodoro(_ context.Context, input model.PomodoroInput) (*model.Pomodoro, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &model.Pomodoro{ID: int64(len(f.inputs)), TaskID: input.TaskID, Duration: input.Duration, Type: input.Type}, nil
}

type fakeNotifier struct {
	granted bool
	asked   int
	titles  []string
}

func (f *fakeNotifier) RequestPermission() bool {
	f.asked++
	return f.granted
}

func (f *fakeNotifier) Notify(title, _ string) error {
	f.titles = append(f.titles, title)
	return nil
}

type fakeSounder struct{ starts, completions int }

func (f *fakeSounder) StartCue()      { f.starts++ }
func (f *fakeSounder) CompletionCue() { f.completions++ }

func TestInitialState(t *testing.T) {
	snap := New(Options{Ticker: &fakeTicker{}}).Snapshot()
	if snap.State != StateIdle || snap.Mode != ModeWork || snap.Clock() != "25:00" {
		t.Errorf("initial snapshot = %v", snap)
	}
}

func TestWorkIntervalCompletes(t *testing.T) {
	ticker := &fakeTicker{}
	recorder := &fakeRecorder{}
	notifier := &fakeNotifier{granted: true}
	sounder := &fakeSounder{}
	var events []Mode

	tm := New(Options{
		Ticker:     ticker,
		Recorder:   recorder,
		Notifier:   notifier,
		Sounder:    sounder,
		OnComplete: func(m Mode) { events = append(events, m) },
	})
	taskID := int64(7)
	tm.SelectTask(&taskID)

	if err := tm.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if notifier.asked != 1 || sounder.starts != 1 {
		t.Errorf("start side effects: asked %d, start cues %d", notifier.asked, sounder.starts)
	}

	if fired := ticker.advance(1499); fired != 1499 {
		t.Fatalf("fired %d ticks", fired)
	}
	if snap := tm.Snapshot(); snap.State != StateRunning || snap.Clock() != "00:01" {
		t.Fatalf("after 1499 ticks: %v", snap)
	}
	if len(events) != 0 {
		t.Fatalf("completion fired early: %v", events)
	}

	ticker.advance(1)

	snap := tm.Snapshot()
	if snap.State != StateIdle || snap.Mode != ModeBreak || snap.Clock() != "05:00" {
		t.Errorf("after 1500 ticks: %v, want idle break 05:00", snap)
	}
	if len(events) != 1 || events[0] != ModeWork {
		t.Errorf("events = %v, want [work]", events)
	}
	if ticker.tick != nil {
		t.Error("ticks still scheduled after completion")
	}
	if sounder.completions != 1 {
		t.Errorf("completion cues = %d, want 1", sounder.completions)
	}
	if len(notifier.titles) != 1 {
		t.Errorf("notifications = %v, want one", notifier.titles)
	}
	if len(recorder.inputs) != 1 {
		t.Fatalf("recorded %d pomodoros, want 1", len(recorder.inputs))
	}
	got := recorder.inputs[0]
	if got.TaskID == nil || *got.TaskID != 7 || got.Duration != 25 || got.Type != model.PomodoroWork {
		t.Errorf("recorded %+v", got)
	}
	if snap.Sessions != 1 {
		t.Errorf("sessions = %d, want 1", snap.Sessions)
	}
}

func TestBreakCompletionDoesNotRecord(t *testing.T) {
	ticker := &fakeTicker{}
	recorder := &fakeRecorder{}
	var events []Mode
	tm := New(Options{
		WorkDuration:  2 * time.Second,
		BreakDuration: time.Second,
		Ticker:        ticker,
		Recorder:      recorder,
		OnComplete:    func(m Mode) { events = append(events, m) },
	})
	taskID := int64(1)
	tm.SelectTask(&taskID)

	tm.Start()
	ticker.advance(2)
	tm.Start()
	ticker.advance(1)

	if len(events) != 2 || events[1] != ModeBreak {
		t.Errorf("events = %v, want [work break]", events)
	}
	if len(recorder.inputs) != 1 {
		t.Errorf("recorded %d, want only the work interval", len(recorder.inputs))
	}
	if snap := tm.Snapshot(); snap.Mode != ModeWork || snap.Clock() != "00:02" {
		t.Errorf("after break: %v", snap)
	}
}

func TestNoTaskSkipsRecording(t *testing.T) {
	ticker := &fakeTicker{}
	recorder := &fakeRecorder{}
	tm := New(Options{WorkDuration: time.Second, Ticker: ticker, Recorder: recorder})
	tm.Start()
	ticker.advance(1)
	if len(recorder.inputs) != 0 {
		t.Errorf("recorded %d pomodoros without a task", len(recorder.inputs))
	}
}

func TestRecordFailureStillSwitchesMode(t *testing.T) {
	ticker := &fakeTicker{}
	recorder := &fakeRecorder{err: errors.New("offline")}
	completed := 0
	tm := New(Options{
		WorkDuration: time.Second,
		Ticker:       ticker,
		Recorder:     recorder,
		OnComplete:   func(Mode) { completed++ },
	})
	id := int64(2)
	tm.SelectTask(&id)
	tm.Start()
	ticker.advance(1)

	snap := tm.Snapshot()
	if snap.Mode != ModeBreak || completed != 1 {
		t.Errorf("mode %s, completions %d", snap.Mode, completed)
	}
	if snap.Sessions != 0 {
		t.Errorf("sessions = %d, want 0 after failed save", snap.Sessions)
	}
}

func TestDeniedPermissionSuppressesNotification(t *testing.T) {
	ticker := &fakeTicker{}
	notifier := &fakeNotifier{granted: false}
	tm := New(Options{WorkDuration: time.Second, Ticker: ticker, Notifier: notifier})
	tm.Start()
	ticker.advance(1)
	if len(notifier.titles) != 0 {
		t.Errorf("notified %v without permission", notifier.titles)
	}
}

func TestPauseResumeStop(t *testing.T) {
	ticker := &fakeTicker{}
	tm := New(Options{Ticker: ticker})

	if err := tm.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pause from idle err = %v", err)
	}

	tm.Start()
	ticker.advance(60)
	if err := tm.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if ticker.tick != nil {
		t.Error("ticks still scheduled while paused")
	}
	snap := tm.Snapshot()
	if snap.State != StatePaused || snap.Clock() != "24:00" {
		t.Errorf("paused snapshot = %v", snap)
	}

	if err := tm.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	ticker.advance(30)
	if snap := tm.Snapshot(); snap.State != StateRunning || snap.Clock() != "23:30" {
		t.Errorf("resumed snapshot = %v", snap)
	}

	if err := tm.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if snap := tm.Snapshot(); snap.State != StateIdle || snap.Mode != ModeWork || snap.Clock() != "25:00" {
		t.Errorf("stopped snapshot = %v", snap)
	}
	if err := tm.Stop(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Stop from idle err = %v", err)
	}
}

func TestStopKeepsBreakMode(t *testing.T) {
	ticker := &fakeTicker{}
	tm := New(Options{WorkDuration: time.Second, Ticker: ticker})
	tm.Start()
	ticker.advance(1)
	tm.Start()
	ticker.advance(10)
	tm.Stop()
	if snap := tm.Snapshot(); snap.Mode != ModeBreak || snap.Clock() != "05:00" {
		t.Errorf("snapshot = %v, want idle break 05:00", snap)
	}
}

func TestResetForcesWork(t *testing.T) {
	ticker := &fakeTicker{}
	tm := New(Options{WorkDuration: time.Second, Ticker: ticker})
	tm.Start()
	ticker.advance(1)
	tm.Start()
	ticker.advance(3)

	tm.Reset()
	if ticker.tick != nil {
		t.Error("ticks still scheduled after reset")
	}
	if snap := tm.Snapshot(); snap.State != StateIdle || snap.Mode != ModeWork || snap.Clock() != "00:01" {
		t.Errorf("reset snapshot = %v", snap)
	}
}

func TestStaleTickIgnored(t *testing.T) {
	ticker := &fakeTicker{}
	tm := New(Options{Ticker: ticker})
	tm.Start()
	tick := ticker.tick
	tm.Pause()
	tick()
	if snap := tm.Snapshot(); snap.Clock() != "25:00" {
		t.Errorf("stale tick changed remaining: %v", snap)
	}
}

func TestSnapshotProgress(t *testing.T) {
	ticker := &fakeTicker{}
	tm := New(Options{WorkDuration: 4 * time.Second, Ticker: ticker})
	tm.Start()
	ticker.advance(1)
	if got := tm.Snapshot().Progress(); got != 0.25 {
		t.Errorf("Progress = %v, want 0.25", got)
	}
}

type blockingRecorder struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRecorder) CreatePomodoro(_ context.Context, input model.PomodoroInput) (*model.Pomodoro, error) {
	close(b.entered)
	<-b.release
	return &model.Pomodoro{ID: 1, TaskID: input.TaskID}, nil
}

func TestSnapshotNotBlockedBySlowRecorder(t *testing.T) {
	ticker := &fakeTicker{}
	recorder := &blockingRecorder{entered: make(chan struct{}), release: make(chan struct{})}
	tm := New(Options{WorkDuration: time.Second, Ticker: ticker, Recorder: recorder})
	id := int64(3)
	tm.SelectTask(&id)
	if err := tm.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ticked := make(chan struct{})
	go func() {
		ticker.advance(1)
		close(ticked)
	}()
	<-recorder.entered

	snapped := make(chan Snapshot, 1)
	go func() { snapped <- tm.Snapshot() }()
	select {
	case snap := <-snapped:
		if snap.State != StateIdle || snap.Mode != ModeBreak {
			t.Errorf("snapshot while recording = %v, want idle break", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("Snapshot blocked while the pomodoro was being recorded")
	}

	close(recorder.release)
	<-ticked
	if snap := tm.Snapshot(); snap.Sessions != 1 {
		t.Errorf("sessions = %d, want 1", snap.Sessions)
	}
}
