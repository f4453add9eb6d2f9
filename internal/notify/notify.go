// Package notify provides the audible cues and notification channels used by
// the focus timer.
package notify

import (
	"errors"
	"io"
	"log"
	"sync"
	"time"
)

// Notifier delivers a notification once permission has been granted.
type Notifier interface {
	RequestPermission() bool
	Notify(title, body string) error
}

// Bell plays cues with the terminal bell.
type Bell struct {
	mu  sync.Mutex
	w   io.Writer
	gap time.Duration
}

// NewBell writes cues to w. Completion chimes are spaced by gap.
func NewBell(w io.Writer, gap time.Duration) *Bell {
	return &Bell{w: w, gap: gap}
}

// StartCue rings once.
func (b *Bell) StartCue() {
	b.ring(1)
}

// CompletionCue rings three times.
func (b *Bell) CompletionCue() {
	b.ring(3)
}

func (b *Bell) ring(times int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < times; i++ {
		if i > 0 && b.gap > 0 {
			time.Sleep(b.gap)
		}
		if _, err := io.WriteString(b.w, "\a"); err != nil {
			log.Printf("bell: %v", err)
			return
		}
	}
}

// Log writes notifications to the standard logger. It never needs permission.
type Log struct{}

func (Log) RequestPermission() bool { return true }

func (Log) Notify(title, body string) error {
	log.Printf("[info] %s %s", title, body)
	return nil
}

// Fanout sends every notification to all channels that granted permission.
type Fanout struct {
	channels []Notifier

	mu      sync.Mutex
	granted []Notifier
}

func NewFanout(channels ...Notifier) *Fanout {
	return &Fanout{channels: channels}
}

// RequestPermission asks each channel; permission is granted if any agrees.
func (f *Fanout) RequestPermission() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.granted = f.granted[:0]
	for _, ch := range f.channels {
		if ch.RequestPermission() {
			f.granted = append(f.granted, ch)
		}
	}
	return len(f.granted) > 0
}

func (f *Fanout) Notify(title, body string) error {
	f.mu.Lock()
	granted := append([]Notifier(nil), f.granted...)
	f.mu.Unlock()

	var errs []error
	for _, ch := range granted {
		if err := ch.Notify(title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
