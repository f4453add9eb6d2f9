package notify

import (
	"bytes"
	"errors"
	"testing"
)

func TestBellCues(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, 0)
	b.StartCue()
	if buf.String() != "\a" {
		t.Errorf("start cue = %q", buf.String())
	}
	buf.Reset()
	b.CompletionCue()
	if buf.String() != "\a\a\a" {
		t.Errorf("completion cue = %q", buf.String())
	}
}

type stubNotifier struct {
	granted bool
	err     error
	sent    []string
}

func (s *stubNotifier) RequestPermission() bool { return s.granted }

func (s *stubNotifier) Notify(title, _ string) error {
	s.sent = append(s.sent, title)
	return s.err
}

func TestFanoutOnlyNotifiesGrantedChannels(t *testing.T) {
	denied := &stubNotifier{}
	granted := &stubNotifier{granted: true}
	failing := &stubNotifier{granted: true, err: errors.New("offline")}
	f := NewFanout(denied, granted, failing)

	if f.Notify("early", "") != nil || len(granted.sent) != 0 {
		t.Fatal("notified before permission was requested")
	}
	if !f.RequestPermission() {
		t.Fatal("expected permission")
	}
	if err := f.Notify("done", "body"); err == nil {
		t.Error("expected error from failing channel")
	}
	if len(denied.sent) != 0 || len(granted.sent) != 1 || len(failing.sent) != 1 {
		t.Errorf("sent: denied %v, granted %v, failing %v", denied.sent, granted.sent, failing.sent)
	}

	if NewFanout(denied).RequestPermission() {
		t.Error("permission granted with no willing channel")
	}
}
