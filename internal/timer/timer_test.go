package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/sadopc/focusknob/internal/ledger"
)

type fakeLedger struct {
	sessions []int
	err      error
}

func (f *fakeLedger) AddSession(kind ledger.Kind, minutes int) error {
	if kind != ledger.Work {
		return errors.New("unexpected kind")
	}
	f.sessions = append(f.sessions, minutes)
	return f.err
}

type fakeReporter struct{ done []string }

func (f *fakeReporter) SendTaskTimerDone(key string, minutes int) {
	f.done = append(f.done, key)
}

type countingHaptic struct{ n int }

func (c *countingHaptic) Pulse() { c.n++ }

type fakeSource struct{ running bool }

func (f *fakeSource) Resume() { f.running = true }
func (f *fakeSource) Suspend() { f.running = false }

type fixture struct {
	e      *Engine
	ledger *fakeLedger
	rep    *fakeReporter
	haptic *countingHaptic
	src    *fakeSource
	now    time.Time
}

func newFixture(kind Kind, opts ...Option) *fixture {
	f := &fixture{
		ledger: &fakeLedger{},
		rep:    &fakeReporter{},
		haptic: &countingHaptic{},
		src:    &fakeSource{},
		now:    time.Unix(1000, 0),
	}
	base := []Option{
		WithRecorder(f.ledger),
		WithReporter(f.rep),
		WithHaptic(f.haptic),
		WithSource(f.src),
		WithClock(func() time.Time { return f.now }),
	}
	f.e = New(kind, append(base, opts...)...)
	return f
}

// ============================================================
// Ready
// ============================================================

func TestDefaults(t *testing.T) {
	f := newFixture(Generic)
	if f.e.State() != Ready || f.e.Minutes() != DefaultMinutes || f.e.Remaining() != DefaultMinutes*60 {
		t.Fatalf("unexpected initial status: %+v", f.e.Status())
	}
}

func TestAdjustClamped(t *testing.T) {
	f := newFixture(Generic)
	for i := 0; i < 100; i++ {
		f.e.Handle(Right)
		if f.e.Remaining() != f.e.Minutes()*60 {
			t.Fatalf("remaining out of sync at step %d", i)
		}
	}
	if f.e.Minutes() != MaxMinutes {
		t.Fatalf("minutes = %d, want %d", f.e.Minutes(), MaxMinutes)
	}
	if f.e.Handle(Right) {
		t.Fatal("Right at the maximum should be a no-op")
	}

	for i := 0; i < 100; i++ {
		f.e.Handle(Left)
		if f.e.Remaining() != f.e.Minutes()*60 {
			t.Fatalf("remaining out of sync at step %d", i)
		}
	}
	if f.e.Minutes() != MinMinutes {
		t.Fatalf("minutes = %d, want %d", f.e.Minutes(), MinMinutes)
	}
}

func TestKnobIgnoredOutsideReady(t *testing.T) {
	f := newFixture(Generic)
	f.e.Handle(Press)
	if f.e.Handle(Right) || f.e.Minutes() != DefaultMinutes {
		t.Fatal("Right should be ignored while running")
	}
}

func TestProgress(t *testing.T) {
	f := newFixture(Generic, WithMinutes(30))
	if got := f.e.Progress(); got != 0.5 {
		t.Fatalf("ready progress = %v, want 0.5", got)
	}
	f.e.Handle(Press)
	for i := 0; i < 450; i++ {
		f.e.Handle(Tick)
	}
	if got := f.e.Progress(); got != 0.75 {
		t.Fatalf("running progress = %v, want 0.75", got)
	}
}

// ============================================================
// Running / Paused
// ============================================================

func TestPressStartsAndPauses(t *testing.T) {
	f := newFixture(Generic)
	f.e.Handle(Press)
	if f.e.State() != Running || !f.src.running {
		t.Fatal("expected running with ticks resumed")
	}
	f.e.Handle(Tick)
	if f.e.Remaining() != DefaultMinutes*60-1 {
		t.Fatalf("remaining = %d", f.e.Remaining())
	}
	f.e.Handle(Press)
	if f.e.State() != Paused || f.src.running {
		t.Fatal("expected paused with ticks suspended")
	}
	if f.e.PausedAt() != f.now {
		t.Fatal("pausedAt not recorded")
	}
	if f.haptic.n != 2 {
		t.Fatalf("haptic pulses = %d, want 2", f.haptic.n)
	}
}

func TestTickIgnoredWhenNotRunning(t *testing.T) {
	f := newFixture(Generic)
	if f.e.Handle(Tick) || f.e.Remaining() != DefaultMinutes*60 {
		t.Fatal("tick in Ready changed the engine")
	}
	f.e.Handle(Press)
	f.e.Handle(Press)
	before := f.e.Remaining()
	if f.e.Handle(Tick) || f.e.Remaining() != before {
		t.Fatal("tick in Paused changed the engine")
	}
}

func TestPressWhilePausedIsNoop(t *testing.T) {
	f := newFixture(Generic)
	f.e.Handle(Press)
	f.e.Handle(Press)
	f.now = f.now.Add(time.Second)
	if f.e.Handle(Press) || f.e.State() != Paused {
		t.Fatal("Press while paused should do nothing")
	}
}

func TestDebounce(t *testing.T) {
	for _, ev := range []Event{ContinueTap, ResetTap} {
		f := newFixture(Generic)
		f.e.Handle(Press)
		f.e.Handle(Tick)
		f.e.Handle(Press)

		f.now = f.now.Add(Debounce - time.Millisecond)
		if f.e.Handle(ev) || f.e.State() != Paused {
			t.Fatalf("event %d inside debounce window was accepted", ev)
		}

		f.now = f.now.Add(time.Millisecond)
		if !f.e.Handle(ev) {
			t.Fatalf("event %d at the debounce boundary was rejected", ev)
		}
		switch ev {
		case ContinueTap:
			if f.e.State() != Running || !f.src.running {
				t.Fatal("continue should resume")
			}
		case ResetTap:
			if f.e.State() != Ready || f.e.Remaining() != f.e.Minutes()*60 {
				t.Fatal("reset should return to Ready with a full countdown")
			}
		}
	}
}

// ============================================================
// Done
// ============================================================

func TestLastTickCompletes(t *testing.T) {
	f := newFixture(Generic, WithMinutes(1))
	f.e.Handle(Press)
	for i := 0; i < 59; i++ {
		f.e.Handle(Tick)
	}
	if f.e.Remaining() != 1 || f.e.State() != Running {
		t.Fatalf("expected 1 second left, got %d (%s)", f.e.Remaining(), f.e.State())
	}

	f.e.Handle(Tick)
	if f.e.Remaining() != 0 || f.e.State() != Done {
		t.Fatalf("expected Done at 0, got %d (%s)", f.e.Remaining(), f.e.State())
	}
	if len(f.ledger.sessions) != 1 || f.ledger.sessions[0] != 1 {
		t.Fatalf("sessions = %v, want [1]", f.ledger.sessions)
	}
	if f.src.running {
		t.Fatal("ticks should be suspended when done")
	}
	if len(f.rep.done) != 0 {
		t.Fatal("generic timer must not report to the host")
	}

	f.e.Handle(Press)
	if f.e.State() != Ready || f.e.Remaining() != 60 {
		t.Fatal("Press on Done should reset")
	}
}

func TestCompletionIntoRealLedger(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)
	l := ledger.New(nil, ledger.WithClock(func() time.Time { return now }))
	e := New(Generic, WithRecorder(l), WithMinutes(1))
	e.Handle(Press)
	for i := 0; i < 60; i++ {
		e.Handle(Tick)
	}
	d, ok := l.Today()
	if !ok || len(d.Sessions) != 1 || d.Pomodoros != 1 {
		t.Fatalf("expected one recorded session, got %+v", d)
	}
}

func TestTaskTimerReportsCompletion(t *testing.T) {
	var doneTask TaskRef
	f := newFixture(TaskLinked, WithMinutes(1), OnDone(func(task TaskRef, minutes int) {
		doneTask = task
	}))
	f.e.Bind(TaskRef{Key: "A-7", Name: "Fix login"})
	f.e.Handle(Press)
	for i := 0; i < 60; i++ {
		f.e.Handle(Tick)
	}
	if len(f.rep.done) != 1 || f.rep.done[0] != "A-7" {
		t.Fatalf("reported = %v, want [A-7]", f.rep.done)
	}
	if doneTask.Key != "A-7" {
		t.Fatalf("OnDone task = %+v", doneTask)
	}
	if len(f.ledger.sessions) != 1 {
		t.Fatal("task timer should also record to the ledger")
	}
}

func TestLedgerErrorDoesNotBlockDone(t *testing.T) {
	f := newFixture(Generic, WithMinutes(1))
	f.ledger.err = errors.New("flash write failed")
	f.e.Handle(Press)
	for i := 0; i < 60; i++ {
		f.e.Handle(Tick)
	}
	if f.e.State() != Done {
		t.Fatal("persist error must not block the transition")
	}
}

func TestBindResets(t *testing.T) {
	f := newFixture(TaskLinked)
	f.e.Handle(Press)
	f.e.Handle(Tick)
	f.e.Bind(TaskRef{Key: "B-2"})
	if f.e.State() != Ready || f.e.Remaining() != f.e.Minutes()*60 || f.src.running {
		t.Fatal("Bind should reset to Ready")
	}
	if f.e.Task().Key != "B-2" {
		t.Fatal("task not bound")
	}
}

func TestSetMinutesOnlyWhenReady(t *testing.T) {
	f := newFixture(Generic)
	if !f.e.SetMinutes(90) || f.e.Minutes() != MaxMinutes {
		t.Fatal("SetMinutes should clamp in Ready")
	}
	f.e.Handle(Press)
	if f.e.SetMinutes(10) {
		t.Fatal("SetMinutes should be refused while running")
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{1500, "25:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.in); got != tt.want {
			t.Errorf("FormatRemaining(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ============================================================
// Periodic
// ============================================================

func TestPeriodicSuspendResume(t *testing.T) {
	p := NewPeriodic(5 * time.Millisecond)
	defer p.Suspend()

	select {
	case <-p.C():
		t.Fatal("suspended source ticked")
	case <-time.After(20 * time.Millisecond):
	}

	p.Resume()
	if !p.Running() {
		t.Fatal("expected running")
	}
	select {
	case <-p.C():
	case <-time.After(time.Second):
		t.Fatal("resumed source did not tick")
	}

	p.Suspend()
	if p.Running() {
		t.Fatal("expected suspended")
	}
}
