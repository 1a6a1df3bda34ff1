// Package timer implements the countdown used by the focus timer and the
// task timer.
package timer

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sadopc/focusknob/internal/ledger"
)

const (
	DefaultMinutes = 25
	MinMinutes     = 1
	MaxMinutes     = 60

	// Debounce is how long after pausing the Continue and Reset taps are
	// ignored.
	Debounce = 300 * time.Millisecond
)

type State int

const (
	Ready State = iota
	Running
	Paused
	Done
)

var stateNames = map[State]string{
	Ready:   "READY",
	Running: "RUNNING",
	Paused:  "PAUSED",
	Done:    "DONE",
}

func (s State) String() string { return stateNames[s] }

type Event int

const (
	Press Event = iota
	Left
	Right
	Tick
	ContinueTap
	ResetTap
)

// Kind distinguishes the plain focus timer from the task timer.
type Kind int

const (
	Generic Kind = iota
	TaskLinked
)

// TaskRef names the task a task timer is bound to.
type TaskRef struct {
	Key  string
	Name string
}

// Recorder receives completed sessions.
type Recorder interface {
	AddSession(kind ledger.Kind, minutes int) error
}

// Reporter tells the host a task countdown finished.
type Reporter interface {
	SendTaskTimerDone(key string, minutes int)
}

// Haptic plays a short pulse.
type Haptic interface {
	Pulse()
}

// Source is a tick source the engine can pause and resume.
type Source interface {
	Resume()
	Suspend()
}

type nopHaptic struct{}

func (nopHaptic) Pulse() {}

type nopSource struct{}

func (nopSource) Resume() {}
func (nopSource) Suspend() {}

// Engine is one countdown. It is not safe for concurrent use.
type Engine struct {
	kind       Kind
	task       TaskRef
	setMinutes int
	remaining  int
	state      State
	pausedAt   time.Time

	ticks    Source
	ledger   Recorder
	reporter Reporter
	haptic   Haptic
	onDone   func(task TaskRef, minutes int)

	now func() time.Time
	log *log.Logger
}

type Option func(*Engine)

// WithRecorder sets where completed sessions are logged.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.ledger = r }
}

// WithReporter sets where task completions are reported. Only task timers
// report.
func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

func WithHaptic(h Haptic) Option {
	return func(e *Engine) { e.haptic = h }
}

func WithSource(s Source) Option {
	return func(e *Engine) { e.ticks = s }
}

// WithClock sets the monotonic clock used for the debounce window.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.log = logger }
}

// WithMinutes sets the initial duration, clamped to the valid range.
func WithMinutes(m int) Option {
	return func(e *Engine) { e.setMinutes = clamp(m) }
}

// OnDone registers a callback run after a countdown completes.
func OnDone(fn func(task TaskRef, minutes int)) Option {
	return func(e *Engine) { e.onDone = fn }
}

func New(kind Kind, opts ...Option) *Engine {
	e := &Engine{
		kind:       kind,
		setMinutes: DefaultMinutes,
		state:      Ready,
		ticks:      nopSource{},
		haptic:     nopHaptic{},
		now:        time.Now,
		log:        log.New(io.Discard),
	}
	for _, o := range opts {
		o(e)
	}
	e.remaining = e.setMinutes * 60
	return e
}

// Handle applies ev and reports whether the engine changed.
func (e *Engine) Handle(ev Event) bool {
	switch e.state {
	case Ready:
		switch ev {
		case Left:
			return e.adjust(-1)
		case Right:
			return e.adjust(1)
		case Press:
			e.state = Running
			e.ticks.Resume()
			e.haptic.Pulse()
			e.log.Debug("timer started", "kind", e.kind, "minutes", e.setMinutes)
			return true
		}

	case Running:
		switch ev {
		case Tick:
			e.remaining--
			if e.remaining <= 0 {
				e.remaining = 0
				e.complete()
			}
			return true
		case Press:
			e.state = Paused
			e.pausedAt = e.now()
			e.ticks.Suspend()
			e.haptic.Pulse()
			return true
		}

	case Paused:
		switch ev {
		case ContinueTap:
			if !e.debounced() {
				return false
			}
			e.state = Running
			e.ticks.Resume()
			e.haptic.Pulse()
			return true
		case ResetTap:
			if !e.debounced() {
				return false
			}
			e.reset()
			e.haptic.Pulse()
			return true
		}

	case Done:
		if ev == Press {
			e.reset()
			e.haptic.Pulse()
			return true
		}
	}
	return false
}

// debounced reports whether the pause is old enough to accept a tap.
func (e *Engine) debounced() bool {
	if e.now().Sub(e.pausedAt) < Debounce {
		e.log.Debug("tap ignored inside debounce window")
		return false
	}
	return true
}

func (e *Engine) adjust(delta int) bool {
	m := clamp(e.setMinutes + delta)
	if m == e.setMinutes {
		return false
	}
	e.setMinutes = m
	e.remaining = m * 60
	return true
}

func (e *Engine) reset() {
	e.state = Ready
	e.remaining = e.setMinutes * 60
	e.ticks.Suspend()
}

func (e *Engine) complete() {
	e.state = Done
	e.ticks.Suspend()
	e.haptic.Pulse()
	e.log.Info("timer done", "kind", e.kind, "minutes", e.setMinutes, "task", e.task.Key)

	if e.ledger != nil {
		if err := e.ledger.AddSession(ledger.Work, e.setMinutes); err != nil {
			e.log.Error("record session", "err", err)
		}
	}
	if e.kind == TaskLinked && e.reporter != nil && e.task.Key != "" {
		e.reporter.SendTaskTimerDone(e.task.Key, e.setMinutes)
	}
	if e.onDone != nil {
		e.onDone(e.task, e.setMinutes)
	}
}

// Bind attaches a task to the engine and returns it to Ready.
func (e *Engine) Bind(task TaskRef) {
	e.task = task
	e.reset()
}

// SetMinutes changes the duration while Ready.
func (e *Engine) SetMinutes(m int) bool {
	if e.state != Ready {
		return false
	}
	e.setMinutes = clamp(m)
	e.remaining = e.setMinutes * 60
	return true
}

func (e *Engine) State() State { return e.state }
func (e *Engine) Kind() Kind { return e.kind }
func (e *Engine) Task() TaskRef { return e.task }
func (e *Engine) Minutes() int { return e.setMinutes }
func (e *Engine) Remaining() int { return e.remaining }
func (e *Engine) PausedAt() time.Time { return e.pausedAt }

// Progress is the dial fill: the share of an hour while Ready, the share of
// the countdown left otherwise.
func (e *Engine) Progress() float64 {
	if e.state == Ready {
		return float64(e.setMinutes) / MaxMinutes
	}
	return float64(e.remaining) / float64(e.setMinutes*60)
}

// Status is a copy of the engine's observable state.
type Status struct {
	Kind      Kind
	State     State
	Minutes   int
	Remaining int
	Progress  float64
	Task      TaskRef
}

func (e *Engine) Status() Status {
	return Status{
		Kind:      e.kind,
		State:     e.state,
		Minutes:   e.setMinutes,
		Remaining: e.remaining,
		Progress:  e.Progress(),
		Task:      e.task,
	}
}

// FormatRemaining renders seconds as MM:SS.
func FormatRemaining(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func clamp(m int) int {
	return max(MinMinutes, min(MaxMinutes, m))
}
