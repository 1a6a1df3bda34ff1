// Package link speaks the line protocol with the host companion over the
// serial port: it assembles inbound commands, updates the caches, answers
// log and time requests, delivers queued notes one at a time and tracks
// whether the host is alive.
//
// An Engine is not safe for concurrent use. The device calls it with its
// state lock held.
package link

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sadopc/focusknob/internal/bounded"
	"github.com/sadopc/focusknob/internal/cache"
	"github.com/sadopc/focusknob/internal/clock"
	"github.com/sadopc/focusknob/internal/ledger"
)

// HeartbeatTimeout is how long the link stays connected without a PING.
const HeartbeatTimeout = 15 * time.Second

// maxMeetingTitle bounds the title in TASK_LOG_MEETING.
const maxMeetingTitle = 63

var ErrInvalidTime = errors.New("link: invalid time format")

// LogSource supplies today's ledger entry for GET_LOGS.
type LogSource interface {
	Today() (ledger.Day, bool)
}

// Observer is told about inbound commands that affect other components.
type Observer interface {
	// TasksUpdated follows a successful task list replacement.
	TasksUpdated()
	// TaskLogResult reports the host's answer to a time log request.
	TaskLogResult(ok bool, msg string)
	// LinkChanged follows any change worth a redraw.
	LinkChanged()
}

type nopObserver struct{}

func (nopObserver) TasksUpdated() {}
func (nopObserver) TaskLogResult(bool, string) {}
func (nopObserver) LinkChanged() {}

type Engine struct {
	out    io.Writer
	asm    Assembler
	notes  *bounded.Queue[Note]
	caches *cache.Caches
	wall   *clock.Wall
	logs   LogSource
	obs    Observer

	connected bool
	lastBeat  time.Time

	now func() time.Time
	log *log.Logger
}

type Option func(*Engine)

// WithClock sets the monotonic clock used for heartbeats.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.obs = o }
}

func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.log = logger }
}

// New returns an engine writing outbound lines to out.
func New(out io.Writer, caches *cache.Caches, wall *clock.Wall, logs LogSource, opts ...Option) *Engine {
	e := &Engine{
		out:    out,
		notes:  bounded.NewQueue[Note](MaxPendingNotes),
		caches: caches,
		wall:   wall,
		logs:   logs,
		obs:    nopObserver{},
		now:    time.Now,
		log:    log.New(io.Discard),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Feed passes raw bytes from the port through the assembler and handles
// every completed command.
func (e *Engine) Feed(p []byte) {
	for _, line := range e.asm.Write(p) {
		if line.Overflow {
			e.log.Warn("inbound command exceeded buffer", "limit", BufferSize)
			e.send("ERROR:Command too long")
			continue
		}
		e.Handle(line.Text)
	}
}

// Handle dispatches one inbound command.
func (e *Engine) Handle(cmd string) {
	e.log.Debug("received", "cmd", abbreviate(cmd))

	switch {
	case cmd == "PING":
		e.handlePing()
	case cmd == "GET_LOGS":
		e.sendLogs()
	case cmd == "OK":
		e.handleAck()
	case cmd == "TASK_LOG_OK":
		e.log.Info("task time logged")
		e.obs.TaskLogResult(true, "Logged!")
	case strings.HasPrefix(cmd, "TASK_LOG_ERROR:"):
		msg := strings.TrimPrefix(cmd, "TASK_LOG_ERROR:")
		e.log.Warn("task time log failed", "msg", msg)
		e.obs.TaskLogResult(false, msg)
	case strings.HasPrefix(cmd, "TIME:"):
		e.handleTime(strings.TrimPrefix(cmd, "TIME:"))
	case strings.HasPrefix(cmd, "TASKS:"):
		if e.apply("tasks", func(at time.Time) error {
			return e.caches.Tasks.Apply(strings.TrimPrefix(cmd, "TASKS:"), cache.ParseTasks, at)
		}, "TASKS_OK") {
			e.obs.TasksUpdated()
		}
	case strings.HasPrefix(cmd, "WEATHER:"):
		e.apply("weather", func(at time.Time) error {
			return e.caches.Weather.Apply(strings.TrimPrefix(cmd, "WEATHER:"), cache.ParseWeather, at)
		}, "WEATHER_OK")
	case strings.HasPrefix(cmd, "CALENDAR:"):
		e.apply("calendar", func(at time.Time) error {
			return e.caches.Calendar.Apply(strings.TrimPrefix(cmd, "CALENDAR:"), cache.ParseCalendar, at)
		}, "CALENDAR_OK")
	case strings.HasPrefix(cmd, "LOGGED_HOURS:"):
		e.apply("logged hours", func(at time.Time) error {
			return e.caches.Hours.Apply(strings.TrimPrefix(cmd, "LOGGED_HOURS:"), cache.ParseLoggedHours, at)
		}, "LOGGED_HOURS_OK")
	default:
		e.log.Warn("unknown command", "cmd", abbreviate(cmd))
		e.send("ERROR:Unknown command")
	}
}

// apply runs a cache update and acknowledges it. A malformed payload is
// answered with an error line and leaves the cache as it was.
func (e *Engine) apply(kind string, update func(time.Time) error, ack string) bool {
	if err := update(e.wall.Now()); err != nil {
		e.log.Error("cache update rejected", "kind", kind, "err", err)
		e.send("ERROR:Invalid " + kind + " payload")
		return false
	}
	e.send(ack)
	e.obs.LinkChanged()
	return true
}

func (e *Engine) handlePing() {
	wasConnected := e.connected
	e.connected = true
	e.lastBeat = e.now()
	e.send("PONG")
	if !wasConnected {
		e.log.Info("host connected")
		e.obs.LinkChanged()
	}
	e.flushNote()
}

func (e *Engine) handleTime(payload string) {
	t, err := ParseTime(payload)
	if err != nil {
		e.log.Warn("bad time sync", "payload", payload, "err", err)
		e.send("ERROR:Invalid time format")
		return
	}
	e.wall.Set(t)
	e.send("TIME_OK")
	e.log.Info("wall clock set", "time", t.Format(time.DateTime))
	e.obs.LinkChanged()
}

// ParseTime reads YYYY-MM-DDTHH:MM:SS in local time. Fields need not be
// zero padded.
func ParseTime(s string) (time.Time, error) {
	var y, mo, d, h, mi, sec int
	if _, err := fmt.Sscanf(s, "%d-%d-%dT%d:%d:%d", &y, &mo, &d, &h, &mi, &sec); err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if mo < 1 || mo > 12 || d < 1 || d > daysIn(y, time.Month(mo)) ||
		h < 0 || h > 23 || mi < 0 || mi > 59 || sec < 0 || sec > 59 {
		return time.Time{}, fmt.Errorf("%w: %q out of range", ErrInvalidTime, s)
	}
	return time.Date(y, time.Month(mo), d, h, mi, sec, 0, time.Local), nil
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CheckLiveness demotes the link once the heartbeat is older than
// HeartbeatTimeout. It reports whether the state changed.
func (e *Engine) CheckLiveness() bool {
	if !e.connected || e.now().Sub(e.lastBeat) <= HeartbeatTimeout {
		return false
	}
	e.connected = false
	e.log.Warn("host connection timed out", "last_heartbeat", e.lastBeat)
	e.obs.LinkChanged()
	return true
}

func (e *Engine) Connected() bool { return e.connected }

// LastHeartbeat is when the last PING arrived.
func (e *Engine) LastHeartbeat() time.Time { return e.lastBeat }

func (e *Engine) send(line string) {
	if _, err := io.WriteString(e.out, line+"\n"); err != nil {
		e.log.Error("write to host failed", "err", err)
		return
	}
	e.log.Debug("sent", "line", abbreviate(line))
}

func abbreviate(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
