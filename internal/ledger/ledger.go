// Package ledger keeps the per-day record of completed sessions and the
// current streak. A Ledger is not safe for concurrent use; the device
// serialises access behind its state lock.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sadopc/focusknob/internal/bounded"
)

const (
	MaxDays           = 7
	MaxSessionsPerDay = 20
	// MaxStoredSessions is how many session records per day are persisted.
	MaxStoredSessions = 10
	// MaxSessionMinutes bounds a single session; the start time is derived
	// with a single wrap past midnight.
	MaxSessionMinutes = 24 * 60
)

var (
	ErrInvalidDuration = errors.New("ledger: invalid session duration")
	ErrNotFound        = errors.New("ledger: no stored ledger")
)

// Backend stores the encoded ledger document.
type Backend interface {
	SaveLedger(data []byte) error
	// LoadLedger returns ErrNotFound when nothing has been saved yet.
	LoadLedger() ([]byte, error)
}

type day struct {
	date     Date
	work     int
	brk      int
	pomos    int
	sessions bounded.List[SessionRecord]
}

func newDay(d Date) day {
	return day{date: d, sessions: bounded.NewList[SessionRecord](MaxSessionsPerDay)}
}

func (d day) view() Day {
	return Day{
		Date:         d.date,
		WorkMinutes:  d.work,
		BreakMinutes: d.brk,
		Pomodoros:    d.pomos,
		Sessions:     d.sessions.Items(),
	}
}

type Ledger struct {
	days    *bounded.Ring[day]
	streak  int
	backend Backend
	now     func() time.Time
	log     *log.Logger
}

type Option func(*Ledger)

// WithClock sets the wall clock used for dates and session times.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) { l.log = logger }
}

// New returns an empty ledger. A nil backend keeps the ledger in memory.
func New(backend Backend, opts ...Option) *Ledger {
	l := &Ledger{
		days:    bounded.NewRing[day](MaxDays),
		backend: backend,
		now:     time.Now,
		log:     log.New(io.Discard),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Open returns a ledger populated from backend. A missing or unreadable
// document starts a fresh ledger.
func Open(backend Backend, opts ...Option) *Ledger {
	l := New(backend, opts...)
	if err := l.Load(); err != nil {
		l.log.Warn("starting fresh ledger", "err", err)
		l.days.Reset()
		l.streak = 0
	}
	return l
}

// AddSession records a completed session for today, recomputes the streak
// and persists. A persistence error is returned but the in-memory update
// stands.
func (l *Ledger) AddSession(kind Kind, minutes int) error {
	if minutes <= 0 || minutes > MaxSessionMinutes {
		return fmt.Errorf("%w: %d minutes", ErrInvalidDuration, minutes)
	}

	now := l.now()
	d := l.ensureDay(DateOf(now))

	end := TimeOfDayOf(now)
	rec := SessionRecord{Start: end.minus(minutes), End: end, Minutes: minutes, Kind: kind}
	if !d.sessions.Append(rec) {
		l.log.Debug("session detail dropped, day is full", "date", d.date, "limit", MaxSessionsPerDay)
	}

	switch kind {
	case Work:
		d.work += minutes
		d.pomos++
	case Break:
		d.brk += minutes
	}
	l.log.Info("session logged", "kind", kind, "minutes", minutes, "work", d.work, "pomodoros", d.pomos)

	l.streak = l.ComputeStreak()

	if err := l.Persist(); err != nil {
		return fmt.Errorf("add session: %w", err)
	}
	return nil
}

// ensureDay returns the entry for date, creating it if needed. Entries stay
// sorted by date; a full ledger evicts its oldest entry first.
func (l *Ledger) ensureDay(date Date) *day {
	for i := 0; i < l.days.Len(); i++ {
		if d := l.days.At(i); d.date == date {
			return d
		}
	}

	last := l.days.Last()
	if last == nil || last.date.Before(date) {
		if old, evicted := l.days.Push(newDay(date)); evicted {
			l.log.Debug("evicted oldest day", "date", old.date)
		}
		return l.days.Last()
	}

	// The wall clock moved backwards past the newest entry.
	l.log.Warn("inserting day out of order", "date", date, "newest", last.date)
	items := l.days.Items()
	if len(items) >= MaxDays {
		items = items[1:]
	}
	items = append(items, newDay(date))
	sort.SliceStable(items, func(i, j int) bool { return items[i].date.Before(items[j].date) })
	l.days.Reset()
	for _, it := range items {
		l.days.Push(it)
	}
	for i := 0; i < l.days.Len(); i++ {
		if d := l.days.At(i); d.date == date {
			return d
		}
	}
	return nil
}

// ComputeStreak counts consecutive days with at least one pomodoro, walking
// back from the newest entry. Today's entry may be empty without breaking
// the streak.
//
// Consecutiveness only understands day+1 within a month and day 1 of the
// following month in the same year.
func (l *Ledger) ComputeStreak() int {
	today := DateOf(l.now())
	n := l.days.Len()
	streak := 0
	for i := n - 1; i >= 0; i-- {
		d := l.days.At(i)
		if d.pomos > 0 {
			streak++
			if i > 0 && !consecutive(l.days.At(i-1).date, d.date) {
				break
			}
			continue
		}
		if i == n-1 && d.date == today {
			continue
		}
		break
	}
	return streak
}

func consecutive(prev, next Date) bool {
	if prev.Year == next.Year && prev.Month == next.Month {
		return next.Day-prev.Day == 1
	}
	return prev.Year == next.Year && next.Month-prev.Month == 1 && next.Day == 1
}

func (l *Ledger) Streak() int { return l.streak }

// Today returns today's entry, if one exists.
func (l *Ledger) Today() (Day, bool) {
	today := DateOf(l.now())
	for i := l.days.Len() - 1; i >= 0; i-- {
		if d := l.days.At(i); d.date == today {
			return d.view(), true
		}
	}
	return Day{}, false
}

func (l *Ledger) TodayWorkMinutes() int {
	d, _ := l.Today()
	return d.WorkMinutes
}

func (l *Ledger) TodayPomodoros() int {
	d, _ := l.Today()
	return d.Pomodoros
}

// Days returns all entries, oldest first.
func (l *Ledger) Days() []Day {
	out := make([]Day, 0, l.days.Len())
	for i := 0; i < l.days.Len(); i++ {
		out = append(out, l.days.At(i).view())
	}
	return out
}

// Persist writes the ledger to the backend.
func (l *Ledger) Persist() error {
	if l.backend == nil {
		return nil
	}
	data, err := Marshal(l.Days(), l.streak)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.backend.SaveLedger(data); err != nil {
		l.log.Error("persist failed, keeping in-memory ledger", "err", err)
		return fmt.Errorf("persist ledger: %w", err)
	}
	l.log.Debug("ledger saved", "bytes", len(data))
	return nil
}

// Load replaces the in-memory ledger with the stored document. A missing
// document leaves the ledger empty and is not an error.
func (l *Ledger) Load() error {
	if l.backend == nil {
		return nil
	}
	data, err := l.backend.LoadLedger()
	if errors.Is(err, ErrNotFound) {
		l.log.Info("no stored ledger")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	days, _, err := Unmarshal(data)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	l.days.Reset()
	for _, d := range days {
		e := newDay(d.Date)
		e.work, e.brk, e.pomos = d.WorkMinutes, d.BreakMinutes, d.Pomodoros
		for _, s := range d.Sessions {
			e.sessions.Append(s)
		}
		l.days.Push(e)
	}
	l.streak = l.ComputeStreak()
	l.log.Info("ledger loaded", "days", l.days.Len(), "streak", l.streak)
	return nil
}
