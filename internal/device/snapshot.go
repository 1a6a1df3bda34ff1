package device

import (
	"time"

	"github.com/sadopc/focusknob/internal/cache"
	"github.com/sadopc/focusknob/internal/ledger"
	"github.com/sadopc/focusknob/internal/nav"
	"github.com/sadopc/focusknob/internal/timer"
)

// Snapshot is a read-only copy of everything the display draws. It is
// taken under the state lock and rendered outside it.
type Snapshot struct {
	Now         time.Time
	ClockSynced bool

	Nav   nav.State
	Theme nav.Theme
	Focus timer.Status
	Task  timer.Status

	Connected    bool
	PendingNotes int

	Streak  int
	Today   ledger.Day
	History []ledger.Day

	Tasks          []cache.Task
	TasksSynced    bool
	Weather        cache.Weather
	WeatherSynced  bool
	Calendar       cache.Calendar
	CalendarSynced bool
	Hours          cache.LoggedHours
	HoursSynced    bool

	Home Home
}

// Home is the home screen projection.
type Home struct {
	Clock       string
	Date        string
	WorkToday   string
	Pomodoros   int
	Streak      int
	NextMeeting string
	Hours       string
	HoursLevel  cache.Level
	HoursRatio  float64
}

// snapshot copies the state. The caller holds the lock.
func (d *Device) snapshot() Snapshot {
	now := d.wall.Now()
	today, _ := d.ledger.Today()

	s := Snapshot{
		Now:         now,
		ClockSynced: d.wall.Synced(),

		Nav:   d.nav.State(),
		Theme: nav.ThemeAt(d.nav.Theme()),
		Focus: d.focus.Status(),
		Task:  d.task.Status(),

		Connected:    d.link.Connected(),
		PendingNotes: d.link.PendingNotes(),

		Streak:  d.ledger.Streak(),
		Today:   today,
		History: d.ledger.Days(),

		Tasks:          append([]cache.Task(nil), d.caches.Tasks.Get()...),
		TasksSynced:    d.caches.Tasks.Synced(),
		Weather:        d.caches.Weather.Get(),
		WeatherSynced:  d.caches.Weather.Synced(),
		Calendar:       d.caches.Calendar.Get(),
		CalendarSynced: d.caches.Calendar.Synced(),
		Hours:          d.caches.Hours.Get(),
		HoursSynced:    d.caches.Hours.Synced(),
	}

	s.Home = Home{
		Clock:     now.Format("15:04"),
		Date:      now.Format("Mon Jan 2"),
		WorkToday: ledger.FormatMinutes(today.WorkMinutes),
		Pomodoros: today.Pomodoros,
		Streak:    s.Streak,
	}
	if s.CalendarSynced {
		s.Home.NextMeeting = s.Calendar.NextMeetingLabel()
	}
	if s.HoursSynced {
		s.Home.Hours = s.Hours.Label()
		s.Home.HoursLevel = s.Hours.Level()
		s.Home.HoursRatio = s.Hours.Ratio()
	}
	return s
}
