package ledger

import (
	"fmt"
	"time"
)

// Kind is the type of a logged session.
type Kind int

const (
	Work Kind = iota
	Break
)

func (k Kind) String() string {
	if k == Work {
		return "work"
	}
	return "break"
}

// Date is a calendar day without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before orders dates chronologically.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Time returns local midnight of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// TimeOfDay is an hour and minute on a 24h clock.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// String formats as HH:MM.
func (c TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Format12 formats as h:MM AM/PM.
func (c TimeOfDay) Format12() string {
	h := c.Hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if c.Hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute, suffix)
}

// minus steps back by minutes, wrapping once past midnight.
func (c TimeOfDay) minus(minutes int) TimeOfDay {
	total := c.Hour*60 + c.Minute - minutes
	if total < 0 {
		total += 24 * 60
	}
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// SessionRecord is one completed session. Start is derived from the end time
// and the duration.
type SessionRecord struct {
	Start   TimeOfDay
	End     TimeOfDay
	Minutes int
	Kind    Kind
}

// Day is a read-only view of one day's aggregates.
type Day struct {
	Date         Date
	WorkMinutes  int
	BreakMinutes int
	Pomodoros    int
	Sessions     []SessionRecord
}
