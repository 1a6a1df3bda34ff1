package cache

import (
	"encoding/json"
	"fmt"
)

const (
	MaxEvents = 10

	// NextMeetingInProgress and NoNextMeeting are the sentinel values of
	// Calendar.NextMeetingMin.
	NextMeetingInProgress = -1
	NoNextMeeting         = -2
)

type Event struct {
	Title       string `json:"title"`
	StartLabel  string `json:"start_str"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	DurationMin int    `json:"duration_min"`
	AllDay      bool   `json:"is_all_day"`
	Location    string `json:"location"`
}

func (e *Event) UnmarshalJSON(b []byte) error {
	type plain Event
	p := plain{Title: "No Title"}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*e = Event(p)
	return nil
}

type Calendar struct {
	Events []Event `json:"events"`
	// NextMeetingMin is minutes until the first event, or one of the
	// sentinels above.
	NextMeetingMin int `json:"next_meeting_min"`
}

// ParseCalendar decodes a CALENDAR payload.
func ParseCalendar(payload string) (Calendar, error) {
	c := Calendar{NextMeetingMin: NoNextMeeting}
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Calendar{}, fmt.Errorf("%w: calendar: %w", ErrMalformed, err)
	}
	if len(c.Events) > MaxEvents {
		c.Events = c.Events[:MaxEvents]
	}
	return c, nil
}

// NextMeetingLabel describes the first event for the home screen, or ""
// when there are no events.
func (c Calendar) NextMeetingLabel() string {
	if len(c.Events) == 0 {
		return ""
	}
	next := c.Events[0]
	switch {
	case c.NextMeetingMin == NextMeetingInProgress:
		return next.Title + " (now)"
	case c.NextMeetingMin >= 0 && c.NextMeetingMin <= 60:
		return fmt.Sprintf("%s in %dm", next.Title, c.NextMeetingMin)
	default:
		return next.Title + " " + next.StartLabel
	}
}

// FirstTimedEvent returns the first event that is not all-day.
func (c Calendar) FirstTimedEvent() (Event, bool) {
	for _, e := range c.Events {
		if !e.AllDay {
			return e, true
		}
	}
	return Event{}, false
}
