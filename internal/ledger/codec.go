package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// FormatVersion is written into every stored document. Documents without a
// version field are read as version 1.
const FormatVersion = 1

var ErrUnsupportedVersion = errors.New("ledger: unsupported document version")

type document struct {
	Version int      `json:"version"`
	Streak  int      `json:"streak"`
	Days    []dayDoc `json:"days"`
}

type dayDoc struct {
	Date     string       `json:"date"`
	Work     int          `json:"work"`
	Break    int          `json:"break"`
	Pomos    int          `json:"pomos"`
	Sessions []sessionDoc `json:"sessions"`
}

type sessionDoc struct {
	Type     string `json:"type"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration int    `json:"duration"`
}

// Marshal encodes days in the durable format. At most MaxDays days and
// MaxStoredSessions sessions per day are written.
func Marshal(days []Day, streak int) ([]byte, error) {
	if len(days) > MaxDays {
		days = days[len(days)-MaxDays:]
	}
	doc := document{Version: FormatVersion, Streak: streak, Days: make([]dayDoc, 0, len(days))}
	for _, d := range days {
		dd := dayDoc{
			Date:     d.Date.String(),
			Work:     d.WorkMinutes,
			Break:    d.BreakMinutes,
			Pomos:    d.Pomodoros,
			Sessions: []sessionDoc{},
		}
		for i, s := range d.Sessions {
			if i >= MaxStoredSessions {
				break
			}
			typ := "b"
			if s.Kind == Work {
				typ = "w"
			}
			dd.Sessions = append(dd.Sessions, sessionDoc{
				Type:     typ,
				Start:    s.Start.String(),
				End:      s.End.String(),
				Duration: s.Minutes,
			})
		}
		doc.Days = append(doc.Days, dd)
	}
	return json.Marshal(doc)
}

// Unmarshal decodes a stored document into days, oldest first, and the
// stored streak. Only the newest MaxDays days are kept.
func Unmarshal(data []byte) ([]Day, int, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("decode ledger: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = 1
	}
	if doc.Version > FormatVersion {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	days := make([]Day, 0, len(doc.Days))
	for _, dd := range doc.Days {
		date, err := ParseDate(dd.Date)
		if err != nil {
			return nil, 0, fmt.Errorf("decode ledger: %w", err)
		}
		d := Day{
			Date:         date,
			WorkMinutes:  dd.Work,
			BreakMinutes: dd.Break,
			Pomodoros:    dd.Pomos,
		}
		for i, sd := range dd.Sessions {
			if i >= MaxStoredSessions {
				break
			}
			kind := Break
			if sd.Type == "w" {
				kind = Work
			}
			d.Sessions = append(d.Sessions, SessionRecord{
				Start:   parseHHMM(sd.Start),
				End:     parseHHMM(sd.End),
				Minutes: sd.Duration,
				Kind:    kind,
			})
		}
		days = append(days, d)
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	if len(days) > MaxDays {
		days = days[len(days)-MaxDays:]
	}
	return days, doc.Streak, nil
}

// parseHHMM reads "HH:MM"; malformed values decode as 00:00.
func parseHHMM(s string) TimeOfDay {
	var c TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Minute); err != nil {
		return TimeOfDay{}
	}
	return c
}
