package cache

import (
	"encoding/json"
	"fmt"
)

// LoggedHours is the time already logged against tasks today and the
// day's target. A zero target means no target (weekends).
type LoggedHours struct {
	LoggedMin int `json:"logged_min"`
	TargetMin int `json:"target_min"`
}

// Progress levels for LoggedHours.
type Level int

const (
	LevelNone Level = iota
	LevelBelow
	LevelNear
	LevelMet
)

func ParseLoggedHours(payload string) (LoggedHours, error) {
	var h LoggedHours
	if err := json.Unmarshal([]byte(payload), &h); err != nil {
		return LoggedHours{}, fmt.Errorf("%w: logged hours: %w", ErrMalformed, err)
	}
	return h, nil
}

// Label renders "logged / target h", or "" without a target.
func (h LoggedHours) Label() string {
	if h.TargetMin <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f / %.1fh", float64(h.LoggedMin)/60, float64(h.TargetMin)/60)
}

// Level is Met at the target and Near from three quarters of it.
func (h LoggedHours) Level() Level {
	switch {
	case h.TargetMin <= 0:
		return LevelNone
	case h.LoggedMin >= h.TargetMin:
		return LevelMet
	case h.LoggedMin >= h.TargetMin*3/4:
		return LevelNear
	default:
		return LevelBelow
	}
}

// Ratio is logged over target, 0 without a target.
func (h LoggedHours) Ratio() float64 {
	if h.TargetMin <= 0 {
		return 0
	}
	return float64(h.LoggedMin) / float64(h.TargetMin)
}
