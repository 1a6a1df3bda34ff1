package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/focusknob/internal/ledger"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Streak     int       `json:"streak"`
	Count      int       `json:"count"`
	Days       []jsonDay `json:"days"`
}

type jsonDay struct {
	Date         string        `json:"date"`
	WorkMinutes  int           `json:"work_minutes"`
	BreakMinutes int           `json:"break_minutes"`
	Pomodoros    int           `json:"pomodoros"`
	Work         string        `json:"work"`
	Sessions     []jsonSession `json:"sessions,omitempty"`
}

type jsonSession struct {
	Type     string `json:"type"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Minutes  int    `json:"minutes"`
	Duration string `json:"duration"`
}

func ToJSON(days []ledger.Day, streak int, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Streak:     streak,
		Count:      len(days),
	}

	for _, d := range days {
		jd := jsonDay{
			Date:         d.Date.String(),
			WorkMinutes:  d.WorkMinutes,
			BreakMinutes: d.BreakMinutes,
			Pomodoros:    d.Pomodoros,
			Work:         ledger.FormatMinutes(d.WorkMinutes),
		}
		for _, s := range d.Sessions {
			jd.Sessions = append(jd.Sessions, jsonSession{
				Type:     s.Kind.String(),
				Start:    s.Start.String(),
				End:      s.End.String(),
				Minutes:  s.Minutes,
				Duration: formatDuration(s.Minutes),
			})
		}
		export.Days = append(export.Days, jd)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
