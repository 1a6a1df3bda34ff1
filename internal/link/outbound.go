package link

import (
	"fmt"

	"github.com/sadopc/focusknob/internal/ledger"
)

type logSession struct {
	Type     string `json:"type"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration int    `json:"duration"`
}

type logPayload struct {
	Date       string       `json:"date"`
	WorkTotal  int          `json:"total_work_minutes"`
	BreakTotal int          `json:"total_break_minutes"`
	Pomodoros  int          `json:"pomodoros"`
	Sessions   []logSession `json:"sessions"`
}

// sendLogs answers GET_LOGS with today's entry, or LOG:{} when there is
// none yet.
func (e *Engine) sendLogs() {
	day, ok := e.logs.Today()
	if !ok {
		e.send("LOG:{}")
		return
	}
	p := logPayload{
		Date:       day.Date.String(),
		WorkTotal:  day.WorkMinutes,
		BreakTotal: day.BreakMinutes,
		Pomodoros:  day.Pomodoros,
		Sessions:   make([]logSession, 0, len(day.Sessions)),
	}
	for _, s := range day.Sessions {
		typ := "break"
		if s.Kind == ledger.Work {
			typ = "work"
		}
		p.Sessions = append(p.Sessions, logSession{
			Type:     typ,
			Start:    s.Start.Format12(),
			End:      s.End.Format12(),
			Duration: s.Minutes,
		})
	}
	payload, err := marshal(p)
	if err != nil {
		e.log.Error("encode logs", "err", err)
		e.send("ERROR:Log encoding failed")
		return
	}
	e.send("LOG:" + payload)
}

// SendTaskTimerDone reports a completed task-linked countdown.
func (e *Engine) SendTaskTimerDone(key string, minutes int) {
	e.send(fmt.Sprintf("TASK_TIMER_DONE:%s|%d", key, minutes))
}

// SendTaskLogTime asks the host to prompt for a manual time log on key.
func (e *Engine) SendTaskLogTime(key string) {
	e.send("TASK_LOG_TIME:" + key)
}

// SendTaskOpen asks the host to open key in a browser.
func (e *Engine) SendTaskOpen(key string) {
	e.send("TASK_OPEN:" + key)
}

// SendLogMeeting asks the host to log a meeting's duration.
func (e *Engine) SendLogMeeting(title string, minutes int) {
	e.send(fmt.Sprintf("TASK_LOG_MEETING:%s|%d", truncate(title, maxMeetingTitle), minutes))
}
