package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusknob/internal/cache"
	"github.com/sadopc/focusknob/internal/timer"
)

var timerHints = map[timer.State]string{
	timer.Ready:   "←/→: minutes  enter: start",
	timer.Running: "enter: pause",
	timer.Paused:  "c: continue  r: reset",
	timer.Done:    "enter: reset",
}

var levelStyles = map[cache.Level]lipgloss.Style{
	cache.LevelNone:  mutedStyle,
	cache.LevelBelow: errorStyle,
	cache.LevelNear:  warningStyle,
	cache.LevelMet:   successStyle,
}

// bar draws a progress bar in the theme colour.
func (a App) bar(width int, ratio float64) string {
	if width < 10 {
		width = 10
	}
	p := progress.New(
		progress.WithSolidFill(a.snap.Theme.Accent),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	return p.ViewAs(math.Max(0, math.Min(1, ratio)))
}

func (a App) renderHome() string {
	h := a.snap.Home
	th := a.snap.Theme
	w := a.width - 4

	clock := timerStyle.Foreground(accentColor(th)).Width(w - 6).Render(h.Clock)
	date := mutedStyle.Render(h.Date)

	rows := []string{
		clock,
		date,
		"",
		fmt.Sprintf("Today   %s  %s", highlightStyle.Render(h.WorkToday), mutedStyle.Render(fmt.Sprintf("%d pomodoros", h.Pomodoros))),
		fmt.Sprintf("Streak  %s", highlightStyle.Render(pluralDays(h.Streak))),
	}
	if h.NextMeeting != "" {
		rows = append(rows, fmt.Sprintf("Next    %s", h.NextMeeting))
	}
	if h.Hours != "" {
		rows = append(rows, "", fmt.Sprintf("Logged  %s", levelStyles[h.HoursLevel].Render(h.Hours)))
		rows = append(rows, a.bar(w-10, h.HoursRatio))
	}
	rows = append(rows, "", mutedStyle.Render("enter: menu  m: swipe down"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func (a App) renderTimer(st timer.Status, title string) string {
	th := a.snap.Theme
	w := a.width - 4

	secs := st.Remaining
	if st.State == timer.Ready {
		secs = st.Minutes * 60
	}
	text := timer.FormatRemaining(secs)

	var display, label string
	switch st.State {
	case timer.Ready:
		display = timerStyle.Foreground(accentColor(th)).Width(w - 6).Render(text)
		label = mutedStyle.Render(fmt.Sprintf("%d min", st.Minutes))
	case timer.Running:
		display = timerRunningStyle.Width(w - 6).Render(text)
		label = successStyle.Bold(true).Render(st.State.String())
	case timer.Paused:
		display = timerPausedStyle.Width(w - 6).Render(text)
		label = warningStyle.Bold(true).Render(st.State.String())
	case timer.Done:
		display = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render("Done!")
		label = successStyle.Render(fmt.Sprintf("%d min logged", st.Minutes))
	}

	if title == "" {
		title = "Task Timer"
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(title),
		"",
		display,
		label,
		"",
		a.bar(w-10, st.Progress),
		"",
		mutedStyle.Render(timerHints[st.State]),
	))
}

func (a App) renderLink() string {
	s := a.snap
	w := a.width - 4

	status := warningStyle.Render("○ Waiting for host")
	if s.Connected {
		status = successStyle.Render("● Connected")
	}
	clock := mutedStyle.Render("not synced")
	if s.ClockSynced {
		clock = successStyle.Render("synced")
	}

	synced := func(name string, ok bool) string {
		mark := mutedStyle.Render("–")
		if ok {
			mark = successStyle.Render("✓")
		}
		return fmt.Sprintf("  %s %s", mark, name)
	}

	rows := []string{
		titleStyle.Render("Host Link"),
		"",
		"Status   " + status,
		"Clock    " + clock,
		fmt.Sprintf("Notes    %d pending", s.PendingNotes),
		"",
		mutedStyle.Render("Received"),
		synced("Tasks", s.TasksSynced),
		synced("Weather", s.WeatherSynced),
		synced("Calendar", s.CalendarSynced),
		synced("Logged hours", s.HoursSynced),
		"",
		mutedStyle.Render("n: write a note"),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) renderWeather() string {
	s := a.snap
	w := a.width - 4
	title := titleStyle.Render("Weather")

	if !s.WeatherSynced {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No weather from the host yet")))
	}

	c := s.Weather.Current
	rows := []string{
		title,
		"",
		accentStyle(s.Theme).Bold(true).Render(formatTemp(c.Temp)) + "  " + c.Condition,
		mutedStyle.Render(c.Description),
		"",
		fmt.Sprintf("Low %s  High %s", formatTemp(c.TempMin), formatTemp(c.TempMax)),
		fmt.Sprintf("Humidity %d%%  Wind %d", c.Humidity, c.WindSpeed),
	}

	if len(s.Weather.Forecast) > 0 {
		var cols []string
		for _, f := range s.Weather.Forecast {
			cols = append(cols, lipgloss.NewStyle().Width(8).Render(
				lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render(f.Hour), formatTemp(f.Temp))))
		}
		rows = append(rows, "", lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) renderCalendar() string {
	s := a.snap
	w := a.width - 4
	title := titleStyle.Render("Calendar")

	if !s.CalendarSynced {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No calendar from the host yet")))
	}
	if len(s.Calendar.Events) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("Nothing scheduled")))
	}

	rows := []string{title, ""}
	if next := s.Calendar.NextMeetingLabel(); next != "" {
		rows = append(rows, "Next  "+accentStyle(s.Theme).Render(next), "")
	}
	for _, e := range s.Calendar.Events {
		when := e.StartLabel
		if e.AllDay {
			when = "All day"
		}
		line := fmt.Sprintf("  %-9s %s", when, truncate(e.Title, w-24))
		if !e.AllDay && e.DurationMin > 0 {
			line += mutedStyle.Render(fmt.Sprintf("  %dm", e.DurationMin))
		}
		rows = append(rows, line)
		if e.Location != "" {
			rows = append(rows, mutedStyle.Render("            "+truncate(e.Location, w-16)))
		}
	}
	if _, ok := s.Calendar.FirstTimedEvent(); ok {
		rows = append(rows, "", mutedStyle.Render("L: log first meeting"))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
