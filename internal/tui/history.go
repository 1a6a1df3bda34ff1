package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusknob/internal/ledger"
)

// historyChart draws work and break minutes per stored day.
func (a App) historyChart(width, height int) barchart.Model {
	if width < 20 {
		width = 20
	}
	chart := barchart.New(width, height)

	work := accentStyle(a.snap.Theme)
	rest := lipgloss.NewStyle().Foreground(colorSubtle)

	var bars []barchart.BarData
	for _, d := range a.snap.History {
		bars = append(bars, barchart.BarData{
			Label: d.Date.Time().Format("Mon 02"),
			Values: []barchart.BarValue{
				{Name: "Work", Value: float64(d.WorkMinutes), Style: work},
				{Name: "Break", Value: float64(d.BreakMinutes), Style: rest},
			},
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart
}

func (a App) renderHistory() string {
	w := a.width - 4
	s := a.snap

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ",
		mutedStyle.Render(fmt.Sprintf("streak %s", pluralDays(s.Streak))),
	)

	if len(s.History) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("  No sessions yet")))
	}

	chartHeight := 10
	if a.height > 30 {
		chartHeight = 14
	}
	chart := a.historyChart(w-8, chartHeight)

	legend := "  " + accentStyle(s.Theme).Render("●") + " work  " +
		lipgloss.NewStyle().Foreground(colorSubtle).Render("●") + " break"

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "", chart.View(), "", legend, "", renderHistoryTable(s.History, w),
	))
}

func renderHistoryTable(days []ledger.Day, w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s %10s", "Date", "Work", "Break", "Pomodoros")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 46))))

	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		rows = append(rows, fmt.Sprintf("  %-12s %10s %10s %10d",
			d.Date, ledger.FormatMinutes(d.WorkMinutes), ledger.FormatMinutes(d.BreakMinutes), d.Pomodoros))
	}
	return strings.Join(rows, "\n")
}
