package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusknob/internal/cache"
	"github.com/sadopc/focusknob/internal/nav"
)

func (a App) selectedTask() (cache.Task, bool) {
	i := a.snap.Nav.Selected
	if i < 0 || i >= len(a.snap.Tasks) {
		return cache.Task{}, false
	}
	return a.snap.Tasks[i], true
}

// taskRows lists the tasks with the selection marked. Only the first nine
// are reachable by number.
func (a App) taskRows(w int) []string {
	var rows []string
	for i, t := range a.snap.Tasks {
		num := "  "
		if i < 9 {
			num = fmt.Sprintf("%d ", i+1)
		}
		cursor := "  "
		style := normalItemStyle
		if i == a.snap.Nav.Selected {
			cursor = "> "
			style = selectedStyle(a.snap.Theme)
		}
		line := fmt.Sprintf("%s%s%-10s %s", cursor, num, truncate(t.Key, 10), truncate(t.Name, w-30))
		rows = append(rows, style.Render(line)+"  "+mutedStyle.Render(t.Status))
	}
	return rows
}

func (a App) renderTaskBoard() string {
	s := a.snap
	w := a.width - 4
	title := titleStyle.Render("Tasks")

	switch {
	case !s.TasksSynced:
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("Waiting for tasks from the host...")))
	case len(s.Tasks) == 0:
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No open tasks")))
	}

	rows := []string{title, ""}
	if s.Nav.Selected < 0 {
		rows = append(rows, selectedStyle(s.Theme).Render(fmt.Sprintf("> %d tasks", len(s.Tasks))), "")
	}
	rows = append(rows, a.taskRows(w)...)
	rows = append(rows, "", mutedStyle.Render("1-9: select  s: start  g: log time  o: detail  p: picker"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (a App) renderTaskDone() string {
	d := a.snap.Nav.Done
	w := a.width - 4

	var style lipgloss.Style
	switch d.Phase {
	case nav.DoneSucceeded:
		style = successStyle
	case nav.DoneFailed:
		style = errorStyle
	case nav.DoneNoResponse:
		style = warningStyle
	default:
		style = accentStyle(a.snap.Theme)
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(d.Task.Name),
		mutedStyle.Render(d.Task.Key),
		"",
		style.Bold(true).Render(d.Title),
		d.Message,
		"",
		mutedStyle.Render("enter: back to tasks"),
	))
}

func (a App) renderTaskDetail() string {
	w := a.width - 4
	th := a.snap.Theme

	t, ok := a.selectedTask()
	if !ok {
		return overlayStyle(th).Width(w).Render(mutedStyle.Render("No task selected"))
	}

	lines := wrapText(t.Desc, w-8)
	scroll := min(a.snap.Nav.DetailScroll, max(len(lines)-1, 0))
	lines = lines[scroll:]

	rows := []string{
		selectedStyle(th).Render(t.Key) + "  " + mutedStyle.Render(t.Status),
		titleStyle.Render(t.Name),
	}
	if t.Project != "" {
		rows = append(rows, mutedStyle.Render(t.Project))
	}
	rows = append(rows, "")
	rows = append(rows, lines...)
	rows = append(rows, "", mutedStyle.Render("←/→: scroll  s: start  g: log time  b: browser  esc: close"))
	return overlayStyle(th).Width(w).Render(strings.Join(rows, "\n"))
}

func (a App) renderTaskPicker() string {
	w := a.width - 4
	rows := []string{titleStyle.Render("Pick a task"), ""}
	rows = append(rows, a.taskRows(w)...)
	rows = append(rows, "", mutedStyle.Render("←/→: move  enter: done  1-9: pick"))
	return overlayStyle(a.snap.Theme).Width(w).Render(strings.Join(rows, "\n"))
}

func (a App) renderMenu() string {
	w := a.width - 4
	th := a.snap.Theme

	rows := []string{titleStyle.Render("Menu"), ""}
	for i, item := range nav.Menu {
		cursor := "  "
		style := normalItemStyle
		if i == a.snap.Nav.MenuCursor {
			cursor = "> "
			style = selectedStyle(th)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%d %s", cursor, i+1, item.Label)))
	}
	rows = append(rows, "", mutedStyle.Render("←/→: move  enter: open  esc: close"))
	return overlayStyle(th).Width(w).Render(strings.Join(rows, "\n"))
}

func (a App) renderThemePicker() string {
	w := a.width - 4
	th := a.snap.Theme

	rows := []string{titleStyle.Render("Themes"), ""}
	for i, t := range nav.Themes {
		cursor := "  "
		style := normalItemStyle
		if i == a.snap.Nav.ThemeCursor {
			cursor = "> "
			style = selectedStyle(th)
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Render("██")
		current := ""
		if i == a.snap.Nav.Theme {
			current = mutedStyle.Render("  ✓")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%d ", cursor, i+1))+swatch+" "+style.Render(t.Name)+current)
	}
	rows = append(rows, "", mutedStyle.Render("←/→: move  enter: apply  esc: close"))
	return overlayStyle(th).Width(w).Render(strings.Join(rows, "\n"))
}
