package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusknob/internal/device"
	"github.com/sadopc/focusknob/internal/export"
	"github.com/sadopc/focusknob/internal/ledger"
	"github.com/sadopc/focusknob/internal/nav"
)

const pulseLength = 150 * time.Millisecond

// Device is the part of the device core the terminal drives directly.
// Knob and touch input goes through the input channel instead.
type Device interface {
	Snapshot() (device.Snapshot, error)
	QueueNote(text string) error
	LogManual(kind ledger.Kind, minutes int) error
}

// App is the root Bubble Tea model. It draws the latest device snapshot and
// turns key presses into knob and touch input.
type App struct {
	dev    Device
	inputs chan<- nav.Input
	width  int
	height int

	snap  device.Snapshot
	ready bool

	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	forms formModel

	help      help.Model
	status    string
	statusErr bool
	pulse     bool
}

type Option func(*App)

// WithExportDir sets where exports are written. It defaults to the home
// directory.
func WithExportDir(dir string) Option {
	return func(a *App) { a.exportDir = dir }
}

func NewApp(dev Device, inputs chan<- nav.Input, opts ...Option) App {
	h := help.New()
	h.ShowAll = false

	a := App{
		dev:    dev,
		inputs: inputs,
		forms:  newFormModel(),
		help:   h,
	}
	if home, err := os.UserHomeDir(); err == nil {
		a.exportDir = home
	}
	for _, fn := range opts {
		fn(&a)
	}
	return a
}

func (a App) Init() tea.Cmd {
	return a.refresh()
}

func (a App) refresh() tea.Cmd {
	dev := a.dev
	return func() tea.Msg {
		s, err := dev.Snapshot()
		if err != nil {
			return nil
		}
		return snapshotMsg(s)
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case snapshotMsg:
		a.snap = device.Snapshot(msg)
		a.ready = true
		return a, nil

	case pulseMsg:
		a.pulse = true
		return a, tea.Tick(pulseLength, func(time.Time) tea.Msg { return pulseDoneMsg{} })

	case pulseDoneMsg:
		a.pulse = false
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}
		if a.forms.active() {
			return a.updateForm(msg)
		}
		return a.handleKey(msg)
	}

	if a.forms.active() {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
	case key.Matches(msg, keys.Export):
		a.exportPicking = true
		a.exportCursor = 0
	case key.Matches(msg, keys.Note):
		return a.showNoteForm()
	case key.Matches(msg, keys.Log):
		return a.showLogForm()

	case key.Matches(msg, keys.Left):
		a.send(nav.KnobInput(nav.KnobLeft))
	case key.Matches(msg, keys.Right):
		a.send(nav.KnobInput(nav.KnobRight))
	case key.Matches(msg, keys.Press):
		a.send(nav.KnobInput(nav.KnobPress))
	case key.Matches(msg, keys.Back):
		a.send(nav.TapInput(nav.TapBack))
	case key.Matches(msg, keys.Continue):
		a.send(nav.TapInput(nav.TapContinue))
	case key.Matches(msg, keys.Reset):
		a.send(nav.TapInput(nav.TapReset))
	case key.Matches(msg, keys.Menu):
		a.send(swipeDown()...)
	case key.Matches(msg, keys.Picker):
		a.send(swipeUp()...)
	case key.Matches(msg, keys.Start):
		a.send(nav.TapInput(nav.TapStart))
	case key.Matches(msg, keys.LogTime):
		a.send(nav.TapInput(nav.TapLogTime))
	case key.Matches(msg, keys.Open):
		a.send(nav.TapInput(nav.TapOpenTask))
	case key.Matches(msg, keys.Browser):
		a.send(nav.TapInput(nav.TapOpenInBrowser))
	case key.Matches(msg, keys.Meeting):
		a.send(nav.TapInput(nav.TapLogMeeting))
	case key.Matches(msg, keys.Item):
		if target, ok := itemTarget(a.snap.Nav); ok {
			a.send(nav.TapItem(target, int(msg.String()[0]-'1')))
		}
	}
	return a, nil
}

// send hands input to the device without blocking the event loop.
func (a *App) send(ins ...nav.Input) {
	for _, in := range ins {
		select {
		case a.inputs <- in:
		default:
			a.status = "Device busy, input dropped"
			a.statusErr = true
			return
		}
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch {
	case a.forms.active():
		content = a.renderForm()
	case a.exportPicking:
		content = a.renderExportPicker()
	case !a.ready:
		content = mutedStyle.Render("  Waiting for the device...")
	default:
		content = a.renderScreen()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// renderScreen draws the topmost overlay, or the active view when none is
// open.
func (a App) renderScreen() string {
	s := a.snap.Nav
	if n := len(s.Overlays); n > 0 {
		switch s.Overlays[n-1] {
		case nav.MainMenu:
			return a.renderMenu()
		case nav.ThemePicker:
			return a.renderThemePicker()
		case nav.TaskDetail:
			return a.renderTaskDetail()
		case nav.TaskPicker:
			return a.renderTaskPicker()
		}
	}

	switch s.View {
	case nav.Timer:
		return a.renderTimer(a.snap.Focus, "Focus Timer")
	case nav.SessionHistory:
		return a.renderHistory()
	case nav.LinkSetup:
		return a.renderLink()
	case nav.TaskBoard:
		return a.renderTaskBoard()
	case nav.TaskTimer:
		return a.renderTimer(a.snap.Task, a.snap.Task.Task.Name)
	case nav.TaskDone:
		return a.renderTaskDone()
	case nav.Weather:
		return a.renderWeather()
	case nav.Calendar:
		return a.renderCalendar()
	}
	return a.renderHome()
}

func (a App) renderHeader() string {
	th := a.snap.Theme
	title := lipgloss.NewStyle().Bold(true).Foreground(accentColor(th)).Render("focusknob")

	crumbs := []string{a.snap.Nav.View.String()}
	for _, o := range a.snap.Nav.Overlays {
		crumbs = append(crumbs, o.String())
	}
	where := mutedStyle.Render(strings.Join(crumbs, " › "))

	link := mutedStyle.Render("○ offline")
	if a.snap.Connected {
		link = successStyle.Render("● host")
	}
	clock := a.snap.Home.Clock
	if !a.snap.ClockSynced {
		clock = mutedStyle.Render(clock)
	}
	right := link + "  " + clock

	left := title + "  " + where
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right))
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	pulse := ""
	if a.pulse {
		pulse = accentStyle(a.snap.Theme).Render(" ◉")
	}

	left := footerStyle.Render(helpView)
	right := pulse + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedStyle(a.snap.Theme)
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return overlayStyle(a.snap.Theme).Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Left):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down), key.Matches(msg, keys.Right):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Press):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	days, streak, dir := a.snap.History, a.snap.Streak, a.exportDir
	return func() tea.Msg {
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("focusknob-export-%s.csv", dateStr))
			if err := export.ToCSV(days, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("focusknob-export-%s.json", dateStr))
			if err := export.ToJSON(days, streak, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
