package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusknob/internal/ledger"
	"github.com/sadopc/focusknob/internal/link"
)

type formKind int

const (
	formNone formKind = iota
	formNote
	formLog
)

var formTitles = map[formKind]string{
	formNote: "Note for the host",
	formLog:  "Log a session",
}

type formModel struct {
	kind formKind
	form *huh.Form

	// Form values as pointers (survive value copies)
	note       *string
	logKind    *string
	logMinutes *string
}

func newFormModel() formModel {
	note, kind, minutes := "", "", ""
	return formModel{
		note:       &note,
		logKind:    &kind,
		logMinutes: &minutes,
	}
}

func (f formModel) active() bool { return f.kind != formNone && f.form != nil }

func (f *formModel) close() {
	f.kind = formNone
	f.form = nil
}

func (a App) showNoteForm() (tea.Model, tea.Cmd) {
	*a.forms.note = ""

	a.forms.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Note").
				Description("Sent to the host the next time it checks in").
				CharLimit(link.MaxNoteLen).
				Validate(validateNote).
				Value(a.forms.note),
		),
	).WithShowHelp(true).WithShowErrors(true)

	a.forms.kind = formNote
	return a, a.forms.form.Init()
}

func (a App) showLogForm() (tea.Model, tea.Cmd) {
	*a.forms.logKind = "work"
	*a.forms.logMinutes = "25"

	a.forms.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Session").
				Options(
					huh.NewOption("Work", "work"),
					huh.NewOption("Break", "break"),
				).Value(a.forms.logKind),
			huh.NewInput().Title("Minutes").Validate(validateMinutes).Value(a.forms.logMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	a.forms.kind = formLog
	return a, a.forms.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			a.forms.close()
			return a, nil
		}
	}

	form, cmd := a.forms.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.forms.form = f
	}

	switch a.forms.form.State {
	case huh.StateCompleted:
		kind := a.forms.kind
		a.forms.close()
		return a, a.submitForm(kind)
	case huh.StateAborted:
		a.forms.close()
		return a, nil
	}

	return a, cmd
}

func (a App) submitForm(kind formKind) tea.Cmd {
	dev := a.dev
	switch kind {
	case formNote:
		text := strings.TrimSpace(*a.forms.note)
		return func() tea.Msg {
			if err := dev.QueueNote(text); err != nil {
				return statusMsg{text: fmt.Sprintf("Note not queued: %v", err), isError: true}
			}
			return statusMsg{text: "Note queued"}
		}

	case formLog:
		k := ledger.Work
		if *a.forms.logKind == "break" {
			k = ledger.Break
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(*a.forms.logMinutes))
		if err != nil {
			return func() tea.Msg {
				return statusMsg{text: "Invalid minutes", isError: true}
			}
		}
		return func() tea.Msg {
			if err := dev.LogManual(k, minutes); err != nil {
				return statusMsg{text: fmt.Sprintf("Session not logged: %v", err), isError: true}
			}
			return statusMsg{text: fmt.Sprintf("Logged %s %s", ledger.FormatMinutes(minutes), k)}
		}
	}
	return nil
}

func (a App) renderForm() string {
	w := a.width - 4
	title := titleStyle.Render(formTitles[a.forms.kind])
	return overlayStyle(a.snap.Theme).Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", a.forms.form.View()),
	)
}

func validateNote(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("note is empty")
	}
	return nil
}

func validateMinutes(s string) error {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number of minutes")
	}
	if m < 1 || m > ledger.MaxSessionMinutes {
		return fmt.Errorf("minutes must be between 1 and %d", ledger.MaxSessionMinutes)
	}
	return nil
}
