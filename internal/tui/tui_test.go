package tui

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/focusknob/internal/cache"
	"github.com/sadopc/focusknob/internal/device"
	"github.com/sadopc/focusknob/internal/ledger"
	"github.com/sadopc/focusknob/internal/link"
	"github.com/sadopc/focusknob/internal/nav"
	"github.com/sadopc/focusknob/internal/timer"
)

type loggedSession struct {
	kind    ledger.Kind
	minutes int
}

type fakeDevice struct {
	snap    device.Snapshot
	notes   []string
	logged  []loggedSession
	noteErr error
	logErr  error
}

func (f *fakeDevice) Snapshot() (device.Snapshot, error) { return f.snap, nil }

func (f *fakeDevice) QueueNote(text string) error {
	if f.noteErr != nil {
		return f.noteErr
	}
	f.notes = append(f.notes, text)
	return nil
}

func (f *fakeDevice) LogManual(kind ledger.Kind, minutes int) error {
	if f.logErr != nil {
		return f.logErr
	}
	f.logged = append(f.logged, loggedSession{kind, minutes})
	return nil
}

func newTestApp(t *testing.T) (App, *fakeDevice, chan nav.Input) {
	t.Helper()
	dev := &fakeDevice{}
	inputs := make(chan nav.Input, 16)
	app := NewApp(dev, inputs, WithExportDir(t.TempDir()))
	app.width = 100
	app.height = 40
	return app, dev, inputs
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(t *testing.T, app App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := app.Update(msg)
	return m.(App), cmd
}

func drain(ch chan nav.Input) []nav.Input {
	var out []nav.Input
	for {
		select {
		case in := <-ch:
			out = append(out, in)
		default:
			return out
		}
	}
}

func sampleSnapshot() device.Snapshot {
	return device.Snapshot{
		Now:         time.Date(2024, time.March, 15, 14, 30, 0, 0, time.Local),
		ClockSynced: true,
		Theme:       nav.ThemeAt(0),
		Focus:       timer.Status{State: timer.Running, Minutes: 25, Remaining: 754, Progress: 0.5},
		Task:        timer.Status{Kind: timer.TaskLinked, State: timer.Ready, Minutes: 25, Task: timer.TaskRef{Key: "PRJ-1", Name: "Write docs"}},
		Connected:   true,
		Streak:      3,
		History: []ledger.Day{
			{Date: ledger.Date{Year: 2024, Month: time.March, Day: 14}, WorkMinutes: 50, Pomodoros: 2},
			{Date: ledger.Date{Year: 2024, Month: time.March, Day: 15}, WorkMinutes: 25, BreakMinutes: 5, Pomodoros: 1,
				Sessions: []ledger.SessionRecord{{Start: ledger.TimeOfDay{Hour: 9}, End: ledger.TimeOfDay{Hour: 9, Minute: 25}, Minutes: 25}}},
		},
		Tasks: []cache.Task{
			{Key: "PRJ-1", Name: "Write docs", Status: "In Progress", Desc: "Cover the setup steps"},
			{Key: "PRJ-2", Name: "Fix login", Status: "To Do"},
		},
		TasksSynced:    true,
		Weather:        cache.Weather{Current: cache.Conditions{Temp: 18, Condition: "Clouds", Description: "broken clouds"}, Forecast: []cache.Forecast{{Temp: 16, Hour: "15:00"}}},
		WeatherSynced:  true,
		Calendar:       cache.Calendar{Events: []cache.Event{{Title: "Standup", StartLabel: "10:00", DurationMin: 15}}, NextMeetingMin: 20},
		CalendarSynced: true,
		Home: device.Home{
			Clock:       "14:30",
			Date:        "Fri Mar 15",
			WorkToday:   "25m",
			Pomodoros:   1,
			Streak:      3,
			NextMeeting: "Standup in 20m",
			Hours:       "3.0 / 8.0h",
			HoursLevel:  cache.LevelBelow,
			HoursRatio:  0.375,
		},
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app, _, _ := newTestApp(t)

	if app.ready {
		t.Fatal("app should wait for the first snapshot")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.forms.active() {
		t.Fatal("no form should be active initially")
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(&fakeDevice{}, make(chan nav.Input, 1))
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppWaitsForSnapshot(t *testing.T) {
	app, _, _ := newTestApp(t)
	if !strings.Contains(app.View(), "Waiting for the device") {
		t.Fatal("expected waiting message before the first snapshot")
	}
}

func TestAppInitFetchesSnapshot(t *testing.T) {
	app, dev, _ := newTestApp(t)
	dev.snap = sampleSnapshot()

	msg := app.Init()()
	snap, ok := msg.(snapshotMsg)
	if !ok {
		t.Fatalf("expected snapshotMsg, got %T", msg)
	}
	if snap.Streak != 3 {
		t.Fatalf("streak = %d, want 3", snap.Streak)
	}
}

func TestAppSnapshotMsg(t *testing.T) {
	app, _, _ := newTestApp(t)
	app, _ = press(t, app, snapshotMsg(sampleSnapshot()))

	if !app.ready {
		t.Fatal("app should be ready after a snapshot")
	}
	out := app.View()
	for _, want := range []string{"14:30", "25m", "3 days", "Standup in 20m", "3.0 / 8.0h"} {
		if !strings.Contains(out, want) {
			t.Fatalf("home view missing %q", want)
		}
	}
}

func TestAppRendersEveryScreen(t *testing.T) {
	app, _, _ := newTestApp(t)
	snap := sampleSnapshot()

	views := []nav.View{nav.Home, nav.Timer, nav.SessionHistory, nav.LinkSetup, nav.TaskBoard,
		nav.TaskTimer, nav.TaskDone, nav.Weather, nav.Calendar}
	for _, v := range views {
		snap.Nav = nav.State{View: v, Selected: 0}
		app, _ = press(t, app, snapshotMsg(snap))
		if out := app.View(); out == "" {
			t.Fatalf("view %v rendered empty", v)
		}
	}

	overlays := []nav.Overlay{nav.MainMenu, nav.ThemePicker, nav.TaskDetail, nav.TaskPicker}
	for _, o := range overlays {
		snap.Nav = nav.State{View: nav.TaskBoard, Overlays: []nav.Overlay{o}, Selected: 0}
		app, _ = press(t, app, snapshotMsg(snap))
		if out := app.View(); out == "" {
			t.Fatalf("overlay %v rendered empty", o)
		}
	}
}

func TestAppRendersUnsyncedScreens(t *testing.T) {
	app, _, _ := newTestApp(t)
	snap := device.Snapshot{Theme: nav.ThemeAt(0), Nav: nav.State{Selected: -1}}

	cases := map[nav.View]string{
		nav.TaskBoard:      "Waiting for tasks",
		nav.Weather:        "No weather",
		nav.Calendar:       "No calendar",
		nav.SessionHistory: "No sessions yet",
	}
	for v, want := range cases {
		snap.Nav.View = v
		app, _ = press(t, app, snapshotMsg(snap))
		if !strings.Contains(app.View(), want) {
			t.Fatalf("view %v missing %q", v, want)
		}
	}
}

func TestAppTimerView(t *testing.T) {
	app, _, _ := newTestApp(t)
	snap := sampleSnapshot()
	snap.Nav.View = nav.Timer
	app, _ = press(t, app, snapshotMsg(snap))

	out := app.View()
	if !strings.Contains(out, "12:34") {
		t.Fatal("timer view should show the remaining time")
	}
	if !strings.Contains(out, "RUNNING") {
		t.Fatal("timer view should show the state")
	}
}

func TestAppTaskDoneView(t *testing.T) {
	app, _, _ := newTestApp(t)
	snap := sampleSnapshot()
	snap.Nav = nav.State{View: nav.TaskDone, Done: nav.DoneStatus{
		Phase:   nav.DoneFailed,
		Title:   "Failed",
		Message: "Jira timeout",
		Task:    timer.TaskRef{Key: "PRJ-1", Name: "Write docs"},
	}}
	app, _ = press(t, app, snapshotMsg(snap))

	out := app.View()
	if !strings.Contains(out, "Jira timeout") || !strings.Contains(out, "Write docs") {
		t.Fatal("task done view should show the host's answer and the task")
	}
}

func TestAppHeaderShowsOverlays(t *testing.T) {
	app, _, _ := newTestApp(t)
	snap := sampleSnapshot()
	snap.Nav = nav.State{View: nav.Home, Overlays: []nav.Overlay{nav.MainMenu}}
	app, _ = press(t, app, snapshotMsg(snap))

	header := app.renderHeader()
	if !strings.Contains(header, "Home") || !strings.Contains(header, "Menu") {
		t.Fatalf("header should show the view and open overlays: %q", header)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _, _ := newTestApp(t)
	app, _ = press(t, app, statusMsg{text: "test status"})

	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppPulse(t *testing.T) {
	app, _, _ := newTestApp(t)

	app, cmd := press(t, app, pulseMsg{})
	if !app.pulse {
		t.Fatal("pulse should be shown")
	}
	if cmd == nil {
		t.Fatal("pulse should schedule its end")
	}

	app, _ = press(t, app, pulseDoneMsg{})
	if app.pulse {
		t.Fatal("pulse should clear")
	}
}

func TestAppQuit(t *testing.T) {
	app, _, _ := newTestApp(t)
	_, cmd := press(t, app, runeKey('q'))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should return tea.Quit")
	}
}

// ============================================================
// Input
// ============================================================

func TestAppKeysBecomeInput(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want nav.Input
	}{
		{"left", runeKey('h'), nav.KnobInput(nav.KnobLeft)},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, nav.KnobInput(nav.KnobLeft)},
		{"right", runeKey('l'), nav.KnobInput(nav.KnobRight)},
		{"press", tea.KeyMsg{Type: tea.KeyEnter}, nav.KnobInput(nav.KnobPress)},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, nav.KnobInput(nav.KnobPress)},
		{"back", tea.KeyMsg{Type: tea.KeyEsc}, nav.TapInput(nav.TapBack)},
		{"continue", runeKey('c'), nav.TapInput(nav.TapContinue)},
		{"reset", runeKey('r'), nav.TapInput(nav.TapReset)},
		{"start", runeKey('s'), nav.TapInput(nav.TapStart)},
		{"log time", runeKey('g'), nav.TapInput(nav.TapLogTime)},
		{"detail", runeKey('o'), nav.TapInput(nav.TapOpenTask)},
		{"browser", runeKey('b'), nav.TapInput(nav.TapOpenInBrowser)},
		{"meeting", runeKey('L'), nav.TapInput(nav.TapLogMeeting)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, inputs := newTestApp(t)
			press(t, app, tt.msg)

			got := drain(inputs)
			if len(got) != 1 {
				t.Fatalf("expected 1 input, got %d", len(got))
			}
			if got[0] != tt.want {
				t.Fatalf("input = %+v, want %+v", got[0], tt.want)
			}
		})
	}
}

func TestAppSwipeKeysOpenOverlays(t *testing.T) {
	app, _, inputs := newTestApp(t)
	caches := &cache.Caches{}
	n := nav.New(timer.New(timer.Generic), timer.New(timer.TaskLinked), caches)

	press(t, app, runeKey('m'))
	for _, in := range drain(inputs) {
		n.Dispatch(in)
	}
	if !n.IsOpen(nav.MainMenu) {
		t.Fatal("m should swipe the main menu open")
	}

	n.Show(nav.TaskBoard)
	press(t, app, runeKey('p'))
	for _, in := range drain(inputs) {
		n.Dispatch(in)
	}
	if !n.IsOpen(nav.TaskPicker) {
		t.Fatal("p should swipe the task picker open on the task board")
	}
}

func TestAppItemKeys(t *testing.T) {
	tests := []struct {
		name   string
		state  nav.State
		key    rune
		want   nav.Input
		expect bool
	}{
		{"menu", nav.State{Overlays: []nav.Overlay{nav.MainMenu}}, '3', nav.TapItem(nav.TapMenuItem, 2), true},
		{"themes", nav.State{Overlays: []nav.Overlay{nav.ThemePicker}}, '1', nav.TapItem(nav.TapTheme, 0), true},
		{"picker", nav.State{View: nav.TaskBoard, Overlays: []nav.Overlay{nav.TaskPicker}}, '2', nav.TapItem(nav.TapTask, 1), true},
		{"board", nav.State{View: nav.TaskBoard}, '9', nav.TapItem(nav.TapTask, 8), true},
		{"detail", nav.State{View: nav.TaskBoard, Overlays: []nav.Overlay{nav.TaskDetail}}, '1', nav.Input{}, false},
		{"home", nav.State{View: nav.Home}, '1', nav.Input{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, inputs := newTestApp(t)
			app.snap.Nav = tt.state
			press(t, app, runeKey(tt.key))

			got := drain(inputs)
			if !tt.expect {
				if len(got) != 0 {
					t.Fatalf("expected no input, got %+v", got)
				}
				return
			}
			if len(got) != 1 || got[0] != tt.want {
				t.Fatalf("inputs = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAppInputDroppedWhenDeviceBusy(t *testing.T) {
	app := NewApp(&fakeDevice{}, make(chan nav.Input))
	app, _ = press(t, app, runeKey('l'))

	if !app.statusErr || !strings.Contains(app.status, "dropped") {
		t.Fatalf("expected dropped status, got %q", app.status)
	}
}

func TestSwipeGeometry(t *testing.T) {
	down := swipeDown()
	if down[0].Y >= nav.GestureZone {
		t.Fatalf("swipe down must start in the top band, got y=%d", down[0].Y)
	}
	if down[1].Y-down[0].Y <= nav.SwipeThreshold {
		t.Fatal("swipe down must travel past the threshold")
	}

	up := swipeUp()
	if up[0].Y <= nav.ScreenSize-nav.GestureZone {
		t.Fatalf("swipe up must start in the bottom band, got y=%d", up[0].Y)
	}
	if up[0].Y-up[1].Y <= nav.SwipeThreshold {
		t.Fatal("swipe up must travel past the threshold")
	}
}

// ============================================================
// Export
// ============================================================

func TestAppExportPicker(t *testing.T) {
	app, _, _ := newTestApp(t)

	app, _ = press(t, app, runeKey('e'))
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyDown})
	if app.exportCursor != 1 {
		t.Fatalf("cursor = %d, want 1", app.exportCursor)
	}
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.exportPicking {
		t.Fatal("esc should close the export picker")
	}

	app, _ = press(t, app, runeKey('e'))
	app, cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.exportPicking || cmd == nil {
		t.Fatal("enter should close the picker and export")
	}
}

func TestAppExportWritesFiles(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.snap = sampleSnapshot()

	for format := 0; format < 2; format++ {
		msg := app.doExport(format)()
		done, ok := msg.(exportDoneMsg)
		if !ok {
			t.Fatalf("format %d: expected exportDoneMsg, got %#v", format, msg)
		}
		data, err := os.ReadFile(done.path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "2024-03-15") {
			t.Fatalf("format %d: export missing history", format)
		}
	}
}

func TestAppExportBadDir(t *testing.T) {
	app := NewApp(&fakeDevice{}, make(chan nav.Input, 1), WithExportDir("/nonexistent/dir"))
	msg := app.doExport(0)()
	st, ok := msg.(statusMsg)
	if !ok || !st.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

// ============================================================
// Forms
// ============================================================

func TestAppNoteFormOpensAndCancels(t *testing.T) {
	app, _, inputs := newTestApp(t)

	app, _ = press(t, app, runeKey('n'))
	if !app.forms.active() || app.forms.kind != formNote {
		t.Fatal("n should open the note form")
	}

	// keys go to the form, not the device
	app, _ = press(t, app, runeKey('l'))
	if got := drain(inputs); len(got) != 0 {
		t.Fatalf("form should capture keys, device got %+v", got)
	}

	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.forms.active() {
		t.Fatal("esc should close the form")
	}
}

func TestAppLogFormOpens(t *testing.T) {
	app, _, _ := newTestApp(t)
	app, _ = press(t, app, runeKey('a'))

	if !app.forms.active() || app.forms.kind != formLog {
		t.Fatal("a should open the log form")
	}
	if *app.forms.logMinutes != "25" {
		t.Fatalf("minutes default = %q, want 25", *app.forms.logMinutes)
	}
	if !strings.Contains(app.View(), "Log a session") {
		t.Fatal("form should be drawn")
	}
}

func TestSubmitNote(t *testing.T) {
	app, dev, _ := newTestApp(t)
	*app.forms.note = "  call back Alex  "

	msg := app.submitForm(formNote)()
	if st := msg.(statusMsg); st.isError || st.text != "Note queued" {
		t.Fatalf("unexpected status %+v", st)
	}
	if len(dev.notes) != 1 || dev.notes[0] != "call back Alex" {
		t.Fatalf("notes = %q", dev.notes)
	}
}

func TestSubmitNoteQueueFull(t *testing.T) {
	app, dev, _ := newTestApp(t)
	dev.noteErr = link.ErrQueueFull
	*app.forms.note = "one more"

	st := app.submitForm(formNote)().(statusMsg)
	if !st.isError {
		t.Fatal("full queue should be reported")
	}
}

func TestSubmitLog(t *testing.T) {
	app, dev, _ := newTestApp(t)
	*app.forms.logKind = "break"
	*app.forms.logMinutes = "15"

	st := app.submitForm(formLog)().(statusMsg)
	if st.isError {
		t.Fatalf("unexpected error %q", st.text)
	}
	if st.text != "Logged 15m break" {
		t.Fatalf("status = %q", st.text)
	}
	if len(dev.logged) != 1 || dev.logged[0] != (loggedSession{ledger.Break, 15}) {
		t.Fatalf("logged = %+v", dev.logged)
	}
}

func TestSubmitLogError(t *testing.T) {
	app, dev, _ := newTestApp(t)
	dev.logErr = errors.New("disk full")
	*app.forms.logKind = "work"
	*app.forms.logMinutes = "25"

	st := app.submitForm(formLog)().(statusMsg)
	if !st.isError || !strings.Contains(st.text, "disk full") {
		t.Fatalf("status = %+v", st)
	}
}

func TestValidateMinutes(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"25", true},
		{" 1 ", true},
		{"1440", true},
		{"0", false},
		{"1441", false},
		{"-5", false},
		{"abc", false},
		{"", false},
	}
	for _, tt := range tests {
		if err := validateMinutes(tt.in); (err == nil) != tt.ok {
			t.Errorf("validateMinutes(%q) = %v, want ok=%v", tt.in, err, tt.ok)
		}
	}
}

func TestValidateNote(t *testing.T) {
	if validateNote("   ") == nil {
		t.Fatal("blank note should be rejected")
	}
	if validateNote("hi") != nil {
		t.Fatal("note should be accepted")
	}
}

// ============================================================
// Display
// ============================================================

func TestDisplayBeforeAttach(t *testing.T) {
	d := NewDisplay()
	// no program yet: frames and pulses are dropped
	d.Render(sampleSnapshot())
	d.Pulse()
}

// ============================================================
// Helpers
// ============================================================

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"longer text", 6, "longe…"},
		{"abc", 0, ""},
		{"abc", -3, ""},
		{"héllo", 3, "hé…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	want := []string{"one two", "three", "four five"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("lines = %q, want %q", lines, want)
		}
	}
}

func TestPluralDays(t *testing.T) {
	if pluralDays(1) != "1 day" || pluralDays(0) != "0 days" || pluralDays(4) != "4 days" {
		t.Fatal("unexpected day label")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they render)
// ============================================================

func TestStylesRender(t *testing.T) {
	th := nav.ThemeAt(2)
	styles := []struct {
		name string
		fn   func() string
	}{
		{"panel", func() string { return panelStyle.Render("test") }},
		{"timer", func() string { return timerStyle.Render("test") }},
		{"timerRunning", func() string { return timerRunningStyle.Render("test") }},
		{"timerPaused", func() string { return timerPausedStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"accent", func() string { return accentStyle(th).Render("test") }},
		{"selected", func() string { return selectedStyle(th).Render("test") }},
		{"overlay", func() string { return overlayStyle(th).Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
