// Package nav owns the screen state: which view is showing, the stack of
// overlays above it, and the routing of knob and touch input to them.
//
// A Navigator is not safe for concurrent use; the device holds its state
// lock around every call.
package nav

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sadopc/focusknob/internal/cache"
	"github.com/sadopc/focusknob/internal/timer"
)

type View int

const (
	Home View = iota
	Timer
	SessionHistory
	LinkSetup
	TaskBoard
	TaskTimer
	TaskDone
	Weather
	Calendar
)

var viewNames = map[View]string{
	Home:           "Home",
	Timer:          "Timer",
	SessionHistory: "History",
	LinkSetup:      "Link",
	TaskBoard:      "Tasks",
	TaskTimer:      "Task Timer",
	TaskDone:       "Task Done",
	Weather:        "Weather",
	Calendar:       "Calendar",
}

func (v View) String() string { return viewNames[v] }

type Overlay int

const (
	MainMenu Overlay = iota
	ThemePicker
	TaskDetail
	TaskPicker
)

var overlayNames = map[Overlay]string{
	MainMenu:    "Menu",
	ThemePicker: "Themes",
	TaskDetail:  "Task Detail",
	TaskPicker:  "Task Picker",
}

func (o Overlay) String() string { return overlayNames[o] }

// MenuItem is one entry of the main menu.
type MenuItem struct {
	Label string
	View  View
	// Themes opens the theme picker instead of a view.
	Themes bool
}

var Menu = []MenuItem{
	{Label: "Home", View: Home},
	{Label: "Timer", View: Timer},
	{Label: "History", View: SessionHistory},
	{Label: "Tasks", View: TaskBoard},
	{Label: "Weather", View: Weather},
	{Label: "Calendar", View: Calendar},
	{Label: "Link", View: LinkSetup},
	{Label: "Themes", Themes: true},
}

// Host is the outbound half of the link used by task and calendar actions.
type Host interface {
	SendTaskLogTime(key string)
	SendTaskOpen(key string)
	SendLogMeeting(title string, minutes int)
}

// ThemeStore persists the theme selection.
type ThemeStore interface {
	SaveThemeIndex(i int) error
}

// Haptic plays a short pulse.
type Haptic interface {
	Pulse()
}

type nopHaptic struct{}

func (nopHaptic) Pulse() {}

type Navigator struct {
	view     View
	overlays []Overlay

	menuCursor   int
	theme        int
	themeCursor  int
	selected     int
	detailScroll int

	top    gesture
	bottom gesture

	done taskDone

	focus  *timer.Engine
	task   *timer.Engine
	caches *cache.Caches
	host   Host
	themes ThemeStore
	haptic Haptic

	now func() time.Time
	log *log.Logger
}

type Option func(*Navigator)

func WithHost(h Host) Option {
	return func(n *Navigator) { n.host = h }
}

func WithThemeStore(s ThemeStore) Option {
	return func(n *Navigator) { n.themes = s }
}

func WithHaptic(h Haptic) Option {
	return func(n *Navigator) { n.haptic = h }
}

// WithTheme sets the initial theme index.
func WithTheme(i int) Option {
	return func(n *Navigator) {
		if i >= 0 && i < len(Themes) {
			n.theme = i
		}
	}
}

// WithClock sets the monotonic clock used for TaskDone deadlines.
func WithClock(now func() time.Time) Option {
	return func(n *Navigator) { n.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(n *Navigator) { n.log = logger }
}

// New returns a navigator on Home. focus and task are the two timer
// engines; caches supplies the task list and calendar.
func New(focus, task *timer.Engine, caches *cache.Caches, opts ...Option) *Navigator {
	n := &Navigator{
		view:     Home,
		selected: -1,
		focus:    focus,
		task:     task,
		caches:   caches,
		haptic:   nopHaptic{},
		now:      time.Now,
		log:      log.New(io.Discard),
	}
	for _, o := range opts {
		o(n)
	}
	n.themeCursor = n.theme
	return n
}

func (n *Navigator) View() View { return n.view }

// Show switches view, closing every overlay and resetting the gestures.
func (n *Navigator) Show(v View) {
	if n.view != v {
		n.log.Debug("view", "from", n.view, "to", v)
	}
	if v != TaskDone {
		n.done.deadline = time.Time{}
		n.done.returnAt = time.Time{}
	}
	n.view = v
	n.overlays = n.overlays[:0]
	n.top.reset()
	n.bottom.reset()
}

// Open pushes o unless it is already open.
func (n *Navigator) Open(o Overlay) bool {
	if slices.Contains(n.overlays, o) {
		return false
	}
	switch o {
	case MainMenu:
		n.menuCursor = 0
	case ThemePicker:
		n.themeCursor = n.theme
	case TaskDetail:
		n.detailScroll = 0
	}
	n.overlays = append(n.overlays, o)
	return true
}

// Close removes o wherever it is in the stack.
func (n *Navigator) Close(o Overlay) bool {
	i := slices.Index(n.overlays, o)
	if i < 0 {
		return false
	}
	n.overlays = slices.Delete(n.overlays, i, i+1)
	return true
}

// Top returns the topmost overlay.
func (n *Navigator) Top() (Overlay, bool) {
	if len(n.overlays) == 0 {
		return 0, false
	}
	return n.overlays[len(n.overlays)-1], true
}

func (n *Navigator) IsOpen(o Overlay) bool { return slices.Contains(n.overlays, o) }

// Overlays returns the open overlays, bottom first.
func (n *Navigator) Overlays() []Overlay { return slices.Clone(n.overlays) }

func (n *Navigator) Selected() int { return n.selected }

// SelectedTask returns the selected task, if any.
func (n *Navigator) SelectedTask() (cache.Task, bool) {
	tasks := n.caches.Tasks.Get()
	if n.selected < 0 || n.selected >= len(tasks) {
		return cache.Task{}, false
	}
	return tasks[n.selected], true
}

// TasksUpdated drops a selection the new task list no longer covers.
func (n *Navigator) TasksUpdated() {
	if n.selected >= len(n.caches.Tasks.Get()) {
		n.selected = -1
	}
}

func (n *Navigator) Theme() int { return n.theme }

// Dispatch routes one input event and reports whether anything changed.
func (n *Navigator) Dispatch(in Input) bool {
	switch in.Kind {
	case InputKnob:
		return n.knob(in.Knob)
	case InputTouch:
		return n.touch(in.Phase, in.Y)
	case InputTap:
		return n.tap(in.Target, in.Index)
	}
	return false
}

// State is a copy of what the display needs from the navigator.
type State struct {
	View         View
	Overlays     []Overlay
	MenuCursor   int
	Theme        int
	ThemeCursor  int
	Selected     int
	DetailScroll int
	Done         DoneStatus
}

func (n *Navigator) State() State {
	return State{
		View:         n.view,
		Overlays:     n.Overlays(),
		MenuCursor:   n.menuCursor,
		Theme:        n.theme,
		ThemeCursor:  n.themeCursor,
		Selected:     n.selected,
		DetailScroll: n.detailScroll,
		Done:         n.done.status(),
	}
}
