package nav

import "github.com/sadopc/focusknob/internal/timer"

const (
	ScreenSize = 360
	// GestureZone is the depth of the edge band a swipe must start in.
	GestureZone = 60
	// SwipeThreshold is how far a swipe must travel before touch-up.
	SwipeThreshold = 50
)

type gesture struct {
	armed  bool
	fired  bool
	startY int
}

func (g *gesture) arm(y int) {
	g.armed = true
	g.fired = false
	g.startY = y
}

func (g *gesture) reset() { *g = gesture{} }

// touch tracks the edge swipes. A swipe arms on touch-down inside its edge
// band and fires once it has travelled SwipeThreshold, provided no overlay
// is open.
func (n *Navigator) touch(phase TouchPhase, y int) bool {
	switch phase {
	case TouchDown:
		n.top.reset()
		n.bottom.reset()
		if len(n.overlays) > 0 {
			return false
		}
		if y < GestureZone {
			n.top.arm(y)
		}
		if y > ScreenSize-GestureZone && n.view == TaskBoard {
			n.bottom.arm(y)
		}

	case TouchMove:
		if len(n.overlays) > 0 {
			return false
		}
		if n.top.armed && !n.top.fired && y-n.top.startY > SwipeThreshold {
			n.top.fired = true
			n.haptic.Pulse()
			return n.Open(MainMenu)
		}
		if n.bottom.armed && !n.bottom.fired && n.bottom.startY-y > SwipeThreshold && n.view == TaskBoard {
			n.bottom.fired = true
			n.haptic.Pulse()
			return n.Open(TaskPicker)
		}

	case TouchUp:
		n.top.reset()
		n.bottom.reset()
	}
	return false
}

// tap handles a resolved button press. Open overlays take taps first.
func (n *Navigator) tap(target Target, idx int) bool {
	if o, ok := n.Top(); ok {
		return n.overlayTap(o, target, idx)
	}

	switch target {
	case TapBack:
		return n.back()
	case TapContinue, TapReset:
		ev := timer.ContinueTap
		if target == TapReset {
			ev = timer.ResetTap
		}
		switch n.view {
		case Timer:
			return n.focus.Handle(ev)
		case TaskTimer:
			return n.task.Handle(ev)
		}
	}

	switch n.view {
	case TaskBoard:
		switch target {
		case TapTask:
			if idx < 0 || idx >= len(n.caches.Tasks.Get()) {
				return false
			}
			n.selected = idx
			return true
		case TapStart:
			return n.startTask()
		case TapLogTime:
			return n.logTime()
		case TapOpenTask:
			if _, ok := n.SelectedTask(); ok {
				n.haptic.Pulse()
				return n.Open(TaskDetail)
			}
		}
	case Calendar:
		if target == TapLogMeeting {
			return n.logMeeting()
		}
	}
	return false
}

func (n *Navigator) overlayTap(o Overlay, target Target, idx int) bool {
	if target == TapOutside || target == TapBack {
		return n.Close(o)
	}
	switch o {
	case MainMenu:
		if target == TapMenuItem && idx >= 0 && idx < len(Menu) {
			n.activate(idx)
			return true
		}
	case ThemePicker:
		if target == TapTheme && idx >= 0 && idx < len(Themes) {
			n.applyTheme(idx)
			return true
		}
	case TaskPicker:
		if target == TapTask && idx >= 0 && idx < len(n.caches.Tasks.Get()) {
			n.selected = idx
			n.haptic.Pulse()
			n.Close(TaskPicker)
			return true
		}
	case TaskDetail:
		switch target {
		case TapOpenInBrowser:
			t, ok := n.SelectedTask()
			if !ok || n.host == nil {
				return false
			}
			n.haptic.Pulse()
			n.host.SendTaskOpen(t.Key)
			return true
		case TapLogTime:
			return n.logTime()
		case TapStart:
			return n.startTask()
		}
	}
	return false
}

func (n *Navigator) back() bool {
	switch n.view {
	case Home:
		return false
	case TaskTimer:
		n.Show(TaskBoard)
	case TaskDone:
		n.leaveDone()
	default:
		n.Show(Home)
	}
	return true
}

// startTask binds the selected task to the task timer and shows it.
func (n *Navigator) startTask() bool {
	t, ok := n.SelectedTask()
	if !ok {
		return false
	}
	n.haptic.Pulse()
	n.task.Bind(timer.TaskRef{Key: t.Key, Name: t.Name})
	n.Show(TaskTimer)
	return true
}

// logTime asks the host to log time against the selected task.
func (n *Navigator) logTime() bool {
	t, ok := n.SelectedTask()
	if !ok || n.host == nil {
		return false
	}
	n.haptic.Pulse()
	n.host.SendTaskLogTime(t.Key)
	n.enterDone(DoneLogging, timer.TaskRef{Key: t.Key, Name: t.Name})
	return true
}

// logMeeting reports the first timed calendar event to the host.
func (n *Navigator) logMeeting() bool {
	ev, ok := n.caches.Calendar.Get().FirstTimedEvent()
	if !ok || n.host == nil {
		return false
	}
	n.haptic.Pulse()
	n.host.SendLogMeeting(ev.Title, ev.DurationMin)
	n.log.Info("meeting log requested", "title", ev.Title, "minutes", ev.DurationMin)
	return true
}
