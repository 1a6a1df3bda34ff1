package nav

import "github.com/sadopc/focusknob/internal/timer"

var knobEvents = map[Knob]timer.Event{
	KnobLeft:  timer.Left,
	KnobRight: timer.Right,
	KnobPress: timer.Press,
}

// knob routes to the topmost overlay, else to the active view.
func (n *Navigator) knob(k Knob) bool {
	if o, ok := n.Top(); ok {
		return n.overlayKnob(o, k)
	}

	switch n.view {
	case Timer:
		return n.focus.Handle(knobEvents[k])
	case TaskTimer:
		return n.task.Handle(knobEvents[k])
	case TaskBoard:
		return n.boardKnob(k)
	case TaskDone:
		if k == KnobPress {
			n.leaveDone()
			return true
		}
	default:
		if k == KnobPress {
			return n.Open(MainMenu)
		}
	}
	return false
}

func (n *Navigator) overlayKnob(o Overlay, k Knob) bool {
	switch o {
	case MainMenu:
		switch k {
		case KnobLeft:
			n.menuCursor = wrap(n.menuCursor-1, len(Menu))
		case KnobRight:
			n.menuCursor = wrap(n.menuCursor+1, len(Menu))
		case KnobPress:
			n.activate(n.menuCursor)
			return true
		}
		n.haptic.Pulse()
		return true

	case ThemePicker:
		switch k {
		case KnobLeft:
			n.themeCursor = wrap(n.themeCursor-1, len(Themes))
		case KnobRight:
			n.themeCursor = wrap(n.themeCursor+1, len(Themes))
		case KnobPress:
			n.applyTheme(n.themeCursor)
		}
		return true

	case TaskDetail:
		switch k {
		case KnobLeft:
			if n.detailScroll == 0 {
				return false
			}
			n.detailScroll--
		case KnobRight:
			n.detailScroll++
		case KnobPress:
			n.Close(TaskDetail)
		}
		return true

	case TaskPicker:
		count := len(n.caches.Tasks.Get())
		switch k {
		case KnobLeft:
			if count == 0 {
				return false
			}
			n.selected--
			if n.selected < 0 {
				n.selected = count - 1
			}
		case KnobRight:
			if count == 0 {
				return false
			}
			n.selected++
			if n.selected >= count {
				n.selected = 0
			}
		case KnobPress:
			n.Close(TaskPicker)
		}
		n.haptic.Pulse()
		return true
	}
	return false
}

// boardKnob moves the task selection. -1 is the summary, Right wraps from
// the last task to the first and Left from the first returns to -1.
func (n *Navigator) boardKnob(k Knob) bool {
	count := len(n.caches.Tasks.Get())
	switch k {
	case KnobRight:
		if count == 0 {
			return false
		}
		n.selected++
		if n.selected >= count {
			n.selected = 0
		}
		return true
	case KnobLeft:
		if n.selected < 0 {
			return false
		}
		n.selected--
		return true
	case KnobPress:
		if _, ok := n.SelectedTask(); ok {
			return n.Open(TaskDetail)
		}
	}
	return false
}

func (n *Navigator) activate(i int) {
	if i < 0 || i >= len(Menu) {
		return
	}
	n.haptic.Pulse()
	item := Menu[i]
	if item.Themes {
		n.Close(MainMenu)
		n.Open(ThemePicker)
		return
	}
	n.Show(item.View)
}

func (n *Navigator) applyTheme(i int) {
	if i < 0 || i >= len(Themes) {
		return
	}
	n.theme = i
	n.themeCursor = i
	n.haptic.Pulse()
	if n.themes != nil {
		if err := n.themes.SaveThemeIndex(i); err != nil {
			n.log.Error("save theme", "err", err)
		}
	}
	n.log.Info("theme applied", "theme", Themes[i].Name)
	n.Close(ThemePicker)
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
