package tui

import (
	"fmt"
	"strings"

	"github.com/sadopc/focusknob/internal/device"
	"github.com/sadopc/focusknob/internal/nav"
)

// --- Messages ---

type snapshotMsg device.Snapshot

type pulseMsg struct{}
type pulseDoneMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// swipeDown is a drag from the top edge band, which opens the main menu.
func swipeDown() []nav.Input {
	x, y0 := nav.ScreenSize/2, nav.GestureZone/2
	y1 := y0 + nav.SwipeThreshold + 10
	return []nav.Input{
		nav.TouchInput(nav.TouchDown, x, y0),
		nav.TouchInput(nav.TouchMove, x, y1),
		nav.TouchInput(nav.TouchUp, x, y1),
	}
}

// swipeUp is a drag from the bottom edge band, which opens the task picker
// on the task board.
func swipeUp() []nav.Input {
	x, y0 := nav.ScreenSize/2, nav.ScreenSize-nav.GestureZone/2
	y1 := y0 - nav.SwipeThreshold - 10
	return []nav.Input{
		nav.TouchInput(nav.TouchDown, x, y0),
		nav.TouchInput(nav.TouchMove, x, y1),
		nav.TouchInput(nav.TouchUp, x, y1),
	}
}

// itemTarget is the button a numbered tap lands on in the current screen.
func itemTarget(s nav.State) (nav.Target, bool) {
	if n := len(s.Overlays); n > 0 {
		switch s.Overlays[n-1] {
		case nav.MainMenu:
			return nav.TapMenuItem, true
		case nav.ThemePicker:
			return nav.TapTheme, true
		case nav.TaskPicker:
			return nav.TapTask, true
		}
		return 0, false
	}
	if s.View == nav.TaskBoard {
		return nav.TapTask, true
	}
	return 0, false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	if n == 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func wrapText(s string, width int) []string {
	if width < 8 {
		width = 8
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			if line != "" && len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = ""
			}
			if line != "" {
				line += " "
			}
			line += word
		}
		lines = append(lines, line)
	}
	return lines
}

func formatTemp(c int) string { return fmt.Sprintf("%d°", c) }
