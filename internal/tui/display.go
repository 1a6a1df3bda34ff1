package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/focusknob/internal/device"
)

// Display is the device's screen and haptic motor: frames and pulses are
// forwarded to a running program. Anything sent before Attach is dropped.
type Display struct {
	p atomic.Pointer[tea.Program]
}

func NewDisplay() *Display { return &Display{} }

func (d *Display) Attach(p *tea.Program) { d.p.Store(p) }

func (d *Display) Render(s device.Snapshot) {
	if p := d.p.Load(); p != nil {
		p.Send(snapshotMsg(s))
	}
}

// Pulse is called with the device state held, so it must not wait on the
// program.
func (d *Display) Pulse() {
	if p := d.p.Load(); p != nil {
		go p.Send(pulseMsg{})
	}
}
