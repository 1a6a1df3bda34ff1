package nav

import (
	"time"

	"github.com/sadopc/focusknob/internal/timer"
)

const (
	// ResponseTimeout is how long TaskDone waits for the host's answer.
	ResponseTimeout = 30 * time.Second
	// AutoReturn is how long a host answer stays up before TaskBoard returns.
	AutoReturn = 2 * time.Second
)

type DonePhase int

const (
	DoneSending DonePhase = iota
	DoneLogging
	DoneSucceeded
	DoneFailed
	DoneNoResponse
)

// DoneStatus is what the TaskDone view shows.
type DoneStatus struct {
	Phase   DonePhase
	Title   string
	Message string
	Task    timer.TaskRef
}

type taskDone struct {
	DoneStatus
	deadline time.Time
	returnAt time.Time
}

func (d taskDone) status() DoneStatus { return d.DoneStatus }

// TaskTimerFinished shows TaskDone while the host records the session.
func (n *Navigator) TaskTimerFinished(task timer.TaskRef, minutes int) {
	n.enterDone(DoneSending, task)
}

func (n *Navigator) enterDone(phase DonePhase, task timer.TaskRef) {
	d := taskDone{DoneStatus: DoneStatus{Phase: phase, Task: task}}
	switch phase {
	case DoneSending:
		d.Title = "Done!"
		d.Message = "Sending to host..."
	case DoneLogging:
		d.Title = "Logging..."
		d.Message = "Check the host for prompts"
	}
	d.deadline = n.now().Add(ResponseTimeout)
	n.done = d
	n.Show(TaskDone)
}

// TaskLogResult records the host's answer and schedules the return to
// TaskBoard.
func (n *Navigator) TaskLogResult(ok bool, msg string) {
	if ok {
		n.done.Phase = DoneSucceeded
		n.done.Title = "✓ Done!"
	} else {
		n.done.Phase = DoneFailed
	}
	n.done.Message = msg
	n.done.deadline = time.Time{}
	n.done.returnAt = n.now().Add(AutoReturn)
}

// Poll fires the TaskDone deadlines that have passed and reports whether
// anything changed.
func (n *Navigator) Poll() bool {
	now := n.now()
	changed := false
	if !n.done.deadline.IsZero() && !now.Before(n.done.deadline) {
		n.done.deadline = time.Time{}
		n.done.Phase = DoneNoResponse
		n.done.Message = "No response from host"
		n.log.Warn("no task log response from host", "task", n.done.Task.Key)
		changed = true
	}
	if !n.done.returnAt.IsZero() && !now.Before(n.done.returnAt) {
		n.done.returnAt = time.Time{}
		if n.view == TaskDone {
			n.Show(TaskBoard)
			changed = true
		}
	}
	return changed
}

func (n *Navigator) leaveDone() {
	n.Show(TaskBoard)
}
