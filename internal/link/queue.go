package link

import "fmt"

// QueueNote queues text for delivery to the host. When connected with no
// note awaiting acknowledgment it goes out immediately; otherwise it waits
// for the next PING.
func (e *Engine) QueueNote(text string) error {
	if e.notes.Len() >= e.notes.Cap() {
		e.log.Warn("note queue full", "pending", e.notes.Len())
		return ErrQueueFull
	}
	n, err := newNote(text, e.wall.Now())
	if err != nil {
		return fmt.Errorf("queue note: %w", err)
	}
	e.notes.Push(n)
	e.log.Info("note queued", "pending", e.notes.Len())

	if e.connected && !e.inFlight() {
		e.flushNote()
	}
	return nil
}

// PendingNotes is the number of queued notes, including one in flight.
func (e *Engine) PendingNotes() int { return e.notes.Len() }

// InFlight reports whether a sent note is awaiting OK.
func (e *Engine) InFlight() bool { return e.inFlight() }

func (e *Engine) inFlight() bool {
	head := e.notes.Head()
	return head != nil && head.Sent
}

// flushNote sends the head note, resending it verbatim if it is still
// unacknowledged.
func (e *Engine) flushNote() {
	head := e.notes.Head()
	if head == nil {
		return
	}
	if head.Sent {
		e.log.Info("resending unacknowledged note")
	}
	e.send(head.line)
	head.Sent = true
}

func (e *Engine) handleAck() {
	if !e.inFlight() {
		e.log.Debug("ack with no note in flight")
		return
	}
	e.notes.Pop()
	e.log.Info("note acknowledged", "remaining", e.notes.Len())
}
