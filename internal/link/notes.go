package link

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	MaxPendingNotes = 10
	// MaxNoteLen is the longest note text kept, in bytes.
	MaxNoteLen = 255
)

var ErrQueueFull = errors.New("link: note queue full")

// Note is a queued free-text entry. The wire line is fixed when the note is
// queued so a resend is byte-identical.
type Note struct {
	Text  string
	Stamp time.Time
	// Sent is set once the note has gone out; it stays queued until OK.
	Sent bool
	line string
}

type notePayload struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

func newNote(text string, stamp time.Time) (Note, error) {
	text = truncate(text, MaxNoteLen)
	payload, err := marshal(notePayload{
		Text:      text,
		Timestamp: stamp.Format("2006-01-02T15:04") + ":00",
	})
	if err != nil {
		return Note{}, fmt.Errorf("encode note: %w", err)
	}
	return Note{Text: text, Stamp: stamp, line: "NOTE:" + payload}, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// marshal encodes v as compact JSON without HTML escaping.
func marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
