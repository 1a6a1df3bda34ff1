package link

// BufferSize bounds one inbound command, including the terminator.
const BufferSize = 8192

// Line is one assembled inbound command. Overflow marks a line that did
// not fit in the buffer; its text is discarded.
type Line struct {
	Text     string
	Overflow bool
}

// Assembler splits the inbound byte stream into newline-terminated lines.
// Carriage returns are dropped and empty lines are skipped.
type Assembler struct {
	buf      []byte
	overflow bool
}

// Write consumes p and returns every line completed by it.
func (a *Assembler) Write(p []byte) []Line {
	var lines []Line
	for _, c := range p {
		switch {
		case c == '\n':
			if a.overflow {
				lines = append(lines, Line{Overflow: true})
			} else if len(a.buf) > 0 {
				lines = append(lines, Line{Text: string(a.buf)})
			}
			a.buf = a.buf[:0]
			a.overflow = false
		case c == '\r':
		case len(a.buf) < BufferSize-1:
			a.buf = append(a.buf, c)
		default:
			a.overflow = true
		}
	}
	return lines
}

// Pending is the number of buffered bytes of the current line.
func (a *Assembler) Pending() int { return len(a.buf) }
