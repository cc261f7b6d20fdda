package core

import (
	"strings"
	"time"
)

// LineBuffer accumulates command bytes until a line terminator. It
// remembers when the most recent byte arrived so the loop can age out
// a stalled partial line, and it discards lines that outgrow its
// capacity so garbage-length input can never parse as a command.
type LineBuffer struct {
	buf      []byte
	lastByte time.Duration
	max      int

	// discard marks the current line as overlong. The whole line is
	// poisoned through its terminator; clearing the buffer alone would
	// let the tail of the garbage parse as a command of its own.
	discard bool
}

// NewLineBuffer creates a LineBuffer holding at most max bytes of one
// unterminated line.
func NewLineBuffer(max int) *LineBuffer {
	return &LineBuffer{
		buf: make([]byte, 0, max),
		max: max,
	}
}

// Push appends one received byte, recording now as the last-byte time.
// When b terminates a line, Push returns the accumulated line trimmed
// of surrounding whitespace and true; the buffer is cleared whether or
// not the line later decodes.
func (l *LineBuffer) Push(b byte, now time.Duration) (string, bool) {
	if b == '\n' {
		if l.discard {
			l.discard = false
			return "", false
		}
		line := strings.TrimSpace(string(l.buf))
		l.buf = l.buf[:0]
		return line, true
	}

	l.lastByte = now
	if l.discard {
		return "", false
	}
	if len(l.buf) >= l.max {
		l.discard = true
		l.buf = l.buf[:0]
		return "", false
	}
	l.buf = append(l.buf, b)
	return "", false
}

// Empty reports whether no partial line is pending, poisoned or not.
func (l *LineBuffer) Empty() bool {
	return len(l.buf) == 0 && !l.discard
}

// Expired reports whether a pending line, including an unterminated
// poisoned one, has been idle longer than timeout. A poisoned line
// must age out too, or a sender that never terminates it would jam
// the buffer forever.
func (l *LineBuffer) Expired(now time.Duration, timeout time.Duration) bool {
	return !l.Empty() && now-l.lastByte > timeout
}

// Reset discards any pending partial line and clears the poisoned
// state.
func (l *LineBuffer) Reset() {
	l.buf = l.buf[:0]
	l.discard = false
}
