package input

import "strings"

// DefaultHistorySize bounds submitted-line history; oldest entries are
// evicted first.
const DefaultHistorySize = 100

// DefaultMaxLength caps the input buffer. Printable input beyond the cap is
// silently dropped until the buffer is edited down. Backpressure, not an error.
const DefaultMaxLength = 10000

// LineBuffer is an editable input line with a cursor and bounded history.
// It is not safe for concurrent use; the render loop is its only caller.
type LineBuffer struct {
	text    []rune
	cursor  int
	history []string
	// histIdx is the navigation offset into history: -1 means "present"
	// (editing a fresh line), -len(history) is the oldest entry.
	histIdx     int
	historySize int
	maxLength   int
}

// NewLineBuffer creates a buffer with the given history and length caps.
// Non-positive values fall back to the defaults.
func NewLineBuffer(historySize, maxLength int) *LineBuffer {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &LineBuffer{histIdx: -1, historySize: historySize, maxLength: maxLength}
}

// Text returns the current input line.
func (b *LineBuffer) Text() string { return string(b.text) }

// Len returns the number of runes in the buffer.
func (b *LineBuffer) Len() int { return len(b.text) }

// Cursor returns the cursor offset, always in [0, Len()].
func (b *LineBuffer) Cursor() int { return b.cursor }

// Full reports whether the buffer has reached its length cap.
func (b *LineBuffer) Full() bool { return len(b.text) >= b.maxLength }

// Insert places r at the cursor. Input past the length cap is dropped.
func (b *LineBuffer) Insert(r rune) bool {
	if b.Full() {
		return false
	}
	b.text = append(b.text, 0)
	copy(b.text[b.cursor+1:], b.text[b.cursor:])
	b.text[b.cursor] = r
	b.cursor++
	return true
}

// DeleteBeforeCursor removes the rune before the cursor, if any.
func (b *LineBuffer) DeleteBeforeCursor() bool {
	if b.cursor == 0 {
		return false
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return true
}

// MoveCursor shifts the cursor by delta, clamped to [0, Len()].
// It reports whether the cursor actually moved.
func (b *LineBuffer) MoveCursor(delta int) bool {
	pos := b.cursor + delta
	if pos < 0 {
		pos = 0
	}
	if pos > len(b.text) {
		pos = len(b.text)
	}
	moved := pos != b.cursor
	b.cursor = pos
	return moved
}

// Clear empties the buffer without touching history.
func (b *LineBuffer) Clear() {
	b.text = b.text[:0]
	b.cursor = 0
}

// Submit returns the trimmed line and clears the buffer. Non-empty lines are
// pushed to history unless they duplicate the most recent entry; history
// navigation resets to "present".
func (b *LineBuffer) Submit() string {
	text := strings.TrimSpace(string(b.text))
	b.Clear()
	if text == "" {
		return ""
	}
	if n := len(b.history); n == 0 || b.history[n-1] != text {
		b.history = append(b.history, text)
		if len(b.history) > b.historySize {
			b.history = b.history[len(b.history)-b.historySize:]
		}
	}
	b.histIdx = -1
	return text
}

// HistoryPrev walks one step back in history, restoring that line with the
// cursor at its end. A no-op when history is empty or already at the oldest.
func (b *LineBuffer) HistoryPrev() bool {
	if len(b.history) == 0 {
		return false
	}
	idx := b.histIdx - 1
	if idx < -len(b.history) {
		idx = -len(b.history)
	}
	if idx == b.histIdx {
		return false
	}
	b.histIdx = idx
	b.restore(b.history[len(b.history)+idx])
	return true
}

// HistoryNext walks one step toward the present. At "present" it clears the
// buffer instead of erroring.
func (b *LineBuffer) HistoryNext() bool {
	if b.histIdx < -1 {
		b.histIdx++
		b.restore(b.history[len(b.history)+b.histIdx])
		return true
	}
	b.histIdx = -1
	b.Clear()
	return true
}

// History returns a copy of the submitted-line history, most recent last.
func (b *LineBuffer) History() []string {
	out := make([]string, len(b.history))
	copy(out, b.history)
	return out
}

func (b *LineBuffer) restore(line string) {
	b.text = []rune(line)
	b.cursor = len(b.text)
}
