// Package input decodes raw terminal bytes into editing events and owns
// the line buffer those events operate on. It never blocks: the decoder is
// polled once per frame from the render loop and works only with bytes that
// are already available.
package input

// Kind identifies the type of an input event.
type Kind int

const (
	// KindChar is emitted when a printable rune was inserted into the
	// buffer, or when a cursor/history key changed the visible input line.
	// The renderer uses it as a redraw hint.
	KindChar Kind = iota
	// KindSubmit carries a complete, trimmed input line.
	KindSubmit
	// KindBackspace is emitted after a character was deleted.
	KindBackspace
	// KindCursorLeft and KindCursorRight report cursor movement.
	KindCursorLeft
	KindCursorRight
	// KindHistoryPrev and KindHistoryNext report history navigation.
	KindHistoryPrev
	KindHistoryNext
	// KindCopy requests copying the last reply to the clipboard (Ctrl-Y).
	KindCopy
	// KindInterrupt is Ctrl-C.
	KindInterrupt
	// KindExit is Ctrl-D.
	KindExit
)

// String returns a short name for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindSubmit:
		return "submit"
	case KindBackspace:
		return "backspace"
	case KindCursorLeft:
		return "cursor-left"
	case KindCursorRight:
		return "cursor-right"
	case KindHistoryPrev:
		return "history-prev"
	case KindHistoryNext:
		return "history-next"
	case KindCopy:
		return "copy"
	case KindInterrupt:
		return "interrupt"
	case KindExit:
		return "exit"
	}
	return "unknown"
}

// Event is a single decoded input event. Exactly one event is produced per
// logical keystroke; partial escape sequences produce nothing until resolved.
type Event struct {
	Kind Kind
	// Rune is set for KindChar when a printable rune was typed.
	Rune rune
	// Text is set for KindSubmit and holds the trimmed input line.
	Text string
}
