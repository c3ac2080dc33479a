package input

import (
	"io"
	"unicode/utf8"
)

// Control bytes handled by the decoder.
const (
	byteInterrupt = 0x03 // Ctrl-C
	byteEOF       = 0x04 // Ctrl-D
	byteBackspace = 0x08
	byteLF        = 0x0a
	byteCR        = 0x0d
	byteCopy      = 0x19 // Ctrl-Y
	byteEsc       = 0x1b
	byteDel       = 0x7f
)

// ByteSource supplies input bytes without blocking. ReadByte returns the
// next byte and true, or false when nothing is available right now.
type ByteSource interface {
	ReadByte() (byte, bool)
}

// escState tracks progress through an ANSI arrow-key escape sequence.
// Making the partial-sequence-across-polls behavior an explicit state keeps
// it testable instead of living in ad-hoc flags.
type escState int

const (
	ground escState = iota
	sawEsc
	sawEscBracket
)

// Decoder translates raw terminal bytes into Events, applying editing keys
// to its LineBuffer as it goes. Poll never blocks: an escape sequence whose
// tail bytes have not arrived yet is carried to the next call, and is never
// misread as printable input.
type Decoder struct {
	src ByteSource
	buf *LineBuffer

	state escState
	// rune holds the lead bytes of an incomplete UTF-8 sequence.
	rune []byte
}

// NewDecoder creates a decoder reading from src and editing buf.
func NewDecoder(src ByteSource, buf *LineBuffer) *Decoder {
	return &Decoder{src: src, buf: buf}
}

// Buffer returns the line buffer the decoder edits.
func (d *Decoder) Buffer() *LineBuffer { return d.buf }

// Poll consumes available bytes until one event can be produced. It returns
// false when the available input yields no complete event; any partial
// escape or UTF-8 sequence is kept for the next call.
func (d *Decoder) Poll() (Event, bool) {
	for {
		b, ok := d.src.ReadByte()
		if !ok {
			return Event{}, false
		}

		var ev Event
		var emitted bool
		if d.state != ground {
			ev, emitted = d.advanceEscape(b)
		} else {
			ev, emitted = d.handleByte(b)
		}
		if emitted {
			return ev, true
		}
	}
}

// advanceEscape feeds one byte into a pending escape sequence. Invalid
// sequences are discarded; control bytes that interrupt one are still
// honored so a pending sequence can never swallow Ctrl-C or Ctrl-D.
func (d *Decoder) advanceEscape(b byte) (Event, bool) {
	switch d.state {
	case sawEsc:
		if b == '[' {
			d.state = sawEscBracket
			return Event{}, false
		}
		d.state = ground
		if b < 0x20 {
			return d.handleByte(b)
		}
		// ESC followed by a printable is not an arrow key; both bytes
		// are dropped, matching the invalid-sequence policy.
		return Event{}, false

	case sawEscBracket:
		d.state = ground
		switch b {
		case 'A':
			if d.buf.HistoryPrev() {
				return Event{Kind: KindHistoryPrev}, true
			}
		case 'B':
			d.buf.HistoryNext()
			return Event{Kind: KindHistoryNext}, true
		case 'C':
			if d.buf.MoveCursor(1) {
				return Event{Kind: KindCursorRight}, true
			}
		case 'D':
			if d.buf.MoveCursor(-1) {
				return Event{Kind: KindCursorLeft}, true
			}
		default:
			if b < 0x20 {
				return d.handleByte(b)
			}
		}
	}
	return Event{}, false
}

func (d *Decoder) handleByte(b byte) (Event, bool) {
	switch {
	case b == byteInterrupt:
		return Event{Kind: KindInterrupt}, true

	case b == byteEOF:
		return Event{Kind: KindExit}, true

	case b == byteCR || b == byteLF:
		text := d.buf.Submit()
		if text == "" {
			// Empty submissions are suppressed.
			return Event{}, false
		}
		return Event{Kind: KindSubmit, Text: text}, true

	case b == byteDel || b == byteBackspace:
		if d.buf.DeleteBeforeCursor() {
			return Event{Kind: KindBackspace}, true
		}
		return Event{}, false

	case b == byteCopy:
		return Event{Kind: KindCopy}, true

	case b == byteEsc:
		d.state = sawEsc
		d.rune = nil
		return Event{}, false

	case b >= 0x20 && b < byteDel:
		d.rune = nil
		return d.insert(rune(b))

	case b >= 0x80:
		d.rune = append(d.rune, b)
		if utf8.FullRune(d.rune) {
			r, _ := utf8.DecodeRune(d.rune)
			d.rune = nil
			if r != utf8.RuneError {
				return d.insert(r)
			}
			return Event{}, false
		}
		if len(d.rune) >= utf8.UTFMax || !utf8.RuneStart(d.rune[0]) {
			d.rune = nil
		}
		return Event{}, false
	}

	// Remaining control bytes are ignored.
	return Event{}, false
}

func (d *Decoder) insert(r rune) (Event, bool) {
	// A full buffer drops input silently. Backpressure, not an error.
	if !d.buf.Insert(r) {
		return Event{}, false
	}
	return Event{Kind: KindChar, Rune: r}, true
}

// StreamSource adapts a blocking reader (normally the raw-mode terminal)
// into a non-blocking ByteSource via a pump goroutine and a buffered
// channel. EOF from the reader is surfaced as a Ctrl-D byte so the decoder
// reports Exit.
type StreamSource struct {
	ch     chan byte
	closed chan struct{}
}

// NewStreamSource starts reading from r in the background.
func NewStreamSource(r io.Reader) *StreamSource {
	s := &StreamSource{
		ch:     make(chan byte, 1024),
		closed: make(chan struct{}),
	}
	go s.pump(r)
	return s
}

// ReadByte returns the next available byte without blocking.
func (s *StreamSource) ReadByte() (byte, bool) {
	select {
	case b := <-s.ch:
		return b, true
	default:
		return 0, false
	}
}

// Close stops delivering bytes. The pump goroutine exits after its next
// read returns; a read blocked on the terminal ends with the process.
func (s *StreamSource) Close() {
	close(s.closed)
}

func (s *StreamSource) pump(r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case s.ch <- b:
			case <-s.closed:
				return
			}
		}
		if err != nil {
			select {
			case s.ch <- byteEOF:
			case <-s.closed:
			}
			return
		}
		select {
		case <-s.closed:
			return
		default:
		}
	}
}
