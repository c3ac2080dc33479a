package input

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptSource feeds a fixed byte script, optionally in chunks so tests can
// exercise sequences split across polls.
type scriptSource struct {
	bytes []byte
	pos   int
	// avail caps how many bytes are visible; -1 means all.
	avail int
}

func newScript(s string) *scriptSource {
	return &scriptSource{bytes: []byte(s), avail: -1}
}

func (s *scriptSource) ReadByte() (byte, bool) {
	if s.pos >= len(s.bytes) {
		return 0, false
	}
	if s.avail >= 0 && s.pos >= s.avail {
		return 0, false
	}
	b := s.bytes[s.pos]
	s.pos++
	return b, true
}

func drain(d *Decoder) []Event {
	var out []Event
	for {
		ev, ok := d.Poll()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func TestDecoderTypedLineSubmit(t *testing.T) {
	d := NewDecoder(newScript("hi\r"), NewLineBuffer(0, 0))

	events := drain(d)
	require.Len(t, events, 3)
	assert.Equal(t, KindChar, events[0].Kind)
	assert.Equal(t, 'h', events[0].Rune)
	assert.Equal(t, KindSubmit, events[2].Kind)
	assert.Equal(t, "hi", events[2].Text)
	assert.Equal(t, "", d.Buffer().Text())
}

func TestDecoderEmptySubmitSuppressed(t *testing.T) {
	d := NewDecoder(newScript("\r\n  \r"), NewLineBuffer(0, 0))

	for _, ev := range drain(d) {
		assert.NotEqual(t, KindSubmit, ev.Kind)
	}
}

func TestDecoderArrowKeys(t *testing.T) {
	d := NewDecoder(newScript("ab\x1b[D\x1b[D\x1b[C"), NewLineBuffer(0, 0))

	events := drain(d)
	kinds := make([]Kind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	assert.Equal(t, []Kind{KindChar, KindChar, KindCursorLeft, KindCursorLeft, KindCursorRight}, kinds)
	assert.Equal(t, 1, d.Buffer().Cursor())
}

func TestDecoderCursorMoveAtBoundaryEmitsNothing(t *testing.T) {
	// Cursor already at line start; left arrow changes nothing.
	d := NewDecoder(newScript("\x1b[D"), NewLineBuffer(0, 0))
	assert.Empty(t, drain(d))
}

func TestDecoderEscapeSplitAcrossPolls(t *testing.T) {
	src := newScript("\x1b[A")
	buf := NewLineBuffer(0, 0)
	buf.Submit() // no history yet
	typeString(buf, "old")
	buf.Submit()
	d := NewDecoder(src, buf)

	// Only ESC available on the first poll.
	src.avail = 1
	_, ok := d.Poll()
	assert.False(t, ok)

	// Then '['.
	src.avail = 2
	_, ok = d.Poll()
	assert.False(t, ok)

	// Final byte completes the sequence as one history event; the ESC and
	// bracket were never treated as printable input.
	src.avail = -1
	ev, ok := d.Poll()
	require.True(t, ok)
	assert.Equal(t, KindHistoryPrev, ev.Kind)
	assert.Equal(t, "old", d.Buffer().Text())
}

func TestDecoderInterruptInsideEscape(t *testing.T) {
	// Ctrl-C arriving where an arrow letter should be must still interrupt.
	d := NewDecoder(newScript("\x1b[\x03"), NewLineBuffer(0, 0))

	ev, ok := d.Poll()
	require.True(t, ok)
	assert.Equal(t, KindInterrupt, ev.Kind)
}

func TestDecoderInvalidEscapeDiscarded(t *testing.T) {
	d := NewDecoder(newScript("\x1bZab"), NewLineBuffer(0, 0))

	events := drain(d)
	require.Len(t, events, 2)
	assert.Equal(t, "ab", d.Buffer().Text())
}

func TestDecoderControlEvents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Kind
	}{
		{"ctrl-c", "\x03", KindInterrupt},
		{"ctrl-d", "\x04", KindExit},
		{"ctrl-y", "\x19", KindCopy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(newScript(tt.in), NewLineBuffer(0, 0))
			ev, ok := d.Poll()
			require.True(t, ok)
			assert.Equal(t, tt.want, ev.Kind)
		})
	}
}

func TestDecoderBackspace(t *testing.T) {
	d := NewDecoder(newScript("ab\x7f"), NewLineBuffer(0, 0))

	events := drain(d)
	require.Len(t, events, 3)
	assert.Equal(t, KindBackspace, events[2].Kind)
	assert.Equal(t, "a", d.Buffer().Text())

	// Backspace on an empty buffer emits nothing.
	d2 := NewDecoder(newScript("\x7f"), NewLineBuffer(0, 0))
	assert.Empty(t, drain(d2))
}

func TestDecoderUTF8AcrossPolls(t *testing.T) {
	src := newScript("é") // two bytes
	d := NewDecoder(src, NewLineBuffer(0, 0))

	src.avail = 1
	_, ok := d.Poll()
	assert.False(t, ok)

	src.avail = -1
	ev, ok := d.Poll()
	require.True(t, ok)
	assert.Equal(t, KindChar, ev.Kind)
	assert.Equal(t, 'é', ev.Rune)
}

func TestDecoderBufferCeiling(t *testing.T) {
	d := NewDecoder(newScript(strings.Repeat("x", 5)+"\r"), NewLineBuffer(0, 3))

	events := drain(d)
	// Three inserts plus the submit; overflow produced no events.
	require.Len(t, events, 4)
	assert.Equal(t, "xxx", events[3].Text)
}

func TestStreamSourceDeliversAndSignalsEOF(t *testing.T) {
	src := NewStreamSource(strings.NewReader("a"))
	defer src.Close()

	d := NewDecoder(src, NewLineBuffer(0, 0))

	var events []Event
	require.Eventually(t, func() bool {
		for {
			ev, ok := d.Poll()
			if !ok {
				break
			}
			events = append(events, ev)
		}
		return len(events) >= 2
	}, time.Second, time.Millisecond)

	assert.Equal(t, KindChar, events[0].Kind)
	assert.Equal(t, KindExit, events[1].Kind, "reader EOF surfaces as exit")
}
