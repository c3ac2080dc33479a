package reveal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelaysFor(t *testing.T) {
	d := DefaultDelays()

	tests := []struct {
		name string
		r    rune
		prev rune
		want time.Duration
	}{
		{"plain char", 'a', 'b', d.Char},
		{"period", '.', 'a', d.Period},
		{"exclamation", '!', 'a', d.Period},
		{"question", '?', 'a', d.Period},
		{"comma", ',', 'a', d.Comma},
		{"colon", ':', 'a', d.Colon},
		{"semicolon", ';', 'a', d.Colon},
		{"newline", '\n', 'a', d.Newline},
		{"space after sentence", ' ', '.', d.SentenceSpace},
		{"space mid-sentence", ' ', 'a', d.Char},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.For(tt.r, tt.prev))
		})
	}
}

// fastDelays keeps reveal tests quick without changing the code path.
func fastDelays() Delays {
	return Delays{
		Char:          time.Microsecond,
		Period:        time.Microsecond,
		Comma:         time.Microsecond,
		Colon:         time.Microsecond,
		Newline:       time.Microsecond,
		SentenceSpace: time.Microsecond,
	}
}

func TestRevealerRunsToCompletion(t *testing.T) {
	r := New(fastDelays())
	r.Start("hello, world.")

	require.Eventually(t, r.IsComplete, time.Second, time.Millisecond)
	assert.Equal(t, "hello, world.", r.Current())
	assert.False(t, r.Active())
}

func TestRevealerCurrentIsPrefix(t *testing.T) {
	text := strings.Repeat("abc ", 50)
	r := New(Delays{Char: time.Millisecond, Period: time.Millisecond,
		Comma: time.Millisecond, Colon: time.Millisecond,
		Newline: time.Millisecond, SentenceSpace: time.Millisecond})
	r.Start(text)

	for i := 0; i < 20; i++ {
		cur := r.Current()
		assert.True(t, strings.HasPrefix(text, cur))
		time.Sleep(2 * time.Millisecond)
	}
	r.Skip()
}

func TestRevealerSkip(t *testing.T) {
	r := New(DefaultDelays())
	r.Start("a long response that would take a while to reveal")

	r.Skip()
	assert.True(t, r.IsComplete())
	assert.Equal(t, "a long response that would take a while to reveal", r.Current())

	// Idempotent.
	r.Skip()
	assert.True(t, r.IsComplete())
}

func TestRevealerRestartReplacesText(t *testing.T) {
	r := New(fastDelays())
	r.Start("first text")
	r.Start("second")

	require.Eventually(t, r.IsComplete, time.Second, time.Millisecond)
	assert.Equal(t, "second", r.Current())
}

func TestRevealerEmptyTextCompletesImmediately(t *testing.T) {
	r := New(DefaultDelays())
	r.Start("")
	assert.True(t, r.IsComplete())
	assert.False(t, r.Active())
}

func TestNewRevealerStartsComplete(t *testing.T) {
	r := New(DefaultDelays())
	assert.True(t, r.IsComplete())
	assert.Empty(t, r.Current())
}
