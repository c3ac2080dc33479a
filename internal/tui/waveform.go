package tui

import (
	"math"
	"math/rand"
	"strings"

	"github.com/voxcore/voxcore/internal/lifecycle"
)

// waveBlocks are the height steps of the waveform.
var waveBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Waveform animates the audio bar under the avatar: flat with a rare pulse
// when idle, a slow sine while processing, a noisy multi-harmonic wave with
// height-graded colors while responding.
type Waveform struct {
	Width int

	phase float64
	rand  *rand.Rand
}

// NewWaveform creates a waveform of the given width.
func NewWaveform(width int) *Waveform {
	if width <= 0 {
		width = 28
	}
	return &Waveform{Width: width, rand: rand.New(rand.NewSource(1))}
}

// Render returns the styled waveform frame for the phase.
func (w *Waveform) Render(phase lifecycle.Phase, theme Theme) string {
	switch phase {
	case lifecycle.Processing:
		return theme.Waveform.Render(w.thinkingFrame())
	case lifecycle.Responding:
		return w.talkingFrame(theme)
	default:
		if w.rand.Float64() < 0.05 {
			return theme.Waveform.Render(w.pulseFrame())
		}
		return theme.Waveform.Render(strings.Repeat("─", w.Width))
	}
}

// Reset zeroes the animation phase.
func (w *Waveform) Reset() { w.phase = 0 }

func (w *Waveform) pulseFrame() string {
	frame := []rune(strings.Repeat("─", w.Width))
	center := w.Width / 2
	frame[center] = '▂'
	if center > 0 {
		frame[center-1] = '▁'
	}
	if center < w.Width-1 {
		frame[center+1] = '▁'
	}
	return string(frame)
}

func (w *Waveform) thinkingFrame() string {
	w.phase += 0.2
	var b strings.Builder
	for i := 0; i < w.Width; i++ {
		wave := math.Sin(w.phase+float64(i)*0.3)*0.3 + 0.3
		b.WriteRune(waveBlocks[clampHeight(int(wave*3))])
	}
	return b.String()
}

func (w *Waveform) talkingFrame(theme Theme) string {
	amp := 0.5 + w.rand.Float64()*0.5
	w.phase += 0.5

	var b strings.Builder
	for i := 0; i < w.Width; i++ {
		x := float64(i)
		wave := math.Sin(w.phase+x*0.5)*0.4 +
			math.Sin(w.phase*1.5+x*0.3)*0.3 +
			math.Sin(w.phase*2.0+x*0.7)*0.2
		noise := (w.rand.Float64() - 0.5) * 0.3

		height := clampHeight(int((wave + noise + 0.5) * amp * float64(len(waveBlocks)-1)))
		ch := string(waveBlocks[height])

		// Height-graded coloring: peaks hottest, troughs dimmest.
		switch {
		case height > 6:
			b.WriteString(theme.WaveformPeak.Render(ch))
		case height > 3:
			b.WriteString(theme.WaveformMid.Render(ch))
		default:
			b.WriteString(theme.WaveformLow.Render(ch))
		}
	}
	return b.String()
}

func clampHeight(h int) int {
	if h < 0 {
		return 0
	}
	if h >= len(waveBlocks) {
		return len(waveBlocks) - 1
	}
	return h
}
