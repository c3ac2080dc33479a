// Package speech plays responses on a networked speaker. The cast bridge is
// an opaque collaborator: Speak blocks for the duration of playback and Stop
// makes an in-progress Speak return promptly.
package speech

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrUnreachable reports that the speaker device could not be reached.
var ErrUnreachable = errors.New("speaker unreachable")

// Speaker is the narrow contract the orchestrator consumes.
type Speaker interface {
	// Speak blocks until playback finishes, Stop is called, or ctx is
	// cancelled.
	Speak(ctx context.Context, text string) error
	// Stop interrupts an in-progress Speak. Safe to call when idle.
	Stop()
}

// ShortError renders err as the short message shown in the error footer.
func ShortError(err error) string {
	if errors.Is(err, ErrUnreachable) {
		return "Audio error: device not found. Check power?"
	}
	msg := err.Error()
	if len(msg) > 30 {
		msg = msg[:30]
	}
	return "Audio error: " + msg
}

// Simulated is the fallback speaker used when no bridge is configured and
// in tests. It sleeps proportionally to the text length, interruptible.
type Simulated struct {
	// PerRune is the simulated playback time per rune.
	PerRune time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewSimulated returns a simulated speaker pacing 50ms per rune, the same
// rough cadence as real TTS playback.
func NewSimulated() *Simulated {
	return &Simulated{PerRune: 50 * time.Millisecond}
}

// Speak sleeps for the simulated playback duration.
func (s *Simulated) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	d := time.Duration(len([]rune(text))) * s.PerRune
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop interrupts the current Speak, if any.
func (s *Simulated) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		select {
		case <-s.stop:
		default:
			close(s.stop)
		}
	}
}
