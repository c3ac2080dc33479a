package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxcore/voxcore/internal/lifecycle"
)

func TestAvatarRenderPerPhase(t *testing.T) {
	a := NewAvatar()

	for _, phase := range []lifecycle.Phase{lifecycle.Idle, lifecycle.Processing, lifecycle.Responding} {
		out := a.Render(phase, Midnight)
		assert.Contains(t, out, "╔", "phase %s keeps the frame", phase)
		assert.Contains(t, out, avatarStatusIcons[phase])
		assert.Equal(t, 6, len(strings.Split(out, "\n")))
	}
}

func TestAvatarErrorGlitch(t *testing.T) {
	a := NewAvatar()
	out := a.Render(lifecycle.Error, Midnight)

	// The glitch frame replaces the face entirely.
	assert.NotContains(t, out, avatarStatusIcons[lifecycle.Idle])
	assert.Equal(t, 6, len(strings.Split(out, "\n")))
}

func TestAvatarTalkingMouthCycles(t *testing.T) {
	a := NewAvatar()
	a.BlinkRate = 0 // deterministic eyes

	seen := map[string]bool{}
	for i := 0; i < 8; i++ {
		_, mouth, _ := a.parts(lifecycle.Responding, Midnight)
		seen[mouth] = true
	}
	assert.GreaterOrEqual(t, len(seen), 2, "talking mouth animates")
}

func TestAvatarThinkingEyesScan(t *testing.T) {
	a := NewAvatar()

	seen := map[string]bool{}
	for i := 0; i < 12; i++ {
		eyes, _, _ := a.parts(lifecycle.Processing, Midnight)
		seen[eyes] = true
	}
	assert.GreaterOrEqual(t, len(seen), 3, "thinking eyes cycle through positions")
}
