package tui

import (
	"math/rand"
	"strings"

	"github.com/voxcore/voxcore/internal/lifecycle"
)

// Avatar is the boxed ASCII face in the sidebar. Expressions follow the
// lifecycle phase: calm with occasional blinks when idle, scanning eyes and
// a progress mouth while processing, an animated mouth while responding.
type Avatar struct {
	// BlinkRate is the per-frame blink probability when idle.
	BlinkRate float64

	thinkingFrame int
	talkingFrame  int
	rand          *rand.Rand
}

var avatarEyes = map[string]string{
	"open":       "◉   ◉",
	"blink":      "─   ─",
	"wide":       "⊙   ⊙",
	"squint":     "◡   ◡",
	"look_left":  "◉  ◉ ",
	"look_right": " ◉  ◉",
	"look_up":    "◠   ◠",
}

var avatarMouths = map[string]string{
	"closed": "═════",
	"talk_1": "╭───╮",
	"talk_2": "╰─○─╯",
	"talk_3": "╭─●─╮",
}

var avatarStatusIcons = map[lifecycle.Phase]string{
	lifecycle.Idle:       "◇",
	lifecycle.Processing: "◈",
	lifecycle.Responding: "◆",
	lifecycle.Error:      "✗",
}

// NewAvatar creates an avatar with the default blink rate.
func NewAvatar() *Avatar {
	return &Avatar{BlinkRate: 0.03, rand: rand.New(rand.NewSource(1))}
}

// Render returns the styled avatar frame for the given phase and advances
// the internal animation counters.
func (a *Avatar) Render(phase lifecycle.Phase, theme Theme) string {
	if phase == lifecycle.Error {
		return a.renderGlitch(theme)
	}

	eyes, mouth, eyeStyle := a.parts(phase, theme)
	status := avatarStatusIcons[phase]

	frame := theme.AvatarFrame
	var b strings.Builder
	b.WriteString(frame.Render("  ╔═══════════╗  ") + "\n")
	b.WriteString(frame.Render("  ║     "+status+"     ║  ") + "\n")
	b.WriteString(frame.Render("  ║   ") + eyeStyle.Render(eyes) + frame.Render("   ║  ") + "\n")
	b.WriteString(frame.Render("  ║ ───────── ║  ") + "\n")
	b.WriteString(frame.Render("  ║   ") + theme.AvatarMouth.Render(mouth) + frame.Render("   ║  ") + "\n")
	b.WriteString(frame.Render("  ╚═══════════╝  "))
	return b.String()
}

func (a *Avatar) parts(phase lifecycle.Phase, theme Theme) (eyes, mouth string, eyeStyle interface{ Render(...string) string }) {
	eyeStyle = theme.AvatarEyes

	switch phase {
	case lifecycle.Processing:
		a.thinkingFrame = (a.thinkingFrame + 1) % 12
		eyeStyle = theme.AvatarThinking
		switch {
		case a.thinkingFrame < 3:
			eyes = avatarEyes["look_left"]
		case a.thinkingFrame < 6:
			eyes = avatarEyes["look_up"]
		case a.thinkingFrame < 9:
			eyes = avatarEyes["look_right"]
		default:
			eyes = avatarEyes["squint"]
		}
		dots := a.thinkingFrame % 4
		mouth = strings.Repeat("▪", dots) + strings.Repeat("─", 5-dots)

	case lifecycle.Responding:
		a.talkingFrame = (a.talkingFrame + 1) % 8
		switch {
		case a.rand.Float64() < a.BlinkRate/2:
			eyes = avatarEyes["blink"]
		case a.talkingFrame%4 == 0:
			eyes = avatarEyes["wide"]
		default:
			eyes = avatarEyes["open"]
		}
		seq := []string{"talk_1", "talk_2", "talk_3", "talk_2"}
		mouth = avatarMouths[seq[a.talkingFrame%4]]

	default:
		if a.rand.Float64() < a.BlinkRate {
			eyes = avatarEyes["blink"]
		} else {
			eyes = avatarEyes["open"]
		}
		mouth = avatarMouths["closed"]
	}

	return eyes, mouth, eyeStyle
}

const glitchChars = "█▓▒░╔╗║╚╝═"

func (a *Avatar) renderGlitch(theme Theme) string {
	runes := []rune(glitchChars)
	var lines []string
	for i := 0; i < 6; i++ {
		var line strings.Builder
		for j := 0; j < 17; j++ {
			line.WriteRune(runes[a.rand.Intn(len(runes))])
		}
		lines = append(lines, theme.Danger.Render(line.String()))
	}
	return strings.Join(lines, "\n")
}
