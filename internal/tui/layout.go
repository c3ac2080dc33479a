package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/voxcore/voxcore/internal/lifecycle"
)

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

// Message is one finished transcript entry.
type Message struct {
	Role Role
	Text string
	At   time.Time
}

// Frame is the immutable snapshot the orchestrator hands the layout each
// tick. The layout reads it and returns a string; it never mutates state
// owned by the tick loop.
type Frame struct {
	Width  int
	Height int
	Tick   uint64

	Phase     lifecycle.Phase
	Status    string
	Hint      string
	LastError string

	Input      string
	Cursor     int
	Suggestion string

	Messages  []Message
	Reveal    string
	Revealing bool

	StatsLines  []string
	ModelLabel  string
	OutputLabel string
	Clock       time.Time
}

const (
	sidebarWidth  = 21
	minBodyHeight = 4
)

// Layout composes full-screen frames.
type Layout struct {
	theme    Theme
	avatar   *Avatar
	waveform *Waveform
}

// NewLayout creates a layout for the given theme.
func NewLayout(theme Theme) *Layout {
	return &Layout{
		theme:    theme,
		avatar:   NewAvatar(),
		waveform: NewWaveform(sidebarWidth - 2),
	}
}

// SetTheme swaps the active theme.
func (l *Layout) SetTheme(theme Theme) { l.theme = theme }

// Theme returns the active theme.
func (l *Layout) Theme() Theme { return l.theme }

// Render composes one frame.
func (l *Layout) Render(f Frame) string {
	if f.Width < 40 || f.Height < 10 {
		return l.theme.Dim.Render("terminal too small")
	}

	header := l.renderHeader(f)
	footer := l.renderFooter(f)
	input := l.renderInput(f)

	bodyHeight := f.Height - 3 // header, input, footer
	if bodyHeight < minBodyHeight {
		bodyHeight = minBodyHeight
	}

	transcriptWidth := f.Width - sidebarWidth - 1
	transcript := l.renderTranscript(f, transcriptWidth, bodyHeight)
	sidebar := l.renderSidebar(f, bodyHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top, transcript, " ", sidebar)

	return strings.Join([]string{header, body, input, footer}, "\n")
}

func (l *Layout) renderHeader(f Frame) string {
	left := l.theme.Header.Render("▞▚ VOXCORE") + " " +
		l.theme.SubHeader.Render("// "+f.ModelLabel)
	right := l.theme.Dim.Render(f.Clock.Format("15:04:05"))

	pad := f.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func (l *Layout) renderFooter(f Frame) string {
	status := l.theme.Status.Render(f.Status)
	if f.Phase == lifecycle.Error && f.LastError != "" {
		status = l.theme.Danger.Render(f.LastError)
	}
	hint := l.theme.Hint.Render(f.Hint)

	pad := f.Width - lipgloss.Width(status) - lipgloss.Width(hint)
	if pad < 1 {
		pad = 1
	}
	return status + strings.Repeat(" ", pad) + hint
}

// renderInput draws the prompt line with a block cursor at the edit
// position. The cursor blinks on a tick cycle so the raw screen still
// feels alive between keystrokes.
func (l *Layout) renderInput(f Frame) string {
	prompt := l.theme.Prompt.Render("❯ ")

	runes := []rune(f.Input)
	cursor := f.Cursor
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}

	blinkOn := f.Tick%16 < 10
	var b strings.Builder
	b.WriteString(l.theme.UserInput.Render(string(runes[:cursor])))
	if cursor < len(runes) {
		if blinkOn {
			b.WriteString(l.theme.Cursor.Reverse(true).Render(string(runes[cursor])))
		} else {
			b.WriteString(l.theme.UserInput.Render(string(runes[cursor])))
		}
		b.WriteString(l.theme.UserInput.Render(string(runes[cursor+1:])))
	} else if blinkOn {
		b.WriteString(l.theme.Cursor.Render("█"))
	}

	line := prompt + b.String()
	if f.Suggestion != "" {
		line += "  " + l.theme.Dim.Render("↹ "+f.Suggestion)
	}
	return truncateANSI(line, f.Width)
}

// renderTranscript lays out finished messages plus the in-flight reveal,
// newest at the bottom. Older messages fade in three steps.
func (l *Layout) renderTranscript(f Frame, width, height int) string {
	var lines []string

	msgWidth := width - 2
	if msgWidth < 10 {
		msgWidth = 10
	}

	total := len(f.Messages)
	for i, m := range f.Messages {
		age := total - i // 1 = newest
		lines = append(lines, l.renderMessage(m, age, msgWidth)...)
		lines = append(lines, "")
	}

	if f.Revealing {
		label := l.theme.AILabel.Render("▸ " + f.OutputLabel)
		lines = append(lines, label)
		for _, ln := range wrap(f.Reveal, msgWidth) {
			lines = append(lines, "  "+l.theme.BrightText.Render(ln))
		}
	}

	// Keep the newest lines visible.
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	for i, ln := range lines {
		lines[i] = padANSI(truncateANSI(ln, width), width)
	}
	return strings.Join(lines, "\n")
}

func (l *Layout) renderMessage(m Message, age, width int) []string {
	dim := l.ageStyle(age)

	var label string
	switch m.Role {
	case RoleUser:
		label = l.theme.UserLabel.Render("▸ YOU")
	case RoleAI:
		label = l.theme.AILabel.Render("▸ CORE")
	default:
		label = l.theme.Dim.Render("▸ SYS")
	}
	if age > 2 {
		label = dim.Render("▸ " + strings.ToUpper(string(m.Role)))
	}

	out := []string{label}
	for _, ln := range wrap(m.Text, width) {
		out = append(out, "  "+dim.Render(ln))
	}
	return out
}

// ageStyle fades messages as they scroll into history.
func (l *Layout) ageStyle(age int) lipgloss.Style {
	switch {
	case age <= 2:
		return l.theme.Text
	case age <= 4:
		return l.theme.Dim
	case age <= 8:
		return l.theme.Faint
	default:
		return l.theme.Ancient
	}
}

func (l *Layout) renderSidebar(f Frame, height int) string {
	var parts []string
	parts = append(parts, l.avatar.Render(f.Phase, l.theme))
	parts = append(parts, "")
	parts = append(parts, " "+l.waveform.Render(f.Phase, l.theme))
	parts = append(parts, "")
	parts = append(parts, l.theme.BorderDim.Render(strings.Repeat("╌", sidebarWidth-2)))

	for _, ln := range f.StatsLines {
		parts = append(parts, l.theme.Dim.Render(truncate(ln, sidebarWidth-1)))
	}

	lines := strings.Split(strings.Join(parts, "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, ln := range lines {
		lines[i] = padANSI(ln, sidebarWidth)
	}
	return strings.Join(lines, "\n")
}

// BootFrames returns the startup sequence drawn before the loop starts.
func BootFrames(theme Theme, version string) []string {
	steps := []string{
		"initializing neural interface",
		"loading language cores",
		"binding audio output",
		"calibrating waveform",
		"online",
	}
	banner := theme.Header.Render("VOXCORE " + version)

	var frames []string
	var b strings.Builder
	b.WriteString("\n  " + banner + "\n\n")
	for _, s := range steps {
		b.WriteString("  " + theme.Dim.Render("▪ ") + theme.Text.Render(s) + "\n")
		frames = append(frames, b.String())
	}
	return frames
}

// wrap splits text into lines at most width runes wide, breaking on
// spaces where possible.
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		runes := []rune(raw)
		for len(runes) > width {
			cut := width
			if runes[width] != ' ' {
				for i := width; i > width/2; i-- {
					if runes[i-1] == ' ' {
						cut = i
						break
					}
				}
			}
			out = append(out, strings.TrimRight(string(runes[:cut]), " "))
			runes = runes[cut:]
			for len(runes) > 0 && runes[0] == ' ' {
				runes = runes[1:]
			}
		}
		out = append(out, string(runes))
	}
	return out
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width < 1 {
		return ""
	}
	return string(runes[:width-1]) + "…"
}

// truncateANSI trims a styled line to width terminal cells.
func truncateANSI(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	style := lipgloss.NewStyle().MaxWidth(width)
	return style.Render(s)
}

// padANSI right-pads a styled line to width terminal cells.
func padANSI(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// FormatTurnDuration renders an elapsed time for the footer.
func FormatTurnDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
