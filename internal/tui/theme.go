// Package tui renders the interactive screen: header, transcript, avatar
// sidebar, and footer. It holds no shared state; the orchestrator hands it
// a snapshot each frame.
package tui

import "github.com/charmbracelet/lipgloss"

// Theme is a named set of styles for the whole screen.
type Theme struct {
	Name string

	Header     lipgloss.Style
	SubHeader  lipgloss.Style
	Border     lipgloss.Style
	BorderDim  lipgloss.Style
	Text       lipgloss.Style
	BrightText lipgloss.Style
	Dim        lipgloss.Style
	Faint      lipgloss.Style
	Ancient    lipgloss.Style

	UserLabel lipgloss.Style
	UserInput lipgloss.Style
	Cursor    lipgloss.Style
	Prompt    lipgloss.Style
	AILabel   lipgloss.Style

	AvatarFrame    lipgloss.Style
	AvatarEyes     lipgloss.Style
	AvatarThinking lipgloss.Style
	AvatarMouth    lipgloss.Style

	WaveformLow  lipgloss.Style
	WaveformMid  lipgloss.Style
	WaveformPeak lipgloss.Style
	Waveform     lipgloss.Style

	Status  lipgloss.Style
	Hint    lipgloss.Style
	Danger  lipgloss.Style
	Warning lipgloss.Style
}

// Midnight is the default neon-on-dark theme.
var Midnight = Theme{
	Name: "midnight",

	Header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00F3FF")),
	SubHeader:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF")),
	Border:     lipgloss.NewStyle().Foreground(lipgloss.Color("#3B4261")),
	BorderDim:  lipgloss.NewStyle().Foreground(lipgloss.Color("#24283B")),
	Text:       lipgloss.NewStyle().Foreground(lipgloss.Color("#C0CAF5")),
	BrightText: lipgloss.NewStyle().Foreground(lipgloss.Color("#E4E9FF")),
	Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("#565F89")),
	Faint:      lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")),
	Ancient:    lipgloss.NewStyle().Foreground(lipgloss.Color("#333333")),

	UserLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9ECE6A")),
	UserInput: lipgloss.NewStyle().Foreground(lipgloss.Color("#9ECE6A")),
	Cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00F3FF")),
	Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF00FF")),
	AILabel:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00F3FF")),

	AvatarFrame:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7")),
	AvatarEyes:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00F3FF")),
	AvatarThinking: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E0AF68")),
	AvatarMouth:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF")),

	WaveformLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("#3D59A1")),
	WaveformMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00F3FF")),
	WaveformPeak: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF")),
	Waveform:     lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7")),

	Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("#E0AF68")),
	Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("#565F89")),
	Danger:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7768E")),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#E0AF68")),
}

// Solarized is a light alternative.
var Solarized = Theme{
	Name: "solarized",

	Header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#268BD2")),
	SubHeader:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6C71C4")),
	Border:     lipgloss.NewStyle().Foreground(lipgloss.Color("#93A1A1")),
	BorderDim:  lipgloss.NewStyle().Foreground(lipgloss.Color("#EEE8D5")),
	Text:       lipgloss.NewStyle().Foreground(lipgloss.Color("#586E75")),
	BrightText: lipgloss.NewStyle().Foreground(lipgloss.Color("#073642")),
	Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("#93A1A1")),
	Faint:      lipgloss.NewStyle().Foreground(lipgloss.Color("#B5BDB5")),
	Ancient:    lipgloss.NewStyle().Foreground(lipgloss.Color("#C9CFC9")),

	UserLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#859900")),
	UserInput: lipgloss.NewStyle().Foreground(lipgloss.Color("#859900")),
	Cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#268BD2")),
	Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6C71C4")),
	AILabel:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#268BD2")),

	AvatarFrame:    lipgloss.NewStyle().Foreground(lipgloss.Color("#268BD2")),
	AvatarEyes:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2AA198")),
	AvatarThinking: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B58900")),
	AvatarMouth:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6C71C4")),

	WaveformLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("#93A1A1")),
	WaveformMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("#2AA198")),
	WaveformPeak: lipgloss.NewStyle().Foreground(lipgloss.Color("#D33682")),
	Waveform:     lipgloss.NewStyle().Foreground(lipgloss.Color("#268BD2")),

	Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("#B58900")),
	Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("#93A1A1")),
	Danger:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#DC322F")),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#CB4B16")),
}

var themes = map[string]Theme{
	"midnight":  Midnight,
	"solarized": Solarized,
}

// ThemeByName looks up a theme, falling back to Midnight.
func ThemeByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return Midnight
}

// ThemeNames returns the available theme names.
func ThemeNames() []string {
	return []string{"midnight", "solarized"}
}
