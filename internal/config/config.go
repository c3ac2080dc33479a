// Package config loads application configuration from flags, environment
// variables, and YAML files.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	App     AppConfig     `mapstructure:"app" yaml:"app"`
	Input   InputConfig   `mapstructure:"input" yaml:"input"`
	Reveal  RevealConfig  `mapstructure:"reveal" yaml:"reveal"`
	Brain   BrainConfig   `mapstructure:"brain" yaml:"brain"`
	Speech  SpeechConfig  `mapstructure:"speech" yaml:"speech"`
	Monitor MonitorConfig `mapstructure:"monitor" yaml:"monitor"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	// File receives log output while the interactive screen is up, so log
	// lines never corrupt the raw-mode display.
	File string `mapstructure:"file" yaml:"file"`
}

// AppConfig configures the interactive loop and presentation.
type AppConfig struct {
	FPS              int           `mapstructure:"fps" yaml:"fps"`
	Theme            string        `mapstructure:"theme" yaml:"theme"`
	BootSequence     bool          `mapstructure:"boot_sequence" yaml:"boot_sequence"`
	TranscriptLimit  int           `mapstructure:"transcript_limit" yaml:"transcript_limit"`
	MaxEventsPerTick int           `mapstructure:"max_events_per_tick" yaml:"max_events_per_tick"`
	ErrorRecovery    time.Duration `mapstructure:"error_recovery" yaml:"error_recovery"`
	GlitchChance     float64       `mapstructure:"glitch_chance" yaml:"glitch_chance"`
	ModelLabel       string        `mapstructure:"model_label" yaml:"model_label"`
	OutputLabel      string        `mapstructure:"output_label" yaml:"output_label"`
}

// InputConfig configures the input decoder and line buffer.
type InputConfig struct {
	MaxLength   int `mapstructure:"max_length" yaml:"max_length"`
	HistorySize int `mapstructure:"history_size" yaml:"history_size"`
}

// RevealConfig configures the typewriter pacing, in milliseconds.
type RevealConfig struct {
	CharMS          int `mapstructure:"char_ms" yaml:"char_ms"`
	PeriodMS        int `mapstructure:"period_ms" yaml:"period_ms"`
	CommaMS         int `mapstructure:"comma_ms" yaml:"comma_ms"`
	ColonMS         int `mapstructure:"colon_ms" yaml:"colon_ms"`
	NewlineMS       int `mapstructure:"newline_ms" yaml:"newline_ms"`
	SentenceSpaceMS int `mapstructure:"sentence_space_ms" yaml:"sentence_space_ms"`
}

// BrainConfig configures the language-model backend.
type BrainConfig struct {
	URL          string        `mapstructure:"url" yaml:"url"`
	Model        string        `mapstructure:"model" yaml:"model"`
	SystemPrompt string        `mapstructure:"system_prompt" yaml:"system_prompt"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Temperature  float64       `mapstructure:"temperature" yaml:"temperature"`
	NumPredict   int           `mapstructure:"num_predict" yaml:"num_predict"`
}

// SpeechConfig configures text-to-speech playback.
type SpeechConfig struct {
	// BridgeURL points at the local cast bridge. Empty means simulate
	// playback locally.
	BridgeURL string `mapstructure:"bridge_url" yaml:"bridge_url"`
	Language  string `mapstructure:"language" yaml:"language"`
	Device    string `mapstructure:"device" yaml:"device"`
}

// MonitorConfig configures the optional local HTTP status endpoint.
type MonitorConfig struct {
	Enabled     bool     `mapstructure:"enabled" yaml:"enabled"`
	Host        string   `mapstructure:"host" yaml:"host"`
	Port        int      `mapstructure:"port" yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}
