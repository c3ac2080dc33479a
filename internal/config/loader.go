package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "VOXCORE",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "VOXCORE",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (VOXCORE_*)
// 3. Project config (.voxcore/config.yaml in current directory)
// 4. User config (~/.config/voxcore/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".voxcore")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "voxcore"))
		}
	}

	// Missing config files are fine; everything has a default.
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Watch re-reads the config file whenever it changes on disk and hands the
// fresh Config to fn. Unparseable edits are dropped; the previous config
// stays active.
func (l *Loader) Watch(fn func(*Config)) {
	l.v.OnConfigChange(func(_ fsnotify.Event) {
		var cfg Config
		if err := l.v.Unmarshal(&cfg); err != nil {
			return
		}
		fn(&cfg)
	})
	l.v.WatchConfig()
}

// setDefaults configures default values.
func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")
	l.v.SetDefault("log.file", "voxcore.log")

	l.v.SetDefault("app.fps", 15)
	l.v.SetDefault("app.theme", "midnight")
	l.v.SetDefault("app.boot_sequence", true)
	l.v.SetDefault("app.transcript_limit", 50)
	l.v.SetDefault("app.max_events_per_tick", 10)
	l.v.SetDefault("app.error_recovery", "5s")
	l.v.SetDefault("app.glitch_chance", 0.005)
	l.v.SetDefault("app.model_label", "GPT-OSS")
	l.v.SetDefault("app.output_label", "Cast Bridge")

	l.v.SetDefault("input.max_length", 10000)
	l.v.SetDefault("input.history_size", 100)

	l.v.SetDefault("reveal.char_ms", 20)
	l.v.SetDefault("reveal.period_ms", 80)
	l.v.SetDefault("reveal.comma_ms", 40)
	l.v.SetDefault("reveal.colon_ms", 50)
	l.v.SetDefault("reveal.newline_ms", 150)
	l.v.SetDefault("reveal.sentence_space_ms", 30)

	l.v.SetDefault("brain.url", "http://localhost:11434/api/chat")
	l.v.SetDefault("brain.model", "gptoss-agent")
	l.v.SetDefault("brain.timeout", "30s")
	l.v.SetDefault("brain.temperature", 0.7)
	l.v.SetDefault("brain.num_predict", 512)

	l.v.SetDefault("speech.bridge_url", "")
	l.v.SetDefault("speech.language", "en")
	l.v.SetDefault("speech.device", "Office")

	l.v.SetDefault("monitor.enabled", false)
	l.v.SetDefault("monitor.host", "localhost")
	l.v.SetDefault("monitor.port", 8321)
	l.v.SetDefault("monitor.cors_origins", []string{"http://localhost:5173"})
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}
