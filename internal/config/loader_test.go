package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromDir(t *testing.T, dir string) *Config {
	t.Helper()
	cfg, err := NewLoader().WithConfigFile(filepath.Join(dir, "config.yaml")).Load()
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	// Point at a nonexistent file path? An explicit file must exist, so use
	// the search-path loader from an empty working dir instead.
	tmp := t.TempDir()
	t.Chdir(tmp)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.App.FPS)
	assert.Equal(t, "midnight", cfg.App.Theme)
	assert.Equal(t, 50, cfg.App.TranscriptLimit)
	assert.Equal(t, 10, cfg.App.MaxEventsPerTick)
	assert.Equal(t, 5*time.Second, cfg.App.ErrorRecovery)
	assert.Equal(t, 10000, cfg.Input.MaxLength)
	assert.Equal(t, 100, cfg.Input.HistorySize)
	assert.Equal(t, 20, cfg.Reveal.CharMS)
	assert.Equal(t, 150, cfg.Reveal.NewlineMS)
	assert.Equal(t, "http://localhost:11434/api/chat", cfg.Brain.URL)
	assert.Equal(t, 30*time.Second, cfg.Brain.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Monitor.Enabled)
	assert.Equal(t, 8321, cfg.Monitor.Port)
}

func TestLoadFromFile(t *testing.T) {
	tmp := t.TempDir()
	content := `
app:
  fps: 30
  theme: solarized
brain:
  model: llama3
  timeout: 10s
speech:
  bridge_url: http://localhost:8765
  device: Kitchen
`
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte(content), 0o600))

	cfg := loadFromDir(t, tmp)
	assert.Equal(t, 30, cfg.App.FPS)
	assert.Equal(t, "solarized", cfg.App.Theme)
	assert.Equal(t, "llama3", cfg.Brain.Model)
	assert.Equal(t, 10*time.Second, cfg.Brain.Timeout)
	assert.Equal(t, "http://localhost:8765", cfg.Speech.BridgeURL)
	assert.Equal(t, "Kitchen", cfg.Speech.Device)

	// Untouched keys keep their defaults.
	assert.Equal(t, 512, cfg.Brain.NumPredict)
	assert.Equal(t, 10000, cfg.Input.MaxLength)
}

func TestLoadInvalidYAML(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte("app: [not a map"), 0o600))

	_, err := NewLoader().WithConfigFile(filepath.Join(tmp, "config.yaml")).Load()
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)
	t.Setenv("VOXCORE_APP_THEME", "solarized")
	t.Setenv("VOXCORE_BRAIN_MODEL", "phi3")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "solarized", cfg.App.Theme)
	assert.Equal(t, "phi3", cfg.Brain.Model)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	path := filepath.Join(tmp, ".voxcore", "config.yaml")
	require.NoError(t, WriteDefault(path, cfg))

	reloaded := loadFromDir(t, filepath.Dir(path))
	assert.Equal(t, cfg.App.FPS, reloaded.App.FPS)
	assert.Equal(t, cfg.Brain.URL, reloaded.Brain.URL)
	assert.Equal(t, cfg.Reveal.CharMS, reloaded.Reveal.CharMS)
}
