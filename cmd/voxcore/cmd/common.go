package cmd

import (
	"time"

	"github.com/spf13/viper"

	"github.com/voxcore/voxcore/internal/brain"
	"github.com/voxcore/voxcore/internal/config"
	"github.com/voxcore/voxcore/internal/logging"
	"github.com/voxcore/voxcore/internal/speech"
)

// loadConfig builds the loader honoring the --config flag and loads. The
// global viper instance carries the persistent flag bindings.
func loadConfig() (*config.Config, *config.Loader, error) {
	loader := config.NewLoaderWithViper(viper.GetViper())
	if cfgFile != "" {
		loader = loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, loader, nil
}

// buildLogger creates a stderr logger for one-shot commands.
func buildLogger(cfg *config.Config) *logging.Logger {
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// buildFileLogger creates the file-backed logger the interactive screen
// requires.
func buildFileLogger(cfg *config.Config) (*logging.Logger, error) {
	path := cfg.Log.File
	if path == "" {
		path = "voxcore.log"
	}
	return logging.NewFile(path, logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

func brainClient(cfg *config.Config) *brain.Client {
	return brain.New(brain.Config{
		URL:          cfg.Brain.URL,
		Model:        cfg.Brain.Model,
		SystemPrompt: cfg.Brain.SystemPrompt,
		Timeout:      cfg.Brain.Timeout,
		Temperature:  cfg.Brain.Temperature,
		NumPredict:   cfg.Brain.NumPredict,
	})
}

// speaker picks the audio backend: the cast bridge when configured,
// otherwise local simulation so the reveal pacing still works.
func speaker(cfg *config.Config) speech.Speaker {
	if cfg.Speech.BridgeURL == "" {
		return speech.NewSimulated()
	}
	return speech.NewBridge(speech.BridgeConfig{
		URL:         cfg.Speech.BridgeURL,
		Language:    cfg.Speech.Language,
		Device:      cfg.Speech.Device,
		StopTimeout: 2 * time.Second,
	})
}
