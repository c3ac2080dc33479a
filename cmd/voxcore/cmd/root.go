package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voxcore/voxcore/internal/app"
	"github.com/voxcore/voxcore/internal/config"
	"github.com/voxcore/voxcore/internal/tui"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	noColor   bool

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string
)

var rootCmd = &cobra.Command{
	Use:   "voxcore",
	Short: "Voice-enabled terminal assistant",
	Long: `voxcore is a full-screen terminal assistant: type a question, watch the
reply stream in character by character while it is spoken aloud through a
local cast bridge or your speakers.

Running 'voxcore' without arguments starts the interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

func Execute() error {
	return rootCmd.Execute()
}

func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: .voxcore/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored output")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
}

func runInteractive(_ *cobra.Command, _ []string) error {
	cfg, loader, err := loadConfig()
	if err != nil {
		return err
	}

	if !tui.IsTerminal(os.Stdout) {
		return errors.New("interactive mode needs a terminal; try 'voxcore ask' for one-shot use")
	}

	// Logs go to a file while the screen is up so they never tear the
	// raw-mode display.
	logger, err := buildFileLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	screen, err := tui.OpenScreen(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer screen.Restore(os.Stdin)

	orch := app.New(cfg, logger, screen, brainClient(cfg), speaker(cfg))
	loader.Watch(func(c *config.Config) {
		orch.RequestTheme(c.App.Theme)
	})

	// Raw mode turns Ctrl-C into an input byte, so only SIGTERM arrives
	// as a signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	return orch.Run(ctx)
}
