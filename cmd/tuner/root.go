package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tuner/internal/config"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tuner",
	Short: "Guitar tuner",
	Long: `Estimates the pitch of audio blocks by autocorrelation, matches it to the
nearest string of a tuning and reports the deviation in cents.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// setup loads configuration in increasing precedence: defaults, file,
// TUNER_* environment, flags.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	} else {
		defaults := config.Defaults()
		cfg = &defaults
	}

	if err := config.ApplyEnv(cfg, os.LookupEnv); err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = config.LogLevel(strings.ToLower(logLevel))
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log = newLogger(cfg.LogLevel)
	slog.SetDefault(log)
	log.Debug("configuration loaded", "config", configPath, "command", cmd.Name())

	return nil
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
