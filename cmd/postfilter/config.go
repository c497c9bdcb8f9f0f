package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/postfilter/internal/config"
	"github.com/nao1215/postfilter/internal/log"
	"github.com/spf13/cobra"
)

// loadConfig builds a Config from defaults and the configuration file.
// Command flags are applied by the caller afterwards.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = persistentString(cmd, "config")
	if err != nil {
		return nil, err
	}
	cfg.Verbose = persistentBool(cmd, "verbose")
	cfg.JSONLog = persistentBool(cmd, "json-log")

	// An explicit path must exist; the implicit search may find nothing.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// persistentString reads a persistent flag from the command or its root.
func persistentString(cmd *cobra.Command, name string) (string, error) {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Value.String(), nil
	}
	if f := cmd.Root().PersistentFlags().Lookup(name); f != nil {
		return f.Value.String(), nil
	}
	return "", nil
}

// persistentBool reads a persistent bool flag from the command or its root.
func persistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// setupLogger creates the secure structured logger and installs it as the
// default logger.
func setupLogger(cfg *config.Config) *slog.Logger {
	logger := log.NewLogger(os.Stderr, cfg.Verbose, cfg.JSONLog)
	slog.SetDefault(logger)
	return logger
}

// overrideString copies a flag value into dst when the flag was set.
func overrideString(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// configError wraps validation failures for display.
func configError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("configuration error: %w", err)
}
