// Package command contains the CLI command constructors.
package command

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hongminglow/all-in-auth/internal/config"
	"github.com/hongminglow/all-in-auth/internal/observability"
)

type configKey struct{}

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	envFile := ".env"
	cmd := &cobra.Command{
		Use:          "all-in-auth [command] [flags]",
		Short:        "Credentials sign-in and session service",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envLoaded := loadLocalEnv(envFile)
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := observability.InitSlog(cfg.LogLevel, !cfg.Production())
			slog.SetDefault(logger)
			if !envLoaded {
				logger.DebugContext(cmd.Context(), "no env file found; relying on existing environment", slog.String("path", envFile))
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", envFile, "path to a dotenv file to load before reading the environment")

	cmd.AddCommand(
		serveCommand(),
		userCommand(),
	)
	return cmd
}

// loadLocalEnv loads path into the environment without overriding variables
// that are already set.
func loadLocalEnv(path string) bool {
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to parse env file", slog.String("path", path), slog.Any("error", err))
		}
		return false
	}
	return true
}

func configFrom(ctx context.Context) (config.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(config.Config)
	if !ok {
		return config.Config{}, errors.New("config resolution failed")
	}
	return cfg, nil
}
