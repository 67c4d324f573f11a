// Command pennant serves and edits season standings predictions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/pennant/internal/config"
	"github.com/okian/pennant/pkg/logger"
)

var (
	configPath string
	logLevel   string

	// cfg is loaded once per invocation by rootCmd.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "pennant",
	Short:         "Pennant race predictions for the central and pacific leagues",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if configPath != "" {
			if err := os.Setenv("PENNANT_CONFIG", configPath); err != nil {
				return fmt.Errorf("set config path: %w", err)
			}
		}
		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		cfg = loaded
		if err := logger.InitWithFormat(cfg.LogFormat, os.Stdout); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		if err := logger.SetLevelString(cfg.LogLevel); err != nil {
			logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
				logger.String("log_level", cfg.LogLevel), logger.Error(err))
			_ = logger.SetLevelString("info")
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides PENNANT_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("pennant: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
