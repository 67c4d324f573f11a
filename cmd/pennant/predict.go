package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/pennant/internal/adapters/tui"
	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/pkg/logger"
)

var (
	predictOwner   string
	predictLeague  string
	predictLogFile string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Edit your standings prediction for one league in the terminal",
	Long: `Opens the standings board for one league against the configured store.

Keys: up/down or k/j move the cursor, space picks up the team under it,
1-6 drops it on that rank, 0 or p returns it to the pool, enter submits,
r reloads and q quits.`,
	Example: "  pennant predict --owner alice --league central",
	RunE:    runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictOwner, "owner", os.Getenv("USER"), "prediction owner")
	predictCmd.Flags().StringVar(&predictLeague, "league", string(catalog.Central), "central or pacific")
	predictCmd.Flags().StringVar(&predictLogFile, "log-file", "", "write logs here while the board is up")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if predictOwner == "" {
		return fmt.Errorf("--owner is required")
	}
	league, err := catalog.ParseLeague(predictLeague)
	if err != nil {
		return err
	}

	// Logs on stdout would tear the alt screen.
	var sink io.Writer = io.Discard
	if predictLogFile != "" {
		f, err := os.OpenFile(predictLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		sink = f
	}
	if err := logger.InitWithFormat(cfg.LogFormat, sink); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	return tui.Run(ctx, svc, predictOwner, league)
}
