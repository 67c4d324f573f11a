package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/pennant/pkg/logger"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Export the season's standings and award picks to the archive bucket",
	RunE:  runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	keys, err := svc.Archive(ctx)
	if err != nil {
		return fmt.Errorf("archive season %d: %w", svc.Season(), err)
	}
	for _, k := range keys {
		logger.Get().Info(ctx, "archived", logger.String("key", k))
		fmt.Fprintln(cmd.OutOrStdout(), k)
	}
	return nil
}
