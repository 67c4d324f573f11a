package main

import (
	"context"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/pennant/internal/seed"
)

const (
	defaultSeedFans    = 200
	defaultSeedWorkers = 2 // multiplier for runtime.NumCPU()
	defaultSeedTimeout = 30 * time.Second
	defaultSeedRunTime = 10 * time.Minute
)

var seedCfg seed.Config

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Drive a running server with generated fans and verify what it stored",
	RunE:  runSeed,
}

func init() {
	f := seedCmd.Flags()
	f.StringVar(&seedCfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	f.IntVar(&seedCfg.Fans, "fans", defaultSeedFans, "number of fans to generate")
	f.IntVar(&seedCfg.Workers, "workers", runtime.NumCPU()*defaultSeedWorkers, "number of concurrent workers")
	f.DurationVar(&seedCfg.Timeout, "timeout", defaultSeedTimeout, "HTTP request timeout")
	f.Int64Var(&seedCfg.Seed, "seed", 0, "shuffle seed; 0 picks one from the clock")
	f.StringVar(&seedCfg.OutputFile, "output", "", "write the generated fans to this JSON file")
	f.BoolVar(&seedCfg.Verbose, "verbose", false, "log every fan")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), defaultSeedRunTime)
	defer cancel()

	c := seedCfg
	_, err := seed.Run(ctx, &c)
	return err
}
