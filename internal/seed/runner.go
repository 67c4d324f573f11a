package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/pennant/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// ErrSubmitFailed reports that at least one fan could not be submitted.
var ErrSubmitFailed = errors.New("seed submissions failed")

// Run executes a complete seeding run and returns its statistics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Fans <= 0 {
		return nil, fmt.Errorf("fans must be positive, got %d", cfg.Fans)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting pennant seed run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("fans", cfg.Fans),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	fans := generateFans(ctx, cfg, stats)
	submitFans(ctx, cfg, client, fans, stats)
	if stats.SubmitFailed > 0 {
		return stats, fmt.Errorf("%w: %d of %d fans", ErrSubmitFailed, stats.SubmitFailed, len(fans))
	}

	if err := verifyStandings(ctx, client, fans, stats); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	if cfg.OutputFile != "" {
		if err := saveFans(ctx, cfg.OutputFile, fans); err != nil {
			logger.Get().Warn(ctx, "failed to save fans to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logStats(ctx, stats)
	return stats, nil
}

func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	status, err := client.do(ctx, http.MethodGet, "/healthz", "", nil, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	return nil
}

func saveFans(ctx context.Context, filename string, fans []Fan) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(fans, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal fans: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write fans: %w", err)
	}
	logger.Get().Info(ctx, "fans saved to file", logger.String("filename", filename))
	return nil
}

func logStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("fansGenerated", stats.FansGenerated),
		logger.Int("sessionsOpened", int(stats.SessionsOpened)),
		logger.Int("movesApplied", int(stats.MovesApplied)),
		logger.Int("movesRejected", int(stats.MovesRejected)),
		logger.Int("submitted", int(stats.Submitted)),
		logger.Int("titleSheets", int(stats.TitleSheetsSent)),
		logger.Int("verified", stats.Verified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("submissionsPerSecond", perSecond))
}
