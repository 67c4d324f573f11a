package seed

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/okian/pennant/internal/adapters/http/api"
	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/pkg/logger"
)

type counters struct {
	sessions, applied, rejected, submitted, failed, sheets atomic.Int64
}

// submitFans runs every fan through the API on cfg.Workers workers.
func submitFans(ctx context.Context, cfg *Config, client *HTTPClient, fans []Fan, stats *Stats) {
	logger.Get().Info(ctx, "submitting fans", logger.Int("fans", len(fans)), logger.Int("workers", cfg.Workers))

	var c counters
	work := make(chan Fan, cfg.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fan := range work {
				if ctx.Err() != nil {
					return
				}
				if err := submitFan(ctx, client, fan, &c); err != nil {
					c.failed.Add(1)
					if cfg.Verbose {
						logger.Get().Warn(ctx, "fan failed", logger.String("owner", fan.Owner), logger.Error(err))
					}
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, fan := range fans {
			select {
			case <-ctx.Done():
				return
			case work <- fan:
			}
		}
	}()
	wg.Wait()

	stats.SessionsOpened = c.sessions.Load()
	stats.MovesApplied = c.applied.Load()
	stats.MovesRejected = c.rejected.Load()
	stats.Submitted = c.submitted.Load()
	stats.SubmitFailed = c.failed.Load()
	stats.TitleSheetsSent = c.sheets.Load()
}

func submitFan(ctx context.Context, client *HTTPClient, fan Fan, c *counters) error {
	for _, l := range catalog.Leagues() {
		if err := submitStandings(ctx, client, fan.Owner, l, fan.Standings[string(l)], c); err != nil {
			return err
		}
	}
	status, err := client.do(ctx, http.MethodPut, "/titles/me", fan.Owner, fan.Titles, nil)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		c.sheets.Add(1)
	case http.StatusBadRequest:
		// Every entry happened to be blank.
	default:
		return fmt.Errorf("save titles: status %d", status)
	}
	return nil
}

func submitStandings(ctx context.Context, client *HTTPClient, owner string, league catalog.League, order []string, c *counters) error {
	var view api.SessionView
	status, err := client.do(ctx, http.MethodPost, "/sessions", owner, map[string]string{"league": string(league)}, &view)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("open %s session: status %d", league, status)
	}
	c.sessions.Add(1)
	defer func() {
		_, _ = client.do(context.WithoutCancel(ctx), http.MethodDelete, "/sessions/"+view.ID, owner, nil, nil)
	}()

	movePath := "/sessions/" + view.ID + "/moves"
	for i, id := range order {
		var res api.MoveResult
		status, err := client.do(ctx, http.MethodPost, movePath, owner, map[string]any{"item_id": id, "rank": i + 1}, &res)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("move %s: status %d", id, status)
		}
		if !res.Applied {
			return fmt.Errorf("move %s to %d refused: %s", id, i+1, res.Reason)
		}
		c.applied.Add(1)
	}

	// Dropping onto a filled rank must be refused.
	if len(order) > 1 {
		var res api.MoveResult
		if _, err := client.do(ctx, http.MethodPost, movePath, owner, map[string]any{"item_id": order[1], "rank": 1}, &res); err != nil {
			return err
		}
		if res.Applied {
			return fmt.Errorf("move onto occupied rank 1 was applied")
		}
		c.rejected.Add(1)
	}

	status, err = client.do(ctx, http.MethodPost, "/sessions/"+view.ID+"/submit", owner, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("submit %s: status %d", league, status)
	}
	c.submitted.Add(1)
	return nil
}
