package seed

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/pkg/logger"
)

type standingsList struct {
	Entries []struct {
		Owner    string   `json:"owner"`
		Rankings []string `json:"rankings"`
	} `json:"entries"`
}

// verifyStandings checks that every fan's submitted order is listed
// publicly exactly as sent.
func verifyStandings(ctx context.Context, client *HTTPClient, fans []Fan, stats *Stats) error {
	for _, l := range catalog.Leagues() {
		var list standingsList
		status, err := client.do(ctx, http.MethodGet, "/predictions?league="+string(l), "", nil, &list)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("list %s: status %d", l, status)
		}
		listed := make(map[string][]string, len(list.Entries))
		for _, e := range list.Entries {
			listed[e.Owner] = e.Rankings
		}
		for _, fan := range fans {
			got, ok := listed[fan.Owner]
			if !ok {
				return fmt.Errorf("%s: %s missing from public list", l, fan.Owner)
			}
			if want := fan.Standings[string(l)]; !slices.Equal(got, want) {
				return fmt.Errorf("%s: %s listed %v, submitted %v", l, fan.Owner, got, want)
			}
			stats.Verified++
		}
	}
	logger.Get().Info(ctx, "standings verified", logger.Int("checked", stats.Verified))
	return nil
}
