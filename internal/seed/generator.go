package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/pkg/logger"
)

// Player pools the award picks are drawn from.
var players = map[catalog.League][]string{
	catalog.Central: {"Okamoto", "Murakami", "Sato", "Makihara", "Hosokawa", "Sakamoto", "Kondoh", "Togo"},
	catalog.Pacific: {"Kondo", "Yanagita", "Yamamoto", "Sasaki", "Taira", "Nakamura", "Mantaro", "Imai"},
}

// generateFans builds cfg.Fans fans with shuffled standings for every league
// and a partly filled award sheet.
func generateFans(ctx context.Context, cfg *Config, stats *Stats) []Fan {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // seeding data, not secrets
	logger.Get().Info(ctx, "generating fans", logger.Int("fans", cfg.Fans), logger.Any("seed", seed))

	fans := make([]Fan, cfg.Fans)
	for i := range fans {
		fans[i] = generateFan(rng, fmt.Sprintf("fan-%s", uuid.NewString()[:8]))
	}
	stats.FansGenerated = len(fans)
	return fans
}

func generateFan(rng *rand.Rand, owner string) Fan {
	fan := Fan{
		Owner:     owner,
		Standings: make(map[string][]string, len(catalog.Leagues())),
		Titles:    make(map[string]map[string]string, len(catalog.Leagues())),
	}
	for _, l := range catalog.Leagues() {
		cat, _ := catalog.ForLeague(l)
		ids := cat.IDs()
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		fan.Standings[string(l)] = ids

		row := map[string]string{}
		for _, title := range catalog.Titles().IDs() {
			// Leave roughly a third blank; blanks are skipped on save.
			if rng.Intn(3) == 0 {
				continue
			}
			pool := players[l]
			row[title] = pool[rng.Intn(len(pool))]
		}
		fan.Titles[string(l)] = row
	}
	return fan
}
