package catalog

import (
	"fmt"
	"strings"
)

// League identifies a prediction category within a season.
type League string

// Known leagues.
const (
	Central League = "central"
	Pacific League = "pacific"
)

// Leagues lists the known leagues in display order.
func Leagues() []League { return []League{Central, Pacific} }

// ParseLeague normalizes and validates a league name.
func ParseLeague(s string) (League, error) {
	l := League(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case Central, Pacific:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLeague, s)
}

// DisplayName returns the human-readable league name.
func (l League) DisplayName() string {
	switch l {
	case Central:
		return "Central League"
	case Pacific:
		return "Pacific League"
	}
	return string(l)
}

var (
	centralTeams = MustNew(
		Item{ID: "giants", Label: "Yomiuri Giants"},
		Item{ID: "tigers", Label: "Hanshin Tigers"},
		Item{ID: "carp", Label: "Hiroshima Toyo Carp"},
		Item{ID: "baystars", Label: "Yokohama DeNA BayStars"},
		Item{ID: "swallows", Label: "Tokyo Yakult Swallows"},
		Item{ID: "dragons", Label: "Chunichi Dragons"},
	)
	pacificTeams = MustNew(
		Item{ID: "hawks", Label: "Fukuoka SoftBank Hawks"},
		Item{ID: "fighters", Label: "Hokkaido Nippon-Ham Fighters"},
		Item{ID: "marines", Label: "Chiba Lotte Marines"},
		Item{ID: "eagles", Label: "Tohoku Rakuten Golden Eagles"},
		Item{ID: "lions", Label: "Saitama Seibu Lions"},
		Item{ID: "buffaloes", Label: "Orix Buffaloes"},
	)
)

// ForLeague returns the team catalog for a league.
func ForLeague(l League) (*Catalog, error) {
	switch l {
	case Central:
		return centralTeams, nil
	case Pacific:
		return pacificTeams, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLeague, string(l))
}

var titles = MustNew(
	Item{ID: "mvp", Label: "MVP"},
	Item{ID: "rookie", Label: "Rookie of the Year"},
	Item{ID: "batting_champion", Label: "Batting Champion"},
	Item{ID: "home_run_king", Label: "Home Run Leader"},
	Item{ID: "rbi_king", Label: "RBI Leader"},
	Item{ID: "stolen_base_king", Label: "Stolen Base Leader"},
	Item{ID: "era_champion", Label: "ERA Champion"},
	Item{ID: "wins_leader", Label: "Wins Leader"},
	Item{ID: "saves_leader", Label: "Saves Leader"},
)

// Titles returns the individual award catalog shared by both leagues.
func Titles() *Catalog { return titles }
