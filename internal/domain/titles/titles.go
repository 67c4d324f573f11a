// Package titles handles individual award predictions: one player name per
// league and award.
package titles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/model"
)

// Sentinel kinds for award prediction errors.
var (
	ErrUnknownTitle = errors.New("unknown league or title")
	ErrNoPicks      = errors.New("no award picks entered")
)

// Sheet maps league -> title key -> player name. A sheet from NewSheet holds
// an entry for every league and title, blank until filled.
type Sheet map[catalog.League]map[string]string

// NewSheet returns a sheet with every league and award present and blank.
func NewSheet() Sheet {
	s := make(Sheet, len(catalog.Leagues()))
	for _, l := range catalog.Leagues() {
		row := make(map[string]string, catalog.Titles().Len())
		for _, key := range catalog.Titles().IDs() {
			row[key] = ""
		}
		s[l] = row
	}
	return s
}

// Set records a player for league/title.
func (s Sheet) Set(league catalog.League, title, player string) error {
	row, ok := s[league]
	if !ok || !catalog.Titles().Contains(title) {
		return fmt.Errorf("%w: %s/%s", ErrUnknownTitle, league, title)
	}
	row[title] = player
	return nil
}

// Get returns the player entered for league/title.
func (s Sheet) Get(league catalog.League, title string) string {
	return s[league][title]
}

// FromPicks builds a sheet from stored picks, ignoring rows for leagues or
// titles that are no longer offered.
func FromPicks(picks []model.TitlePick) Sheet {
	s := NewSheet()
	for _, p := range picks {
		_ = s.Set(p.League, p.Title, p.Player)
	}
	return s
}

// Picks converts the sheet into rows ready for upsert. Player names are
// trimmed and blank entries skipped; a sheet with nothing filled in returns
// ErrNoPicks.
func (s Sheet) Picks(owner string, season int) ([]model.TitlePick, error) {
	var out []model.TitlePick
	for _, l := range catalog.Leagues() {
		for _, title := range catalog.Titles().IDs() {
			player := strings.TrimSpace(s[l][title])
			if player == "" {
				continue
			}
			out = append(out, model.TitlePick{
				Owner:  owner,
				Season: season,
				League: l,
				Title:  title,
				Player: player,
			})
		}
	}
	if len(out) == 0 {
		return nil, ErrNoPicks
	}
	return out, nil
}
