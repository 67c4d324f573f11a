package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/pennant/internal/adapters/archive"
	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/model"
	"github.com/okian/pennant/internal/domain/titles"
	"github.com/okian/pennant/pkg/logger"
	"github.com/okian/pennant/pkg/metrics"
)

// StandingsEntry is one fan's submitted order with display labels.
type StandingsEntry struct {
	Owner     string    `json:"owner"`
	Rankings  []string  `json:"rankings"`
	Labels    []string  `json:"labels"`
	WrittenAt time.Time `json:"written_at"`
}

// Standings lists everyone's predictions for league this season, newest
// first. Ids no longer in the catalog are shown as-is.
func (s *Service) Standings(ctx context.Context, league catalog.League) ([]StandingsEntry, error) {
	cat, err := catalog.ForLeague(league)
	if err != nil {
		return nil, err
	}
	preds, err := s.store.ListPredictions(ctx, s.season, league)
	if err != nil {
		return nil, fmt.Errorf("list %s standings: %w", league, err)
	}
	out := make([]StandingsEntry, 0, len(preds))
	for _, p := range preds {
		labels := make([]string, len(p.Rankings))
		for i, id := range p.Rankings {
			labels[i] = cat.Label(id)
		}
		out = append(out, StandingsEntry{
			Owner:     p.Owner,
			Rankings:  p.Rankings,
			Labels:    labels,
			WrittenAt: p.WrittenAt,
		})
	}
	return out, nil
}

// TitleSheet returns owner's award picks for this season as a full sheet.
func (s *Service) TitleSheet(ctx context.Context, owner string) (titles.Sheet, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	picks, err := s.store.ListTitlePicks(ctx, s.season, owner)
	if err != nil {
		return nil, fmt.Errorf("load title picks: %w", err)
	}
	return titles.FromPicks(picks), nil
}

// SaveTitleSheet upserts every filled entry of sheet for owner.
func (s *Service) SaveTitleSheet(ctx context.Context, owner string, sheet titles.Sheet) error {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return ErrUnauthenticated
	}
	picks, err := sheet.Picks(owner, s.season)
	if err != nil {
		metrics.RecordTitleSave(metrics.ResultIncomplete)
		return err
	}
	if err := s.store.SaveTitlePicks(ctx, picks); err != nil {
		metrics.RecordTitleSave(metrics.ResultFailed)
		s.logger.Error(ctx, "save title picks failed", logger.String("owner", owner), logger.Error(err))
		return fmt.Errorf("save title picks: %w", err)
	}
	metrics.RecordTitleSave(metrics.ResultSaved)
	s.logger.Info(ctx, "title picks saved", logger.String("owner", owner), logger.Int("count", len(picks)))
	return nil
}

// TitleBoards returns every fan's award picks, grouped per fan.
func (s *Service) TitleBoards(ctx context.Context) ([]titles.Board, error) {
	picks, err := s.store.ListTitlePicks(ctx, s.season, "")
	if err != nil {
		return nil, fmt.Errorf("list title picks: %w", err)
	}
	return titles.Group(picks), nil
}

// Archive exports this season's standings and award picks.
func (s *Service) Archive(ctx context.Context) ([]string, error) {
	if s.archiver == nil {
		return nil, ErrArchiveDisabled
	}
	snap := archive.Snapshot{
		Season:    s.season,
		Standings: make(map[catalog.League][]model.Prediction, len(catalog.Leagues())),
	}
	for _, league := range catalog.Leagues() {
		preds, err := s.store.ListPredictions(ctx, s.season, league)
		if err != nil {
			return nil, fmt.Errorf("archive %s standings: %w", league, err)
		}
		snap.Standings[league] = preds
	}
	boards, err := s.TitleBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	snap.Titles = boards

	keys, err := s.archiver.Export(ctx, snap)
	if err != nil {
		s.logger.Error(ctx, "archive export failed", logger.Int("season", s.season), logger.Error(err))
		return keys, fmt.Errorf("archive: %w", err)
	}
	s.logger.Info(ctx, "season archived", logger.Int("season", s.season), logger.Int("objects", len(keys)))
	return keys, nil
}
