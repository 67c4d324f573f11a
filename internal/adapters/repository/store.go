// Package repository persists standings and award predictions.
//
// Every driver implements Store with the same semantics: one standings
// record per (owner, season, league) and one award pick per
// (owner, season, league, title), both written with upsert semantics.
package repository

import (
	"context"

	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/model"
)

// Store provides read/write access to persisted predictions.
type Store interface {
	// FetchPrediction returns the record for key.
	// Returns ErrNotFound if none exists; other failures wrap ErrFetch.
	FetchPrediction(ctx context.Context, key model.Key) (model.Prediction, error)

	// SavePrediction inserts p or replaces the record sharing its key, and
	// returns the record as stored (WrittenAt set by the store).
	// Failures wrap ErrSave.
	SavePrediction(ctx context.Context, p model.Prediction) (model.Prediction, error)

	// ListPredictions returns every record for season/league, newest first.
	ListPredictions(ctx context.Context, season int, league catalog.League) ([]model.Prediction, error)

	// SaveTitlePicks upserts each pick by (owner, season, league, title).
	SaveTitlePicks(ctx context.Context, picks []model.TitlePick) error

	// ListTitlePicks returns the picks for season, oldest first. An empty
	// owner returns everyone's picks.
	ListTitlePicks(ctx context.Context, season int, owner string) ([]model.TitlePick, error)

	// Driver names the backing driver, e.g. "sqlite".
	Driver() string

	Close() error
}
