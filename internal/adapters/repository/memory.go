package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/model"
)

type titleKey struct {
	model.Key
	Title string
}

// MemoryStore keeps predictions in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	settings    settings
	predictions map[model.Key]model.Prediction
	picks       map[titleKey]model.TitlePick
	closed      bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		settings:    newSettings(opts),
		predictions: make(map[model.Key]model.Prediction),
		picks:       make(map[titleKey]model.TitlePick),
	}
}

// Driver implements Store.
func (s *MemoryStore) Driver() string { return "memory" }

// FetchPrediction implements Store.
func (s *MemoryStore) FetchPrediction(_ context.Context, key model.Key) (p model.Prediction, err error) {
	defer observe(s.Driver(), "fetch_prediction", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Prediction{}, fmt.Errorf("%w: %w", ErrFetch, ErrClosed)
	}
	p, ok := s.predictions[key]
	if !ok {
		return model.Prediction{}, ErrNotFound
	}
	return clonePrediction(p), nil
}

// SavePrediction implements Store.
func (s *MemoryStore) SavePrediction(_ context.Context, p model.Prediction) (out model.Prediction, err error) {
	defer observe(s.Driver(), "save_prediction", time.Now(), &err)
	if err := p.Key.Validate(); err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %w", ErrSave, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Prediction{}, fmt.Errorf("%w: %w", ErrSave, ErrClosed)
	}
	p = clonePrediction(p)
	p.WrittenAt = s.settings.now().UTC()
	s.predictions[p.Key] = p
	return clonePrediction(p), nil
}

// ListPredictions implements Store.
func (s *MemoryStore) ListPredictions(_ context.Context, season int, league catalog.League) (out []model.Prediction, err error) {
	defer observe(s.Driver(), "list_predictions", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("%w: %w", ErrFetch, ErrClosed)
	}
	for k, p := range s.predictions {
		if k.Season == season && k.League == league {
			out = append(out, clonePrediction(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WrittenAt.Equal(out[j].WrittenAt) {
			return out[i].WrittenAt.After(out[j].WrittenAt)
		}
		return out[i].Owner < out[j].Owner
	})
	return out, nil
}

// SaveTitlePicks implements Store.
func (s *MemoryStore) SaveTitlePicks(_ context.Context, picks []model.TitlePick) (err error) {
	defer observe(s.Driver(), "save_title_picks", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: %w", ErrSave, ErrClosed)
	}
	now := s.settings.now().UTC()
	for _, p := range picks {
		p.WrittenAt = now
		k := titleKey{Key: model.Key{Owner: p.Owner, Season: p.Season, League: p.League}, Title: p.Title}
		s.picks[k] = p
	}
	return nil
}

// ListTitlePicks implements Store.
func (s *MemoryStore) ListTitlePicks(_ context.Context, season int, owner string) (out []model.TitlePick, err error) {
	defer observe(s.Driver(), "list_title_picks", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("%w: %w", ErrFetch, ErrClosed)
	}
	for k, p := range s.picks {
		if k.Season == season && (owner == "" || k.Owner == owner) {
			out = append(out, p)
		}
	}
	sortTitlePicks(out)
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func clonePrediction(p model.Prediction) model.Prediction {
	p.Rankings = append([]string(nil), p.Rankings...)
	return p
}

// sortTitlePicks orders picks the way the SQL drivers return them.
func sortTitlePicks(picks []model.TitlePick) {
	sort.Slice(picks, func(i, j int) bool {
		a, b := picks[i], picks[j]
		if !a.WrittenAt.Equal(b.WrittenAt) {
			return a.WrittenAt.Before(b.WrittenAt)
		}
		if a.Owner != b.Owner {
			return a.Owner < b.Owner
		}
		if a.League != b.League {
			return a.League < b.League
		}
		return a.Title < b.Title
	})
}
