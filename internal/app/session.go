package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pennant/internal/adapters/repository"
	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/model"
	"github.com/okian/pennant/internal/domain/standings"
	"github.com/okian/pennant/pkg/logger"
	"github.com/okian/pennant/pkg/metrics"
)

// session is one owner editing one league's standings. All fields are
// guarded by Service.mu.
type session struct {
	id      string
	owner   string
	league  catalog.League
	cat     *catalog.Catalog
	state   standings.State
	touched time.Time

	// pending is set while a load or submit is in flight; the state is
	// read-only until it clears.
	pending    bool
	loadFailed bool
	closed     bool

	submittedAt time.Time
}

// MoveResult reports the outcome of one Move.
type MoveResult struct {
	Session SessionView `json:"session"`
	Applied bool        `json:"applied"`
	// Reason explains a rejected move.
	Reason string `json:"reason,omitempty"`
}

// OpenSession starts an editing session for owner's league standings,
// seeded from the owner's stored prediction when there is one.
func (s *Service) OpenSession(ctx context.Context, owner string, league catalog.League) (SessionView, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return SessionView{}, ErrUnauthenticated
	}
	cat, err := catalog.ForLeague(league)
	if err != nil {
		return SessionView{}, err
	}

	sess := &session{
		id:      uuid.NewString(),
		owner:   owner,
		league:  league,
		cat:     cat,
		state:   standings.Empty(cat),
		pending: true,
	}

	s.mu.Lock()
	if len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		return SessionView{}, fmt.Errorf("%w: limit %d", ErrTooManySessions, s.maxSessions)
	}
	sess.touched = s.now()
	s.sessions[sess.id] = sess
	metrics.RecordSessionOpened()
	metrics.UpdateActiveSessions(len(s.sessions))
	s.mu.Unlock()

	key := model.Key{Owner: owner, Season: s.season, League: league}
	stored, fetchErr := s.store.FetchPrediction(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess.pending = false
	if sess.closed || s.sessions[sess.id] != sess {
		metrics.RecordLoad(metrics.ResultDiscarded)
		return SessionView{}, fmt.Errorf("%w: closed while loading", ErrSessionNotFound)
	}

	switch {
	case fetchErr == nil:
		sess.state = standings.Load(cat, stored.Rankings)
		sess.submittedAt = stored.WrittenAt
		metrics.RecordLoad(metrics.ResultFound)
	case errors.Is(fetchErr, repository.ErrNotFound):
		metrics.RecordLoad(metrics.ResultAbsent)
	default:
		sess.loadFailed = true
		metrics.RecordLoad(metrics.ResultFailed)
		s.logger.Error(ctx, "load prediction failed",
			logger.String("session", sess.id),
			logger.String("owner", owner),
			logger.String("league", string(league)),
			logger.Error(fetchErr),
		)
	}
	return sess.view(s.season), nil
}

// lookup returns owner's open session. Callers hold s.mu.
func (s *Service) lookup(id, owner string) (*session, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, ErrUnauthenticated
	}
	sess, ok := s.sessions[id]
	if !ok || sess.owner != owner {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Session returns a snapshot of an open session.
func (s *Service) Session(_ context.Context, id, owner string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id, owner)
	if err != nil {
		return SessionView{}, err
	}
	sess.touched = s.now()
	return sess.view(s.season), nil
}

// Move moves itemID to dst. A move the standings rules reject leaves the
// session unchanged and is reported with Applied false, not as an error.
func (s *Service) Move(ctx context.Context, id, owner, itemID string, dst standings.Destination) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id, owner)
	if err != nil {
		return MoveResult{}, err
	}
	if sess.pending {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrSessionBusy, id)
	}
	sess.touched = s.now()

	if verr := standings.Validate(sess.state, itemID, dst); verr != nil {
		metrics.RecordMove(metrics.ResultRejected)
		s.logger.Debug(ctx, "move rejected",
			logger.String("session", id),
			logger.String("item", itemID),
			logger.String("to", dst.String()),
			logger.Error(verr),
		)
		return MoveResult{Session: sess.view(s.season), Reason: verr.Error()}, nil
	}
	sess.state = standings.ApplyMove(sess.state, itemID, dst)
	metrics.RecordMove(metrics.ResultApplied)
	return MoveResult{Session: sess.view(s.season), Applied: true}, nil
}

// Submit persists a complete standings order. An incomplete order fails
// with standings.ErrIncompleteAssignment before the store is contacted; a
// failed save leaves the session exactly as it was.
func (s *Service) Submit(ctx context.Context, id, owner string) (SessionView, error) {
	s.mu.Lock()
	sess, err := s.lookup(id, owner)
	if err != nil {
		s.mu.Unlock()
		return SessionView{}, err
	}
	if sess.pending {
		s.mu.Unlock()
		return SessionView{}, fmt.Errorf("%w: %s", ErrSessionBusy, id)
	}
	sess.touched = s.now()
	rankings, err := standings.Serialize(sess.state)
	if err != nil {
		metrics.RecordSubmission(metrics.ResultIncomplete)
		view := sess.view(s.season)
		s.mu.Unlock()
		return view, err
	}
	sess.pending = true
	key := model.Key{Owner: sess.owner, Season: s.season, League: sess.league}
	s.mu.Unlock()

	saved, saveErr := s.store.SavePrediction(ctx, model.Prediction{Key: key, Rankings: rankings})

	s.mu.Lock()
	defer s.mu.Unlock()
	sess.pending = false
	if saveErr != nil {
		metrics.RecordSubmission(metrics.ResultFailed)
		s.logger.Error(ctx, "save prediction failed",
			logger.String("session", id),
			logger.String("owner", key.Owner),
			logger.String("league", string(key.League)),
			logger.Error(saveErr),
		)
		return sess.view(s.season), fmt.Errorf("submit %s: %w", id, saveErr)
	}
	sess.submittedAt = saved.WrittenAt
	metrics.RecordSubmission(metrics.ResultSaved)
	s.logger.Info(ctx, "prediction saved",
		logger.String("owner", key.Owner),
		logger.String("league", string(key.League)),
		logger.Int("season", key.Season),
	)
	return sess.view(s.season), nil
}

// CloseSession ends a session. A load or submit still in flight completes
// against the store but its result is discarded.
func (s *Service) CloseSession(ctx context.Context, id, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id, owner)
	if err != nil {
		return err
	}
	sess.closed = true
	delete(s.sessions, id)
	metrics.RecordSessionClosed()
	metrics.UpdateActiveSessions(len(s.sessions))
	s.logger.Debug(ctx, "session closed", logger.String("session", id))
	return nil
}
