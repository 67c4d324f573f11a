// Package service owns prediction editor sessions and the read/write paths
// between them and the prediction store.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/pennant/internal/adapters/archive"
	"github.com/okian/pennant/internal/adapters/repository"
	"github.com/okian/pennant/pkg/logger"
	"github.com/okian/pennant/pkg/metrics"
)

// Archiver exports a season snapshot and returns the object keys written.
type Archiver interface {
	Export(ctx context.Context, snap archive.Snapshot) ([]string, error)
}

// Service implements the API dependencies for the prediction system.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	archiver Archiver

	season      int
	maxSessions int
	sessionTTL  time.Duration
	now         func() time.Time

	sessions map[string]*session

	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeason sets the season predictions are made for.
func WithSeason(season int) Option {
	return func(s *Service) {
		if season > 0 {
			s.season = season
		}
	}
}

// WithMaxSessions caps the number of concurrently open sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithSessionTTL sets how long an untouched session survives.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithArchiver enables Archive.
func WithArchiver(a Archiver) Option {
	return func(s *Service) {
		s.archiver = a
	}
}

// WithClock overrides the clock used for session idle tracking.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service over store. A nil store gets an in-memory one.
func New(store repository.Store, opts ...Option) *Service {
	if store == nil {
		store = repository.NewMemoryStore()
	}
	s := &Service{
		store:       store,
		season:      2026,
		maxSessions: 10_000,
		sessionTTL:  30 * time.Minute,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}

// Season returns the season this service serves.
func (s *Service) Season() int { return s.season }

// Start launches the idle-session reaper.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.reapLoop(s.stopCh, s.doneCh)

	s.started = true
	s.logger.Info(ctx, "prediction service started",
		logger.Int("season", s.season),
		logger.String("store", s.store.Driver()),
		logger.Int("maxSessions", s.maxSessions),
		logger.Duration("sessionTTL", s.sessionTTL),
		logger.Bool("archive", s.archiver != nil),
	)
	return nil
}

// Stop halts the reaper, drops every session and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.logger.Info(context.Background(), "stopping prediction service...")
	close(s.stopCh)
	done := s.doneCh
	s.started = false
	s.mu.Unlock()

	<-done

	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.closed = true
		delete(s.sessions, id)
	}
	metrics.UpdateActiveSessions(0)
	s.mu.Unlock()

	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "store close failed", logger.Error(err))
	}
	s.logger.Info(context.Background(), "prediction service stopped")
}

func (s *Service) reapLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	interval := s.sessionTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.ReapIdle(context.Background())
		}
	}
}

// ReapIdle closes sessions untouched for longer than the session TTL.
// Sessions with a pending load or submit are kept. It returns the number
// of sessions closed.
func (s *Service) ReapIdle(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.sessionTTL)
	reaped := 0
	for id, sess := range s.sessions {
		if sess.pending || sess.touched.After(cutoff) {
			continue
		}
		sess.closed = true
		delete(s.sessions, id)
		metrics.RecordSessionExpired()
		reaped++
	}
	if reaped > 0 {
		metrics.UpdateActiveSessions(len(s.sessions))
		s.logger.Debug(ctx, "reaped idle sessions", logger.Int("count", reaped))
	}
	return reaped
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":      s.started,
		"season":       s.season,
		"openSessions": len(s.sessions),
		"maxSessions":  s.maxSessions,
		"store":        s.store.Driver(),
		"archive":      s.archiver != nil,
	}
}
