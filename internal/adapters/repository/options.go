package repository

import "time"

// Option applies a configuration option to a store.
type Option func(*settings)

type settings struct {
	now func() time.Time
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithClock overrides the clock used to stamp WrittenAt.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
