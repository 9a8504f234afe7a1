package services

import "time"

const defaultPageSize = 100

type settings struct {
	now      func() time.Time
	pageSize int
}

type Option func(*settings)

// WithClock replaces the wall clock used for expiration and token lifetimes.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithPageSize sets how many rows list operations return per page.
func WithPageSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now, pageSize: defaultPageSize}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
