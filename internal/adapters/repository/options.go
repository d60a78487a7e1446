// Package repository defines the profile store interface and errors.
package repository

import "time"

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *InMemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the profile ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *InMemoryStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}
