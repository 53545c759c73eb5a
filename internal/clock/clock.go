// Package clock abstracts wall-clock time so coalescing, dedup windows,
// and scheduling logic can be driven deterministically in tests.
package clock

import "time"

// Source is the TimeSource contract: everything that needs "now" or a
// delay goes through here instead of calling time.Now/time.Sleep
// directly.
type Source interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// System is the production TimeSource, backed by the real wall clock.
type System struct{}

// Now returns the current wall-clock time.
func (System) Now() time.Time { return time.Now() }

// Sleep blocks for d using the real clock.
func (System) Sleep(d time.Duration) { time.Sleep(d) }
