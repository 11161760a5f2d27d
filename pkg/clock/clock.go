// Package clock abstracts time so rollover and streak logic stay testable.
package clock

import "time"

// Clock supplies the current timestamp and day boundaries.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by the wall clock.
type System struct{}

// NewSystem creates a system clock.
func NewSystem() System { return System{} }

// Now returns the current UTC time.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed is a Clock pinned to a single instant, for tests and replays.
type Fixed struct {
	now time.Time
}

// NewFixed creates a clock pinned to t.
func NewFixed(t time.Time) *Fixed { return &Fixed{now: t} }

// Now returns the pinned instant.
func (f *Fixed) Now() time.Time { return f.now }

// Advance moves the pinned instant forward by d.
func (f *Fixed) Advance(d time.Duration) { f.now = f.now.Add(d) }

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}
