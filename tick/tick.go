// File: tick/tick.go
// License: Apache-2.0

// Package tick provides the millisecond tick type used for activity
// timestamps and expiration deadlines. The zero value is the "unset"
// sentinel (Eternity), so arithmetic must step over it, and comparisons are
// wrap-safe over the 32-bit range.
package tick

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Tick is a wrapping millisecond timestamp. The zero value means "unset".
type Tick uint32

// Eternity is the unset sentinel: no timestamp, no deadline.
const Eternity Tick = 0

// IsSet reports whether t carries a timestamp.
func IsSet(t Tick) bool { return t != Eternity }

// Add returns t advanced by ms milliseconds, stepping over Eternity if the
// addition wraps onto it.
func Add(t Tick, ms uint32) Tick {
	t += Tick(ms)
	if t == Eternity {
		t++
	}
	return t
}

// AddIfSet returns t advanced by ms, or Eternity when t is unset or ms is
// zero. This is how expiration deadlines are derived from activity stamps.
func AddIfSet(t Tick, ms uint32) Tick {
	if !IsSet(t) || ms == 0 {
		return Eternity
	}
	return Add(t, ms)
}

// Expired reports whether deadline t has passed at instant now. An unset
// deadline never expires. The comparison is wrap-safe.
func Expired(t, now Tick) bool {
	if !IsSet(t) {
		return false
	}
	return int32(now-t) >= 0
}

// Source converts a wall (or mock) clock into ticks. The first tick it
// reports is never Eternity.
type Source struct {
	clk  clock.Clock
	base time.Time
}

// NewSource builds a tick source over clk. Pass clock.New() for wall time
// or clock.NewMock() in tests.
func NewSource(clk clock.Clock) *Source {
	return &Source{clk: clk, base: clk.Now()}
}

// Now returns the current tick.
func (s *Source) Now() Tick {
	ms := uint32(s.clk.Now().Sub(s.base) / time.Millisecond)
	t := Tick(ms) + 1
	if t == Eternity {
		t++
	}
	return t
}
