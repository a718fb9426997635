// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package idgen assigns record ids.
package idgen

import (
	"sync/atomic"
	"time"
)

// Generator hands out record ids.
type Generator interface {
	Next() int64
}

// Monotonic issues millisecond timestamps that never repeat: when two calls
// land in the same millisecond, or the clock steps back, the second id is the
// previous one plus one. Ids stay strictly increasing for the process.
type Monotonic struct {
	last atomic.Int64
	now  func() time.Time
}

// NewMonotonic returns a generator driven by the wall clock.
func NewMonotonic() *Monotonic {
	return &Monotonic{now: time.Now}
}

// NewMonotonicWithClock returns a generator driven by now. Used in tests.
func NewMonotonicWithClock(now func() time.Time) *Monotonic {
	return &Monotonic{now: now}
}

// Seed makes every later id greater than floor. The server seeds with the
// largest id already stored so restarts cannot reissue an id.
func (m *Monotonic) Seed(floor int64) {
	for {
		cur := m.last.Load()
		if floor <= cur || m.last.CompareAndSwap(cur, floor) {
			return
		}
	}
}

// Next implements Generator.
func (m *Monotonic) Next() int64 {
	for {
		prev := m.last.Load()
		next := m.now().UnixMilli()
		if next <= prev {
			next = prev + 1
		}
		if m.last.CompareAndSwap(prev, next) {
			return next
		}
	}
}
