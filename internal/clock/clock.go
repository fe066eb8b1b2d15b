// Package clock supplies the current instant. Everything that does phase or
// streak math reads time through a Clock so administrators can move it.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// System reads the platform clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Offset shifts another clock by a fixed delta. It backs administrative
// time travel for QA and demos.
type Offset struct {
	Base  Clock
	Delta time.Duration
}

func (o Offset) Now() time.Time {
	base := o.Base
	if base == nil {
		base = System{}
	}
	return base.Now().Add(o.Delta)
}

// Fixed always returns the same instant until moved.
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// AdvanceDays moves the clock forward by whole calendar days.
func (f *Fixed) AdvanceDays(n int) {
	f.mu.Lock()
	f.t = f.t.AddDate(0, 0, n)
	f.mu.Unlock()
}
