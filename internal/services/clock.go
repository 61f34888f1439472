package services

import "time"

// Clock abstracts time so the simulated latencies and the card expiry
// check are deterministic in tests. Delays, once started, always run to
// completion; there are no cancellation semantics.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealClock returns the wall clock.
func RealClock() Clock { return systemClock{} }
