// Package clock abstracts wall-clock time so the timer can be driven by a
// fake clock in tests.
package clock

import "time"

// Clock produces the current time and periodic tickers.
type Clock interface {
	Now() time.Time
	NewTicker(interval time.Duration) *Ticker
}

// Ticker delivers ticks on C. C has capacity 1: a slow consumer sees at most
// one pending tick, never a queue of missed ones.
type Ticker struct {
	C <-chan time.Time

	stopFunc  func()
	resetFunc func(time.Duration)
}

// Stop turns the ticker off. Stop may be called more than once.
func (ticker *Ticker) Stop() { ticker.stopFunc() }

// Reset restarts the tick cycle with a new interval.
func (ticker *Ticker) Reset(interval time.Duration) { ticker.resetFunc(interval) }

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(interval time.Duration) *Ticker {
	ticker := time.NewTicker(interval)
	return &Ticker{
		C:         ticker.C,
		stopFunc:  ticker.Stop,
		resetFunc: ticker.Reset,
	}
}
