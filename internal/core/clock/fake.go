package clock

import (
	"sync"
	"time"
)

// FakeClock is a deterministic Clock. Time moves only when Advance or Set is
// called. It is safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	tickers []*fakeTicker
	changed *sync.Cond
}

type fakeTicker struct {
	deadline time.Time
	interval time.Duration
	channel  chan time.Time
	stopped  bool
}

// Fake returns a FakeClock frozen at initial.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{current: initial}
	clock.changed = sync.NewCond(&clock.mu)
	return clock
}

// Now returns the fake time.
func (clock *FakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

// NewTicker registers a ticker that fires when the clock is advanced past
// its deadline. Panics if interval <= 0, like time.NewTicker.
func (clock *FakeClock) NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	clock.mu.Lock()
	defer clock.mu.Unlock()

	ticker := &fakeTicker{
		deadline: clock.current.Add(interval),
		interval: interval,
		channel:  make(chan time.Time, 1),
	}
	clock.tickers = append(clock.tickers, ticker)
	clock.changed.Broadcast()

	return &Ticker{
		C: ticker.channel,
		stopFunc: func() {
			clock.mu.Lock()
			defer clock.mu.Unlock()
			if ticker.stopped {
				return
			}
			ticker.stopped = true
			clock.removeLocked(ticker)
			clock.changed.Broadcast()
		},
		resetFunc: func(interval time.Duration) {
			clock.mu.Lock()
			defer clock.mu.Unlock()
			ticker.interval = interval
			ticker.deadline = clock.current.Add(interval)
			if ticker.stopped {
				ticker.stopped = false
				clock.tickers = append(clock.tickers, ticker)
			}
			clock.changed.Broadcast()
		},
	}
}

// Advance moves the clock forward by delta and fires every ticker whose
// deadline has passed. A ticker fires at most once per Advance no matter how
// many intervals were skipped, which is how a real ticker behaves across a
// system suspend.
func (clock *FakeClock) Advance(delta time.Duration) {
	clock.mu.Lock()
	clock.current = clock.current.Add(delta)
	clock.mu.Unlock()
	clock.fire()
}

// Set jumps the clock to an absolute time. Moving backwards fires nothing.
func (clock *FakeClock) Set(now time.Time) {
	clock.mu.Lock()
	clock.current = now
	clock.mu.Unlock()
	clock.fire()
}

// WaitForTimers blocks until at least count active tickers are registered.
func (clock *FakeClock) WaitForTimers(count int) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	for clock.pendingLocked() < count {
		clock.changed.Wait()
	}
}

// PendingCount returns the number of active tickers.
func (clock *FakeClock) PendingCount() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.pendingLocked()
}

func (clock *FakeClock) fire() {
	clock.mu.Lock()
	now := clock.current
	var due []*fakeTicker
	for _, ticker := range clock.tickers {
		if ticker.deadline.After(now) {
			continue
		}
		for !ticker.deadline.After(now) {
			ticker.deadline = ticker.deadline.Add(ticker.interval)
		}
		due = append(due, ticker)
	}
	clock.mu.Unlock()

	for _, ticker := range due {
		select {
		case ticker.channel <- now:
		default:
		}
	}
}

func (clock *FakeClock) pendingLocked() int {
	return len(clock.tickers)
}

func (clock *FakeClock) removeLocked(target *fakeTicker) {
	for index, ticker := range clock.tickers {
		if ticker == target {
			clock.tickers = append(clock.tickers[:index], clock.tickers[index+1:]...)
			return
		}
	}
}
