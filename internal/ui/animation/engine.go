package animation

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"focusbar/internal/core/clock"
)

// Config contains pulse timing values.
type Config struct {
	FrameInterval time.Duration
	// MaxCycles stops the pulse after this many full cycles; 0 runs until Stop.
	MaxCycles int
}

// DefaultConfig returns the completion pulse timing.
func DefaultConfig() Config {
	return Config{
		FrameInterval: 600 * time.Millisecond,
		MaxCycles:     0,
	}
}

// Engine cycles tray frames while the timer sits in completed.
type Engine struct {
	mu          sync.Mutex
	config      Config
	clock       clock.Clock
	updateFrame func(fyne.Resource)
	cancel      context.CancelFunc
	done        chan struct{}
}

// New creates a pulse engine that hands each frame to updateFrame.
func New(config Config, source clock.Clock, updateFrame func(fyne.Resource)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	if source == nil {
		source = clock.Real()
	}
	return &Engine{
		config:      config,
		clock:       source,
		updateFrame: updateFrame,
	}
}

// Start begins cycling frames, replacing any running pulse. The first frame
// is shown immediately.
func (engine *Engine) Start(ctx context.Context, frames []fyne.Resource) {
	if len(frames) == 0 {
		return
	}

	engine.mu.Lock()
	engine.stopLocked()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	ticker := engine.clock.NewTicker(engine.config.FrameInterval)
	engine.mu.Unlock()

	engine.updateFrame(frames[0])
	go engine.run(runCtx, ticker, frames, done)
}

// Stop terminates any active pulse and waits for it to exit.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	done := engine.done
	engine.stopLocked()
	engine.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Running reports whether a pulse is active.
func (engine *Engine) Running() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.done == nil {
		return false
	}
	select {
	case <-engine.done:
		return false
	default:
		return true
	}
}

func (engine *Engine) stopLocked() {
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
	engine.done = nil
}

func (engine *Engine) run(ctx context.Context, ticker *clock.Ticker, frames []fyne.Resource, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	index := 0
	cycles := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		index = (index + 1) % len(frames)
		if index == 0 {
			cycles++
			if engine.config.MaxCycles > 0 && cycles >= engine.config.MaxCycles {
				engine.updateFrame(frames[0])
				return
			}
		}
		engine.updateFrame(frames[index])
	}
}
