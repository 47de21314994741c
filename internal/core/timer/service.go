package timer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"focusbar/internal/core/clock"
	"focusbar/internal/core/model"
)

// ErrStopped is returned when the service loop is no longer running.
var ErrStopped = errors.New("timer service stopped")

// Service confines a Machine to one goroutine. Commands from any goroutine
// are marshalled into that goroutine through Dispatch; snapshots flow back
// out through Subscribe.
type Service struct {
	config   model.ServiceConfig
	clock    clock.Clock
	machine  *Machine
	sessions SessionTracker
	logger   *slog.Logger

	requests chan request
	done     chan struct{}
	stopOnce sync.Once

	// Owned by the Run goroutine.
	ticker *clock.Ticker
	ticks  <-chan time.Time

	notices *noticeQueue

	mu          sync.Mutex
	subscribers []chan Snapshot
}

type request struct {
	apply func(*Machine)
	reply chan Snapshot
}

// NewService builds the Machine and the loop that owns it. deps.Clock is
// replaced by the service's own ticker control.
func NewService(config model.ServiceConfig, timerConfig model.TimerConfig, source clock.Clock, deps Dependencies) *Service {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.CommandBuffer <= 0 {
		config.CommandBuffer = 16
	}
	if source == nil {
		source = clock.Real()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	service := &Service{
		config:   config,
		clock:    source,
		logger:   deps.Logger,
		requests: make(chan request, config.CommandBuffer),
		done:     make(chan struct{}),
	}
	deps.Clock = ownerClock{service: service}
	if deps.Notifier != nil {
		service.notices = newNoticeQueue(deps.Notifier, deps.Logger)
		deps.Notifier = service.notices
	}
	service.machine = NewMachine(timerConfig, deps)
	service.sessions = service.machine.deps.Sessions
	return service
}

// Run processes commands and ticks until ctx is cancelled.
func (service *Service) Run(ctx context.Context) error {
	defer service.shutdown()

	if service.notices != nil {
		go service.notices.run(service.done)
	}
	service.publish()
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-service.requests:
			if req.apply != nil {
				req.apply(service.machine)
			}
			snapshot := service.snapshot()
			if req.reply != nil {
				req.reply <- snapshot
			}
			service.broadcast(snapshot)
		case <-service.ticks:
			service.machine.Tick()
			service.publish()
		}
	}
}

// Dispatch queues a command for the owner goroutine.
func (service *Service) Dispatch(command Command) error {
	return service.submit(request{apply: func(machine *Machine) {
		machine.Apply(command)
	}})
}

// SetTickCue changes the tick cue window without touching timer state.
func (service *Service) SetTickCue(seconds int) error {
	return service.submit(request{apply: func(machine *Machine) {
		machine.SetTickCue(seconds)
	}})
}

// Snapshot returns the current state as seen by the owner goroutine.
func (service *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case service.requests <- request{reply: reply}:
	case <-service.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case snapshot := <-reply:
		return snapshot, nil
	case <-service.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Subscribe registers an observer channel. When an observer falls behind,
// older snapshots are dropped in favour of the newest one.
func (service *Service) Subscribe(buffer int) <-chan Snapshot {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	service.mu.Lock()
	defer service.mu.Unlock()
	select {
	case <-service.done:
		close(ch)
	default:
		service.subscribers = append(service.subscribers, ch)
	}
	return ch
}

func (service *Service) submit(req request) error {
	select {
	case <-service.done:
		return ErrStopped
	default:
	}
	select {
	case service.requests <- req:
		return nil
	case <-service.done:
		return ErrStopped
	}
}

func (service *Service) snapshot() Snapshot {
	return Snapshot{
		State:            service.machine.State(),
		TotalSeconds:     service.machine.TotalSeconds(),
		RemainingSeconds: service.machine.RemainingSeconds(),
		SessionsToday:    service.sessions.CurrentCount(),
		At:               service.clock.Now(),
	}
}

func (service *Service) publish() {
	service.broadcast(service.snapshot())
}

func (service *Service) broadcast(snapshot Snapshot) {
	service.mu.Lock()
	defer service.mu.Unlock()
	for _, ch := range service.subscribers {
		select {
		case ch <- snapshot:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (service *Service) shutdown() {
	service.stopOnce.Do(func() {
		service.disarm()
		service.mu.Lock()
		close(service.done)
		subscribers := service.subscribers
		service.subscribers = nil
		service.mu.Unlock()
		for _, ch := range subscribers {
			close(ch)
		}
	})
}

func (service *Service) arm() {
	if service.ticker != nil {
		return
	}
	service.ticker = service.clock.NewTicker(service.config.TickInterval)
	service.ticks = service.ticker.C
}

func (service *Service) disarm() {
	if service.ticker == nil {
		return
	}
	service.ticker.Stop()
	service.ticker = nil
	service.ticks = nil
}

// ownerClock is handed to the Machine so it can arm and disarm ticks. It is
// only ever called from the Run goroutine.
type ownerClock struct {
	service *Service
}

func (owner ownerClock) Arm()    { owner.service.arm() }
func (owner ownerClock) Disarm() { owner.service.disarm() }

const noticeBacklog = 4

var errNoticeBacklog = errors.New("notice backlog full")

// noticeQueue delivers notices on its own goroutine so a slow notifier
// never holds up the owner loop.
type noticeQueue struct {
	next    Notifier
	logger  *slog.Logger
	pending chan Notice
}

func newNoticeQueue(next Notifier, logger *slog.Logger) *noticeQueue {
	return &noticeQueue{next: next, logger: logger, pending: make(chan Notice, noticeBacklog)}
}

// Notify queues notice without blocking.
func (queue *noticeQueue) Notify(notice Notice) error {
	select {
	case queue.pending <- notice:
		return nil
	default:
		return errNoticeBacklog
	}
}

func (queue *noticeQueue) run(done <-chan struct{}) {
	for {
		select {
		case notice := <-queue.pending:
			if err := queue.next.Notify(notice); err != nil {
				queue.logger.Warn("deliver completion notice", "error", err)
			}
		case <-done:
			return
		}
	}
}
