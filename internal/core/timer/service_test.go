package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusbar/internal/core/clock"
	"focusbar/internal/core/model"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

type serviceFixture struct {
	service  *Service
	clock    *clock.FakeClock
	sessions *countingSessions
	notifier *recordingNotifier
	updates  <-chan Snapshot
	cancel   context.CancelFunc
	done     chan struct{}
}

func startService(t *testing.T, lastUsed int) *serviceFixture {
	t.Helper()
	fake := clock.Fake(epoch)
	fixture := &serviceFixture{
		clock:    fake,
		sessions: &countingSessions{},
		notifier: &recordingNotifier{},
		done:     make(chan struct{}),
	}
	fixture.service = NewService(model.ServiceConfig{TickInterval: time.Second}, model.TimerConfig{}, fake, Dependencies{
		Sessions:  fixture.sessions,
		Notifier:  fixture.notifier,
		Durations: &stubDurations{minutes: lastUsed},
	})
	fixture.updates = fixture.service.Subscribe(64)

	ctx, cancel := context.WithCancel(context.Background())
	fixture.cancel = cancel
	go func() {
		defer close(fixture.done)
		_ = fixture.service.Run(ctx)
	}()
	t.Cleanup(fixture.stop)

	initial := fixture.next(t)
	require.Equal(t, StateIdle, initial.State)
	return fixture
}

func (fixture *serviceFixture) stop() {
	fixture.cancel()
	<-fixture.done
}

func (fixture *serviceFixture) next(t *testing.T) Snapshot {
	t.Helper()
	select {
	case snapshot, ok := <-fixture.updates:
		require.True(t, ok, "subscription closed")
		return snapshot
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func (fixture *serviceFixture) dispatch(t *testing.T, command Command) Snapshot {
	t.Helper()
	require.NoError(t, fixture.service.Dispatch(command))
	return fixture.next(t)
}

func TestServiceStartAndTick(t *testing.T) {
	fixture := startService(t, 25)

	snapshot := fixture.dispatch(t, Start(UseMinutes(1)))
	assert.Equal(t, StateRunning, snapshot.State)
	assert.Equal(t, 60, snapshot.RemainingSeconds)

	fixture.clock.WaitForTimers(1)
	fixture.clock.Advance(time.Second)
	snapshot = fixture.next(t)
	assert.Equal(t, 59, snapshot.RemainingSeconds)
	assert.True(t, snapshot.At.Equal(epoch.Add(time.Second)))
}

func TestServicePauseDisarmsClock(t *testing.T) {
	fixture := startService(t, 25)

	fixture.dispatch(t, Start(UseLastDuration()))
	fixture.clock.WaitForTimers(1)
	snapshot := fixture.dispatch(t, Pause())
	assert.Equal(t, StatePaused, snapshot.State)
	assert.Equal(t, 0, fixture.clock.PendingCount())

	fixture.clock.Advance(time.Hour)
	snapshot = fixture.dispatch(t, Resume())
	assert.Equal(t, StateRunning, snapshot.State)
	assert.Equal(t, 1500, snapshot.RemainingSeconds)

	fixture.clock.WaitForTimers(1)
	fixture.clock.Advance(time.Second)
	assert.Equal(t, 1499, fixture.next(t).RemainingSeconds)
}

func TestServiceSuspendDeliversSingleTick(t *testing.T) {
	fixture := startService(t, 25)

	fixture.dispatch(t, Start(UseMinutes(2)))
	fixture.clock.WaitForTimers(1)

	fixture.clock.Advance(10 * time.Minute)
	snapshot := fixture.next(t)
	assert.Equal(t, StateRunning, snapshot.State)
	assert.Equal(t, 119, snapshot.RemainingSeconds)

	current, err := fixture.service.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 119, current.RemainingSeconds)
	assert.Equal(t, 0, fixture.sessions.count)
}

func TestServiceCompletesExactlyOnce(t *testing.T) {
	fixture := startService(t, 25)

	fixture.dispatch(t, Start(UseMinutes(1)))
	var last Snapshot
	for i := 0; i < 60; i++ {
		fixture.clock.WaitForTimers(1)
		fixture.clock.Advance(time.Second)
		last = fixture.next(t)
	}
	assert.Equal(t, StateCompleted, last.State)
	assert.Equal(t, 1, last.SessionsToday)
	assert.Equal(t, 0, fixture.clock.PendingCount())

	fixture.clock.Advance(time.Minute)
	current, err := fixture.service.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, current.State)
	assert.Equal(t, 1, fixture.sessions.count)
	require.Eventually(t, func() bool { return fixture.notifier.count() == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestServiceConcurrentDispatch(t *testing.T) {
	fixture := startService(t, 25)
	fixture.dispatch(t, Start(UseLastDuration()))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = fixture.service.Dispatch(AddMinute())
		}()
	}
	wg.Wait()

	snapshot, err := fixture.service.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateRunning, snapshot.State)
	assert.Equal(t, 1500+20*60, snapshot.TotalSeconds)
}

func TestServiceStopped(t *testing.T) {
	fixture := startService(t, 25)
	fixture.stop()

	assert.ErrorIs(t, fixture.service.Dispatch(Toggle()), ErrStopped)
	_, err := fixture.service.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrStopped)

	late := fixture.service.Subscribe(1)
	_, ok := <-late
	assert.False(t, ok)
}

func TestSubscribeKeepsLatestWhenBehind(t *testing.T) {
	fixture := startService(t, 25)
	slow := fixture.service.Subscribe(1)

	fixture.dispatch(t, SetDuration(10))
	fixture.dispatch(t, SetDuration(20))

	select {
	case snapshot := <-slow:
		assert.Equal(t, 1200, snapshot.TotalSeconds)
	case <-time.After(5 * time.Second):
		t.Fatal("slow subscriber received nothing")
	}
}

type slowNotifier struct {
	release   chan struct{}
	delivered chan Notice
}

func (notifier *slowNotifier) Notify(notice Notice) error {
	<-notifier.release
	notifier.delivered <- notice
	return nil
}

func TestServiceAnswersWhileNotifierBlocks(t *testing.T) {
	fake := clock.Fake(epoch)
	notifier := &slowNotifier{release: make(chan struct{}), delivered: make(chan Notice, 1)}
	service := NewService(model.ServiceConfig{}, model.TimerConfig{}, fake, Dependencies{Notifier: notifier})
	updates := service.Subscribe(64)
	receive := func() Snapshot {
		t.Helper()
		select {
		case snapshot := <-updates:
			return snapshot
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for snapshot")
			return Snapshot{}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = service.Run(ctx)
	}()
	defer func() {
		close(notifier.release)
		cancel()
		<-done
	}()

	receive()
	require.NoError(t, service.Dispatch(Start(UseMinutes(1))))
	receive()
	for i := 0; i < 60; i++ {
		fake.WaitForTimers(1)
		fake.Advance(time.Second)
		receive()
	}

	queryCtx, queryCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer queryCancel()
	snapshot, err := service.Snapshot(queryCtx)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, snapshot.State)

	snapshot, err = service.Snapshot(queryCtx)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.RemainingSeconds)
	assert.Empty(t, notifier.delivered)
}
