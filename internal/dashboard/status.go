package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/raphaelgruber/botdash/internal/models"
)

// DefaultPollInterval is how often StatusMonitor refetches the status.
const DefaultPollInterval = 30 * time.Second

// StatusMonitor keeps the latest StatusSnapshot, fetching it once on Start
// and again on every tick until stopped.
type StatusMonitor struct {
	api      StatusAPI
	interval time.Duration
	settings settings

	mu         sync.Mutex
	snapshot   models.StatusSnapshot
	lastPolled time.Time
	lastErr    error
	onUpdate   func(models.StatusSnapshot)
	stop       func()
	running    chan struct{}
}

// NewStatusMonitor creates a monitor polling api every interval. A
// non-positive interval uses DefaultPollInterval.
func NewStatusMonitor(api StatusAPI, interval time.Duration, opts ...Option) *StatusMonitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &StatusMonitor{
		api:      api,
		interval: interval,
		settings: newSettings(opts),
		snapshot: models.NewStatusSnapshot(),
	}
}

// Interval returns the poll interval.
func (m *StatusMonitor) Interval() time.Duration {
	return m.interval
}

// OnUpdate registers fn to be called after every successful fetch. fn runs
// on the fetching goroutine and must not block.
func (m *StatusMonitor) OnUpdate(fn func(models.StatusSnapshot)) {
	m.mu.Lock()
	m.onUpdate = fn
	m.mu.Unlock()
}

// Start fetches immediately and then once per interval in a background
// goroutine. The returned stop function cancels the timer and any in-flight
// fetch and returns once the loop has exited; after that no fetch is issued
// and the snapshot no longer changes. stop is safe to call more than once.
//
// Calling Start on a running monitor returns the existing stop function.
// Once the loop has exited, through stop or through ctx, Start begins a
// new one.
func (m *StatusMonitor) Start(ctx context.Context) (stop func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		return m.stop
	}

	ctx, cancel := context.WithCancel(ctx)
	ticker := m.settings.newTicker(m.interval)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer ticker.Stop()
		defer m.release(done)

		m.poll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				m.poll(ctx)
			}
		}
	}()

	var once sync.Once
	m.stop = func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
	m.running = done
	m.settings.logger.Debug("status monitor started", "interval", m.interval)
	return m.stop
}

// release forgets the loop identified by done so the next Start begins a
// fresh one.
func (m *StatusMonitor) release(done chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running == done {
		m.running = nil
		m.stop = nil
	}
}

func (m *StatusMonitor) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := m.Refresh(ctx); err != nil && ctx.Err() == nil {
		m.settings.logger.Warn("status poll failed", "error", err)
	}
}

// Refresh performs one fetch. On success the snapshot is replaced
// wholesale; on failure the previous snapshot is kept.
//
// Refresh is not serialised with the poll loop. A manual Refresh that
// overlaps a scheduled fetch stores whichever response resolves last,
// which may be the older one.
func (m *StatusMonitor) Refresh(ctx context.Context) error {
	snap, err := m.api.GetStatus(ctx)
	if err != nil {
		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
		return fmt.Errorf("fetch status: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	m.mu.Lock()
	m.snapshot = snap.Normalize()
	m.lastPolled = time.Now()
	m.lastErr = nil
	fn := m.onUpdate
	snap = m.snapshot
	m.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return nil
}

// Snapshot returns the latest status. Before the first successful fetch
// every field is unknown.
func (m *StatusMonitor) Snapshot() models.StatusSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// LastPolled returns the time of the last successful fetch, or the zero
// time if none succeeded yet.
func (m *StatusMonitor) LastPolled() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPolled
}

// LastErr returns the error of the most recent fetch, nil if it succeeded.
func (m *StatusMonitor) LastErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}
