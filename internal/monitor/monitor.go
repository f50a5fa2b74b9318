package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"vigil/internal/logger"
	"vigil/internal/metrics"
	"vigil/internal/source"
	"vigil/internal/telemetry"
)

// Lifecycle states. A monitor moves Created -> Running -> Stopped and a
// stopped monitor cannot be restarted.
type lifecycle uint8

const (
	stateCreated lifecycle = iota
	stateRunning
	stateStopped
)

var (
	// ErrNoThresholds is returned when a monitor is constructed with an
	// empty threshold table; such a monitor could never alert.
	ErrNoThresholds = errors.New("at least one threshold is required")
)

// Config holds monitor construction parameters
type Config struct {
	// ID identifies this monitor instance in logs and alert envelopes.
	// A UUID is assigned when empty.
	ID string

	// Thresholds is the per-channel threshold table. Required; validated
	// at construction and rejected on low >= high.
	Thresholds telemetry.Table

	// Source enables background polling when non-nil.
	Source source.Source

	// PollInterval is the tick period of the background poller.
	// Defaults to 100ms.
	PollInterval time.Duration

	// OnAlert is invoked once per alert produced by a poll tick, in
	// channel priority order, on the poller goroutine and outside any
	// monitor lock.
	OnAlert func(telemetry.Alert)
}

// Monitor owns a signal store, a threshold table, and at most one
// background poller goroutine. All exported methods are safe for
// concurrent use without external synchronization.
type Monitor struct {
	id       string
	store    *Store
	src      source.Source
	interval time.Duration
	onAlert  func(telemetry.Alert)

	thmu  sync.RWMutex
	table telemetry.Table

	mu    sync.Mutex
	state lifecycle

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a monitor. The threshold table is validated here:
// an inverted low/high range is a fatal configuration error.
func New(cfg Config) (*Monitor, error) {
	if len(cfg.Thresholds) == 0 {
		return nil, ErrNoThresholds
	}
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid threshold table: %w", err)
	}
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		id:       cfg.ID,
		store:    NewStore(),
		src:      cfg.Source,
		interval: cfg.PollInterval,
		onAlert:  cfg.OnAlert,
		table:    cfg.Thresholds.Clone(),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// ID returns the monitor instance identifier
func (m *Monitor) ID() string { return m.id }

// Update records the latest value for a channel. Never fails; callable
// at any rate from any goroutine.
func (m *Monitor) Update(ch telemetry.Channel, value int64) {
	m.store.Update(ch, value)
	metrics.SignalUpdatesTotal.WithLabelValues(ch.String()).Inc()
}

// Value returns the latest stored value for a channel
func (m *Monitor) Value(ch telemetry.Channel) (int64, bool) {
	return m.store.Value(ch)
}

// CheckAlerts evaluates the current snapshot against the threshold
// table and returns the ordered list of violations. The store and
// threshold locks are released before evaluation runs, so lock hold
// time never includes evaluation cost. Idempotent absent intervening
// updates.
func (m *Monitor) CheckAlerts() []telemetry.Alert {
	snap := m.store.Snapshot()

	m.thmu.RLock()
	table := m.table.Clone()
	m.thmu.RUnlock()

	start := time.Now()
	alerts := Evaluate(snap, table)
	metrics.EvaluationsTotal.Inc()
	metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	return alerts
}

// SetThreshold replaces the threshold for one channel at runtime. The
// new threshold is validated before the swap; the table lock is never
// held while alerts are evaluated or callbacks run, so OnAlert
// callbacks may call SetThreshold without deadlocking.
func (m *Monitor) SetThreshold(ch telemetry.Channel, th telemetry.Threshold) error {
	if !ch.IsValid() {
		return fmt.Errorf("%w: %q", telemetry.ErrUnknownChannel, ch)
	}
	if err := th.Validate(); err != nil {
		return fmt.Errorf("channel %s: %w", ch, err)
	}

	m.thmu.Lock()
	m.table[ch] = th
	m.thmu.Unlock()

	log := logger.WithComponent("monitor")
	log.Info().
		Str("monitor_id", m.id).
		Str("channel", ch.String()).
		Str("kind", string(th.Kind)).
		Int64("low", th.Low).
		Int64("high", th.High).
		Msg("threshold updated")
	return nil
}

// Thresholds returns a copy of the current threshold table
func (m *Monitor) Thresholds() telemetry.Table {
	m.thmu.RLock()
	defer m.thmu.RUnlock()
	return m.table.Clone()
}

// Running reports whether the monitor is in the Running state
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == stateRunning
}

// Start transitions the monitor to Running and, when a source is
// configured, spawns exactly one poller goroutine. Calling Start while
// already Running is a no-op. A stopped monitor cannot be restarted.
func (m *Monitor) Start() {
	log := logger.WithComponent("monitor")

	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateRunning:
		log.Debug().Str("monitor_id", m.id).Msg("start ignored: already running")
		return
	case stateStopped:
		log.Warn().Str("monitor_id", m.id).Msg("start ignored: monitor is stopped")
		return
	}

	m.state = stateRunning
	if m.src != nil {
		m.wg.Add(1)
		go m.poll()
	}
	log.Info().
		Str("monitor_id", m.id).
		Bool("polling", m.src != nil).
		Dur("poll_interval", m.interval).
		Msg("monitor started")
}

// Stop cancels the poller and blocks until it has terminated. Once Stop
// returns no further OnAlert callback fires. Idempotent; cooperative
// only: a source read that hangs indefinitely delays Stop indefinitely.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.state == stateStopped {
		m.mu.Unlock()
		return
	}
	m.state = stateStopped
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	log := logger.WithComponent("monitor")
	log.Info().
		Str("monitor_id", m.id).
		Msg("monitor stopped")
}
