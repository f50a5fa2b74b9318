package monitor

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"vigil/internal/logger"
	"vigil/internal/metrics"
)

// poll is the background poller loop: one dedicated goroutine per
// monitor. Each tick pulls one reading from the source, stores it,
// evaluates, and fires the OnAlert callback once per violation. The
// cancellation signal is observed at least once per iteration, so Stop
// latency is bounded by one interval plus the source's call latency.
func (m *Monitor) poll() {
	defer m.wg.Done()

	log := logger.WithComponent("poller").With().Str("monitor_id", m.id).Logger()

	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			log.Error().
				Interface("panic", r).
				Bytes("stack", stack).
				Msg("poller panic recovered")
			metrics.PanicsRecovered.WithLabelValues("poller").Inc()
		}
	}()

	log.Info().Dur("interval", m.interval).Msg("poller started")
	defer log.Info().Msg("poller stopped")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.tick(log)
		}
	}
}

// tick runs one poll iteration
func (m *Monitor) tick(log zerolog.Logger) {
	metrics.PollTicksTotal.Inc()

	reading, err := m.src.Read(m.ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		metrics.SourceReadErrors.Inc()
		log.Warn().Err(err).Msg("source read failed")
		return
	}

	m.Update(reading.Channel, reading.Value)

	alerts := m.CheckAlerts()
	if len(alerts) == 0 {
		return
	}

	log.Debug().Int("alerts", len(alerts)).Msg("threshold violations detected")

	// Callbacks run on this goroutine with no monitor lock held, so a
	// callback may safely re-enter the monitor. A slow callback delays
	// the next tick.
	for _, alert := range alerts {
		metrics.AlertsTotal.WithLabelValues(alert.Channel.String(), string(alert.Kind)).Inc()
		if m.onAlert != nil {
			m.onAlert(alert)
		}
	}
}
