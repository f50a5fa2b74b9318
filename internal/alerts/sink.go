package alerts

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"vigil/internal/logger"
	"vigil/internal/telemetry"
)

// Sink delivers alerts to an external consumer (logging, a message
// broker, a UI bridge). The monitor itself owns no wire protocol; sinks
// are wired to its OnAlert callback.
type Sink interface {
	Publish(ctx context.Context, alert telemetry.Alert) error
	Close() error
}

// LogSink writes each alert as a structured warning log line
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink creates the default, always-available sink
func NewLogSink() *LogSink {
	return &LogSink{log: logger.WithComponent("alerts")}
}

func (s *LogSink) Publish(_ context.Context, alert telemetry.Alert) error {
	s.log.Warn().
		Str("channel", alert.Channel.String()).
		Str("kind", string(alert.Kind)).
		Int64("value", alert.Value).
		Msg("threshold violation")
	return nil
}

func (s *LogSink) Close() error { return nil }

type multiSink struct {
	sinks []Sink
}

// Multi fans each alert out to every given sink. Publish and Close
// return the joined errors of all sinks.
func Multi(sinks ...Sink) Sink {
	return &multiSink{sinks: sinks}
}

func (m *multiSink) Publish(ctx context.Context, alert telemetry.Alert) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Publish(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
