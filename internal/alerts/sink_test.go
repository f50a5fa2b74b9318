package alerts

import (
	"context"
	"errors"
	"testing"

	"vigil/internal/telemetry"
)

// mockSink records publishes and can be told to fail
type mockSink struct {
	published  []telemetry.Alert
	closed     bool
	shouldFail bool
}

func (m *mockSink) Publish(_ context.Context, alert telemetry.Alert) error {
	if m.shouldFail {
		return errors.New("sink unavailable")
	}
	m.published = append(m.published, alert)
	return nil
}

func (m *mockSink) Close() error {
	m.closed = true
	return nil
}

func TestLogSinkPublish(t *testing.T) {
	s := NewLogSink()
	alert := telemetry.Alert{Channel: telemetry.ChannelSpeed, Kind: telemetry.AlertHigh, Value: 200}

	if err := s.Publish(context.Background(), alert); err != nil {
		t.Errorf("Publish: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestMultiFansOut(t *testing.T) {
	a := &mockSink{}
	b := &mockSink{}
	s := Multi(a, b)

	alert := telemetry.Alert{Channel: telemetry.ChannelBatterySoC, Kind: telemetry.AlertLow, Value: 5}
	if err := s.Publish(context.Background(), alert); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(a.published) != 1 || len(b.published) != 1 {
		t.Errorf("fan-out incomplete: %d, %d", len(a.published), len(b.published))
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("Close did not reach all sinks")
	}
}

func TestMultiContinuesPastFailure(t *testing.T) {
	failing := &mockSink{shouldFail: true}
	ok := &mockSink{}
	s := Multi(failing, ok)

	alert := telemetry.Alert{Channel: telemetry.ChannelTirePressure, Kind: telemetry.AlertLow, Value: 20}
	err := s.Publish(context.Background(), alert)
	if err == nil {
		t.Error("expected joined error from failing sink")
	}
	if len(ok.published) != 1 {
		t.Error("healthy sink skipped after earlier failure")
	}
}

func TestNewEnvelope(t *testing.T) {
	alert := telemetry.Alert{Channel: telemetry.ChannelSpeed, Kind: telemetry.AlertHigh, Value: 180}
	env := NewEnvelope("mon-1", alert)

	if env.ID == "" {
		t.Error("missing envelope ID")
	}
	if env.MonitorID != "mon-1" {
		t.Errorf("monitor ID = %q", env.MonitorID)
	}
	if env.EmittedAt.IsZero() {
		t.Error("missing emission time")
	}
	if env.Alert != alert {
		t.Errorf("alert = %v", env.Alert)
	}

	// Each emission gets its own ID.
	if NewEnvelope("mon-1", alert).ID == env.ID {
		t.Error("envelope IDs not unique")
	}
}
