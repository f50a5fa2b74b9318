package alerts

import (
	"context"
	"errors"
	"testing"

	"vigil/internal/telemetry"
)

func TestNewKafkaSinkValidation(t *testing.T) {
	if _, err := NewKafkaSink("mon-1", KafkaConfig{Topic: "alerts"}); err == nil {
		t.Error("expected error without brokers")
	}
	if _, err := NewKafkaSink("mon-1", KafkaConfig{Brokers: []string{"localhost:9092"}}); err == nil {
		t.Error("expected error without topic")
	}
}

func TestKafkaSinkPublishAfterClose(t *testing.T) {
	s, err := NewKafkaSink("mon-1", KafkaConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "vehicle-alerts",
	})
	if err != nil {
		t.Fatalf("NewKafkaSink: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	alert := telemetry.Alert{Channel: telemetry.ChannelSpeed, Kind: telemetry.AlertHigh, Value: 200}
	if err := s.Publish(context.Background(), alert); !errors.Is(err, ErrSinkClosed) {
		t.Errorf("got %v, want ErrSinkClosed", err)
	}

	stats := s.Stats()
	if stats.Sent != 0 || stats.BytesWritten != 0 {
		t.Errorf("unexpected stats after closed publish: %+v", stats)
	}
}
