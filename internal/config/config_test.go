package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vigil/internal/telemetry"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vigil.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	table, err := cfg.Table()
	if err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
	if _, ok := table[telemetry.ChannelSpeed]; !ok {
		t.Error("default table missing speed threshold")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
poll_interval: 250ms
thresholds:
  speed:
    kind: low_and_high
    low: 50
    high: 160
kafka:
  enabled: true
  brokers: ["kafka-1:9092"]
  topic: alerts
  write_timeout: 2s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("poll_interval = %v", cfg.PollInterval)
	}
	if cfg.Kafka.WriteTimeout != 2*time.Second {
		t.Errorf("kafka write_timeout = %v", cfg.Kafka.WriteTimeout)
	}

	table, err := cfg.Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	th := table[telemetry.ChannelSpeed]
	if th.Kind != telemetry.ThresholdLowAndHigh || th.Low != 50 || th.High != 160 {
		t.Errorf("speed threshold = %+v", th)
	}
	// Defaults survive for channels the file does not mention.
	if _, ok := table[telemetry.ChannelBatterySoC]; !ok {
		t.Error("battery threshold default lost")
	}
}

func TestLoadRejectsInvertedThreshold(t *testing.T) {
	path := writeConfig(t, `
thresholds:
  tire_pressure:
    kind: low_and_high
    low: 40
    high: 25
`)
	if _, err := Load(path); !errors.Is(err, telemetry.ErrInvertedBounds) {
		t.Errorf("got %v, want ErrInvertedBounds", err)
	}
}

func TestLoadRejectsUnknownChannel(t *testing.T) {
	path := writeConfig(t, `
thresholds:
  engine_rpm:
    kind: high_only
    high: 7000
`)
	if _, err := Load(path); !errors.Is(err, telemetry.ErrUnknownChannel) {
		t.Errorf("got %v, want ErrUnknownChannel", err)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "poll_interval: often\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
