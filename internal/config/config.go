package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"vigil/internal/telemetry"
)

// ThresholdConfig is the YAML shape of one channel's threshold
type ThresholdConfig struct {
	// Kind: low_only, high_only, or low_and_high
	Kind string `yaml:"kind"`
	Low  int64  `yaml:"low,omitempty"`
	High int64  `yaml:"high,omitempty"`
}

// KafkaConfig configures the optional Kafka alert sink
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`

	// Stored as strings, parsed to time.Duration by Load
	WriteTimeoutString string        `yaml:"write_timeout,omitempty"`
	WriteTimeout       time.Duration `yaml:"-"`

	MaxRetries int `yaml:"max_retries,omitempty"`
}

// Config holds runtime configuration for the monitor daemon.
type Config struct {
	// Log level: trace, debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// Listen address for the ops HTTP endpoints (/metrics, /health, /status)
	ListenAddr string `yaml:"listen_addr"`

	// Poll interval, stored as a string and parsed to time.Duration
	PollIntervalString string        `yaml:"poll_interval,omitempty"`
	PollInterval       time.Duration `yaml:"-"`

	// Seed for the simulated telemetry source
	SimulatorSeed int64 `yaml:"simulator_seed"`

	// Per-channel thresholds, keyed by channel name
	Thresholds map[string]ThresholdConfig `yaml:"thresholds"`

	Kafka KafkaConfig `yaml:"kafka"`
}

// Default returns a sensible default config for local dev.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		ListenAddr:   ":8080",
		PollInterval: 100 * time.Millisecond,
		Kafka: KafkaConfig{
			Enabled:      false,
			Brokers:      []string{"localhost:9092"},
			Topic:        "vehicle-alerts",
			WriteTimeout: 5 * time.Second,
			MaxRetries:   3,
		},
		Thresholds: map[string]ThresholdConfig{
			string(telemetry.ChannelSpeed):        {Kind: "high_only", High: 160},
			string(telemetry.ChannelBatterySoC):   {Kind: "low_only", Low: 10},
			string(telemetry.ChannelTirePressure): {Kind: "low_and_high", Low: 25, High: 40},
			string(telemetry.ChannelBrakeWear):    {Kind: "low_only", Low: 20},
		},
	}
}

// Load reads a YAML config file on top of the defaults, parses duration
// strings, and validates the threshold table. Threshold errors are
// fatal here: an inverted range must never reach a running monitor.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.PollIntervalString != "" {
		d, err := time.ParseDuration(cfg.PollIntervalString)
		if err != nil {
			return nil, fmt.Errorf("invalid poll_interval %q: %w", cfg.PollIntervalString, err)
		}
		cfg.PollInterval = d
	}
	if cfg.Kafka.WriteTimeoutString != "" {
		d, err := time.ParseDuration(cfg.Kafka.WriteTimeoutString)
		if err != nil {
			return nil, fmt.Errorf("invalid kafka write_timeout %q: %w", cfg.Kafka.WriteTimeoutString, err)
		}
		cfg.Kafka.WriteTimeout = d
	}

	if _, err := cfg.Table(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Table builds the validated telemetry threshold table from the config
func (c *Config) Table() (telemetry.Table, error) {
	table := make(telemetry.Table, len(c.Thresholds))
	for name, tc := range c.Thresholds {
		ch := telemetry.Channel(name)
		if !ch.IsValid() {
			return nil, fmt.Errorf("%w: %q", telemetry.ErrUnknownChannel, name)
		}
		th := telemetry.Threshold{
			Kind: telemetry.ThresholdKind(tc.Kind),
			Low:  tc.Low,
			High: tc.High,
		}
		if err := th.Validate(); err != nil {
			return nil, fmt.Errorf("channel %s: %w", name, err)
		}
		table[ch] = th
	}
	return table, nil
}
