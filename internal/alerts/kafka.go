package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"vigil/internal/logger"
	"vigil/internal/metrics"
	"vigil/internal/telemetry"
)

// Kafka sink errors
var (
	ErrSinkClosed      = errors.New("kafka sink is closed")
	ErrSerializeFailed = errors.New("failed to serialize alert envelope")
)

// KafkaConfig holds Kafka sink configuration
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	RequiredAcks int
}

// KafkaSink publishes alert envelopes to a Kafka topic, keyed by
// channel so per-channel ordering survives partitioning.
type KafkaSink struct {
	cfg       KafkaConfig
	monitorID string
	writer    *kafka.Writer
	closed    atomic.Bool

	// Metrics
	sent         atomic.Uint64
	failed       atomic.Uint64
	bytesWritten atomic.Uint64
}

// NewKafkaSink creates a Kafka-backed alert sink
func NewKafkaSink(monitorID string, cfg KafkaConfig) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{}, // Partition by key
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		MaxAttempts:  cfg.MaxRetries + 1,
		Async:        false, // Sync for reliability
	}

	return &KafkaSink{
		cfg:       cfg,
		monitorID: monitorID,
		writer:    writer,
	}, nil
}

// Publish sends one alert envelope to Kafka
func (s *KafkaSink) Publish(ctx context.Context, alert telemetry.Alert) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}

	env := NewEnvelope(s.monitorID, alert)
	data, err := json.Marshal(env)
	if err != nil {
		s.failed.Add(1)
		metrics.AlertPublishTotal.WithLabelValues("kafka", "failed").Inc()
		return fmt.Errorf("%w: %v", ErrSerializeFailed, err)
	}

	msg := kafka.Message{
		Key:   []byte(alert.Channel), // Partition by channel
		Value: data,
		Headers: []kafka.Header{
			{Key: "channel", Value: []byte(alert.Channel)},
			{Key: "kind", Value: []byte(alert.Kind)},
			{Key: "monitor_id", Value: []byte(s.monitorID)},
		},
		Time: env.EmittedAt,
	}

	start := time.Now()
	err = s.publishWithRetry(ctx, msg)
	metrics.AlertPublishDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.failed.Add(1)
		metrics.AlertPublishTotal.WithLabelValues("kafka", "failed").Inc()
		return err
	}

	s.sent.Add(1)
	s.bytesWritten.Add(uint64(len(data)))
	metrics.AlertPublishTotal.WithLabelValues("kafka", "success").Inc()
	metrics.KafkaBytesWritten.Add(float64(len(data)))
	return nil
}

// publishWithRetry publishes a message with exponential backoff retry
func (s *KafkaSink) publishWithRetry(ctx context.Context, msg kafka.Message) error {
	log := logger.WithComponent("kafka_sink")
	var lastErr error
	backoff := s.cfg.RetryBackoff

	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Warn().
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("retrying kafka publish")

			select {
			case <-time.After(backoff):
				backoff *= 2 // Exponential backoff
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := s.writer.WriteMessages(ctx, msg)
		if err == nil {
			return nil
		}

		lastErr = err
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Msg("kafka publish attempt failed")

		// Check for non-retryable errors
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", s.cfg.MaxRetries+1, lastErr)
}

// Close closes the underlying writer
func (s *KafkaSink) Close() error {
	if s.closed.Swap(true) {
		return nil // Already closed
	}
	return s.writer.Close()
}

// Stats returns sink statistics
func (s *KafkaSink) Stats() SinkStats {
	return SinkStats{
		Sent:         s.sent.Load(),
		Failed:       s.failed.Load(),
		BytesWritten: s.bytesWritten.Load(),
	}
}

// SinkStats holds sink metrics
type SinkStats struct {
	Sent         uint64
	Failed       uint64
	BytesWritten uint64
}
