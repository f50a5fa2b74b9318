package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vigil/internal/alerts"
	"vigil/internal/config"
	"vigil/internal/logger"
	"vigil/internal/middleware"
	"vigil/internal/monitor"
	"vigil/internal/source"
	"vigil/internal/telemetry"
)

// Daemon wires the simulated telemetry source, the monitor, and the
// alert sinks together and serves the ops HTTP endpoints.
type Daemon struct {
	cfg       *config.Config
	mon       *monitor.Monitor
	sink      alerts.Sink
	kafkaSink *alerts.KafkaSink // nil unless enabled

	httpServer *http.Server
	wg         sync.WaitGroup
}

// New constructs a Daemon with the given config.
func New(cfg *config.Config) *Daemon {
	return &Daemon{cfg: cfg}
}

// Run starts background goroutines and blocks until context cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	log := logger.WithComponent("daemon")
	log.Info().Msg("daemon starting")

	table, err := d.cfg.Table()
	if err != nil {
		log.Error().Err(err).Msg("invalid threshold configuration")
		return fmt.Errorf("invalid threshold configuration: %w", err)
	}

	monitorID := uuid.New().String()

	if err := d.initSinks(monitorID); err != nil {
		log.Error().Err(err).Msg("failed to initialize alert sinks")
		return fmt.Errorf("failed to initialize alert sinks: %w", err)
	}

	seed := d.cfg.SimulatorSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	d.mon, err = monitor.New(monitor.Config{
		ID:           monitorID,
		Thresholds:   table,
		Source:       source.NewSimulator(seed),
		PollInterval: d.cfg.PollInterval,
		OnAlert:      d.handleAlert,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to construct monitor")
		return fmt.Errorf("failed to construct monitor: %w", err)
	}

	d.mon.Start()

	d.initHTTPServer()

	// Start HTTP server in background
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		log.Info().Str("addr", d.cfg.ListenAddr).Msg("starting HTTP server")
		if err := d.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Stats reporting goroutine
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.reportStats(ctx)
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	return d.shutdown()
}

// initSinks builds the alert egress chain: always log, Kafka when enabled
func (d *Daemon) initSinks(monitorID string) error {
	sinks := []alerts.Sink{alerts.NewLogSink()}

	if d.cfg.Kafka.Enabled {
		ks, err := alerts.NewKafkaSink(monitorID, alerts.KafkaConfig{
			Brokers:      d.cfg.Kafka.Brokers,
			Topic:        d.cfg.Kafka.Topic,
			WriteTimeout: d.cfg.Kafka.WriteTimeout,
			MaxRetries:   d.cfg.Kafka.MaxRetries,
		})
		if err != nil {
			return err
		}
		d.kafkaSink = ks
		sinks = append(sinks, ks)
		log := logger.WithComponent("daemon")
		log.Info().
			Strs("brokers", d.cfg.Kafka.Brokers).
			Str("topic", d.cfg.Kafka.Topic).
			Msg("kafka alert sink initialized")
	}

	d.sink = alerts.Multi(sinks...)
	return nil
}

// handleAlert runs on the poller goroutine, outside any monitor lock
func (d *Daemon) handleAlert(alert telemetry.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.sink.Publish(ctx, alert); err != nil {
		log := logger.WithComponent("daemon")
		log.Error().
			Err(err).
			Str("channel", alert.Channel.String()).
			Str("kind", string(alert.Kind)).
			Msg("failed to publish alert")
	}
}

// initHTTPServer initializes the ops HTTP server
func (d *Daemon) initHTTPServer() {
	mux := http.NewServeMux()

	// Health check
	mux.Handle("/health", middleware.Chain(
		http.HandlerFunc(d.healthHandler),
		middleware.Recovery,
		middleware.Logging,
	))

	// Stats endpoint
	mux.Handle("/status", middleware.Chain(
		http.HandlerFunc(d.statusHandler),
		middleware.Recovery,
		middleware.Logging,
	))

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	d.httpServer = &http.Server{
		Addr:         d.cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// shutdown performs graceful shutdown
func (d *Daemon) shutdown() error {
	log := logger.WithComponent("daemon")
	log.Info().Msg("initiating graceful shutdown")

	// 1. Stop accepting new HTTP requests
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("stopping HTTP server")
	if err := d.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the monitor; blocks until the poller has terminated, so
	// no alert callback fires after this returns.
	log.Info().Msg("stopping monitor")
	d.mon.Stop()

	// 3. Close sinks
	if err := d.sink.Close(); err != nil {
		log.Error().Err(err).Msg("sink close error")
	}

	// 4. Wait for all goroutines
	d.wg.Wait()

	log.Info().Msg("daemon stopped gracefully")
	return nil
}

// reportStats periodically logs statistics
func (d *Daemon) reportStats(ctx context.Context) {
	log := logger.WithComponent("daemon")
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ev := log.Info().Bool("running", d.mon.Running())
			for _, ch := range telemetry.Channels() {
				if v, ok := d.mon.Value(ch); ok {
					ev = ev.Int64(ch.String(), v)
				}
			}
			if d.kafkaSink != nil {
				stats := d.kafkaSink.Stats()
				ev = ev.
					Uint64("kafka_sent", stats.Sent).
					Uint64("kafka_failed", stats.Failed).
					Uint64("kafka_bytes", stats.BytesWritten)
			}
			ev.Msg("stats")
		}
	}
}

// healthHandler handles health check requests
func (d *Daemon) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","running":%t,"timestamp":"%s"}`,
		d.mon.Running(), time.Now().Format(time.RFC3339))
}

// statusHandler returns current monitor state and alert evaluation
func (d *Daemon) statusHandler(w http.ResponseWriter, r *http.Request) {
	alertList := d.mon.CheckAlerts()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, `{"monitor_id":%q,"running":%t,"alerts":[`, d.mon.ID(), d.mon.Running())
	for i, a := range alertList {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		fmt.Fprintf(w, `{"channel":%q,"kind":%q,"value":%d}`, a.Channel, a.Kind, a.Value)
	}
	fmt.Fprint(w, `],"values":{`)
	first := true
	for _, ch := range telemetry.Channels() {
		v, ok := d.mon.Value(ch)
		if !ok {
			continue
		}
		if !first {
			fmt.Fprint(w, ",")
		}
		first = false
		fmt.Fprintf(w, `%q:%d`, ch.String(), v)
	}
	fmt.Fprint(w, `}}`)
}
