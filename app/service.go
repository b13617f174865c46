package app

import (
	"context"
	"fmt"

	"github.com/kilianp07/statrelay/config"
	"github.com/kilianp07/statrelay/core/dispatch"
	"github.com/kilianp07/statrelay/core/events"
	coresender "github.com/kilianp07/statrelay/core/sender"
	"github.com/kilianp07/statrelay/infra/logger"
	"github.com/kilianp07/statrelay/infra/mqtt"
	_ "github.com/kilianp07/statrelay/infra/sender" // register built-in senders
	"github.com/kilianp07/statrelay/internal/eventbus"
	"github.com/kilianp07/statrelay/internal/stats"
)

// Service wires the dispatcher, the annotator and the ingest source from the
// configuration.
type Service struct {
	Dispatcher *dispatch.Dispatcher
	Annotator  *dispatch.Annotator

	source      *mqtt.Source
	bus         *eventbus.Bus
	tracker     *stats.Tracker
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	cfg.Logging.Apply()
	logg := logger.New("service")

	snd, err := coresender.NewSender(cfg.Senders)
	if err != nil {
		return nil, fmt.Errorf("senders: %w", err)
	}

	bus := eventbus.New()
	tracker := stats.NewTracker(0)
	disp, err := dispatch.NewDispatcher(cfg.Dispatch, snd, logg, bus, tracker)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: %w", err)
	}

	svc := &Service{
		Dispatcher:  disp,
		Annotator:   dispatch.NewAnnotator(snd, logg),
		bus:         bus,
		tracker:     tracker,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}
	if cfg.MQTT.Enabled {
		src, err := mqtt.NewSource(cfg.MQTT, disp, logger.New("mqtt-source"))
		if err != nil {
			return nil, fmt.Errorf("mqtt source: %w", err)
		}
		svc.source = src
	}
	return svc, nil
}

// Run starts the service and blocks until the context is cancelled, then
// requests a dispatcher stop and reports the latency summary.
func (s *Service) Run(ctx context.Context) error {
	s.Dispatcher.Start()
	if s.source != nil {
		if err := s.source.Start(); err != nil {
			s.Dispatcher.Stop()
			return err
		}
	}
	if s.promEnabled {
		go func() {
			if err := StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	batches, cancel := eventbus.SubscribeTyped[events.BatchEvent](s.bus)
	defer cancel()
	go func() {
		for ev := range batches {
			if ev.Err != nil {
				s.log.Warnf("dropped batch of %d items: %v", ev.Items, ev.Err)
			}
		}
	}()

	<-ctx.Done()
	s.Dispatcher.Stop()
	snap := s.tracker.Snapshot()
	if snap.Count > 0 {
		s.log.Infof("send latency over last %d batches: mean %s p95 %s max %s",
			snap.Count, snap.Mean, snap.P95, snap.Max)
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.source != nil {
		s.source.Close()
	}
	s.bus.Close()
	return nil
}
