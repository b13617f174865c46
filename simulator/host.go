package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/statrelay/core/model"
)

// SimulatedHost publishes synthetic gauge and counter events for one fake
// machine. Gauges follow a bounded random walk; counters grow monotonically.
type SimulatedHost struct {
	ID          string
	Broker      string
	TopicPrefix string
	Metrics     int
	Interval    time.Duration
	Jitter      float64
	DropRate    float64
	Verbose     bool

	cli      paho.Client
	gauges   []float64
	counters []float64
	rng      *rand.Rand
}

// Run connects to the broker and publishes events until the context is done.
func (h *SimulatedHost) Run(ctx context.Context) error {
	opts := paho.NewClientOptions().
		AddBroker(h.Broker).
		SetClientID("sim-" + h.ID).
		SetAutoReconnect(true)
	h.cli = paho.NewClient(opts)
	if token := h.cli.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", h.ID, token.Error())
	}
	defer h.cli.Disconnect(250)

	h.rng = rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(len(h.ID))))
	h.gauges = make([]float64, h.Metrics)
	h.counters = make([]float64, h.Metrics)
	for i := range h.gauges {
		h.gauges[i] = h.rng.Float64() * 100
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(h.nextInterval()):
			h.tick()
		}
	}
}

// nextInterval spreads publishes across hosts so they do not arrive in
// lockstep.
func (h *SimulatedHost) nextInterval() time.Duration {
	if h.Jitter == 0 {
		return h.Interval
	}
	spread := (h.rng.Float64()*2 - 1) * h.Jitter
	return time.Duration(float64(h.Interval) * (1 + spread))
}

func (h *SimulatedHost) tick() {
	now := time.Now()
	for i := 0; i < h.Metrics; i++ {
		h.gauges[i] += (h.rng.Float64()*2 - 1) * 5
		if h.gauges[i] < 0 {
			h.gauges[i] = 0
		}
		h.counters[i] += h.rng.Float64() * 10

		h.publish(model.KindGauge, model.Event{
			Name:  fmt.Sprintf("sim.gauge.%d", i),
			Host:  h.ID,
			Value: h.gauges[i],
			Time:  now,
		})
		h.publish(model.KindCounter, model.Event{
			Name:  fmt.Sprintf("sim.counter.%d", i),
			Host:  h.ID,
			Value: h.counters[i],
			Time:  now,
		})
	}
}

func (h *SimulatedHost) publish(kind model.Kind, ev model.Event) {
	if h.DropRate > 0 && h.rng.Float64() < h.DropRate {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("%s: marshal: %v", h.ID, err)
		return
	}
	topic := h.TopicPrefix + "/" + kind.String()
	if token := h.cli.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
		log.Printf("%s: publish %s: %v", h.ID, topic, token.Error())
		return
	}
	if h.Verbose {
		log.Printf("%s: published %s %s=%.2f", h.ID, kind, ev.Name, ev.Value)
	}
}
