// Package mqtt feeds the dispatcher with events published by the upstream
// monitoring pipeline over MQTT.
package mqtt

import (
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/statrelay/core/logger"
	"github.com/kilianp07/statrelay/core/model"
)

var (
	eventsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_mqtt_events_received_total",
		Help: "Events received from the MQTT source",
	}, []string{"kind"})
	eventsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_mqtt_events_rejected_total",
		Help: "MQTT messages dropped because they could not be decoded or submitted",
	})
)

func init() {
	prometheus.MustRegister(eventsReceived, eventsRejected)
}

// Submitter is the slice of the dispatcher the source needs.
type Submitter interface {
	Submit(kind model.Kind, evs ...model.Event) (model.Payload, error)
}

// Source subscribes to the gauge and counter topics and submits decoded
// events to the dispatcher.
type Source struct {
	cfg  Config
	cli  paho.Client
	dst  Submitter
	log  logger.Logger
	qos  byte
	subs []string
}

// NewSource prepares an MQTT source; no connection is made until Start.
func NewSource(cfg Config, dst Submitter, log logger.Logger) (*Source, error) {
	if dst == nil || log == nil {
		return nil, fmt.Errorf("mqtt: nil parameter provided to NewSource")
	}
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	s := &Source{cfg: cfg, dst: dst, log: log, qos: cfg.QoS}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("mqtt connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	s.cli = paho.NewClient(opts)
	return s, nil
}

// Start connects to the broker and subscribes to the event topics.
func (s *Source) Start() error {
	if token := s.cli.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	for _, kind := range []model.Kind{model.KindGauge, model.KindCounter} {
		kind := kind
		topic := s.cfg.TopicPrefix + "/" + kind.String()
		handler := func(_ paho.Client, msg paho.Message) {
			s.handle(kind, msg.Payload())
		}
		if token := s.cli.Subscribe(topic, s.qos, handler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", topic, token.Error())
		}
		s.subs = append(s.subs, topic)
		s.log.Infof("subscribed to %s", topic)
	}
	return nil
}

// handle decodes one message and submits it. Bad messages are counted and
// dropped; ingest must never stall on a malformed event.
func (s *Source) handle(kind model.Kind, payload []byte) {
	var ev model.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		eventsRejected.Inc()
		s.log.Errorf("failed to decode %s event: %v", kind, err)
		return
	}
	if _, err := s.dst.Submit(kind, ev); err != nil {
		eventsRejected.Inc()
		s.log.Errorf("failed to submit %s event: %v", kind, err)
		return
	}
	eventsReceived.WithLabelValues(kind.String()).Inc()
}

// Close disconnects from the broker.
func (s *Source) Close() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}
