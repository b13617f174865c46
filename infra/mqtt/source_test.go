package mqtt

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/kilianp07/statrelay/core/model"
	"github.com/kilianp07/statrelay/infra/logger"
)

type recordingSubmitter struct {
	mu     sync.Mutex
	kinds  []model.Kind
	events []model.Event
}

func (r *recordingSubmitter) Submit(kind model.Kind, evs ...model.Event) (model.Payload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last model.Payload
	for _, e := range evs {
		p, err := model.Shape(e)
		if err != nil {
			return model.Payload{}, err
		}
		r.kinds = append(r.kinds, kind)
		r.events = append(r.events, e)
		last = p
	}
	return last, nil
}

func newTestSource(t *testing.T, dst Submitter) *Source {
	t.Helper()
	s, err := NewSource(Config{Broker: "tcp://127.0.0.1:1883"}, dst, logger.NopLogger{})
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	return s
}

func TestHandleSubmitsDecodedEvent(t *testing.T) {
	dst := &recordingSubmitter{}
	s := newTestSource(t, dst)

	ev := model.Event{Name: "cpu.load", Host: "web-1", Value: 0.7, Time: time.Now().UTC()}
	payload, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s.handle(model.KindGauge, payload)
	if len(dst.events) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(dst.events))
	}
	if dst.kinds[0] != model.KindGauge {
		t.Fatalf("kind = %v", dst.kinds[0])
	}
	if dst.events[0].Name != "cpu.load" {
		t.Fatalf("name = %q", dst.events[0].Name)
	}
}

func TestHandleDropsMalformedPayload(t *testing.T) {
	dst := &recordingSubmitter{}
	s := newTestSource(t, dst)
	s.handle(model.KindCounter, []byte("not json"))
	if len(dst.events) != 0 {
		t.Fatalf("malformed payload was submitted")
	}
}

func TestHandleDropsInvalidEvent(t *testing.T) {
	dst := &recordingSubmitter{}
	s := newTestSource(t, dst)
	// Valid JSON, but shaping rejects the missing host.
	s.handle(model.KindGauge, []byte(`{"name":"cpu.load"}`))
	if len(dst.events) != 0 {
		t.Fatalf("invalid event was submitted")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	if cfg.TopicPrefix != "statrelay/events" || cfg.ClientID != "statrelay" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadTLSConfigRequiresFiles(t *testing.T) {
	cfg := Config{UseTLS: true}
	if _, err := cfg.LoadTLSConfig(); err == nil {
		t.Fatalf("expected error for missing cert paths")
	}
}
