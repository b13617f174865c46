package scenarios

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kilianp07/statrelay/core/dispatch"
	"github.com/kilianp07/statrelay/core/model"
	"github.com/kilianp07/statrelay/infra/logger"
)

// scriptedSender delivers batches until the configured failure point, then
// rejects everything. It tallies delivered and dropped items.
type scriptedSender struct {
	failAfter *int

	mu        sync.Mutex
	batches   int
	delivered int
	dropped   int
}

func (s *scriptedSender) SendBatch(b model.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter != nil && s.batches >= *s.failAfter {
		s.dropped += b.Len()
		s.batches++
		return fmt.Errorf("scripted failure after %d batches", *s.failAfter)
	}
	s.delivered += b.Len()
	s.batches++
	return nil
}

func (s *scriptedSender) CreateAnnotation(model.Annotation) (string, error) { return "qa-1", nil }
func (s *scriptedSender) UpdateAnnotation(string, model.Annotation) error   { return nil }

func (s *scriptedSender) counts() (delivered, dropped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delivered, s.dropped
}

// RunScenario submits the scenario's events through a real dispatcher and
// asserts the delivered and dropped tallies match the expectation.
func RunScenario(t *testing.T, sc *Scenario) {
	snd := &scriptedSender{failAfter: sc.FailAfterBatches}
	cfg := dispatch.Config{
		Name:      "qa-" + sc.Name,
		Workers:   sc.Dispatch.Workers,
		QueueSize: sc.Dispatch.QueueSize,
		MaxBatch:  sc.Dispatch.MaxBatch,
	}
	d, err := dispatch.NewDispatcher(cfg, snd, logger.NopLogger{}, nil, nil)
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	d.Start()
	defer d.Stop()

	ts := time.Now()
	for _, def := range sc.Events {
		kind, ev, err := def.ToModel(ts)
		if err != nil {
			t.Fatalf("scenario %s: %v", sc.Name, err)
		}
		repeat := def.Repeat
		if repeat < 1 {
			repeat = 1
		}
		for i := 0; i < repeat; i++ {
			if _, err := d.Submit(kind, ev); err != nil {
				t.Fatalf("scenario %s submit: %v", sc.Name, err)
			}
		}
	}

	total := sc.Total()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		delivered, dropped := snd.counts()
		if delivered+dropped >= total {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	delivered, dropped := snd.counts()
	if delivered != sc.Expected.Delivered {
		t.Errorf("scenario %s expected %d delivered, got %d", sc.Name, sc.Expected.Delivered, delivered)
	}
	if dropped != sc.Expected.Dropped {
		t.Errorf("scenario %s expected %d dropped, got %d", sc.Name, sc.Expected.Dropped, dropped)
	}
}
