package dispatch

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kilianp07/statrelay/core/model"
	"github.com/kilianp07/statrelay/infra/logger"
)

// annotationSender issues sequential ids and records update calls.
type annotationSender struct {
	mu      sync.Mutex
	created int
	updates map[string]model.Annotation
}

func newAnnotationSender() *annotationSender {
	return &annotationSender{updates: make(map[string]model.Annotation)}
}

func (s *annotationSender) SendBatch(model.Batch) error { return nil }

func (s *annotationSender) CreateAnnotation(model.Annotation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created++
	return fmt.Sprintf("ann-%d", s.created), nil
}

func (s *annotationSender) UpdateAnnotation(id string, a model.Annotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[id] = a
	return nil
}

func TestAnnotationPairing(t *testing.T) {
	snd := newAnnotationSender()
	a := NewAnnotator(snd, logger.NopLogger{})

	ev := model.Event{Name: "deploy api", Host: "web-1", Time: time.Now()}
	id, err := a.StartAnnotation(ev)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if id != "ann-1" {
		t.Fatalf("id = %q", id)
	}
	endID, err := a.EndAnnotation(ev)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if endID != id {
		t.Fatalf("end referenced %q, want %q", endID, id)
	}
	upd, ok := snd.updates[id]
	if !ok {
		t.Fatalf("no update issued for %s", id)
	}
	if upd.End == 0 {
		t.Fatalf("update carried no end time")
	}
}

func TestEndWithoutStartIsNoop(t *testing.T) {
	snd := newAnnotationSender()
	a := NewAnnotator(snd, logger.NopLogger{})
	id, err := a.EndAnnotation(model.Event{Name: "deploy", Host: "web-1", Time: time.Now()})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
	if len(snd.updates) != 0 {
		t.Fatalf("unexpected update calls: %v", snd.updates)
	}
}

func TestSecondEndIsNoop(t *testing.T) {
	snd := newAnnotationSender()
	a := NewAnnotator(snd, logger.NopLogger{})
	ev := model.Event{Name: "deploy", Host: "web-1", Time: time.Now()}
	if _, err := a.StartAnnotation(ev); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := a.EndAnnotation(ev); err != nil {
		t.Fatalf("first end: %v", err)
	}
	id, err := a.EndAnnotation(ev)
	if err != nil {
		t.Fatalf("second end: %v", err)
	}
	if id != "" {
		t.Fatalf("second end should be a no-op, got %q", id)
	}
}

func TestStartLastWriterWins(t *testing.T) {
	snd := newAnnotationSender()
	a := NewAnnotator(snd, logger.NopLogger{})
	ev := model.Event{Name: "deploy", Host: "web-1", Time: time.Now()}
	if _, err := a.StartAnnotation(ev); err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := a.StartAnnotation(ev)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	id, err := a.EndAnnotation(ev)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if id != second {
		t.Fatalf("end referenced %q, want the most recent start %q", id, second)
	}
}

func TestAnnotateOneShot(t *testing.T) {
	snd := newAnnotationSender()
	a := NewAnnotator(snd, logger.NopLogger{})
	id, err := a.Annotate(model.Event{Name: "restart", Host: "db-1", Time: time.Now()})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if id == "" {
		t.Fatalf("expected an id")
	}
	// One-shot annotations are not tracked, so an end for the same key is a
	// no-op.
	end, err := a.EndAnnotation(model.Event{Name: "restart", Host: "db-1", Time: time.Now()})
	if err != nil || end != "" {
		t.Fatalf("end after annotate: %q %v", end, err)
	}
}

func TestConcurrentStartEnd(t *testing.T) {
	snd := newAnnotationSender()
	a := NewAnnotator(snd, logger.NopLogger{})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ev := model.Event{Name: fmt.Sprintf("job %d", i%4), Host: "h", Time: time.Now()}
			if _, err := a.StartAnnotation(ev); err != nil {
				t.Errorf("start: %v", err)
			}
			if _, err := a.EndAnnotation(ev); err != nil {
				t.Errorf("end: %v", err)
			}
		}(i)
	}
	wg.Wait()
}
