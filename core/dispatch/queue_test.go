package dispatch

import (
	"testing"
	"time"

	"github.com/kilianp07/statrelay/core/model"
)

func gaugeItem(name string) item {
	return item{kind: model.KindGauge, payload: model.Payload{Name: name, Host: "h", Value: 1}}
}

func TestDrainReturnsAtMostMax(t *testing.T) {
	q := newQueue(16)
	for i := 0; i < 5; i++ {
		q.submit(gaugeItem("m"))
	}
	tok := newStopToken()
	batch, ok := q.drain(tok, 3)
	if !ok {
		t.Fatalf("drain returned no batch")
	}
	if batch.Len() != 3 {
		t.Fatalf("batch len = %d, want 3", batch.Len())
	}
	if q.len() != 2 {
		t.Fatalf("expected 2 items left, got %d", q.len())
	}
}

func TestDrainSingleItemDoesNotBlock(t *testing.T) {
	q := newQueue(16)
	q.submit(gaugeItem("solo"))
	tok := newStopToken()
	done := make(chan model.Batch, 1)
	go func() {
		batch, _ := q.drain(tok, 10)
		done <- batch
	}()
	select {
	case batch := <-done:
		if batch.Len() != 1 {
			t.Fatalf("batch len = %d, want 1", batch.Len())
		}
	case <-time.After(time.Second):
		t.Fatalf("drain blocked on a single-item queue")
	}
}

func TestDrainGroupsByKind(t *testing.T) {
	q := newQueue(16)
	q.submit(item{kind: model.KindGauge, payload: model.Payload{Name: "g1"}})
	q.submit(item{kind: model.KindCounter, payload: model.Payload{Name: "c1"}})
	q.submit(item{kind: model.KindGauge, payload: model.Payload{Name: "g2"}})
	tok := newStopToken()
	batch, ok := q.drain(tok, 10)
	if !ok {
		t.Fatalf("drain returned no batch")
	}
	if len(batch[model.KindGauge]) != 2 || len(batch[model.KindCounter]) != 1 {
		t.Fatalf("unexpected grouping: %v", batch)
	}
	if batch[model.KindGauge][0].Name != "g1" || batch[model.KindGauge][1].Name != "g2" {
		t.Fatalf("gauge order not preserved: %v", batch[model.KindGauge])
	}
}

func TestDrainUnblocksOnStop(t *testing.T) {
	q := newQueue(16)
	tok := newStopToken()
	done := make(chan bool, 1)
	go func() {
		_, ok := q.drain(tok, 10)
		done <- ok
	}()
	tok.stop()
	select {
	case ok := <-done:
		if ok {
			t.Fatalf("expected drain to report no batch after stop")
		}
	case <-time.After(time.Second):
		t.Fatalf("drain did not observe the stop token")
	}
}

func TestSubmitBlocksAtCapacity(t *testing.T) {
	q := newQueue(1)
	q.submit(gaugeItem("first"))
	unblocked := make(chan struct{})
	go func() {
		q.submit(gaugeItem("second"))
		close(unblocked)
	}()
	select {
	case <-unblocked:
		t.Fatalf("submit did not block on a full queue")
	case <-time.After(50 * time.Millisecond):
	}
	if _, ok := q.poll(); !ok {
		t.Fatalf("poll returned nothing")
	}
	select {
	case <-unblocked:
	case <-time.After(time.Second):
		t.Fatalf("submit still blocked after space was freed")
	}
}

func TestPollEmpty(t *testing.T) {
	q := newQueue(4)
	if _, ok := q.poll(); ok {
		t.Fatalf("poll on empty queue returned an item")
	}
}

func TestStopTokenIdempotent(t *testing.T) {
	tok := newStopToken()
	if tok.stopped() {
		t.Fatalf("fresh token reports stopped")
	}
	tok.stop()
	tok.stop()
	if !tok.stopped() {
		t.Fatalf("token not stopped after stop")
	}
}
