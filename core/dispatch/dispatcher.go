package dispatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/statrelay/core/events"
	"github.com/kilianp07/statrelay/core/logger"
	"github.com/kilianp07/statrelay/core/model"
	"github.com/kilianp07/statrelay/core/sender"
	"github.com/kilianp07/statrelay/internal/eventbus"
	"github.com/kilianp07/statrelay/internal/stats"
)

// Dispatcher owns the queue and the worker pool and exposes the submission
// API to producers.
type Dispatcher struct {
	cfg     Config
	sender  sender.Sender
	logger  logger.Logger
	bus     eventbus.EventBus
	tracker *stats.Tracker
	queue   *queue

	mu    sync.Mutex
	token *stopToken
}

// NewDispatcher creates a dispatcher. The bus and tracker are optional and
// may be nil.
func NewDispatcher(cfg Config, snd sender.Sender, log logger.Logger, bus eventbus.EventBus, tracker *stats.Tracker) (*Dispatcher, error) {
	if snd == nil || log == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to NewDispatcher")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dispatch config: %w", err)
	}
	return &Dispatcher{
		cfg:     cfg,
		sender:  snd,
		logger:  log,
		bus:     bus,
		tracker: tracker,
		queue:   newQueue(cfg.QueueSize),
	}, nil
}

// Start spawns the worker pool. Calling Start while running is a no-op; the
// lock around the check-and-set guarantees a single worker generation.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.token != nil {
		return
	}
	tok := newStopToken()
	d.token = tok
	for i := 0; i < d.cfg.Workers; i++ {
		go d.worker(tok, i)
	}
	d.logger.Infof("started %d workers (queue %d, batch %d)", d.cfg.Workers, d.cfg.QueueSize, d.cfg.MaxBatch)
	if d.bus != nil {
		d.bus.Publish(events.LifecycleEvent{Service: d.cfg.Name, Running: true})
	}
}

// Stop signals the current worker generation to exit and clears it. Workers
// finish their in-flight send first; Stop does not wait for them. Calling
// Stop while stopped is a no-op.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.token == nil {
		return
	}
	d.token.stop()
	d.token = nil
	d.logger.Infof("stop requested, workers exit after their current batch")
	if d.bus != nil {
		d.bus.Publish(events.LifecycleEvent{Service: d.cfg.Name, Running: false})
	}
}

// Running reports whether a worker generation is active.
func (d *Dispatcher) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.token != nil
}

// Conflicts reports whether two dispatcher services would collide when
// registered with the same orchestrator. It has no side effects.
func (d *Dispatcher) Conflicts(other *Dispatcher) bool {
	return other != nil && d.cfg.Name == other.cfg.Name
}

// Submit shapes the events and enqueues one item per event under the given
// kind, blocking when the queue is at capacity. It returns the payload of
// the last event; a returned payload confirms shaping and enqueueing only,
// not delivery.
func (d *Dispatcher) Submit(kind model.Kind, evs ...model.Event) (model.Payload, error) {
	if len(evs) == 0 {
		return model.Payload{}, fmt.Errorf("dispatch: no events submitted")
	}
	var last model.Payload
	for _, e := range evs {
		p, err := model.Shape(e)
		if err != nil {
			return model.Payload{}, err
		}
		d.queue.submit(item{kind: kind, payload: p})
		eventsEnqueued.WithLabelValues(kind.String()).Inc()
		queueDepth.Set(float64(d.queue.len()))
		last = p
	}
	return last, nil
}

// worker loops drain-and-send until its generation token fires. The stop
// check runs after the send so an in-flight batch always completes.
func (d *Dispatcher) worker(tok *stopToken, id int) {
	for {
		batch, ok := d.queue.drain(tok, d.cfg.MaxBatch)
		if ok {
			d.send(batch)
		}
		if tok.stopped() {
			d.logger.Debugf("worker %d exiting", id)
			return
		}
	}
}

// send delivers one batch. Errors are logged and the batch is dropped; no
// failure may take the worker down.
func (d *Dispatcher) send(batch model.Batch) {
	start := time.Now()
	err := d.trySend(batch)
	elapsed := time.Since(start)
	queueDepth.Set(float64(d.queue.len()))
	batchItems.Observe(float64(batch.Len()))
	sendLatency.Observe(elapsed.Seconds())
	if d.tracker != nil {
		d.tracker.Add(elapsed)
	}
	if err != nil {
		sendFailures.Inc()
		d.logger.Errorf("batch send failed, dropping %d items: %v", batch.Len(), err)
	} else {
		batchesSent.Inc()
	}
	if d.bus != nil {
		kinds := make(map[model.Kind]int, len(batch))
		for k, ps := range batch {
			kinds[k] = len(ps)
		}
		d.bus.Publish(events.BatchEvent{Items: batch.Len(), Kinds: kinds, Err: err, Latency: elapsed})
	}
}

// trySend converts a sender panic into an error at the worker boundary.
func (d *Dispatcher) trySend(batch model.Batch) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panic: %v", r)
		}
	}()
	return d.sender.SendBatch(batch)
}
