package dispatch

import (
	"sync"

	"github.com/kilianp07/statrelay/core/model"
)

// item is a payload tagged with the kind it was submitted under.
type item struct {
	kind    model.Kind
	payload model.Payload
}

// queue is the bounded buffer decoupling producers from the workers. The
// backing channel keeps submission order, so items of one kind stay FIFO.
type queue struct {
	ch chan item
}

func newQueue(size int) *queue {
	return &queue{ch: make(chan item, size)}
}

// submit blocks while the queue is at capacity. Items are never dropped.
func (q *queue) submit(it item) {
	q.ch <- it
}

// take blocks until an item is available or the stop token fires.
func (q *queue) take(tok *stopToken) (item, bool) {
	select {
	case it := <-q.ch:
		return it, true
	case <-tok.done:
		return item{}, false
	}
}

// poll returns an item only if one is immediately available.
func (q *queue) poll() (item, bool) {
	select {
	case it := <-q.ch:
		return it, true
	default:
		return item{}, false
	}
}

func (q *queue) len() int { return len(q.ch) }

// drain blocks for the first item of a new batch, then collects up to max-1
// additional items without waiting, grouped by kind. It returns false only
// when the stop token fired before an item arrived.
func (q *queue) drain(tok *stopToken, max int) (model.Batch, bool) {
	first, ok := q.take(tok)
	if !ok {
		return nil, false
	}
	batch := model.Batch{first.kind: {first.payload}}
	for n := 1; n < max; n++ {
		it, ok := q.poll()
		if !ok {
			break
		}
		batch[it.kind] = append(batch[it.kind], it.payload)
	}
	return batch, true
}

// stopToken is the single-assignment broadcast flag shared by the workers of
// one start generation. Workers never observe a token from another
// generation.
type stopToken struct {
	once sync.Once
	done chan struct{}
}

func newStopToken() *stopToken {
	return &stopToken{done: make(chan struct{})}
}

func (t *stopToken) stop() {
	t.once.Do(func() { close(t.done) })
}

func (t *stopToken) stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
