// Package events defines the event types published on the internal bus by
// the dispatcher so that hosts can observe sends without coupling to the
// worker loop.
package events

import (
	"time"

	"github.com/kilianp07/statrelay/core/model"
)

// BatchEvent is published after every send attempt, successful or not.
type BatchEvent struct {
	Items   int
	Kinds   map[model.Kind]int
	Err     error
	Latency time.Duration
}

// LifecycleEvent is published on dispatcher start and stop.
type LifecycleEvent struct {
	Service string
	Running bool
}
