package dispatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/statrelay/core/logger"
	"github.com/kilianp07/statrelay/core/model"
	"github.com/kilianp07/statrelay/core/sender"
)

type annKey struct {
	host string
	name string
}

// Annotator pairs annotation start and end calls, remembering the identifier
// issued by the remote service for each (host, name) pair. Annotations go
// straight to the sender, bypassing the batch queue. Safe for concurrent use.
type Annotator struct {
	sender sender.Sender
	logger logger.Logger

	mu  sync.Mutex
	ids map[annKey]string
}

// NewAnnotator creates an annotator bound to the given sender.
func NewAnnotator(snd sender.Sender, log logger.Logger) *Annotator {
	return &Annotator{sender: snd, logger: log, ids: make(map[annKey]string)}
}

// Annotate issues a one-shot annotation whose start and end are both set.
func (a *Annotator) Annotate(e model.Event) (string, error) {
	ann, err := shapeAnnotation(e)
	if err != nil {
		return "", err
	}
	if ann.End == 0 {
		ann.End = ann.Start
	}
	return a.sender.CreateAnnotation(ann)
}

// StartAnnotation opens an annotation and records the id issued for its
// (host, name) pair. A second start for the same pair overwrites the first.
func (a *Annotator) StartAnnotation(e model.Event) (string, error) {
	ann, err := shapeAnnotation(e)
	if err != nil {
		return "", err
	}
	id, err := a.sender.CreateAnnotation(ann)
	if err != nil {
		return "", err
	}
	key := annKey{host: e.Host, name: ann.Name}
	a.mu.Lock()
	a.ids[key] = id
	a.mu.Unlock()
	a.logger.Debugf("annotation %s opened for %s/%s", id, e.Host, ann.Name)
	return id, nil
}

// EndAnnotation closes a previously started annotation by issuing an update
// carrying the end time. When no matching start was recorded the call is a
// no-op and returns an empty id.
func (a *Annotator) EndAnnotation(e model.Event) (string, error) {
	ann, err := shapeAnnotation(e)
	if err != nil {
		return "", err
	}
	key := annKey{host: e.Host, name: ann.Name}
	a.mu.Lock()
	id, ok := a.ids[key]
	if ok {
		delete(a.ids, key)
	}
	a.mu.Unlock()
	if !ok {
		return "", nil
	}
	if ann.End == 0 {
		ann.End = time.Now().Round(time.Second).Unix()
	}
	if err := a.sender.UpdateAnnotation(id, ann); err != nil {
		return "", err
	}
	a.logger.Debugf("annotation %s closed for %s/%s", id, e.Host, ann.Name)
	return id, nil
}

// shapeAnnotation validates the event and derives the annotation fields.
func shapeAnnotation(e model.Event) (model.Annotation, error) {
	if e.Name == "" {
		return model.Annotation{}, fmt.Errorf("annotation event has no name")
	}
	if e.Host == "" {
		return model.Annotation{}, fmt.Errorf("annotation %q has no host", e.Name)
	}
	ann := model.Annotation{
		Name:        model.SanitizeName(e.Name),
		Host:        e.Host,
		Start:       model.UnixTime(e),
		Description: e.Description,
	}
	if e.End != nil {
		ann.End = e.End.Round(time.Second).Unix()
	}
	return ann, nil
}
