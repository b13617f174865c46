package sender

import "github.com/kilianp07/statrelay/core/model"

// Sender delivers batches and annotations to the remote metrics service. The
// wire format is owned by the implementation; the dispatcher only produces
// batches and never retries a failed one.
type Sender interface {
	SendBatch(batch model.Batch) error
	CreateAnnotation(a model.Annotation) (string, error)
	UpdateAnnotation(id string, a model.Annotation) error
}

// NopSender implements Sender with no-op methods.
type NopSender struct{}

func (NopSender) SendBatch(model.Batch) error                       { return nil }
func (NopSender) CreateAnnotation(model.Annotation) (string, error) { return "", nil }
func (NopSender) UpdateAnnotation(string, model.Annotation) error   { return nil }
