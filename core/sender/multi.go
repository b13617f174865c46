package sender

import "github.com/kilianp07/statrelay/core/model"

// MultiSender fans batches and annotations out to multiple senders.
type MultiSender struct {
	Senders []Sender
}

// NewMultiSender creates a MultiSender with the provided senders.
func NewMultiSender(senders ...Sender) *MultiSender {
	return &MultiSender{Senders: senders}
}

// SendBatch forwards the batch to all senders, returning the first error
// encountered.
func (m *MultiSender) SendBatch(batch model.Batch) error {
	for _, s := range m.Senders {
		if err := s.SendBatch(batch); err != nil {
			return err
		}
	}
	return nil
}

// CreateAnnotation forwards the annotation to all senders and returns the id
// issued by the first one.
func (m *MultiSender) CreateAnnotation(a model.Annotation) (string, error) {
	var id string
	for i, s := range m.Senders {
		got, err := s.CreateAnnotation(a)
		if err != nil {
			return "", err
		}
		if i == 0 {
			id = got
		}
	}
	return id, nil
}

// UpdateAnnotation forwards the update to all senders.
func (m *MultiSender) UpdateAnnotation(id string, a model.Annotation) error {
	for _, s := range m.Senders {
		if err := s.UpdateAnnotation(id, a); err != nil {
			return err
		}
	}
	return nil
}
