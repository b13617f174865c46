package model

import (
	"fmt"
	"time"
)

// Kind categorizes a queued metric and decides how it is grouped and sent.
type Kind int

const (
	KindGauge Kind = iota
	KindCounter
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindGauge:
		return "gauge"
	case KindCounter:
		return "counter"
	default:
		return "unknown"
	}
}

// ParseKind converts a string such as "gauge" into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "gauge":
		return KindGauge, nil
	case "counter":
		return KindCounter, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}

// Event is a monitoring record received from the upstream pipeline. It is
// treated as immutable once submitted.
type Event struct {
	Name        string     `json:"name"`
	Host        string     `json:"host"`
	Value       float64    `json:"value"`
	Time        time.Time  `json:"time"`
	End         *time.Time `json:"end,omitempty"`
	Description string     `json:"description,omitempty"`
}
