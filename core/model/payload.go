package model

import (
	"fmt"
	"strings"
	"time"
)

// maxNameLen is the longest metric name the remote service accepts.
const maxNameLen = 255

// Payload is the sanitized, send-ready form of an Event.
type Payload struct {
	Name  string  `json:"name"`
	Host  string  `json:"host"`
	Value float64 `json:"value"`
	Time  int64   `json:"time"`
}

// Batch groups payloads by kind for a single send attempt. A batch is built
// by exactly one worker and never shared.
type Batch map[Kind][]Payload

// Len returns the total number of payloads across all kinds.
func (b Batch) Len() int {
	n := 0
	for _, ps := range b {
		n += len(ps)
	}
	return n
}

// Annotation describes a time-ranged marker on the remote service.
type Annotation struct {
	Name        string `json:"name"`
	Host        string `json:"host"`
	Start       int64  `json:"start"`
	End         int64  `json:"end,omitempty"`
	Description string `json:"description,omitempty"`
}

// Shape derives the send-ready payload for an event. It fails when the event
// is missing its name or host, before anything is enqueued.
func Shape(e Event) (Payload, error) {
	if e.Name == "" {
		return Payload{}, fmt.Errorf("event has no name")
	}
	if e.Host == "" {
		return Payload{}, fmt.Errorf("event %q has no host", e.Name)
	}
	return Payload{
		Name:  SanitizeName(e.Name),
		Host:  e.Host,
		Value: e.Value,
		Time:  UnixTime(e),
	}, nil
}

// UnixTime returns the event time rounded to the nearest whole second.
func UnixTime(e Event) int64 {
	return e.Time.Round(time.Second).Unix()
}

// SanitizeName normalizes a metric name for the remote service: spaces become
// underscores, runes outside [A-Za-z0-9.:_-] are dropped and the result is
// truncated to 255 characters.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ':' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > maxNameLen {
		s = s[:maxNameLen]
	}
	return s
}
