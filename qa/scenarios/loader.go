// Package scenarios runs YAML-described relay workloads against a scripted
// sender, so failure behaviour can be reviewed without touching Go code.
package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/statrelay/core/model"
)

// EventDef describes one event to submit, optionally repeated.
type EventDef struct {
	Kind   string  `yaml:"kind"`
	Name   string  `yaml:"name"`
	Host   string  `yaml:"host"`
	Value  float64 `yaml:"value"`
	Repeat int     `yaml:"repeat,omitempty"`
}

// ToModel converts the definition into a submittable event stamped with the
// given time.
func (e EventDef) ToModel(ts time.Time) (model.Kind, model.Event, error) {
	kind, err := model.ParseKind(e.Kind)
	if err != nil {
		return 0, model.Event{}, err
	}
	return kind, model.Event{Name: e.Name, Host: e.Host, Value: e.Value, Time: ts}, nil
}

// DispatchDef overrides the dispatcher sizing for a scenario.
type DispatchDef struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
	MaxBatch  int `yaml:"max_batch"`
}

// Expected is the outcome a scenario asserts on.
type Expected struct {
	Delivered int `yaml:"delivered"`
	Dropped   int `yaml:"dropped"`
}

// Scenario is one workload definition.
type Scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Dispatch    DispatchDef `yaml:"dispatch"`
	Events      []EventDef  `yaml:"events"`
	// FailAfterBatches makes the sender reject every batch once that many
	// batches have been delivered. Nil means the sender never fails.
	FailAfterBatches *int     `yaml:"fail_after_batches,omitempty"`
	Expected         Expected `yaml:"expected"`
}

// Total returns the number of events the scenario submits.
func (s *Scenario) Total() int {
	n := 0
	for _, e := range s.Events {
		if e.Repeat > 1 {
			n += e.Repeat
		} else {
			n++
		}
	}
	return n
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Events) == 0 {
		return nil, fmt.Errorf("scenario %s has no events", sc.Name)
	}
	return &sc, nil
}
