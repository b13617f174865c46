package main

import (
	"fmt"
	"time"
)

// Config holds the simulator command line options.
type Config struct {
	Broker      string
	TopicPrefix string
	Hosts       int
	Metrics     int
	Interval    time.Duration
	Jitter      float64
	DropRate    float64
	Duration    time.Duration
	Verbose     bool
}

// Validate checks option ranges before the simulation starts.
func (c *Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker URL required")
	}
	if c.Hosts <= 0 {
		return fmt.Errorf("hosts must be positive, got %d", c.Hosts)
	}
	if c.Metrics <= 0 {
		return fmt.Errorf("metrics must be positive, got %d", c.Metrics)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.DropRate < 0 || c.DropRate > 1 {
		return fmt.Errorf("drop-rate must be within [0,1], got %f", c.DropRate)
	}
	if c.Jitter < 0 || c.Jitter > 1 {
		return fmt.Errorf("jitter must be within [0,1], got %f", c.Jitter)
	}
	return nil
}
