package dispatch

import "fmt"

// Config defines queueing and worker pool settings.
type Config struct {
	// Name identifies the service instance for conflict checks.
	Name string `json:"name"`
	// Workers is the number of concurrent batch senders.
	Workers int `json:"workers"`
	// QueueSize bounds the number of buffered items; submission blocks when
	// the queue is full.
	QueueSize int `json:"queue_size"`
	// MaxBatch caps the number of items drained into a single send.
	MaxBatch int `json:"max_batch"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1000
	}
	if c.MaxBatch <= 0 {
		c.MaxBatch = c.QueueSize / c.Workers
	}
	if c.MaxBatch <= 0 {
		c.MaxBatch = 1
	}
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	if c.MaxBatch > c.QueueSize {
		return fmt.Errorf("max_batch %d exceeds queue_size %d", c.MaxBatch, c.QueueSize)
	}
	return nil
}
