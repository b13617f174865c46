// Command simulator floods a broker with synthetic monitoring events so the
// relay can be exercised without a real upstream pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {
	cfg := parseFlags()
	if err := (&cfg).Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	runHosts(ctx, cfg)
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Broker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	flag.StringVar(&cfg.TopicPrefix, "topic-prefix", "statrelay/events", "MQTT topic prefix")
	flag.IntVar(&cfg.Hosts, "hosts", 1, "number of simulated hosts")
	flag.IntVar(&cfg.Metrics, "metrics", 5, "metrics published per host per tick")
	flag.DurationVar(&cfg.Interval, "interval", 10*time.Second, "publish interval")
	flag.Float64Var(&cfg.Jitter, "jitter", 0.2, "interval jitter ratio")
	flag.Float64Var(&cfg.DropRate, "drop-rate", 0, "probability of skipping a publish")
	flag.DurationVar(&cfg.Duration, "duration", 0, "stop after this long (0 runs forever)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	flag.Parse()
	return cfg
}

func runHosts(ctx context.Context, cfg Config) {
	var wg sync.WaitGroup
	for i := 0; i < cfg.Hosts; i++ {
		h := &SimulatedHost{
			ID:          fmt.Sprintf("sim-host-%03d", i),
			Broker:      cfg.Broker,
			TopicPrefix: cfg.TopicPrefix,
			Metrics:     cfg.Metrics,
			Interval:    cfg.Interval,
			Jitter:      cfg.Jitter,
			DropRate:    cfg.DropRate,
			Verbose:     cfg.Verbose,
		}
		wg.Add(1)
		go func(h *SimulatedHost) {
			defer wg.Done()
			if err := h.Run(ctx); err != nil {
				log.Printf("%s: %v", h.ID, err)
			}
		}(h)
	}
	wg.Wait()
}
