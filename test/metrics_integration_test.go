package test

import (
	"context"
	"testing"
	"time"

	"github.com/kilianp07/statrelay/app"
	"github.com/kilianp07/statrelay/core/dispatch"
	"github.com/kilianp07/statrelay/core/model"
	infralogger "github.com/kilianp07/statrelay/infra/logger"
	"github.com/kilianp07/statrelay/test/util"
)

// TestMetricsEndpointIntegration submits events through a running dispatcher
// and verifies the relay counters show up on the Prometheus endpoint.
func TestMetricsEndpointIntegration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := "127.0.0.1:19321"
	go func() {
		if err := app.StartPromServer(ctx, addr); err != nil {
			t.Logf("prom server: %v", err)
		}
	}()

	snd := &captureSender{}
	d, err := dispatch.NewDispatcher(dispatch.Config{Name: "metrics-it", Workers: 1, QueueSize: 16}, snd, infralogger.New("metrics-it"), nil, nil)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	d.Start()
	defer d.Stop()

	if _, err := d.Submit(model.KindGauge, model.Event{Name: "load", Host: "h1", Value: 1, Time: time.Now()}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	waitCtx, waitCancel := context.WithTimeout(ctx, util.MetricTimeout)
	defer waitCancel()
	url := "http://" + addr + "/metrics"
	if err := util.WaitForMetric(waitCtx, url, "relay_events_enqueued_total"); err != nil {
		t.Fatalf("enqueue counter missing: %v", err)
	}
	if err := util.WaitForMetric(waitCtx, url, "relay_batches_sent_total"); err != nil {
		t.Fatalf("batch counter missing: %v", err)
	}
}
