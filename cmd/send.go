package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/statrelay/app"
	"github.com/kilianp07/statrelay/config"
	"github.com/kilianp07/statrelay/core/model"
	"github.com/kilianp07/statrelay/infra/logger"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Inject a test gauge event and a paired annotation",
	RunE:  sendTestEvent,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func sendTestEvent(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("send-command")
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	ev := model.Event{Name: "statrelay.test", Host: "localhost", Value: 1, Time: time.Now()}
	svc.Dispatcher.Start()
	payload, err := svc.Dispatcher.Submit(model.KindGauge, ev)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	logg.Infof("enqueued %s for %s", payload.Name, payload.Host)

	if _, err := svc.Annotator.StartAnnotation(ev); err != nil {
		return fmt.Errorf("start annotation: %w", err)
	}
	if _, err := svc.Annotator.EndAnnotation(ev); err != nil {
		return fmt.Errorf("end annotation: %w", err)
	}

	// Give the workers a moment to flush the queue before stopping.
	time.Sleep(time.Second)
	svc.Dispatcher.Stop()
	return nil
}
