package sender

import (
	"github.com/kilianp07/statrelay/core/registry"
	coresender "github.com/kilianp07/statrelay/core/sender"
	"github.com/kilianp07/statrelay/infra/logger"
)

// init registers built-in senders.
func init() {
	_ = coresender.RegisterSender("nop", func(map[string]any) (coresender.Sender, error) {
		return coresender.NopSender{}, nil
	})

	_ = coresender.RegisterSender("http", func(conf map[string]any) (coresender.Sender, error) {
		var c struct {
			URL   string `json:"url"`
			Token string `json:"token"`
		}
		if err := registry.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewHTTPSender(c.URL, c.Token, logger.New("http-sender")), nil
	})

	_ = coresender.RegisterSender("influx", func(conf map[string]any) (coresender.Sender, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := registry.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSenderWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
