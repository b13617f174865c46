package sender

import "github.com/kilianp07/statrelay/core/registry"

var senderRegistry = registry.New[Sender]()

// RegisterSender adds a sender factory identified by name.
func RegisterSender(name string, f registry.Factory[Sender]) error {
	return senderRegistry.Register(name, f)
}

// NewSender creates a Sender from the provided configuration. Zero configs
// yield a NopSender, several are fanned out through a MultiSender.
func NewSender(cfgs []registry.ModuleConfig) (Sender, error) {
	if len(cfgs) == 0 {
		return NopSender{}, nil
	}
	if len(cfgs) == 1 {
		return senderRegistry.Create(cfgs[0])
	}
	senders := make([]Sender, len(cfgs))
	for i, c := range cfgs {
		s, err := senderRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		senders[i] = s
	}
	return NewMultiSender(senders...), nil
}
