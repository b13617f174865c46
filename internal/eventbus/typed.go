package eventbus

// SubscribeTyped filters a bus subscription down to events of type T. Events
// of other types are discarded. The returned channel closes when the source
// subscription closes.
func SubscribeTyped[T any](bus EventBus) (<-chan T, func()) {
	src := bus.Subscribe()
	out := make(chan T, 8)
	go func() {
		defer close(out)
		for e := range src {
			if v, ok := e.(T); ok {
				select {
				case out <- v:
				default:
				}
			}
		}
	}()
	cancel := func() { bus.Unsubscribe(src) }
	return out, cancel
}
