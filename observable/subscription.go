package observable

import "sync"

// A Subscription ties an observer to a container. Disposing it stops further
// notifications.
type Subscription struct {
	id      string
	once    sync.Once
	dispose func()
}

func newSubscription(id string, dispose func()) *Subscription {
	return &Subscription{id: id, dispose: dispose}
}

// ID returns the identifier of the subscription, unique within its container.
func (s *Subscription) ID() string {
	return s.id
}

// Dispose removes the observer from the container. It is safe to call more
// than once.
func (s *Subscription) Dispose() {
	s.once.Do(s.dispose)
}
