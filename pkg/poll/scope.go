package poll

import (
	"context"
	"sync"
)

// Scope owns subscriptions and releases all of them exactly once
type Scope struct {
	mu     sync.Mutex
	subs   []*Subscription
	closed bool
}

// Track hands ownership of sub to the scope. Tracking on a closed
// scope stops sub at once.
func (sc *Scope) Track(sub *Subscription) *Subscription {
	sc.mu.Lock()
	if sc.closed {
		sc.mu.Unlock()
		sub.Stop()
		return sub
	}
	sc.subs = append(sc.subs, sub)
	sc.mu.Unlock()
	return sub
}

// Close stops every tracked subscription. Later calls do nothing.
func (sc *Scope) Close() {
	sc.mu.Lock()
	if sc.closed {
		sc.mu.Unlock()
		return
	}
	sc.closed = true
	subs := sc.subs
	sc.subs = nil
	sc.mu.Unlock()

	for _, sub := range subs {
		sub.Stop()
	}
}

// Scope runs fn with a fresh scope and closes it when fn returns,
// whether fn fails or not.
func (s *Synchronizer) Scope(ctx context.Context, fn func(ctx context.Context, sc *Scope) error) error {
	sc := &Scope{}
	defer sc.Close()
	return fn(ctx, sc)
}
