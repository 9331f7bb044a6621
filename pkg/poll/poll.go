// Package poll keeps remote state approximately current by refetching
// it on a fixed interval. Each Subscription fetches once immediately in
// the foreground, then in the background every Interval until stopped.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/campuslink/campus/cli/pkg/logger"
	"github.com/campuslink/campus/cli/pkg/metrics"
)

// Mode tells the fetch function whether the viewer is waiting on it
type Mode string

const (
	// Foreground is the first fetch of a subscription; the view shows a
	// loading state and errors are reported.
	Foreground Mode = "foreground"
	// Background fetches are silent; errors are logged only.
	Background Mode = "background"
)

// Options configures one subscription
type Options[T any] struct {
	// Name labels logs and metrics
	Name  string
	Fetch func(ctx context.Context, mode Mode) (T, error)
	Apply func(T)

	// Interval between background fetches. Zero disables them.
	Interval time.Duration

	// Ordered drops responses issued before the newest applied one.
	// By default the latest arriving response is applied.
	Ordered bool

	// OnError receives foreground fetch errors
	OnError func(error)

	// OnStop runs once when the subscription stops, before Stop
	// returns. It must not call Stop.
	OnStop func()
}

// Synchronizer starts subscriptions against a clock
type Synchronizer struct {
	clock   clockwork.Clock
	metrics *metrics.Metrics
}

// New creates a synchronizer. A nil clock means the real clock; m may
// be nil.
func New(clock clockwork.Clock, m *metrics.Metrics) *Synchronizer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Synchronizer{clock: clock, metrics: m}
}

// Clock returns the synchronizer's clock
func (s *Synchronizer) Clock() clockwork.Clock {
	return s.clock
}

// Subscription is one running poll loop
type Subscription struct {
	name string

	// mu guards the fields below. Apply runs while it is held, so no
	// Apply can start once Stop has returned.
	mu      sync.Mutex
	active  bool
	loading bool
	issued  uint64
	applied uint64

	stop     chan struct{}
	stopOnce sync.Once
	onStop   func()
	wg       sync.WaitGroup
}

// Stop ends the subscription. Fetches already in flight complete but
// their results are discarded. Stop is idempotent.
func (sub *Subscription) Stop() {
	sub.stopOnce.Do(func() {
		sub.mu.Lock()
		sub.active = false
		sub.loading = false
		sub.mu.Unlock()
		close(sub.stop)
		if sub.onStop != nil {
			sub.onStop()
		}
		logger.Debug("Poll subscription stopped", "name", sub.name)
	})
}

// Active reports whether the subscription still applies results
func (sub *Subscription) Active() bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.active
}

// Loading reports whether the foreground fetch is still outstanding
func (sub *Subscription) Loading() bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.loading
}

// Wait blocks until the loop has exited and every fetch it issued has
// returned. Call it after Stop.
func (sub *Subscription) Wait() {
	sub.wg.Wait()
}

// Start begins polling: one foreground fetch now, then a background
// fetch every opts.Interval. The subscription stops when ctx is done.
// Apply must not call Stop.
func Start[T any](ctx context.Context, s *Synchronizer, opts Options[T]) *Subscription {
	if opts.Name == "" {
		opts.Name = "poll"
	}

	sub := &Subscription{
		name:    opts.Name,
		active:  true,
		loading: true,
		stop:    make(chan struct{}),
		onStop:  opts.OnStop,
	}
	r := &runner[T]{sub: sub, sync: s, opts: opts}

	logger.Debug("Poll subscription started", "name", opts.Name, "interval", opts.Interval)

	r.spawn(ctx, Foreground)

	// The ticker is created before Start returns so a fake clock sees
	// it as soon as the subscription exists.
	var ticker clockwork.Ticker
	if opts.Interval > 0 {
		ticker = s.clock.NewTicker(opts.Interval)
	}
	sub.wg.Add(1)
	go r.loop(ctx, ticker)

	return sub
}

type runner[T any] struct {
	sub  *Subscription
	sync *Synchronizer
	opts Options[T]
}

func (r *runner[T]) loop(ctx context.Context, ticker clockwork.Ticker) {
	defer r.sub.wg.Done()

	var tick <-chan time.Time
	if ticker != nil {
		defer ticker.Stop()
		tick = ticker.Chan()
	}

	for {
		select {
		case <-ctx.Done():
			r.sub.Stop()
			return
		case <-r.sub.stop:
			return
		case <-tick:
			if !r.sub.Active() {
				return
			}
			// Ticks may overlap a slow fetch; each runs on its own.
			r.spawn(ctx, Background)
		}
	}
}

// spawn issues one fetch with the next sequence number
func (r *runner[T]) spawn(ctx context.Context, mode Mode) {
	r.sub.mu.Lock()
	r.sub.issued++
	seq := r.sub.issued
	r.sub.mu.Unlock()

	r.sub.wg.Add(1)
	go func() {
		defer r.sub.wg.Done()
		r.fetch(ctx, mode, seq)
	}()
}

func (r *runner[T]) fetch(ctx context.Context, mode Mode, seq uint64) {
	name := r.opts.Name
	result, err := r.opts.Fetch(ctx, mode)

	r.sub.mu.Lock()
	defer r.sub.mu.Unlock()

	if mode == Foreground {
		r.sub.loading = false
	}

	if !r.sub.active {
		r.sync.metrics.PollDiscarded(name, "stopped")
		logger.Debug("Discarding poll result after stop", "name", name, "seq", seq)
		return
	}

	if err != nil {
		r.sync.metrics.PollTick(name, string(mode), "error")
		if mode == Foreground {
			logger.Warn("Poll fetch failed", "name", name, "error", err)
			if r.opts.OnError != nil {
				r.opts.OnError(err)
			}
		} else {
			logger.Debug("Background poll fetch failed", "name", name, "error", err)
		}
		return
	}

	if r.opts.Ordered && seq < r.sub.applied {
		r.sync.metrics.PollDiscarded(name, "stale")
		logger.Debug("Discarding stale poll result", "name", name, "seq", seq, "applied", r.sub.applied)
		return
	}

	if seq > r.sub.applied {
		r.sub.applied = seq
	}
	r.sync.metrics.PollTick(name, string(mode), "applied")
	if r.opts.Apply != nil {
		r.opts.Apply(result)
	}
}
