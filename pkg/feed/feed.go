// Package feed keeps the combined list of events, academic posts and
// reports current. New items get their toggle states seeded and a
// comment thread.
package feed

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/campuslink/campus/cli/pkg/comments"
	"github.com/campuslink/campus/cli/pkg/content"
	"github.com/campuslink/campus/cli/pkg/logger"
	"github.com/campuslink/campus/cli/pkg/metrics"
	"github.com/campuslink/campus/cli/pkg/poll"
	"github.com/campuslink/campus/cli/pkg/toggle"
)

// DefaultInterval is the feed refresh period
const DefaultInterval = 30 * time.Second

// Lister fetches the items of one kind. *api.Client satisfies it.
type Lister interface {
	ListItems(ctx context.Context, kind content.Kind) ([]content.Item, error)
}

// Options tunes a feed
type Options struct {
	Interval time.Duration
	Ordered  bool
	// Kinds limits the feed; empty means every kind.
	Kinds []content.Kind
	// SeedStates runs a status check for every new item
	SeedStates bool
	// OnError receives the error of the first fetch
	OnError func(error)
}

// Feed is a polled, typed item list
type Feed struct {
	lister   Lister
	toggles  *toggle.Controller
	comments comments.Remote
	metrics  *metrics.Metrics
	sub      *poll.Subscription
	seed     bool
	seeding  sync.WaitGroup
	// gate closes with the subscription so seeding stops writing
	gate     *toggle.Gate

	mu       sync.Mutex
	items    []content.Item
	threads  map[content.Key]*comments.Thread
	err      error
	onChange func([]content.Item)
}

// Open starts refreshing the feed. toggles may be nil when states are
// not seeded; onChange may be nil.
func Open(ctx context.Context, s *poll.Synchronizer, lister Lister, toggles *toggle.Controller, remote comments.Remote, m *metrics.Metrics, opts Options, onChange func([]content.Item)) *Feed {
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = content.Kinds
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	f := &Feed{
		gate:     &toggle.Gate{},
		lister:   lister,
		toggles:  toggles,
		comments: remote,
		metrics:  m,
		seed:     opts.SeedStates && toggles != nil,
		items:    []content.Item{},
		threads:  make(map[content.Key]*comments.Thread),
		onChange: onChange,
	}

	f.sub = poll.Start(ctx, s, poll.Options[[]content.Item]{
		Name:     "feed",
		Interval: interval,
		Ordered:  opts.Ordered,
		Fetch: func(ctx context.Context, _ poll.Mode) ([]content.Item, error) {
			return f.fetch(ctx, kinds)
		},
		Apply: func(items []content.Item) {
			f.apply(ctx, items)
		},
		OnError: func(err error) {
			f.mu.Lock()
			f.err = err
			f.mu.Unlock()
			if opts.OnError != nil {
				opts.OnError(err)
			}
		},
		OnStop: func() {
			cancel()
			f.gate.Close()
		},
	})
	return f
}

// fetch lists every kind concurrently and concatenates in kind order
func (f *Feed) fetch(ctx context.Context, kinds []content.Kind) ([]content.Item, error) {
	results := make([][]content.Item, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			items, err := f.lister.ListItems(gctx, kind)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []content.Item
	for _, items := range results {
		all = append(all, items...)
	}
	return all, nil
}

// apply replaces the item list and seeds the keys not seen before
func (f *Feed) apply(ctx context.Context, items []content.Item) {
	f.mu.Lock()

	var fresh []content.Key
	threads := make(map[content.Key]*comments.Thread, len(items))
	for _, it := range items {
		key := content.KeyOf(it)
		if th, ok := f.threads[key]; ok {
			th.Replace(it.ItemComments())
			threads[key] = th
			continue
		}
		threads[key] = comments.ForItem(f.comments, it, f.metrics)
		fresh = append(fresh, key)
	}

	f.items = append([]content.Item{}, items...)
	f.threads = threads
	f.err = nil
	fn := f.onChange
	snapshot := append([]content.Item{}, f.items...)
	seed := f.seed && len(fresh) > 0
	if seed {
		// Counted before the items become visible so WaitSeeded
		// covers them.
		f.seeding.Add(1)
	}
	f.mu.Unlock()

	logger.Debug("Feed refreshed", "items", len(items), "new", len(fresh))
	if seed {
		go func() {
			defer f.seeding.Done()
			f.toggles.CheckAllGated(ctx, fresh, f.gate)
		}()
	}
	if fn != nil {
		fn(snapshot)
	}
}

// Items returns the latest item list
func (f *Feed) Items() []content.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]content.Item{}, f.items...)
}

// Thread returns the comment thread of an item in the feed
func (f *Feed) Thread(key content.Key) (*comments.Thread, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	th, ok := f.threads[key]
	return th, ok
}

// Err is the error of the first fetch, cleared by the next success
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Loading reports whether the first fetch is outstanding
func (f *Feed) Loading() bool {
	return f.sub.Loading()
}

// WaitSeeded blocks until every status check started so far is done
func (f *Feed) WaitSeeded() {
	f.seeding.Wait()
}

// Subscription exposes the poll loop so a scope can own it
func (f *Feed) Subscription() *poll.Subscription {
	return f.sub
}

// Close stops refreshing. No seeded state is written after it returns.
func (f *Feed) Close() {
	f.sub.Stop()
}
