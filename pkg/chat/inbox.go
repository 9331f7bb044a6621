// Package chat keeps the messaging inbox and an open conversation
// current by polling.
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/campuslink/campus/cli/pkg/api"
	"github.com/campuslink/campus/cli/pkg/poll"
)

// DefaultInterval is the refresh period of the inbox and conversations
const DefaultInterval = 2 * time.Second

// Options tunes a polled view
type Options struct {
	Interval time.Duration
	Ordered  bool
	// OnError receives the error of the first fetch
	OnError func(error)
}

func (o Options) interval() time.Duration {
	if o.Interval <= 0 {
		return DefaultInterval
	}
	return o.Interval
}

// InboxRemote lists chat partners. *api.Client satisfies it.
type InboxRemote interface {
	ListPartners(ctx context.Context) ([]api.ChatPartner, error)
}

// Inbox is the polled list of chat partners. Every tick replaces the
// list wholesale.
type Inbox struct {
	sub *poll.Subscription

	mu       sync.Mutex
	partners []api.ChatPartner
	err      error
	onChange func([]api.ChatPartner)
}

// OpenInbox starts polling the partner list. onChange may be nil.
func OpenInbox(ctx context.Context, s *poll.Synchronizer, remote InboxRemote, opts Options, onChange func([]api.ChatPartner)) *Inbox {
	in := &Inbox{partners: []api.ChatPartner{}, onChange: onChange}

	in.sub = poll.Start(ctx, s, poll.Options[[]api.ChatPartner]{
		Name:     "inbox",
		Interval: opts.interval(),
		Ordered:  opts.Ordered,
		Fetch: func(ctx context.Context, _ poll.Mode) ([]api.ChatPartner, error) {
			return remote.ListPartners(ctx)
		},
		Apply: in.apply,
		OnError: func(err error) {
			in.setErr(err)
			if opts.OnError != nil {
				opts.OnError(err)
			}
		},
	})
	return in
}

func (in *Inbox) apply(partners []api.ChatPartner) {
	in.mu.Lock()
	in.partners = partners
	in.err = nil
	fn := in.onChange
	in.mu.Unlock()

	if fn != nil {
		fn(append([]api.ChatPartner{}, partners...))
	}
}

func (in *Inbox) setErr(err error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.err = err
}

// Partners returns the latest list
func (in *Inbox) Partners() []api.ChatPartner {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]api.ChatPartner{}, in.partners...)
}

// UnreadTotal sums the unread counts of every partner
func (in *Inbox) UnreadTotal() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	total := 0
	for _, p := range in.partners {
		total += p.UnreadCount
	}
	return total
}

// Loading reports whether the first fetch is outstanding
func (in *Inbox) Loading() bool {
	return in.sub.Loading()
}

// Err is the error of the first fetch, cleared by the next success
func (in *Inbox) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.err
}

// Subscription exposes the poll loop so a scope can own it
func (in *Inbox) Subscription() *poll.Subscription {
	return in.sub
}

// Close stops polling
func (in *Inbox) Close() {
	in.sub.Stop()
}
