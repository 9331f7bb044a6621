package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/campuslink/campus/cli/pkg/api"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
	"github.com/campuslink/campus/cli/pkg/logger"
	"github.com/campuslink/campus/cli/pkg/poll"
)

// ConversationRemote is the messaging API of one thread. *api.Client
// satisfies it.
type ConversationRemote interface {
	GetConversation(ctx context.Context, partnerID string) ([]api.Message, error)
	SendMessage(ctx context.Context, partnerID, text string) (*api.Message, error)
	MarkRead(ctx context.Context, partnerID string) error
}

// Conversation is an open message thread with one partner
type Conversation struct {
	partnerID string
	remote    ConversationRemote
	sub       *poll.Subscription
	marked    chan struct{}

	mu       sync.Mutex
	messages []api.Message
	err      error
	onChange func([]api.Message)
}

// OpenConversation starts polling a thread and marks it read once
func OpenConversation(ctx context.Context, s *poll.Synchronizer, remote ConversationRemote, partnerID string, opts Options, onChange func([]api.Message)) *Conversation {
	cv := &Conversation{
		partnerID: partnerID,
		remote:    remote,
		marked:    make(chan struct{}),
		messages:  []api.Message{},
		onChange:  onChange,
	}

	go func() {
		defer close(cv.marked)
		if err := remote.MarkRead(ctx, partnerID); err != nil {
			logger.Warn("Failed to mark conversation read", "partner_id", partnerID, "error", err)
		}
	}()

	cv.sub = poll.Start(ctx, s, poll.Options[[]api.Message]{
		Name:     "conversation",
		Interval: opts.interval(),
		Ordered:  opts.Ordered,
		Fetch: func(ctx context.Context, _ poll.Mode) ([]api.Message, error) {
			return remote.GetConversation(ctx, partnerID)
		},
		Apply: cv.replace,
		OnError: func(err error) {
			cv.mu.Lock()
			cv.err = err
			cv.mu.Unlock()
			if opts.OnError != nil {
				opts.OnError(err)
			}
		},
	})
	return cv
}

// PartnerID identifies the other participant
func (cv *Conversation) PartnerID() string {
	return cv.partnerID
}

// Marked is closed once the mark-read call has returned
func (cv *Conversation) Marked() <-chan struct{} {
	return cv.marked
}

func (cv *Conversation) replace(msgs []api.Message) {
	cv.mu.Lock()
	cv.messages = msgs
	cv.err = nil
	cv.mu.Unlock()
	cv.notify()
}

func (cv *Conversation) notify() {
	cv.mu.Lock()
	fn := cv.onChange
	snapshot := append([]api.Message{}, cv.messages...)
	cv.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}

// Messages returns the current thread
func (cv *Conversation) Messages() []api.Message {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return append([]api.Message{}, cv.messages...)
}

// Err is the error of the first fetch, cleared by the next success
func (cv *Conversation) Err() error {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.err
}

// Loading reports whether the first fetch is outstanding
func (cv *Conversation) Loading() bool {
	return cv.sub.Loading()
}

// Send posts a message. On success it is appended locally until the
// next poll tick replaces the thread.
func (cv *Conversation) Send(ctx context.Context, text string) (*api.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Validation("message", "cannot be empty")
	}

	msg, err := cv.remote.SendMessage(ctx, cv.partnerID, text)
	if err != nil {
		logger.Warn("Failed to send message", "partner_id", cv.partnerID, "error", err)
		return nil, err
	}

	cv.mu.Lock()
	cv.messages = append(cv.messages, *msg)
	cv.mu.Unlock()
	cv.notify()
	return msg, nil
}

// Subscription exposes the poll loop so a scope can own it
func (cv *Conversation) Subscription() *poll.Subscription {
	return cv.sub
}

// Close stops polling the thread
func (cv *Conversation) Close() {
	cv.sub.Stop()
}
