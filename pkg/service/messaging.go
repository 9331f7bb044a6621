package service

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/campuslink/campus/cli/pkg/api"
	"github.com/campuslink/campus/cli/pkg/chat"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
	"github.com/campuslink/campus/cli/pkg/formatter"
	"github.com/campuslink/campus/cli/pkg/logger"
	"github.com/campuslink/campus/cli/pkg/output"
	"github.com/campuslink/campus/cli/pkg/poll"
)

// LineReader yields one line of user input at a time
type LineReader interface {
	ReadLine() (string, error)
}

// MessagingService handles the inbox and conversations
type MessagingService struct {
	rt *Runtime
}

// NewMessagingService creates a new messaging service
func NewMessagingService(rt *Runtime) *MessagingService {
	return &MessagingService{rt: rt}
}

// WatchInbox prints the partner list whenever it changes, until ctx
// is done.
func (ms *MessagingService) WatchInbox(ctx context.Context) error {
	return ms.rt.Sync.Scope(ctx, func(ctx context.Context, sc *poll.Scope) error {
		var last string
		opts := ms.rt.inboxOptions()
		opts.OnError = ms.warn

		in := chat.OpenInbox(ctx, ms.rt.Sync, ms.rt.API, opts, func(partners []api.ChatPartner) {
			if !changed(&last, partners) {
				return
			}
			total := 0
			for _, p := range partners {
				total += p.UnreadCount
			}
			if err := ms.rt.Out.Table("Inbox", formatter.PartnerHeaders, formatter.PartnerRows(partners), partners); err != nil {
				logger.Warn("Failed to print inbox", "error", err)
			}
			ms.rt.Out.Info("%d unread", total)
		})
		sc.Track(in.Subscription())

		<-ctx.Done()
		return nil
	})
}

// Chat shows a conversation and sends every line read from input.
// It returns at end of input or when ctx is done.
func (ms *MessagingService) Chat(ctx context.Context, partnerID string, input LineReader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	return ms.rt.Sync.Scope(ctx, func(ctx context.Context, sc *poll.Scope) error {
		var mu sync.Mutex
		printed := make(map[string]bool)
		opts := ms.rt.threadOptions()
		opts.OnError = ms.warn

		cv := chat.OpenConversation(ctx, ms.rt.Sync, ms.rt.API, partnerID, opts, func(msgs []api.Message) {
			// Polls and sends both report changes
			mu.Lock()
			defer mu.Unlock()
			ms.printNew(printed, msgs)
		})
		sc.Track(cv.Subscription())

		lines := make(chan string)
		go func() {
			defer close(lines)
			for {
				line, err := input.ReadLine()
				if line != "" {
					select {
					case lines <- line:
					case <-ctx.Done():
						return
					}
				}
				if err != nil {
					if err != io.EOF {
						logger.Warn("Failed to read input", "error", err)
					}
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				if strings.TrimSpace(line) == "" {
					continue
				}
				if _, err := cv.Send(ctx, line); err != nil {
					// A failed send does not end the session
					ms.rt.Out.Error("%s", apperrors.UserMessage(err))
				}
			}
		}
	})
}

// printNew prints messages not shown before
func (ms *MessagingService) printNew(printed map[string]bool, msgs []api.Message) {
	for _, m := range msgs {
		if m.ID == "" || printed[m.ID] {
			continue
		}
		printed[m.ID] = true
		if ms.rt.Out.Format() == output.FormatJSON {
			if err := ms.rt.Out.JSON(m); err != nil {
				logger.Warn("Failed to print message", "error", err)
			}
			continue
		}
		ms.rt.Out.Info("%s", formatter.MessageLine(m))
	}
}

func (ms *MessagingService) warn(err error) {
	ms.rt.Out.Warning("%s", apperrors.UserMessage(err))
}

// changed reports whether v renders differently from the last call
func changed(last *string, v interface{}) bool {
	s, err := output.FormatAsJSON(v)
	if err != nil || s == *last {
		return false
	}
	*last = s
	return true
}
