package service

import (
	"context"

	"github.com/campuslink/campus/cli/pkg/content"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
	"github.com/campuslink/campus/cli/pkg/feed"
	"github.com/campuslink/campus/cli/pkg/formatter"
	"github.com/campuslink/campus/cli/pkg/logger"
	"github.com/campuslink/campus/cli/pkg/poll"
)

// FeedService shows the combined campus feed
type FeedService struct {
	rt *Runtime
}

// NewFeedService creates a new feed service
func NewFeedService(rt *Runtime) *FeedService {
	return &FeedService{rt: rt}
}

// Watch prints the feed on every change until ctx is done. With once
// set it returns after the first fetch.
func (fs *FeedService) Watch(ctx context.Context, kinds []content.Kind, once bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	return fs.rt.Sync.Scope(ctx, func(ctx context.Context, sc *poll.Scope) error {
		first := make(chan error, 1)
		report := func(err error) {
			select {
			case first <- err:
			default:
			}
		}

		var last string
		opts := fs.rt.feedOptions()
		opts.Kinds = kinds
		opts.SeedStates = !once
		opts.OnError = func(err error) {
			fs.rt.Out.Warning("%s", apperrors.UserMessage(err))
			report(err)
		}

		f := feed.Open(ctx, fs.rt.Sync, fs.rt.API, fs.rt.Controller(), fs.rt.API, fs.rt.Metrics, opts, func(items []content.Item) {
			if changed(&last, items) {
				if err := fs.rt.Out.Table("Feed", formatter.ItemHeaders, formatter.ItemRows(items), items); err != nil {
					logger.Warn("Failed to print feed", "error", err)
				}
			}
			report(nil)
		})
		sc.Track(f.Subscription())

		if once {
			select {
			case err := <-first:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		<-ctx.Done()
		return nil
	})
}
