package service

import (
	"context"

	"github.com/campuslink/campus/cli/pkg/comments"
	"github.com/campuslink/campus/cli/pkg/content"
	"github.com/campuslink/campus/cli/pkg/formatter"
)

// CommentService provides operations for managing comments
type CommentService struct {
	rt *Runtime
}

// NewCommentService creates a new comment service
func NewCommentService(rt *Runtime) *CommentService {
	return &CommentService{rt: rt}
}

func (cs *CommentService) thread(kind content.Kind, itemID string) *comments.Thread {
	return comments.NewThread(cs.rt.API, content.Key{ID: itemID, Kind: kind}, cs.rt.Metrics)
}

// CreateComment posts a comment and prints the resulting thread
func (cs *CommentService) CreateComment(ctx context.Context, kind content.Kind, itemID, text string) error {
	th := cs.thread(kind, itemID)
	return cs.finish(th, "✓ Comment posted", th.Add(ctx, text))
}

// EditComment changes a comment's text
func (cs *CommentService) EditComment(ctx context.Context, kind content.Kind, itemID, commentID, text string) error {
	th := cs.thread(kind, itemID)
	return cs.finish(th, "✓ Comment updated", th.Edit(ctx, commentID, text))
}

// DeleteComment removes a comment
func (cs *CommentService) DeleteComment(ctx context.Context, kind content.Kind, itemID, commentID string) error {
	th := cs.thread(kind, itemID)
	return cs.finish(th, "✓ Comment deleted", th.Remove(ctx, commentID))
}

func (cs *CommentService) finish(th *comments.Thread, done string, err error) error {
	if err != nil {
		return err
	}
	cs.rt.Out.Success(done)
	list := th.Comments()
	return cs.rt.Out.Table(th.Key().String(), formatter.CommentHeaders, formatter.CommentRows(list), list)
}
