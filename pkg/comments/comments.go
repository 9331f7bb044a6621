// Package comments manages the comment thread of one content item.
// Every mutation is confirmed by the server before the local list
// changes; the server's list always replaces the local one.
package comments

import (
	"context"
	"strings"
	"sync"

	"github.com/campuslink/campus/cli/pkg/content"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
	"github.com/campuslink/campus/cli/pkg/logger"
	"github.com/campuslink/campus/cli/pkg/metrics"
)

// Remote is the comment API. *api.Client satisfies it.
type Remote interface {
	CreateComment(ctx context.Context, kind content.Kind, itemID, text string) ([]content.Comment, error)
	EditComment(ctx context.Context, kind content.Kind, itemID, commentID, text string) ([]content.Comment, error)
	DeleteComment(ctx context.Context, kind content.Kind, itemID, commentID string) ([]content.Comment, error)
}

// Thread is the comment list of one item plus its input state
type Thread struct {
	key     content.Key
	remote  Remote
	metrics *metrics.Metrics

	mu       sync.Mutex
	comments []content.Comment
	draft    string
	lastErr  error
	onChange func([]content.Comment)
}

// NewThread creates a thread for an item. m may be nil.
func NewThread(remote Remote, key content.Key, m *metrics.Metrics) *Thread {
	return &Thread{key: key, remote: remote, metrics: m, comments: []content.Comment{}}
}

// ForItem creates a thread seeded with the item's embedded comments
func ForItem(remote Remote, it content.Item, m *metrics.Metrics) *Thread {
	t := NewThread(remote, content.KeyOf(it), m)
	t.comments = append(t.comments, it.ItemComments()...)
	return t
}

// Key identifies the owning item
func (t *Thread) Key() content.Key {
	return t.key
}

// OnChange registers fn to run with the new list after every replace
func (t *Thread) OnChange(fn func([]content.Comment)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Comments returns a copy of the current list
func (t *Thread) Comments() []content.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]content.Comment{}, t.comments...)
}

// Draft returns the unsent input text
func (t *Thread) Draft() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft
}

// SetDraft stores the unsent input text
func (t *Thread) SetDraft(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.draft = text
}

// LastError is the inline error of the most recent mutation, nil
// after a success.
func (t *Thread) LastError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// Replace adopts a list fetched elsewhere, e.g. by a feed refresh
func (t *Thread) Replace(list []content.Comment) {
	t.replace(list)
}

// Add posts a comment. Blank text is rejected without a call. On
// success the list is replaced by the server's and the draft cleared.
func (t *Thread) Add(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return t.fail("add", apperrors.Validation("comment", "cannot be empty"))
	}

	list, err := t.remote.CreateComment(ctx, t.key.Kind, t.key.ID, text)
	if err != nil {
		return t.fail("add", err)
	}

	t.mu.Lock()
	t.draft = ""
	t.mu.Unlock()
	t.succeed("add", list)
	return nil
}

// Submit posts the current draft
func (t *Thread) Submit(ctx context.Context) error {
	return t.Add(ctx, t.Draft())
}

// Edit replaces a comment's text
func (t *Thread) Edit(ctx context.Context, commentID, text string) error {
	if strings.TrimSpace(text) == "" {
		return t.fail("edit", apperrors.Validation("comment", "cannot be empty"))
	}

	list, err := t.remote.EditComment(ctx, t.key.Kind, t.key.ID, commentID, text)
	if err != nil {
		return t.fail("edit", err)
	}
	t.succeed("edit", list)
	return nil
}

// Remove deletes a comment
func (t *Thread) Remove(ctx context.Context, commentID string) error {
	list, err := t.remote.DeleteComment(ctx, t.key.Kind, t.key.ID, commentID)
	if err != nil {
		return t.fail("remove", err)
	}
	t.succeed("remove", list)
	return nil
}

func (t *Thread) fail(op string, err error) error {
	logger.Warn("Comment operation failed", "item", t.key.String(), "op", op, "error", err)
	t.metrics.CommentOp(string(t.key.Kind), op, "failed")

	t.mu.Lock()
	t.lastErr = err
	t.mu.Unlock()
	return err
}

func (t *Thread) succeed(op string, list []content.Comment) {
	logger.Debug("Comment operation confirmed", "item", t.key.String(), "op", op, "count", len(list))
	t.metrics.CommentOp(string(t.key.Kind), op, "confirmed")

	t.mu.Lock()
	t.lastErr = nil
	t.mu.Unlock()
	t.replace(list)
}

func (t *Thread) replace(list []content.Comment) {
	t.mu.Lock()
	t.comments = append([]content.Comment{}, list...)
	snapshot := append([]content.Comment{}, t.comments...)
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}
