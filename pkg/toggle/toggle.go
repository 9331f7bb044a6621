// Package toggle implements optimistic boolean actions on content
// items. A toggle flips the rendered value at once, asks the server to
// confirm it, and either adopts the server's answer or rolls back.
package toggle

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/campuslink/campus/cli/pkg/content"
	"github.com/campuslink/campus/cli/pkg/endpoint"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
	"github.com/campuslink/campus/cli/pkg/logger"
	"github.com/campuslink/campus/cli/pkg/metrics"
)

// Remote is the slice of the API the controller needs. *api.Client
// satisfies it.
type Remote interface {
	ToggleSave(ctx context.Context, kind content.Kind, id string) (*bool, error)
	CheckSaved(ctx context.Context, kind content.Kind, id string) (bool, error)
	SubmitWitness(ctx context.Context, id string) (*bool, error)
	CheckWitness(ctx context.Context, id string) (bool, error)
	ToggleNotify(ctx context.Context, id string) (*bool, error)
	CheckNotify(ctx context.Context, id string) (bool, error)
}

// DefaultCheckConcurrency bounds CheckAll
const DefaultCheckConcurrency = 4

// Controller drives toggles against a Store
type Controller struct {
	remote  Remote
	store   *Store
	metrics *metrics.Metrics

	// CheckConcurrency bounds the status checks CheckAll runs at once
	CheckConcurrency int
}

// NewController creates a controller. m may be nil.
func NewController(remote Remote, store *Store, m *metrics.Metrics) *Controller {
	return &Controller{
		remote:           remote,
		store:            store,
		metrics:          m,
		CheckConcurrency: DefaultCheckConcurrency,
	}
}

// Store returns the state the controller writes to
func (c *Controller) Store() *Store {
	return c.store
}

func routes(action Action) (toggle, check endpoint.Action, ok bool) {
	switch action {
	case Saved:
		return endpoint.SaveToggle, endpoint.SaveCheck, true
	case Witnessed:
		return endpoint.WitnessSubmit, endpoint.WitnessCheck, true
	case NotifySubscribed:
		return endpoint.NotifyToggle, endpoint.NotifyCheck, true
	}
	return "", "", false
}

// Supports reports whether action exists for kind
func Supports(kind content.Kind, action Action) bool {
	t, _, ok := routes(action)
	return ok && endpoint.Supports(kind, t)
}

// Toggle flips action on an item and waits for the server to confirm.
// On failure the value reverts and the error is returned. A second
// toggle on the same key while the first is unconfirmed fails with
// InvalidState and issues no call.
func (c *Controller) Toggle(ctx context.Context, id string, kind content.Kind, action Action) (State, error) {
	key := KeyFor(id, kind, action)

	if !Supports(kind, action) {
		c.metrics.Toggle(string(action), "unsupported")
		return c.store.Get(key), apperrors.Unsupported(string(kind), string(action))
	}

	// Witnessing is one-way
	if action == Witnessed {
		if st := c.store.Get(key); st.Known && st.Value() {
			c.metrics.Toggle(string(action), "noop")
			return st, nil
		}
	}

	st, ok := c.store.begin(key)
	if !ok {
		c.metrics.Toggle(string(action), "refused")
		return st, apperrors.InvalidState("a change to " + key.String() + " is still being confirmed")
	}

	logger.Debug("Toggle started", "key", key.String(), "optimistic", st.Optimistic)

	server, err := c.confirm(ctx, id, kind, action)
	if err != nil {
		reverted := c.store.revert(key)
		err = classify(action, err)
		logger.Warn("Toggle reverted", "key", key.String(), "error", err)
		c.metrics.Toggle(string(action), "reverted")
		return reverted, err
	}

	value := st.Optimistic
	if server != nil {
		value = *server
	}
	confirmed := c.store.confirm(key, value)
	logger.Debug("Toggle confirmed", "key", key.String(), "value", value)
	c.metrics.Toggle(string(action), "confirmed")
	return confirmed, nil
}

func (c *Controller) confirm(ctx context.Context, id string, kind content.Kind, action Action) (*bool, error) {
	switch action {
	case Saved:
		return c.remote.ToggleSave(ctx, kind, id)
	case Witnessed:
		return c.remote.SubmitWitness(ctx, id)
	case NotifySubscribed:
		return c.remote.ToggleNotify(ctx, id)
	}
	return nil, apperrors.Unsupported(string(kind), string(action))
}

// classify maps the own-report witness rejection to its own kind
func classify(action Action, err error) error {
	if action != Witnessed {
		return err
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Kind == apperrors.KindServerRejected && apperrors.IsSelfWitnessMessage(appErr.Message) {
		return apperrors.SelfWitness(appErr.StatusCode, appErr.Message)
	}
	return err
}

// CheckStatus seeds the value of one key from the server. It never
// marks the key pending and is skipped while a toggle is in flight.
// A read that a toggle overtook is dropped. Failures are logged and
// leave the state untouched.
func (c *Controller) CheckStatus(ctx context.Context, id string, kind content.Kind, action Action) State {
	return c.checkStatus(ctx, id, kind, action, nil)
}

func (c *Controller) checkStatus(ctx context.Context, id string, kind content.Kind, action Action, gate *Gate) State {
	key := KeyFor(id, kind, action)

	if !Supports(kind, action) {
		return c.store.Get(key)
	}
	if st := c.store.Get(key); st.Pending {
		c.metrics.StatusCheck(string(action), "skipped")
		return st
	}
	gen := c.store.generation(key)

	value, err := c.check(ctx, id, kind, action)
	if err != nil {
		logger.Warn("Status check failed", "key", key.String(), "error", err)
		c.metrics.StatusCheck(string(action), "failed")
		return c.store.Get(key)
	}

	var (
		st     State
		seeded bool
	)
	admitted := gate.Admit(func() {
		st, seeded = c.store.seedAt(key, value, gen)
	})
	switch {
	case !admitted:
		c.metrics.StatusCheck(string(action), "closed")
		return c.store.Get(key)
	case !seeded:
		logger.Debug("Dropping status read overtaken by a toggle", "key", key.String())
		c.metrics.StatusCheck(string(action), "stale")
	default:
		c.metrics.StatusCheck(string(action), "seeded")
	}
	return st
}

func (c *Controller) check(ctx context.Context, id string, kind content.Kind, action Action) (bool, error) {
	switch action {
	case Saved:
		return c.remote.CheckSaved(ctx, kind, id)
	case Witnessed:
		return c.remote.CheckWitness(ctx, id)
	case NotifySubscribed:
		return c.remote.CheckNotify(ctx, id)
	}
	return false, apperrors.Unsupported(string(kind), string(action))
}

// CheckAll seeds every supported action of every item. Checks run
// concurrently up to CheckConcurrency.
func (c *Controller) CheckAll(ctx context.Context, items []content.Key) {
	c.CheckAllGated(ctx, items, nil)
}

// CheckAllGated is CheckAll whose results are written only while gate
// is open. A nil gate is always open.
func (c *Controller) CheckAllGated(ctx context.Context, items []content.Key, gate *Gate) {
	limit := c.CheckConcurrency
	if limit <= 0 {
		limit = DefaultCheckConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, item := range items {
		for _, action := range Actions {
			if !Supports(item.Kind, action) {
				continue
			}
			item, action := item, action
			g.Go(func() error {
				c.checkStatus(gctx, item.ID, item.Kind, action, gate)
				return nil
			})
		}
	}

	_ = g.Wait()
}
