package api

import (
	"context"

	"github.com/campuslink/campus/cli/pkg/content"
	"github.com/campuslink/campus/cli/pkg/endpoint"
	"github.com/campuslink/campus/cli/pkg/logger"
)

// ToggleSave flips the saved flag of an item. The returned pointer is
// the server's authoritative value, nil when the response omits it.
func (c *Client) ToggleSave(ctx context.Context, kind content.Kind, id string) (*bool, error) {
	logger.Debug("Toggling save", "kind", kind, "id", id)

	route, err := endpoint.Resolve(kind, endpoint.SaveToggle)
	if err != nil {
		return nil, err
	}
	typ, err := endpoint.SaveType(kind)
	if err != nil {
		return nil, err
	}

	var status saveStatus
	body := SaveToggleRequest{PostID: id, Type: typ}
	if err := c.call(ctx, route, endpoint.Params{ID: id}, body, &status); err != nil {
		return nil, err
	}
	return status.IsSaved, nil
}

// CheckSaved fetches whether the viewer saved an item
func (c *Client) CheckSaved(ctx context.Context, kind content.Kind, id string) (bool, error) {
	route, err := endpoint.Resolve(kind, endpoint.SaveCheck)
	if err != nil {
		return false, err
	}
	typ, err := endpoint.SaveType(kind)
	if err != nil {
		return false, err
	}

	var status saveStatus
	err = c.withRetry(ctx, "save-check", func() error {
		return c.call(ctx, route, endpoint.Params{ID: id, Type: typ}, nil, &status)
	})
	if err != nil {
		return false, err
	}
	return status.IsSaved != nil && *status.IsSaved, nil
}
