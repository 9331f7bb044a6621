package api

import (
	"context"

	"github.com/campuslink/campus/cli/pkg/content"
	"github.com/campuslink/campus/cli/pkg/endpoint"
	"github.com/campuslink/campus/cli/pkg/logger"
)

// ToggleNotify flips the viewer's reminder subscription for an event
func (c *Client) ToggleNotify(ctx context.Context, id string) (*bool, error) {
	logger.Debug("Toggling event notifications", "id", id)

	route, err := endpoint.Resolve(content.KindEvent, endpoint.NotifyToggle)
	if err != nil {
		return nil, err
	}

	var status notifyStatus
	if err := c.call(ctx, route, endpoint.Params{ID: id}, nil, &status); err != nil {
		return nil, err
	}
	return status.IsSubscribed, nil
}

// CheckNotify fetches the viewer's reminder subscription for an event
func (c *Client) CheckNotify(ctx context.Context, id string) (bool, error) {
	route, err := endpoint.Resolve(content.KindEvent, endpoint.NotifyCheck)
	if err != nil {
		return false, err
	}

	var status notifyStatus
	err = c.withRetry(ctx, "notify-check", func() error {
		return c.call(ctx, route, endpoint.Params{ID: id}, nil, &status)
	})
	if err != nil {
		return false, err
	}
	return status.IsSubscribed != nil && *status.IsSubscribed, nil
}
