package api

import (
	"context"

	"github.com/campuslink/campus/cli/pkg/content"
	"github.com/campuslink/campus/cli/pkg/endpoint"
	"github.com/campuslink/campus/cli/pkg/logger"
)

// SubmitWitness records the viewer as a witness of a report. Witnessing
// cannot be undone, so a successful call means true unless the server
// says otherwise.
func (c *Client) SubmitWitness(ctx context.Context, id string) (*bool, error) {
	logger.Debug("Submitting witness", "id", id)

	route, err := endpoint.Resolve(content.KindReport, endpoint.WitnessSubmit)
	if err != nil {
		return nil, err
	}

	var status witnessStatus
	if err := c.call(ctx, route, endpoint.Params{ID: id}, nil, &status); err != nil {
		return nil, err
	}
	if status.IsWitness == nil {
		witnessed := true
		return &witnessed, nil
	}
	return status.IsWitness, nil
}

// CheckWitness fetches whether the viewer witnessed a report
func (c *Client) CheckWitness(ctx context.Context, id string) (bool, error) {
	route, err := endpoint.Resolve(content.KindReport, endpoint.WitnessCheck)
	if err != nil {
		return false, err
	}

	var status witnessStatus
	err = c.withRetry(ctx, "witness-check", func() error {
		return c.call(ctx, route, endpoint.Params{ID: id}, nil, &status)
	})
	if err != nil {
		return false, err
	}
	return status.IsWitness != nil && *status.IsWitness, nil
}

// ListWitnesses returns the people who witnessed a report
func (c *Client) ListWitnesses(ctx context.Context, id string) ([]Witness, error) {
	logger.Debug("Listing witnesses", "id", id)

	route, err := endpoint.Resolve(content.KindReport, endpoint.WitnessList)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, route.Method, route.Path(endpoint.Params{ID: id}), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Witness](resp.Body(), "witnesses", "data")
}
