// Package api is the typed client for the campus REST API. Every
// content-item call is routed through the endpoint resolver.
package api

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"

	"github.com/campuslink/campus/cli/pkg/client"
	"github.com/campuslink/campus/cli/pkg/endpoint"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
	"github.com/campuslink/campus/cli/pkg/logger"
)

// Client issues campus API calls over a resty client
type Client struct {
	http       *resty.Client
	retryDelay time.Duration
}

// New wraps an existing resty client
func New(rc *resty.Client) *Client {
	return &Client{http: rc, retryDelay: 250 * time.Millisecond}
}

// SetRetryDelay changes the pause between retried attempts
func (c *Client) SetRetryDelay(d time.Duration) *Client {
	c.retryDelay = d
	return c
}

// Default returns a Client over the shared HTTP client
func Default() *Client {
	return New(client.GetClient())
}

// do executes one request. Transport failures become NetworkFailure,
// non-2xx responses become ServerRejected.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, apperrors.NetworkFailure(err)
	}
	if !resp.IsSuccess() {
		return resp, ParseError(resp)
	}
	return resp, nil
}

// call resolves nothing itself: it runs a resolved route and decodes
// the body into result when result is non-nil.
func (c *Client) call(ctx context.Context, route endpoint.Route, params endpoint.Params, body, result interface{}) error {
	resp, err := c.do(ctx, route.Method, route.Path(params), body)
	if err != nil {
		return err
	}
	if result == nil || len(bytes.TrimSpace(resp.Body())) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return apperrors.New(apperrors.KindServerRejected, fmt.Sprintf("malformed response from %s", route), err)
	}
	return nil
}

// withRetry retries fn on network failures only. Server rejections are
// returned immediately.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	err := retry.Do(
		func() error {
			lastErr = fn()
			if lastErr != nil && !apperrors.Is(lastErr, apperrors.KindNetwork) {
				return retry.Unrecoverable(lastErr)
			}
			return lastErr
		},
		retry.Attempts(3),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(2*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("Retrying request", "op", op, "attempt", n+1, "error", err)
		}),
	)
	if err != nil && lastErr != nil {
		return lastErr
	}
	return err
}

// decodeList accepts either a bare JSON array or an object envelope
// holding the array under one of keys.
func decodeList[T any](body []byte, keys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	out := []T{}
	if isNull(trimmed) {
		return out, nil
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, err
		}
		return nonNil(out), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	for _, key := range keys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		// jsoniter reads a null member as an empty RawMessage
		if isNull(bytes.TrimSpace(raw)) {
			return out, nil
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return nonNil(out), nil
	}
	return nil, fmt.Errorf("response has none of %v", keys)
}

func isNull(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
