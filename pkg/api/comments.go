package api

import (
	"context"

	"github.com/campuslink/campus/cli/pkg/content"
	"github.com/campuslink/campus/cli/pkg/endpoint"
	"github.com/campuslink/campus/cli/pkg/logger"
)

// CreateComment posts a comment and returns the item's full comment list
func (c *Client) CreateComment(ctx context.Context, kind content.Kind, itemID, text string) (Comments, error) {
	logger.Debug("Creating comment", "kind", kind, "item_id", itemID)
	return c.commentCall(ctx, kind, endpoint.CommentCreate, endpoint.Params{ID: itemID}, &CommentRequest{Text: text})
}

// EditComment replaces a comment's text and returns the full list
func (c *Client) EditComment(ctx context.Context, kind content.Kind, itemID, commentID, text string) (Comments, error) {
	logger.Debug("Editing comment", "kind", kind, "item_id", itemID, "comment_id", commentID)
	return c.commentCall(ctx, kind, endpoint.CommentEdit, endpoint.Params{ID: itemID, CommentID: commentID}, &CommentRequest{Text: text})
}

// DeleteComment removes a comment and returns the remaining list
func (c *Client) DeleteComment(ctx context.Context, kind content.Kind, itemID, commentID string) (Comments, error) {
	logger.Debug("Deleting comment", "kind", kind, "item_id", itemID, "comment_id", commentID)
	return c.commentCall(ctx, kind, endpoint.CommentDelete, endpoint.Params{ID: itemID, CommentID: commentID}, nil)
}

func (c *Client) commentCall(ctx context.Context, kind content.Kind, action endpoint.Action, params endpoint.Params, body interface{}) (Comments, error) {
	route, err := endpoint.Resolve(kind, action)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, route.Method, route.Path(params), body)
	if err != nil {
		return nil, err
	}
	return decodeList[content.Comment](resp.Body(), "comments", "data")
}
