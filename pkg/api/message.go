package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	json "github.com/json-iterator/go"

	apperrors "github.com/campuslink/campus/cli/pkg/errors"
	"github.com/campuslink/campus/cli/pkg/logger"
)

// ListPartners returns the viewer's chat partners with unread counts
func (c *Client) ListPartners(ctx context.Context) ([]ChatPartner, error) {
	resp, err := c.do(ctx, http.MethodGet, "/message/partners/list", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[ChatPartner](resp.Body(), "partners", "data")
}

// GetConversation returns the messages exchanged with a partner
func (c *Client) GetConversation(ctx context.Context, partnerID string) ([]Message, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/message/%s", url.PathEscape(partnerID)), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Message](resp.Body(), "messages", "data")
}

// SendMessage sends text to a partner and returns the stored message
func (c *Client) SendMessage(ctx context.Context, partnerID, text string) (*Message, error) {
	logger.Debug("Sending message", "partner_id", partnerID)

	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/message/send/%s", url.PathEscape(partnerID)), SendMessageRequest{Text: text})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Message
		Data *Message `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, apperrors.New(apperrors.KindServerRejected, "malformed send response", err)
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return &envelope.Message, nil
}

// MarkRead clears the unread count of a conversation
func (c *Client) MarkRead(ctx context.Context, partnerID string) error {
	logger.Debug("Marking conversation read", "partner_id", partnerID)

	return c.withRetry(ctx, "mark-read", func() error {
		_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/message/markAsRead/%s", url.PathEscape(partnerID)), nil)
		return err
	})
}
