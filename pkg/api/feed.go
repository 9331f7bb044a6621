package api

import (
	"context"

	"github.com/campuslink/campus/cli/pkg/content"
	"github.com/campuslink/campus/cli/pkg/endpoint"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
)

var listKeys = []string{"data", "items", "events", "posts", "reports"}

// ListItems fetches the feed of one content kind
func (c *Client) ListItems(ctx context.Context, kind content.Kind) ([]content.Item, error) {
	route, err := endpoint.Resolve(kind, endpoint.List)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, route.Method, route.Path(endpoint.Params{}), nil)
	if err != nil {
		return nil, err
	}
	body := resp.Body()

	switch kind {
	case content.KindEvent:
		return toItems(decodeList[content.EventPost](body, listKeys...))
	case content.KindAcademic:
		return toItems(decodeList[content.AcademicPost](body, listKeys...))
	case content.KindReport:
		return toItems(decodeList[content.ReportItem](body, listKeys...))
	}
	return nil, apperrors.Unsupported(string(kind), string(endpoint.List))
}

func toItems[T content.Item](list []T, err error) ([]content.Item, error) {
	if err != nil {
		return nil, err
	}
	items := make([]content.Item, 0, len(list))
	for _, it := range list {
		items = append(items, it)
	}
	return items, nil
}
