// Package endpoint maps a (content kind, action) pair to the remote
// operation that services it. Resolution is pure; nothing here touches
// the network.
package endpoint

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/campuslink/campus/cli/pkg/content"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
)

// Action is a remote operation on a content item
type Action string

const (
	CommentCreate Action = "comment-create"
	CommentEdit   Action = "comment-edit"
	CommentDelete Action = "comment-delete"
	SaveToggle    Action = "save-toggle"
	SaveCheck     Action = "save-check"
	WitnessSubmit Action = "witness-submit"
	WitnessCheck  Action = "witness-check"
	WitnessList   Action = "witness-list"
	NotifyToggle  Action = "notify-toggle"
	NotifyCheck   Action = "notify-check"
	List          Action = "list"
)

// Route is a resolved remote operation. Pattern holds {id},
// {commentId} and {type} placeholders.
type Route struct {
	Method  string
	Pattern string
}

// Params fills the placeholders of a Route
type Params struct {
	ID        string
	CommentID string
	Type      string
}

// Path expands the pattern; values are path-escaped.
func (r Route) Path(p Params) string {
	return strings.NewReplacer(
		"{id}", url.PathEscape(p.ID),
		"{commentId}", url.PathEscape(p.CommentID),
		"{type}", url.PathEscape(p.Type),
	).Replace(r.Pattern)
}

func (r Route) String() string {
	return r.Method + " " + r.Pattern
}

// resource is the collection segment owning comments for a kind
func resource(kind content.Kind) (string, bool) {
	switch kind {
	case content.KindEvent:
		return "/events", true
	case content.KindAcademic:
		return "/academic", true
	case content.KindReport:
		return "/report_types", true
	}
	return "", false
}

// SaveType is the discriminator the saved-posts resource expects
func SaveType(kind content.Kind) (string, error) {
	switch kind {
	case content.KindEvent:
		return "Event", nil
	case content.KindAcademic:
		return "Academic", nil
	case content.KindReport:
		return "ReportItem", nil
	}
	return "", apperrors.Unsupported(string(kind), string(SaveToggle))
}

// Resolve returns the route for (kind, action) or an
// UnsupportedOperation error when no mapping exists.
func Resolve(kind content.Kind, action Action) (Route, error) {
	base, ok := resource(kind)
	if !ok {
		return Route{}, apperrors.Unsupported(string(kind), string(action))
	}

	switch action {
	case CommentCreate:
		return Route{http.MethodPost, base + "/{id}/comments"}, nil
	case CommentEdit:
		return Route{http.MethodPut, base + "/{id}/comments/{commentId}"}, nil
	case CommentDelete:
		return Route{http.MethodDelete, base + "/{id}/comments/{commentId}"}, nil
	case SaveToggle:
		return Route{http.MethodPost, "/saved/toggle"}, nil
	case SaveCheck:
		return Route{http.MethodGet, "/saved/check/{type}/{id}"}, nil
	case List:
		return Route{http.MethodGet, base}, nil
	}

	// Witnessing only exists for lost-and-found reports
	if kind == content.KindReport {
		switch action {
		case WitnessSubmit:
			return Route{http.MethodPost, "/report_types/{id}/witnesses"}, nil
		case WitnessCheck:
			return Route{http.MethodGet, "/report_types/{id}/witnesses"}, nil
		case WitnessList:
			return Route{http.MethodGet, "/report_types/{id}/witness-list"}, nil
		}
	}

	// Notification subscriptions only exist for events
	if kind == content.KindEvent {
		switch action {
		case NotifyToggle:
			return Route{http.MethodPut, "/events/toggle_notify/{id}"}, nil
		case NotifyCheck:
			return Route{http.MethodGet, "/events/get_notify_status/{id}"}, nil
		}
	}

	return Route{}, apperrors.Unsupported(string(kind), string(action))
}

// Supports reports whether Resolve would succeed
func Supports(kind content.Kind, action Action) bool {
	_, err := Resolve(kind, action)
	return err == nil
}
