// Package formatter turns domain values into the records and rows the
// output printer understands.
package formatter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/campuslink/campus/cli/pkg/api"
	"github.com/campuslink/campus/cli/pkg/content"
	"github.com/campuslink/campus/cli/pkg/toggle"
)

const timeLayout = "2006-01-02 15:04"

// ToggleRecord describes one action state
func ToggleRecord(key toggle.Key, st toggle.State) map[string]interface{} {
	rec := map[string]interface{}{
		"item":    key.Item.String(),
		"action":  string(key.Action),
		"value":   st.Value(),
		"pending": st.Pending,
	}
	if !st.Known {
		rec["value"] = "unknown"
	}
	return rec
}

// StatusRows lists every supported action of an item
func StatusRows(item content.Key, store *toggle.Store) [][]string {
	var rows [][]string
	for _, action := range toggle.Actions {
		if !toggle.Supports(item.Kind, action) {
			continue
		}
		st := store.Get(toggle.Key{Item: item, Action: action})
		value := "unknown"
		if st.Known {
			value = strconv.FormatBool(st.Value())
		}
		rows = append(rows, []string{string(action), value})
	}
	return rows
}

// StatusHeaders heads StatusRows
var StatusHeaders = []string{"ACTION", "VALUE"}

// ItemHeaders heads ItemRows
var ItemHeaders = []string{"KIND", "ID", "TITLE", "COMMENTS"}

// ItemRows renders a feed
func ItemRows(items []content.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			string(it.Kind()),
			it.ItemID(),
			Truncate(content.Title(it), 48),
			strconv.Itoa(len(it.ItemComments())),
		})
	}
	return rows
}

// CommentHeaders heads CommentRows
var CommentHeaders = []string{"ID", "AUTHOR", "WHEN", "TEXT"}

// CommentRows renders a comment thread
func CommentRows(comments []content.Comment) [][]string {
	rows := make([][]string, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, []string{c.ID, c.AuthorRef, When(c.CreatedAt), Truncate(c.Text, 60)})
	}
	return rows
}

// PartnerHeaders heads PartnerRows
var PartnerHeaders = []string{"ID", "NAME", "UNREAD"}

// PartnerRows renders the inbox
func PartnerRows(partners []api.ChatPartner) [][]string {
	rows := make([][]string, 0, len(partners))
	for _, p := range partners {
		rows = append(rows, []string{p.ID, p.DisplayName, strconv.Itoa(p.UnreadCount)})
	}
	return rows
}

// MessageLine renders one chat message
func MessageLine(m api.Message) string {
	return fmt.Sprintf("[%s] %s: %s", When(m.CreatedAt), m.SenderRef, m.Text)
}

// WitnessHeaders heads WitnessRows
var WitnessHeaders = []string{"ID", "NAME", "WHEN"}

// WitnessRows renders a report's witness list
func WitnessRows(witnesses []api.Witness) [][]string {
	rows := make([][]string, 0, len(witnesses))
	for _, w := range witnesses {
		rows = append(rows, []string{w.ID, w.DisplayName, When(w.WitnessedAt)})
	}
	return rows
}

// When formats a timestamp in local time; zero is "-"
func When(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

// Truncate shortens s to max runes with an ellipsis
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
