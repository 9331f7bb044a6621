// Package content defines the campus feed items and the discriminator
// that decides which backend resource services actions on them.
package content

import (
	"fmt"
	"time"
)

// Kind is the content-kind discriminator
type Kind string

const (
	KindEvent    Kind = "event"
	KindAcademic Kind = "academic"
	KindReport   Kind = "report"
)

// Kinds lists every content kind in feed order.
var Kinds = []Kind{KindEvent, KindAcademic, KindReport}

// ParseKind validates a user-supplied kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindEvent, KindAcademic, KindReport:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown content kind %q (want event, academic or report)", s)
}

// Comment is owned by exactly one item
type Comment struct {
	ID        string    `json:"_id"`
	AuthorRef string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Item is the tagged union over EventPost, AcademicPost and ReportItem.
// The unexported marker keeps the set closed to this package.
type Item interface {
	Kind() Kind
	ItemID() string
	ItemComments() []Comment
	isItem()
}

// Base holds the fields every variant shares
type Base struct {
	ID        string    `json:"_id"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b Base) ItemID() string          { return b.ID }
func (b Base) ItemComments() []Comment { return b.Comments }

// EventPost is a campus event announcement
type EventPost struct {
	Base
	Title     string    `json:"title"`
	Venue     string    `json:"venue"`
	StartsAt  time.Time `json:"startsAt"`
	Organizer string    `json:"organizer"`
}

func (EventPost) Kind() Kind { return KindEvent }
func (EventPost) isItem()    {}

// AcademicPost is an academic announcement
type AcademicPost struct {
	Base
	Title      string `json:"title"`
	Department string `json:"department"`
	Body       string `json:"body"`
}

func (AcademicPost) Kind() Kind { return KindAcademic }
func (AcademicPost) isItem()    {}

// ReportItem is a lost-and-found report
type ReportItem struct {
	Base
	ItemName     string `json:"itemName"`
	Status       string `json:"status"`
	Location     string `json:"location"`
	ReporterRef  string `json:"reportedBy"`
	WitnessCount int    `json:"witnessCount"`
}

func (ReportItem) Kind() Kind { return KindReport }
func (ReportItem) isItem()    {}

// Title returns a one-line label for any item
func Title(it Item) string {
	switch v := it.(type) {
	case EventPost:
		return v.Title
	case AcademicPost:
		return v.Title
	case ReportItem:
		return fmt.Sprintf("[%s] %s", v.Status, v.ItemName)
	}
	return it.ItemID()
}

// Key identifies an item across kinds
type Key struct {
	ID   string
	Kind Kind
}

func (k Key) String() string {
	return string(k.Kind) + "/" + k.ID
}

// KeyOf returns the key of an item
func KeyOf(it Item) Key {
	return Key{ID: it.ItemID(), Kind: it.Kind()}
}
