package api

import (
	"time"

	"github.com/campuslink/campus/cli/pkg/content"
)

// SaveToggleRequest is the body of POST /saved/toggle
type SaveToggleRequest struct {
	PostID string `json:"postId"`
	Type   string `json:"type"`
}

// saveStatus is returned by save toggle and save check
type saveStatus struct {
	IsSaved *bool  `json:"isSaved"`
	Message string `json:"message,omitempty"`
}

// witnessStatus is returned by witness submit and witness check
type witnessStatus struct {
	IsWitness    *bool  `json:"isWitness"`
	WitnessCount *int   `json:"witnessCount,omitempty"`
	Message      string `json:"message,omitempty"`
}

// notifyStatus is returned by notify toggle and notify check
type notifyStatus struct {
	IsSubscribed *bool  `json:"isSubscribed"`
	Message      string `json:"message,omitempty"`
}

// Witness is one entry of a report's witness list
type Witness struct {
	ID          string    `json:"_id"`
	DisplayName string    `json:"name"`
	AvatarRef   string    `json:"avatar"`
	WitnessedAt time.Time `json:"witnessedAt"`
}

// CommentRequest is the body of comment create and edit
type CommentRequest struct {
	Text string `json:"text"`
}

// ChatPartner is one row of the messaging inbox
type ChatPartner struct {
	ID          string `json:"_id"`
	DisplayName string `json:"name"`
	AvatarRef   string `json:"avatar"`
	UnreadCount int    `json:"unreadCount"`
}

// Message is one direct message in a conversation
type Message struct {
	ID        string    `json:"_id"`
	SenderRef string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// SendMessageRequest is the body of POST /message/send/{partnerId}
type SendMessageRequest struct {
	Text string `json:"text"`
}

// Comments is a server-authoritative comment list
type Comments = []content.Comment
