// Package linebot is a minimal client for the LINE Messaging API covering
// what the wedding bot needs: webhook parsing, signature validation,
// replies, profile lookup, and message content download.
package linebot

import (
	"encoding/json"
	"fmt"
)

// EventType identifies the kind of webhook event
type EventType string

const (
	EventTypeMessage  EventType = "message"
	EventTypeFollow   EventType = "follow"
	EventTypeUnfollow EventType = "unfollow"
)

// MessageType identifies the kind of message within a message event
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeVideo MessageType = "video"
)

// WebhookRequest is the top-level webhook payload
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is one webhook event
type Event struct {
	Type       EventType `json:"type"`
	ReplyToken string    `json:"replyToken"`
	Source     Source    `json:"source"`
	Timestamp  int64     `json:"timestamp"`
	Message    *Message  `json:"message,omitempty"`
}

// Source identifies who triggered the event
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
}

// Message is the message attached to a message event
type Message struct {
	ID   string      `json:"id"`
	Type MessageType `json:"type"`
	Text string      `json:"text,omitempty"`
}

// ParseWebhookRequest decodes a validated webhook body
func ParseWebhookRequest(body []byte) (*WebhookRequest, error) {
	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("failed to parse webhook request: %w", err)
	}
	return &req, nil
}

// IsMediaMessage reports whether the event carries an image or video
func (e *Event) IsMediaMessage() bool {
	if e.Type != EventTypeMessage || e.Message == nil {
		return false
	}
	return e.Message.Type == MessageTypeImage || e.Message.Type == MessageTypeVideo
}

// IsTextMessage reports whether the event carries a text message
func (e *Event) IsTextMessage() bool {
	return e.Type == EventTypeMessage && e.Message != nil && e.Message.Type == MessageTypeText
}
