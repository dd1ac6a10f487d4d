package domain

import "strings"

// MessageType classifies an inbound message as delivered by the transport.
type MessageType string

const (
	MessageText         MessageType = "chat"
	MessageListResponse MessageType = "list_response"
	MessageImage        MessageType = "image"
)

// Message is one inbound message.
type Message struct {
	From        string      `json:"from"`
	Body        string      `json:"body"`
	Type        MessageType `json:"type"`
	SelectionID string      `json:"selection_id,omitempty"`
}

// IsSelection reports whether the message is a structured list selection.
func (m Message) IsSelection() bool {
	return m.Type == MessageListResponse && m.SelectionID != ""
}

// Text returns the trimmed body.
func (m Message) Text() string {
	return strings.TrimSpace(m.Body)
}

// Normalized returns the trimmed, lower-cased body.
func (m Message) Normalized() string {
	return strings.ToLower(m.Text())
}
