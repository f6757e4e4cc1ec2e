// Package protocol defines the JSON envelopes exchanged over the
// streaming channel and the wire shapes served by the control plane.
// Envelopes are discriminated by their "type" field.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"chatterbox/domain"

	"github.com/samber/lo"
)

// Inbound event tags.
const (
	EventMessage = "message"
	EventTyping  = "typing"
)

// Outbound event tags.
const (
	EventNewMessage = "new_message"
	EventError      = "error"
)

// Error codes carried by ErrorEvent.
const (
	CodeBadEvent     = "bad_event"
	CodeMissingField = "missing_field"
	CodeInternal     = "internal"
)

// ClientEvent is the inbound envelope read from a connection.
// IsTyping is a pointer so a missing field can be told apart from false.
type ClientEvent struct {
	Type     string `json:"type"`
	ChatID   string `json:"chat_id"`
	Text     string `json:"text"`
	IsTyping *bool  `json:"is_typing"`
}

// ParseClientEvent decodes a raw frame into a ClientEvent.
// Only JSON-level failures are errors here; field-level validation is
// the router's job because unrecognized tags must stay valid.
func ParseClientEvent(raw []byte) (ClientEvent, error) {
	var ev ClientEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ClientEvent{}, fmt.Errorf("malformed event: %w", err)
	}
	return ev, nil
}

// ServerEvent is any outbound envelope.
type ServerEvent interface {
	EventType() string
}

// WireMessage is the message shape as seen on the wire and by the
// control plane.
type WireMessage struct {
	ID          string    `json:"id"`
	ChatID      string    `json:"chat_id"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
	MessageType string    `json:"message_type"`
}

type NewMessageEvent struct {
	Type    string      `json:"type"`
	Message WireMessage `json:"message"`
}

func (e NewMessageEvent) EventType() string { return e.Type }

func NewMessage(m domain.Message) NewMessageEvent {
	return NewMessageEvent{Type: EventNewMessage, Message: FromMessage(m)}
}

type TypingEvent struct {
	Type     string `json:"type"`
	ChatID   string `json:"chat_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	IsTyping bool   `json:"is_typing"`
}

func (e TypingEvent) EventType() string { return e.Type }

func NewTyping(chatID, userID, userName string, isTyping bool) TypingEvent {
	return TypingEvent{
		Type:     EventTyping,
		ChatID:   chatID,
		UserID:   userID,
		UserName: userName,
		IsTyping: isTyping,
	}
}

// ErrorEvent is sent back to the offending connection instead of
// tearing it down.
type ErrorEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ErrorEvent) EventType() string { return e.Type }

func NewError(code, message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Code: code, Message: message}
}

// Control-plane wire shapes.

type WireUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	IsOnline bool   `json:"is_online"`
}

type WireChat struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Participants []string     `json:"participants"`
	Avatar       string       `json:"avatar"`
	LastMessage  *WireMessage `json:"last_message"`
	CreatedAt    time.Time    `json:"created_at"`
}

func FromMessage(m domain.Message) WireMessage {
	return WireMessage{
		ID:          m.ID,
		ChatID:      m.ChatID,
		SenderID:    m.SenderID,
		SenderName:  m.SenderName,
		Text:        m.Text,
		Timestamp:   m.SentAt,
		MessageType: m.Type,
	}
}

func FromMessages(messages []domain.Message) []WireMessage {
	return lo.Map(messages, func(m domain.Message, _ int) WireMessage {
		return FromMessage(m)
	})
}

func FromUser(u domain.User) WireUser {
	return WireUser{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Avatar:   u.Avatar,
		IsOnline: u.Online,
	}
}

func FromUsers(users []domain.User) []WireUser {
	return lo.Map(users, func(u domain.User, _ int) WireUser {
		return FromUser(u)
	})
}

func FromChat(c domain.Chat) WireChat {
	var last *WireMessage
	if c.LastMessage != nil {
		last = lo.ToPtr(FromMessage(*c.LastMessage))
	}
	return WireChat{
		ID:           c.ID,
		Name:         c.Name,
		Type:         string(c.Kind),
		Participants: c.Participants,
		Avatar:       c.Avatar,
		LastMessage:  last,
		CreatedAt:    c.CreatedAt,
	}
}

func FromChats(chats []domain.Chat) []WireChat {
	return lo.Map(chats, func(c domain.Chat, _ int) WireChat {
		return FromChat(c)
	})
}
