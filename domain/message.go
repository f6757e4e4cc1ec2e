// This file defines Message events and related rules.
// Messages are immutable once created.
package domain

import "time"

const MessageTypeText = "text"

// Message represents an immutable chat event. SenderName is a snapshot
// of the sender's display name at send time and is not re-resolved on
// later reads.
type Message struct {
	ID         string
	ChatID     string
	SenderID   string
	SenderName string
	Text       string
	SentAt     time.Time
	Type       string
}
