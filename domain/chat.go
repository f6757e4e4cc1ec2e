package domain

import "time"

type ChatKind string

const (
	KindPrivate ChatKind = "private"
	KindGroup   ChatKind = "group"
)

// Chat is a conversation between a fixed set of participants.
// Participants keep their insertion order for display; membership
// checks treat them as a set. LastMessage is materialized from the
// message log head when the chat is read, never stored.
type Chat struct {
	ID           string
	Name         string
	Kind         ChatKind
	Participants []string
	Avatar       string
	LastMessage  *Message
	CreatedAt    time.Time
}

func (c Chat) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
