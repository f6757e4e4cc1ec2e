// Package domain contains core concepts of the chat system.
// No runtime, network, or UI logic should be added here.
package domain

// User is a registered account. Online is derived state: it reflects
// whether the connection registry currently holds a session for this
// user, and is never persisted.
type User struct {
	ID     string
	Name   string
	Email  string
	Avatar string
	Online bool
}
