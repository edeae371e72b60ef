// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Auth audit actions.
const (
	ActionRegistered = "registered"
	ActionLoggedIn   = "logged_in"
)

// AuthEvent is published on the auth.audit queue whenever a user registers
// or logs in.  It carries enough for downstream consumers to build an
// audit trail without querying the primary database.  UserID is zero for
// registration events, where the subscriber only needs the email.
type AuthEvent struct {
	Action string `json:"action"`
	UserID uint64 `json:"user_id,omitempty"`
	Email  string `json:"email"`
	At     string `json:"at"`
}
