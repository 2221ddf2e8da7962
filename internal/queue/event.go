// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Actions carried in ReservationEvent.
const (
	ActionCreated   = "created"
	ActionCancelled = "cancelled"
)

// ReservationEvent is published after a reservation is successfully
// created or cancelled.  It contains enough information for downstream
// consumers to log or notify without querying a building's database.
type ReservationEvent struct {
	Action        string `json:"action"` // "created" or "cancelled"
	Building      string `json:"building"`
	ReservationID int64  `json:"reservation_id"`
	TableID       int64  `json:"table_id,omitempty"`
	TurnID        int64  `json:"turn_id,omitempty"`
	Date          string `json:"date,omitempty"`
	Username      string `json:"username,omitempty"`
	OccurredAt    string `json:"occurred_at"` // RFC3339 UTC
}
