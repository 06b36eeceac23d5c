package model

import "time"

// ConnectionID is the transport-level identity of one live connection.
// It is the primary key for a player within a room.
type ConnectionID string

// UserID is the durable identity supplied by the authentication
// collaborator. Empty for anonymous players.
type UserID string

// PlayerSession is one connected participant in one room. It exists only
// for the lifetime of the connection's membership and is never persisted.
type PlayerSession struct {
	ConnectionID ConnectionID `json:"connectionId"`
	UserID       UserID       `json:"userId,omitempty"`
	Username     string       `json:"username"`

	// Client-reported metrics, accepted verbatim.
	Progress int     `json:"progress"`
	WPM      float64 `json:"wpm"`
	Accuracy float64 `json:"accuracy"`

	// Completion state. Position is dense and assigned in strict
	// completion order; FinishTimeMs is nil until the player completes.
	Completed    bool   `json:"completed"`
	Position     int    `json:"position,omitempty"`
	FinishTimeMs *int64 `json:"finishTime,omitempty"`

	JoinedAt time.Time `json:"joinedAt"`
}
