package model

import "time"

// RoomID is a short human-shareable identifier for a race room.
type RoomID string

// RoomState represents the current phase of a room's race
type RoomState string

const (
	RoomStateLobby     RoomState = "lobby"     // Waiting for players
	RoomStateCountdown RoomState = "countdown" // Start accepted, race clock not yet running
	RoomStateRacing    RoomState = "racing"    // Race in progress
	RoomStateCompleted RoomState = "completed" // Every active player finished
)

// RoomSnapshot is a full, consistent copy of a room's visible state.
// Broadcasts always carry snapshots, never deltas.
type RoomSnapshot struct {
	ID            RoomID          `json:"roomId"`
	Passage       string          `json:"passage"`
	State         RoomState       `json:"state"`
	HostID        ConnectionID    `json:"hostId"`
	Players       []PlayerSession `json:"players"`
	CreatedAt     time.Time       `json:"createdAt"`
	RaceStartedAt *time.Time      `json:"raceStartedAt,omitempty"`
}
