package model

// EventType identifies the type of an outbound event
type EventType string

const (
	EventRoomCreated     EventType = "room-created"
	EventRoomJoined      EventType = "room-joined"
	EventPlayerJoined    EventType = "player-joined"
	EventPlayerLeft      EventType = "player-left"
	EventNewHost         EventType = "new-host"
	EventGameStarted     EventType = "game-started"
	EventProgressUpdated EventType = "progress-updated"
	EventGameCompleted   EventType = "game-completed"
	EventError           EventType = "error"
)

// Event is an outbound payload addressed to one connection. Fan-out to a
// whole roster is expressed as one Event per member so the transport only
// ever needs "send to connection X".
type Event struct {
	Type EventType `json:"event"`
	Data any       `json:"data"`
}

// RoomCreatedPayload is sent to the creator only
type RoomCreatedPayload struct {
	RoomID  RoomID `json:"roomId"`
	Passage string `json:"passage"`
}

// RoomJoinedPayload is sent to the joiner only
type RoomJoinedPayload struct {
	Room RoomSnapshot `json:"room"`
}

// RosterPayload carries the full player roster. Used for player-joined,
// player-left, progress-updated and game-completed events.
type RosterPayload struct {
	Players []PlayerSession `json:"players"`
}

// NewHostPayload announces the host after a migration
type NewHostPayload struct {
	HostID ConnectionID `json:"hostId"`
}

// GameStartedPayload marks entry into the countdown
type GameStartedPayload struct{}

// ErrorPayload is sent to the single offending connection only
type ErrorPayload struct {
	Message string `json:"message"`
}
