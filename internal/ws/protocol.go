package ws

import "encoding/json"

// CommandType identifies an inbound client command
type CommandType string

const (
	CommandCreateRoom     CommandType = "create-room"
	CommandJoinRoom       CommandType = "join-room"
	CommandLeaveRoom      CommandType = "leave-room"
	CommandStartGame      CommandType = "start-game"
	CommandUpdateProgress CommandType = "update-progress"
)

// Command is the envelope for all inbound messages
type Command struct {
	Type CommandType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// CreateRoomPayload is the payload for create-room
type CreateRoomPayload struct {
	Username string `json:"username"`
	UserID   string `json:"userId,omitempty"`
}

// JoinRoomPayload is the payload for join-room
type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	UserID   string `json:"userId,omitempty"`
}

// LeaveRoomPayload is the payload for leave-room
type LeaveRoomPayload struct {
	RoomID string `json:"roomId"`
}

// StartGamePayload is the payload for start-game
type StartGamePayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId,omitempty"`
}

// UpdateProgressPayload is the payload for update-progress
type UpdateProgressPayload struct {
	RoomID   string  `json:"roomId"`
	Progress int     `json:"progress"`
	WPM      float64 `json:"wpm"`
	Accuracy float64 `json:"accuracy"`
}
