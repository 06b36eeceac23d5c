package ws

import (
	"errors"

	"github.com/typerace/typerace-go/internal/model"
)

// Protocol-level errors raised before a command reaches the coordinator
var (
	errBadEnvelope    = errors.New("malformed command envelope")
	errBadPayload     = errors.New("malformed command payload")
	errUnknownCommand = errors.New("unknown command type")
	errInternal       = errors.New("internal error")
)

// errorMessage maps an error to the user-visible message carried by an
// error event. Unrecognized errors are masked.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, model.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, model.ErrAlreadyStarted):
		return "Race has already started"
	case errors.Is(err, model.ErrAlreadyInRoom):
		return "Already in this room"
	case errors.Is(err, model.ErrNotInRoom):
		return "You are not in this room"
	case errors.Is(err, model.ErrNotHost):
		return "Only the host can start the race"
	case errors.Is(err, model.ErrInvalidTransition):
		return "Not allowed in the room's current state"
	case errors.Is(err, model.ErrNoPassages):
		return "No passages available"
	case errors.Is(err, errBadEnvelope), errors.Is(err, errBadPayload), errors.Is(err, errUnknownCommand):
		return "Invalid command"
	default:
		return "Internal error"
	}
}
