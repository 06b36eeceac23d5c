package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyStarted = errors.New("race has already started")
	ErrAlreadyInRoom  = errors.New("connection is already in the room")
	ErrNotInRoom      = errors.New("connection is not in the room")

	// Race errors
	ErrNotHost           = errors.New("only the host can start the race")
	ErrInvalidTransition = errors.New("operation not valid in the room's current state")

	// Passage errors
	ErrNoPassages = errors.New("no passages loaded")
)
