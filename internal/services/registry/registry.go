package registry

import (
	"log/slog"
	"sync"

	"github.com/typerace/typerace-go/internal/dependencies/clock"
	"github.com/typerace/typerace-go/internal/dependencies/random"
	"github.com/typerace/typerace-go/internal/model"
	"github.com/typerace/typerace-go/internal/services/room"
)

const (
	// RoomIDLength is the length of generated room ids
	RoomIDLength = 6
	// RoomIDAlphabet is the characters used in room ids (avoid confusing chars)
	RoomIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Config holds registry and per-room policy settings
type Config struct {
	RoomIDLength   int
	RoomIDAlphabet string
	Room           room.Config
}

// DefaultConfig returns the default registry configuration
func DefaultConfig() Config {
	return Config{
		RoomIDLength:   RoomIDLength,
		RoomIDAlphabet: RoomIDAlphabet,
		Room:           room.DefaultConfig(),
	}
}

// PassageProvider supplies the race text for new rooms
type PassageProvider interface {
	RandomPassage() (string, error)
}

// Registry is the process-wide directory of live rooms. Its lock guards
// only the directory itself; each room serializes its own state, so
// activity in one room never blocks another.
type Registry struct {
	sender   room.Sender
	passages PassageProvider
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	cfg      Config

	mu    sync.RWMutex
	rooms map[model.RoomID]*room.Room
}

// New creates a new Registry
func New(sender room.Sender, passages PassageProvider, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Registry {
	return &Registry{
		sender:   sender,
		passages: passages,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "registry")),
		cfg:      cfg,
		rooms:    make(map[model.RoomID]*room.Room),
	}
}

// CreateRoom creates a room with a fresh id and the requester as its sole
// player and host. Id collisions against the live directory are retried
// transparently and never surfaced to the caller.
func (g *Registry) CreateRoom(creator room.PlayerInfo) (model.RoomSnapshot, error) {
	passage, err := g.passages.RandomPassage()
	if err != nil {
		return model.RoomSnapshot{}, err
	}

	g.mu.Lock()
	var id model.RoomID
	for {
		id = model.RoomID(g.random.String(g.cfg.RoomIDLength, g.cfg.RoomIDAlphabet))
		if _, exists := g.rooms[id]; !exists {
			break
		}
		g.logger.Debug("room id collision, retrying", slog.String("room", string(id)))
	}

	r := room.New(id, passage, creator, g.cfg.Room, g.sender, g.clock, g.logger)
	g.rooms[id] = r
	count := len(g.rooms)
	g.mu.Unlock()

	g.logger.Info("room registered",
		slog.String("room", string(id)),
		slog.Int("live_rooms", count))
	return r.Snapshot(), nil
}

// JoinRoom adds the requester to an existing room
func (g *Registry) JoinRoom(id model.RoomID, p room.PlayerInfo) (model.RoomSnapshot, error) {
	r, err := g.lookup(id)
	if err != nil {
		return model.RoomSnapshot{}, err
	}
	return r.Join(p)
}

// LeaveRoom removes the connection from the room. It is idempotent:
// leaving an unknown room or a room the connection is not in is a no-op.
// A room whose roster drains is destroyed immediately.
func (g *Registry) LeaveRoom(id model.RoomID, connID model.ConnectionID) {
	g.mu.RLock()
	r, ok := g.rooms[id]
	g.mu.RUnlock()
	if !ok {
		return
	}

	if r.Leave(connID) {
		g.mu.Lock()
		// Guard against the id having been reused by a concurrent create
		if cur, ok := g.rooms[id]; ok && cur == r {
			delete(g.rooms, id)
		}
		count := len(g.rooms)
		g.mu.Unlock()
		g.logger.Info("room removed",
			slog.String("room", string(id)),
			slog.Int("live_rooms", count))
	}
}

// StartGame begins the countdown in the room
func (g *Registry) StartGame(id model.RoomID, connID model.ConnectionID) error {
	r, err := g.lookup(id)
	if err != nil {
		return err
	}
	return r.Start(connID)
}

// UpdateProgress ingests a progress update for the connection
func (g *Registry) UpdateProgress(id model.RoomID, connID model.ConnectionID, progress int, wpm, accuracy float64) error {
	r, err := g.lookup(id)
	if err != nil {
		return err
	}
	return r.UpdateProgress(connID, progress, wpm, accuracy)
}

// GetRoom returns a snapshot of the room's current state
func (g *Registry) GetRoom(id model.RoomID) (model.RoomSnapshot, error) {
	r, err := g.lookup(id)
	if err != nil {
		return model.RoomSnapshot{}, err
	}
	return r.Snapshot(), nil
}

// Count returns the number of live rooms
func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

func (g *Registry) lookup(id model.RoomID) (*room.Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return r, nil
}
