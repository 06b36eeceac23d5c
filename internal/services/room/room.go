package room

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/typerace/typerace-go/internal/dependencies/clock"
	"github.com/typerace/typerace-go/internal/model"
)

// Sender delivers outbound events to connections. Implemented by the
// WebSocket hub; rooms never hold transport handles directly.
type Sender interface {
	Send(id model.ConnectionID, event model.Event)
}

// Config holds per-room policy settings
type Config struct {
	// CountdownDuration is the gap between start-game acceptance and the
	// race clock starting.
	CountdownDuration time.Duration

	// MaxPlayers caps the roster size; 0 means unlimited
	MaxPlayers int
}

// DefaultConfig returns the default room configuration
func DefaultConfig() Config {
	return Config{
		CountdownDuration: 3 * time.Second,
		MaxPlayers:        10,
	}
}

// PlayerInfo identifies a joining connection
type PlayerInfo struct {
	ConnectionID model.ConnectionID
	UserID       model.UserID
	Username     string
}

// Room is one race session. It is a single-writer actor realized as a
// mutex-guarded struct: every command, including the countdown timer
// firing, is applied under r.mu, so no two commands for the same room are
// ever applied concurrently and every broadcast reflects the state
// immediately after one applied command.
type Room struct {
	id      model.RoomID
	passage string

	sender Sender
	clock  clock.Clock
	logger *slog.Logger
	cfg    Config

	mu            sync.Mutex
	state         model.RoomState
	players       []*model.PlayerSession // join order; first element is the migration candidate
	hostID        model.ConnectionID
	createdAt     time.Time
	raceStartedAt time.Time
	countdown     clock.Timer
	destroyed     bool
	tracker       progressTracker
}

// New creates a room in the lobby state with the creator as its sole
// player and host, and sends room-created to the creator.
func New(id model.RoomID, passage string, creator PlayerInfo, cfg Config, sender Sender, clk clock.Clock, logger *slog.Logger) *Room {
	now := clk.Now()
	r := &Room{
		id:      id,
		passage: passage,
		sender:  sender,
		clock:   clk,
		logger:  logger.With(slog.String("room", string(id))),
		cfg:     cfg,
		state:   model.RoomStateLobby,
		players: []*model.PlayerSession{{
			ConnectionID: creator.ConnectionID,
			UserID:       creator.UserID,
			Username:     creator.Username,
			JoinedAt:     now,
		}},
		hostID:    creator.ConnectionID,
		createdAt: now,
		tracker:   newProgressTracker(),
	}

	r.logger.Info("room created", slog.String("host", string(creator.ConnectionID)))
	sender.Send(creator.ConnectionID, model.Event{
		Type: model.EventRoomCreated,
		Data: model.RoomCreatedPayload{RoomID: id, Passage: passage},
	})
	return r
}

// ID returns the room's identifier
func (r *Room) ID() model.RoomID {
	return r.id
}

// Join adds a connection to the roster. Joins are accepted during lobby
// and countdown and rejected once racing has begun.
func (r *Room) Join(p PlayerInfo) (model.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return model.RoomSnapshot{}, model.ErrRoomNotFound
	}
	if r.state == model.RoomStateRacing || r.state == model.RoomStateCompleted {
		return model.RoomSnapshot{}, model.ErrAlreadyStarted
	}
	if r.cfg.MaxPlayers > 0 && len(r.players) >= r.cfg.MaxPlayers {
		return model.RoomSnapshot{}, model.ErrRoomFull
	}
	if r.findPlayer(p.ConnectionID) != nil {
		return model.RoomSnapshot{}, model.ErrAlreadyInRoom
	}

	r.players = append(r.players, &model.PlayerSession{
		ConnectionID: p.ConnectionID,
		UserID:       p.UserID,
		Username:     p.Username,
		JoinedAt:     r.clock.Now(),
	})

	snapshot := r.snapshotLocked()
	r.logger.Info("player joined",
		slog.String("connection", string(p.ConnectionID)),
		slog.Int("players", len(r.players)))

	r.sender.Send(p.ConnectionID, model.Event{
		Type: model.EventRoomJoined,
		Data: model.RoomJoinedPayload{Room: snapshot},
	})
	r.broadcastLocked(model.Event{
		Type: model.EventPlayerJoined,
		Data: model.RosterPayload{Players: snapshot.Players},
	})
	return snapshot, nil
}

// Leave removes a connection from the roster. It is idempotent: removing
// an absent player is a no-op. It reports whether the roster became empty,
// in which case the room has cancelled its countdown and will reject all
// further commands.
func (r *Room) Leave(connID model.ConnectionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return false
	}

	idx := -1
	for i, p := range r.players {
		if p.ConnectionID == connID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	wasHost := connID == r.hostID
	r.players = append(r.players[:idx], r.players[idx+1:]...)
	r.logger.Info("player left",
		slog.String("connection", string(connID)),
		slog.Int("players", len(r.players)))

	if len(r.players) == 0 {
		r.destroyLocked()
		return true
	}

	r.broadcastLocked(model.Event{
		Type: model.EventPlayerLeft,
		Data: model.RosterPayload{Players: r.snapshotPlayersLocked()},
	})

	if wasHost {
		newHost := r.migrateHostLocked()
		r.broadcastLocked(model.Event{
			Type: model.EventNewHost,
			Data: model.NewHostPayload{HostID: newHost},
		})
	}

	// A departing straggler must not hold up the finish
	if r.state == model.RoomStateRacing {
		r.checkCompletionLocked()
	}
	return false
}

// Start begins the countdown. Only the host may start, and only from the
// lobby state.
func (r *Room) Start(connID model.ConnectionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return model.ErrRoomNotFound
	}
	if r.findPlayer(connID) == nil {
		return model.ErrNotInRoom
	}
	if connID != r.hostID {
		return model.ErrNotHost
	}
	if r.state != model.RoomStateLobby {
		return model.ErrInvalidTransition
	}

	r.state = model.RoomStateCountdown
	r.logger.Info("countdown started", slog.Duration("duration", r.cfg.CountdownDuration))

	r.broadcastLocked(model.Event{
		Type: model.EventGameStarted,
		Data: model.GameStartedPayload{},
	})

	// The firing re-enters the room's lock, so it serializes with any
	// concurrent leave that empties the roster.
	r.countdown = r.clock.AfterFunc(r.cfg.CountdownDuration, r.beginRace)
	return nil
}

// beginRace is the countdown timer callback
func (r *Room) beginRace() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed || r.state != model.RoomStateCountdown {
		return
	}
	r.state = model.RoomStateRacing
	r.raceStartedAt = r.clock.Now()
	r.countdown = nil
	r.logger.Info("race started", slog.Int("players", len(r.players)))
}

// UpdateProgress ingests a client-reported progress update. Values are
// clamped to [0,100]; non-monotonic values and updates for completed
// players are dropped without error.
func (r *Room) UpdateProgress(connID model.ConnectionID, progress int, wpm, accuracy float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return model.ErrRoomNotFound
	}
	if r.state != model.RoomStateRacing {
		return model.ErrInvalidTransition
	}
	p := r.findPlayer(connID)
	if p == nil {
		return model.ErrNotInRoom
	}

	elapsed := r.clock.Now().Sub(r.raceStartedAt)
	accepted, completedNow := r.tracker.apply(p, progress, wpm, accuracy, elapsed)
	if !accepted {
		return nil
	}

	r.broadcastLocked(model.Event{
		Type: model.EventProgressUpdated,
		Data: model.RosterPayload{Players: r.snapshotPlayersLocked()},
	})

	if completedNow {
		r.logger.Info("player finished",
			slog.String("connection", string(connID)),
			slog.Int("position", p.Position))
		r.checkCompletionLocked()
	}
	return nil
}

// checkCompletionLocked transitions to completed once every player still
// in the roster has finished. Callers must hold r.mu.
func (r *Room) checkCompletionLocked() {
	if len(r.players) == 0 {
		return
	}
	for _, p := range r.players {
		if !p.Completed {
			return
		}
	}

	r.state = model.RoomStateCompleted
	results := r.snapshotPlayersLocked()
	sort.Slice(results, func(i, j int) bool {
		return results[i].Position < results[j].Position
	})
	r.logger.Info("race completed", slog.Int("finishers", len(results)))

	r.broadcastLocked(model.Event{
		Type: model.EventGameCompleted,
		Data: model.RosterPayload{Players: results},
	})
}

// destroyLocked marks the room dead and cancels the pending countdown so
// the timer can never fire into a room that no longer exists. Callers must
// hold r.mu.
func (r *Room) destroyLocked() {
	r.destroyed = true
	if r.countdown != nil {
		r.countdown.Stop()
		r.countdown = nil
	}
	r.logger.Info("room destroyed", slog.String("state", string(r.state)))
}

// Snapshot returns a full, consistent copy of the room's visible state
func (r *Room) Snapshot() model.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() model.RoomSnapshot {
	snapshot := model.RoomSnapshot{
		ID:        r.id,
		Passage:   r.passage,
		State:     r.state,
		HostID:    r.hostID,
		Players:   r.snapshotPlayersLocked(),
		CreatedAt: r.createdAt,
	}
	if !r.raceStartedAt.IsZero() {
		t := r.raceStartedAt
		snapshot.RaceStartedAt = &t
	}
	return snapshot
}

func (r *Room) snapshotPlayersLocked() []model.PlayerSession {
	players := make([]model.PlayerSession, len(r.players))
	for i, p := range r.players {
		players[i] = *p
		if p.FinishTimeMs != nil {
			ms := *p.FinishTimeMs
			players[i].FinishTimeMs = &ms
		}
	}
	return players
}

func (r *Room) findPlayer(connID model.ConnectionID) *model.PlayerSession {
	for _, p := range r.players {
		if p.ConnectionID == connID {
			return p
		}
	}
	return nil
}

// broadcastLocked fans an event out to every connection in the roster.
// Callers must hold r.mu; the underlying sends never block.
func (r *Room) broadcastLocked(event model.Event) {
	for _, p := range r.players {
		r.sender.Send(p.ConnectionID, event)
	}
}
