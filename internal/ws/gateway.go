package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/typerace/typerace-go/internal/model"
	"github.com/typerace/typerace-go/internal/services/registry"
	"github.com/typerace/typerace-go/internal/services/room"
)

// Gateway is the transport boundary of the coordinator: it upgrades HTTP
// requests to WebSockets, decodes inbound command envelopes, routes them
// to the registry, and reports failures as error events to the single
// offending connection. There is no ambient connection state; each client
// handle flows through dispatch explicitly.
type Gateway struct {
	hub      *Hub
	registry *registry.Registry
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewGateway creates a new Gateway
func NewGateway(hub *Hub, reg *registry.Registry, logger *slog.Logger) *Gateway {
	return &Gateway{
		hub:      hub,
		registry: reg,
		logger:   logger.With(slog.String("component", "gateway")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client is served from a different origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and runs its read loop until the
// client disconnects. Disconnection is not an error: it routes through
// the same leave path as an explicit leave-room.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("upgrade failed", slog.Any("error", err))
		return
	}

	client := newClient(model.ConnectionID(uuid.NewString()), conn)
	g.hub.Register(client)
	go client.writePump()

	defer func() {
		if roomID := client.Room(); roomID != "" {
			g.registry.LeaveRoom(roomID, client.id)
		}
		g.hub.Unregister(client)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(g.readDeadline())
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(g.readDeadline())
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Warn("read error",
					slog.String("connection", string(client.id)),
					slog.Any("error", err))
			}
			return
		}
		g.dispatch(client, message)
	}
}

// dispatch applies one decoded command. A panic while a command is being
// applied fails only the offending room: the caller is force-removed and
// receives a terminal error, and other rooms are untouched.
func (g *Gateway) dispatch(client *Client, message []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			g.logger.Error("panic in command dispatch",
				slog.String("connection", string(client.id)),
				slog.Any("error", rec),
				slog.String("stack", string(debug.Stack())))
			if roomID := client.Room(); roomID != "" {
				g.registry.LeaveRoom(roomID, client.id)
				client.clearRoom(roomID)
			}
			g.sendError(client.id, errInternal)
		}
	}()

	var cmd Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		g.sendError(client.id, errBadEnvelope)
		return
	}

	switch cmd.Type {
	case CommandCreateRoom:
		var p CreateRoomPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			g.sendError(client.id, errBadPayload)
			return
		}
		snapshot, err := g.registry.CreateRoom(room.PlayerInfo{
			ConnectionID: client.id,
			UserID:       model.UserID(p.UserID),
			Username:     p.Username,
		})
		if err != nil {
			g.sendError(client.id, err)
			return
		}
		g.leaveCurrent(client)
		client.setRoom(snapshot.ID)

	case CommandJoinRoom:
		var p JoinRoomPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			g.sendError(client.id, errBadPayload)
			return
		}
		snapshot, err := g.registry.JoinRoom(model.RoomID(p.RoomID), room.PlayerInfo{
			ConnectionID: client.id,
			UserID:       model.UserID(p.UserID),
			Username:     p.Username,
		})
		if err != nil {
			g.sendError(client.id, err)
			return
		}
		g.leaveCurrent(client)
		client.setRoom(snapshot.ID)

	case CommandLeaveRoom:
		var p LeaveRoomPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			g.sendError(client.id, errBadPayload)
			return
		}
		g.registry.LeaveRoom(model.RoomID(p.RoomID), client.id)
		client.clearRoom(model.RoomID(p.RoomID))

	case CommandStartGame:
		var p StartGamePayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			g.sendError(client.id, errBadPayload)
			return
		}
		if err := g.registry.StartGame(model.RoomID(p.RoomID), client.id); err != nil {
			g.sendError(client.id, err)
		}

	case CommandUpdateProgress:
		var p UpdateProgressPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			g.sendError(client.id, errBadPayload)
			return
		}
		if err := g.registry.UpdateProgress(model.RoomID(p.RoomID), client.id, p.Progress, p.WPM, p.Accuracy); err != nil {
			g.sendError(client.id, err)
		}

	default:
		g.sendError(client.id, errUnknownCommand)
	}
}

// leaveCurrent removes the client from its tracked room. A connection
// holds one membership at a time: entering a new room leaves the old one
// through the same path a disconnect takes, so the old session is never
// stranded. Runs only after the new membership is confirmed, so a failed
// create or join leaves the existing membership intact.
func (g *Gateway) leaveCurrent(client *Client) {
	if roomID := client.Room(); roomID != "" {
		g.registry.LeaveRoom(roomID, client.id)
		client.clearRoom(roomID)
	}
}

func (g *Gateway) readDeadline() time.Time {
	return time.Now().Add(pongWait)
}

// sendError reports a failure to the single offending connection
func (g *Gateway) sendError(id model.ConnectionID, err error) {
	g.hub.Send(id, model.Event{
		Type: model.EventError,
		Data: model.ErrorPayload{Message: errorMessage(err)},
	})
}
