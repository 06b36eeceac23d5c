package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/typerace/typerace-go/internal/model"
	"github.com/typerace/typerace-go/internal/ws"
)

func newRaceCmd() *cobra.Command {
	raceCmd := &cobra.Command{
		Use:   "race",
		Short: "Run a race session over the WebSocket protocol",
	}
	raceCmd.AddCommand(newRaceCreateCmd())
	raceCmd.AddCommand(newRaceJoinCmd())
	return raceCmd
}

// raceOptions controls the simulated typist
type raceOptions struct {
	username   string
	wpm        float64
	countdown  time.Duration
	startAfter time.Duration
}

func addRaceFlags(cmd *cobra.Command, opts *raceOptions) {
	cmd.Flags().StringVarP(&opts.username, "username", "u", "", "Display name (required)")
	cmd.Flags().Float64Var(&opts.wpm, "wpm", 60, "Simulated typing speed in words per minute")
	cmd.Flags().DurationVar(&opts.countdown, "countdown", 3*time.Second, "Countdown duration configured on the server")
	_ = cmd.MarkFlagRequired("username")
}

func newRaceCreateCmd() *cobra.Command {
	opts := &raceOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room and race in it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, func(conn *websocket.Conn) error {
				return sendCommand(conn, ws.CommandCreateRoom, ws.CreateRoomPayload{Username: opts.username})
			})
		},
	}
	addRaceFlags(cmd, opts)
	cmd.Flags().DurationVar(&opts.startAfter, "start-after", 10*time.Second, "Delay before the host starts the race (0 starts immediately)")
	return cmd
}

func newRaceJoinCmd() *cobra.Command {
	opts := &raceOptions{}
	cmd := &cobra.Command{
		Use:   "join <room-id>",
		Short: "Join an existing room and race in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.startAfter = -1 // joiner never starts the race
			return runSession(opts, func(conn *websocket.Conn) error {
				return sendCommand(conn, ws.CommandJoinRoom, ws.JoinRoomPayload{
					RoomID:   args[0],
					Username: opts.username,
				})
			})
		},
	}
	addRaceFlags(cmd, opts)
	return cmd
}

// session holds the state of one CLI race participation
type session struct {
	opts    *raceOptions
	conn    *websocket.Conn
	writeMu sync.Mutex // gorilla/websocket allows one concurrent writer
	roomID  string
	passage string
}

// send writes one command envelope, serializing concurrent writers
func (s *session) send(cmdType ws.CommandType, payload any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return sendCommand(s.conn, cmdType, payload)
}

// runSession drives a race end to end: open the connection, issue the
// initial command, then react to events until the race completes.
func runSession(opts *raceOptions, initial func(*websocket.Conn) error) error {
	conn, err := client.Dial()
	if err != nil {
		return fmt.Errorf("connecting to server: %w", err)
	}
	defer conn.Close()

	if err := initial(conn); err != nil {
		return err
	}

	s := &session{opts: opts, conn: conn}
	for {
		var envelope struct {
			Type model.EventType `json:"event"`
			Data json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&envelope); err != nil {
			return fmt.Errorf("connection closed: %w", err)
		}

		done, err := s.handle(envelope.Type, envelope.Data)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *session) handle(eventType model.EventType, data json.RawMessage) (bool, error) {
	switch eventType {
	case model.EventRoomCreated:
		var p model.RoomCreatedPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return false, err
		}
		s.roomID = string(p.RoomID)
		s.passage = p.Passage
		fmt.Printf("Room created: %s\n", s.roomID)
		fmt.Printf("Passage: %s\n", s.passage)
		if s.opts.startAfter >= 0 {
			fmt.Printf("Starting race in %s...\n", s.opts.startAfter)
			time.AfterFunc(s.opts.startAfter, func() {
				_ = s.send(ws.CommandStartGame, ws.StartGamePayload{RoomID: s.roomID})
			})
		}

	case model.EventRoomJoined:
		var p model.RoomJoinedPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return false, err
		}
		s.roomID = string(p.Room.ID)
		s.passage = p.Room.Passage
		fmt.Printf("Joined room %s (%d players)\n", s.roomID, len(p.Room.Players))
		fmt.Printf("Passage: %s\n", s.passage)

	case model.EventPlayerJoined, model.EventPlayerLeft:
		var p model.RosterPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return false, err
		}
		names := make([]string, len(p.Players))
		for i, pl := range p.Players {
			names[i] = pl.Username
		}
		fmt.Printf("Players: %s\n", strings.Join(names, ", "))

	case model.EventNewHost:
		var p model.NewHostPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return false, err
		}
		fmt.Printf("New host: %s\n", p.HostID)

	case model.EventGameStarted:
		fmt.Printf("Race starting in %s...\n", s.opts.countdown)
		go s.typeOut()

	case model.EventProgressUpdated:
		if cfg.Verbose {
			var p model.RosterPayload
			if err := json.Unmarshal(data, &p); err != nil {
				return false, err
			}
			parts := make([]string, len(p.Players))
			for i, pl := range p.Players {
				parts[i] = fmt.Sprintf("%s %d%%", pl.Username, pl.Progress)
			}
			fmt.Printf("  %s\n", strings.Join(parts, " | "))
		}

	case model.EventGameCompleted:
		var p model.RosterPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return false, err
		}
		fmt.Println("Race complete!")
		for _, pl := range p.Players {
			finish := ""
			if pl.FinishTimeMs != nil {
				finish = fmt.Sprintf(" in %.1fs", float64(*pl.FinishTimeMs)/1000)
			}
			fmt.Printf("  #%d %s (%.0f wpm)%s\n", pl.Position, pl.Username, pl.WPM, finish)
		}
		return true, nil

	case model.EventError:
		var p model.ErrorPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return false, err
		}
		return false, fmt.Errorf("server error: %s", p.Message)
	}
	return false, nil
}

// typeOut waits out the countdown, then streams progress updates derived
// from the configured typing speed until the passage is done.
func (s *session) typeOut() {
	time.Sleep(s.opts.countdown)

	words := float64(len(strings.Fields(s.passage)))
	if words == 0 || s.opts.wpm <= 0 {
		return
	}
	total := time.Duration(words / s.opts.wpm * float64(time.Minute))
	start := time.Now()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		progress := int(float64(time.Since(start)) / float64(total) * 100)
		if progress > 100 {
			progress = 100
		}
		err := s.send(ws.CommandUpdateProgress, ws.UpdateProgressPayload{
			RoomID:   s.roomID,
			Progress: progress,
			WPM:      s.opts.wpm,
			Accuracy: 97,
		})
		if err != nil || progress >= 100 {
			return
		}
	}
}

// sendCommand marshals and writes one command envelope
func sendCommand(conn *websocket.Conn, cmdType ws.CommandType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(ws.Command{Type: cmdType, Data: data})
}
