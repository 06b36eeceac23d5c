package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typerace/typerace-go/internal/model"
)

func newRoomCmd() *cobra.Command {
	roomCmd := &cobra.Command{
		Use:   "room",
		Short: "Inspect live rooms",
	}
	roomCmd.AddCommand(newRoomGetCmd())
	return roomCmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Show a room's current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var snapshot model.RoomSnapshot
			if err := client.Get("/api/v1/rooms/"+args[0], &snapshot); err != nil {
				return err
			}

			fmt.Printf("Room:    %s\n", snapshot.ID)
			fmt.Printf("State:   %s\n", snapshot.State)
			fmt.Printf("Host:    %s\n", snapshot.HostID)
			fmt.Printf("Passage: %s\n", snapshot.Passage)
			fmt.Printf("Players (%d):\n", len(snapshot.Players))
			for _, p := range snapshot.Players {
				line := fmt.Sprintf("  %-20s progress=%d%% wpm=%.0f accuracy=%.0f%%",
					p.Username, p.Progress, p.WPM, p.Accuracy)
				if p.Completed {
					line += fmt.Sprintf(" finished #%d", p.Position)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
