package room

import (
	"log/slog"

	"github.com/typerace/typerace-go/internal/model"
)

// Host authority: the creator holds the host role until they leave or
// disconnect. Promotion is FIFO over join order, so the outcome is
// deterministic regardless of message arrival races. Host identity gates
// nothing once racing begins, but migration still runs so hostId always
// names a live player.

// migrateHostLocked promotes the earliest-joined remaining player.
// Callers must hold r.mu and guarantee a non-empty roster.
func (r *Room) migrateHostLocked() model.ConnectionID {
	r.hostID = r.players[0].ConnectionID
	r.logger.Info("host migrated", slog.String("host", string(r.hostID)))
	return r.hostID
}
