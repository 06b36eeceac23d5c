package room

import (
	"time"

	"github.com/typerace/typerace-go/internal/model"
)

// progressTracker validates progress updates and assigns finish positions.
// Positions form a gapless prefix of the positive integers, handed out in
// strict order of the update that first reports 100 winning the room's
// lock. Reported WPM never participates in ranking.
type progressTracker struct {
	nextPosition int
}

func newProgressTracker() progressTracker {
	return progressTracker{nextPosition: 1}
}

// apply ingests one update for p. It reports whether the update was
// accepted and whether it completed the player. Updates for a completed
// player and values below the stored progress are dropped, not errored.
func (t *progressTracker) apply(p *model.PlayerSession, progress int, wpm, accuracy float64, elapsed time.Duration) (accepted, completedNow bool) {
	if p.Completed {
		return false, false
	}

	if progress < 0 {
		progress = 0
	} else if progress > 100 {
		progress = 100
	}
	if progress < p.Progress {
		return false, false
	}

	p.Progress = progress
	p.WPM = wpm
	p.Accuracy = accuracy

	if progress == 100 {
		p.Completed = true
		p.Position = t.nextPosition
		t.nextPosition++
		ms := elapsed.Milliseconds()
		p.FinishTimeMs = &ms
		return true, true
	}
	return true, false
}
