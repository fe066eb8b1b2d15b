package contract

import (
	"time"

	"github.com/alexanderramin/ascent/internal/stats"
)

// StatsView is the derived projection of one progress snapshot.
type StatsView struct {
	LearnerID  string
	Revision   string
	ComputedAt time.Time
	Stats      stats.Stats
	Badges     []stats.Badge
}
