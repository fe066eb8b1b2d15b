package calendar

import "github.com/alexanderramin/ascent/internal/domain"

const (
	communityZoneOpensDBDay = 15
	coachingZoneOpensDBDay  = 22
	oneOnOneWindowFirstDay  = 23
	oneOnOneWindowLastDay   = 35
)

// Zones describes which dashboard areas are unlocked for a position.
type Zones struct {
	Content        bool
	Community      bool
	Coaching       bool
	OneOnOneWindow bool

	// EffectiveDBDay is the day used for gating. Learners who left
	// preparation without finishing its requirements are held at the last
	// preparation day.
	EffectiveDBDay int
	HeldInPrep     bool
}

func ZonesFor(pos Position, prepComplete bool) Zones {
	eff := pos.DBDay
	held := false
	if !prepComplete && !pos.InPrep() {
		eff = domain.PrepDays
		held = true
	}
	return Zones{
		Content:        true,
		Community:      eff >= communityZoneOpensDBDay,
		Coaching:       eff >= coachingZoneOpensDBDay,
		OneOnOneWindow: eff >= oneOnOneWindowFirstDay && eff <= oneOnOneWindowLastDay,
		EffectiveDBDay: eff,
		HeldInPrep:     held,
	}
}
