package stats

// Badge is an achievement derived from Stats. Badges are recomputed on every
// aggregation; there is no ledger of earned badges.
type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      func(Stats) bool
}

// Badges is evaluated in order; Stats.Badges follows the same order.
var Badges = []Badge{
	{
		ID: "first_action", Name: "First Steps", Icon: "🎯",
		Description: "Complete your first action item",
		Earned:      func(s Stats) bool { return s.TotalCompleted >= 1 },
	},
	{
		ID: "week_champion", Name: "Week Champion", Icon: "🏆",
		Description: "Complete all items in a single week",
		Earned:      func(s Stats) bool { return s.PerfectWeeks >= 1 },
	},
	{
		ID: "streak_3", Name: "On Fire", Icon: "🔥",
		Description: "Complete items 3 days in a row",
		Earned:      func(s Stats) bool { return s.LongestStreak >= 3 },
	},
	{
		ID: "streak_7", Name: "Unstoppable", Icon: "⚡",
		Description: "Complete items 7 days in a row",
		Earned:      func(s Stats) bool { return s.LongestStreak >= 7 },
	},
	{
		ID: "early_bird", Name: "Early Bird", Icon: "🌅",
		Description: "Complete an action before noon",
		Earned:      func(s Stats) bool { return s.EarlyCompletions >= 1 },
	},
	{
		ID: "content_master", Name: "Content Master", Icon: "📚",
		Description: "Complete 10 content items",
		Earned:      func(s Stats) bool { return s.ContentCompleted >= 10 },
	},
	{
		ID: "community_builder", Name: "Community Builder", Icon: "🤝",
		Description: "Complete 10 community items",
		Earned:      func(s Stats) bool { return s.CommunityCompleted >= 10 },
	},
	{
		ID: "coaching_champion", Name: "Coaching Champion", Icon: "🎓",
		Description: "Complete 10 coaching items",
		Earned:      func(s Stats) bool { return s.CoachingCompleted >= 10 },
	},
	{
		ID: "perfect_month", Name: "Perfect Month", Icon: "👑",
		Description: "Complete 4 weeks in a row with all items done",
		Earned:      func(s Stats) bool { return s.ConsecutivePerfectWeeks >= 4 },
	},
	{
		ID: "comeback_kid", Name: "Comeback Kid", Icon: "💪",
		Description: "Complete a carried-over item",
		Earned:      func(s Stats) bool { return s.CarriedOverCompleted >= 1 },
	},
}

// EarnedBadges returns the full badge definitions for s.Badges.
func EarnedBadges(s Stats) []Badge {
	var out []Badge
	for _, b := range Badges {
		for _, id := range s.Badges {
			if b.ID == id {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// BadgeByID looks up a badge definition.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
