package domain

type PhaseID string

const (
	PhasePreStart  PhaseID = "pre-start"
	PhaseStart     PhaseID = "start"
	PhasePostStart PhaseID = "post-start"
)

type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemCompleted ItemStatus = "completed"
	ItemSkipped   ItemStatus = "skipped"
	ItemArchived  ItemStatus = "archived"
)

// IsTerminal reports whether no further transitions are allowed.
func (s ItemStatus) IsTerminal() bool {
	return s == ItemArchived
}

// Resolved reports whether the item needs no further attention this week.
func (s ItemStatus) Resolved() bool {
	return s == ItemCompleted || s == ItemSkipped || s == ItemArchived
}

type Category string

const (
	CategoryContent   Category = "content"
	CategoryCommunity Category = "community"
	CategoryCoaching  Category = "coaching"
)

// ValidCategories is the canonical set of accepted category strings.
var ValidCategories = map[string]bool{
	"content": true, "community": true, "coaching": true,
}

// NormalizeCategory maps unknown or empty categories to content.
func NormalizeCategory(c string) Category {
	if ValidCategories[c] {
		return Category(c)
	}
	return CategoryContent
}

// ArchiveReasonMaxCarry is recorded when an item is archived after
// exhausting its carry-over allowance.
const ArchiveReasonMaxCarry = "auto_archive_max_carry"

// ActionTypeDailyRep marks recurring practice reps; they are not progress items.
const ActionTypeDailyRep = "daily_rep"

const (
	HandlerLeaderProfile      = "leader-profile"
	HandlerBaselineAssessment = "baseline-assessment"
)
