package domain

// CatalogAction is an action as scheduled by the content catalog. ID may be
// empty, in which case the resolver derives one.
type CatalogAction struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label" validate:"required"`
	Category    string `yaml:"category" validate:"omitempty,oneof=content community coaching"`
	Type        string `yaml:"type"`
	HandlerType string `yaml:"handler_type"`
	Required    *bool  `yaml:"required"`
	Optional    *bool  `yaml:"optional"`
}

// IsRequired applies the catalog convention: an explicit required=true wins,
// otherwise the action is required unless marked required=false or optional=true.
func (a CatalogAction) IsRequired() bool {
	if a.Required != nil && *a.Required {
		return true
	}
	notRequired := a.Required != nil && !*a.Required
	optional := a.Optional != nil && *a.Optional
	return !notRequired && !optional
}

// CatalogDay is one scheduled day of the content catalog.
type CatalogDay struct {
	ID      string          `yaml:"id" validate:"required"`
	DBDay   int             `yaml:"day" validate:"min=1"`
	Actions []CatalogAction `yaml:"actions" validate:"dive"`
}

// ActionItem is a resolved, addressable action for a learner's current unit.
type ActionItem struct {
	ID          string
	Label       string
	Category    Category
	Required    bool
	WeekNumber  *int
	DayID       string
	DBDay       int
	Type        string
	HandlerType string
}

// SignalKey names an external feature-completion signal.
type SignalKey string

const (
	SignalLeaderProfile      SignalKey = "leader_profile"
	SignalBaselineAssessment SignalKey = "baseline_assessment"
)

// CompletionSource answers completion questions for Completable items.
type CompletionSource interface {
	ItemStatus(itemID string) ItemStatus
	Signal(key SignalKey) bool
}

// Completable is anything shown in a learner's action list.
type Completable interface {
	Item() ActionItem
	Completed(src CompletionSource) bool
	// Auto reports whether completion comes from an external signal rather
	// than a progress record.
	Auto() bool
}

// ExplicitItem is completed by an explicit progress record.
type ExplicitItem struct {
	ActionItem
}

func (e ExplicitItem) Item() ActionItem { return e.ActionItem }

func (e ExplicitItem) Completed(src CompletionSource) bool {
	return src.ItemStatus(e.ID) == ItemCompleted
}

func (ExplicitItem) Auto() bool { return false }

// SignalItem is completed whenever its external signal is true. It never
// needs a progress record.
type SignalItem struct {
	ActionItem
	Signal SignalKey
}

func (s SignalItem) Item() ActionItem { return s.ActionItem }

func (s SignalItem) Completed(src CompletionSource) bool {
	return src.Signal(s.Signal)
}

func (SignalItem) Auto() bool { return true }

// Signals holds the feature-completion booleans sourced from other subsystems.
type Signals map[SignalKey]bool
