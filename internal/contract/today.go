package contract

import (
	"time"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/catalog"
	"github.com/alexanderramin/ascent/internal/domain"
)

type TodayRequest struct {
	LearnerID string
	// Now overrides the service clock.
	Now *time.Time
	// RecordVisit counts the request as a preparation visit. Set by the
	// interactive commands; read-only views leave it false.
	RecordVisit bool
}

func NewTodayRequest(learnerID string) TodayRequest {
	return TodayRequest{LearnerID: learnerID, RecordVisit: true}
}

// TodayItem is one row of a learner's action list.
type TodayItem struct {
	ID          string
	Label       string
	Category    domain.Category
	Required    bool
	Auto        bool
	Completed   bool
	Status      domain.ItemStatus
	WeekNumber  *int
	CarriedOver bool
	CarryCount  int
	// LastChance is set when one more carry-over archives the item.
	LastChance bool
}

// TodayView is everything the dashboard shows for one learner and day.
type TodayView struct {
	LearnerID   string
	GeneratedAt time.Time
	DateKey     string

	Position   calendar.Position
	Zones      calendar.Zones
	Onboarding *catalog.OnboardingModule

	Items       []TodayItem
	CarriedOver []TodayItem

	RequiredTotal int
	RequiredDone  int
	WeekPercent   int
}

// Done reports whether every required item in the list is complete.
func (v *TodayView) Done() bool {
	return v.RequiredTotal > 0 && v.RequiredDone == v.RequiredTotal
}
