package contract

import "time"

type RolloverRequest struct {
	LearnerID string
	FromWeek  int
	ToWeek    int
}

// NewRolloverRequest builds the request for the boundary ending week.
func NewRolloverRequest(learnerID string, week int) RolloverRequest {
	return RolloverRequest{LearnerID: learnerID, FromWeek: week, ToWeek: week + 1}
}

// RolloverItem reports the carry-over outcome of one item.
type RolloverItem struct {
	ItemID     string
	Label      string
	CarryCount int
	Archived   bool
	LastChance bool
}

// RolloverPreview lists what a rollover would do without writing anything.
type RolloverPreview struct {
	LearnerID    string
	FromWeek     int
	ToWeek       int
	AlreadyRun   bool
	Candidates   []RolloverItem
	WouldArchive int
}

type RolloverResult struct {
	LearnerID string
	FromWeek  int
	ToWeek    int
	RanAt     time.Time
	// Retry is set when an earlier run of the same boundary had failures
	// and only the items it missed were attempted.
	Retry    bool
	Items    []RolloverItem
	Carried  int
	Archived int
	Failed   int
}
