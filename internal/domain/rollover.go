package domain

import "time"

// RolloverRun is one execution of the weekly carry-over job for a learner.
// The (LearnerID, FromWeek, ToWeek) triple is the job's de-duplication key.
type RolloverRun struct {
	LearnerID string
	FromWeek  int
	ToWeek    int
	Carried   int
	Archived  int
	Failed    int
	RanAt     time.Time
}
