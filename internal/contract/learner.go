package contract

import "time"

type EnrollRequest struct {
	Name         string
	ProgramStart *time.Time
}

// SignalsUpdate sets feature-completion signals. Nil fields are left as is.
type SignalsUpdate struct {
	ProfileComplete    *bool
	AssessmentComplete *bool
}
