package domain

import "time"

type Learner struct {
	ID           string
	Name         string
	ProgramStart *time.Time

	// Feature-completion signals owned by other subsystems.
	ProfileComplete    bool
	AssessmentComplete bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Enrolled reports whether the learner has a program start date.
func (l *Learner) Enrolled() bool {
	return l != nil && l.ProgramStart != nil && !l.ProgramStart.IsZero()
}

// Signals returns the learner's feature-completion signals.
func (l *Learner) Signals() Signals {
	return Signals{
		SignalLeaderProfile:      l.ProfileComplete,
		SignalBaselineAssessment: l.AssessmentComplete,
	}
}

// PrepComplete reports whether both preparation requirements are met.
func (l *Learner) PrepComplete() bool {
	return l.ProfileComplete && l.AssessmentComplete
}
