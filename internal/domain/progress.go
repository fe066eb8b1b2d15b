package domain

import (
	"fmt"
	"time"
)

// ProgressRecord is the completion state of one action item for one learner.
// A missing record is equivalent to NewPendingRecord.
type ProgressRecord struct {
	LearnerID string
	ItemID    string
	Status    ItemStatus

	Category   Category
	Label      string
	WeekNumber *int

	// OriginalWeek is the week the item was first scheduled; set once.
	OriginalWeek    *int
	CurrentWeek     *int
	CompletedInWeek *int

	CarriedOver     bool
	CarriedFromWeek *int
	CarryCount      int

	CompletedAt    *time.Time
	SkippedAt      *time.Time
	ArchivedAt     *time.Time
	SkippedReason  string
	ArchivedReason string

	UpdatedAt time.Time
}

// NewPendingRecord returns the implicit record for a key that was never written.
func NewPendingRecord(learnerID, itemID string) ProgressRecord {
	return ProgressRecord{
		LearnerID: learnerID,
		ItemID:    itemID,
		Status:    ItemPending,
		Category:  CategoryContent,
	}
}

// EffectiveStatus treats an empty status as pending.
func (r *ProgressRecord) EffectiveStatus() ItemStatus {
	if r == nil || r.Status == "" {
		return ItemPending
	}
	return r.Status
}

// ScheduledWeek returns the week the record is attributed to for perfect-week
// grouping: OriginalWeek, falling back to WeekNumber.
func (r *ProgressRecord) ScheduledWeek() (int, bool) {
	if r.OriginalWeek != nil {
		return *r.OriginalWeek, true
	}
	if r.WeekNumber != nil {
		return *r.WeekNumber, true
	}
	return 0, false
}

// CheckInvariants verifies the status/timestamp pairing rules.
func (r *ProgressRecord) CheckInvariants(maxCarries int) error {
	if r.CarryCount < 0 {
		return fmt.Errorf("item %s: negative carry count %d", r.ItemID, r.CarryCount)
	}
	switch r.EffectiveStatus() {
	case ItemCompleted:
		if r.CompletedAt == nil {
			return fmt.Errorf("item %s: completed without completedAt", r.ItemID)
		}
	case ItemSkipped:
		if r.SkippedAt == nil {
			return fmt.Errorf("item %s: skipped without skippedAt", r.ItemID)
		}
	case ItemArchived:
		if r.ArchivedAt == nil {
			return fmt.Errorf("item %s: archived without archivedAt", r.ItemID)
		}
		if r.CarryCount < maxCarries {
			return fmt.Errorf("item %s: archived with carry count %d below %d", r.ItemID, r.CarryCount, maxCarries)
		}
	}
	return nil
}

// Field names a nullable record column that a patch can clear.
type Field string

const (
	FieldCompletedAt     Field = "completed_at"
	FieldCompletedInWeek Field = "completed_in_week"
	FieldSkippedAt       Field = "skipped_at"
	FieldSkippedReason   Field = "skipped_reason"
	FieldWeekNumber      Field = "week_number"
)

// ProgressPatch is a partial record. Nil pointers leave the stored value
// untouched; fields listed in Clear are reset to their zero value.
type ProgressPatch struct {
	Status          *ItemStatus
	Category        *Category
	Label           *string
	WeekNumber      *int
	OriginalWeek    *int
	CurrentWeek     *int
	CompletedInWeek *int
	CarriedOver     *bool
	CarriedFromWeek *int
	CarryCount      *int
	CompletedAt     *time.Time
	SkippedAt       *time.Time
	ArchivedAt      *time.Time
	SkippedReason   *string
	ArchivedReason  *string

	Clear []Field

	UpdatedAt time.Time
}

// Apply merges p into r. OriginalWeek is only taken when r has none, so the
// first scheduled week survives every later write.
func (r *ProgressRecord) Apply(p ProgressPatch) {
	for _, f := range p.Clear {
		switch f {
		case FieldCompletedAt:
			r.CompletedAt = nil
		case FieldCompletedInWeek:
			r.CompletedInWeek = nil
		case FieldSkippedAt:
			r.SkippedAt = nil
		case FieldSkippedReason:
			r.SkippedReason = ""
		case FieldWeekNumber:
			r.WeekNumber = nil
		}
	}

	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Label != nil {
		r.Label = *p.Label
	}
	if p.WeekNumber != nil {
		r.WeekNumber = intPtr(*p.WeekNumber)
	}
	if p.OriginalWeek != nil && r.OriginalWeek == nil {
		r.OriginalWeek = intPtr(*p.OriginalWeek)
	}
	if p.CurrentWeek != nil {
		r.CurrentWeek = intPtr(*p.CurrentWeek)
	}
	if p.CompletedInWeek != nil {
		r.CompletedInWeek = intPtr(*p.CompletedInWeek)
	}
	if p.CarriedOver != nil {
		r.CarriedOver = *p.CarriedOver
	}
	if p.CarriedFromWeek != nil {
		r.CarriedFromWeek = intPtr(*p.CarriedFromWeek)
	}
	if p.CarryCount != nil {
		r.CarryCount = *p.CarryCount
	}
	if p.CompletedAt != nil {
		r.CompletedAt = timePtr(*p.CompletedAt)
	}
	if p.SkippedAt != nil {
		r.SkippedAt = timePtr(*p.SkippedAt)
	}
	if p.ArchivedAt != nil {
		r.ArchivedAt = timePtr(*p.ArchivedAt)
	}
	if p.SkippedReason != nil {
		r.SkippedReason = *p.SkippedReason
	}
	if p.ArchivedReason != nil {
		r.ArchivedReason = *p.ArchivedReason
	}
	if !p.UpdatedAt.IsZero() {
		r.UpdatedAt = p.UpdatedAt
	}
}

// Ptr returns a pointer to v. Used to build patches.
func Ptr[T any](v T) *T {
	return &v
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }
