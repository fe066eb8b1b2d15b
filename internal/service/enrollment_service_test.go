package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnroll_CreatesLearner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	learner, err := h.enrollment.Enroll(ctx, contract.EnrollRequest{Name: "  Grace ", ProgramStart: &programStart})
	require.NoError(t, err)

	_, err = uuid.Parse(learner.ID)
	assert.NoError(t, err, "learner ids are uuids")
	assert.Equal(t, "Grace", learner.Name)
	assert.True(t, learner.Enrolled())

	stored, err := h.enrollment.Get(ctx, learner.ID)
	require.NoError(t, err)
	assert.True(t, stored.ProgramStart.Equal(programStart))

	ev, ok := h.observer.last("enroll")
	require.True(t, ok)
	assert.True(t, ev.Success)
	assert.Equal(t, learner.ID, ev.Fields["learner_id"])
}

func TestEnroll_WithoutStartIsNotEnrolled(t *testing.T) {
	h := newHarness(t)

	learner, err := h.enrollment.Enroll(context.Background(), contract.EnrollRequest{Name: "Grace"})
	require.NoError(t, err)
	assert.False(t, learner.Enrolled())
}

func TestEnroll_RequiresName(t *testing.T) {
	h := newHarness(t)

	_, err := h.enrollment.Enroll(context.Background(), contract.EnrollRequest{Name: "   "})
	require.Error(t, err)

	ev, ok := h.observer.last("enroll")
	require.True(t, ok)
	assert.False(t, ev.Success)
}

func TestGet_UnknownLearner(t *testing.T) {
	h := newHarness(t)

	_, err := h.enrollment.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestResetStart(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	l := h.enroll()

	newStart := programStart.AddDate(0, 0, 7)
	updated, err := h.enrollment.ResetStart(ctx, l.ID, newStart)
	require.NoError(t, err)
	assert.True(t, updated.ProgramStart.Equal(newStart))

	_, err = h.enrollment.ResetStart(ctx, l.ID, time.Time{})
	assert.Error(t, err)
}

func TestSetSignals_PartialUpdate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	l := h.enroll()

	updated, err := h.enrollment.SetSignals(ctx, l.ID, contract.SignalsUpdate{ProfileComplete: domain.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.ProfileComplete)
	assert.False(t, updated.AssessmentComplete)
	assert.False(t, updated.PrepComplete())

	updated, err = h.enrollment.SetSignals(ctx, l.ID, contract.SignalsUpdate{AssessmentComplete: domain.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.ProfileComplete, "unset fields are left alone")
	assert.True(t, updated.PrepComplete())
}

func TestList_ReturnsEnrolledLearners(t *testing.T) {
	h := newHarness(t)
	h.enroll()
	h.enroll()

	all, err := h.enrollment.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
