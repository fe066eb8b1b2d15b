package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolloverRepo_ClaimOnce(t *testing.T) {
	repo := NewSQLRolloverRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	run := &domain.RolloverRun{LearnerID: "l1", FromWeek: 3, ToWeek: 4, RanAt: testNow}
	ok, err := repo.Claim(ctx, run)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Claim(ctx, run)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Claim(ctx, &domain.RolloverRun{LearnerID: "l1", FromWeek: 4, ToWeek: 5, RanAt: testNow})
	require.NoError(t, err)
	assert.True(t, ok, "a different week pair is a new run")
}

func TestRolloverRepo_FinishAndList(t *testing.T) {
	repo := NewSQLRolloverRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	run := &domain.RolloverRun{LearnerID: "l1", FromWeek: 3, ToWeek: 4, RanAt: testNow}
	_, err := repo.Claim(ctx, run)
	require.NoError(t, err)

	run.Carried, run.Archived, run.Failed = 4, 1, 0
	require.NoError(t, repo.Finish(ctx, run))

	got, err := repo.Get(ctx, "l1", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Carried)
	assert.Equal(t, 1, got.Archived)
	assert.True(t, testNow.Equal(got.RanAt))

	runs, err := repo.ListByLearner(ctx, "l1")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRolloverRepo_NotFound(t *testing.T) {
	repo := NewSQLRolloverRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.Get(ctx, "l1", 1, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Finish(ctx, &domain.RolloverRun{LearnerID: "l1", FromWeek: 1, ToWeek: 2})
	assert.ErrorIs(t, err, ErrNotFound)
}
