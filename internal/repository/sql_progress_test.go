package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func TestProgressRepo_GetMissing(t *testing.T) {
	repo := NewSQLProgressRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "learner", "item")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgressRepo_SaveAndGetRoundTrip(t *testing.T) {
	repo := NewSQLProgressRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	rec := testutil.NewTestRecord("l1", "daily-w2d1-read-0",
		testutil.WithWeek(2),
		testutil.WithCategory(domain.CategoryCoaching),
		testutil.WithCompletedAt(testNow, domain.Ptr(3)),
		testutil.WithCarry(1, 2),
	)
	rec.CurrentWeek = domain.Ptr(3)
	rec.UpdatedAt = testNow
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, "l1", "daily-w2d1-read-0")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemCompleted, got.Status)
	assert.Equal(t, domain.CategoryCoaching, got.Category)
	assert.Equal(t, 2, *got.WeekNumber)
	assert.Equal(t, 2, *got.OriginalWeek)
	assert.Equal(t, 3, *got.CurrentWeek)
	assert.Equal(t, 3, *got.CompletedInWeek)
	assert.True(t, got.CarriedOver)
	assert.Equal(t, 2, *got.CarriedFromWeek)
	assert.Equal(t, 1, got.CarryCount)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, testNow.Equal(*got.CompletedAt))
	assert.Nil(t, got.SkippedAt)
	assert.Nil(t, got.ArchivedAt)
	assert.True(t, testNow.Equal(got.UpdatedAt))
}

func TestProgressRepo_SaveOverwritesWholeRow(t *testing.T) {
	repo := NewSQLProgressRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	rec := testutil.NewTestRecord("l1", "item", testutil.WithCompletedAt(testNow, domain.Ptr(1)))
	require.NoError(t, repo.Save(ctx, rec))

	rec.Status = domain.ItemPending
	rec.CompletedAt = nil
	rec.CompletedInWeek = nil
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, "l1", "item")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemPending, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.Nil(t, got.CompletedInWeek)
}

func TestProgressRepo_ListByLearnerIsScoped(t *testing.T) {
	repo := NewSQLProgressRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testutil.NewTestRecord("l1", "b")))
	require.NoError(t, repo.Save(ctx, testutil.NewTestRecord("l1", "a")))
	require.NoError(t, repo.Save(ctx, testutil.NewTestRecord("l2", "c")))

	got, err := repo.ListByLearner(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ItemID)
	assert.Equal(t, "b", got[1].ItemID)

	none, err := repo.ListByLearner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProgressRepo_EmptyStatusAndCategoryDefault(t *testing.T) {
	repo := NewSQLProgressRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	rec := &domain.ProgressRecord{LearnerID: "l1", ItemID: "bare", UpdatedAt: testNow}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, "l1", "bare")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemPending, got.Status)
	assert.Equal(t, domain.CategoryContent, got.Category)
}

func TestProgressRepo_DeleteByLearner(t *testing.T) {
	repo := NewSQLProgressRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testutil.NewTestRecord("l1", "a")))
	require.NoError(t, repo.Save(ctx, testutil.NewTestRecord("l2", "a")))
	require.NoError(t, repo.DeleteByLearner(ctx, "l1"))

	got, err := repo.ListByLearner(ctx, "l1")
	require.NoError(t, err)
	assert.Empty(t, got)
	_, err = repo.Get(ctx, "l2", "a")
	assert.NoError(t, err)
}
