package repository

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alexanderramin/feather/internal/domain"
	"github.com/alexanderramin/feather/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedIDs(plans []domain.Plan) []string {
	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	sort.Strings(ids)
	return ids
}

func TestPlanRepo_PutGetAndRange(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewDocPlanRepo(store, testutil.TestUID)
	ctx := context.Background()

	b := store.Batch()
	for _, p := range testutil.Chain("2024-03-01", "a", "one", "two") {
		repo.Put(b, p)
	}
	repo.Put(b, testutil.NewTestPlan("2024-03-08", "next week", testutil.WithPlanID("w1"), testutil.WithStyle("")))
	require.NoError(t, b.Commit(ctx))

	got, err := repo.Get(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, domain.Plan{ID: "a2", DateStr: "2024-03-01", Content: "two", StyleID: domain.DefaultStyleID, Prv: "a1"}, *got)

	week, err := repo.ListRange(ctx, "2024-03-01", "2024-03-08")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, sortedIDs(week))

	later, err := repo.ListRange(ctx, "2024-03-08", "2024-03-15")
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, domain.DefaultStyleID, later[0].StyleID)
}

func TestPlanRepo_GetMissing(t *testing.T) {
	repo := NewDocPlanRepo(testutil.NewTestStore(t), testutil.TestUID)
	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_PlaceRelinkAndRemove(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewDocPlanRepo(store, testutil.TestUID)
	ctx := context.Background()

	b := store.Batch()
	for _, p := range testutil.Chain("2024-03-01", "a", "one", "two", "three") {
		repo.Put(b, p)
	}
	require.NoError(t, b.Commit(ctx))

	b = store.Batch()
	repo.Relink(b, "a3", "a1")
	repo.Place(b, "a2", "2024-03-02", "")
	repo.SetContent(b, "a1", "first")
	require.NoError(t, b.Commit(ctx))

	a2, err := repo.Get(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", a2.DateStr)
	assert.Equal(t, "", a2.Prv)
	a3, err := repo.Get(ctx, "a3")
	require.NoError(t, err)
	assert.Equal(t, "a1", a3.Prv)
	a1, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "first", a1.Content)

	b = store.Batch()
	repo.Remove(b, "a3")
	require.NoError(t, b.Commit(ctx))
	_, err = repo.Get(ctx, "a3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_RelinkMissingFailsWholeBatch(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewDocPlanRepo(store, testutil.TestUID)
	ctx := context.Background()

	b := store.Batch()
	repo.Put(b, testutil.NewTestPlan("2024-03-01", "kept?", testutil.WithPlanID("p1")))
	repo.Relink(b, "ghost", "p1")
	require.Error(t, b.Commit(ctx))

	_, err := repo.Get(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_UsersAreIsolated(t *testing.T) {
	store := testutil.NewTestStore(t)
	mine := NewDocPlanRepo(store, "alice")
	theirs := NewDocPlanRepo(store, "bob")
	ctx := context.Background()

	b := store.Batch()
	mine.Put(b, testutil.NewTestPlan("2024-03-01", "secret", testutil.WithPlanID("p1")))
	require.NoError(t, b.Commit(ctx))

	got, err := theirs.ListRange(ctx, "2024-01-01", "2025-01-01")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlanRepo_WatchSeesCommittedBatches(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewDocPlanRepo(store, testutil.TestUID)
	ctx := context.Background()

	snaps := make(chan []domain.Plan, 8)
	stop := repo.Watch("2024-03-01", "2024-03-08", func(plans []domain.Plan, err error) {
		assert.NoError(t, err)
		snaps <- plans
	})
	defer stop()

	assert.Empty(t, <-snaps)

	b := store.Batch()
	repo.Put(b, testutil.NewTestPlan("2024-03-03", "in range", testutil.WithPlanID("in")))
	repo.Put(b, testutil.NewTestPlan("2024-04-03", "out of range", testutil.WithPlanID("out")))
	require.NoError(t, b.Commit(ctx))

	select {
	case plans := <-snaps:
		assert.Equal(t, []string{"in"}, sortedIDs(plans))
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after commit")
	}
}
