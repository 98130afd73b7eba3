package docstore_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/feather/internal/db"
	"github.com/alexanderramin/feather/internal/docstore"
	"github.com/alexanderramin/feather/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docIDs(docs []docstore.Doc) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	sort.Strings(ids)
	return ids
}

func TestStore_AddAndGet(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	ref, err := store.Collection("users/u1/plans").Add(ctx, docstore.Data{
		"date":    "2024-03-01",
		"content": "dentist",
		"prv":     "",
	})
	require.NoError(t, err)
	require.NotEmpty(t, ref.ID)

	doc, err := ref.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "users/u1/plans", doc.Collection)
	assert.Equal(t, "dentist", doc.String("content"))
	assert.Equal(t, "2024-03-01", doc.String("date"))
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, "users/u1/plans/"+ref.ID, doc.Path())
}

func TestStore_GetMissing(t *testing.T) {
	store := testutil.NewTestStore(t)

	_, err := store.Collection("c").Doc("nope").Get(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

func TestStore_SetMergeAndUpdate(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()
	ref := store.Collection("c").Doc("d1")

	require.NoError(t, ref.Set(ctx, docstore.Data{"a": "1", "b": "2"}))
	require.NoError(t, ref.Set(ctx, docstore.Data{"b": "3", "c": "4"}, docstore.Merge()))

	doc, err := ref.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", doc.String("a"))
	assert.Equal(t, "3", doc.String("b"))
	assert.Equal(t, "4", doc.String("c"))
	assert.Equal(t, 2, doc.Version)

	require.NoError(t, ref.Update(ctx, docstore.Data{"a": docstore.DeleteField, "n": 7}))
	doc, err = ref.Get(ctx)
	require.NoError(t, err)
	_, hasA := doc.Data["a"]
	assert.False(t, hasA)
	assert.Equal(t, 7, doc.Int("n"))

	// Plain Set replaces the document.
	require.NoError(t, ref.Set(ctx, docstore.Data{"only": "x"}))
	doc, err = ref.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, docstore.Data{"only": "x"}, doc.Data)
}

func TestStore_UpdateMissingFails(t *testing.T) {
	store := testutil.NewTestStore(t)

	err := store.Collection("c").Doc("ghost").Update(context.Background(), docstore.Data{"x": 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

func TestQuery_RangeFilters(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()
	plans := store.Collection("users/u1/plans")

	for id, date := range map[string]string{
		"a": "2024-02-28", "b": "2024-03-01", "c": "2024-03-05", "d": "2024-03-08",
	} {
		require.NoError(t, plans.Doc(id).Set(ctx, docstore.Data{"date": date}))
	}
	// Same field, different collection: must not leak into the query.
	require.NoError(t, store.Collection("users/u2/plans").Doc("x").Set(ctx, docstore.Data{"date": "2024-03-02"}))

	docs, err := plans.Where("date", ">=", "2024-03-01").Where("date", "<", "2024-03-08").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, docIDs(docs))

	docs, err = plans.Where("date", "==", "2024-02-28").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, docIDs(docs))

	all, err := plans.Query().Get(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestQuery_RejectsBadFilters(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := store.Collection("c").Where("date) OR 1=1 --", ">=", "x").Get(ctx)
	assert.Error(t, err)

	_, err = store.Collection("c").Where("date", "LIKE", "x").Get(ctx)
	assert.Error(t, err)
}

func TestBatch_CommitsAtomically(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()
	c := store.Collection("c")
	require.NoError(t, c.Doc("keep").Set(ctx, docstore.Data{"v": "old"}))

	err := store.Batch().
		Update(c.Doc("keep"), docstore.Data{"v": "new"}).
		Set(c.Doc("fresh"), docstore.Data{"v": "1"}).
		Update(c.Doc("missing"), docstore.Data{"v": "boom"}).
		Commit(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, docstore.ErrNotFound))

	doc, err := c.Doc("keep").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", doc.String("v"), "earlier writes must roll back")

	_, err = c.Doc("fresh").Get(ctx)
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

func TestBatch_RollsBackOnExecFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	boom := errors.New("disk on fire")
	store := docstore.New(database, docstore.WithUnitOfWork(&testutil.FailOnNthExecUoW{
		Inner: db.NewSQLiteUnitOfWork(database), FailOn: 2, Err: boom,
	}))
	t.Cleanup(store.Close)
	ctx := context.Background()
	c := store.Collection("c")

	err := store.Batch().
		Set(c.Doc("one"), docstore.Data{"v": 1}).
		Set(c.Doc("two"), docstore.Data{"v": 2}).
		Commit(ctx)
	require.ErrorIs(t, err, boom)

	docs, err := c.Query().Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestBatch_EmptyCommitIsNoop(t *testing.T) {
	store := testutil.NewTestStore(t)
	assert.NoError(t, store.Batch().Commit(context.Background()))
}

func TestOnSnapshot_DeliversInitialAndCommittedState(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()
	plans := store.Collection("users/u1/plans")
	require.NoError(t, plans.Doc("p1").Set(ctx, docstore.Data{"date": "2024-03-01"}))

	snaps := make(chan docstore.Snapshot, 16)
	unsub := plans.Where("date", ">=", "2024-03-01").OnSnapshot(func(s docstore.Snapshot) {
		snaps <- s
	})
	defer unsub()

	first := waitSnapshot(t, snaps)
	require.NoError(t, first.Err)
	assert.Equal(t, []string{"p1"}, docIDs(first.Docs))

	require.NoError(t, plans.Doc("p2").Set(ctx, docstore.Data{"date": "2024-03-02"}))
	assert.Eventually(t, func() bool {
		select {
		case s := <-snaps:
			return len(s.Docs) == 2
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestOnSnapshot_BurstEndsOnLatestState(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()
	plans := store.Collection("p")

	var mu sync.Mutex
	var seen []int
	unsub := plans.Query().OnSnapshot(func(s docstore.Snapshot) {
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		seen = append(seen, len(s.Docs))
		mu.Unlock()
	})
	defer unsub()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, plans.Doc(id).Set(ctx, docstore.Data{}))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == 5
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, len(seen), 6, "initial snapshot plus at most one per batch")
}

func TestOnSnapshot_IgnoresOtherCollectionsAndStopsAfterUnsubscribe(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	snaps := make(chan docstore.Snapshot, 16)
	unsub := store.Collection("a").Query().OnSnapshot(func(s docstore.Snapshot) { snaps <- s })
	waitSnapshot(t, snaps)

	require.NoError(t, store.Collection("b").Doc("x").Set(ctx, docstore.Data{}))
	unsub()
	unsub()
	require.NoError(t, store.Collection("a").Doc("y").Set(ctx, docstore.Data{}))

	select {
	case s := <-snaps:
		t.Fatalf("unexpected snapshot with %d docs", len(s.Docs))
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSplitPath(t *testing.T) {
	c, id, err := docstore.SplitPath("users/u1/inodes/index/dir/index")
	require.NoError(t, err)
	assert.Equal(t, "users/u1/inodes/index/dir", c)
	assert.Equal(t, "index", id)

	_, _, err = docstore.SplitPath("lonely")
	assert.Error(t, err)
}

func waitSnapshot(t *testing.T, ch <-chan docstore.Snapshot) docstore.Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return docstore.Snapshot{}
	}
}
