package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/feather/internal/domain"
	"github.com/alexanderramin/feather/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRepo_PutListRemove(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewDocStyleRepo(store, testutil.TestUID)
	ctx := context.Background()

	b := store.Batch()
	repo.Put(b, domain.PlanStyle{ID: "work", Label: "Work", Color: "#336699", ColorDone: "#99aabb"})
	repo.Put(b, domain.PlanStyle{ID: "home", Label: "Home", Color: "#669933"})
	require.NoError(t, b.Commit(ctx))

	got, err := repo.Get(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, "#99aabb", got.ColorDone)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	b = store.Batch()
	repo.Remove(b, "work")
	require.NoError(t, b.Commit(ctx))
	_, err = repo.Get(ctx, "work")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLabelRepo_FindByDateAndRange(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewDocLabelRepo(store, testutil.TestUID)
	ctx := context.Background()

	_, err := repo.FindByDate(ctx, "2024-03-01")
	require.ErrorIs(t, err, ErrNotFound)

	b := store.Batch()
	repo.Put(b, domain.DateLabel{ID: "l1", DateStr: "2024-03-01", Content: "trip"})
	repo.Put(b, domain.DateLabel{ID: "l2", DateStr: "2024-03-01", Content: "trip, day 1"})
	repo.Put(b, domain.DateLabel{ID: repo.NewID(), DateStr: "2024-03-20", Content: "later"})
	require.NoError(t, b.Commit(ctx))

	l, err := repo.FindByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "l2", l.ID)

	week, err := repo.ListRange(ctx, "2024-03-01", "2024-03-08")
	require.NoError(t, err)
	assert.Len(t, week, 2)
}

func TestInodeRepo_TreeAndPins(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewDocInodeRepo(store, testutil.TestUID)
	ctx := context.Background()

	home, err := repo.HomePaths(ctx)
	require.NoError(t, err)
	assert.Empty(t, home)

	dir := repo.NewPath()
	board := repo.NewPath()
	b := store.Batch()
	require.NoError(t, repo.Put(b, domain.Inode{Path: dir, Type: domain.InodeDir, Name: " Projects "}))
	require.NoError(t, repo.Put(b, domain.Inode{Path: board, Type: domain.InodePinboard, Name: "Ideas"}))
	require.NoError(t, repo.SetChildren(b, dir, []string{board}))
	repo.SetHomePaths(b, []string{dir})
	require.NoError(t, b.Commit(ctx))

	home, err = repo.HomePaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, home)

	d, err := repo.Get(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "Projects", d.Name)
	assert.Equal(t, []string{board}, d.InodePaths)

	b = store.Batch()
	require.NoError(t, repo.SetPins(b, board, []domain.Pin{{ID: "n1", Content: "buy milk", X: 3, Y: 4}}))
	require.NoError(t, repo.Rename(b, board, "Inbox"))
	require.NoError(t, b.Commit(ctx))

	p, err := repo.Get(ctx, board)
	require.NoError(t, err)
	assert.Equal(t, domain.InodePinboard, p.Type)
	assert.Equal(t, "Inbox", p.Name)
	assert.Equal(t, []domain.Pin{{ID: "n1", Content: "buy milk", X: 3, Y: 4}}, p.Pins)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "the home index is not an inode")
}

func TestInodeRepo_RejectsForeignPathsAndTypes(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewDocInodeRepo(store, testutil.TestUID)
	b := store.Batch()

	assert.Error(t, repo.Put(b, domain.Inode{Path: "users/other/inodes/x", Type: domain.InodeDir}))
	assert.Error(t, repo.Put(b, domain.Inode{Path: repo.NewPath(), Type: "file"}))
	assert.Error(t, repo.Remove(b, "not-a-path"))
	assert.Zero(t, b.Len())
}

func TestInodeRepo_WatchHome(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewDocInodeRepo(store, testutil.TestUID)

	got := make(chan []string, 4)
	stop := repo.WatchHome(func(paths []string, err error) {
		assert.NoError(t, err)
		got <- paths
	})
	defer stop()
	assert.Empty(t, <-got)

	b := store.Batch()
	repo.SetHomePaths(b, []string{"users/test-user/inodes/a"})
	require.NoError(t, b.Commit(context.Background()))

	select {
	case paths := <-got:
		assert.Equal(t, []string{"users/test-user/inodes/a"}, paths)
	case <-time.After(2 * time.Second):
		t.Fatal("no home snapshot")
	}
}
