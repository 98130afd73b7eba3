package undo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter is a tiny model the actions mutate.
type counter struct{ n int }

func (c *counter) incr(s *Stack, by int) {
	c.n += by
	s.Add(Action{
		Label: "incr",
		Undo:  func(context.Context) error { c.n -= by; return nil },
		Redo:  func(context.Context) error { c.n += by; return nil },
	})
}

func TestStack_UndoRedoSequence(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := &counter{}

	c.incr(s, 1)
	c.incr(s, 10)
	c.incr(s, 100)
	require.Equal(t, 111, c.n)

	for range 3 {
		_, err := s.Undo(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, c.n)
	_, err := s.Undo(ctx)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = s.Redo(ctx)
	require.NoError(t, err)
	_, err = s.Redo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, c.n)

	u, r := s.Counts()
	assert.Equal(t, 2, u)
	assert.Equal(t, 1, r)
}

func TestStack_NewActionClearsRedo(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := &counter{}

	c.incr(s, 1)
	c.incr(s, 2)
	_, err := s.Undo(ctx)
	require.NoError(t, err)

	c.incr(s, 5)
	_, err = s.Redo(ctx)
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 6, c.n)
}

func TestStack_FailedClosureLeavesHistory(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")
	fail := true
	s.Add(Action{
		Label: "flaky",
		Undo: func(context.Context) error {
			if fail {
				return boom
			}
			return nil
		},
		Redo: func(context.Context) error { return boom },
	})

	_, err := s.Undo(ctx)
	require.ErrorIs(t, err, boom)
	u, r := s.Counts()
	assert.Equal(t, 1, u)
	assert.Equal(t, 0, r)

	fail = false
	_, err = s.Undo(ctx)
	require.NoError(t, err)

	_, err = s.Redo(ctx)
	require.ErrorIs(t, err, boom)
	u, r = s.Counts()
	assert.Equal(t, 0, u)
	assert.Equal(t, 1, r)
}

func TestStack_LimitDropsOldest(t *testing.T) {
	ctx := context.Background()
	s := New(WithLimit(2))
	c := &counter{}

	c.incr(s, 1)
	c.incr(s, 10)
	c.incr(s, 100)

	u, _ := s.Counts()
	require.Equal(t, 2, u)
	for range 2 {
		_, err := s.Undo(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, c.n, "oldest action is no longer undoable")

	s.Clear()
	u, r := s.Counts()
	assert.Zero(t, u+r)
}
