// Package undo keeps the history of reversible user actions.
//
// Each Action carries the closure that reverts it and the closure that
// applies it again. Undo moves the newest action to the redo side after
// its Undo closure succeeds; Redo does the opposite. Recording a new
// action discards anything that could have been redone.
package undo

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrEmpty is returned by Undo and Redo when there is nothing to replay.
var ErrEmpty = errors.New("nothing to replay")

// DefaultLimit bounds the history when no limit is configured.
const DefaultLimit = 100

// Action is a recorded reversible change.
type Action struct {
	Label string
	Undo  func(ctx context.Context) error
	Redo  func(ctx context.Context) error
}

// Stack is a bounded undo/redo history. It is safe for concurrent use, but
// closures run while the stack is locked so replays never interleave.
type Stack struct {
	mu    sync.Mutex
	limit int
	undo  []Action
	redo  []Action
}

type Option func(*Stack)

// WithLimit caps the number of actions kept on the undo side. Values below
// one fall back to DefaultLimit.
func WithLimit(n int) Option {
	return func(s *Stack) {
		if n > 0 {
			s.limit = n
		}
	}
}

func New(opts ...Option) *Stack {
	s := &Stack{limit: DefaultLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records an action that has already been applied.
func (s *Stack) Add(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.undo = append(s.undo, a)
	if over := len(s.undo) - s.limit; over > 0 {
		s.undo = append([]Action(nil), s.undo[over:]...)
	}
	s.redo = nil
}

// Undo reverts the newest action. When its closure fails the history is
// left as it was.
func (s *Stack) Undo(ctx context.Context) (Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undo) == 0 {
		return Action{}, ErrEmpty
	}
	a := s.undo[len(s.undo)-1]
	if err := a.Undo(ctx); err != nil {
		return a, fmt.Errorf("undo %s: %w", a.Label, err)
	}
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, a)
	return a, nil
}

// Redo re-applies the newest undone action.
func (s *Stack) Redo(ctx context.Context) (Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redo) == 0 {
		return Action{}, ErrEmpty
	}
	a := s.redo[len(s.redo)-1]
	if err := a.Redo(ctx); err != nil {
		return a, fmt.Errorf("redo %s: %w", a.Label, err)
	}
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, a)
	return a, nil
}

// Counts returns how many actions can be undone and redone.
func (s *Stack) Counts() (undo, redo int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo), len(s.redo)
}

// Clear drops the whole history.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo, s.redo = nil, nil
}
