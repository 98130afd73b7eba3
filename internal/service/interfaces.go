package service

import (
	"context"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/alexanderramin/feather/internal/docstore"
	"github.com/alexanderramin/feather/internal/domain"
)

// Batcher starts atomic write batches; *docstore.Store satisfies it.
type Batcher interface {
	Batch() *docstore.WriteBatch
}

// CalendarService turns user intents into document writes, recording an
// undo pair for each mutation.
type CalendarService interface {
	Add(ctx context.Context, dateStr, content, styleID string) (domain.Plan, error)
	Edit(ctx context.Context, planID, content string) error
	Delete(ctx context.Context, planID string) error
	Move(ctx context.Context, m calendar.MoveRequest) error
	SetLabel(ctx context.Context, dateStr, content string) error
	SetStyle(ctx context.Context, style domain.PlanStyle) error

	Plan(ctx context.Context, planID string) (*domain.Plan, error)
	Plans(ctx context.Context, start, end string) (map[string][]domain.Plan, error)
	Labels(ctx context.Context, start, end string) (map[string]domain.DateLabel, error)
	Styles(ctx context.Context) ([]domain.PlanStyle, error)

	// Watch feeds reducer actions for [start, end) to sink until the
	// returned function is called. onErr may be nil.
	Watch(start, end string, sink func(calendar.Action), onErr func(error)) (cancel func())

	Undo(ctx context.Context) error
	Redo(ctx context.Context) error
	History() (undo, redo int)
}

// NotesService manages the directory/pinboard tree and the pins on boards.
// A parent of "" means the home directory.
type NotesService interface {
	Home(ctx context.Context) ([]domain.Inode, error)
	Children(ctx context.Context, dirPath string) ([]domain.Inode, error)
	Get(ctx context.Context, path string) (*domain.Inode, error)

	AddPinboard(ctx context.Context, parent, name string) (domain.Inode, error)
	AddDirectory(ctx context.Context, parent, name string) (domain.Inode, error)
	Rename(ctx context.Context, path, name string) error
	AddPin(ctx context.Context, boardPath, content string, x, y int) (domain.Pin, error)
	MovePin(ctx context.Context, boardPath, pinID string, x, y int) error
	RemovePin(ctx context.Context, boardPath, pinID string) error

	Watch(sink func(domain.NotesTree), onErr func(error)) (cancel func())

	Undo(ctx context.Context) error
	Redo(ctx context.Context) error
	History() (undo, redo int)
}
