package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/feather/internal/docstore"
	"github.com/alexanderramin/feather/internal/domain"
)

// ErrNotFound is wrapped by every lookup of a missing record.
var ErrNotFound = errors.New("not found")

// Writes are staged on a caller-owned batch so that a service can relink
// several records atomically; nothing is written until the batch commits.

type PlanRepo interface {
	Get(ctx context.Context, id string) (*domain.Plan, error)
	ListRange(ctx context.Context, start, end string) ([]domain.Plan, error)
	Watch(start, end string, fn func([]domain.Plan, error)) docstore.Unsubscribe

	Put(b *docstore.WriteBatch, p domain.Plan)
	SetContent(b *docstore.WriteBatch, id, content string)
	Place(b *docstore.WriteBatch, id, dateStr, prv string)
	Relink(b *docstore.WriteBatch, id, prv string)
	Remove(b *docstore.WriteBatch, id string)
}

type StyleRepo interface {
	Get(ctx context.Context, id string) (*domain.PlanStyle, error)
	List(ctx context.Context) ([]domain.PlanStyle, error)
	Watch(fn func([]domain.PlanStyle, error)) docstore.Unsubscribe

	Put(b *docstore.WriteBatch, s domain.PlanStyle)
	Remove(b *docstore.WriteBatch, id string)
}

type LabelRepo interface {
	FindByDate(ctx context.Context, dateStr string) (*domain.DateLabel, error)
	ListRange(ctx context.Context, start, end string) ([]domain.DateLabel, error)
	Watch(start, end string, fn func([]domain.DateLabel, error)) docstore.Unsubscribe

	NewID() string
	Put(b *docstore.WriteBatch, l domain.DateLabel)
	Remove(b *docstore.WriteBatch, id string)
}

type InodeRepo interface {
	Get(ctx context.Context, path string) (*domain.Inode, error)
	List(ctx context.Context) ([]domain.Inode, error)
	HomePaths(ctx context.Context) ([]string, error)
	Watch(fn func([]domain.Inode, error)) docstore.Unsubscribe
	WatchHome(fn func([]string, error)) docstore.Unsubscribe

	NewPath() string
	Put(b *docstore.WriteBatch, n domain.Inode) error
	Rename(b *docstore.WriteBatch, path, name string) error
	SetChildren(b *docstore.WriteBatch, dirPath string, paths []string) error
	SetPins(b *docstore.WriteBatch, path string, pins []domain.Pin) error
	Remove(b *docstore.WriteBatch, path string) error
	SetHomePaths(b *docstore.WriteBatch, paths []string)
}
