package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/alexanderramin/feather/internal/domain"
	"github.com/alexanderramin/feather/internal/repository"
	"github.com/alexanderramin/feather/internal/undo"
	"github.com/google/uuid"
)

type notesService struct {
	batcher  Batcher
	inodes   repository.InodeRepo
	history  *undo.Stack
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewNotesService(
	batcher Batcher,
	inodes repository.InodeRepo,
	history *undo.Stack,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) NotesService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &notesService{
		batcher:  batcher,
		inodes:   inodes,
		history:  history,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *notesService) Home(ctx context.Context) ([]domain.Inode, error) {
	paths, err := s.inodes.HomePaths(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, paths)
}

func (s *notesService) Children(ctx context.Context, dirPath string) ([]domain.Inode, error) {
	if dirPath == "" {
		return s.Home(ctx)
	}
	dir, err := s.inodes.Get(ctx, dirPath)
	if err != nil {
		return nil, err
	}
	if dir.Type != domain.InodeDir {
		return nil, fmt.Errorf("%s is a %s, not a directory", dirPath, dir.Type)
	}
	return s.resolve(ctx, dir.InodePaths)
}

func (s *notesService) Get(ctx context.Context, path string) (*domain.Inode, error) {
	return s.inodes.Get(ctx, path)
}

// resolve loads the inodes at paths; dangling paths are skipped.
func (s *notesService) resolve(ctx context.Context, paths []string) ([]domain.Inode, error) {
	out := make([]domain.Inode, 0, len(paths))
	for _, p := range paths {
		n, err := s.inodes.Get(ctx, p)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, nil
}

func (s *notesService) AddPinboard(ctx context.Context, parent, name string) (domain.Inode, error) {
	return s.addInode(ctx, "add-pinboard", parent, domain.Inode{Type: domain.InodePinboard, Name: name})
}

func (s *notesService) AddDirectory(ctx context.Context, parent, name string) (domain.Inode, error) {
	return s.addInode(ctx, "add-directory", parent, domain.Inode{Type: domain.InodeDir, Name: name})
}

// addInode creates the inode and appends it to its parent in one batch.
// Undo deletes it and detaches it from the parent again.
func (s *notesService) addInode(ctx context.Context, useCase, parent string, n domain.Inode) (domain.Inode, error) {
	err := observe(ctx, s.observer, useCase, map[string]any{"parent": parent}, func() error {
		n.Name = strings.TrimSpace(n.Name)
		if n.Name == "" {
			return errors.New("name is required")
		}
		n.Path = s.inodes.NewPath()
		if err := s.attach(ctx, parent, n); err != nil {
			return err
		}
		created := n
		s.history.Add(undo.Action{
			Label: useCase,
			Undo:  func(ctx context.Context) error { return s.detach(ctx, parent, created.Path) },
			Redo:  func(ctx context.Context) error { return s.attach(ctx, parent, created) },
		})
		return nil
	})
	return n, err
}

func (s *notesService) children(ctx context.Context, parent string) ([]string, error) {
	if parent == "" {
		return s.inodes.HomePaths(ctx)
	}
	dir, err := s.inodes.Get(ctx, parent)
	if err != nil {
		return nil, err
	}
	if dir.Type != domain.InodeDir {
		return nil, fmt.Errorf("%s is a %s, not a directory", parent, dir.Type)
	}
	return dir.InodePaths, nil
}

func (s *notesService) setChildren(b batchWriter, parent string, paths []string) error {
	if parent == "" {
		s.inodes.SetHomePaths(b.batch, paths)
		return nil
	}
	return s.inodes.SetChildren(b.batch, parent, paths)
}

func (s *notesService) attach(ctx context.Context, parent string, n domain.Inode) error {
	paths, err := s.children(ctx, parent)
	if err != nil {
		return err
	}
	b := batchWriter{s.batcher.Batch()}
	if err := s.inodes.Put(b.batch, n); err != nil {
		return err
	}
	if !slices.Contains(paths, n.Path) {
		paths = append(slices.Clone(paths), n.Path)
	}
	if err := s.setChildren(b, parent, paths); err != nil {
		return err
	}
	return b.commit(ctx, "creating "+string(n.Type))
}

func (s *notesService) detach(ctx context.Context, parent, path string) error {
	paths, err := s.children(ctx, parent)
	if err != nil {
		return err
	}
	b := batchWriter{s.batcher.Batch()}
	if err := s.inodes.Remove(b.batch, path); err != nil {
		return err
	}
	rest := slices.DeleteFunc(slices.Clone(paths), func(p string) bool { return p == path })
	if err := s.setChildren(b, parent, rest); err != nil {
		return err
	}
	return b.commit(ctx, "removing inode")
}

func (s *notesService) Rename(ctx context.Context, path, name string) error {
	return observe(ctx, s.observer, "rename-inode", map[string]any{"path": path}, func() error {
		name = strings.TrimSpace(name)
		if name == "" {
			return errors.New("name is required")
		}
		n, err := s.inodes.Get(ctx, path)
		if err != nil {
			return err
		}
		if n.Name == name {
			return nil
		}
		if err := s.rename(ctx, path, name); err != nil {
			return err
		}
		prev := n.Name
		s.history.Add(undo.Action{
			Label: "rename",
			Undo:  func(ctx context.Context) error { return s.rename(ctx, path, prev) },
			Redo:  func(ctx context.Context) error { return s.rename(ctx, path, name) },
		})
		return nil
	})
}

func (s *notesService) rename(ctx context.Context, path, name string) error {
	b := batchWriter{s.batcher.Batch()}
	if err := s.inodes.Rename(b.batch, path, name); err != nil {
		return err
	}
	return b.commit(ctx, "renaming")
}

func (s *notesService) AddPin(ctx context.Context, boardPath, content string, x, y int) (domain.Pin, error) {
	pin := domain.Pin{ID: uuid.New().String(), Content: content, X: x, Y: y}
	err := observe(ctx, s.observer, "add-pin", map[string]any{"board": boardPath}, func() error {
		if strings.TrimSpace(content) == "" {
			return errors.New("pin content is required")
		}
		insert := func(ctx context.Context) error {
			return s.editPins(ctx, boardPath, func(pins []domain.Pin) ([]domain.Pin, error) {
				return append(pins, pin), nil
			})
		}
		if err := insert(ctx); err != nil {
			return err
		}
		s.history.Add(undo.Action{
			Label: "add pin",
			Undo:  func(ctx context.Context) error { return s.dropPin(ctx, boardPath, pin.ID) },
			Redo:  insert,
		})
		return nil
	})
	return pin, err
}

func (s *notesService) MovePin(ctx context.Context, boardPath, pinID string, x, y int) error {
	return observe(ctx, s.observer, "move-pin", map[string]any{"board": boardPath, "pin_id": pinID}, func() error {
		var from domain.Pin
		err := s.editPins(ctx, boardPath, func(pins []domain.Pin) ([]domain.Pin, error) {
			i := pinIndex(pins, pinID)
			if i < 0 {
				return nil, fmt.Errorf("pin %s: %w", pinID, repository.ErrNotFound)
			}
			from = pins[i]
			pins[i].X, pins[i].Y = x, y
			return pins, nil
		})
		if err != nil {
			return err
		}
		s.history.Add(undo.Action{
			Label: "move pin",
			Undo:  func(ctx context.Context) error { return s.placePin(ctx, boardPath, pinID, from.X, from.Y) },
			Redo:  func(ctx context.Context) error { return s.placePin(ctx, boardPath, pinID, x, y) },
		})
		return nil
	})
}

func (s *notesService) RemovePin(ctx context.Context, boardPath, pinID string) error {
	return observe(ctx, s.observer, "remove-pin", map[string]any{"board": boardPath, "pin_id": pinID}, func() error {
		var (
			removed domain.Pin
			at      int
		)
		err := s.editPins(ctx, boardPath, func(pins []domain.Pin) ([]domain.Pin, error) {
			at = pinIndex(pins, pinID)
			if at < 0 {
				return nil, fmt.Errorf("pin %s: %w", pinID, repository.ErrNotFound)
			}
			removed = pins[at]
			return slices.Delete(pins, at, at+1), nil
		})
		if err != nil {
			return err
		}
		s.history.Add(undo.Action{
			Label: "remove pin",
			Undo: func(ctx context.Context) error {
				return s.editPins(ctx, boardPath, func(pins []domain.Pin) ([]domain.Pin, error) {
					return slices.Insert(pins, min(at, len(pins)), removed), nil
				})
			},
			Redo: func(ctx context.Context) error { return s.dropPin(ctx, boardPath, pinID) },
		})
		return nil
	})
}

func (s *notesService) placePin(ctx context.Context, boardPath, pinID string, x, y int) error {
	return s.editPins(ctx, boardPath, func(pins []domain.Pin) ([]domain.Pin, error) {
		if i := pinIndex(pins, pinID); i >= 0 {
			pins[i].X, pins[i].Y = x, y
		}
		return pins, nil
	})
}

func (s *notesService) dropPin(ctx context.Context, boardPath, pinID string) error {
	return s.editPins(ctx, boardPath, func(pins []domain.Pin) ([]domain.Pin, error) {
		return slices.DeleteFunc(pins, func(p domain.Pin) bool { return p.ID == pinID }), nil
	})
}

// editPins rewrites the pins of a board with edit, which receives a copy.
func (s *notesService) editPins(ctx context.Context, boardPath string, edit func([]domain.Pin) ([]domain.Pin, error)) error {
	board, err := s.inodes.Get(ctx, boardPath)
	if err != nil {
		return err
	}
	if board.Type != domain.InodePinboard {
		return fmt.Errorf("%s is a %s, not a pinboard", boardPath, board.Type)
	}
	pins, err := edit(slices.Clone(board.Pins))
	if err != nil {
		return err
	}
	b := batchWriter{s.batcher.Batch()}
	if err := s.inodes.SetPins(b.batch, boardPath, pins); err != nil {
		return err
	}
	return b.commit(ctx, "writing pins")
}

// Watch delivers the whole tree whenever the home index or any inode changes.
func (s *notesService) Watch(sink func(domain.NotesTree), onErr func(error)) func() {
	var (
		mu   sync.Mutex
		tree = domain.NotesTree{Inodes: map[string]domain.Inode{}}
	)
	fail := func(what string, err error) {
		s.logger.Error("notes subscription failed", "what", what, "error", err)
		if onErr != nil {
			onErr(fmt.Errorf("%s: %w", what, err))
		}
	}
	// The home and inode watchers run on their own goroutines; sink is
	// called under mu so trees arrive in the order they were built.
	emit := func(update func()) {
		mu.Lock()
		defer mu.Unlock()
		update()
		sink(domain.NotesTree{Home: slices.Clone(tree.Home), Inodes: maps.Clone(tree.Inodes)})
	}

	stopHome := s.inodes.WatchHome(func(paths []string, err error) {
		if err != nil {
			fail("home", err)
			return
		}
		emit(func() { tree.Home = paths })
	})
	stopInodes := s.inodes.Watch(func(inodes []domain.Inode, err error) {
		if err != nil {
			fail("inodes", err)
			return
		}
		emit(func() {
			tree.Inodes = make(map[string]domain.Inode, len(inodes))
			for _, n := range inodes {
				tree.Inodes[n.Path] = n
			}
		})
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			stopHome()
			stopInodes()
		})
	}
}

func (s *notesService) Undo(ctx context.Context) error {
	return observe(ctx, s.observer, "undo-notes", nil, func() error {
		_, err := s.history.Undo(ctx)
		return err
	})
}

func (s *notesService) Redo(ctx context.Context) error {
	return observe(ctx, s.observer, "redo-notes", nil, func() error {
		_, err := s.history.Redo(ctx)
		return err
	})
}

func (s *notesService) History() (int, int) {
	return s.history.Counts()
}

func pinIndex(pins []domain.Pin, id string) int {
	return slices.IndexFunc(pins, func(p domain.Pin) bool { return p.ID == id })
}
