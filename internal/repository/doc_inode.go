package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/feather/internal/docstore"
	"github.com/alexanderramin/feather/internal/domain"
)

type pinRecord struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

type inodeRecord struct {
	Type       string      `json:"type"`
	Name       string      `json:"name"`
	InodePaths []string    `json:"inodePaths"`
	Pins       []pinRecord `json:"pins"`
}

// DocInodeRepo implements InodeRepo over users/{uid}/inodes and the home
// index document.
type DocInodeRepo struct {
	store *docstore.Store
	col   docstore.CollectionRef
	home  docstore.DocRef
}

func NewDocInodeRepo(store *docstore.Store, uid string) *DocInodeRepo {
	// HomeIndexPath always has a collection and an id.
	home, _ := store.Doc(HomeIndexPath(uid))
	return &DocInodeRepo{
		store: store,
		col:   store.Collection(userCollection(uid, inodesCollection)),
		home:  home,
	}
}

func decodeInode(d docstore.Doc) (domain.Inode, error) {
	var rec inodeRecord
	if err := d.Decode(&rec); err != nil {
		return domain.Inode{}, err
	}
	n := domain.Inode{
		Path:       d.Path(),
		Type:       domain.InodeType(rec.Type),
		Name:       rec.Name,
		InodePaths: rec.InodePaths,
	}
	for _, p := range rec.Pins {
		n.Pins = append(n.Pins, domain.Pin(p))
	}
	return n, nil
}

func encodePins(pins []domain.Pin) []pinRecord {
	out := make([]pinRecord, len(pins))
	for i, p := range pins {
		out[i] = pinRecord(p)
	}
	return out
}

// ref resolves a path that must belong to the inodes collection.
func (r *DocInodeRepo) ref(path string) (docstore.DocRef, error) {
	ref, err := r.store.Doc(path)
	if err != nil {
		return docstore.DocRef{}, err
	}
	if ref.Collection != r.col.Path() {
		return docstore.DocRef{}, fmt.Errorf("inode path %q is outside %s", path, r.col.Path())
	}
	return ref, nil
}

func (r *DocInodeRepo) Get(ctx context.Context, path string) (*domain.Inode, error) {
	ref, err := r.ref(path)
	if err != nil {
		return nil, err
	}
	d, err := ref.Get(ctx)
	if err != nil {
		return nil, notFound("inode "+path, err)
	}
	n, err := decodeInode(d)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *DocInodeRepo) List(ctx context.Context) ([]domain.Inode, error) {
	docs, err := r.col.Query().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing inodes: %w", err)
	}
	return decodeAll(docs, decodeInode)
}

// HomePaths returns the top-level entries. A missing index means an empty home.
func (r *DocInodeRepo) HomePaths(ctx context.Context) ([]string, error) {
	d, err := r.home.Get(ctx)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading home index: %w", err)
	}
	return d.Strings("inodePaths"), nil
}

func (r *DocInodeRepo) Watch(fn func([]domain.Inode, error)) docstore.Unsubscribe {
	return watchDecoded(r.col.Query(), decodeInode, fn)
}

func (r *DocInodeRepo) WatchHome(fn func([]string, error)) docstore.Unsubscribe {
	q := r.store.Collection(r.home.Collection).Query()
	return q.OnSnapshot(func(s docstore.Snapshot) {
		if s.Err != nil {
			fn(nil, s.Err)
			return
		}
		for _, d := range s.Docs {
			if d.ID == r.home.ID {
				fn(d.Strings("inodePaths"), nil)
				return
			}
		}
		fn(nil, nil)
	})
}

// NewPath returns the path of a fresh, unwritten inode.
func (r *DocInodeRepo) NewPath() string { return r.col.NewDoc().Path() }

func (r *DocInodeRepo) Put(b *docstore.WriteBatch, n domain.Inode) error {
	if !domain.ValidInodeTypes[string(n.Type)] {
		return fmt.Errorf("invalid inode type %q", n.Type)
	}
	ref, err := r.ref(n.Path)
	if err != nil {
		return err
	}
	data := docstore.Data{"type": string(n.Type), "name": strings.TrimSpace(n.Name)}
	switch n.Type {
	case domain.InodeDir:
		data["inodePaths"] = nonNil(n.InodePaths)
	case domain.InodePinboard:
		data["pins"] = encodePins(n.Pins)
	}
	b.Set(ref, data)
	return nil
}

func (r *DocInodeRepo) Rename(b *docstore.WriteBatch, path, name string) error {
	return r.update(b, path, docstore.Data{"name": strings.TrimSpace(name)})
}

func (r *DocInodeRepo) SetChildren(b *docstore.WriteBatch, dirPath string, paths []string) error {
	return r.update(b, dirPath, docstore.Data{"inodePaths": nonNil(paths)})
}

func (r *DocInodeRepo) SetPins(b *docstore.WriteBatch, path string, pins []domain.Pin) error {
	return r.update(b, path, docstore.Data{"pins": encodePins(pins)})
}

func (r *DocInodeRepo) Remove(b *docstore.WriteBatch, path string) error {
	ref, err := r.ref(path)
	if err != nil {
		return err
	}
	b.Delete(ref)
	return nil
}

// SetHomePaths writes the home index, creating it when missing.
func (r *DocInodeRepo) SetHomePaths(b *docstore.WriteBatch, paths []string) {
	b.Set(r.home, docstore.Data{"inodePaths": nonNil(paths)}, docstore.Merge())
}

func (r *DocInodeRepo) update(b *docstore.WriteBatch, path string, fields docstore.Data) error {
	ref, err := r.ref(path)
	if err != nil {
		return err
	}
	b.Update(ref, fields)
	return nil
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil(paths []string) []string {
	if paths == nil {
		return []string{}
	}
	return paths
}
