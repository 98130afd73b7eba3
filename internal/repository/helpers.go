package repository

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/feather/internal/docstore"
)

// Collection names under users/{uid}.
const (
	plansCollection  = "plans"
	stylesCollection = "plan-style"
	labelsCollection = "date-labels"
	inodesCollection = "inodes"
)

// userCollection returns the path of a per-user collection.
func userCollection(uid, name string) string {
	return "users/" + uid + "/" + name
}

// HomeIndexPath is the document holding the top-level entries of the notes tree.
func HomeIndexPath(uid string) string {
	return userCollection(uid, inodesCollection) + "/index/dir/index"
}

// notFound maps docstore misses onto ErrNotFound, keeping the path in the message.
func notFound(what string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("reading %s: %w", what, err)
}

// decodeAll decodes every document of a snapshot or query result with fn,
// stopping at the first failure.
func decodeAll[T any](docs []docstore.Doc, fn func(docstore.Doc) (T, error)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := fn(d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// watchDecoded subscribes q and hands decoded snapshots to fn.
func watchDecoded[T any](q docstore.Query, decode func(docstore.Doc) (T, error), fn func([]T, error)) docstore.Unsubscribe {
	return q.OnSnapshot(func(s docstore.Snapshot) {
		if s.Err != nil {
			fn(nil, s.Err)
			return
		}
		fn(decodeAll(s.Docs, decode))
	})
}
