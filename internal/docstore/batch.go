package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/feather/internal/db"
)

// SetOption modifies a Set write.
type SetOption func(*setOptions)

type setOptions struct {
	merge bool
}

// Merge makes Set combine the given fields with the stored document
// instead of replacing it.
func Merge() SetOption {
	return func(o *setOptions) { o.merge = true }
}

type opKind int

const (
	opSet opKind = iota
	opUpdate
	opDelete
)

type writeOp struct {
	kind  opKind
	ref   DocRef
	data  Data
	merge bool
}

// WriteBatch collects writes that are committed atomically: either all of
// them are applied or none is.
type WriteBatch struct {
	store *Store
	ops   []writeOp
}

// Set queues a full (or merging) write of ref.
func (b *WriteBatch) Set(ref DocRef, data Data, opts ...SetOption) *WriteBatch {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}
	b.ops = append(b.ops, writeOp{kind: opSet, ref: ref, data: data, merge: o.merge})
	return b
}

// Update queues a field update of an existing document. The whole batch
// fails with ErrNotFound when the document is missing at commit time.
func (b *WriteBatch) Update(ref DocRef, fields Data) *WriteBatch {
	b.ops = append(b.ops, writeOp{kind: opUpdate, ref: ref, data: fields})
	return b
}

// Delete queues removal of ref.
func (b *WriteBatch) Delete(ref DocRef) *WriteBatch {
	b.ops = append(b.ops, writeOp{kind: opDelete, ref: ref})
	return b
}

// Len returns the number of queued writes.
func (b *WriteBatch) Len() int { return len(b.ops) }

// Commit applies all queued writes in one transaction and then notifies
// subscribers of every touched collection.
func (b *WriteBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	touched := map[string]bool{}
	now := b.store.now().Format(time.RFC3339Nano)

	err := b.store.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for i, op := range b.ops {
			if err := applyOp(ctx, tx, op, now); err != nil {
				return fmt.Errorf("batch write %d (%s): %w", i, op.ref.Path(), err)
			}
			touched[op.ref.Collection] = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	b.store.notify(touched)
	return nil
}

func applyOp(ctx context.Context, tx db.DBTX, op writeOp, now string) error {
	switch op.kind {
	case opDelete:
		_, err := tx.ExecContext(ctx,
			`DELETE FROM documents WHERE collection = ? AND id = ?`, op.ref.Collection, op.ref.ID)
		return err

	case opUpdate:
		existing, err := getDoc(ctx, tx, op.ref.Collection, op.ref.ID)
		if err != nil {
			return err
		}
		raw, err := encodeData(mergeData(existing.Data, op.data))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE documents SET data = ?, updated_at = ?, version = version + 1
			WHERE collection = ? AND id = ?`, raw, now, op.ref.Collection, op.ref.ID)
		return err

	case opSet:
		data := op.data
		if op.merge {
			existing, err := getDoc(ctx, tx, op.ref.Collection, op.ref.ID)
			switch {
			case err == nil:
				data = mergeData(existing.Data, op.data)
			case errors.Is(err, ErrNotFound):
				data = mergeData(nil, op.data)
			default:
				return err
			}
		}
		raw, err := encodeData(data)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (collection, id, data, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(collection, id) DO UPDATE
			SET data = excluded.data, updated_at = excluded.updated_at, version = version + 1`,
			op.ref.Collection, op.ref.ID, raw, now, now)
		return err
	}
	return fmt.Errorf("unknown write kind %d", op.kind)
}
