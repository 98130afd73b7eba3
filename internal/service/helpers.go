package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/feather/internal/docstore"
)

// batchWriter commits a staged batch with a uniform error prefix.
type batchWriter struct {
	batch *docstore.WriteBatch
}

func (b batchWriter) commit(ctx context.Context, what string) error {
	if err := b.batch.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
