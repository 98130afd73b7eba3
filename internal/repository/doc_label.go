package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/feather/internal/docstore"
	"github.com/alexanderramin/feather/internal/domain"
)

type labelRecord struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

// DocLabelRepo implements LabelRepo over users/{uid}/date-labels.
type DocLabelRepo struct {
	col docstore.CollectionRef
}

func NewDocLabelRepo(store *docstore.Store, uid string) *DocLabelRepo {
	return &DocLabelRepo{col: store.Collection(userCollection(uid, labelsCollection))}
}

func decodeLabel(d docstore.Doc) (domain.DateLabel, error) {
	var rec labelRecord
	if err := d.Decode(&rec); err != nil {
		return domain.DateLabel{}, err
	}
	return domain.DateLabel{ID: d.ID, DateStr: rec.Date, Content: rec.Content}, nil
}

// FindByDate returns the label of a date. When several records carry the
// same date the one with the greatest id is returned, so the pick is stable.
func (r *DocLabelRepo) FindByDate(ctx context.Context, dateStr string) (*domain.DateLabel, error) {
	docs, err := r.col.Where("date", "==", dateStr).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding label for %s: %w", dateStr, err)
	}
	labels, err := decodeAll(docs, decodeLabel)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("date label %s: %w", dateStr, ErrNotFound)
	}
	best := labels[0]
	for _, l := range labels[1:] {
		if l.ID > best.ID {
			best = l
		}
	}
	return &best, nil
}

func (r *DocLabelRepo) rangeQuery(start, end string) docstore.Query {
	return r.col.Where("date", ">=", start).Where("date", "<", end)
}

func (r *DocLabelRepo) ListRange(ctx context.Context, start, end string) ([]domain.DateLabel, error) {
	docs, err := r.rangeQuery(start, end).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing labels %s..%s: %w", start, end, err)
	}
	return decodeAll(docs, decodeLabel)
}

func (r *DocLabelRepo) Watch(start, end string, fn func([]domain.DateLabel, error)) docstore.Unsubscribe {
	return watchDecoded(r.rangeQuery(start, end), decodeLabel, fn)
}

func (r *DocLabelRepo) NewID() string { return r.col.NewDoc().ID }

func (r *DocLabelRepo) Put(b *docstore.WriteBatch, l domain.DateLabel) {
	b.Set(r.col.Doc(l.ID), docstore.Data{"date": l.DateStr, "content": l.Content})
}

func (r *DocLabelRepo) Remove(b *docstore.WriteBatch, id string) {
	b.Delete(r.col.Doc(id))
}
