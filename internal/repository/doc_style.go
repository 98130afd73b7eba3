package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/feather/internal/docstore"
	"github.com/alexanderramin/feather/internal/domain"
)

type styleRecord struct {
	Label     string `json:"label"`
	Color     string `json:"color"`
	ColorDone string `json:"colorDone"`
}

// DocStyleRepo implements StyleRepo over users/{uid}/plan-style.
type DocStyleRepo struct {
	col docstore.CollectionRef
}

func NewDocStyleRepo(store *docstore.Store, uid string) *DocStyleRepo {
	return &DocStyleRepo{col: store.Collection(userCollection(uid, stylesCollection))}
}

func decodeStyle(d docstore.Doc) (domain.PlanStyle, error) {
	var rec styleRecord
	if err := d.Decode(&rec); err != nil {
		return domain.PlanStyle{}, err
	}
	return domain.PlanStyle{ID: d.ID, Label: rec.Label, Color: rec.Color, ColorDone: rec.ColorDone}, nil
}

func (r *DocStyleRepo) Get(ctx context.Context, id string) (*domain.PlanStyle, error) {
	d, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound("plan style "+id, err)
	}
	s, err := decodeStyle(d)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *DocStyleRepo) List(ctx context.Context) ([]domain.PlanStyle, error) {
	docs, err := r.col.Query().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing plan styles: %w", err)
	}
	return decodeAll(docs, decodeStyle)
}

func (r *DocStyleRepo) Watch(fn func([]domain.PlanStyle, error)) docstore.Unsubscribe {
	return watchDecoded(r.col.Query(), decodeStyle, fn)
}

func (r *DocStyleRepo) Put(b *docstore.WriteBatch, s domain.PlanStyle) {
	b.Set(r.col.Doc(s.ID), docstore.Data{
		"label":     s.Label,
		"color":     s.Color,
		"colorDone": s.ColorDone,
	})
}

func (r *DocStyleRepo) Remove(b *docstore.WriteBatch, id string) {
	b.Delete(r.col.Doc(id))
}
