package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/feather/internal/docstore"
	"github.com/alexanderramin/feather/internal/domain"
)

// Plan document fields.
const (
	planDate    = "date"
	planContent = "content"
	planPrv     = "prv"
	planStyle   = "planStyleId"
)

type planRecord struct {
	Date    string `json:"date"`
	Content string `json:"content"`
	Prv     string `json:"prv"`
	StyleID string `json:"planStyleId"`
}

// DocPlanRepo implements PlanRepo over the users/{uid}/plans collection.
type DocPlanRepo struct {
	col docstore.CollectionRef
}

func NewDocPlanRepo(store *docstore.Store, uid string) *DocPlanRepo {
	return &DocPlanRepo{col: store.Collection(userCollection(uid, plansCollection))}
}

func decodePlan(d docstore.Doc) (domain.Plan, error) {
	var rec planRecord
	if err := d.Decode(&rec); err != nil {
		return domain.Plan{}, err
	}
	p := domain.Plan{ID: d.ID, DateStr: rec.Date, Content: rec.Content, Prv: rec.Prv, StyleID: rec.StyleID}
	p.StyleID = p.EffectiveStyleID()
	return p, nil
}

func (r *DocPlanRepo) Get(ctx context.Context, id string) (*domain.Plan, error) {
	d, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound("plan "+id, err)
	}
	p, err := decodePlan(d)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DocPlanRepo) rangeQuery(start, end string) docstore.Query {
	return r.col.Where(planDate, ">=", start).Where(planDate, "<", end)
}

// ListRange returns the plans dated in [start, end), unordered.
func (r *DocPlanRepo) ListRange(ctx context.Context, start, end string) ([]domain.Plan, error) {
	docs, err := r.rangeQuery(start, end).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing plans %s..%s: %w", start, end, err)
	}
	return decodeAll(docs, decodePlan)
}

func (r *DocPlanRepo) Watch(start, end string, fn func([]domain.Plan, error)) docstore.Unsubscribe {
	return watchDecoded(r.rangeQuery(start, end), decodePlan, fn)
}

func (r *DocPlanRepo) Put(b *docstore.WriteBatch, p domain.Plan) {
	b.Set(r.col.Doc(p.ID), docstore.Data{
		planDate:    p.DateStr,
		planContent: p.Content,
		planPrv:     p.Prv,
		planStyle:   p.EffectiveStyleID(),
	})
}

func (r *DocPlanRepo) SetContent(b *docstore.WriteBatch, id, content string) {
	b.Update(r.col.Doc(id), docstore.Data{planContent: content})
}

// Place moves a plan to dateStr after prv. Neighbours are not relinked.
func (r *DocPlanRepo) Place(b *docstore.WriteBatch, id, dateStr, prv string) {
	b.Update(r.col.Doc(id), docstore.Data{planDate: dateStr, planPrv: prv})
}

func (r *DocPlanRepo) Relink(b *docstore.WriteBatch, id, prv string) {
	b.Update(r.col.Doc(id), docstore.Data{planPrv: prv})
}

func (r *DocPlanRepo) Remove(b *docstore.WriteBatch, id string) {
	b.Delete(r.col.Doc(id))
}
