package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/alexanderramin/feather/internal/docstore"
	"github.com/alexanderramin/feather/internal/domain"
	"github.com/alexanderramin/feather/internal/repository"
	"github.com/alexanderramin/feather/internal/undo"
	"github.com/google/uuid"
)

type calendarService struct {
	batcher  Batcher
	plans    repository.PlanRepo
	labels   repository.LabelRepo
	styles   repository.StyleRepo
	history  *undo.Stack
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewCalendarService(
	batcher Batcher,
	plans repository.PlanRepo,
	labels repository.LabelRepo,
	styles repository.StyleRepo,
	history *undo.Stack,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) CalendarService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &calendarService{
		batcher:  batcher,
		plans:    plans,
		labels:   labels,
		styles:   styles,
		history:  history,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Add appends a plan after the current last plan of dateStr.
func (s *calendarService) Add(ctx context.Context, dateStr, content, styleID string) (domain.Plan, error) {
	var plan domain.Plan
	err := observe(ctx, s.observer, "add-plan", map[string]any{"date": dateStr}, func() error {
		if _, err := calendar.ParseDate(dateStr); err != nil {
			return err
		}
		if strings.TrimSpace(content) == "" {
			return errors.New("plan content is required")
		}
		order, err := s.dateOrder(ctx, dateStr)
		if err != nil {
			return err
		}
		plan = domain.Plan{
			ID:      uuid.New().String(),
			DateStr: dateStr,
			Content: content,
			StyleID: styleID,
		}
		plan.StyleID = plan.EffectiveStyleID()
		if n := len(order); n > 0 {
			plan.Prv = order[n-1].ID
		}
		if err := s.insertPlan(ctx, plan); err != nil {
			return err
		}

		added := plan
		s.history.Add(undo.Action{
			Label: "add plan",
			Undo: func(ctx context.Context) error {
				_, err := s.removePlan(ctx, added.ID)
				return err
			},
			Redo: func(ctx context.Context) error { return s.insertPlan(ctx, added) },
		})
		return nil
	})
	return plan, err
}

func (s *calendarService) Edit(ctx context.Context, planID, content string) error {
	return observe(ctx, s.observer, "edit-plan", map[string]any{"plan_id": planID}, func() error {
		p, err := s.plans.Get(ctx, planID)
		if err != nil {
			return err
		}
		if p.Content == content {
			return nil
		}
		if err := s.setContent(ctx, planID, content); err != nil {
			return err
		}
		prev := p.Content
		s.history.Add(undo.Action{
			Label: "edit plan",
			Undo:  func(ctx context.Context) error { return s.setContent(ctx, planID, prev) },
			Redo:  func(ctx context.Context) error { return s.setContent(ctx, planID, content) },
		})
		return nil
	})
}

// Delete unlinks the plan from its date and removes it in one batch.
func (s *calendarService) Delete(ctx context.Context, planID string) error {
	return observe(ctx, s.observer, "delete-plan", map[string]any{"plan_id": planID}, func() error {
		removed, err := s.removePlan(ctx, planID)
		if err != nil {
			return err
		}
		s.history.Add(undo.Action{
			Label: "delete plan",
			Undo:  func(ctx context.Context) error { return s.insertPlan(ctx, removed) },
			Redo: func(ctx context.Context) error {
				_, err := s.removePlan(ctx, planID)
				return err
			},
		})
		return nil
	})
}

// Move relinks a plan to the position described by m. Dropping a plan
// where it already is writes nothing.
func (s *calendarService) Move(ctx context.Context, m calendar.MoveRequest) error {
	if m.IsNoop() {
		return nil
	}
	fields := map[string]any{"plan_id": m.PlanID, "from": m.FromDate, "to": m.ToDate}
	return observe(ctx, s.observer, "move-plan", fields, func() error {
		if _, err := calendar.ParseDate(m.ToDate); err != nil {
			return err
		}
		if err := s.applyMove(ctx, m); err != nil {
			return err
		}
		s.history.Add(undo.Action{
			Label: "move plan",
			Undo:  func(ctx context.Context) error { return s.applyMove(ctx, m.Inverse()) },
			Redo:  func(ctx context.Context) error { return s.applyMove(ctx, m) },
		})
		return nil
	})
}

// SetLabel sets the label of a date; empty content removes it.
func (s *calendarService) SetLabel(ctx context.Context, dateStr, content string) error {
	return observe(ctx, s.observer, "set-label", map[string]any{"date": dateStr}, func() error {
		if _, err := calendar.ParseDate(dateStr); err != nil {
			return err
		}
		prev, err := s.writeLabel(ctx, dateStr, content)
		if err != nil {
			return err
		}
		if prev == content {
			return nil
		}
		s.history.Add(undo.Action{
			Label: "set label",
			Undo: func(ctx context.Context) error {
				_, err := s.writeLabel(ctx, dateStr, prev)
				return err
			},
			Redo: func(ctx context.Context) error {
				_, err := s.writeLabel(ctx, dateStr, content)
				return err
			},
		})
		return nil
	})
}

func (s *calendarService) SetStyle(ctx context.Context, style domain.PlanStyle) error {
	return observe(ctx, s.observer, "set-style", map[string]any{"style_id": style.ID}, func() error {
		if strings.TrimSpace(style.ID) == "" {
			return errors.New("style id is required")
		}
		prev, err := s.styles.Get(ctx, style.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := s.putStyle(ctx, &style, style.ID); err != nil {
			return err
		}
		s.history.Add(undo.Action{
			Label: "set style",
			Undo:  func(ctx context.Context) error { return s.putStyle(ctx, prev, style.ID) },
			Redo:  func(ctx context.Context) error { return s.putStyle(ctx, &style, style.ID) },
		})
		return nil
	})
}

func (s *calendarService) Plan(ctx context.Context, planID string) (*domain.Plan, error) {
	return s.plans.Get(ctx, planID)
}

// Plans returns the ordered plans of every date in [start, end).
func (s *calendarService) Plans(ctx context.Context, start, end string) (map[string][]domain.Plan, error) {
	records, err := s.plans.ListRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return calendar.Reconstruct(calendar.DateRange(start, end), records), nil
}

func (s *calendarService) Labels(ctx context.Context, start, end string) (map[string]domain.DateLabel, error) {
	labels, err := s.labels.ListRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return labelsByDate(labels), nil
}

func (s *calendarService) Styles(ctx context.Context) ([]domain.PlanStyle, error) {
	return s.styles.List(ctx)
}

// Watch subscribes per week so that loading more weeks only adds
// subscriptions.
func (s *calendarService) Watch(start, end string, sink func(calendar.Action), onErr func(error)) func() {
	fail := func(what string, err error) {
		s.logger.Error("calendar subscription failed", "what", what, "error", err)
		if onErr != nil {
			onErr(fmt.Errorf("%s: %w", what, err))
		}
	}

	var stops []docstore.Unsubscribe
	for _, r := range calendar.WeeklyRanges(start, end) {
		dates := calendar.DateRange(r.Start, r.End)
		stops = append(stops, s.plans.Watch(r.Start, r.End, func(records []domain.Plan, err error) {
			if err != nil {
				fail("plans "+r.Start, err)
				return
			}
			sink(calendar.UpdatePlans{Plans: calendar.Reconstruct(dates, records)})
		}))
		stops = append(stops, s.labels.Watch(r.Start, r.End, func(labels []domain.DateLabel, err error) {
			if err != nil {
				fail("labels "+r.Start, err)
				return
			}
			sink(calendar.UpdateLabels{Range: r, Labels: labelsByDate(labels)})
		}))
	}
	stops = append(stops, s.styles.Watch(func(styles []domain.PlanStyle, err error) {
		if err != nil {
			fail("styles", err)
			return
		}
		byID := make(map[string]domain.PlanStyle, len(styles))
		for _, st := range styles {
			byID[st.ID] = st
		}
		sink(calendar.UpdateStyles{Styles: byID})
	}))

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, stop := range stops {
				stop()
			}
		})
	}
}

func (s *calendarService) Undo(ctx context.Context) error {
	return observe(ctx, s.observer, "undo-calendar", nil, func() error {
		_, err := s.history.Undo(ctx)
		return err
	})
}

func (s *calendarService) Redo(ctx context.Context) error {
	return observe(ctx, s.observer, "redo-calendar", nil, func() error {
		_, err := s.history.Redo(ctx)
		return err
	})
}

func (s *calendarService) History() (int, int) {
	return s.history.Counts()
}

// dateOrder returns the plans of one date in list order.
func (s *calendarService) dateOrder(ctx context.Context, dateStr string) ([]domain.Plan, error) {
	byDate, err := s.Plans(ctx, dateStr, calendar.AddDays(dateStr, 1))
	if err != nil {
		return nil, err
	}
	return byDate[dateStr], nil
}

// insertPlan writes p right after p.Prv and points the plan that followed
// p.Prv at p. A predecessor that no longer exists appends p instead.
func (s *calendarService) insertPlan(ctx context.Context, p domain.Plan) error {
	order, err := s.dateOrder(ctx, p.DateStr)
	if err != nil {
		return err
	}
	succ := ""
	switch {
	case p.Prv == "":
		if len(order) > 0 {
			succ = order[0].ID
		}
	default:
		i := planIndex(order, p.Prv)
		if i < 0 {
			p.Prv = ""
			if n := len(order); n > 0 {
				p.Prv = order[n-1].ID
			}
		} else if i+1 < len(order) {
			succ = order[i+1].ID
		}
	}

	b := s.batcher.Batch()
	s.plans.Put(b, p)
	if succ != "" {
		s.plans.Relink(b, succ, p.ID)
	}
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

// removePlan deletes a plan and relinks its successor to its predecessor.
// The returned plan carries the predecessor it had, for re-insertion.
func (s *calendarService) removePlan(ctx context.Context, planID string) (domain.Plan, error) {
	p, err := s.plans.Get(ctx, planID)
	if err != nil {
		return domain.Plan{}, err
	}
	order, err := s.dateOrder(ctx, p.DateStr)
	if err != nil {
		return domain.Plan{}, err
	}
	removed := *p
	b := s.batcher.Batch()
	if i := planIndex(order, planID); i >= 0 {
		prv, nxt := domain.CalendarDate{Plans: order}.Neighbours(i)
		removed.Prv = prv
		if nxt != "" {
			s.plans.Relink(b, nxt, prv)
		}
	}
	s.plans.Remove(b, planID)
	if err := b.Commit(ctx); err != nil {
		return domain.Plan{}, fmt.Errorf("deleting plan: %w", err)
	}
	return removed, nil
}

// applyMove writes the three relinks of a move in one batch: the new
// successor points at the plan, the plan takes its new date and
// predecessor, and the old successor points at the old predecessor.
func (s *calendarService) applyMove(ctx context.Context, m calendar.MoveRequest) error {
	b := s.batcher.Batch()
	if m.ToNxt != "" {
		s.plans.Relink(b, m.ToNxt, m.PlanID)
	}
	s.plans.Place(b, m.PlanID, m.ToDate, m.ToPrv)
	if m.FromNxt != "" {
		s.plans.Relink(b, m.FromNxt, m.FromPrv)
	}
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("moving plan: %w", err)
	}
	return nil
}

func (s *calendarService) setContent(ctx context.Context, planID, content string) error {
	b := s.batcher.Batch()
	s.plans.SetContent(b, planID, content)
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("editing plan: %w", err)
	}
	return nil
}

// writeLabel sets the label of dateStr to content and returns what it was.
func (s *calendarService) writeLabel(ctx context.Context, dateStr, content string) (string, error) {
	cur, err := s.labels.FindByDate(ctx, dateStr)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	prev := ""
	if cur != nil {
		prev = cur.Content
	}
	if prev == content {
		return prev, nil
	}

	b := s.batcher.Batch()
	switch {
	case content == "" && cur != nil:
		s.labels.Remove(b, cur.ID)
	case cur != nil:
		s.labels.Put(b, domain.DateLabel{ID: cur.ID, DateStr: dateStr, Content: content})
	default:
		s.labels.Put(b, domain.DateLabel{ID: s.labels.NewID(), DateStr: dateStr, Content: content})
	}
	if err := b.Commit(ctx); err != nil {
		return "", fmt.Errorf("writing label: %w", err)
	}
	return prev, nil
}

// putStyle writes style, or removes id when style is nil.
func (s *calendarService) putStyle(ctx context.Context, style *domain.PlanStyle, id string) error {
	b := s.batcher.Batch()
	if style == nil {
		s.styles.Remove(b, id)
	} else {
		s.styles.Put(b, *style)
	}
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("writing style: %w", err)
	}
	return nil
}

// labelsByDate keeps one label per date; the greatest id wins.
func labelsByDate(labels []domain.DateLabel) map[string]domain.DateLabel {
	out := make(map[string]domain.DateLabel, len(labels))
	for _, l := range labels {
		if cur, ok := out[l.DateStr]; !ok || l.ID > cur.ID {
			out[l.DateStr] = l
		}
	}
	return out
}

func planIndex(plans []domain.Plan, id string) int {
	return domain.CalendarDate{Plans: plans}.IndexOf(id)
}
