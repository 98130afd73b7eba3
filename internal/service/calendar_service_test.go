package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/alexanderramin/feather/internal/domain"
	"github.com/alexanderramin/feather/internal/repository"
	"github.com/alexanderramin/feather/internal/testutil"
	"github.com/alexanderramin/feather/internal/undo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	day1 = "2024-03-04"
	day2 = "2024-03-05"
)

func TestCalendarService_AddAppendsAndUndoRedo(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	a, err := f.svc.Add(ctx, day1, "write report", "")
	require.NoError(t, err)
	b, err := f.svc.Add(ctx, day1, "call bank", "errand")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.Prv)
	assert.Equal(t, domain.DefaultStyleID, a.StyleID)
	assert.Equal(t, []string{a.ID, b.ID}, f.order(t, day1))

	require.NoError(t, f.svc.Undo(ctx))
	assert.Equal(t, []string{a.ID}, f.order(t, day1))

	require.NoError(t, f.svc.Redo(ctx))
	assert.Equal(t, []string{a.ID, b.ID}, f.order(t, day1), "redo re-creates the same id")

	got, err := f.plans.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "errand", got.StyleID)
}

func TestCalendarService_AddValidates(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "04/03/2024", "x", "")
	assert.Error(t, err)
	_, err = f.svc.Add(ctx, day1, "   ", "")
	assert.Error(t, err)

	u, _ := f.svc.History()
	assert.Zero(t, u)
}

func TestCalendarService_DeleteRelinksAndUndoRestoresPosition(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()
	f.seed(t, testutil.Chain(day1, "p", "a", "b", "c"))

	require.NoError(t, f.svc.Delete(ctx, "p2"))
	assert.Equal(t, []string{"p1", "p3"}, f.order(t, day1))
	_, err := f.plans.Get(ctx, "p2")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, f.svc.Undo(ctx))
	assert.Equal(t, []string{"p1", "p2", "p3"}, f.order(t, day1))

	require.NoError(t, f.svc.Redo(ctx))
	assert.Equal(t, []string{"p1", "p3"}, f.order(t, day1))
}

func TestCalendarService_DeleteFirstAndLast(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()
	f.seed(t, testutil.Chain(day1, "p", "a", "b", "c"))

	require.NoError(t, f.svc.Delete(ctx, "p1"))
	require.NoError(t, f.svc.Delete(ctx, "p3"))
	assert.Equal(t, []string{"p2"}, f.order(t, day1))

	require.NoError(t, f.svc.Undo(ctx))
	require.NoError(t, f.svc.Undo(ctx))
	assert.Equal(t, []string{"p1", "p2", "p3"}, f.order(t, day1))
}

func TestCalendarService_MoveAcrossDatesAndUndo(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()
	f.seed(t, testutil.Chain(day1, "p", "a", "b", "c"), testutil.Chain(day2, "q", "x", "y"))

	m := calendar.MoveRequest{
		PlanID:   "p2",
		FromDate: day1, FromPrv: "p1", FromNxt: "p3",
		ToDate: day2, ToPrv: "q1", ToNxt: "q2",
	}
	require.NoError(t, f.svc.Move(ctx, m))
	assert.Equal(t, []string{"p1", "p3"}, f.order(t, day1))
	assert.Equal(t, []string{"q1", "p2", "q2"}, f.order(t, day2))

	require.NoError(t, f.svc.Undo(ctx))
	assert.Equal(t, []string{"p1", "p2", "p3"}, f.order(t, day1))
	assert.Equal(t, []string{"q1", "q2"}, f.order(t, day2))

	require.NoError(t, f.svc.Redo(ctx))
	assert.Equal(t, []string{"q1", "p2", "q2"}, f.order(t, day2))
}

func TestCalendarService_MoveResolvedFromDrop(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()
	f.seed(t, testutil.Chain(day1, "p", "a", "b", "c"))

	byDate, err := f.svc.Plans(ctx, day1, day2)
	require.NoError(t, err)
	state := calendar.Reduce(calendar.State{Dates: calendar.NewDates(day1, 1)}, calendar.UpdatePlans{Plans: byDate})

	origin, ok := calendar.NewDragOrigin(state, "p3")
	require.True(t, ok)
	m, err := calendar.ResolveDrop(state, origin, calendar.DropTarget{DateStr: day1, Slot: 0})
	require.NoError(t, err)
	require.NoError(t, f.svc.Move(ctx, m))

	assert.Equal(t, []string{"p3", "p1", "p2"}, f.order(t, day1))
}

func TestCalendarService_MoveInPlaceWritesNothing(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	m := calendar.MoveRequest{PlanID: "p1", FromDate: day1, FromNxt: "p2", ToDate: day1, ToNxt: "p2"}
	require.NoError(t, f.svc.Move(ctx, m))
	u, _ := f.svc.History()
	assert.Zero(t, u)
	assert.Empty(t, f.obs.names())
}

func TestCalendarService_FailedMoveLeavesNoWrite(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()
	f.seed(t, testutil.Chain(day1, "p", "a", "b"))

	// q9 does not exist, so the last write of the batch fails.
	m := calendar.MoveRequest{
		PlanID:   "p1",
		FromDate: day1, FromNxt: "p2",
		ToDate: day2, ToNxt: "q9",
	}
	require.Error(t, f.svc.Move(ctx, m))
	assert.Equal(t, []string{"p1", "p2"}, f.order(t, day1))
	assert.Empty(t, f.order(t, day2))

	u, _ := f.svc.History()
	assert.Zero(t, u)
}

func TestCalendarService_UndoAllRestoresInitialState(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()
	f.seed(t, testutil.Chain(day1, "p", "a", "b", "c"), testutil.Chain(day2, "q", "x"))

	initial, err := f.svc.Plans(ctx, day1, "2024-03-06")
	require.NoError(t, err)

	added, err := f.svc.Add(ctx, day2, "new", "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Edit(ctx, "p1", "edited"))
	require.NoError(t, f.svc.Move(ctx, calendar.MoveRequest{
		PlanID: "p3", FromDate: day1, FromPrv: "p2",
		ToDate: day2, ToPrv: "q1", ToNxt: added.ID,
	}))
	require.NoError(t, f.svc.Delete(ctx, "p1"))
	require.NoError(t, f.svc.SetLabel(ctx, day1, "holiday"))

	u, r := f.svc.History()
	require.Equal(t, 5, u)
	require.Zero(t, r)

	for range u {
		require.NoError(t, f.svc.Undo(ctx))
	}
	after, err := f.svc.Plans(ctx, day1, "2024-03-06")
	require.NoError(t, err)
	assert.Equal(t, initial, after)

	labels, err := f.svc.Labels(ctx, day1, day2)
	require.NoError(t, err)
	assert.Empty(t, labels)

	assert.ErrorIs(t, f.svc.Undo(ctx), undo.ErrEmpty)
}

func TestCalendarService_SetLabelUpsertsAndClears(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetLabel(ctx, day1, "trip"))
	require.NoError(t, f.svc.SetLabel(ctx, day1, "trip, day 1"))
	labels, err := f.svc.Labels(ctx, day1, day2)
	require.NoError(t, err)
	assert.Equal(t, "trip, day 1", labels[day1].Content)

	require.NoError(t, f.svc.SetLabel(ctx, day1, ""))
	labels, err = f.svc.Labels(ctx, day1, day2)
	require.NoError(t, err)
	assert.Empty(t, labels)

	require.NoError(t, f.svc.Undo(ctx))
	labels, err = f.svc.Labels(ctx, day1, day2)
	require.NoError(t, err)
	assert.Equal(t, "trip, day 1", labels[day1].Content)

	u, _ := f.svc.History()
	assert.Equal(t, 2, u)
}

func TestCalendarService_SetStyleUndoRemovesNewStyle(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetStyle(ctx, domain.PlanStyle{ID: "work", Label: "Work", Color: "#336699"}))
	require.NoError(t, f.svc.SetStyle(ctx, domain.PlanStyle{ID: "work", Label: "Work", Color: "#ff0000"}))

	require.NoError(t, f.svc.Undo(ctx))
	styles, err := f.svc.Styles(ctx)
	require.NoError(t, err)
	require.Len(t, styles, 1)
	assert.Equal(t, "#336699", styles[0].Color)

	require.NoError(t, f.svc.Undo(ctx))
	styles, err = f.svc.Styles(ctx)
	require.NoError(t, err)
	assert.Empty(t, styles)

	assert.Error(t, f.svc.SetStyle(ctx, domain.PlanStyle{}))
}

func TestCalendarService_WatchFeedsReducer(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()
	f.seed(t, testutil.Chain(day1, "p", "a"))

	actions := make(chan calendar.Action, 32)
	cancel := f.svc.Watch("2024-03-04", "2024-03-18", func(a calendar.Action) { actions <- a }, nil)
	defer cancel()

	state := calendar.State{Dates: calendar.NewDates("2024-03-04", 2)}
	apply := func() {
		for {
			select {
			case a := <-actions:
				state = calendar.Reduce(state, a)
			default:
				return
			}
		}
	}

	assert.Eventually(t, func() bool {
		apply()
		return len(state.Dates[0].Plans) == 1 && state.Styles != nil
	}, 2*time.Second, 10*time.Millisecond)

	_, err := f.svc.Add(ctx, "2024-03-12", "second week", "")
	require.NoError(t, err)
	require.NoError(t, f.svc.SetLabel(ctx, day1, "kickoff"))

	assert.Eventually(t, func() bool {
		apply()
		return len(state.Dates[8].Plans) == 1 && state.Dates[0].Label == "kickoff"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCalendarService_ObservesMutations(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	p, err := f.svc.Add(ctx, day1, "x", "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Edit(ctx, p.ID, "y"))
	require.Error(t, f.svc.Edit(ctx, "missing", "z"))
	require.NoError(t, f.svc.Undo(ctx))

	assert.Equal(t, []string{"add-plan", "edit-plan", "edit-plan", "undo-calendar"}, f.obs.names())
	f.obs.mu.Lock()
	defer f.obs.mu.Unlock()
	assert.False(t, f.obs.events[2].Success)
	assert.ErrorIs(t, f.obs.events[2].Err, repository.ErrNotFound)
}
