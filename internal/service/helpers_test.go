package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/alexanderramin/feather/internal/docstore"
	"github.com/alexanderramin/feather/internal/domain"
	"github.com/alexanderramin/feather/internal/repository"
	"github.com/alexanderramin/feather/internal/testutil"
	"github.com/alexanderramin/feather/internal/undo"
	"github.com/stretchr/testify/require"
)

// recordingObserver keeps the names of observed use cases.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}

type calendarFixture struct {
	store *docstore.Store
	plans *repository.DocPlanRepo
	svc   CalendarService
	obs   *recordingObserver
}

func newCalendarFixture(t *testing.T) calendarFixture {
	t.Helper()
	store := testutil.NewTestStore(t)
	plans := repository.NewDocPlanRepo(store, testutil.TestUID)
	obs := &recordingObserver{}
	svc := NewCalendarService(store, plans,
		repository.NewDocLabelRepo(store, testutil.TestUID),
		repository.NewDocStyleRepo(store, testutil.TestUID),
		undo.New(), nil, obs)
	return calendarFixture{store: store, plans: plans, svc: svc, obs: obs}
}

// seed writes well-formed chains straight to the store, bypassing history.
func (f calendarFixture) seed(t *testing.T, chains ...[]domain.Plan) {
	t.Helper()
	b := f.store.Batch()
	for _, chain := range chains {
		for _, p := range chain {
			f.plans.Put(b, p)
		}
	}
	require.NoError(t, b.Commit(context.Background()))
}

// order returns the ids on dateStr and checks the stored links agree with them.
func (f calendarFixture) order(t *testing.T, dateStr string) []string {
	t.Helper()
	byDate, err := f.svc.Plans(context.Background(), dateStr, calendar.AddDays(dateStr, 1))
	require.NoError(t, err)
	plans := byDate[dateStr]
	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
		want := ""
		if i > 0 {
			want = plans[i-1].ID
		}
		require.Equalf(t, want, p.Prv, "broken link at %s[%d]", dateStr, i)
	}
	return ids
}
