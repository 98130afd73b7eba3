package testutil

import (
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/alexanderramin/feather/internal/db"
	"github.com/alexanderramin/feather/internal/docstore"
	"github.com/alexanderramin/feather/internal/domain"
	"github.com/google/uuid"
)

// TestUID is the user id the fixtures scope their collections to.
const TestUID = "test-user"

// NewTestDB opens a migrated in-memory database, closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewTestStore creates a document store over a fresh in-memory database.
// Subscriptions are stopped when the test completes.
func NewTestStore(t *testing.T, opts ...docstore.Option) *docstore.Store {
	t.Helper()
	store := docstore.New(NewTestDB(t), opts...)
	t.Cleanup(store.Close)
	return store
}

// Plan options
type PlanOption func(*domain.Plan)

func WithPrv(id string) PlanOption {
	return func(p *domain.Plan) {
		p.Prv = id
	}
}

func WithStyle(id string) PlanOption {
	return func(p *domain.Plan) {
		p.StyleID = id
	}
}

func WithPlanID(id string) PlanOption {
	return func(p *domain.Plan) {
		p.ID = id
	}
}

func NewTestPlan(dateStr, content string, opts ...PlanOption) domain.Plan {
	p := domain.Plan{
		ID:      uuid.New().String(),
		DateStr: dateStr,
		Content: content,
		StyleID: domain.DefaultStyleID,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Chain builds a well-formed plan list for one date: each plan points at
// the one before it. Ids are "<prefix>1", "<prefix>2", ...
func Chain(dateStr, prefix string, contents ...string) []domain.Plan {
	plans := make([]domain.Plan, 0, len(contents))
	prv := ""
	for i, c := range contents {
		p := NewTestPlan(dateStr, c, WithPlanID(prefix+strconv.Itoa(i+1)), WithPrv(prv))
		plans = append(plans, p)
		prv = p.ID
	}
	return plans
}

// Date returns the YYYY-MM-DD form of y-m-d.
func Date(y int, m time.Month, d int) string {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
