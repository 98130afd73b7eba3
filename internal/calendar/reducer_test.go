package calendar

import (
	"testing"

	"github.com/alexanderramin/feather/internal/domain"
	"github.com/alexanderramin/feather/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoDayState renders 2024-03-01 with p1,p2,p3 and 2024-03-02 with q1,q2.
func twoDayState() State {
	d1, d2 := "2024-03-01", "2024-03-02"
	s := State{Dates: NewDates(d1, 1)}
	return Reduce(s, UpdatePlans{Plans: map[string][]domain.Plan{
		d1: testutil.Chain(d1, "p", "a", "b", "c"),
		d2: testutil.Chain(d2, "q", "x", "y"),
	}})
}

func TestReduce_UpdatePlansDoesNotMutateInput(t *testing.T) {
	before := State{Dates: NewDates("2024-03-01", 1)}
	after := Reduce(before, UpdatePlans{Plans: map[string][]domain.Plan{
		"2024-03-01": testutil.Chain("2024-03-01", "p", "a"),
		"1999-01-01": testutil.Chain("1999-01-01", "z", "ignored"),
	}})

	assert.Empty(t, before.Dates[0].Plans)
	assert.Equal(t, []string{"p1"}, ids(after.Dates[0].Plans))
	assert.Len(t, after.Dates, 7)
}

func TestReduce_LoadDatesBothEnds(t *testing.T) {
	s := State{Dates: NewDates("2024-03-03", 1)}
	s = Reduce(s, LoadDates{Dir: End, Dates: NewDates("2024-03-10", 1)})
	s = Reduce(s, LoadDates{Dir: Start, Dates: NewDates("2024-02-25", 1)})

	require.Len(t, s.Dates, 21)
	assert.Equal(t, Range{Start: "2024-02-25", End: "2024-03-17"}, RenderRange(s.Dates))

	s = Reduce(s, ReplaceDates{Dates: NewDates("2025-01-05", 1)})
	assert.Equal(t, "2025-01-05", s.Dates[0].DateStr)
}

func TestReduce_UpdateLabelsClearsWithinRange(t *testing.T) {
	s := State{Dates: NewDates("2024-03-01", 2)}
	s = Reduce(s, UpdateLabels{Labels: map[string]domain.DateLabel{
		"2024-03-01": {DateStr: "2024-03-01", Content: "trip"},
		"2024-03-10": {DateStr: "2024-03-10", Content: "party"},
	}})
	assert.Equal(t, "trip", s.Dates[0].Label)
	assert.Equal(t, "party", s.Dates[9].Label)

	s = Reduce(s, UpdateLabels{Range: Range{Start: "2024-03-01", End: "2024-03-08"}})
	assert.Equal(t, "", s.Dates[0].Label)
	assert.Equal(t, "party", s.Dates[9].Label, "outside the range")
}

func TestReduce_UpdateStyles(t *testing.T) {
	s := Reduce(State{}, UpdateStyles{Styles: map[string]domain.PlanStyle{
		"work": {ID: "work", Color: "#f00"},
	}})
	assert.Equal(t, "#f00", s.Styles["work"].Color)
}

func TestReduce_MovePlanWithinDate(t *testing.T) {
	s := twoDayState()

	moved := Reduce(s, MovePlan{PlanID: "p1", DateStr: "2024-03-01", Prv: "p2"})
	assert.Equal(t, []string{"p2", "p1", "p3"}, ids(moved.Dates[0].Plans))
	assert.Equal(t, "p2", moved.Dates[0].Plans[1].Prv)
	assert.Equal(t, "p1", moved.Dates[0].Plans[2].Prv)
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(s.Dates[0].Plans), "input untouched")

	moved = Reduce(s, MovePlan{PlanID: "p3", DateStr: "2024-03-01", Prv: ""})
	assert.Equal(t, []string{"p3", "p1", "p2"}, ids(moved.Dates[0].Plans))
}

func TestReduce_MovePlanAcrossDates(t *testing.T) {
	s := twoDayState()

	moved := Reduce(s, MovePlan{PlanID: "p2", DateStr: "2024-03-02", Prv: "q1"})
	assert.Equal(t, []string{"p1", "p3"}, ids(moved.Dates[0].Plans))
	assert.Equal(t, "p1", moved.Dates[0].Plans[1].Prv)
	assert.Equal(t, []string{"q1", "p2", "q2"}, ids(moved.Dates[1].Plans))
	assert.Equal(t, "2024-03-02", moved.Dates[1].Plans[1].DateStr)
}

func TestReduce_MovePlanNoopAndUnknown(t *testing.T) {
	s := twoDayState()

	same := Reduce(s, MovePlan{PlanID: "p2", DateStr: "2024-03-01", Prv: "p1"})
	assert.Equal(t, s.Dates, same.Dates)

	unknown := Reduce(s, MovePlan{PlanID: "nope", DateStr: "2024-03-01"})
	assert.Equal(t, s.Dates, unknown.Dates)

	offscreen := Reduce(s, MovePlan{PlanID: "p1", DateStr: "2031-01-01"})
	assert.Equal(t, s.Dates, offscreen.Dates)
}

func TestState_Find(t *testing.T) {
	s := twoDayState()
	di, pi, ok := s.FindPlan("q2")
	require.True(t, ok)
	assert.Equal(t, 1, di)
	assert.Equal(t, 1, pi)
	assert.Equal(t, -1, s.DateIndex("1999-12-31"))
}
