package calendar

import (
	"maps"
	"slices"

	"github.com/alexanderramin/feather/internal/domain"
)

// State is the locally rendered calendar.
type State struct {
	Dates  []domain.CalendarDate
	Styles map[string]domain.PlanStyle
}

// Action is a change applied by Reduce.
type Action interface {
	calendarAction()
}

// Direction says which end of the window new dates are loaded at.
type Direction int

const (
	End Direction = iota
	Start
)

// ReplaceDates swaps out every rendered date.
type ReplaceDates struct {
	Dates []domain.CalendarDate
}

// LoadDates extends the window at one end.
type LoadDates struct {
	Dir   Direction
	Dates []domain.CalendarDate
}

// UpdatePlans replaces the plans of every rendered date present in Plans.
type UpdatePlans struct {
	Plans map[string][]domain.Plan
}

// UpdateLabels sets date labels. Rendered dates inside Range that have no
// entry in Labels lose their label; a zero Range clears nothing.
type UpdateLabels struct {
	Range  Range
	Labels map[string]domain.DateLabel
}

// UpdateStyles replaces the known plan styles.
type UpdateStyles struct {
	Styles map[string]domain.PlanStyle
}

// MovePlan optimistically places a plan on DateStr right after Prv
// ("" for first). Remote state is not touched.
type MovePlan struct {
	PlanID  string
	DateStr string
	Prv     string
}

func (ReplaceDates) calendarAction() {}
func (LoadDates) calendarAction()    {}
func (UpdatePlans) calendarAction()  {}
func (UpdateLabels) calendarAction() {}
func (UpdateStyles) calendarAction() {}
func (MovePlan) calendarAction()     {}

// Reduce returns the state after applying a. The input state is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ReplaceDates:
		s.Dates = slices.Clone(a.Dates)

	case LoadDates:
		if a.Dir == End {
			s.Dates = append(slices.Clone(s.Dates), a.Dates...)
		} else {
			s.Dates = append(slices.Clone(a.Dates), s.Dates...)
		}

	case UpdatePlans:
		dates := slices.Clone(s.Dates)
		for i, d := range dates {
			if plans, ok := a.Plans[d.DateStr]; ok {
				dates[i].Plans = slices.Clone(plans)
			}
		}
		s.Dates = dates

	case UpdateLabels:
		dates := slices.Clone(s.Dates)
		for i, d := range dates {
			if l, ok := a.Labels[d.DateStr]; ok {
				dates[i].Label = l.Content
			} else if a.Range.Contains(d.DateStr) {
				dates[i].Label = ""
			}
		}
		s.Dates = dates

	case UpdateStyles:
		s.Styles = maps.Clone(a.Styles)

	case MovePlan:
		s.Dates = movePlan(s.Dates, a)
	}
	return s
}

// movePlan relocates a plan within the rendered dates. Unknown plans or
// dates leave the dates as they are.
func movePlan(dates []domain.CalendarDate, a MovePlan) []domain.CalendarDate {
	from, to := -1, -1
	idx := -1
	for i, d := range dates {
		if j := d.IndexOf(a.PlanID); j >= 0 {
			from, idx = i, j
		}
		if d.DateStr == a.DateStr {
			to = i
		}
	}
	if from < 0 || to < 0 {
		return dates
	}
	cur := dates[from]
	if from == to {
		if prv, _ := cur.Neighbours(idx); prv == a.Prv {
			return dates
		}
	}

	out := slices.Clone(dates)
	plan := cur.Plans[idx]
	out[from].Plans = Relink(slices.Delete(slices.Clone(cur.Plans), idx, idx+1))

	target := out[to].Plans
	pos := 0
	if a.Prv != "" {
		pos = len(target)
		if j := out[to].IndexOf(a.Prv); j >= 0 {
			pos = j + 1
		}
	}
	plan.DateStr = a.DateStr
	out[to].Plans = Relink(slices.Insert(slices.Clone(target), pos, plan))
	return out
}

// FindPlan locates a plan in the rendered dates.
func (s State) FindPlan(planID string) (dateIdx, planIdx int, ok bool) {
	for i, d := range s.Dates {
		if j := d.IndexOf(planID); j >= 0 {
			return i, j, true
		}
	}
	return -1, -1, false
}

// DateIndex returns the position of dateStr in the window, or -1.
func (s State) DateIndex(dateStr string) int {
	for i, d := range s.Dates {
		if d.DateStr == dateStr {
			return i
		}
	}
	return -1
}
