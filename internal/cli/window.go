package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/alexanderramin/feather/internal/domain"
	"github.com/alexanderramin/feather/internal/service"
)

// fetchDates loads whole weeks starting at start with their plans and labels.
func fetchDates(ctx context.Context, svc service.CalendarService, start string, weeks int) ([]domain.CalendarDate, error) {
	dates := calendar.NewDates(start, weeks)
	r := calendar.RenderRange(dates)
	plans, err := svc.Plans(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("loading plans: %w", err)
	}
	labels, err := svc.Labels(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("loading labels: %w", err)
	}
	for i, d := range dates {
		dates[i].Plans = plans[d.DateStr]
		dates[i].Label = labels[d.DateStr].Content
	}
	return dates, nil
}

func fetchStyles(ctx context.Context, svc service.CalendarService) (map[string]domain.PlanStyle, error) {
	styles, err := svc.Styles(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading styles: %w", err)
	}
	out := make(map[string]domain.PlanStyle, len(styles))
	for _, s := range styles {
		out[s.ID] = s
	}
	return out, nil
}

// loadWindow builds the calendar state for weeks starting at start.
func loadWindow(ctx context.Context, svc service.CalendarService, start string, weeks int) (calendar.State, error) {
	dates, err := fetchDates(ctx, svc, start, weeks)
	if err != nil {
		return calendar.State{}, err
	}
	styles, err := fetchStyles(ctx, svc)
	if err != nil {
		return calendar.State{}, err
	}
	s := calendar.Reduce(calendar.State{}, calendar.ReplaceDates{Dates: dates})
	return calendar.Reduce(s, calendar.UpdateStyles{Styles: styles}), nil
}

// stateForDates builds a state holding only the given dates, for resolving
// moves outside the rendered window.
func stateForDates(ctx context.Context, svc service.CalendarService, dateStrs ...string) (calendar.State, error) {
	var dates []domain.CalendarDate
	seen := map[string]bool{}
	for _, d := range dateStrs {
		if seen[d] {
			continue
		}
		seen[d] = true
		plans, err := svc.Plans(ctx, d, calendar.AddDays(d, 1))
		if err != nil {
			return calendar.State{}, fmt.Errorf("loading plans of %s: %w", d, err)
		}
		dates = append(dates, domain.CalendarDate{DateStr: d, Plans: plans[d]})
	}
	return calendar.State{Dates: dates}, nil
}
