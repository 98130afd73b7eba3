// Package export renders plans as iCalendar data.
package export

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/alexanderramin/feather/internal/domain"
	"github.com/emersion/go-ical"
)

// ProductID identifies feather in exported calendars.
const ProductID = "-//feather//planner//EN"

// Entry is one plan in export order with the context shown in its event.
type Entry struct {
	Plan     domain.Plan
	Position int // 1-based position on its date
	Style    domain.PlanStyle
	Label    string
}

// UID returns the iCalendar UID of a plan.
func (e Entry) UID() string {
	return e.Plan.ID + "@feather"
}

// Entries flattens ordered plans into entries sorted by date, then position.
func Entries(plans map[string][]domain.Plan, styles map[string]domain.PlanStyle, labels map[string]domain.DateLabel) []Entry {
	dates := make([]string, 0, len(plans))
	for d := range plans {
		dates = append(dates, d)
	}
	slices.Sort(dates)

	var out []Entry
	for _, d := range dates {
		for i, p := range plans[d] {
			style, ok := styles[p.EffectiveStyleID()]
			if !ok {
				style = domain.PlanStyle{ID: p.EffectiveStyleID()}
			}
			out = append(out, Entry{Plan: p, Position: i + 1, Style: style, Label: labels[d].Content})
		}
	}
	return out
}

// Event builds the all-day VEVENT for an entry.
func Event(e Entry, stamp time.Time) (*ical.Event, error) {
	day, err := calendar.ParseDate(e.Plan.DateStr)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", e.Plan.ID, err)
	}

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, e.UID())
	ev.Props.SetText(ical.PropSummary, e.Plan.Content)
	ev.Props.SetDate(ical.PropDateTimeStart, day)
	ev.Props.SetDate(ical.PropDateTimeEnd, day.AddDate(0, 0, 1))
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ev.Props.SetText(ical.PropDescription, description(e))
	if e.Style.Label != "" {
		ev.Props.SetText(ical.PropCategories, e.Style.Label)
	}
	return ev, nil
}

func description(e Entry) string {
	style := e.Style.Label
	if style == "" {
		style = e.Style.ID
	}
	lines := []string{
		fmt.Sprintf("position: %d", e.Position),
		"style: " + style,
	}
	if e.Label != "" {
		lines = append(lines, "label: "+e.Label)
	}
	return strings.Join(lines, "\n")
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	return cal
}

// Calendar returns one calendar holding an event per entry.
func Calendar(entries []Entry, stamp time.Time) (*ical.Calendar, error) {
	cal := newCalendar()
	for _, e := range entries {
		ev, err := Event(e, stamp)
		if err != nil {
			return nil, err
		}
		cal.Children = append(cal.Children, ev.Component)
	}
	return cal, nil
}

// Object returns a calendar holding only e, as CalDAV stores one per resource.
func Object(e Entry, stamp time.Time) (*ical.Calendar, error) {
	return Calendar([]Entry{e}, stamp)
}

// Write encodes cal as text/calendar.
func Write(w io.Writer, cal *ical.Calendar) error {
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}
