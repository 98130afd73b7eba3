package calendar

import (
	"fmt"
	"time"

	"github.com/alexanderramin/feather/internal/domain"
)

// DateLayout is the stored form of a date. Lexical order is date order,
// which range filters on the stored string rely on.
const DateLayout = "2006-01-02"

// Range is a half-open date interval [Start, End).
type Range struct {
	Start string
	End   string
}

// Contains reports whether dateStr falls inside the range.
func (r Range) Contains(dateStr string) bool {
	return dateStr >= r.Start && dateStr < r.End
}

// ParseDate parses a YYYY-MM-DD string as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate renders t's calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current date in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return FormatDate(now.In(loc))
}

// AddDays shifts dateStr by n days. Unparseable input is returned as is.
func AddDays(dateStr string, n int) string {
	t, err := ParseDate(dateStr)
	if err != nil {
		return dateStr
	}
	return FormatDate(t.AddDate(0, 0, n))
}

// DateRange lists every date in [start, end).
func DateRange(start, end string) []string {
	var out []string
	for d := start; d < end; d = AddDays(d, 1) {
		if _, err := ParseDate(d); err != nil {
			return out
		}
		out = append(out, d)
	}
	return out
}

// WeeklyRanges splits [start, end) into consecutive chunks of at most
// seven days; subscriptions are opened per chunk.
func WeeklyRanges(start, end string) []Range {
	var out []Range
	for s := start; s < end; {
		e := AddDays(s, 7)
		if e == s {
			break
		}
		if e > end {
			e = end
		}
		out = append(out, Range{Start: s, End: e})
		s = e
	}
	return out
}

// WeekStart returns the first day of the week containing day, for weeks
// beginning on dayStart.
func WeekStart(day time.Time, dayStart time.Weekday) time.Time {
	offset := (int(day.Weekday()) - int(dayStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayHeaders returns the seven column headings starting at dayStart.
func WeekdayHeaders(dayStart time.Weekday) []string {
	out := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, weekdayNames[(int(dayStart)+i)%7])
	}
	return out
}

// NewDates builds empty calendar dates for whole weeks starting at start.
func NewDates(start string, weeks int) []domain.CalendarDate {
	days := DateRange(start, AddDays(start, 7*weeks))
	out := make([]domain.CalendarDate, len(days))
	for i, d := range days {
		out[i] = domain.CalendarDate{DateStr: d, Plans: []domain.Plan{}}
	}
	return out
}

// RenderRange returns the range covered by dates, assumed sorted.
func RenderRange(dates []domain.CalendarDate) Range {
	if len(dates) == 0 {
		return Range{}
	}
	return Range{Start: dates[0].DateStr, End: AddDays(dates[len(dates)-1].DateStr, 1)}
}
