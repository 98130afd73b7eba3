package calendar

import (
	"testing"
	"time"

	"github.com/alexanderramin/feather/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRangeAndAddDays(t *testing.T) {
	assert.Equal(t, "2024-03-01", AddDays("2024-02-28", 2)) // leap year
	assert.Equal(t, "not-a-date", AddDays("not-a-date", 1))
	assert.Equal(t, []string{"2024-12-30", "2024-12-31", "2025-01-01"}, DateRange("2024-12-30", "2025-01-02"))
	assert.Empty(t, DateRange("2024-01-02", "2024-01-01"))
}

func TestWeeklyRanges(t *testing.T) {
	got := WeeklyRanges("2024-03-03", "2024-03-20")
	assert.Equal(t, []Range{
		{Start: "2024-03-03", End: "2024-03-10"},
		{Start: "2024-03-10", End: "2024-03-17"},
		{Start: "2024-03-17", End: "2024-03-20"},
	}, got)
	assert.Empty(t, WeeklyRanges("2024-03-03", "2024-03-03"))
}

func TestWeekStartAndHeaders(t *testing.T) {
	wed := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-03", FormatDate(WeekStart(wed, time.Sunday)))
	assert.Equal(t, "2024-03-04", FormatDate(WeekStart(wed, time.Monday)))
	assert.Equal(t, "2024-03-06", FormatDate(WeekStart(wed, time.Wednesday)))

	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, WeekdayHeaders(time.Monday))
	assert.Equal(t, "Sun", WeekdayHeaders(time.Sunday)[0])
}

func TestNewDatesAndRenderRange(t *testing.T) {
	dates := NewDates("2024-03-03", 2)
	require.Len(t, dates, 14)
	assert.Equal(t, "2024-03-16", dates[13].DateStr)
	assert.NotNil(t, dates[0].Plans)

	assert.Equal(t, Range{Start: "2024-03-03", End: "2024-03-17"}, RenderRange(dates))
	assert.Equal(t, Range{}, RenderRange([]domain.CalendarDate{}))
	assert.True(t, RenderRange(dates).Contains("2024-03-16"))
	assert.False(t, RenderRange(dates).Contains("2024-03-17"))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("03/01/2024")
	assert.Error(t, err)
	assert.Equal(t, "2024-03-01", Today(time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC), time.UTC))
}
