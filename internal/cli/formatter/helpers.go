package formatter

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RelativeDay describes dateStr relative to today, both YYYY-MM-DD.
func RelativeDay(dateStr, today string) string {
	d, err1 := time.Parse(time.DateOnly, dateStr)
	t, err2 := time.Parse(time.DateOnly, today)
	if err1 != nil || err2 != nil {
		return dateStr
	}
	days := int(d.Sub(t).Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	default:
		return d.Format("Jan 2, 2006")
	}
}

// ShortID returns the first 8 characters of an ID.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Truncate cuts s to at most width visible cells, marking the cut with an
// ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
