package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/feather/internal/domain"
)

// FormatPlans renders the dates in order with their label and their plans
// in list order. Dates without plans or label are skipped.
func FormatPlans(dates []domain.CalendarDate, styles map[string]domain.PlanStyle, today string) string {
	var rows [][]string
	for _, d := range dates {
		if len(d.Plans) == 0 && d.Label == "" {
			continue
		}
		day := d.DateStr
		if d.DateStr == today {
			day = StyleGreen.Render(day)
		}
		if d.Label != "" {
			rows = append(rows, []string{day, "", StylePurple.Render(d.Label), "", ""})
			day = ""
		}
		for i, p := range d.Plans {
			style, ok := styles[p.EffectiveStyleID()]
			if !ok {
				style = domain.PlanStyle{ID: p.EffectiveStyleID()}
			}
			rows = append(rows, []string{
				day,
				Dim(fmt.Sprintf("%d", i+1)),
				PlanStyle(style).Render(p.Content),
				Dim(p.EffectiveStyleID()),
				Dim(p.ID),
			})
			day = ""
		}
	}
	if len(rows) == 0 {
		return Dim("No plans.") + "\n"
	}
	return RenderTable([]string{"DATE", "#", "PLAN", "STYLE", "ID"}, rows)
}

// FormatStyles renders the plan styles as a table.
func FormatStyles(styles []domain.PlanStyle) string {
	if len(styles) == 0 {
		return Dim("No styles.") + "\n"
	}
	rows := make([][]string, 0, len(styles))
	for _, s := range styles {
		rows = append(rows, []string{s.ID, StyleSwatch(s), s.Color, s.ColorDone})
	}
	return RenderTable([]string{"ID", "LABEL", "COLOR", "DONE"}, rows)
}

// FormatPins renders the pins of a board sorted as stored.
func FormatPins(board domain.Inode) string {
	var b strings.Builder
	b.WriteString(Header(board.Name))
	b.WriteString("\n")
	if len(board.Pins) == 0 {
		b.WriteString(Dim("No pins.") + "\n")
		return b.String()
	}
	rows := make([][]string, 0, len(board.Pins))
	for _, p := range board.Pins {
		rows = append(rows, []string{Dim(p.ID), fmt.Sprintf("%d,%d", p.X, p.Y), p.Content})
	}
	b.WriteString(RenderTable([]string{"ID", "AT", "CONTENT"}, rows))
	return b.String()
}
