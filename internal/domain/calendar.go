package domain

// CalendarDate is one rendered day: its label and its plans in list order.
type CalendarDate struct {
	DateStr string
	Label   string
	Plans   []Plan
}

// PlanIDs returns the ids of the date's plans in order.
func (d CalendarDate) PlanIDs() []string {
	ids := make([]string, len(d.Plans))
	for i, p := range d.Plans {
		ids[i] = p.ID
	}
	return ids
}

// IndexOf returns the position of planID on the date, or -1.
func (d CalendarDate) IndexOf(planID string) int {
	for i, p := range d.Plans {
		if p.ID == planID {
			return i
		}
	}
	return -1
}

// Neighbours returns the ids before and after position i ("" at the edges).
func (d CalendarDate) Neighbours(i int) (prv, nxt string) {
	if i > 0 && i-1 < len(d.Plans) {
		prv = d.Plans[i-1].ID
	}
	if i >= 0 && i+1 < len(d.Plans) {
		nxt = d.Plans[i+1].ID
	}
	return prv, nxt
}
