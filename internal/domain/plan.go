package domain

// DefaultStyleID is applied to plans stored without a style.
const DefaultStyleID = "default"

// Plan is a single entry on a calendar date. Plans of one date form a
// singly-linked list through Prv, the id of the preceding plan ("" when first).
type Plan struct {
	ID      string
	DateStr string
	Content string
	StyleID string
	Prv     string
}

// EffectiveStyleID returns the plan style, falling back to DefaultStyleID.
func (p Plan) EffectiveStyleID() string {
	if p.StyleID == "" {
		return DefaultStyleID
	}
	return p.StyleID
}

// PlanStyle describes how plans of a style are labelled and coloured.
type PlanStyle struct {
	ID        string
	Label     string
	Color     string
	ColorDone string
}

// DateLabel is the free-text heading shown on a single date.
type DateLabel struct {
	ID      string
	DateStr string
	Content string
}
