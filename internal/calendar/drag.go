package calendar

import (
	"fmt"

	"github.com/alexanderramin/feather/internal/domain"
)

// MoveRequest is the relinking needed to move one plan: where it leaves
// from and where it lands, by neighbour ids.
type MoveRequest struct {
	PlanID string

	FromDate string
	FromPrv  string
	FromNxt  string

	ToDate string
	ToPrv  string
	ToNxt  string
}

// IsNoop reports whether the plan lands where it already was.
func (m MoveRequest) IsNoop() bool {
	return m.FromDate == m.ToDate && m.FromPrv == m.ToPrv && m.FromNxt == m.ToNxt
}

// Inverse returns the move that puts the plan back.
func (m MoveRequest) Inverse() MoveRequest {
	return MoveRequest{
		PlanID:   m.PlanID,
		FromDate: m.ToDate, FromPrv: m.ToPrv, FromNxt: m.ToNxt,
		ToDate: m.FromDate, ToPrv: m.FromPrv, ToNxt: m.FromNxt,
	}
}

// DragOrigin is where a plan was when the drag started.
type DragOrigin struct {
	PlanID  string
	DateStr string
	Prv     string
	Nxt     string
}

// NewDragOrigin captures the current position of planID.
func NewDragOrigin(s State, planID string) (DragOrigin, bool) {
	di, pi, ok := s.FindPlan(planID)
	if !ok {
		return DragOrigin{}, false
	}
	prv, nxt := s.Dates[di].Neighbours(pi)
	return DragOrigin{PlanID: planID, DateStr: s.Dates[di].DateStr, Prv: prv, Nxt: nxt}, true
}

// DropTarget is a slot on a date: the plan lands before the plan that is
// currently at Slot once the dragged plan itself is taken out.
type DropTarget struct {
	DateStr string
	Slot    int
}

// ResolveDrop computes the move for dropping the dragged plan on target.
// The target date's list is read from s without the dragged plan, so the
// result is the same whether or not s already shows it optimistically.
func ResolveDrop(s State, origin DragOrigin, target DropTarget) (MoveRequest, error) {
	di := s.DateIndex(target.DateStr)
	if di < 0 {
		return MoveRequest{}, fmt.Errorf("drop date %s is not rendered", target.DateStr)
	}
	var ids []string
	for _, p := range s.Dates[di].Plans {
		if p.ID != origin.PlanID {
			ids = append(ids, p.ID)
		}
	}
	slot := min(max(target.Slot, 0), len(ids))

	m := MoveRequest{
		PlanID:   origin.PlanID,
		FromDate: origin.DateStr,
		FromPrv:  origin.Prv,
		FromNxt:  origin.Nxt,
		ToDate:   target.DateStr,
	}
	if slot > 0 {
		m.ToPrv = ids[slot-1]
	}
	if slot < len(ids) {
		m.ToNxt = ids[slot]
	}
	return m, nil
}

// TargetAfter returns the drop target placing a plan right after prv on
// dateStr, as MovePlan does.
func TargetAfter(s State, planID, dateStr, prv string) DropTarget {
	t := DropTarget{DateStr: dateStr}
	di := s.DateIndex(dateStr)
	if di < 0 || prv == "" {
		return t
	}
	slot := 0
	for _, p := range s.Dates[di].Plans {
		if p.ID == planID {
			continue
		}
		slot++
		if p.ID == prv {
			t.Slot = slot
			return t
		}
	}
	t.Slot = slot
	return t
}

// Grid maps screen cells of the month grid to dates and plan slots. Dates
// are laid out row-major, seven per week row.
type Grid struct {
	Left        int
	Top         int
	CellWidth   int
	CellHeight  int
	HeaderLines int // lines at the top of a cell before the first plan
	Dates       []string
}

// DateAt returns the date under (x, y).
func (g Grid) DateAt(x, y int) (string, int, bool) {
	if g.CellWidth <= 0 || g.CellHeight <= 0 || x < g.Left || y < g.Top {
		return "", 0, false
	}
	col := (x - g.Left) / g.CellWidth
	row := (y - g.Top) / g.CellHeight
	if col >= 7 {
		return "", 0, false
	}
	i := row*7 + col
	if i >= len(g.Dates) {
		return "", 0, false
	}
	line := (y - g.Top) % g.CellHeight
	return g.Dates[i], line, true
}

// TargetAt returns the drop target under (x, y).
func (g Grid) TargetAt(x, y int) (DropTarget, bool) {
	date, line, ok := g.DateAt(x, y)
	if !ok {
		return DropTarget{}, false
	}
	return DropTarget{DateStr: date, Slot: max(line-g.HeaderLines, 0)}, true
}

// PlanAt returns the plan rendered under (x, y), if any.
func (g Grid) PlanAt(s State, x, y int) (domain.Plan, bool) {
	date, line, ok := g.DateAt(x, y)
	if !ok || line < g.HeaderLines {
		return domain.Plan{}, false
	}
	di := s.DateIndex(date)
	if di < 0 {
		return domain.Plan{}, false
	}
	slot := line - g.HeaderLines
	if slot >= len(s.Dates[di].Plans) {
		return domain.Plan{}, false
	}
	return s.Dates[di].Plans[slot], true
}
