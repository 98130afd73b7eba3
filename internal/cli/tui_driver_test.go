package cli

import (
	"testing"

	"github.com/alexanderramin/feather/internal/teatest"
)

// TestDriver wraps teatest.Driver with access to the appModel internals.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel over app without a program, so views
// reload after writes instead of subscribing.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()
	m := newAppModel(&SharedState{App: app})
	d := teatest.New(t, m, teatest.WithSize(140, 40))
	d.DrainInit()
	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// Calendar returns the calendar view at the bottom of the stack.
func (d *TestDriver) Calendar() *calendarView {
	return d.appModel().viewStack[0].(*calendarView)
}

// Status returns the status bar text.
func (d *TestDriver) Status() string {
	return d.appModel().status
}

// CellPoint returns the screen position of line within the cell of dateStr.
func (d *TestDriver) CellPoint(dateStr string, line int) (int, int) {
	d.T.Helper()
	g := d.Calendar().grid
	for i, ds := range g.Dates {
		if ds == dateStr {
			col, row := i%7, i/7
			return g.Left + col*g.CellWidth + 1, g.Top + row*g.CellHeight + line
		}
	}
	d.T.Fatalf("%s is not on screen", dateStr)
	return 0, 0
}

// PlanPoint returns the screen position of the plan at slot on dateStr.
func (d *TestDriver) PlanPoint(dateStr string, slot int) (int, int) {
	d.T.Helper()
	return d.CellPoint(dateStr, d.Calendar().grid.HeaderLines+slot)
}
