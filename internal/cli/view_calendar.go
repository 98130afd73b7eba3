package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/alexanderramin/feather/internal/cli/formatter"
	"github.com/alexanderramin/feather/internal/domain"
	"github.com/alexanderramin/feather/internal/undo"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minCellHeight = 4
	minCellWidth  = 10
	// lines of the calendar view above the grid: range title, weekdays
	calendarTopLines = 2
)

type calendarLoadedMsg struct {
	state calendar.State
	err   error
}

// calendarActionMsg carries a reducer action from a live subscription.
type calendarActionMsg struct {
	action calendar.Action
}

type weeksLoadedMsg struct {
	dir   calendar.Direction
	dates []domain.CalendarDate
	err   error
}

// calendarChangedMsg reports the outcome of a write.
type calendarChangedMsg struct {
	status string
	err    error
}

type calendarKeyMap struct {
	Left, Right, Up, Down key.Binding
	WeekUp, WeekDown      key.Binding
	Today, GoTo           key.Binding
	Add, Edit, Delete     key.Binding
	Label                 key.Binding
	Grab, Drop, Cancel    key.Binding
	Undo, Redo            key.Binding
	Notes, Reload         key.Binding
}

var calendarKeys = calendarKeyMap{
	Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "day")),
	Right:    key.NewBinding(key.WithKeys("l", "right")),
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "plan")),
	Down:     key.NewBinding(key.WithKeys("j", "down")),
	WeekUp:   key.NewBinding(key.WithKeys("K", "pgup"), key.WithHelp("J/K", "week")),
	WeekDown: key.NewBinding(key.WithKeys("J", "pgdown")),
	Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	GoTo:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
	Label:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "label")),
	Grab:     key.NewBinding(key.WithKeys("m", " "), key.WithHelp("m", "move")),
	Drop:     key.NewBinding(key.WithKeys("enter", "m", " "), key.WithHelp("enter", "drop")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Undo:     key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
	Redo:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
	Notes:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notes")),
	Reload:   key.NewBinding(key.WithKeys("r")),
}

// calendarView renders the week grid and handles plan editing and
// drag-and-drop reordering. Drops are applied to the local state first
// and written in the background.
type calendarView struct {
	state  *SharedState
	cal    calendar.State
	loaded bool

	cursor  int // index into cal.Dates
	slot    int // selected plan on the cursor date, -1 for none
	topWeek int
	focus   string // date the cursor lands on after a fresh load

	// Drag in progress: where it started, the state before it, and the
	// current optimistic placement.
	grab      *calendar.DragOrigin
	before    calendar.State
	placed    *calendar.MovePlan
	mouseDrag bool

	loading bool
	grid    calendar.Grid
	unsubs  []func()
}

func newCalendarView(state *SharedState) *calendarView {
	return &calendarView{state: state, slot: -1}
}

func (v *calendarView) Init() tea.Cmd {
	app := v.state.App
	start := app.windowStart(v.state.Today)
	weeks := app.weeks()
	if v.state.Live() {
		v.subscribe(calendar.RenderRange(calendar.NewDates(start, weeks)))
	}
	return v.loadCmd(start, weeks)
}

func (v *calendarView) loadCmd(start string, weeks int) tea.Cmd {
	svc := v.state.App.Calendar
	return func() tea.Msg {
		st, err := loadWindow(context.Background(), svc, start, weeks)
		return calendarLoadedMsg{state: st, err: err}
	}
}

func (v *calendarView) reloadCmd() tea.Cmd {
	if len(v.cal.Dates) == 0 {
		return v.loadCmd(v.state.App.windowStart(v.state.Today), v.state.App.weeks())
	}
	return v.loadCmd(v.cal.Dates[0].DateStr, len(v.cal.Dates)/7)
}

// subscribe forwards snapshots of r into the event loop.
func (v *calendarView) subscribe(r calendar.Range) {
	send := v.state.Send
	stop := v.state.App.Calendar.Watch(r.Start, r.End,
		func(a calendar.Action) { send(calendarActionMsg{action: a}) },
		func(err error) { send(statusMsg{text: err.Error(), err: true}) },
	)
	v.unsubs = append(v.unsubs, stop)
}

// Close stops the live subscriptions.
func (v *calendarView) Close() {
	for _, stop := range v.unsubs {
		stop()
	}
	v.unsubs = nil
}

func (v *calendarView) HoldsEsc() bool { return v.grab != nil }

func (v *calendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := v.update(msg)
	v.relayout()
	return v, cmd
}

func (v *calendarView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case calendarLoadedMsg:
		if msg.err != nil {
			return errorCmd(msg.err)
		}
		first := !v.loaded
		v.cal = msg.state
		v.loaded = true
		v.cancelGrab(false)
		if first {
			focus := v.focus
			if focus == "" {
				focus = v.state.Today
			}
			v.cursor = max(v.cal.DateIndex(focus), 0)
			v.slot, v.focus = -1, ""
		}
		v.clampCursor()
		return nil

	case calendarActionMsg:
		if v.grab == nil {
			v.cal = calendar.Reduce(v.cal, msg.action)
		} else {
			v.reduceDuringGrab(msg.action)
		}
		v.clampCursor()
		return nil

	case weeksLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return errorCmd(msg.err)
		}
		load := calendar.LoadDates{Dir: msg.dir, Dates: msg.dates}
		v.cal = calendar.Reduce(v.cal, load)
		if v.grab != nil {
			v.before = calendar.Reduce(v.before, load)
		}
		if msg.dir == calendar.Start {
			v.cursor += len(msg.dates)
			v.topWeek += len(msg.dates) / 7
		}
		if v.state.Live() {
			v.subscribe(calendar.RenderRange(msg.dates))
		}
		return nil

	case calendarChangedMsg:
		var cmds []tea.Cmd
		if msg.err != nil {
			cmds = append(cmds, errorCmd(msg.err))
		} else if msg.status != "" {
			cmds = append(cmds, statusCmd(msg.status))
		}
		if msg.err != nil || !v.state.Live() {
			cmds = append(cmds, v.reloadCmd())
		}
		return tea.Batch(cmds...)

	case tea.KeyMsg:
		if !v.loaded {
			return nil
		}
		if v.grab != nil {
			return v.handleGrabKey(msg)
		}
		return v.handleKey(msg)

	case tea.MouseMsg:
		if !v.loaded {
			return nil
		}
		return v.handleMouse(msg)
	}
	return nil
}

func (v *calendarView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, calendarKeys.Left):
		return v.moveCursor(-1)
	case key.Matches(msg, calendarKeys.Right):
		return v.moveCursor(1)
	case key.Matches(msg, calendarKeys.WeekUp):
		return v.moveCursor(-7)
	case key.Matches(msg, calendarKeys.WeekDown):
		return v.moveCursor(7)
	case key.Matches(msg, calendarKeys.Up):
		v.slot = max(v.slot-1, -1)
	case key.Matches(msg, calendarKeys.Down):
		v.slot = min(v.slot+1, len(v.currentDate().Plans)-1)
	case key.Matches(msg, calendarKeys.Today):
		return v.jumpTo(v.state.Today)
	case key.Matches(msg, calendarKeys.GoTo):
		return dateFormCmd(v.state, "Go to date", v.jumpTo)

	case key.Matches(msg, calendarKeys.Add):
		date := v.currentDate().DateStr
		return inputFormCmd(v.state, "New plan on "+date, "", true, func(content string) tea.Cmd {
			return v.writeCmd("Added plan", func(ctx context.Context) error {
				_, err := v.state.App.Calendar.Add(ctx, date, content, "")
				return err
			})
		})

	case key.Matches(msg, calendarKeys.Edit):
		p, ok := v.selectedPlan()
		if !ok {
			return nil
		}
		return inputFormCmd(v.state, "Edit plan", p.Content, true, func(content string) tea.Cmd {
			return v.writeCmd("Updated plan", func(ctx context.Context) error {
				return v.state.App.Calendar.Edit(ctx, p.ID, content)
			})
		})

	case key.Matches(msg, calendarKeys.Delete):
		p, ok := v.selectedPlan()
		if !ok {
			return nil
		}
		v.slot = min(v.slot, len(v.currentDate().Plans)-2)
		return v.writeCmd("Deleted plan", func(ctx context.Context) error {
			return v.state.App.Calendar.Delete(ctx, p.ID)
		})

	case key.Matches(msg, calendarKeys.Label):
		d := v.currentDate()
		return inputFormCmd(v.state, "Label of "+d.DateStr, d.Label, false, func(content string) tea.Cmd {
			return v.writeCmd("Saved label", func(ctx context.Context) error {
				return v.state.App.Calendar.SetLabel(ctx, d.DateStr, strings.TrimSpace(content))
			})
		})

	case key.Matches(msg, calendarKeys.Grab):
		if p, ok := v.selectedPlan(); ok {
			v.startGrab(p.ID)
		}

	case key.Matches(msg, calendarKeys.Undo):
		return v.historyCmd("Undone", "Nothing to undo", v.state.App.Calendar.Undo)
	case key.Matches(msg, calendarKeys.Redo):
		return v.historyCmd("Redone", "Nothing to redo", v.state.App.Calendar.Redo)

	case key.Matches(msg, calendarKeys.Notes):
		return pushView(newNotesView(v.state, ""))
	case key.Matches(msg, calendarKeys.Reload):
		return v.reloadCmd()
	}
	return nil
}

// handleGrabKey moves the grabbed plan around the window.
func (v *calendarView) handleGrabKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, calendarKeys.Cancel):
		v.cancelGrab(true)
	case key.Matches(msg, calendarKeys.Drop):
		return v.drop()
	case key.Matches(msg, calendarKeys.Up):
		v.place(v.cursor, v.slot-1)
	case key.Matches(msg, calendarKeys.Down):
		v.place(v.cursor, v.slot+1)
	case key.Matches(msg, calendarKeys.Left):
		v.placeOnDay(v.cursor - 1)
	case key.Matches(msg, calendarKeys.Right):
		v.placeOnDay(v.cursor + 1)
	case key.Matches(msg, calendarKeys.WeekUp):
		v.placeOnDay(v.cursor - 7)
	case key.Matches(msg, calendarKeys.WeekDown):
		v.placeOnDay(v.cursor + 7)
	}
	return nil
}

func (v *calendarView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionRelease {
		return nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if p, ok := v.grid.PlanAt(v.cal, msg.X, msg.Y); ok {
			v.startGrab(p.ID)
			v.mouseDrag = true
			v.followGrab()
			return nil
		}
		if date, _, ok := v.grid.DateAt(msg.X, msg.Y); ok {
			v.cursor, v.slot = v.cal.DateIndex(date), -1
		}

	case tea.MouseActionMotion:
		if !v.mouseDrag {
			return nil
		}
		t, ok := v.grid.TargetAt(msg.X, msg.Y)
		if !ok {
			// Off the grid the plan shows where it came from.
			v.cal, v.placed = v.before, nil
			v.followGrab()
			return nil
		}
		v.place(v.cal.DateIndex(t.DateStr), t.Slot)

	case tea.MouseActionRelease:
		if !v.mouseDrag {
			return nil
		}
		v.mouseDrag = false
		t, ok := v.grid.TargetAt(msg.X, msg.Y)
		if !ok {
			v.cancelGrab(true)
			return nil
		}
		v.place(v.cal.DateIndex(t.DateStr), t.Slot)
		return v.drop()
	}
	return nil
}

func (v *calendarView) startGrab(planID string) {
	origin, ok := calendar.NewDragOrigin(v.cal, planID)
	if !ok {
		return
	}
	v.grab = &origin
	v.before = v.cal
	v.placed = nil
}

// cancelGrab ends a drag; restore puts the plan back where it was.
func (v *calendarView) cancelGrab(restore bool) {
	if v.grab == nil {
		return
	}
	if restore {
		v.cal = v.before
		v.followPlan(v.grab.PlanID)
	}
	v.grab, v.placed, v.mouseDrag = nil, nil, false
	v.before = calendar.State{}
}

// reduceDuringGrab applies a remote action to the pre-drag state and
// replays the current placement on top. The origin is taken again so a
// drop relinks the plan's current neighbours.
func (v *calendarView) reduceDuringGrab(a calendar.Action) {
	v.before = calendar.Reduce(v.before, a)
	origin, ok := calendar.NewDragOrigin(v.before, v.grab.PlanID)
	if !ok {
		v.cal = v.before
		v.cancelGrab(false)
		return
	}
	v.grab = &origin
	v.cal = v.before
	if v.placed != nil {
		v.cal = calendar.Reduce(v.cal, *v.placed)
	}
	v.followGrab()
}

// place puts the grabbed plan at slot on the date at index di, counting
// slots without the plan itself.
func (v *calendarView) place(di, slot int) {
	if v.grab == nil || di < 0 || di >= len(v.cal.Dates) {
		return
	}
	d := v.cal.Dates[di]
	ids := slices.DeleteFunc(d.PlanIDs(), func(id string) bool { return id == v.grab.PlanID })
	slot = min(max(slot, 0), len(ids))
	a := calendar.MovePlan{PlanID: v.grab.PlanID, DateStr: d.DateStr}
	if slot > 0 {
		a.Prv = ids[slot-1]
	}
	v.cal = calendar.Reduce(v.cal, a)
	v.placed = &a
	v.cursor, v.slot = di, slot
}

func (v *calendarView) placeOnDay(di int) {
	v.place(di, v.slot)
}

// drop resolves the current placement against the drag origin and writes it.
func (v *calendarView) drop() tea.Cmd {
	origin := *v.grab
	target := calendar.DropTarget{DateStr: v.currentDate().DateStr, Slot: v.slot}
	m, err := calendar.ResolveDrop(v.cal, origin, target)
	v.grab, v.placed, v.mouseDrag = nil, nil, false
	v.before = calendar.State{}
	if err != nil {
		return tea.Batch(errorCmd(err), v.reloadCmd())
	}
	if m.IsNoop() {
		return nil
	}
	return v.writeCmd("Moved plan", func(ctx context.Context) error {
		return v.state.App.Calendar.Move(ctx, m)
	})
}

// followGrab keeps the cursor on the grabbed plan.
func (v *calendarView) followGrab() {
	if v.grab != nil {
		v.followPlan(v.grab.PlanID)
	}
}

func (v *calendarView) followPlan(planID string) {
	if di, pi, ok := v.cal.FindPlan(planID); ok {
		v.cursor, v.slot = di, pi
	}
}

func (v *calendarView) writeCmd(done string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return calendarChangedMsg{err: err}
		}
		return calendarChangedMsg{status: done}
	}
}

func (v *calendarView) historyCmd(done, empty string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(context.Background())
		if errors.Is(err, undo.ErrEmpty) {
			return statusMsg{text: empty}
		}
		if err != nil {
			return calendarChangedMsg{err: err}
		}
		return calendarChangedMsg{status: done}
	}
}

// moveCursor shifts the selected date, loading a week when it runs off
// either end of the window.
func (v *calendarView) moveCursor(delta int) tea.Cmd {
	target := v.cursor + delta
	v.slot = -1
	switch {
	case target < 0:
		v.cursor = 0
		return v.loadWeekCmd(calendar.Start)
	case target >= len(v.cal.Dates):
		v.cursor = len(v.cal.Dates) - 1
		return v.loadWeekCmd(calendar.End)
	}
	v.cursor = target
	return nil
}

// jumpTo moves the cursor to dateStr, reloading the window around it
// when dateStr is not loaded.
func (v *calendarView) jumpTo(dateStr string) tea.Cmd {
	if i := v.cal.DateIndex(dateStr); i >= 0 {
		v.cursor, v.slot = i, -1
		return nil
	}
	v.loaded, v.topWeek, v.focus = false, 0, dateStr
	start, weeks := v.state.App.windowStart(dateStr), v.state.App.weeks()
	if v.state.Live() {
		v.Close()
		v.subscribe(calendar.RenderRange(calendar.NewDates(start, weeks)))
	}
	return v.loadCmd(start, weeks)
}

func (v *calendarView) loadWeekCmd(dir calendar.Direction) tea.Cmd {
	if v.loading || len(v.cal.Dates) == 0 {
		return nil
	}
	v.loading = true
	start := calendar.AddDays(v.cal.Dates[len(v.cal.Dates)-1].DateStr, 1)
	if dir == calendar.Start {
		start = calendar.AddDays(v.cal.Dates[0].DateStr, -7)
	}
	svc := v.state.App.Calendar
	return func() tea.Msg {
		dates, err := fetchDates(context.Background(), svc, start, 1)
		return weeksLoadedMsg{dir: dir, dates: dates, err: err}
	}
}

func (v *calendarView) clampCursor() {
	if len(v.cal.Dates) == 0 {
		v.cursor, v.slot = 0, -1
		return
	}
	v.cursor = min(max(v.cursor, 0), len(v.cal.Dates)-1)
	v.slot = min(v.slot, len(v.cal.Dates[v.cursor].Plans)-1)
}

func (v *calendarView) currentDate() domain.CalendarDate {
	if v.cursor < 0 || v.cursor >= len(v.cal.Dates) {
		return domain.CalendarDate{}
	}
	return v.cal.Dates[v.cursor]
}

func (v *calendarView) selectedPlan() (domain.Plan, bool) {
	d := v.currentDate()
	if v.slot < 0 || v.slot >= len(d.Plans) {
		return domain.Plan{}, false
	}
	return d.Plans[v.slot], true
}

// relayout sizes the grid to the terminal and scrolls the cursor's week
// into view.
func (v *calendarView) relayout() {
	weeks := len(v.cal.Dates) / 7
	if weeks == 0 {
		v.grid = calendar.Grid{}
		return
	}
	avail := v.state.ContentHeight() - calendarTopLines
	visible := min(max(avail/minCellHeight, 1), weeks)
	cellH := max(minCellHeight, avail/visible)

	row := v.cursor / 7
	if row < v.topWeek {
		v.topWeek = row
	}
	if row >= v.topWeek+visible {
		v.topWeek = row - visible + 1
	}
	v.topWeek = min(max(v.topWeek, 0), weeks-visible)

	dates := make([]string, 0, visible*7)
	for _, d := range v.cal.Dates[v.topWeek*7 : (v.topWeek+visible)*7] {
		dates = append(dates, d.DateStr)
	}
	v.grid = calendar.Grid{
		Left:        0,
		Top:         headerLines + calendarTopLines,
		CellWidth:   max(v.state.Width/7, minCellWidth),
		CellHeight:  cellH,
		HeaderLines: 1,
		Dates:       dates,
	}
}

func (v *calendarView) View() string {
	if !v.loaded {
		return formatter.Dim("Loading calendar…")
	}
	if len(v.grid.Dates) == 0 {
		return formatter.Dim("No dates.")
	}

	var b strings.Builder
	first, last := v.grid.Dates[0], v.grid.Dates[len(v.grid.Dates)-1]
	b.WriteString(formatter.Bold(rangeTitle(first, last)))
	if v.grab != nil {
		b.WriteString("  " + formatter.StyleYellow.Render("moving plan"))
	}
	b.WriteString("\n")

	cw := v.grid.CellWidth
	for _, h := range calendar.WeekdayHeaders(v.state.App.WeekStart) {
		b.WriteString(pad(formatter.StyleHeader.Render(h), cw))
	}

	for row := 0; row*7 < len(v.grid.Dates); row++ {
		cells := make([][]string, 7)
		for col := range 7 {
			di := v.topWeek*7 + row*7 + col
			cells[col] = v.renderCell(di)
		}
		for line := 0; line < v.grid.CellHeight; line++ {
			b.WriteString("\n")
			for col := range 7 {
				b.WriteString(cells[col][line])
			}
		}
	}
	return b.String()
}

// renderCell returns the CellHeight lines of one date, each CellWidth wide.
func (v *calendarView) renderCell(di int) []string {
	cw, ch := v.grid.CellWidth, v.grid.CellHeight
	d := v.cal.Dates[di]
	lines := make([]string, ch)

	dayStyle := formatter.StyleFg
	if d.DateStr == v.state.Today {
		dayStyle = formatter.StyleGreen.Bold(true)
	}
	if di == v.cursor && v.slot < 0 {
		dayStyle = dayStyle.Reverse(true)
	}
	head := dayStyle.Render(dayNumber(d.DateStr))
	if d.Label != "" {
		head += " " + formatter.StylePurple.Render(formatter.Truncate(d.Label, cw-lipgloss.Width(head)-2))
	}
	lines[0] = pad(head, cw)

	capacity := ch - 1
	for i, p := range d.Plans {
		if i >= capacity {
			break
		}
		if i == capacity-1 && len(d.Plans) > capacity {
			lines[i+1] = pad(formatter.Dim("+"+strconv.Itoa(len(d.Plans)-i)+" more"), cw)
			break
		}
		lines[i+1] = pad(v.renderPlan(p, di, i, cw-1), cw)
	}
	for i := range lines {
		if lines[i] == "" {
			lines[i] = strings.Repeat(" ", cw)
		}
	}
	return lines
}

func (v *calendarView) renderPlan(p domain.Plan, di, i, width int) string {
	style, ok := v.cal.Styles[p.EffectiveStyleID()]
	if !ok {
		style = domain.PlanStyle{ID: p.EffectiveStyleID()}
	}
	s := formatter.PlanStyle(style)
	text := formatter.Truncate(p.Content, width)
	switch {
	case v.grab != nil && p.ID == v.grab.PlanID:
		s = formatter.StyleYellow.Reverse(true)
	case di == v.cursor && i == v.slot:
		s = s.Reverse(true)
	}
	return s.Render(text)
}

func (v *calendarView) ID() ViewID    { return ViewCalendar }
func (v *calendarView) Title() string { return "calendar" }

func (v *calendarView) ShortHelp() []key.Binding {
	k := calendarKeys
	if v.grab != nil {
		return []key.Binding{
			key.NewBinding(key.WithKeys("h"), key.WithHelp("hjkl", "place")),
			k.Drop, k.Cancel,
		}
	}
	return []key.Binding{k.Left, k.Up, k.Add, k.Edit, k.Delete, k.Grab, k.Label, k.Undo, k.Redo, k.Notes}
}

// pad fills s with spaces to width visible cells, cutting it when longer.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		return lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	return s + strings.Repeat(" ", width-w)
}

func dayNumber(dateStr string) string {
	t, err := calendar.ParseDate(dateStr)
	if err != nil {
		return dateStr
	}
	if t.Day() == 1 {
		return t.Format("Jan 2")
	}
	return strconv.Itoa(t.Day())
}

func rangeTitle(first, last string) string {
	a, err1 := calendar.ParseDate(first)
	b, err2 := calendar.ParseDate(last)
	if err1 != nil || err2 != nil {
		return fmt.Sprintf("%s – %s", first, last)
	}
	if a.Year() != b.Year() {
		return a.Format("Jan 2, 2006") + " – " + b.Format("Jan 2, 2006")
	}
	return a.Format("Jan 2") + " – " + b.Format("Jan 2, 2006")
}
