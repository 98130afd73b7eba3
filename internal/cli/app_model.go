package cli

import (
	"strings"

	"github.com/alexanderramin/feather/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// headerLines is the height of the title bar above the active view.
const headerLines = 2

// appModel is the root bubbletea Model for the TUI. It manages a view
// stack with the calendar at the bottom.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool

	status    string
	statusErr bool
}

func newAppModel(state *SharedState) appModel {
	if state.Today == "" {
		state.Today = state.App.Today()
	}
	return appModel{
		state:     state,
		viewStack: []View{newCalendarView(state)},
	}
}

func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m *appModel) pop() {
	if len(m.viewStack) > 1 {
		top := m.viewStack[len(m.viewStack)-1]
		if c, ok := top.(closer); ok {
			c.Close()
		}
		m.viewStack = m.viewStack[:len(m.viewStack)-1]
	}
}

// closeAll stops every subscription held by the stack.
func (m *appModel) closeAll() {
	for _, v := range m.viewStack {
		if c, ok := v.(closer); ok {
			c.Close()
		}
	}
}

// broadcast sends msg to every view on the stack.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.clearStatus()
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case formDoneMsg:
		if v := m.activeView(); v != nil && v.ID() == ViewForm {
			m.pop()
		}
		return m, msg.next

	case statusMsg:
		m.status = msg.text
		m.statusErr = msg.err
		return m, nil

	// Data from loads and subscriptions belongs to whichever view on the
	// stack shows it, not only the top one.
	case calendarLoadedMsg, calendarActionMsg, weeksLoadedMsg, notesTreeMsg:
		return m, m.broadcast(msg)

	case dayChangedMsg:
		m.state.Today = msg.today
		return m, m.broadcast(msg)

	case tea.QuitMsg:
		m.quitting = true
		m.closeAll()
		return m, nil
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	// Forms receive every key, including q and esc.
	v := m.activeView()
	if v != nil && v.ID() == ViewForm {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	m.clearStatus()
	switch {
	case msg.String() == "q":
		return m.quit()

	case msg.Type == tea.KeyEsc && len(m.viewStack) > 1 && !viewHoldsEsc(v):
		m.pop()
		return m, nil
	}

	if v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.closeAll()
	return m, tea.Quit
}

// viewHoldsEsc reports whether the view uses esc itself, e.g. to cancel a drag.
func viewHoldsEsc(v View) bool {
	h, ok := v.(interface{ HoldsEsc() bool })
	return ok && h.HoldsEsc()
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	result := strings.Join(sections, "\n")

	// Keep the status bar at the bottom and avoid stale lines from the
	// line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if pad := m.state.Height - 2 - lines; pad > 0 {
			result += strings.Repeat("\n", pad)
		}
	}
	return result + "\n" + m.renderStatusBar()
}

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("feather")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}
	header += "  " + formatter.StyleGreen.Render(m.state.Today)

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var line string
	switch {
	case m.status != "" && m.statusErr:
		line = formatter.StyleRed.Render(m.status)
	case m.status != "":
		line = formatter.StyleGreen.Render(m.status)
	default:
		var hints []string
		if v := m.activeView(); v != nil {
			for _, b := range v.ShortHelp() {
				hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
			}
			if len(m.viewStack) > 1 && v.ID() != ViewForm {
				hints = append(hints, formatter.Dim("esc: back"))
			}
		}
		hints = append(hints, formatter.Dim("q: quit"))
		line = strings.Join(hints, "  ")
	}

	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + line
}

func (m *appModel) clearStatus() {
	m.status = ""
	m.statusErr = false
}
