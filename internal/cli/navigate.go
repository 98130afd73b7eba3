package cli

import tea "github.com/charmbracelet/bubbletea"

// pushViewMsg puts a view on top of the stack.
type pushViewMsg struct {
	view View
}

// statusMsg sets the transient line in the status bar.
type statusMsg struct {
	text string
	err  bool
}

// formDoneMsg is sent when a form completes or is cancelled. The appModel
// pops the form view, then runs next.
type formDoneMsg struct {
	next tea.Cmd
}

// dayChangedMsg is sent by the rollover job at midnight.
type dayChangedMsg struct {
	today string
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: err.Error(), err: true} }
}
