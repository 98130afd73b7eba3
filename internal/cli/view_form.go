package cli

import (
	"strings"

	"github.com/alexanderramin/feather/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// formView wraps a huh.Form as a View on the navigation stack. When the
// form completes it sends a formDoneMsg carrying the done callback's cmd.
type formView struct {
	state    *SharedState
	form     *huh.Form
	titleStr string
	done     func() tea.Cmd
}

func newFormView(state *SharedState, title string, form *huh.Form, done func() tea.Cmd) *formView {
	return &formView{
		state:    state,
		form:     form,
		titleStr: title,
		done:     done,
	}
}

func (v *formView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *formView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, func() tea.Msg { return formDoneMsg{next: statusCmd("Cancelled.")} }
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		var next tea.Cmd
		if v.done != nil {
			next = v.done()
		}
		return v, func() tea.Msg { return formDoneMsg{next: next} }
	}
	return v, cmd
}

func (v *formView) View() string {
	return "\n" + formatter.Header(v.titleStr) + "\n\n" + v.form.View()
}

func (v *formView) ID() ViewID    { return ViewForm }
func (v *formView) Title() string { return v.titleStr }
func (v *formView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// inputFormCmd pushes a one-field form; done receives the entered text.
func inputFormCmd(state *SharedState, title string, value string, required bool, done func(string) tea.Cmd) tea.Cmd {
	text := value
	form := singleInputForm(textInput(title, "", &text, required))
	return pushView(newFormView(state, title, form, func() tea.Cmd { return done(text) }))
}

// dateFormCmd pushes a form asking for a YYYY-MM-DD date.
func dateFormCmd(state *SharedState, title string, done func(string) tea.Cmd) tea.Cmd {
	date := state.Today
	form := singleInputForm(dateInput(title, &date))
	return pushView(newFormView(state, title, form, func() tea.Cmd { return done(strings.TrimSpace(date)) }))
}
