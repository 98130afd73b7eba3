package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/feather/internal/cli/formatter"
	"github.com/alexanderramin/feather/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// pinStep is how far one key press moves a pin.
const pinStep = 10

type pinboardKeyMap struct {
	Up, Down    key.Binding
	Add, Delete key.Binding
	Grab, Drop  key.Binding
	Left, Right key.Binding
	Cancel      key.Binding
	Undo, Redo  key.Binding
}

var pinboardKeys = pinboardKeyMap{
	Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "select")),
	Down:   key.NewBinding(key.WithKeys("j", "down")),
	Left:   key.NewBinding(key.WithKeys("h", "left")),
	Right:  key.NewBinding(key.WithKeys("l", "right")),
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "pin")),
	Delete: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
	Grab:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
	Drop:   key.NewBinding(key.WithKeys("enter", "m"), key.WithHelp("enter", "drop")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Undo:   key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
	Redo:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
}

// pinboardView shows the pins of one board. A grabbed pin moves locally
// and is written once on drop.
type pinboardView struct {
	state  *SharedState
	path   string
	watch  notesWatcher
	board  domain.Inode
	cursor int

	moving *domain.Pin // position while grabbed
}

func newPinboardView(state *SharedState, path string) *pinboardView {
	return &pinboardView{state: state, path: path}
}

func (v *pinboardView) Init() tea.Cmd {
	return v.watch.start(v.state)
}

func (v *pinboardView) Close() {
	v.watch.close()
}

func (v *pinboardView) HoldsEsc() bool { return v.moving != nil }

func (v *pinboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notesTreeMsg:
		if msg.err != nil {
			return v, errorCmd(msg.err)
		}
		v.watch.tree, v.watch.loaded = msg.tree, true
		v.board = msg.tree.Inodes[v.path]
		v.cursor = min(max(v.cursor, 0), max(len(v.board.Pins)-1, 0))
		return v, nil

	case notesChangedMsg:
		return v, notesChanged(v.state, msg)

	case tea.KeyMsg:
		if v.moving != nil {
			return v, v.handleMoveKey(msg)
		}
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *pinboardView) handleKey(msg tea.KeyMsg) tea.Cmd {
	notes := v.state.App.Notes
	board := v.path
	switch {
	case key.Matches(msg, pinboardKeys.Up):
		v.cursor = max(v.cursor-1, 0)
	case key.Matches(msg, pinboardKeys.Down):
		v.cursor = min(v.cursor+1, max(len(v.board.Pins)-1, 0))

	case key.Matches(msg, pinboardKeys.Add):
		x, y := v.nextSpot()
		return inputFormCmd(v.state, "New pin", "", true, func(content string) tea.Cmd {
			return notesWriteCmd("Pinned", func(ctx context.Context) error {
				_, err := notes.AddPin(ctx, board, content, x, y)
				return err
			})
		})

	case key.Matches(msg, pinboardKeys.Delete):
		p, ok := v.selected()
		if !ok {
			return nil
		}
		return notesWriteCmd("Removed pin", func(ctx context.Context) error {
			return notes.RemovePin(ctx, board, p.ID)
		})

	case key.Matches(msg, pinboardKeys.Grab):
		if p, ok := v.selected(); ok {
			v.moving = &p
		}

	case key.Matches(msg, pinboardKeys.Undo):
		return notesHistoryCmd("Undone", "Nothing to undo", notes.Undo)
	case key.Matches(msg, pinboardKeys.Redo):
		return notesHistoryCmd("Redone", "Nothing to redo", notes.Redo)
	}
	return nil
}

func (v *pinboardView) handleMoveKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, pinboardKeys.Cancel):
		v.moving = nil
	case key.Matches(msg, pinboardKeys.Drop):
		p := *v.moving
		v.moving = nil
		orig, ok := v.selected()
		if !ok || (orig.X == p.X && orig.Y == p.Y) {
			return nil
		}
		notes, board := v.state.App.Notes, v.path
		return notesWriteCmd("Moved pin", func(ctx context.Context) error {
			return notes.MovePin(ctx, board, p.ID, p.X, p.Y)
		})
	case key.Matches(msg, pinboardKeys.Left):
		v.moving.X = max(v.moving.X-pinStep, 0)
	case key.Matches(msg, pinboardKeys.Right):
		v.moving.X += pinStep
	case key.Matches(msg, pinboardKeys.Up):
		v.moving.Y = max(v.moving.Y-pinStep, 0)
	case key.Matches(msg, pinboardKeys.Down):
		v.moving.Y += pinStep
	}
	return nil
}

// nextSpot places new pins below the lowest one.
func (v *pinboardView) nextSpot() (int, int) {
	y := 0
	for _, p := range v.board.Pins {
		y = max(y, p.Y+pinStep)
	}
	return 0, y
}

func (v *pinboardView) selected() (domain.Pin, bool) {
	if v.cursor < 0 || v.cursor >= len(v.board.Pins) {
		return domain.Pin{}, false
	}
	return v.board.Pins[v.cursor], true
}

func (v *pinboardView) View() string {
	if !v.watch.loaded {
		return formatter.Dim("Loading pinboard…")
	}
	if v.board.Path == "" {
		return formatter.StyleRed.Render("Pinboard no longer exists.")
	}

	var b strings.Builder
	b.WriteString(formatter.Header(v.board.Name) + "\n")
	if len(v.board.Pins) == 0 {
		b.WriteString(formatter.Dim("No pins. Press a to add one."))
		return b.String()
	}
	rows := make([][]string, 0, len(v.board.Pins))
	for i, p := range v.board.Pins {
		marker := " "
		at := fmt.Sprintf("%d,%d", p.X, p.Y)
		content := formatter.Truncate(p.Content, max(v.state.Width-20, 20))
		if i == v.cursor {
			marker = formatter.StyleHeader.Render("▸")
			if v.moving != nil {
				at = formatter.StyleYellow.Render(fmt.Sprintf("%d,%d", v.moving.X, v.moving.Y))
			}
		}
		rows = append(rows, []string{marker, at, content})
	}
	b.WriteString(formatter.RenderTable([]string{"", "AT", "PIN"}, rows))
	return strings.TrimRight(b.String(), "\n")
}

func (v *pinboardView) ID() ViewID { return ViewPinboard }

func (v *pinboardView) Title() string {
	if v.board.Name != "" {
		return v.board.Name
	}
	return "pinboard"
}

func (v *pinboardView) ShortHelp() []key.Binding {
	k := pinboardKeys
	if v.moving != nil {
		return []key.Binding{
			key.NewBinding(key.WithKeys("h"), key.WithHelp("hjkl", "nudge")),
			k.Drop, k.Cancel,
		}
	}
	return []key.Binding{k.Up, k.Add, k.Delete, k.Grab, k.Undo, k.Redo}
}
