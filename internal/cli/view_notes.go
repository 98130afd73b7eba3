package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/feather/internal/cli/formatter"
	"github.com/alexanderramin/feather/internal/domain"
	"github.com/alexanderramin/feather/internal/undo"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// notesTreeMsg delivers a fresh notes tree, from a load or a subscription.
type notesTreeMsg struct {
	tree domain.NotesTree
	err  error
}

// notesChangedMsg reports the outcome of a notes write.
type notesChangedMsg struct {
	status string
	err    error
}

type notesKeyMap struct {
	Up, Down, Open   key.Binding
	AddBoard, AddDir key.Binding
	Rename           key.Binding
	Undo, Redo       key.Binding
}

var notesKeys = notesKeyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "select")),
	Down:     key.NewBinding(key.WithKeys("j", "down")),
	Open:     key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open")),
	AddBoard: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "new board")),
	AddDir:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "new dir")),
	Rename:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
	Undo:     key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
	Redo:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
}

// notesWatcher holds the tree shared by the notes views: a live
// subscription when running under a program, reloads otherwise.
type notesWatcher struct {
	tree   domain.NotesTree
	loaded bool
	stop   func()
}

func (w *notesWatcher) start(state *SharedState) tea.Cmd {
	if state.Live() {
		send := state.Send
		w.stop = state.App.Notes.Watch(
			func(t domain.NotesTree) { send(notesTreeMsg{tree: t}) },
			func(err error) { send(statusMsg{text: err.Error(), err: true}) },
		)
	}
	return loadTreeCmd(state)
}

func (w *notesWatcher) close() {
	if w.stop != nil {
		w.stop()
		w.stop = nil
	}
}

func loadTreeCmd(state *SharedState) tea.Cmd {
	svc := state.App.Notes
	return func() tea.Msg {
		tree, err := loadTree(context.Background(), svc)
		return notesTreeMsg{tree: tree, err: err}
	}
}

// notesChanged turns a write result into status and, without a live
// subscription, a reload.
func notesChanged(state *SharedState, msg notesChangedMsg) tea.Cmd {
	var cmds []tea.Cmd
	if msg.err != nil {
		cmds = append(cmds, errorCmd(msg.err))
	} else if msg.status != "" {
		cmds = append(cmds, statusCmd(msg.status))
	}
	if msg.err != nil || !state.Live() {
		cmds = append(cmds, loadTreeCmd(state))
	}
	return tea.Batch(cmds...)
}

func notesWriteCmd(done string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return notesChangedMsg{err: err}
		}
		return notesChangedMsg{status: done}
	}
}

func notesHistoryCmd(done, empty string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(context.Background())
		if errors.Is(err, undo.ErrEmpty) {
			return statusMsg{text: empty}
		}
		if err != nil {
			return notesChangedMsg{err: err}
		}
		return notesChangedMsg{status: done}
	}
}

// notesView lists the entries of one directory ("" for home).
type notesView struct {
	state   *SharedState
	dir     string
	watch   notesWatcher
	entries []domain.Inode
	cursor  int
}

func newNotesView(state *SharedState, dir string) *notesView {
	return &notesView{state: state, dir: dir}
}

func (v *notesView) Init() tea.Cmd {
	return v.watch.start(v.state)
}

func (v *notesView) Close() {
	v.watch.close()
}

func (v *notesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notesTreeMsg:
		if msg.err != nil {
			return v, errorCmd(msg.err)
		}
		v.watch.tree, v.watch.loaded = msg.tree, true
		v.entries = v.children()
		v.cursor = min(max(v.cursor, 0), max(len(v.entries)-1, 0))
		return v, nil

	case notesChangedMsg:
		return v, notesChanged(v.state, msg)

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *notesView) children() []domain.Inode {
	t := v.watch.tree
	if v.dir == "" {
		return t.Resolve(t.Home)
	}
	return t.Resolve(t.Inodes[v.dir].InodePaths)
}

func (v *notesView) handleKey(msg tea.KeyMsg) tea.Cmd {
	notes := v.state.App.Notes
	switch {
	case key.Matches(msg, notesKeys.Up):
		v.cursor = max(v.cursor-1, 0)
	case key.Matches(msg, notesKeys.Down):
		v.cursor = min(v.cursor+1, max(len(v.entries)-1, 0))

	case key.Matches(msg, notesKeys.Open):
		n, ok := v.selected()
		if !ok {
			return nil
		}
		if n.Type == domain.InodeDir {
			return pushView(newNotesView(v.state, n.Path))
		}
		return pushView(newPinboardView(v.state, n.Path))

	case key.Matches(msg, notesKeys.AddBoard):
		dir := v.dir
		return inputFormCmd(v.state, "New pinboard", "", true, func(name string) tea.Cmd {
			return notesWriteCmd("Created pinboard", func(ctx context.Context) error {
				_, err := notes.AddPinboard(ctx, dir, name)
				return err
			})
		})

	case key.Matches(msg, notesKeys.AddDir):
		dir := v.dir
		return inputFormCmd(v.state, "New directory", "", true, func(name string) tea.Cmd {
			return notesWriteCmd("Created directory", func(ctx context.Context) error {
				_, err := notes.AddDirectory(ctx, dir, name)
				return err
			})
		})

	case key.Matches(msg, notesKeys.Rename):
		n, ok := v.selected()
		if !ok {
			return nil
		}
		return inputFormCmd(v.state, "Rename "+n.Name, n.Name, true, func(name string) tea.Cmd {
			return notesWriteCmd("Renamed", func(ctx context.Context) error {
				return notes.Rename(ctx, n.Path, name)
			})
		})

	case key.Matches(msg, notesKeys.Undo):
		return notesHistoryCmd("Undone", "Nothing to undo", notes.Undo)
	case key.Matches(msg, notesKeys.Redo):
		return notesHistoryCmd("Redone", "Nothing to redo", notes.Redo)
	}
	return nil
}

func (v *notesView) selected() (domain.Inode, bool) {
	if v.cursor < 0 || v.cursor >= len(v.entries) {
		return domain.Inode{}, false
	}
	return v.entries[v.cursor], true
}

func (v *notesView) View() string {
	if !v.watch.loaded {
		return formatter.Dim("Loading notes…")
	}
	var b strings.Builder
	b.WriteString(formatter.Header(v.Title()) + "\n")
	if len(v.entries) == 0 {
		b.WriteString(formatter.Dim("Empty. Press b for a pinboard or d for a directory."))
		return b.String()
	}
	for i, n := range v.entries {
		marker := "  "
		if i == v.cursor {
			marker = formatter.StyleHeader.Render("▸ ")
		}
		b.WriteString(marker + formatter.InodeLabel(n) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *notesView) ID() ViewID { return ViewNotes }

func (v *notesView) Title() string {
	if v.dir == "" {
		return "notes"
	}
	if n, ok := v.watch.tree.Inodes[v.dir]; ok {
		return n.Name
	}
	return "…"
}

func (v *notesView) ShortHelp() []key.Binding {
	k := notesKeys
	return []key.Binding{k.Up, k.Open, k.AddBoard, k.AddDir, k.Rename, k.Undo, k.Redo}
}
