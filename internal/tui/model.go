// Package tui is the interactive view over a state.Store. Every action runs
// as a tea.Cmd and reports back with a storeUpdatedMsg; the view always
// renders from the store.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoclient/internal/model"
	"github.com/idilsaglam/todoclient/internal/router"
	"github.com/idilsaglam/todoclient/internal/state"
)

const (
	fieldTitle = iota
	fieldDetail
)

var fieldNames = [...]string{fieldTitle: "title", fieldDetail: "detail"}

// storeUpdatedMsg reports that an action finished.
type storeUpdatedMsg struct {
	op string
	// editorOpen is set when a submit left a draft behind (local
	// validation failed), so the editor stays up.
	editorOpen bool
}

type todoItem struct{ todo model.Todo }

func (i todoItem) Title() string       { return i.todo.Title }
func (i todoItem) Description() string { return i.todo.Detail }
func (i todoItem) FilterValue() string { return i.todo.Title }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	title := it.todo.Title
	if it.todo.Completed {
		box = successStyle.Render(boxChecked)
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s %s", box, title)
	if it.todo.Detail != "" {
		line += "  " + mutedStyle.Render(it.todo.Detail)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	store  *state.Store
	router *router.Router
	keys   keyMap

	list list.Model

	editing bool
	inputs  [2]textinput.Model
	focus   int

	busy   int
	width  int
	height int
}

// New returns a model over store, routed to "/".
func New(ctx context.Context, store *state.Store) Model {
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = keys.browseHelp
	l.AdditionalFullHelpKeys = keys.browseHelp

	m := Model{
		ctx:    ctx,
		store:  store,
		router: router.New(store),
		keys:   keys,
		list:   l,
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-7s", fieldNames[i]+":")
		ti.CharLimit = 200
		m.inputs[i] = ti
	}
	m.inputs[fieldTitle].Placeholder = "What needs doing?"
	m.inputs[fieldDetail].Placeholder = "Details"
	m.router.Navigate("/")
	m.syncList()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, store *state.Store, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, store), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case storeUpdatedMsg:
		if m.busy > 0 {
			m.busy--
		}
		if msg.op == "submit" && !msg.editorOpen {
			m.closeEditor()
		}
		m.syncList()
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.handleEditorKey(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.editing {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.All):
		return m.navigate("/"), nil
	case key.Matches(msg, m.keys.Incomplete):
		return m.navigate("/incomplete"), nil
	case key.Matches(msg, m.keys.Completed):
		return m.navigate("/completed"), nil
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.fetch()
		return m, cmd
	case key.Matches(msg, m.keys.Add):
		m.store.InitTargetTodo()
		m.openEditor()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Edit):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.store.ShowEditor(todo)
		m.openEditor()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Toggle):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		cmd := m.run(func(ctx context.Context, store *state.Store) storeUpdatedMsg {
			store.ToggleCompleted(ctx, todo)
			return storeUpdatedMsg{op: "toggle"}
		})
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		cmd := m.run(func(ctx context.Context, store *state.Store) storeUpdatedMsg {
			if store.DeleteTodo(ctx, todo.ID) {
				store.FetchTodos(ctx)
			}
			return storeUpdatedMsg{op: "delete"}
		})
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.store.InitTargetTodo()
		m.closeEditor()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()
	case key.Matches(msg, m.keys.Submit):
		isNew := m.store.TargetTodo().IsNew()
		cmd := m.run(func(ctx context.Context, store *state.Store) storeUpdatedMsg {
			if isNew {
				store.CreateTodo(ctx)
			} else {
				_ = store.SubmitEdit(ctx)
			}
			return storeUpdatedMsg{op: "submit", editorOpen: !blank(store.TargetTodo())}
		})
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	_ = m.store.UpdateTargetTodo(fieldNames[m.focus], m.inputs[m.focus].Value())
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	if len(m.list.Items()) == 0 {
		b.WriteString(mutedStyle.Render(m.store.EmptyMessage()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.list.View())
	}

	if m.editing {
		title := "New todo"
		if !m.store.TargetTodo().IsNew() {
			title = "Edit todo"
		}
		form := titleStyle.Render(title) + "\n" +
			m.inputs[fieldTitle].View() + "\n" +
			m.inputs[fieldDetail].View() + "\n" +
			helpStyle.Render("enter save • tab switch field • esc cancel")
		b.WriteString("\n")
		b.WriteString(frameStyle.Render(form))
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return frameStyle.Render(b.String())
}

func (m Model) tabs() string {
	current := m.router.Current()
	parts := []string{titleStyle.Render("Todos")}
	for i, r := range router.Routes {
		label := fmt.Sprintf("%d %s", i+1, r.Label)
		if r.Path == current {
			parts = append(parts, activeTab.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) footer() string {
	snap := m.store.Snapshot()
	line := fmt.Sprintf("%s %d incomplete  %s %d completed",
		pendingStyle.Render("•"), state.IncompleteCount(snap.Todos),
		successStyle.Render("✔"), state.CompletedCount(snap.Todos))
	if m.busy > 0 {
		line += "  " + accentStyle.Render("working…")
	}
	if snap.ErrorMessage != "" {
		line += "\n" + errorStyle.Render(snap.ErrorMessage)
	}
	return line
}

func (m Model) navigate(path string) Model {
	m.router.Navigate(path)
	m.syncList()
	return m
}

// run wraps an action as a command and counts it as in flight.
func (m *Model) run(fn func(ctx context.Context, store *state.Store) storeUpdatedMsg) tea.Cmd {
	m.busy++
	ctx, store := m.ctx, m.store
	return func() tea.Msg { return fn(ctx, store) }
}

func (m *Model) fetch() tea.Cmd {
	return m.run(func(ctx context.Context, store *state.Store) storeUpdatedMsg {
		store.FetchTodos(ctx)
		return storeUpdatedMsg{op: "fetch"}
	})
}

func (m *Model) syncList() {
	visible := m.store.VisibleTodos()
	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = todoItem{todo: t}
	}
	m.list.SetItems(items)
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(todoItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

func (m *Model) openEditor() {
	draft := m.store.TargetTodo()
	m.editing = true
	m.focus = fieldTitle
	m.inputs[fieldTitle].SetValue(draft.Title)
	m.inputs[fieldDetail].SetValue(draft.Detail)
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}
	m.inputs[fieldDetail].Blur()
	m.inputs[fieldTitle].Focus()
	m.resize()
}

func (m *Model) closeEditor() {
	m.editing = false
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].SetValue("")
	}
	m.resize()
}

func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	h := m.height - 8
	if m.editing {
		h -= 6
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func blank(d model.Draft) bool {
	return d.ID == nil && d.Title == "" && d.Detail == ""
}
