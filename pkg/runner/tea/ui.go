package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/google/uuid"

	"tableflip.dev/shelf/pkg/category"
	"tableflip.dev/shelf/pkg/session"
	"tableflip.dev/shelf/pkg/store"
)

// Model states and actions
type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeHelp
)

type action int

const (
	actionNone action = iota
	actionAddCategory
	actionAddSubcategory
	actionRename
	actionMove
)

// category row for the left list, flattened with indentation
type categoryRow struct {
	id    string
	name  string
	depth int
	tabs  int
}

func (c categoryRow) Title() string {
	label := strings.Repeat("  ", c.depth) + c.name
	if c.tabs > 0 {
		label += fmt.Sprintf(" [%d]", c.tabs)
	}
	return label
}
func (c categoryRow) Description() string { return "" }
func (c categoryRow) FilterValue() string { return c.name }

// item row for the right list
type itemRow struct{ r session.ResolvedItem }

func (it itemRow) Title() string {
	if it.r.PreviewIcon != "" {
		return it.r.PreviewIcon + " " + it.r.DisplayName
	}
	return it.r.DisplayName
}
func (it itemRow) Description() string { return "" }
func (it itemRow) FilterValue() string { return it.r.DisplayName }

// Model contains UI state
type Model struct {
	sess   *session.Session
	mode   mode
	action action

	focus int // 0: categories, 1: items

	catList  list.Model
	itemList list.Model

	input textinput.Model

	status string

	awaitingDD bool
	lastDTime  time.Time

	termWidth  int
	termHeight int

	focusDel list.DefaultDelegate
	blurDel  list.DefaultDelegate
}

// New creates a new UI model backed by an open session.
func New(sess *session.Session) Model {
	dFocus := list.NewDefaultDelegate()
	dBlur := list.NewDefaultDelegate()
	// Unfocused list should not visually highlight the selected item
	dBlur.Styles.SelectedTitle = dBlur.Styles.NormalTitle
	dBlur.Styles.SelectedDesc = dBlur.Styles.NormalDesc
	dFocus.ShowDescription = false
	dBlur.ShowDescription = false
	dFocus.SetSpacing(0)
	dBlur.SetSpacing(0)

	l1 := list.New([]list.Item{}, dFocus, 30, 20)
	l1.Title = "Categories"
	l1.SetShowHelp(false)
	l1.SetShowStatusBar(false)

	l2 := list.New([]list.Item{}, dBlur, 74, 20)
	l2.Title = "Items"
	l2.SetShowHelp(false)
	l2.SetShowStatusBar(false)

	ti := textinput.New()
	ti.Placeholder = "Type here"
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.Styles.Cursor.Color = lipgloss.Color("218")
	ti.Styles.Cursor.Shape = tea.CursorUnderline

	m := Model{
		sess:     sess,
		mode:     modeNormal,
		action:   actionNone,
		focus:    0,
		catList:  l1,
		itemList: l2,
		input:    ti,
		status:   "NORMAL: h/l panes, j/k move, tab cycle tab, a add, A add tab, i rename, > move, dd delete, S scope, ? help",
		focusDel: dFocus,
		blurDel:  dBlur,
	}
	m.updateFocusHeaders()
	return m
}

// Init loads initial data
func (m Model) Init() tea.Cmd {
	return m.refreshAll()
}

func (m *Model) refreshAll() tea.Cmd {
	return tea.Batch(m.loadCategories(), m.loadItems())
}

func (m *Model) loadCategories() tea.Cmd {
	return func() tea.Msg {
		tree := m.sess.Tree()
		rows := make([]list.Item, 0, 16)
		var flatten func(nodes []*category.Category, depth int)
		flatten = func(nodes []*category.Category, depth int) {
			for _, c := range nodes {
				rows = append(rows, categoryRow{id: c.ID, name: c.Name, depth: depth, tabs: len(c.SubCategories)})
				flatten(c.Children, depth+1)
			}
		}
		flatten(tree.Roots, 0)
		return categoriesLoadedMsg{rows}
	}
}

func (m *Model) selectedCategory() *categoryRow {
	if len(m.catList.Items()) == 0 {
		return nil
	}
	sel := m.catList.SelectedItem()
	if sel == nil {
		return nil
	}
	row, _ := sel.(categoryRow)
	return &row
}

// syncSelection pushes the cursor row into the session as the active category.
func (m *Model) syncSelection() {
	if row := m.selectedCategory(); row != nil {
		m.sess.SelectCategory(row.id)
	}
}

// viewTarget is the node whose items fill the right pane: the active tab when
// one is selected, otherwise the active category itself.
func (m *Model) viewTarget() string {
	if sub := m.sess.ActiveSubcategory(); sub != "" {
		return sub
	}
	return m.sess.ActiveCategory()
}

func (m *Model) loadItems() tea.Cmd {
	target := m.viewTarget()
	return func() tea.Msg {
		if target == "" {
			return itemsLoadedMsg{nil}
		}
		resolved, err := m.sess.Items(target)
		if err != nil {
			return errMsg{err}
		}
		rows := make([]list.Item, 0, len(resolved))
		for _, r := range resolved {
			rows = append(rows, itemRow{r: r})
		}
		return itemsLoadedMsg{rows}
	}
}

// messages
type errMsg struct{ err error }
type categoriesLoadedMsg struct{ rows []list.Item }
type itemsLoadedMsg struct{ rows []list.Item }

// refreshMsg arrives from the session redraw callback when a sibling saved or
// the shared file changed on disk.
type refreshMsg struct{}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	skipListRouting := false

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case errMsg:
		m.status = "ERR: " + msg.err.Error()
	case refreshMsg:
		cmds = append(cmds, m.refreshAll())
	case categoriesLoadedMsg:
		m.catList.SetItems(msg.rows)
		m.reselectActive()
	case itemsLoadedMsg:
		m.itemList.SetItems(msg.rows)
	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.mode = modeNormal
				skipListRouting = true
			}
		case modeInsert:
			switch msg.String() {
			case "enter":
				input := strings.TrimSpace(m.input.Value())
				m.applyInsert(&cmds, input)
				m.mode = modeNormal
				m.action = actionNone
				m.input.Reset()
				m.input.Blur()
				cmds = append(cmds, m.refreshAll())
				skipListRouting = true
			case "esc":
				m.mode = modeNormal
				m.action = actionNone
				m.input.Reset()
				m.input.Blur()
				m.status = "Cancelled"
				skipListRouting = true
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		case modeNormal:
			switch msg.String() {
			// pane focus
			case "h", "left":
				m.focus = 0
				m.updateFocusHeaders()
				skipListRouting = true
			case "l", "right":
				m.focus = 1
				m.updateFocusHeaders()
				skipListRouting = true

			// movement
			case "j", "down":
				if m.focus == 0 {
					m.catList.CursorDown()
					m.syncSelection()
					cmds = append(cmds, m.loadItems())
				} else {
					m.itemList.CursorDown()
				}
				skipListRouting = true
			case "k", "up":
				if m.focus == 0 {
					m.catList.CursorUp()
					m.syncSelection()
					cmds = append(cmds, m.loadItems())
				} else {
					m.itemList.CursorUp()
				}
				skipListRouting = true
			case "g":
				if m.focus == 0 {
					m.catList.Select(0)
					m.syncSelection()
					cmds = append(cmds, m.loadItems())
				} else {
					m.itemList.Select(0)
				}
				skipListRouting = true
			case "G":
				if m.focus == 0 {
					m.catList.Select(len(m.catList.Items()) - 1)
					m.syncSelection()
					cmds = append(cmds, m.loadItems())
				} else {
					m.itemList.Select(len(m.itemList.Items()) - 1)
				}
				skipListRouting = true

			// subcategory tab cycling
			case "tab":
				m.cycleSubcategory(&cmds, +1)
				skipListRouting = true
			case "shift+tab":
				m.cycleSubcategory(&cmds, -1)
				skipListRouting = true

			// add
			case "a":
				m.enterInsert(&cmds, actionAddCategory, "New category name", "")
			case "A":
				if m.sess.ActiveCategory() == "" {
					m.status = "Select a category first"
				} else {
					m.enterInsert(&cmds, actionAddSubcategory, "New tab name", "")
				}

			// rename
			case "i":
				if row := m.selectedCategory(); row != nil {
					m.enterInsert(&cmds, actionRename, "Rename category", row.name)
				}

			// move
			case ">":
				if m.selectedCategory() != nil {
					m.enterInsert(&cmds, actionMove, "Move under (empty = root)", "")
				}

			// delete: dd like vim
			case "d":
				if row := m.selectedCategory(); row != nil {
					if m.awaitingDD && time.Since(m.lastDTime) < 600*time.Millisecond {
						if err := m.sess.DeleteCategory(row.id); err != nil {
							cmds = append(cmds, func() tea.Msg { return errMsg{err} })
						} else {
							m.status = "Deleted " + row.name
							cmds = append(cmds, m.refreshAll())
						}
						m.awaitingDD = false
					} else {
						m.awaitingDD = true
						m.lastDTime = time.Now()
					}
				}
				skipListRouting = true

			// scope flip
			case "S":
				if err := m.sess.SwitchScope(); err != nil {
					cmds = append(cmds, func() tea.Msg { return errMsg{err} })
				} else {
					m.status = "Scope: " + string(m.sess.Scope())
					cmds = append(cmds, m.refreshAll())
				}
				skipListRouting = true

			case "?":
				m.mode = modeHelp
				skipListRouting = true
			case "r":
				cmds = append(cmds, m.refreshAll())
			case "q", "ctrl+c":
				cmds = append(cmds, tea.Quit)
				skipListRouting = true
			}
		}
	}

	// route lists updates depending on focus
	if m.mode == modeNormal && !skipListRouting {
		if m.focus == 0 {
			var cmd tea.Cmd
			m.catList, cmd = m.catList.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			var cmd tea.Cmd
			m.itemList, cmd = m.itemList.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) enterInsert(cmds *[]tea.Cmd, a action, placeholder, value string) {
	m.mode = modeInsert
	m.action = a
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	if cmd := m.input.Focus(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	*cmds = append(*cmds, textinput.Blink)
}

func (m *Model) applyInsert(cmds *[]tea.Cmd, input string) {
	switch m.action {
	case actionAddCategory:
		if input == "" {
			return
		}
		parent := ""
		if row := m.selectedCategory(); row != nil && m.focus == 0 {
			parent = row.id
		}
		if _, err := m.sess.AddCategory(parent, input); err != nil {
			*cmds = append(*cmds, func() tea.Msg { return errMsg{err} })
		} else {
			m.status = "Added " + input
		}
	case actionAddSubcategory:
		if input == "" {
			return
		}
		if _, err := m.sess.AddSubcategory(m.sess.ActiveCategory(), input); err != nil {
			*cmds = append(*cmds, func() tea.Msg { return errMsg{err} })
		} else {
			m.status = "Added tab " + input
		}
	case actionRename:
		row := m.selectedCategory()
		if row == nil {
			return
		}
		if err := m.sess.RenameCategory(row.id, input); err != nil {
			*cmds = append(*cmds, func() tea.Msg { return errMsg{err} })
		} else {
			m.status = "Renamed"
		}
	case actionMove:
		row := m.selectedCategory()
		if row == nil {
			return
		}
		parentID := ""
		if input != "" {
			tree := m.sess.Tree()
			target := tree.FindByID(input)
			if target == nil {
				target = tree.FindByName(input)
			}
			if target == nil {
				m.status = fmt.Sprintf("No category %q", input)
				return
			}
			parentID = target.ID
		}
		if err := m.sess.MoveCategory(row.id, parentID); err != nil {
			*cmds = append(*cmds, func() tea.Msg { return errMsg{err} })
		} else {
			m.status = "Moved"
		}
	}
}

// cycleSubcategory advances the active tab within the active category.
func (m *Model) cycleSubcategory(cmds *[]tea.Cmd, dir int) {
	cat := m.sess.Tree().FindByID(m.sess.ActiveCategory())
	if cat == nil || len(cat.SubCategories) == 0 {
		return
	}
	cur := m.sess.ActiveSubcategory()
	idx := 0
	for i, sub := range cat.SubCategories {
		if sub.ID == cur {
			idx = i + dir
			break
		}
	}
	n := len(cat.SubCategories)
	idx = ((idx % n) + n) % n
	if err := m.sess.SelectSubcategory(cat.SubCategories[idx].ID); err != nil {
		*cmds = append(*cmds, func() tea.Msg { return errMsg{err} })
		return
	}
	*cmds = append(*cmds, m.loadItems())
}

// reselectActive keeps the cursor on the session's active category after a
// reload rebuilt the rows.
func (m *Model) reselectActive() {
	active := m.sess.ActiveCategory()
	if active == "" {
		if len(m.catList.Items()) > 0 {
			m.catList.Select(0)
			m.syncSelection()
		}
		return
	}
	for i, it := range m.catList.Items() {
		if row, ok := it.(categoryRow); ok && row.id == active {
			m.catList.Select(i)
			return
		}
	}
}

// View renders two lists, the tab bar, and optional input/help overlays
func (m Model) View() string {
	left := m.catList.View()
	right := m.itemList.View()
	gap := lipgloss.NewStyle().Padding(0, 1).Render
	modeStr := map[mode]string{modeNormal: "NORMAL", modeInsert: "INSERT", modeHelp: "HELP"}[m.mode]
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(
		fmt.Sprintf("[%s] (%s) %s", modeStr, m.sess.Scope(), m.status))

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, gap(" "), right)

	if bar := m.tabBar(); bar != "" {
		body += "\n" + bar
	}

	if m.mode == modeInsert {
		prompt := ""
		switch m.action {
		case actionAddCategory:
			prompt = "Add: "
		case actionAddSubcategory:
			prompt = "Add tab: "
		case actionRename:
			prompt = "Rename: "
		case actionMove:
			prompt = "Move to: "
		}
		body += "\n\n" + prompt + m.input.View()
	}
	if m.mode == modeHelp {
		help := "Keys: ←/→ switch panes, ↑/↓ move, g/G top/bottom, tab cycle subcategory, a add, A add tab, i rename, > move, dd delete, S switch scope, r refresh, q quit"
		body += "\n\n" + lipgloss.NewStyle().Italic(true).Render(help)
	}

	return body + "\n\n" + status
}

// tabBar renders the active category's subcategories with the active tab
// highlighted.
func (m Model) tabBar() string {
	cat := m.sess.Tree().FindByID(m.sess.ActiveCategory())
	if cat == nil || len(cat.SubCategories) == 0 {
		return ""
	}
	active := m.sess.ActiveSubcategory()
	on := lipgloss.NewStyle().Bold(true).Underline(true)
	off := lipgloss.NewStyle().Faint(true)
	parts := make([]string, 0, len(cat.SubCategories))
	for _, sub := range cat.SubCategories {
		if sub.ID == active {
			parts = append(parts, on.Render(sub.Name))
		} else {
			parts = append(parts, off.Render(sub.Name))
		}
	}
	return " " + strings.Join(parts, " | ")
}

// Run opens a live session over the store, starts the shared-file watcher,
// and runs the program until quit.
func Run(st store.Store, scope store.Scope, mode store.Mode) error {
	broker := session.NewBroker(st.Guard())
	sess := session.New("ui-"+uuid.NewString(), st, broker, scope, mode)
	if err := sess.Start(); err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := broker.RunWatch(ctx, st); err != nil {
		return err
	}

	p := tea.NewProgram(New(sess), tea.WithAltScreen())
	sess.OnRedraw(func() { p.Send(refreshMsg{}) })
	_, err := p.Run()
	return err
}

// applySizes recalculates list sizes based on current terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	// Allocate ~1/3 for categories with sensible bounds.
	left := m.termWidth / 3
	if left < 24 {
		left = 24
	}
	if left > 44 {
		left = 44
	}
	// Space for gap and borders
	right := m.termWidth - left - 4
	if right < 20 {
		right = 20
	}
	// Leave room for tab bar and status/footer lines
	height := m.termHeight - 5
	if height < 5 {
		height = 5
	}
	m.catList.SetSize(left, height)
	m.itemList.SetSize(right, height)
}

// updateFocusHeaders updates pane titles to reflect which pane is focused.
func (m *Model) updateFocusHeaders() {
	// Fixed-width 2-char prefix to avoid layout shift when focus changes.
	const on = "» "
	const off = "  "
	if m.focus == 0 {
		m.catList.Title = on + "Categories"
		m.itemList.Title = off + "Items"
		m.catList.SetDelegate(m.focusDel)
		m.itemList.SetDelegate(m.blurDel)
	} else {
		m.catList.Title = off + "Categories"
		m.itemList.Title = on + "Items"
		m.catList.SetDelegate(m.blurDel)
		m.itemList.SetDelegate(m.focusDel)
	}
}
