// Package ui is the interactive terminal viewer: a collapsible JSON tree
// with a search box, a raw pane and clipboard actions.
package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/go-logr/logr"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jvp/pkg/core"
	"github.com/oakwood-commons/jvp/pkg/tree"
)

// Mode selects the pane shown under the toolbar.
type Mode int

const (
	ModeTree Mode = iota
	ModeRaw
)

func (m Mode) String() string {
	if m == ModeRaw {
		return "Raw"
	}
	return "Tree"
}

const (
	defaultWidth       = 80
	defaultHeight      = 24
	defaultPlaceholder = "Search keys and values…"
	// toolbar, status and footer
	chromeLines = 3
)

// ReloadMsg carries a new body for the open document.
type ReloadMsg struct {
	Raw []byte
}

// WatchErrorMsg reports a failure of the file watcher.
type WatchErrorMsg struct {
	Err error
}

// Options configures a Model.
type Options struct {
	Placeholder   string
	StatusTimeout time.Duration
	NoColor       bool
	Theme         *Theme
	Width         int
	Height        int
	Query         string
	// Focus places the cursor on the node at this address, unfolding its
	// ancestors.
	Focus  string
	Logger logr.Logger
}

// Model is the Bubble Tea model of the viewer.
type Model struct {
	Session *core.Session
	Mode    Mode
	Search  textinput.Model
	Status  StatusModel
	NoColor bool
	Width   int
	Height  int

	rows      []row
	cursor    int
	offset    int
	rawLines  []string
	rawOffset int
	matches   []*tree.Node
	matchIdx  int
	styles    styles
	lgr       logr.Logger
}

// New creates a viewer for s.
func New(s *core.Session, opts Options) *Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = opts.Placeholder
	if ti.Placeholder == "" {
		ti.Placeholder = defaultPlaceholder
	}
	ti.CharLimit = 500

	th := CurrentTheme()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	status := NewStatusModel()
	if opts.StatusTimeout > 0 {
		status.Timeout = opts.StatusTimeout
	}
	m := &Model{
		Session:  s,
		Search:   ti,
		Status:   status,
		NoColor:  opts.NoColor,
		Width:    defaultWidth,
		Height:   defaultHeight,
		matchIdx: -1,
		styles:   newStyles(th, opts.NoColor),
		lgr:      opts.Logger,
	}
	m.resize(opts.Width, opts.Height)
	if q := strings.TrimSpace(opts.Query); q != "" {
		m.Search.SetValue(q)
		m.applySearch(q)
	}
	m.refresh("")
	if opts.Focus != "" {
		if n, ok := s.Find(opts.Focus); ok {
			tree.Reveal(n)
			m.refresh(n.Path)
		}
	}
	m.refreshRaw()
	return m
}

func (m *Model) resize(w, h int) {
	if w > 0 {
		m.Width = w
	}
	if h > 0 {
		m.Height = h
	}
	m.Status.Width = m.Width
	m.Search.SetWidth(max(10, m.Width/2))
	m.scrollIntoView()
}

func (m *Model) bodyHeight() int {
	return max(1, m.Height-chromeLines)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Selected returns the node under the cursor.
func (m *Model) Selected() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

// refresh rebuilds the rows and keeps the cursor on keep, or on the
// previously selected node when keep is empty.
func (m *Model) refresh(keep string) {
	if keep == "" {
		if sel := m.Selected(); sel != nil {
			keep = sel.Path
		}
	}
	m.rows = buildRows(m.Session.Root)
	if idx := rowIndex(m.rows, keep); idx >= 0 {
		m.cursor = idx
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollIntoView()
}

func (m *Model) refreshRaw() {
	pretty, err := m.Session.Pretty()
	if err != nil {
		m.rawLines = strings.Split(string(m.Session.Raw), "\n")
		return
	}
	m.rawLines = strings.Split(pretty, "\n")
	m.rawOffset = min(m.rawOffset, max(0, len(m.rawLines)-m.bodyHeight()))
}

func (m *Model) scrollIntoView() {
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor = max(0, min(len(m.rows)-1, m.cursor+delta))
	m.scrollIntoView()
}

func (m *Model) scrollRaw(delta int) {
	limit := max(0, len(m.rawLines)-m.bodyHeight())
	m.rawOffset = max(0, min(limit, m.rawOffset+delta))
}

func (m *Model) applySearch(q string) {
	count := m.Session.Search(q)
	m.matches = m.Session.Matches()
	m.matchIdx = -1
	if q != "" {
		m.lgr.V(1).Info("search", "query", m.Session.Query, "matches", count)
	}
}

// jumpMatch moves to the next (delta 1) or previous (delta -1) match.
func (m *Model) jumpMatch(delta int) tea.Cmd {
	if len(m.matches) == 0 {
		if m.Session.Query == "" {
			return nil
		}
		return m.Status.Set("No matches", StatusError)
	}
	n := len(m.matches)
	if m.matchIdx < 0 && delta < 0 {
		m.matchIdx = 0
	}
	m.matchIdx = ((m.matchIdx+delta)%n + n) % n
	target := m.matches[m.matchIdx]
	tree.Reveal(target)
	m.Mode = ModeTree
	m.refresh(target.Path)
	return nil
}

func (m *Model) copy(kind core.CopyKind) tea.Cmd {
	path := ""
	if sel := m.Selected(); sel != nil {
		path = sel.Path
	}
	text, err := m.Session.CopyPayload(path, kind)
	if err != nil {
		return m.Status.Set(err.Error(), StatusError)
	}
	if err := CopyToClipboard(text); err != nil {
		m.lgr.Error(err, "clipboard write failed")
		return m.Status.Set("Copy failed: "+err.Error(), StatusError)
	}
	switch kind {
	case core.CopyPath:
		return m.Status.Set("✓ Copied path "+text, StatusSuccess)
	case core.CopyValue:
		return m.Status.Set("✓ Copied value of "+path, StatusSuccess)
	default:
		return m.Status.Set("✓ Copied!", StatusSuccess)
	}
}

func (m *Model) openLink() tea.Cmd {
	sel := m.Selected()
	if sel == nil {
		return nil
	}
	url, ok := sel.URL()
	if !ok {
		return m.Status.Set("Not a link", StatusError)
	}
	if err := OpenURL(url); err != nil {
		return m.Status.Set("Open failed: "+err.Error(), StatusError)
	}
	return m.Status.Set("Opened "+url, StatusSuccess)
}

func (m *Model) reload(raw []byte) tea.Cmd {
	if err := m.Session.Reload(raw); err != nil {
		return m.Status.Set("Reload failed: "+err.Error(), StatusError)
	}
	m.matches = m.Session.Matches()
	m.matchIdx = -1
	m.refresh("")
	m.refreshRaw()
	return m.Status.Set("Reloaded", StatusSuccess)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case clearStatusMsg:
		m.Status = m.Status.Update(msg)
		return m, nil
	case ReloadMsg:
		return m, m.reload(msg.Raw)
	case WatchErrorMsg:
		return m, m.Status.Set("Watch: "+msg.Err.Error(), StatusError)
	case tea.KeyPressMsg:
		if m.Search.Focused() {
			return m, m.handleSearchKey(msg)
		}
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.Search.Blur()
		return nil
	case "enter":
		m.Search.Blur()
		m.matchIdx = -1
		return m.jumpMatch(1)
	}
	before := m.Search.Value()
	var cmd tea.Cmd
	m.Search, cmd = m.Search.Update(msg)
	if after := m.Search.Value(); after != before {
		m.applySearch(after)
		m.refresh("")
	}
	return cmd
}

func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "/":
		m.Mode = ModeTree
		return m.Search.Focus()
	case "esc":
		if m.Search.Value() != "" {
			m.Search.SetValue("")
			m.applySearch("")
			m.refresh("")
		}
		return nil
	case "r":
		if m.Mode == ModeTree {
			m.Mode = ModeRaw
		} else {
			m.Mode = ModeTree
		}
		return nil
	case "Y":
		return m.copy(core.CopyAll)
	}
	if m.Mode == ModeRaw {
		return m.handleRawKey(key)
	}
	return m.handleTreeKey(key)
}

func (m *Model) handleRawKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		m.scrollRaw(-1)
	case "down", "j":
		m.scrollRaw(1)
	case "pgup":
		m.scrollRaw(-m.bodyHeight())
	case "pgdown":
		m.scrollRaw(m.bodyHeight())
	case "g", "home":
		m.rawOffset = 0
	case "G", "end":
		m.scrollRaw(len(m.rawLines))
	}
	return nil
}

func (m *Model) handleTreeKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-m.bodyHeight())
	case "pgdown":
		m.moveCursor(m.bodyHeight())
	case "g", "home":
		m.moveCursor(-len(m.rows))
	case "G", "end":
		m.moveCursor(len(m.rows))
	case "enter", "space", " ":
		if sel := m.Selected(); sel != nil && sel.IsContainer() {
			tree.Toggle(sel)
			m.refresh(sel.Path)
		}
	case "left", "h":
		sel := m.Selected()
		if sel == nil {
			break
		}
		if sel.IsContainer() && !sel.Collapsed {
			tree.SetCollapsed(sel, true)
			m.refresh(sel.Path)
		} else if p := sel.Parent(); p != nil {
			m.refresh(p.Path)
		}
	case "right", "l":
		if sel := m.Selected(); sel != nil && sel.IsContainer() && sel.Collapsed {
			tree.SetCollapsed(sel, false)
			m.refresh(sel.Path)
		}
	case "E":
		m.Session.ExpandAll()
		m.refresh("")
	case "C":
		m.Session.CollapseAll()
		m.refresh(tree.RootPath)
	case "n":
		return m.jumpMatch(1)
	case "N":
		return m.jumpMatch(-1)
	case "y":
		return m.copy(core.CopyPath)
	case "c":
		return m.copy(core.CopyValue)
	case "o":
		return m.openLink()
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render draws the whole screen as a string.
func (m *Model) Render() string {
	lines := make([]string, 0, m.Height)
	lines = append(lines, m.toolbarView())
	lines = append(lines, m.bodyView()...)
	lines = append(lines, m.Status.view(m.styles))
	bindings := treeBindings
	switch {
	case m.Search.Focused():
		bindings = searchBindings
	case m.Mode == ModeRaw:
		bindings = rawBindings
	}
	lines = append(lines, footerView(bindings, m.Width, m.styles))
	return strings.Join(lines, "\n")
}

func (m *Model) toolbarView() string {
	parts := []string{m.Mode.String(), m.Session.SizeLabel()}
	if q := m.Session.Query; q != "" {
		parts = append(parts, matchLabel(len(m.matches), m.matchIdx))
	}
	right := strings.Join(parts, " │ ")
	left := ansi.Strip(m.Search.View())
	gap := m.Width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	line := ansi.Truncate(left+strings.Repeat(" ", gap)+right, m.Width, "…")
	return m.styles.toolbar.Render(line)
}

func matchLabel(count, idx int) string {
	switch {
	case count == 0:
		return "no matches"
	case idx >= 0:
		return fmt.Sprintf("%d/%d", idx+1, count)
	case count == 1:
		return "1 match"
	default:
		return fmt.Sprintf("%d matches", count)
	}
}

func (m *Model) bodyView() []string {
	h := m.bodyHeight()
	out := make([]string, 0, h)
	if m.Mode == ModeRaw {
		end := min(len(m.rawLines), m.rawOffset+h)
		for _, l := range m.rawLines[m.rawOffset:end] {
			out = append(out, ansi.Truncate(l, m.Width, "…"))
		}
	} else {
		end := min(len(m.rows), m.offset+h)
		for i := m.offset; i < end; i++ {
			out = append(out, m.rowView(i))
		}
	}
	for len(out) < h {
		out = append(out, "")
	}
	return out
}

func (m *Model) rowView(i int) string {
	r := m.rows[i]
	if i != m.cursor {
		return ansi.Truncate(renderRow(r, m.styles), m.Width, "…")
	}
	text := ansi.Truncate(plainRow(r), m.Width, "…")
	if pad := m.Width - runewidth.StringWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return m.styles.selected.Render(text)
}
