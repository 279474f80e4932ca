package panes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/avitaltamir/sqli/internal/collection"
	"github.com/avitaltamir/sqli/internal/layout"
	"github.com/avitaltamir/sqli/internal/navigation"
	"github.com/avitaltamir/sqli/internal/theme"
)

// TreeKeyMap defines the key bindings for the collections tree.
type TreeKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
	Select   key.Binding
	Filter   key.Binding
	NewFile  key.Binding
	EditFile key.Binding
}

// DefaultTreeKeyMap returns the default key bindings.
func DefaultTreeKeyMap() TreeKeyMap {
	return TreeKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Left:     key.NewBinding(key.WithKeys("left", "h")),
		Right:    key.NewBinding(key.WithKeys("right", "l")),
		Home:     key.NewBinding(key.WithKeys("home", "g")),
		End:      key.NewBinding(key.WithKeys("end", "G")),
		Select:   key.NewBinding(key.WithKeys("enter", " ")),
		Filter:   key.NewBinding(key.WithKeys("/")),
		NewFile:  key.NewBinding(key.WithKeys("ctrl+n")),
		EditFile: key.NewBinding(key.WithKeys("ctrl+e")),
	}
}

// treeRow is one visible line of the tree.
type treeRow struct {
	ref      FileRef
	expanded bool
}

func (r treeRow) key() string {
	return r.ref.Scope.String() + ":" + r.ref.Name()
}

// Collections is the tree of saved query files.
type Collections struct {
	cols     []collection.Collection
	expanded map[string]bool
	visible  []treeRow
	cursor   int
	offset   int

	filtering   bool
	filterInput textinput.Model
	query       string

	keys TreeKeyMap
	area layout.Rect
}

// NewCollections creates an empty tree.
func NewCollections() *Collections {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter..."
	ti.CharLimit = 100

	return &Collections{
		expanded:    make(map[string]bool),
		filterInput: ti,
		keys:        DefaultTreeKeyMap(),
	}
}

func (c *Collections) ID() navigation.PaneID { return navigation.Collections }

func (c *Collections) ElementCount() int { return 1 }

func (c *Collections) Area() layout.Rect { return c.area }

func (c *Collections) SetArea(area layout.Rect) {
	c.area = area
	c.filterInput.Width = max(area.Width-4, 1)
	c.ensureVisible()
}

// SetCollections replaces the tree contents, keeping expansion state and
// the selected row where possible.
func (c *Collections) SetCollections(cols []collection.Collection) {
	var selected string
	if row, ok := c.selectedRow(); ok {
		selected = row.key()
	}

	c.cols = cols
	c.rebuild()

	for i, row := range c.visible {
		if row.key() == selected {
			c.cursor = i
			break
		}
	}
	c.clampCursor()
}

// Selected returns the item under the cursor.
func (c *Collections) Selected() (FileRef, bool) {
	row, ok := c.selectedRow()
	return row.ref, ok
}

// Select moves the cursor to ref, expanding its folder.
func (c *Collections) Select(ref FileRef) {
	c.expanded[treeRow{ref: FileRef{Collection: ref.Collection, Scope: ref.Scope}}.key()] = true
	c.rebuild()
	for i, row := range c.visible {
		if row.ref == ref {
			c.cursor = i
			c.ensureVisible()
			return
		}
	}
}

// Filter returns the active fuzzy filter.
func (c *Collections) Filter() string {
	return c.query
}

// Filtering reports whether the filter prompt has the keyboard.
func (c *Collections) Filtering() bool {
	return c.filtering
}

// VisibleNames returns the scope-relative names of the visible rows.
func (c *Collections) VisibleNames() []string {
	names := make([]string, len(c.visible))
	for i, row := range c.visible {
		names[i] = row.ref.Name()
	}
	return names
}

func (c *Collections) selectedRow() (treeRow, bool) {
	if c.cursor < 0 || c.cursor >= len(c.visible) {
		return treeRow{}, false
	}
	return c.visible[c.cursor], true
}

// rebuild flattens the collections into visible rows. With a filter, only
// fuzzy matches and the folders holding them are shown, all expanded.
func (c *Collections) rebuild() {
	c.visible = c.visible[:0]

	if c.query == "" {
		for _, col := range c.cols {
			folder := treeRow{ref: FileRef{Collection: col.Name, Scope: col.Scope}}
			folder.expanded = c.expanded[folder.key()]
			c.visible = append(c.visible, folder)
			if !folder.expanded {
				continue
			}
			for _, f := range col.Files {
				c.visible = append(c.visible, treeRow{ref: FileRef{Collection: col.Name, File: f, Scope: col.Scope}})
			}
		}
		c.clampCursor()
		return
	}

	var (
		candidates []string
		refs       []FileRef
	)
	for _, col := range c.cols {
		candidates = append(candidates, col.Name)
		refs = append(refs, FileRef{Collection: col.Name, Scope: col.Scope})
		for _, f := range col.Files {
			candidates = append(candidates, col.Name+"/"+f)
			refs = append(refs, FileRef{Collection: col.Name, File: f, Scope: col.Scope})
		}
	}

	matched := make(map[int]bool)
	for _, m := range fuzzy.Find(c.query, candidates) {
		matched[m.Index] = true
	}

	folderIdx := -1
	for i, ref := range refs {
		if ref.IsFolder() {
			folderIdx = i
			continue
		}
		if !matched[i] {
			continue
		}
		// Emit the folder once, before its first matching file.
		if folderIdx >= 0 {
			c.visible = append(c.visible, treeRow{ref: refs[folderIdx], expanded: true})
			matched[folderIdx] = false
			folderIdx = -1
		}
		c.visible = append(c.visible, treeRow{ref: ref})
	}
	// Folders that matched by name without any matching file.
	for i, ref := range refs {
		if ref.IsFolder() && matched[i] && !c.hasRow(ref) {
			c.visible = append(c.visible, treeRow{ref: ref, expanded: true})
		}
	}
	c.clampCursor()
}

func (c *Collections) hasRow(ref FileRef) bool {
	for _, row := range c.visible {
		if row.ref == ref {
			return true
		}
	}
	return false
}

func (c *Collections) clampCursor() {
	if c.cursor >= len(c.visible) {
		c.cursor = len(c.visible) - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
	c.ensureVisible()
}

func (c *Collections) listHeight() int {
	h := c.area.Height - 2
	if c.filtering || c.query != "" {
		h--
	}
	return max(h, 1)
}

func (c *Collections) ensureVisible() {
	h := c.listHeight()
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+h {
		c.offset = c.cursor - h + 1
	}
	c.offset = max(c.offset, 0)
}

func (c *Collections) moveCursor(delta int) {
	c.cursor += delta
	c.clampCursor()
}

// activate opens a file or toggles a folder.
func (c *Collections) activate() Command {
	row, ok := c.selectedRow()
	if !ok {
		return None()
	}
	if row.ref.IsFolder() {
		if c.query != "" {
			return None()
		}
		c.expanded[row.key()] = !row.expanded
		c.rebuild()
		return None()
	}
	return Command{Kind: CmdOpenFile, Ref: row.ref, HasRef: true}
}

func (c *Collections) newFileCommand() Command {
	row, ok := c.selectedRow()
	if !ok {
		return Command{Kind: CmdNewFile}
	}
	parent := FileRef{Collection: row.ref.Collection, Scope: row.ref.Scope}
	// A file or an expanded folder means "inside this collection".
	if !row.ref.IsFolder() || row.expanded {
		return Command{Kind: CmdNewFile, Ref: parent, HasRef: true}
	}
	return Command{Kind: CmdNewFile}
}

func (c *Collections) editFileCommand() Command {
	row, ok := c.selectedRow()
	if !ok {
		return Status("Nothing selected")
	}
	return Command{Kind: CmdEditFile, Ref: row.ref, HasRef: true}
}

// HandleActiveKey handles keys while the tree is active.
func (c *Collections) HandleActiveKey(msg tea.KeyMsg, nav *navigation.Manager) (Command, error) {
	switch {
	case msg.String() == "enter":
		return None(), nav.StartEditing(c.ID())
	case key.Matches(msg, c.keys.Up):
		return None(), nav.ActivatePane(navigation.Header)
	case key.Matches(msg, c.keys.Right):
		return None(), nav.ActivatePane(navigation.Workspace)
	case key.Matches(msg, c.keys.NewFile):
		return c.newFileCommand(), nil
	case key.Matches(msg, c.keys.EditFile):
		return c.editFileCommand(), nil
	}
	return None(), nil
}

// HandleEditingKey handles keys while the tree is editing.
func (c *Collections) HandleEditingKey(msg tea.KeyMsg, nav *navigation.Manager) (Command, error) {
	if c.filtering {
		return c.handleFilterKey(msg), nil
	}

	switch {
	case msg.String() == "esc":
		if c.query != "" {
			c.query = ""
			c.rebuild()
			return None(), nil
		}
		return None(), nav.StopEditing(c.ID())
	case key.Matches(msg, c.keys.Filter):
		c.filtering = true
		c.filterInput.SetValue(c.query)
		c.filterInput.CursorEnd()
		c.filterInput.Focus()
		c.ensureVisible()
	case key.Matches(msg, c.keys.Up):
		c.moveCursor(-1)
	case key.Matches(msg, c.keys.Down):
		c.moveCursor(1)
	case key.Matches(msg, c.keys.Home):
		c.cursor = 0
		c.clampCursor()
	case key.Matches(msg, c.keys.End):
		c.cursor = len(c.visible) - 1
		c.clampCursor()
	case key.Matches(msg, c.keys.Select):
		return c.activate(), nil
	case key.Matches(msg, c.keys.Right):
		if row, ok := c.selectedRow(); ok && row.ref.IsFolder() && !row.expanded {
			return c.activate(), nil
		}
	case key.Matches(msg, c.keys.Left):
		c.collapseOrParent()
	case key.Matches(msg, c.keys.NewFile):
		return c.newFileCommand(), nil
	case key.Matches(msg, c.keys.EditFile):
		return c.editFileCommand(), nil
	}
	return None(), nil
}

func (c *Collections) collapseOrParent() {
	row, ok := c.selectedRow()
	if !ok || c.query != "" {
		return
	}
	if row.ref.IsFolder() {
		if row.expanded {
			c.expanded[row.key()] = false
			c.rebuild()
		}
		return
	}
	for i := c.cursor; i >= 0; i-- {
		if c.visible[i].ref.IsFolder() {
			c.cursor = i
			c.ensureVisible()
			return
		}
	}
}

func (c *Collections) handleFilterKey(msg tea.KeyMsg) Command {
	switch msg.String() {
	case "enter":
		c.filtering = false
		c.filterInput.Blur()
		c.cursor, c.offset = 0, 0
		c.ensureVisible()
		if c.query != "" {
			return Status(fmt.Sprintf("%d matches", len(c.visible)))
		}
		return None()
	case "esc":
		c.filtering = false
		c.filterInput.Blur()
		c.query = ""
		c.rebuild()
		return None()
	}

	c.filterInput, _ = c.filterInput.Update(msg)
	c.query = c.filterInput.Value()
	c.rebuild()
	return None()
}

// HandleClick selects the clicked row, opening files and toggling folders.
func (c *Collections) HandleClick(msg tea.MouseMsg, info navigation.PaneInfo) (Command, bool) {
	inner := c.area.Inner(1)
	if !inner.Contains(msg.X, msg.Y) {
		return None(), false
	}
	idx := c.offset + msg.Y - inner.Y
	if idx < 0 || idx >= len(c.visible) || msg.Y-inner.Y >= c.listHeight() {
		return None(), false
	}
	c.cursor = idx
	return c.activate(), true
}

func (c *Collections) HandleScroll(delta int) {
	c.moveCursor(delta)
}

// Hints lists the tree's keys for the footer.
func (c *Collections) Hints(focus navigation.FocusType) []Hint {
	switch {
	case c.filtering:
		return []Hint{{Key: "Enter", Desc: "apply"}, {Key: "Esc", Desc: "clear"}}
	case focus == navigation.Editing:
		return []Hint{
			{Key: "↑/↓", Desc: "move"},
			{Key: "Enter", Desc: "open"},
			{Key: "/", Desc: "filter"},
			{Key: "^N", Desc: "new"},
			{Key: "^E", Desc: "edit"},
			{Key: "Esc", Desc: "done"},
		}
	default:
		return []Hint{
			{Key: "Enter", Desc: "browse"},
			{Key: "^N", Desc: "new"},
			{Key: "^E", Desc: "edit"},
			{Key: "→", Desc: "workspace"},
		}
	}
}

// View renders the tree.
func (c *Collections) View(info navigation.PaneInfo) string {
	if c.area.Empty() {
		return ""
	}

	h := c.listHeight()
	lines := make([]string, 0, h+1)
	if len(c.visible) == 0 {
		msg := "No collections. ^N to create one."
		if c.query != "" {
			msg = "No matches."
		}
		lines = append(lines, theme.TextMutedStyle.Render(msg))
	}

	end := min(c.offset+h, len(c.visible))
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderRow(c.visible[i], i == c.cursor, info.Focus))
	}

	if c.filtering || c.query != "" {
		for len(lines) < h {
			lines = append(lines, "")
		}
		if c.filtering {
			lines = append(lines, c.filterInput.View())
		} else {
			lines = append(lines, theme.TreeFilterPrompt.Render("/"+c.query))
		}
	}

	scroll := -1.0
	if len(c.visible) > h {
		scroll = float64(c.offset) / float64(len(c.visible)-h) * 100
	}

	opts := theme.PanelTitleOptions{
		Title:         "COLLECTIONS",
		ScrollPercent: scroll,
	}
	return theme.RenderPanelWithTitle(strings.Join(lines, "\n"), opts, c.area.Width, c.area.Height, info.Focus)
}

func (c *Collections) renderRow(row treeRow, selected bool, focus navigation.FocusType) string {
	var text string
	var style lipgloss.Style
	if row.ref.IsFolder() {
		icon := theme.IconFolderCollapsed
		if row.expanded {
			icon = theme.IconFolderExpanded
		}
		scope := theme.IconLocalScope
		if row.ref.Scope == collection.ScopeUser {
			scope = theme.IconUserScope
		}
		text = icon + " " + scope + " " + row.ref.Collection
		style = theme.TreeFolder
	} else {
		text = "    " + theme.IconQuery + " " + row.ref.File
		style = theme.TreeFile
	}

	if selected {
		switch focus {
		case navigation.Inactive:
			style = theme.TreeSelectedDim
		default:
			style = theme.TreeSelected
		}
	}
	return style.Render(text)
}
