package panes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/sqli/internal/editor"
	"github.com/avitaltamir/sqli/internal/layout"
	"github.com/avitaltamir/sqli/internal/navigation"
	"github.com/avitaltamir/sqli/internal/theme"
)

// Indent is inserted by Tab while editing.
const Indent = "    "

// Workspace is the query editor.
type Workspace struct {
	buf      *editor.Buffer
	file     FileRef
	hasFile  bool
	modified bool
	area     layout.Rect
}

// NewWorkspace creates an empty, untitled editor.
func NewWorkspace() *Workspace {
	return &Workspace{buf: editor.NewBuffer("")}
}

func (w *Workspace) ID() navigation.PaneID { return navigation.Workspace }

func (w *Workspace) ElementCount() int { return 1 }

func (w *Workspace) Area() layout.Rect { return w.area }

func (w *Workspace) SetArea(area layout.Rect) {
	w.area = area
	w.buf.EnsureVisible(w.textHeight())
}

// Buffer exposes the editor for search and replace.
func (w *Workspace) Buffer() *editor.Buffer {
	return w.buf
}

// Open loads content as the text of ref.
func (w *Workspace) Open(ref FileRef, content string) {
	w.buf = editor.NewBuffer(content)
	w.file, w.hasFile = ref, true
	w.modified = false
}

// File returns the open file.
func (w *Workspace) File() (FileRef, bool) {
	return w.file, w.hasFile
}

// SetFile changes which file the buffer belongs to, as after a rename.
func (w *Workspace) SetFile(ref FileRef) {
	w.file, w.hasFile = ref, true
}

// Close detaches the buffer from its file but keeps the text.
func (w *Workspace) Close() {
	w.file, w.hasFile = FileRef{}, false
}

// Modified reports unsaved changes.
func (w *Workspace) Modified() bool {
	return w.modified
}

// MarkSaved clears the modified flag.
func (w *Workspace) MarkSaved() {
	w.modified = false
}

// MarkModified sets the modified flag after an external edit such as a
// replace.
func (w *Workspace) MarkModified() {
	w.modified = true
}

// Query returns the editor text.
func (w *Workspace) Query() string {
	return w.buf.Content()
}

// Reveal scrolls so the cursor is on screen.
func (w *Workspace) Reveal() {
	w.buf.EnsureVisible(w.textHeight())
}

func (w *Workspace) textHeight() int {
	return max(w.area.Height-2, 1)
}

// HandleActiveKey handles keys while the workspace is active.
func (w *Workspace) HandleActiveKey(msg tea.KeyMsg, nav *navigation.Manager) (Command, error) {
	switch msg.String() {
	case "enter":
		return None(), nav.StartEditing(w.ID())
	case "up", "k":
		return None(), nav.ActivatePane(navigation.Header)
	case "left", "h":
		return None(), nav.ActivatePane(navigation.Collections)
	case "down", "j":
		return None(), nav.ActivatePane(navigation.Results)
	case "ctrl+s":
		return Command{Kind: CmdSaveQuery}, nil
	case "ctrl+@", "f5":
		return Command{Kind: CmdRunQuery}, nil
	case "ctrl+f":
		return Command{Kind: CmdSearch}, nil
	}
	return None(), nil
}

// HandleEditingKey forwards text input to the buffer.
func (w *Workspace) HandleEditingKey(msg tea.KeyMsg, nav *navigation.Manager) (Command, error) {
	switch msg.String() {
	case "esc":
		return None(), nav.StopEditing(w.ID())
	case "ctrl+s":
		return Command{Kind: CmdSaveQuery}, nil
	case "ctrl+@", "f5":
		return Command{Kind: CmdRunQuery}, nil
	case "ctrl+f":
		return Command{Kind: CmdSearch}, nil
	case "ctrl+r":
		return Command{Kind: CmdReplace}, nil
	}

	if w.edit(msg) {
		w.modified = true
	}
	w.buf.EnsureVisible(w.textHeight())
	return None(), nil
}

// edit applies one key to the buffer and reports whether the text changed.
func (w *Workspace) edit(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		w.buf.InsertString(string(msg.Runes))
		return true
	case tea.KeySpace:
		w.buf.InsertRune(' ')
		return true
	case tea.KeyTab:
		w.buf.InsertString(Indent)
		return true
	case tea.KeyEnter:
		w.buf.Newline()
		return true
	case tea.KeyBackspace:
		w.buf.Backspace()
		return true
	case tea.KeyDelete:
		w.buf.DeleteForward()
		return true
	case tea.KeyCtrlK:
		w.buf.DeleteLine()
		return true
	case tea.KeyLeft:
		w.buf.MoveLeft()
	case tea.KeyRight:
		w.buf.MoveRight()
	case tea.KeyUp:
		w.buf.MoveUp()
	case tea.KeyDown:
		w.buf.MoveDown()
	case tea.KeyHome, tea.KeyCtrlA:
		w.buf.Home()
	case tea.KeyEnd, tea.KeyCtrlE:
		w.buf.End()
	case tea.KeyCtrlHome:
		w.buf.Top()
	case tea.KeyCtrlEnd:
		w.buf.Bottom()
	case tea.KeyPgUp:
		for range w.textHeight() {
			w.buf.MoveUp()
		}
	case tea.KeyPgDown:
		for range w.textHeight() {
			w.buf.MoveDown()
		}
	}
	return false
}

// HandleClick moves the cursor while editing.
func (w *Workspace) HandleClick(msg tea.MouseMsg, info navigation.PaneInfo) (Command, bool) {
	if info.Focus != navigation.Editing {
		return None(), false
	}
	inner := w.area.Inner(1)
	if !inner.Contains(msg.X, msg.Y) {
		return None(), false
	}
	pos := w.buf.ScreenToPosition(msg.X-inner.X, msg.Y-inner.Y)
	w.buf.Jump(pos.Line, pos.Column)
	return None(), true
}

func (w *Workspace) HandleScroll(delta int) {
	w.buf.ScrollBy(delta)
}

// Hints lists the editor's keys for the footer.
func (w *Workspace) Hints(focus navigation.FocusType) []Hint {
	if focus == navigation.Editing {
		return []Hint{
			{Key: "^Space/F5", Desc: "run"},
			{Key: "^S", Desc: "save"},
			{Key: "^F", Desc: "find"},
			{Key: "^R", Desc: "replace"},
			{Key: "Esc", Desc: "done"},
		}
	}
	return []Hint{
		{Key: "Enter", Desc: "edit"},
		{Key: "F5", Desc: "run"},
		{Key: "^S", Desc: "save"},
		{Key: "←/↓", Desc: "move"},
	}
}

// Title is the panel title: the file name and a modified marker.
func (w *Workspace) Title() string {
	name := "untitled"
	if w.hasFile {
		name = w.file.Name()
	}
	if w.modified {
		name += " *"
	}
	return "WORKSPACE: " + name
}

// View renders the editor.
func (w *Workspace) View(info navigation.PaneInfo) string {
	if w.area.Empty() {
		return ""
	}
	inner := w.area.Inner(1)
	body := w.buf.Render(inner.Width, inner.Height, info.Focus == navigation.Editing)

	cur := w.buf.Cursor()
	opts := theme.PanelTitleOptions{
		Title:         w.Title(),
		Info:          posInfo(cur.Line+1, cur.Column+1),
		ScrollPercent: -1,
	}
	if p := w.buf.Pattern(); p != "" {
		opts.BottomHints = "/" + strings.TrimSpace(p)
	}
	return theme.RenderPanelWithTitle(body, opts, w.area.Width, w.area.Height, info.Focus)
}

func posInfo(line, col int) string {
	return fmt.Sprintf("Ln %d, Col %d", line, col)
}
