// Package panes holds the four screen regions and the adapter that routes
// input to them according to their focus level.
//
// Panes never reach into each other or into the application. Anything that
// crosses a pane boundary is returned as a Command for the app to carry out.
package panes

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/sqli/internal/collection"
	"github.com/avitaltamir/sqli/internal/layout"
	"github.com/avitaltamir/sqli/internal/navigation"
)

// CommandKind identifies what a Command asks the app to do.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdQuit
	CmdRunQuery
	CmdSaveQuery
	CmdOpenFile
	CmdNewFile
	CmdEditFile
	CmdSelectConnection
	CmdStatus
	CmdSearch
	CmdReplace
)

var commandNames = map[CommandKind]string{
	CmdNone:             "none",
	CmdQuit:             "quit",
	CmdRunQuery:         "run-query",
	CmdSaveQuery:        "save-query",
	CmdOpenFile:         "open-file",
	CmdNewFile:          "new-file",
	CmdEditFile:         "edit-file",
	CmdSelectConnection: "select-connection",
	CmdStatus:           "status",
	CmdSearch:           "search",
	CmdReplace:          "replace",
}

func (k CommandKind) String() string {
	if s, ok := commandNames[k]; ok {
		return s
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// FileRef points at a collection folder, or at a file inside one when File
// is set.
type FileRef struct {
	Collection string
	File       string
	Scope      collection.Scope
}

// IsFolder reports whether r names a whole collection.
func (r FileRef) IsFolder() bool {
	return r.File == ""
}

// Name is the scope-relative path of r.
func (r FileRef) Name() string {
	if r.IsFolder() {
		return r.Collection
	}
	return r.Collection + "/" + r.File
}

// Command is the intent a pane hands back to the app.
type Command struct {
	Kind CommandKind

	// Ref is the target of CmdOpenFile and CmdEditFile, and the parent of
	// CmdNewFile when HasRef is set.
	Ref    FileRef
	HasRef bool

	// Connection is the selection for CmdSelectConnection.
	Connection string

	// Text and IsError carry CmdStatus messages.
	Text    string
	IsError bool
}

// None is the empty command.
func None() Command { return Command{} }

// Status builds an informational status command.
func Status(text string) Command { return Command{Kind: CmdStatus, Text: text} }

// Hint is one key/description pair shown in the footer.
type Hint struct {
	Key  string
	Desc string
}

// Pane is a screen region that takes input while it is the active pane.
type Pane interface {
	ID() navigation.PaneID
	// ElementCount is the number of sub-elements Tab cycles while editing.
	ElementCount() int
	// SetArea stores the screen rectangle used for drawing and clicks.
	SetArea(area layout.Rect)
	Area() layout.Rect

	HandleActiveKey(msg tea.KeyMsg, nav *navigation.Manager) (Command, error)
	HandleEditingKey(msg tea.KeyMsg, nav *navigation.Manager) (Command, error)
	// HandleClick handles a left press on a pane-specific region and
	// reports whether it did.
	HandleClick(msg tea.MouseMsg, info navigation.PaneInfo) (Command, bool)
	HandleScroll(delta int)

	Hints(focus navigation.FocusType) []Hint
	View(info navigation.PaneInfo) string
}

// ScrollStep is how many rows a wheel notch moves.
const ScrollStep = 3

// Dispatch routes input to panes according to their focus level.
type Dispatch struct {
	Nav *navigation.Manager
}

// HandleKey sends msg to the active-mode or editing-mode handler of p. An
// inactive pane ignores it.
func (d Dispatch) HandleKey(p Pane, msg tea.KeyMsg) (Command, error) {
	info, ok := d.Nav.PaneInfo(p.ID())
	if !ok {
		return None(), fmt.Errorf("%w: %s", navigation.ErrPaneNotRegistered, p.ID())
	}

	switch info.Focus {
	case navigation.Active:
		return p.HandleActiveKey(msg, d.Nav)
	case navigation.Editing:
		return p.HandleEditingKey(msg, d.Nav)
	default:
		return None(), nil
	}
}

// HandleMouse handles a mouse event that landed in p. Wheel events scroll.
// A left press goes to the pane's own regions first; otherwise it activates
// an inactive pane and promotes an active one to editing.
func (d Dispatch) HandleMouse(p Pane, msg tea.MouseMsg) (Command, error) {
	info, ok := d.Nav.PaneInfo(p.ID())
	if !ok {
		return None(), fmt.Errorf("%w: %s", navigation.ErrPaneNotRegistered, p.ID())
	}

	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			p.HandleScroll(-ScrollStep)
			return None(), nil
		case tea.MouseButtonWheelDown:
			p.HandleScroll(ScrollStep)
			return None(), nil
		}
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return None(), nil
	}

	if cmd, handled := p.HandleClick(msg, info); handled {
		if info.Focus == navigation.Inactive {
			if err := d.Nav.ActivatePane(p.ID()); err != nil {
				return None(), err
			}
		}
		return cmd, nil
	}

	switch info.Focus {
	case navigation.Inactive:
		return None(), d.Nav.ActivatePane(p.ID())
	case navigation.Active:
		return None(), d.Nav.StartEditing(p.ID())
	}
	return None(), nil
}
