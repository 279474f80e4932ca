package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/sqli/internal/collection"
	"github.com/avitaltamir/sqli/internal/layout"
	"github.com/avitaltamir/sqli/internal/theme"
)

type element int

const (
	elName element = iota
	elType
	elScope
	elCancel
	elSubmit
	elDelete
)

// Content rows shared by the file modals.
const (
	rowNameLabel = 0
	rowName      = 1
	rowFirstOpt  = 3
	rowSecondOpt = 4

	optLabelWidth = 8
)

var (
	typeOptions = []RadioOption{
		{Label: "File", Value: "file"},
		{Label: "Folder", Value: "folder"},
	}
	scopeOptions = []RadioOption{
		{Label: "Local", Value: collection.ScopeLocal.String()},
		{Label: "User", Value: collection.ScopeUser.String()},
	}
)

// NewFileValues are the fields of a submitted NewFileModal.
type NewFileValues struct {
	Name         string
	IsFolder     bool
	Scope        collection.Scope
	ParentFolder string
}

// NewFileModal creates a file or folder.
type NewFileModal struct {
	dialog   *Dialog
	name     textinput.Model
	kind     *RadioGroup
	scope    *RadioGroup
	parent   NewFileType
	elements []element
	focused  int
}

// NewNewFileModal creates the modal. With a parent folder only the name is
// asked for.
func NewNewFileModal(t NewFileType) *NewFileModal {
	m := &NewFileModal{
		dialog: NewDialog("New File/Folder", 50, 40,
			Button{ID: ButtonCancel, Label: "Cancel"},
			Button{ID: ButtonSubmit, Label: "Create"},
		),
		name:   newTextInput("", false),
		kind:   NewRadioGroup(typeOptions...),
		scope:  NewRadioGroup(scopeOptions...),
		parent: t,
	}
	if t.HasParent {
		m.dialog.Title = "New File in " + t.ParentFolder
		m.elements = []element{elName, elCancel, elSubmit}
	} else {
		m.elements = []element{elName, elType, elScope, elCancel, elSubmit}
	}
	return m
}

func (*NewFileModal) sealed() {}

// Dialog returns the frame.
func (m *NewFileModal) Dialog() *Dialog { return m.dialog }

// SetArea lays the modal out inside area.
func (m *NewFileModal) SetArea(area layout.Rect) {
	m.dialog.SetArea(area)
	m.name.Width = max(m.dialog.ContentRect().Width-inputChrome, 1)
}

// ElementCount returns how many elements Tab cycles through.
func (m *NewFileModal) ElementCount() int {
	return len(m.elements)
}

// Focused returns the index of the focused element.
func (m *NewFileModal) Focused() int {
	return m.focused
}

// Values returns the entered fields. With a parent folder the result is
// always a file in the parent's scope.
func (m *NewFileModal) Values() NewFileValues {
	v := NewFileValues{
		Name:     strings.TrimSpace(m.name.Value()),
		IsFolder: m.kind.Value() == "folder",
		Scope:    scopeFromValue(m.scope.Value()),
	}
	if m.parent.HasParent {
		v.IsFolder = false
		v.Scope = m.parent.ParentScope
		v.ParentFolder = m.parent.ParentFolder
	}
	return v
}

func (m *NewFileModal) setFocus(i int) {
	m.focused = i
	el := m.elements[i]
	if el == elName {
		m.name.Focus()
	} else {
		m.name.Blur()
	}
	m.dialog.FocusedButton = -1
	if el == elCancel || el == elSubmit {
		m.dialog.FocusedButton = m.dialog.ButtonIndex(buttonFor(el))
	}
}

// HandleKey processes one key.
func (m *NewFileModal) HandleKey(msg tea.KeyMsg) (Action, error) {
	switch msg.Type {
	case tea.KeyEsc:
		return Close(), nil
	case tea.KeyEnter:
		if el := m.elements[m.focused]; el == elCancel {
			return Custom(ButtonCancel), nil
		}
		return Custom(ButtonSubmit), nil
	case tea.KeyTab:
		m.setFocus((m.focused + 1) % len(m.elements))
		return None(), nil
	case tea.KeyShiftTab:
		m.setFocus((m.focused - 1 + len(m.elements)) % len(m.elements))
		return None(), nil
	}

	switch m.elements[m.focused] {
	case elName:
		m.name, _ = m.name.Update(msg)
	case elType:
		m.kind.HandleKey(msg)
	case elScope:
		m.scope.HandleKey(msg)
	}
	return None(), nil
}

// HandleMouse processes one mouse event.
func (m *NewFileModal) HandleMouse(msg tea.MouseMsg) (Action, error) {
	action, ok := m.dialog.HitTest(msg)
	if ok {
		if action.Kind == ActionCustom {
			m.focusElement(elementFor(action.Button))
		}
		return action, nil
	}

	c := m.dialog.ContentRect()
	row, col := msg.Y-c.Y, msg.X-c.X-optLabelWidth
	switch {
	case row == rowName:
		m.focusElement(elName)
	case row == rowFirstOpt && !m.parent.HasParent:
		m.focusElement(elType)
		m.kind.HandleClick(col)
	case row == rowSecondOpt && !m.parent.HasParent:
		m.focusElement(elScope)
		m.scope.HandleClick(col)
	}
	return None(), nil
}

func (m *NewFileModal) focusElement(el element) {
	for i, e := range m.elements {
		if e == el {
			m.setFocus(i)
			return
		}
	}
}

// View renders the modal at its stored geometry.
func (m *NewFileModal) View() string {
	el := m.elements[m.focused]
	lines := []string{
		theme.ModalLabel.Render("Name"),
		m.name.View(),
		"",
	}
	if m.parent.HasParent {
		lines = append(lines, theme.TextMutedStyle.Render("Collection: "+m.parent.ParentFolder))
	} else {
		lines = append(lines,
			optionLabel("Type")+m.kind.View(el == elType),
			optionLabel("Scope")+m.scope.View(el == elScope),
		)
	}
	return m.dialog.Render(strings.Join(lines, "\n"))
}

func optionLabel(s string) string {
	return theme.ModalLabel.Width(optLabelWidth).Render(s)
}

func scopeFromValue(v string) collection.Scope {
	s, err := collection.ParseScope(v)
	if err != nil {
		return collection.ScopeLocal
	}
	return s
}

func buttonFor(el element) ButtonID {
	switch el {
	case elCancel:
		return ButtonCancel
	case elDelete:
		return ButtonDelete
	default:
		return ButtonSubmit
	}
}

func elementFor(id ButtonID) element {
	switch id {
	case ButtonCancel:
		return elCancel
	case ButtonDelete:
		return elDelete
	default:
		return elSubmit
	}
}
