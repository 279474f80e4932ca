package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/sqli/internal/collection"
	"github.com/avitaltamir/sqli/internal/layout"
	"github.com/avitaltamir/sqli/internal/theme"
)

// EditFileValues are the fields of a submitted EditFileModal.
type EditFileValues struct {
	Name  string
	Scope collection.Scope
}

// EditFileModal renames, moves or deletes a file or folder. Only folders
// can change scope.
type EditFileModal struct {
	dialog   *Dialog
	name     textinput.Model
	scope    *RadioGroup
	target   EditFileType
	elements []element
	focused  int
}

// NewEditFileModal creates the modal prefilled from t.
func NewEditFileModal(t EditFileType) *EditFileModal {
	title, height := "Edit File", 25
	if t.IsFolder {
		title, height = "Edit Folder", 35
	}

	m := &EditFileModal{
		dialog: NewDialog(title, 50, height,
			Button{ID: ButtonCancel, Label: "Cancel"},
			Button{ID: ButtonDelete, Label: "Delete", Danger: true},
			Button{ID: ButtonSubmit, Label: "Save"},
		),
		name:   newTextInput(t.Name, false),
		scope:  NewRadioGroup(scopeOptions...),
		target: t,
	}
	m.name.CursorEnd()
	if t.Scope == collection.ScopeUser {
		m.scope.SetSelected(1)
	}

	if t.IsFolder {
		m.elements = []element{elName, elScope, elCancel, elDelete, elSubmit}
	} else {
		m.elements = []element{elName, elCancel, elDelete, elSubmit}
	}
	return m
}

func (*EditFileModal) sealed() {}

// Dialog returns the frame.
func (m *EditFileModal) Dialog() *Dialog { return m.dialog }

// SetArea lays the modal out inside area.
func (m *EditFileModal) SetArea(area layout.Rect) {
	m.dialog.SetArea(area)
	m.name.Width = max(m.dialog.ContentRect().Width-inputChrome, 1)
}

// Target returns the item being edited.
func (m *EditFileModal) Target() EditFileType {
	return m.target
}

// ElementCount returns how many elements Tab cycles through.
func (m *EditFileModal) ElementCount() int {
	return len(m.elements)
}

// Values returns the entered name and scope. Files keep their scope.
func (m *EditFileModal) Values() EditFileValues {
	v := EditFileValues{
		Name:  strings.TrimSpace(m.name.Value()),
		Scope: m.target.Scope,
	}
	if m.target.IsFolder {
		v.Scope = scopeFromValue(m.scope.Value())
	}
	return v
}

func (m *EditFileModal) setFocus(i int) {
	m.focused = i
	el := m.elements[i]
	if el == elName {
		m.name.Focus()
	} else {
		m.name.Blur()
	}
	m.dialog.FocusedButton = -1
	switch el {
	case elCancel, elDelete, elSubmit:
		m.dialog.FocusedButton = m.dialog.ButtonIndex(buttonFor(el))
	}
}

func (m *EditFileModal) focusElement(el element) {
	for i, e := range m.elements {
		if e == el {
			m.setFocus(i)
			return
		}
	}
}

// HandleKey processes one key.
func (m *EditFileModal) HandleKey(msg tea.KeyMsg) (Action, error) {
	switch msg.Type {
	case tea.KeyEsc:
		return Close(), nil
	case tea.KeyEnter:
		switch el := m.elements[m.focused]; el {
		case elCancel, elDelete:
			return Custom(buttonFor(el)), nil
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
	case elScope:
		m.scope.HandleKey(msg)
	}
	return None(), nil
}

// HandleMouse processes one mouse event.
func (m *EditFileModal) HandleMouse(msg tea.MouseMsg) (Action, error) {
	action, ok := m.dialog.HitTest(msg)
	if ok {
		if action.Kind == ActionCustom {
			m.focusElement(elementFor(action.Button))
		}
		return action, nil
	}

	c := m.dialog.ContentRect()
	switch row := msg.Y - c.Y; {
	case row == rowName:
		m.focusElement(elName)
	case row == rowFirstOpt && m.target.IsFolder:
		m.focusElement(elScope)
		m.scope.HandleClick(msg.X - c.X - optLabelWidth)
	}
	return None(), nil
}

// View renders the modal at its stored geometry.
func (m *EditFileModal) View() string {
	lines := []string{
		theme.ModalLabel.Render("Name"),
		m.name.View(),
	}
	if m.target.IsFolder {
		lines = append(lines, "", optionLabel("Scope")+m.scope.View(m.elements[m.focused] == elScope))
	}
	return m.dialog.Render(strings.Join(lines, "\n"))
}
