// Package modal implements overlay dialogs that capture all input while open.
//
// A Manager holds at most one Modal. While it is active the caller must send
// every key and mouse message to HandleEvent and nowhere else. Modals never
// perform the action a button stands for; they report it as an Action and the
// caller decides what submit, cancel or delete mean.
package modal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/sqli/internal/collection"
	"github.com/avitaltamir/sqli/internal/layout"
)

// ActionKind classifies the outcome of one event inside a modal.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionClose
	ActionCustom
)

// ButtonID names a dialog button. It is the payload of a Custom action.
type ButtonID string

const (
	ButtonSubmit ButtonID = "submit"
	ButtonCancel ButtonID = "cancel"
	ButtonDelete ButtonID = "delete"
)

// Action is what a modal asks its owner to do.
type Action struct {
	Kind   ActionKind
	Button ButtonID
}

// None is the no-op action.
func None() Action { return Action{Kind: ActionNone} }

// Close asks the owner to dismiss the modal.
func Close() Action { return Action{Kind: ActionClose} }

// Custom reports that button id was activated.
func Custom(id ButtonID) Action { return Action{Kind: ActionCustom, Button: id} }

// Type selects which modal Show builds. The set is closed: PasswordType,
// NewFileType and EditFileType.
type Type interface {
	modalType()
}

// PasswordType prompts for a connection password.
type PasswordType struct{}

// NewFileType creates a file or folder. With HasParent the new file goes
// into ParentFolder, which lives in ParentScope.
type NewFileType struct {
	ParentFolder string
	ParentScope  collection.Scope
	HasParent    bool
}

// EditFileType renames, moves or deletes an existing file or folder.
type EditFileType struct {
	Name     string
	IsFolder bool
	Scope    collection.Scope
}

func (PasswordType) modalType() {}
func (NewFileType) modalType()  {}
func (EditFileType) modalType() {}

// Modal is an open dialog. Implemented by *PasswordModal, *NewFileModal and
// *EditFileModal only; use a type switch to reach the concrete values.
type Modal interface {
	View() string
	HandleKey(msg tea.KeyMsg) (Action, error)
	HandleMouse(msg tea.MouseMsg) (Action, error)
	SetArea(area layout.Rect)
	Dialog() *Dialog

	sealed()
}

// Manager owns the single active modal and its one-shot result.
type Manager struct {
	active    Modal
	area      layout.Rect
	result    string
	hasResult bool
}

// NewManager creates a manager with no active modal.
func NewManager() *Manager {
	return &Manager{}
}

// Show builds the modal for t and makes it the only active one. Any previous
// modal and its unread result are discarded.
func (m *Manager) Show(t Type) {
	var next Modal
	switch t := t.(type) {
	case PasswordType:
		next = NewPasswordModal()
	case NewFileType:
		next = NewNewFileModal(t)
	case EditFileType:
		next = NewEditFileModal(t)
	default:
		return
	}

	m.active = next
	m.result, m.hasResult = "", false
	if !m.area.Empty() {
		m.active.SetArea(m.area)
	}
}

// Close clears the active modal and any stored result.
func (m *Manager) Close() {
	m.active = nil
	m.result, m.hasResult = "", false
}

// IsActive reports whether a modal is open.
func (m *Manager) IsActive() bool {
	return m.active != nil
}

// Active returns the open modal, or nil.
func (m *Manager) Active() Modal {
	return m.active
}

// SetArea sets the screen area modals are laid out in and hit-tested
// against. The active modal recomputes its geometry immediately.
func (m *Manager) SetArea(area layout.Rect) {
	m.area = area
	if m.active != nil {
		m.active.SetArea(area)
	}
}

// Area returns the last area passed to SetArea.
func (m *Manager) Area() layout.Rect {
	return m.area
}

// HandleEvent routes a key or mouse message to the active modal. With no
// modal open, or for any other message, it returns None.
func (m *Manager) HandleEvent(msg tea.Msg) (Action, error) {
	if m.active == nil {
		return None(), nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.active.HandleKey(msg)
	case tea.MouseMsg:
		return m.active.HandleMouse(msg)
	}
	return None(), nil
}

// StoreResult saves a value for a later TakeResult.
func (m *Manager) StoreResult(v string) {
	m.result, m.hasResult = v, true
}

// TakeResult returns the stored value once, then clears it.
func (m *Manager) TakeResult() (string, bool) {
	v, ok := m.result, m.hasResult
	m.result, m.hasResult = "", false
	return v, ok
}

// View renders the active modal composited over screen.
func (m *Manager) View(screen string) string {
	if m.active == nil {
		return screen
	}
	return layout.Overlay(screen, m.active.View(), m.active.Dialog().Rect())
}
