// Package navigation tracks which pane receives input and how deeply.
//
// A pane is Active when it is the current tab target and Editing when it owns
// raw keystrokes. At most one pane is ever non-Inactive.
package navigation

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Manager.
var (
	ErrPaneNotRegistered = errors.New("pane not registered")
	ErrNoPanesRegistered = errors.New("no panes registered")
)

// PaneID identifies one of the fixed top-level screen regions.
type PaneID string

const (
	Header      PaneID = "header"
	Collections PaneID = "collections"
	Workspace   PaneID = "workspace"
	Results     PaneID = "results"
)

// String returns the pane name for display.
func (p PaneID) String() string {
	switch p {
	case Header:
		return "Header"
	case Collections:
		return "Collections"
	case Workspace:
		return "Workspace"
	case Results:
		return "Results"
	default:
		return "Unknown"
	}
}

// FocusType describes how a pane is currently receiving input.
type FocusType int

const (
	Inactive FocusType = iota
	Active
	Editing
)

// String returns the focus name for debugging.
func (f FocusType) String() string {
	switch f {
	case Inactive:
		return "Inactive"
	case Active:
		return "Active"
	case Editing:
		return "Editing"
	default:
		return "Unknown"
	}
}

// PaneInfo is the per-pane focus and tab bookkeeping.
type PaneInfo struct {
	ID             PaneID
	ElementCount   int
	CurrentElement int
	Focus          FocusType
}

// Manager owns the pane registry and the focus cursor.
type Manager struct {
	panes     map[PaneID]*PaneInfo
	tabOrder  []PaneID
	active    PaneID
	hasActive bool
}

// NewManager creates an empty navigation manager.
func NewManager() *Manager {
	return &Manager{
		panes: make(map[PaneID]*PaneInfo),
	}
}

// RegisterPane adds or refreshes a pane. Re-registering an id resets its
// focus bookkeeping but never duplicates it in the tab order. The first
// registered pane becomes active.
func (m *Manager) RegisterPane(id PaneID, elementCount int) {
	if elementCount < 0 {
		elementCount = 0
	}
	m.panes[id] = &PaneInfo{ID: id, ElementCount: elementCount}

	if !m.inTabOrder(id) {
		m.tabOrder = append(m.tabOrder, id)
	}

	if !m.hasActive {
		// Cannot fail: id was registered above.
		_ = m.ActivatePane(id)
	} else if m.active == id {
		m.panes[id].Focus = Active
	}
}

// ActivatePane makes id the active pane and deactivates the previous one.
func (m *Manager) ActivatePane(id PaneID) error {
	info, ok := m.panes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPaneNotRegistered, id)
	}

	if m.hasActive {
		if prev, ok := m.panes[m.active]; ok {
			prev.Focus = Inactive
		}
	}

	info.Focus = Active
	m.active = id
	m.hasActive = true
	return nil
}

// CyclePane activates the next pane in tab order, or the previous one when
// reverse is set. It wraps at both ends.
func (m *Manager) CyclePane(reverse bool) (PaneID, error) {
	n := len(m.tabOrder)
	if n == 0 {
		return "", ErrNoPanesRegistered
	}

	current := 0
	if m.hasActive {
		if idx := m.indexOf(m.active); idx >= 0 {
			current = idx
		}
	}

	next := (current + 1) % n
	if reverse {
		next = (current + n - 1) % n
	}

	id := m.tabOrder[next]
	if err := m.ActivatePane(id); err != nil {
		return "", err
	}
	return id, nil
}

// StartEditing activates id if needed and hands it raw input.
func (m *Manager) StartEditing(id PaneID) error {
	if _, ok := m.panes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrPaneNotRegistered, id)
	}
	if !m.IsActive(id) {
		if err := m.ActivatePane(id); err != nil {
			return err
		}
	}
	m.panes[id].Focus = Editing
	return nil
}

// StopEditing demotes an editing pane back to Active.
func (m *Manager) StopEditing(id PaneID) error {
	info, ok := m.panes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPaneNotRegistered, id)
	}
	if info.Focus == Editing {
		info.Focus = Active
	}
	return nil
}

// HandleTab cycles sub-elements of an editing pane with more than one
// element; otherwise it switches panes. The bool reports whether the tab
// stayed inside the active pane.
//
// An editing pane with exactly one element does not consume the tab.
func (m *Manager) HandleTab(reverse bool) (PaneID, bool, error) {
	if m.hasActive {
		if info, ok := m.panes[m.active]; ok && info.Focus == Editing && info.ElementCount > 1 {
			if reverse {
				info.CurrentElement = (info.CurrentElement + info.ElementCount - 1) % info.ElementCount
			} else {
				info.CurrentElement = (info.CurrentElement + 1) % info.ElementCount
			}
			return info.ID, true, nil
		}
	}

	id, err := m.CyclePane(reverse)
	if err != nil {
		return "", false, err
	}
	return id, false, nil
}

// CycleTabOrder moves id to position in the tab order. Positions past the
// end place it last.
func (m *Manager) CycleTabOrder(id PaneID, position int) error {
	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrPaneNotRegistered, id)
	}

	order := append(m.tabOrder[:idx:idx], m.tabOrder[idx+1:]...)
	if position < 0 {
		position = 0
	}
	if position > len(order) {
		position = len(order)
	}

	reordered := make([]PaneID, 0, len(order)+1)
	reordered = append(reordered, order[:position]...)
	reordered = append(reordered, id)
	reordered = append(reordered, order[position:]...)
	m.tabOrder = reordered
	return nil
}

// PaneInfo returns a copy of the bookkeeping for id.
func (m *Manager) PaneInfo(id PaneID) (PaneInfo, bool) {
	info, ok := m.panes[id]
	if !ok {
		return PaneInfo{}, false
	}
	return *info, true
}

// IsActive reports whether id is the active pane, editing or not.
func (m *Manager) IsActive(id PaneID) bool {
	return m.hasActive && m.active == id
}

// IsEditing reports whether id currently owns raw input.
func (m *Manager) IsEditing(id PaneID) bool {
	info, ok := m.panes[id]
	return ok && info.Focus == Editing
}

// ActivePane returns the active pane, if any.
func (m *Manager) ActivePane() (PaneID, bool) {
	return m.active, m.hasActive
}

// CurrentElement returns the focused sub-element of id.
func (m *Manager) CurrentElement(id PaneID) (int, error) {
	info, ok := m.panes[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPaneNotRegistered, id)
	}
	return info.CurrentElement, nil
}

// SetCurrentElement focuses a sub-element directly, e.g. after a click.
// Out-of-range values are clamped.
func (m *Manager) SetCurrentElement(id PaneID, element int) error {
	info, ok := m.panes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPaneNotRegistered, id)
	}
	switch {
	case info.ElementCount == 0 || element < 0:
		element = 0
	case element >= info.ElementCount:
		element = info.ElementCount - 1
	}
	info.CurrentElement = element
	return nil
}

// TabOrder returns a copy of the tab order.
func (m *Manager) TabOrder() []PaneID {
	out := make([]PaneID, len(m.tabOrder))
	copy(out, m.tabOrder)
	return out
}

func (m *Manager) inTabOrder(id PaneID) bool {
	return m.indexOf(id) >= 0
}

func (m *Manager) indexOf(id PaneID) int {
	for i, p := range m.tabOrder {
		if p == id {
			return i
		}
	}
	return -1
}
