package navigation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFourPanes() *Manager {
	m := NewManager()
	m.RegisterPane(Header, 1)
	m.RegisterPane(Collections, 1)
	m.RegisterPane(Workspace, 1)
	m.RegisterPane(Results, 1)
	return m
}

func TestPaneIDString(t *testing.T) {
	tests := []struct {
		pane     PaneID
		expected string
	}{
		{Header, "Header"},
		{Collections, "Collections"},
		{Workspace, "Workspace"},
		{Results, "Results"},
		{PaneID("bogus"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pane.String())
		})
	}
}

func TestRegisterPane(t *testing.T) {
	t.Run("first pane becomes active", func(t *testing.T) {
		m := NewManager()
		m.RegisterPane(Header, 2)

		id, ok := m.ActivePane()
		require.True(t, ok)
		assert.Equal(t, Header, id)

		info, ok := m.PaneInfo(Header)
		require.True(t, ok)
		assert.Equal(t, Active, info.Focus)
		assert.Equal(t, 2, info.ElementCount)
	})

	t.Run("later panes start inactive", func(t *testing.T) {
		m := newFourPanes()

		info, ok := m.PaneInfo(Results)
		require.True(t, ok)
		assert.Equal(t, Inactive, info.Focus)
	})

	t.Run("re-registering never duplicates tab order", func(t *testing.T) {
		m := newFourPanes()
		m.RegisterPane(Workspace, 3)
		m.RegisterPane(Header, 1)
		m.RegisterPane(Workspace, 2)

		want := []PaneID{Header, Collections, Workspace, Results}
		if diff := cmp.Diff(want, m.TabOrder()); diff != "" {
			t.Errorf("tab order mismatch (-want +got):\n%s", diff)
		}

		info, _ := m.PaneInfo(Workspace)
		assert.Equal(t, 2, info.ElementCount)
	})

	t.Run("re-registering the active pane keeps it active", func(t *testing.T) {
		m := newFourPanes()
		require.NoError(t, m.StartEditing(Header))

		m.RegisterPane(Header, 2)

		info, _ := m.PaneInfo(Header)
		assert.Equal(t, Active, info.Focus)
		assert.True(t, m.IsActive(Header))
	})
}

func TestActivatePane(t *testing.T) {
	t.Run("unknown pane fails", func(t *testing.T) {
		m := newFourPanes()

		err := m.ActivatePane(PaneID("nope"))
		assert.ErrorIs(t, err, ErrPaneNotRegistered)

		id, _ := m.ActivePane()
		assert.Equal(t, Header, id)
	})

	t.Run("deactivates previous pane", func(t *testing.T) {
		m := newFourPanes()
		require.NoError(t, m.StartEditing(Header))

		require.NoError(t, m.ActivatePane(Workspace))

		header, _ := m.PaneInfo(Header)
		workspace, _ := m.PaneInfo(Workspace)
		assert.Equal(t, Inactive, header.Focus)
		assert.Equal(t, Active, workspace.Focus)
		assert.True(t, m.IsActive(Workspace))
		assert.False(t, m.IsActive(Header))
	})

	t.Run("at most one pane is not inactive", func(t *testing.T) {
		m := newFourPanes()
		require.NoError(t, m.ActivatePane(Results))
		require.NoError(t, m.StartEditing(Collections))
		_, err := m.CyclePane(false)
		require.NoError(t, err)

		live := 0
		for _, id := range m.TabOrder() {
			info, _ := m.PaneInfo(id)
			if info.Focus != Inactive {
				live++
				assert.True(t, m.IsActive(id))
			}
		}
		assert.Equal(t, 1, live)
	})
}

func TestCyclePane(t *testing.T) {
	t.Run("empty registry fails", func(t *testing.T) {
		m := NewManager()

		_, err := m.CyclePane(false)
		assert.ErrorIs(t, err, ErrNoPanesRegistered)
	})

	t.Run("forward wraps to first", func(t *testing.T) {
		m := newFourPanes()
		require.NoError(t, m.ActivatePane(Results))

		id, err := m.CyclePane(false)
		require.NoError(t, err)
		assert.Equal(t, Header, id)
	})

	t.Run("reverse wraps to last", func(t *testing.T) {
		m := newFourPanes()

		id, err := m.CyclePane(true)
		require.NoError(t, err)
		assert.Equal(t, Results, id)
	})

	t.Run("forward then reverse restores original", func(t *testing.T) {
		for _, start := range []PaneID{Header, Collections, Workspace, Results} {
			m := newFourPanes()
			require.NoError(t, m.ActivatePane(start))

			_, err := m.CyclePane(false)
			require.NoError(t, err)
			id, err := m.CyclePane(true)
			require.NoError(t, err)
			assert.Equal(t, start, id)

			_, err = m.CyclePane(true)
			require.NoError(t, err)
			id, err = m.CyclePane(false)
			require.NoError(t, err)
			assert.Equal(t, start, id)
		}
	})
}

func TestEditing(t *testing.T) {
	t.Run("start editing activates and promotes", func(t *testing.T) {
		m := newFourPanes()

		require.NoError(t, m.StartEditing(Workspace))

		info, _ := m.PaneInfo(Workspace)
		assert.Equal(t, Editing, info.Focus)
		assert.True(t, m.IsActive(Workspace))
		assert.True(t, m.IsEditing(Workspace))

		header, _ := m.PaneInfo(Header)
		assert.Equal(t, Inactive, header.Focus)
	})

	t.Run("stop editing demotes to active", func(t *testing.T) {
		m := newFourPanes()
		require.NoError(t, m.StartEditing(Workspace))

		require.NoError(t, m.StopEditing(Workspace))

		info, _ := m.PaneInfo(Workspace)
		assert.Equal(t, Active, info.Focus)
	})

	t.Run("stop editing on inactive pane is a no-op", func(t *testing.T) {
		m := newFourPanes()

		require.NoError(t, m.StopEditing(Results))

		info, _ := m.PaneInfo(Results)
		assert.Equal(t, Inactive, info.Focus)
	})

	t.Run("unregistered ids fail", func(t *testing.T) {
		m := newFourPanes()

		assert.ErrorIs(t, m.StartEditing(PaneID("x")), ErrPaneNotRegistered)
		assert.ErrorIs(t, m.StopEditing(PaneID("x")), ErrPaneNotRegistered)
	})
}

func TestHandleTab(t *testing.T) {
	t.Run("four tabs return to header as active", func(t *testing.T) {
		m := newFourPanes()

		for i := 0; i < 3; i++ {
			_, consumed, err := m.HandleTab(false)
			require.NoError(t, err)
			assert.False(t, consumed)
		}
		id, consumed, err := m.HandleTab(false)
		require.NoError(t, err)
		assert.False(t, consumed)
		assert.Equal(t, Header, id)

		info, _ := m.PaneInfo(Header)
		assert.Equal(t, Active, info.Focus)
	})

	t.Run("editing pane with several elements cycles inside", func(t *testing.T) {
		m := newFourPanes()
		m.RegisterPane(Header, 3)
		require.NoError(t, m.StartEditing(Header))

		id, consumed, err := m.HandleTab(false)
		require.NoError(t, err)
		assert.True(t, consumed)
		assert.Equal(t, Header, id)
		el, _ := m.CurrentElement(Header)
		assert.Equal(t, 1, el)

		_, _, _ = m.HandleTab(false)
		_, _, _ = m.HandleTab(false)
		el, _ = m.CurrentElement(Header)
		assert.Equal(t, 0, el)

		_, consumed, _ = m.HandleTab(true)
		assert.True(t, consumed)
		el, _ = m.CurrentElement(Header)
		assert.Equal(t, 2, el)
		assert.True(t, m.IsActive(Header))
	})

	t.Run("editing pane with one element switches panes", func(t *testing.T) {
		m := newFourPanes()
		require.NoError(t, m.StartEditing(Collections))

		id, consumed, err := m.HandleTab(false)
		require.NoError(t, err)
		assert.False(t, consumed)
		assert.Equal(t, Workspace, id)
	})

	t.Run("empty registry fails", func(t *testing.T) {
		m := NewManager()

		_, _, err := m.HandleTab(false)
		assert.ErrorIs(t, err, ErrNoPanesRegistered)
	})
}

func TestCycleTabOrder(t *testing.T) {
	m := newFourPanes()

	require.NoError(t, m.CycleTabOrder(Results, 1))
	want := []PaneID{Header, Results, Collections, Workspace}
	if diff := cmp.Diff(want, m.TabOrder()); diff != "" {
		t.Errorf("tab order mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, m.CycleTabOrder(Header, 99))
	want = []PaneID{Results, Collections, Workspace, Header}
	if diff := cmp.Diff(want, m.TabOrder()); diff != "" {
		t.Errorf("tab order mismatch (-want +got):\n%s", diff)
	}

	assert.ErrorIs(t, m.CycleTabOrder(PaneID("x"), 0), ErrPaneNotRegistered)
}

func TestSetCurrentElement(t *testing.T) {
	m := newFourPanes()
	m.RegisterPane(Header, 2)

	require.NoError(t, m.SetCurrentElement(Header, 5))
	el, err := m.CurrentElement(Header)
	require.NoError(t, err)
	assert.Equal(t, 1, el)

	require.NoError(t, m.SetCurrentElement(Header, -3))
	el, _ = m.CurrentElement(Header)
	assert.Equal(t, 0, el)

	_, err = m.CurrentElement(PaneID("x"))
	assert.ErrorIs(t, err, ErrPaneNotRegistered)
}
