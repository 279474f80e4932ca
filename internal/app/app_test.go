package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avitaltamir/sqli/internal/collection"
	"github.com/avitaltamir/sqli/internal/config"
	"github.com/avitaltamir/sqli/internal/driver"
	"github.com/avitaltamir/sqli/internal/modal"
	"github.com/avitaltamir/sqli/internal/navigation"
	"github.com/avitaltamir/sqli/internal/panes"
	"github.com/avitaltamir/sqli/internal/state"
)

func testSettings(t *testing.T) config.Settings {
	t.Helper()
	return config.Settings{UserDir: t.TempDir(), WorkspaceDir: t.TempDir()}
}

func newTestModel(t *testing.T, settings config.Settings, opts ...func(*Options)) *Model {
	t.Helper()
	o := Options{
		Settings:  settings,
		NoWatch:   true,
		Clipboard: func(string) error { return nil },
	}
	for _, f := range opts {
		f(&o)
	}
	m := New(o)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func press(t *testing.T, m *Model, msgs ...tea.KeyMsg) {
	t.Helper()
	for _, msg := range msgs {
		_, err := m.HandleKey(msg)
		require.NoError(t, err)
	}
}

// runQueued runs the last queued command and feeds its message back.
func runQueued(t *testing.T, m *Model) tea.Msg {
	t.Helper()
	require.NotEmpty(t, m.cmds)
	cmd := m.cmds[len(m.cmds)-1]
	m.cmds = nil
	msg := cmd()
	m.Update(msg)
	return msg
}

func loadCollections(m *Model) {
	m.Update(m.loadCollectionsCmd()())
}

func focus(m *Model, id navigation.PaneID) navigation.FocusType {
	return m.paneInfo(id).Focus
}

type fakeExecutor struct {
	result driver.Result
	err    error
	closed bool
}

func (f *fakeExecutor) Query(context.Context, string) (driver.Result, error) {
	return f.result, f.err
}

func (f *fakeExecutor) Close() error {
	f.closed = true
	return nil
}

func TestNew(t *testing.T) {
	m := newTestModel(t, testSettings(t))

	active, ok := m.Nav().ActivePane()
	require.True(t, ok)
	assert.Equal(t, navigation.Header, active)

	want := []navigation.PaneID{navigation.Header, navigation.Collections, navigation.Workspace, navigation.Results}
	if diff := cmp.Diff(want, m.Nav().TabOrder()); diff != "" {
		t.Errorf("tab order mismatch (-want +got):\n%s", diff)
	}

	out := ansi.Strip(m.View())
	for _, title := range []string{"SQLI", "COLLECTIONS", "WORKSPACE", "RESULTS"} {
		assert.Contains(t, out, title)
	}
}

func TestViewBeforeResize(t *testing.T) {
	m := New(Options{Settings: testSettings(t), NoWatch: true})
	assert.Equal(t, "Initializing...", m.View())
}

func TestTabRouting(t *testing.T) {
	m := newTestModel(t, testSettings(t))

	press(t, m, key(tea.KeyTab))
	assert.True(t, m.Nav().IsActive(navigation.Collections))

	press(t, m, key(tea.KeyShiftTab))
	assert.True(t, m.Nav().IsActive(navigation.Header))

	t.Run("editing header cycles its elements", func(t *testing.T) {
		press(t, m, key(tea.KeyEnter), key(tea.KeyTab))
		assert.True(t, m.Nav().IsEditing(navigation.Header))
		cur, err := m.Nav().CurrentElement(navigation.Header)
		require.NoError(t, err)
		assert.Equal(t, panes.HeaderRunButton, cur)
		press(t, m, key(tea.KeyEsc))
	})

	t.Run("four tabs come back to the header", func(t *testing.T) {
		for range 4 {
			press(t, m, key(tea.KeyTab))
		}
		assert.True(t, m.Nav().IsActive(navigation.Header))
		assert.Equal(t, navigation.Active, focus(m, navigation.Header))
	})

	t.Run("editor keeps tab", func(t *testing.T) {
		require.NoError(t, m.Nav().StartEditing(navigation.Workspace))
		press(t, m, key(tea.KeyTab), keyRunes("x"))
		assert.True(t, m.Nav().IsEditing(navigation.Workspace))
		assert.Equal(t, panes.Indent+"x", m.Workspace().Query())
	})
}

func TestModalCapturesInput(t *testing.T) {
	m := newTestModel(t, testSettings(t))
	require.NoError(t, m.Nav().ActivatePane(navigation.Collections))

	press(t, m, key(tea.KeyCtrlN))
	require.True(t, m.Modals().IsActive())
	_, ok := m.Modals().Active().(*modal.NewFileModal)
	require.True(t, ok)

	press(t, m, keyRunes("q"), key(tea.KeyTab), key(tea.KeyTab))
	assert.True(t, m.Nav().IsActive(navigation.Collections), "tab stays inside the modal")
	assert.Empty(t, m.Workspace().Query())

	// Quit keys go to the modal too.
	quit, err := m.HandleKey(key(tea.KeyCtrlQ))
	require.NoError(t, err)
	assert.False(t, quit)

	press(t, m, key(tea.KeyEsc))
	assert.False(t, m.Modals().IsActive())

	t.Run("click outside closes", func(t *testing.T) {
		press(t, m, key(tea.KeyCtrlN))
		require.True(t, m.Modals().IsActive())
		_, err := m.HandleMouse(click(0, 0))
		require.NoError(t, err)
		assert.False(t, m.Modals().IsActive())
		assert.True(t, m.Nav().IsActive(navigation.Collections), "the click never reached the header")
	})
}

func TestClickPromotesToEditing(t *testing.T) {
	m := newTestModel(t, testSettings(t))
	ws := m.layout.Workspace
	x, y := ws.X+ws.Width/2, ws.Y+ws.Height/2

	_, err := m.HandleMouse(click(x, y))
	require.NoError(t, err)
	assert.Equal(t, navigation.Active, focus(m, navigation.Workspace))
	assert.Equal(t, navigation.Inactive, focus(m, navigation.Header))

	_, err = m.HandleMouse(click(x, y))
	require.NoError(t, err)
	assert.Equal(t, navigation.Editing, focus(m, navigation.Workspace))

	col := m.layout.Collections
	_, err = m.HandleMouse(click(col.X+2, col.Y+col.Height-2))
	require.NoError(t, err)
	assert.Equal(t, navigation.Active, focus(m, navigation.Collections))
	assert.Equal(t, navigation.Inactive, focus(m, navigation.Workspace))
}

func TestInstructions(t *testing.T) {
	m := newTestModel(t, testSettings(t))
	require.NoError(t, m.Nav().ActivatePane(navigation.Workspace))

	active := Instructions(m)
	assert.Contains(t, active, panes.Hint{Key: "Enter", Desc: "edit"})
	assert.Contains(t, active, panes.Hint{Key: "Tab", Desc: "next pane"})

	require.NoError(t, m.Nav().StartEditing(navigation.Workspace))
	editing := Instructions(m)
	assert.Contains(t, editing, panes.Hint{Key: "Esc", Desc: "done"})
	assert.NotContains(t, editing, panes.Hint{Key: "Tab", Desc: "next pane"})
	assert.NotEqual(t, active, editing)

	t.Run("modal", func(t *testing.T) {
		m.Modals().Show(modal.PasswordType{})
		defer m.Modals().Close()
		assert.Contains(t, Instructions(m), panes.Hint{Key: "Esc", Desc: "cancel"})
	})

	t.Run("command bar", func(t *testing.T) {
		require.NoError(t, m.Nav().StopEditing(navigation.Workspace))
		press(t, m, key(tea.KeyCtrlP))
		assert.Contains(t, Instructions(m), panes.Hint{Key: ":w", Desc: "save"})
		press(t, m, key(tea.KeyEsc))
	})

	t.Run("rendered footer", func(t *testing.T) {
		out := ansi.Strip(m.renderInstructions())
		assert.Contains(t, out, "Enter edit")
		assert.Equal(t, 120, ansi.StringWidth(m.renderInstructions()))
	})
}

func TestGlobalKeys(t *testing.T) {
	settings := testSettings(t)
	m := newTestModel(t, settings)

	t.Run("help toggles and any key closes it", func(t *testing.T) {
		press(t, m, key(tea.KeyCtrlH))
		assert.True(t, m.showHelp)
		out := ansi.Strip(m.View())
		assert.Contains(t, out, "GLOBAL")
		assert.Contains(t, out, "Press any key to close")

		press(t, m, key(tea.KeyTab))
		assert.False(t, m.showHelp)
		assert.True(t, m.Nav().IsActive(navigation.Header), "the closing key is swallowed")
	})

	t.Run("resize collections within bounds", func(t *testing.T) {
		before := m.layout.Collections.Width
		press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]"), Alt: true})
		assert.Equal(t, 25, m.collectionsPercent)
		assert.Greater(t, m.layout.Collections.Width, before)

		for range 10 {
			press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("["), Alt: true})
		}
		assert.Equal(t, 15, m.collectionsPercent)
	})

	t.Run("quit saves state", func(t *testing.T) {
		quit, err := m.HandleKey(key(tea.KeyCtrlQ))
		require.NoError(t, err)
		require.True(t, quit)

		m.shutdown()
		assert.Equal(t, 15, state.Load(settings.UserDir).CollectionsPercent)
	})

	t.Run("unsaved changes need a second quit", func(t *testing.T) {
		m := newTestModel(t, testSettings(t))
		m.Workspace().MarkModified()

		quit, _ := m.HandleKey(key(tea.KeyCtrlQ))
		assert.False(t, quit)
		text, isErr := m.Status()
		assert.True(t, isErr)
		assert.Contains(t, text, "Unsaved changes")

		quit, _ = m.HandleKey(key(tea.KeyCtrlQ))
		assert.True(t, quit)
	})
}

func TestRunQuerySQLite(t *testing.T) {
	settings := testSettings(t)
	require.NoError(t, config.NewManager(settings).AddConnection(config.Connection{
		Name:     "mem",
		Conn:     config.DriverSQLite,
		Database: ":memory:",
	}))
	m := newTestModel(t, settings)
	m.Workspace().Buffer().SetContent("SELECT 1 AS n, 'a' AS s")

	require.NoError(t, m.Nav().ActivatePane(navigation.Workspace))
	press(t, m, key(tea.KeyF5))
	assert.True(t, m.running)

	msg := runQueued(t, m)
	finished, ok := msg.(QueryFinishedMsg)
	require.True(t, ok)
	require.NoError(t, finished.Err)

	res, ok := m.Results().Result()
	require.True(t, ok)
	assert.Equal(t, []string{"n", "s"}, res.Columns)
	assert.Equal(t, [][]string{{"1", "a"}}, res.Rows)
	assert.False(t, m.running)

	text, _ := m.Status()
	assert.Contains(t, text, "1 rows")

	t.Run("errors land in the results pane", func(t *testing.T) {
		m.Workspace().Buffer().SetContent("SELECT * FROM missing")
		m.runQuery()
		runQueued(t, m)

		_, ok := m.Results().Result()
		assert.False(t, ok)
		assert.Contains(t, ansi.Strip(m.View()), "no such table")
	})

	t.Run("empty workspace", func(t *testing.T) {
		m.Workspace().Buffer().SetContent("  ")
		m.runQuery()
		assert.Empty(t, m.cmds)
		text, isErr := m.Status()
		assert.True(t, isErr)
		assert.Equal(t, "Nothing to run", text)
	})
}

func TestRunQueryAsksForPassword(t *testing.T) {
	settings := testSettings(t)
	require.NoError(t, config.NewManager(settings).Save(&config.Config{
		Connections: []config.Connection{{Name: "remote", Conn: "postgres", Database: "app"}},
	}))

	var passwords []string
	exec := &fakeExecutor{result: driver.Result{Columns: []string{"ok"}, Rows: [][]string{{"1"}}}}
	m := newTestModel(t, settings, func(o *Options) {
		o.Open = func(_ config.Connection, password string) (driver.Executor, error) {
			passwords = append(passwords, password)
			return exec, nil
		}
	})
	m.Workspace().Buffer().SetContent("SELECT 1")

	m.runQuery()
	require.True(t, m.Modals().IsActive())
	_, ok := m.Modals().Active().(*modal.PasswordModal)
	require.True(t, ok)
	assert.Empty(t, m.cmds)

	t.Run("empty password is rejected", func(t *testing.T) {
		press(t, m, key(tea.KeyEnter))
		require.True(t, m.Modals().IsActive())
		pm := m.Modals().Active().(*modal.PasswordModal)
		assert.NotEmpty(t, pm.Error())
	})

	press(t, m, keyRunes("s3cret"), key(tea.KeyEnter))
	assert.False(t, m.Modals().IsActive())
	_, ok = m.Modals().TakeResult()
	assert.False(t, ok, "the result was already consumed")

	runQueued(t, m)
	assert.Equal(t, []string{"s3cret"}, passwords)
	assert.True(t, exec.closed)

	t.Run("cached for the next run", func(t *testing.T) {
		m.runQuery()
		assert.False(t, m.Modals().IsActive())
		runQueued(t, m)
		assert.Equal(t, []string{"s3cret", "s3cret"}, passwords)
	})

	t.Run("failure forgets the password", func(t *testing.T) {
		exec.err = errors.New("authentication failed")
		m.runQuery()
		runQueued(t, m)
		exec.err = nil

		m.runQuery()
		assert.True(t, m.Modals().IsActive())
	})

	t.Run("cancel drops the query", func(t *testing.T) {
		press(t, m, key(tea.KeyEsc))
		assert.False(t, m.Modals().IsActive())
		assert.Nil(t, m.pending)
		text, _ := m.Status()
		assert.Equal(t, "Query cancelled", text)
	})
}

func TestQueryTimeout(t *testing.T) {
	settings := testSettings(t)
	require.NoError(t, config.NewManager(settings).AddConnection(config.Connection{
		Name: "mem", Conn: config.DriverSQLite, Database: ":memory:",
	}))
	exec := &fakeExecutor{err: context.DeadlineExceeded}
	m := newTestModel(t, settings, func(o *Options) {
		o.QueryTimeout = time.Millisecond
		o.Open = func(config.Connection, string) (driver.Executor, error) { return exec, nil }
	})
	m.Workspace().Buffer().SetContent("SELECT 1")

	m.runQuery()
	msg := runQueued(t, m).(QueryFinishedMsg)
	assert.ErrorIs(t, msg.Err, context.DeadlineExceeded)
	assert.Contains(t, msg.Err.Error(), "timed out")
}

func TestCollectionLifecycle(t *testing.T) {
	settings := testSettings(t)
	m := newTestModel(t, settings)
	store := collection.NewStore(settings)

	// New folder: name, then Tab to the type radio and pick Folder.
	require.NoError(t, m.Nav().ActivatePane(navigation.Collections))
	press(t, m, key(tea.KeyCtrlN), keyRunes("reports"), key(tea.KeyTab), key(tea.KeyRight), key(tea.KeyEnter))
	require.False(t, m.Modals().IsActive())
	info, err := os.Stat(filepath.Join(settings.WorkspaceDir, "reports"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	loadCollections(m)
	assert.Equal(t, []string{"reports"}, m.Collections().VisibleNames())

	t.Run("new file inside the folder opens it", func(t *testing.T) {
		m.handleCommand(panes.Command{
			Kind:   panes.CmdNewFile,
			Ref:    panes.FileRef{Collection: "reports", Scope: collection.ScopeLocal},
			HasRef: true,
		})
		press(t, m, keyRunes("daily"), key(tea.KeyEnter))
		require.False(t, m.Modals().IsActive())

		ref, ok := m.Workspace().File()
		require.True(t, ok)
		assert.Equal(t, "reports/daily.sql", ref.Name())
		assert.True(t, m.Nav().IsActive(navigation.Workspace))

		loadCollections(m)
		sel, ok := m.Collections().Selected()
		require.True(t, ok)
		assert.Equal(t, ref, sel)
	})

	t.Run("save writes the buffer", func(t *testing.T) {
		press(t, m, key(tea.KeyEnter), keyRunes("SELECT 1"), key(tea.KeyCtrlS))
		assert.False(t, m.Workspace().Modified())

		got, err := store.ReadFile(collection.ScopeLocal, "reports", "daily.sql")
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1\n", got)
		press(t, m, key(tea.KeyEsc))
	})

	t.Run("rename follows the open file", func(t *testing.T) {
		m.handleCommand(panes.Command{
			Kind:   panes.CmdEditFile,
			Ref:    panes.FileRef{Collection: "reports", File: "daily.sql", Scope: collection.ScopeLocal},
			HasRef: true,
		})
		press(t, m, key(tea.KeyCtrlU), keyRunes("reports/weekly"), key(tea.KeyEnter))
		require.False(t, m.Modals().IsActive())

		ref, _ := m.Workspace().File()
		assert.Equal(t, "reports/weekly.sql", ref.Name())
		_, err := store.ReadFile(collection.ScopeLocal, "reports", "weekly.sql")
		assert.NoError(t, err)
	})

	t.Run("bad names keep the modal open", func(t *testing.T) {
		m.handleCommand(panes.Command{Kind: panes.CmdNewFile})
		press(t, m, keyRunes("loose"), key(tea.KeyEnter))
		assert.True(t, m.Modals().IsActive())
		text, isErr := m.Status()
		assert.True(t, isErr)
		assert.Contains(t, text, "collection/name")
		press(t, m, key(tea.KeyEsc))
	})

	t.Run("delete folder closes the file", func(t *testing.T) {
		m.handleCommand(panes.Command{
			Kind:   panes.CmdEditFile,
			Ref:    panes.FileRef{Collection: "reports", Scope: collection.ScopeLocal},
			HasRef: true,
		})
		// name, scope, cancel, delete
		press(t, m, key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyEnter))
		require.False(t, m.Modals().IsActive())

		_, ok := m.Workspace().File()
		assert.False(t, ok)
		_, err := os.Stat(filepath.Join(settings.WorkspaceDir, "reports"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestOpenFileGuardsUnsavedChanges(t *testing.T) {
	settings := testSettings(t)
	store := collection.NewStore(settings)
	require.NoError(t, store.SaveFile(collection.ScopeUser, "misc", "a.sql", "SELECT 'a'\n"))
	require.NoError(t, store.SaveFile(collection.ScopeUser, "misc", "b.sql", "SELECT 'b'\n"))
	m := newTestModel(t, settings)

	a := panes.FileRef{Collection: "misc", File: "a.sql", Scope: collection.ScopeUser}
	b := panes.FileRef{Collection: "misc", File: "b.sql", Scope: collection.ScopeUser}

	m.openFile(a)
	assert.Equal(t, "SELECT 'a'", m.Workspace().Query())

	m.Workspace().MarkModified()
	m.openFile(b)
	assert.Equal(t, "SELECT 'a'", m.Workspace().Query(), "first open only warns")

	m.openFile(b)
	assert.Equal(t, "SELECT 'b'", m.Workspace().Query())
}

func TestSaveUntitledAsksForFile(t *testing.T) {
	settings := testSettings(t)
	m := newTestModel(t, settings)
	m.Workspace().Buffer().SetContent("SELECT 42")
	m.Workspace().MarkModified()

	m.saveQuery()
	require.True(t, m.Modals().IsActive())

	press(t, m, keyRunes("scratch/answer"), key(tea.KeyEnter))
	require.False(t, m.Modals().IsActive())
	assert.False(t, m.Workspace().Modified())

	got, err := collection.NewStore(settings).ReadFile(collection.ScopeLocal, "scratch", "answer.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 42\n", got)
}

func TestSearchAndReplaceBar(t *testing.T) {
	m := newTestModel(t, testSettings(t))
	m.Workspace().Buffer().SetContent("SELECT * FROM users;\nSELECT * FROM orders;")
	require.NoError(t, m.Nav().StartEditing(navigation.Workspace))

	press(t, m, key(tea.KeyCtrlF))
	require.True(t, m.bar.active())
	assert.True(t, m.layout.BarVisible)

	press(t, m, keyRunes("FROM"), key(tea.KeyEnter))
	assert.Equal(t, 9, m.Workspace().Buffer().LastMatch().Column)
	line := m.Workspace().Buffer().LastMatch().Line

	press(t, m, key(tea.KeyEnter))
	assert.Equal(t, (line+1)%2, m.Workspace().Buffer().LastMatch().Line)

	press(t, m, keyRunes("XYZ"), key(tea.KeyEnter))
	text, _ := m.Status()
	assert.Equal(t, "Pattern not found", text)

	press(t, m, key(tea.KeyEsc))
	assert.False(t, m.bar.active())
	assert.False(t, m.layout.BarVisible)

	t.Run("replace all", func(t *testing.T) {
		press(t, m, key(tea.KeyCtrlR), key(tea.KeyCtrlU), keyRunes("SELECT"), key(tea.KeyEnter))
		press(t, m, keyRunes("select"), key(tea.KeyCtrlA))

		assert.False(t, m.bar.active())
		assert.Equal(t, "select * FROM users;\nselect * FROM orders;", m.Workspace().Query())
		assert.True(t, m.Workspace().Modified())
		text, _ := m.Status()
		assert.Equal(t, "Replaced 2 occurrences", text)
	})
}

func TestCommandMode(t *testing.T) {
	m := newTestModel(t, testSettings(t))

	press(t, m, key(tea.KeyCtrlP), keyRunes("bogus"), key(tea.KeyEnter))
	text, isErr := m.Status()
	assert.True(t, isErr)
	assert.Equal(t, "Unknown command: bogus", text)

	press(t, m, key(tea.KeyCtrlP), keyRunes("w"), key(tea.KeyEnter))
	assert.True(t, m.Modals().IsActive(), ":w on an untitled buffer asks for a file")
	press(t, m, key(tea.KeyEsc))

	press(t, m, key(tea.KeyCtrlP), keyRunes("q"))
	quit, err := m.HandleKey(key(tea.KeyEnter))
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestStatusExpires(t *testing.T) {
	m := newTestModel(t, testSettings(t))
	now := time.Now()
	m.now = func() time.Time { return now }

	m.setStatus("hello")
	m.Update(tickMsg(now))
	text, _ := m.Status()
	assert.Equal(t, "hello", text)

	now = now.Add(statusDuration + time.Second)
	m.Update(tickMsg(now))
	text, _ = m.Status()
	assert.Empty(t, text)
}

func TestFileChangesAreDebounced(t *testing.T) {
	m := newTestModel(t, testSettings(t))

	m.Update(FileChangeMsg{Path: "a"})
	assert.True(t, m.fileChangeDebouncing)
	m.Update(FileChangeMsg{Path: "b"})
	assert.Len(t, m.pendingFileChanges, 2)

	_, cmd := m.Update(fileChangeDebounceMsg{})
	assert.NotNil(t, cmd)
	assert.False(t, m.fileChangeDebouncing)
	assert.Empty(t, m.pendingFileChanges)
}

func TestFileChangesOutsideCollectionsSkipReload(t *testing.T) {
	tests := []struct {
		name   string
		paths  []string
		reload bool
	}{
		{name: "only unrelated files", paths: []string{"notes.txt", "app.db-journal"}, reload: false},
		{name: "a query file", paths: []string{"notes.txt", "reports/daily.SQL"}, reload: true},
		{name: "a directory", paths: []string{"reports"}, reload: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, testSettings(t))
			for _, p := range tt.paths {
				m.Update(FileChangeMsg{Path: p, Op: fsnotify.Write})
			}

			_, cmd := m.Update(fileChangeDebounceMsg{})
			if tt.reload {
				require.NotNil(t, cmd)
				_, ok := cmd().(CollectionsLoadedMsg)
				assert.True(t, ok)
			} else {
				assert.Nil(t, cmd)
			}
			assert.Empty(t, m.pendingFileChanges)
		})
	}
}
