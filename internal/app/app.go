// Package app is the root bubbletea model. It owns the navigation and modal
// managers, routes every input event, and carries out the commands panes
// hand back.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/avitaltamir/sqli/internal/collection"
	"github.com/avitaltamir/sqli/internal/config"
	"github.com/avitaltamir/sqli/internal/driver"
	"github.com/avitaltamir/sqli/internal/layout"
	"github.com/avitaltamir/sqli/internal/modal"
	"github.com/avitaltamir/sqli/internal/navigation"
	"github.com/avitaltamir/sqli/internal/panes"
	"github.com/avitaltamir/sqli/internal/state"
	"github.com/avitaltamir/sqli/internal/theme"
)

// Version is the application version, set at build time via ldflags
var Version = "dev"

const (
	tickInterval = 250 * time.Millisecond

	// statusDuration is how long a status message stays up.
	statusDuration = 4 * time.Second

	// quitConfirmWindow is how long a second ^Q has to confirm quitting
	// with unsaved changes.
	quitConfirmWindow = 2 * time.Second

	// DefaultQueryTimeout bounds a single query.
	DefaultQueryTimeout = 30 * time.Second

	resizeStep = 5
)

// OpenFunc opens an executor for a connection.
type OpenFunc func(conn config.Connection, password string) (driver.Executor, error)

// Options configures a Model.
type Options struct {
	Settings config.Settings
	Logger   *slog.Logger

	// Open replaces the database driver.
	Open OpenFunc
	// QueryTimeout defaults to DefaultQueryTimeout.
	QueryTimeout time.Duration
	// Clipboard replaces the system clipboard writer.
	Clipboard func(string) error
	// NoWatch disables the collections watcher.
	NoWatch bool
}

// Model is the root application model.
type Model struct {
	settings     config.Settings
	logger       *slog.Logger
	configs      *config.Manager
	store        *collection.Store
	open         OpenFunc
	queryTimeout time.Duration

	// Focus and overlays
	nav      *navigation.Manager
	dispatch panes.Dispatch
	modals   *modal.Manager
	bar      bar
	showHelp bool
	keys     KeyMap

	// Panes
	header      *panes.Header
	collections *panes.Collections
	workspace   *panes.Workspace
	results     *panes.Results
	byID        map[navigation.PaneID]panes.Pane

	// Layout
	layout             layout.Layout
	collectionsPercent int
	width              int
	height             int
	ready              bool

	// Status line
	status      string
	statusErr   bool
	statusUntil time.Time
	now         func() time.Time

	// Queries
	connection string
	passwords  map[string]string
	pending    *pendingQuery
	running    bool

	// Files
	saveAfterCreate bool
	discard         panes.FileRef
	discardArmed    bool
	selectAfterLoad *panes.FileRef
	lastQuitPress   time.Time

	// File watcher
	watcher              *fsnotify.Watcher
	pendingFileChanges   map[string]fsnotify.Op
	fileChangeDebouncing bool

	// cmds collects the commands queued while handling one message.
	cmds []tea.Cmd
}

// New creates the application model and restores the saved UI state.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	open := opts.Open
	if open == nil {
		open = func(c config.Connection, password string) (driver.Executor, error) {
			return driver.New(c, password)
		}
	}
	timeout := opts.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	var resultsOpts []panes.ResultsOption
	if opts.Clipboard != nil {
		resultsOpts = append(resultsOpts, panes.WithClipboard(opts.Clipboard))
	}

	m := &Model{
		settings:           opts.Settings,
		logger:             logger,
		configs:            config.NewManager(opts.Settings),
		store:              collection.NewStore(opts.Settings),
		open:               open,
		queryTimeout:       timeout,
		nav:                navigation.NewManager(),
		modals:             modal.NewManager(),
		bar:                newBar(),
		keys:               DefaultKeyMap(),
		header:             panes.NewHeader(),
		collections:        panes.NewCollections(),
		workspace:          panes.NewWorkspace(),
		results:            panes.NewResults(resultsOpts...),
		byID:               make(map[navigation.PaneID]panes.Pane),
		collectionsPercent: layout.DefaultCollectionsPercent,
		now:                time.Now,
		passwords:          make(map[string]string),
		pendingFileChanges: make(map[string]fsnotify.Op),
	}

	// Registration order is the tab order.
	for _, p := range []panes.Pane{m.header, m.collections, m.workspace, m.results} {
		m.nav.RegisterPane(p.ID(), p.ElementCount())
		m.byID[p.ID()] = p
	}
	m.dispatch = panes.Dispatch{Nav: m.nav}

	saved := state.Load(opts.Settings.UserDir)
	theme.SetThemeIndex(saved.ThemeIndex)
	m.collectionsPercent = saved.CollectionsPercent
	m.loadConnections(saved.LastConnection)

	if !opts.NoWatch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Warn("collections watcher unavailable", "err", err)
		} else {
			m.watcher = w
		}
	}
	return m
}

// Init loads the collections and starts the tick and the watcher.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCollectionsCmd(), tick()}
	if m.watcher != nil {
		m.addWatches()
		cmds = append(cmds, m.watchFilesCmd())
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) loadConnections(current string) {
	conns, err := m.configs.Connections()
	if err != nil {
		m.logger.Error("failed to load connections", "err", err)
		m.setError(err.Error())
	}
	names := make([]string, len(conns))
	for i, c := range conns {
		names[i] = c.Name
	}
	m.header.SetConnections(names, current)
	m.connection, _ = m.header.Connection()
}

func (m *Model) loadCollectionsCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		cols, err := store.Load()
		return CollectionsLoadedMsg{Collections: cols, Err: err}
	}
}

// queue schedules cmd to be returned from the current Update.
func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.cmds = append(m.cmds, cmd)
	}
}

func (m *Model) takeCmds() tea.Cmd {
	cmds := m.cmds
	m.cmds = nil
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.relayout()

	case tickMsg:
		m.header.Tick()
		if !m.statusUntil.IsZero() && m.now().After(m.statusUntil) {
			m.clearStatus()
		}
		m.queue(tick())

	case QueryFinishedMsg:
		m.finishQuery(msg)

	case CollectionsLoadedMsg:
		m.collectionsLoaded(msg)

	case FileChangeMsg:
		m.fileChanged(msg)

	case fileChangeDebounceMsg:
		m.fileChangeDebouncing = false
		if m.collectionsChanged() {
			m.queue(m.loadCollectionsCmd())
		}
		m.pendingFileChanges = make(map[string]fsnotify.Op)

	case ErrorMsg:
		m.setError(msg.Err.Error())

	case StatusMsg:
		m.setStatus(msg.Text)

	case tea.KeyMsg:
		quit, err := m.HandleKey(msg)
		m.report(err)
		if quit {
			m.shutdown()
			return m, tea.Batch(m.takeCmds(), tea.Quit)
		}

	case tea.MouseMsg:
		quit, err := m.HandleMouse(msg)
		m.report(err)
		if quit {
			m.shutdown()
			return m, tea.Batch(m.takeCmds(), tea.Quit)
		}
	}

	return m, m.takeCmds()
}

// report logs a structural error and shows it without stopping the app.
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	m.logger.Error("event handling failed", "err", err)
	m.setError(err.Error())
}

// HandleKey routes one key press and reports whether the app should quit.
// A modal takes every key while it is open, then the bar, then global keys,
// then Tab, and finally the active pane.
func (m *Model) HandleKey(msg tea.KeyMsg) (bool, error) {
	if m.modals.IsActive() {
		action, err := m.modals.HandleEvent(msg)
		if err != nil {
			return false, err
		}
		m.handleModalAction(action)
		return false, nil
	}

	if m.bar.active() {
		return m.handleBarKey(msg), nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.requestQuit(), nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return false, nil
	}

	// Any other key closes help
	if m.showHelp {
		m.showHelp = false
		return false, nil
	}

	switch {
	case key.Matches(msg, m.keys.Theme):
		t := theme.NextTheme()
		m.setStatus("Theme: " + t.Name)
		return false, nil

	case key.Matches(msg, m.keys.ShrinkCollections):
		m.resizeCollections(-resizeStep)
		return false, nil

	case key.Matches(msg, m.keys.WidenCollections):
		m.resizeCollections(resizeStep)
		return false, nil

	case key.Matches(msg, m.keys.FocusNext, m.keys.FocusPrev):
		// The editor keeps Tab for indentation.
		if !m.nav.IsEditing(navigation.Workspace) {
			_, _, err := m.nav.HandleTab(key.Matches(msg, m.keys.FocusPrev))
			return false, err
		}

	case key.Matches(msg, m.keys.Command):
		m.openBar(barCommand, "")
		return false, nil
	}

	p, err := m.activePane()
	if err != nil {
		return false, err
	}
	cmd, err := m.dispatch.HandleKey(p, msg)
	if err != nil {
		return false, err
	}
	return m.handleCommand(cmd), nil
}

// HandleMouse routes one mouse event and reports whether the app should
// quit.
func (m *Model) HandleMouse(msg tea.MouseMsg) (bool, error) {
	if m.modals.IsActive() {
		action, err := m.modals.HandleEvent(msg)
		if err != nil {
			return false, err
		}
		m.handleModalAction(action)
		return false, nil
	}

	if m.showHelp {
		if msg.Action == tea.MouseActionPress {
			m.showHelp = false
		}
		return false, nil
	}

	id, ok := m.layout.PaneAt(msg.X, msg.Y)
	if !ok {
		return false, nil
	}
	cmd, err := m.dispatch.HandleMouse(m.byID[id], msg)
	if err != nil {
		return false, err
	}
	return m.handleCommand(cmd), nil
}

func (m *Model) activePane() (panes.Pane, error) {
	id, ok := m.nav.ActivePane()
	if !ok {
		return nil, navigation.ErrNoPanesRegistered
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", navigation.ErrPaneNotRegistered, id)
	}
	return p, nil
}

// handleCommand carries out a pane's intent and reports whether to quit.
func (m *Model) handleCommand(cmd panes.Command) bool {
	switch cmd.Kind {
	case panes.CmdQuit:
		return m.requestQuit()
	case panes.CmdRunQuery:
		m.runQuery()
	case panes.CmdSaveQuery:
		m.saveQuery()
	case panes.CmdOpenFile:
		m.openFile(cmd.Ref)
	case panes.CmdNewFile:
		m.modals.Show(modal.NewFileType{
			ParentFolder: cmd.Ref.Collection,
			ParentScope:  cmd.Ref.Scope,
			HasParent:    cmd.HasRef,
		})
	case panes.CmdEditFile:
		m.modals.Show(modal.EditFileType{
			Name:     cmd.Ref.Name(),
			IsFolder: cmd.Ref.IsFolder(),
			Scope:    cmd.Ref.Scope,
		})
	case panes.CmdSelectConnection:
		m.connection = cmd.Connection
		m.setStatus("Connection: " + cmd.Connection)
	case panes.CmdStatus:
		if cmd.IsError {
			m.setError(cmd.Text)
		} else {
			m.setStatus(cmd.Text)
		}
	case panes.CmdSearch:
		m.openBar(barSearch, m.workspace.Buffer().Pattern())
	case panes.CmdReplace:
		m.openBar(barReplaceFind, m.workspace.Buffer().Pattern())
	}
	return false
}

// handleModalAction interprets what the open modal asked for.
func (m *Model) handleModalAction(a modal.Action) {
	switch a.Kind {
	case modal.ActionClose:
		m.cancelModal()
	case modal.ActionCustom:
		switch a.Button {
		case modal.ButtonCancel:
			m.cancelModal()
		case modal.ButtonSubmit:
			m.submitModal()
		case modal.ButtonDelete:
			m.deleteFromModal()
		}
	}
}

func (m *Model) cancelModal() {
	if _, ok := m.modals.Active().(*modal.PasswordModal); ok && m.pending != nil {
		m.pending = nil
		m.setStatus("Query cancelled")
	}
	m.saveAfterCreate = false
	m.modals.Close()
}

func (m *Model) submitModal() {
	switch md := m.modals.Active().(type) {
	case *modal.PasswordModal:
		m.submitPassword(md)
	case *modal.NewFileModal:
		m.createFromModal(md)
	case *modal.EditFileModal:
		m.renameFromModal(md)
	}
}

// requestQuit quits at once unless the workspace has unsaved changes, in
// which case a second request within quitConfirmWindow is needed.
func (m *Model) requestQuit() bool {
	if !m.workspace.Modified() {
		return true
	}
	now := m.now()
	if now.Sub(m.lastQuitPress) < quitConfirmWindow {
		return true
	}
	m.lastQuitPress = now
	m.setError("Unsaved changes: press ^Q again to quit")
	return false
}

// shutdown persists UI state and stops the watcher.
func (m *Model) shutdown() {
	m.saveState()
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.logger.Debug("closing watcher", "err", err)
		}
	}
}

// saveState persists the current UI state.
func (m *Model) saveState() {
	s := state.State{
		LastConnection:     m.connection,
		ThemeIndex:         theme.CurrentThemeIndex(),
		CollectionsPercent: m.collectionsPercent,
	}
	// State persistence is best-effort
	if err := state.Save(m.settings.UserDir, s); err != nil {
		m.logger.Warn("failed to save state", "err", err)
	}
}

func (m *Model) resizeCollections(delta int) {
	m.collectionsPercent = min(max(m.collectionsPercent+delta, layout.MinCollectionsPercent), layout.MaxCollectionsPercent)
	m.relayout()
}

// relayout recomputes every region and hands each pane and the modal
// manager its rectangle. Clicks are hit-tested against these stored rects.
func (m *Model) relayout() {
	if !m.ready {
		return
	}
	m.layout = layout.Calculate(m.width, m.height, m.collectionsPercent, m.bar.active())
	for id, p := range m.byID {
		p.SetArea(m.layout.PaneRect(id))
	}
	m.modals.SetArea(m.layout.Screen())
	m.bar.setWidth(m.width)
}

func (m *Model) setStatus(text string) {
	m.status, m.statusErr = text, false
	m.statusUntil = m.now().Add(statusDuration)
}

func (m *Model) setError(text string) {
	m.status, m.statusErr = text, true
	m.statusUntil = m.now().Add(2 * statusDuration)
}

func (m *Model) clearStatus() {
	m.status, m.statusErr = "", false
	m.statusUntil = time.Time{}
}

// Nav returns the navigation manager.
func (m *Model) Nav() *navigation.Manager { return m.nav }

// Modals returns the modal manager.
func (m *Model) Modals() *modal.Manager { return m.modals }

// Workspace returns the editor pane.
func (m *Model) Workspace() *panes.Workspace { return m.workspace }

// Results returns the results pane.
func (m *Model) Results() *panes.Results { return m.results }

// Collections returns the collections pane.
func (m *Model) Collections() *panes.Collections { return m.collections }

// Status returns the status line text and whether it is an error.
func (m *Model) Status() (string, bool) { return m.status, m.statusErr }

// View renders the application.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.workspace.View(m.paneInfo(navigation.Workspace)),
		m.results.View(m.paneInfo(navigation.Results)),
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.collections.View(m.paneInfo(navigation.Collections)),
		right,
	)

	rows := []string{m.header.View(m.paneInfo(navigation.Header)), main}
	if m.bar.active() {
		rows = append(rows, m.bar.View())
	}
	rows = append(rows, m.renderStatusBar(), m.renderInstructions())
	screen := lipgloss.JoinVertical(lipgloss.Left, rows...)

	if m.showHelp {
		screen = m.renderHelpOverlay(screen)
	}
	return m.modals.View(screen)
}

func (m *Model) paneInfo(id navigation.PaneID) navigation.PaneInfo {
	info, _ := m.nav.PaneInfo(id)
	return info
}
