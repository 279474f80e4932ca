package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/sqli/internal/config"
	"github.com/avitaltamir/sqli/internal/modal"
)

// pendingQuery waits for the password modal.
type pendingQuery struct {
	conn  config.Connection
	query string
}

// runQuery runs the workspace text on the selected connection, asking for
// a password first when the connection needs one.
func (m *Model) runQuery() {
	if m.running {
		m.setStatus("A query is already running")
		return
	}
	name, ok := m.header.Connection()
	if !ok {
		m.setError("No connections: add one with `sqli config add`")
		return
	}
	query := strings.TrimSpace(m.workspace.Query())
	if query == "" {
		m.setError("Nothing to run")
		return
	}
	conn, err := m.configs.Connection(name)
	if err != nil {
		m.setError(err.Error())
		return
	}

	if !conn.RequiresPassword() {
		var password string
		if conn.Password != nil {
			password = *conn.Password
		}
		m.startQuery(conn, query, password, false)
		return
	}
	if password, ok := m.passwords[name]; ok {
		m.startQuery(conn, query, password, true)
		return
	}

	m.pending = &pendingQuery{conn: conn, query: query}
	m.modals.Show(modal.PasswordType{})
}

// submitPassword closes the modal and hands the value over through the
// manager's result slot.
func (m *Model) submitPassword(p *modal.PasswordModal) {
	if p.Value() == "" {
		p.SetError("password is required")
		return
	}
	password := p.Value()
	m.modals.Close()
	m.modals.StoreResult(password)
	m.resumePending()
}

func (m *Model) resumePending() {
	pending := m.pending
	m.pending = nil
	password, ok := m.modals.TakeResult()
	if pending == nil || !ok {
		return
	}
	m.passwords[pending.conn.Name] = password
	m.startQuery(pending.conn, pending.query, password, true)
}

// startQuery runs the query off the event loop. The result comes back as a
// QueryFinishedMsg.
func (m *Model) startQuery(conn config.Connection, query, password string, prompted bool) {
	m.running = true
	m.header.SetRunning(true)
	m.logger.Debug("running query", "connection", conn.Name, "bytes", len(query))

	open, timeout := m.open, m.queryTimeout
	m.queue(func() tea.Msg {
		msg := QueryFinishedMsg{Connection: conn.Name, Query: query, UsedPassword: prompted}

		exec, err := open(conn, password)
		if err != nil {
			msg.Err = err
			return msg
		}
		defer exec.Close()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msg.Result, msg.Err = exec.Query(ctx, query)
		if errors.Is(msg.Err, context.DeadlineExceeded) {
			msg.Err = fmt.Errorf("query timed out after %s: %w", timeout, msg.Err)
		}
		return msg
	})
}

func (m *Model) finishQuery(msg QueryFinishedMsg) {
	m.running = false
	m.header.SetRunning(false)

	if msg.Err != nil {
		m.logger.Warn("query failed", "connection", msg.Connection, "err", msg.Err)
		// A rejected password is asked for again next time.
		if msg.UsedPassword {
			delete(m.passwords, msg.Connection)
		}
		m.results.SetError(msg.Err)
		m.setError("Query failed")
		return
	}

	m.logger.Debug("query finished",
		"connection", msg.Connection,
		"rows", len(msg.Result.Rows),
		"elapsed", msg.Result.Elapsed)
	m.results.SetResult(msg.Result)
	m.setStatus(m.results.Info())
}
