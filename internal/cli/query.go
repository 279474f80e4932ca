package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/avitaltamir/sqli/internal/app"
	"github.com/avitaltamir/sqli/internal/config"
	"github.com/avitaltamir/sqli/internal/driver"
)

// maxCellWidth caps a printed column.
const maxCellWidth = 60

var errPasswordRequired = errors.New("connection needs a password; store one with 'sqli config add --password'")

func newQueryCmd(e *env) *cobra.Command {
	var (
		connName string
		file     string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run one query and print the result",
		Long: `Run a single statement without opening the UI.

Examples:
  sqli query --conn local "SELECT * FROM users"
  sqli query --conn local --file sqli/reports/daily.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := queryText(args, file)
			if err != nil {
				return err
			}

			conn, err := resolveConnection(config.NewManager(e.settings), connName)
			if err != nil {
				return err
			}
			if conn.RequiresPassword() {
				return fmt.Errorf("%s: %w", conn.Name, errPasswordRequired)
			}
			var password string
			if conn.Password != nil {
				password = *conn.Password
			}

			exec, err := driver.New(conn, password)
			if err != nil {
				return err
			}
			defer exec.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			e.logger.Debug("query", "connection", conn.Name, "bytes", len(query))
			res, err := exec.Query(ctx, query)
			if err != nil {
				e.logger.Warn("query failed", "connection", conn.Name, "err", err)
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&connName, "conn", "c", "", "connection name (defaults to the only one configured)")
	f.StringVarP(&file, "file", "f", "", "read the query from a file")
	f.DurationVar(&timeout, "timeout", app.DefaultQueryTimeout, "query timeout")
	return cmd
}

func queryText(args []string, file string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", errors.New("give either SQL or --file, not both")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read query: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}
	return "", errors.New("no query: pass SQL or --file")
}

// resolveConnection finds name, or the single configured connection when
// name is empty.
func resolveConnection(m *config.Manager, name string) (config.Connection, error) {
	if name != "" {
		return m.Connection(name)
	}
	conns, err := m.Connections()
	if err != nil {
		return config.Connection{}, err
	}
	switch len(conns) {
	case 0:
		return config.Connection{}, fmt.Errorf("%w: none configured", config.ErrConnectionNotFound)
	case 1:
		return conns[0], nil
	}
	return config.Connection{}, errors.New("several connections configured: choose one with --conn")
}

func printResult(w io.Writer, res driver.Result) {
	if len(res.Columns) == 0 {
		fmt.Fprintf(w, "%d rows affected (%s)\n", res.RowsAffected, res.Elapsed.Round(time.Millisecond))
		return
	}
	writeTable(w, res.Columns, res.Rows)
	fmt.Fprintf(w, "\n%d rows (%s)\n", len(res.Rows), res.Elapsed.Round(time.Millisecond))
}

// writeTable prints rows under header with columns padded to their widest
// cell in terminal cells, so wide runes line up.
func writeTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxCellWidth)
	}

	line := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(cells) {
				cell = strings.ReplaceAll(cells[i], "\n", " ")
			}
			cell = runewidth.Truncate(cell, widths[i], "…")
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	line(header)
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("─", n)
	}
	fmt.Fprintln(w, strings.Join(sep, "  "))
	for _, row := range rows {
		line(row)
	}
}
