// Package driver opens connections and runs queries, returning results as
// rows of strings ready for display.
package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/avitaltamir/sqli/internal/config"
)

// NullText is shown for SQL NULL values.
const NullText = "NULL"

var ErrEmptyQuery = errors.New("query is empty")

// Result is the tabular outcome of one statement.
type Result struct {
	Columns []string
	Rows    [][]string
	// RowsAffected is set for statements that return no columns.
	RowsAffected int64
	Elapsed      time.Duration
}

// Executor runs queries against one connection.
type Executor interface {
	Query(ctx context.Context, query string) (Result, error)
	Close() error
}

// SQLExecutor is an Executor backed by database/sql and the sqlite driver.
type SQLExecutor struct {
	db *sql.DB
}

// New opens the connection described by conn. password is used when the
// connection does not store one.
func New(conn config.Connection, password string) (Executor, error) {
	switch conn.Conn {
	case config.DriverSQLite:
		return openSQLite(conn)
	case config.DriverPostgres:
		return openPostgres(context.Background(), conn, password)
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedDriver, conn.Conn)
}

func openSQLite(conn config.Connection) (*SQLExecutor, error) {
	db, err := sql.Open("sqlite3", conn.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", conn.Name, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", conn.Name, err)
	}
	// In-memory databases exist per connection.
	db.SetMaxOpenConns(1)

	return &SQLExecutor{db: db}, nil
}

// Close releases the underlying pool.
func (e *SQLExecutor) Close() error {
	return e.db.Close()
}

// Query runs one statement. Statements that yield no columns report the
// number of affected rows instead.
func (e *SQLExecutor) Query(ctx context.Context, query string) (Result, error) {
	if isBlank(query) {
		return Result{}, ErrEmptyQuery
	}

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read columns: %w", err)
	}

	res := Result{Columns: cols}
	if len(cols) == 0 {
		// The statement only runs once stepped.
		for rows.Next() {
		}
		if err := rows.Err(); err != nil {
			return Result{}, fmt.Errorf("query failed: %w", err)
		}
		rows.Close()
		// The pool holds a single connection, so changes() sees this statement.
		if err := e.db.QueryRowContext(ctx, "SELECT changes()").Scan(&res.RowsAffected); err != nil {
			return Result{}, fmt.Errorf("failed to read affected rows: %w", err)
		}
		res.Elapsed = time.Since(start)
		return res, nil
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = format(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("query failed: %w", err)
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return NullText
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', ';':
		default:
			return false
		}
	}
	return true
}
