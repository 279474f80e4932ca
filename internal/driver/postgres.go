package driver

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/avitaltamir/sqli/internal/config"
)

// DefaultPostgresPort is used when a connection leaves the port unset.
const DefaultPostgresPort = 5432

// PostgresExecutor is an Executor backed by a single pgx connection.
type PostgresExecutor struct {
	mu   sync.Mutex
	conn *pgx.Conn
}

func openPostgres(ctx context.Context, conn config.Connection, password string) (*PostgresExecutor, error) {
	cfg, err := pgx.ParseConfig(postgresDSN(conn, password))
	if err != nil {
		return nil, fmt.Errorf("failed to configure %s: %w", conn.Name, err)
	}
	pg, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", conn.Name, err)
	}
	return &PostgresExecutor{conn: pg}, nil
}

// postgresDSN builds a connection URL for conn. A stored password wins over
// the prompted one. TLS files map onto libpq's ssl parameters, and a server
// CA turns on full verification.
func postgresDSN(conn config.Connection, password string) string {
	if conn.Password != nil {
		password = *conn.Password
	}
	host := conn.Host
	if host == "" {
		host = "localhost"
	}
	port := conn.Port
	if port == 0 {
		port = DefaultPostgresPort
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + conn.Database,
	}
	switch {
	case conn.User != "" && password != "":
		u.User = url.UserPassword(conn.User, password)
	case conn.User != "":
		u.User = url.User(conn.User)
	}

	q := url.Values{}
	q.Set("sslmode", "prefer")
	if conn.ServerCA != "" {
		q.Set("sslmode", "verify-full")
		q.Set("sslrootcert", conn.ServerCA)
	}
	if conn.ClientCert != "" {
		q.Set("sslcert", conn.ClientCert)
	}
	if conn.ClientKey != "" {
		q.Set("sslkey", conn.ClientKey)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Close ends the session.
func (e *PostgresExecutor) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.conn.Close(ctx)
}

// Query runs the statement over the simple protocol, so every value arrives
// as server-formatted text and several statements may be sent at once.
func (e *PostgresExecutor) Query(ctx context.Context, query string) (Result, error) {
	if isBlank(query) {
		return Result{}, ErrEmptyQuery
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	rows, err := e.conn.Query(ctx, query, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return Result{}, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	res := Result{Columns: make([]string, len(fields))}
	for i, f := range fields {
		res.Columns[i] = f.Name
	}

	for rows.Next() {
		raw := rows.RawValues()
		row := make([]string, len(fields))
		for i := range row {
			if i >= len(raw) || raw[i] == nil {
				row[i] = NullText
				continue
			}
			row[i] = string(raw[i])
		}
		res.Rows = append(res.Rows, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("query failed: %w", err)
	}

	if len(fields) == 0 {
		res.Columns = nil
		res.Rows = nil
		res.RowsAffected = rows.CommandTag().RowsAffected()
	}
	res.Elapsed = time.Since(start)
	return res, nil
}
