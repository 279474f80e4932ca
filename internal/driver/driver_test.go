package driver

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/avitaltamir/sqli/internal/config"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryExecutor(t *testing.T) *SQLExecutor {
	t.Helper()
	e, err := openSQLite(config.Connection{Name: "mem", Conn: config.DriverSQLite, Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestNewUnsupported(t *testing.T) {
	_, err := New(config.Connection{Name: "ora", Conn: "oracle", Database: "app"}, "pw")
	assert.ErrorIs(t, err, config.ErrUnsupportedDriver)
}

func TestQuery(t *testing.T) {
	e := memoryExecutor(t)
	ctx := context.Background()

	res, err := e.Query(ctx, "CREATE TABLE users (id INTEGER, name TEXT, score REAL)")
	require.NoError(t, err)
	assert.Empty(t, res.Columns)

	res, err = e.Query(ctx, "INSERT INTO users VALUES (1, 'ada', 9.5), (2, 'linus', NULL)")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RowsAffected)

	res, err = e.Query(ctx, "SELECT id, name, score FROM users ORDER BY id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "score"}, res.Columns)
	want := [][]string{
		{"1", "ada", "9.5"},
		{"2", "linus", NullText},
	}
	if diff := cmp.Diff(want, res.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Greater(t, res.Elapsed, time.Duration(0))
}

func TestQueryErrors(t *testing.T) {
	e := memoryExecutor(t)

	t.Run("blank", func(t *testing.T) {
		_, err := e.Query(context.Background(), "  ;\n")
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("syntax", func(t *testing.T) {
		_, err := e.Query(context.Background(), "SELEKT 1")
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.Query(ctx, "SELECT 1")
		assert.Error(t, err)
	})
}

func TestFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	conn := config.Connection{Name: "file", Conn: config.DriverSQLite, Database: path}

	e, err := New(conn, "")
	require.NoError(t, err)
	_, err = e.Query(context.Background(), "CREATE TABLE t (v TEXT)")
	require.NoError(t, err)
	_, err = e.Query(context.Background(), "INSERT INTO t VALUES ('kept')")
	require.NoError(t, err)
	require.NoError(t, e.Close())

	e, err = New(conn, "")
	require.NoError(t, err)
	defer e.Close()

	res, err := e.Query(context.Background(), "SELECT v FROM t")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"kept"}}, res.Rows)
}
