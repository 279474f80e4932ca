package collection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avitaltamir/sqli/internal/config"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(config.Settings{UserDir: t.TempDir(), WorkspaceDir: t.TempDir()})
}

func TestScope(t *testing.T) {
	assert.Equal(t, "local", ScopeLocal.String())
	assert.Equal(t, "user", ScopeUser.String())

	s, err := ParseScope("USER")
	require.NoError(t, err)
	assert.Equal(t, ScopeUser, s)

	s, err = ParseScope("cwd")
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, s)

	_, err = ParseScope("galaxy")
	assert.Error(t, err)
}

func TestPathRejectsEscapes(t *testing.T) {
	s := testStore(t)

	tests := []string{"../etc/passwd", "a/../../b", "/abs/path", ""}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Path(ScopeLocal, name)
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}

	p, err := s.Path(ScopeUser, "reports", "daily.sql")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(ScopeUser), "reports", "daily.sql"), p)
}

func TestCreateAndLoad(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Create("reports", true, ScopeUser))
	require.NoError(t, s.Create("reports/daily", false, ScopeUser))
	require.NoError(t, s.Create("reports/weekly.sql", false, ScopeUser))
	require.NoError(t, s.Create("scratch/try.sql", false, ScopeLocal))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(ScopeUser), "reports", "notes.txt"), nil, 0o600))

	cols, err := s.Load()
	require.NoError(t, err)

	want := []Collection{
		{Name: "reports", Files: []string{"daily.sql", "weekly.sql"}, Scope: ScopeUser},
		{Name: "scratch", Files: []string{"try.sql"}, Scope: ScopeLocal},
	}
	if diff := cmp.Diff(want, cols); diff != "" {
		t.Errorf("collections mismatch (-want +got):\n%s", diff)
	}
}

func TestCreatePermissions(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Create("secure", true, ScopeLocal))
	require.NoError(t, s.Create("secure/q.sql", false, ScopeLocal))

	dirInfo, err := os.Stat(filepath.Join(s.Dir(ScopeLocal), "secure"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(filepath.Join(s.Dir(ScopeLocal), "secure", "q.sql"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fileInfo.Mode().Perm())
}

func TestCreateExisting(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Create("x/q.sql", false, ScopeLocal))

	err := s.Create("x/q.sql", false, ScopeLocal)
	assert.ErrorIs(t, err, ErrExists)
}

func TestLoadMissingRoots(t *testing.T) {
	s := NewStore(config.Settings{
		UserDir:      filepath.Join(t.TempDir(), "nope"),
		WorkspaceDir: filepath.Join(t.TempDir(), "nope"),
	})

	cols, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestReadAndSave(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.SaveFile(ScopeLocal, "app", "users.sql", "SELECT * FROM users;"))

	got, err := s.ReadFile(ScopeLocal, "app", "users.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users;", got)

	_, err = s.ReadFile(ScopeLocal, "app", "missing.sql")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRename(t *testing.T) {
	t.Run("same scope", func(t *testing.T) {
		s := testStore(t)
		require.NoError(t, s.SaveFile(ScopeLocal, "app", "a.sql", "SELECT 1;"))

		require.NoError(t, s.Rename("app/a.sql", "app/b.sql", ScopeLocal, ScopeLocal))

		got, err := s.ReadFile(ScopeLocal, "app", "b.sql")
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1;", got)
	})

	t.Run("folder across scopes", func(t *testing.T) {
		s := testStore(t)
		require.NoError(t, s.SaveFile(ScopeLocal, "app", "a.sql", "SELECT 1;"))

		require.NoError(t, s.Rename("app", "app", ScopeLocal, ScopeUser))

		got, err := s.ReadFile(ScopeUser, "app", "a.sql")
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1;", got)

		_, err = os.Stat(filepath.Join(s.Dir(ScopeLocal), "app"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("target exists", func(t *testing.T) {
		s := testStore(t)
		require.NoError(t, s.SaveFile(ScopeLocal, "app", "a.sql", ""))
		require.NoError(t, s.SaveFile(ScopeLocal, "app", "b.sql", ""))

		err := s.Rename("app/a.sql", "app/b.sql", ScopeLocal, ScopeLocal)
		assert.ErrorIs(t, err, ErrExists)
	})

	t.Run("source missing", func(t *testing.T) {
		s := testStore(t)

		err := s.Rename("ghost.sql", "b.sql", ScopeLocal, ScopeLocal)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveFile(ScopeUser, "app", "a.sql", ""))
	require.NoError(t, s.SaveFile(ScopeUser, "app", "b.sql", ""))

	require.NoError(t, s.Delete("app/a.sql", false, ScopeUser))
	cols, err := s.Load()
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, []string{"b.sql"}, cols[0].Files)

	require.NoError(t, s.Delete("app", true, ScopeUser))
	cols, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, cols)

	assert.ErrorIs(t, s.Delete("app", true, ScopeUser), ErrNotFound)
}

func TestWatchDirs(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Create("app", true, ScopeLocal))

	dirs := s.WatchDirs()

	assert.Contains(t, dirs, s.Dir(ScopeLocal))
	assert.Contains(t, dirs, filepath.Join(s.Dir(ScopeLocal), "app"))
	assert.NotContains(t, dirs, s.Dir(ScopeUser), "missing user root is skipped")
}
