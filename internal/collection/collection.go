// Package collection manages saved query files grouped into folders.
//
// Two roots exist: the user scope under the config directory and the local
// scope relative to the working directory. Every path handed to the store
// is relative to one of them and may not escape it.
package collection

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/avitaltamir/sqli/internal/config"
)

// QueryExt is the extension of files shown in collections.
const QueryExt = ".sql"

var (
	ErrInvalidName = errors.New("invalid name")
	ErrExists      = errors.New("file or folder already exists")
	ErrNotFound    = errors.New("file or folder does not exist")
)

// Scope selects which root a collection lives under.
type Scope int

const (
	ScopeLocal Scope = iota
	ScopeUser
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeLocal:
		return "local"
	case ScopeUser:
		return "user"
	default:
		return "unknown"
	}
}

// ParseScope parses "local" or "user".
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(s) {
	case "local", "cwd":
		return ScopeLocal, nil
	case "user":
		return ScopeUser, nil
	default:
		return ScopeLocal, fmt.Errorf("unknown scope %q", s)
	}
}

// Collection is one folder of query files.
type Collection struct {
	Name  string
	Files []string
	Scope Scope
}

// Store performs collection file operations.
type Store struct {
	userDir  string
	localDir string
}

// NewStore creates a store rooted at the directories in s.
func NewStore(s config.Settings) *Store {
	return &Store{
		userDir:  filepath.Join(s.UserDir, "collections"),
		localDir: s.WorkspaceDir,
	}
}

// Dir returns the root directory for scope.
func (s *Store) Dir(scope Scope) string {
	if scope == ScopeUser {
		return s.userDir
	}
	return s.localDir
}

// Path joins rel onto the scope root, rejecting absolute paths and parent
// references.
func (s *Store) Path(scope Scope, rel ...string) (string, error) {
	joined := filepath.Join(rel...)
	if joined == "" || joined == "." || filepath.IsAbs(joined) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, joined)
	}
	for _, part := range strings.Split(filepath.ToSlash(joined), "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q contains a parent reference", ErrInvalidName, joined)
		}
	}
	return filepath.Join(s.Dir(scope), joined), nil
}

// Load lists user collections followed by local ones, each sorted by name.
func (s *Store) Load() ([]Collection, error) {
	var out []Collection
	for _, scope := range []Scope{ScopeUser, ScopeLocal} {
		cols, err := s.loadDir(scope)
		if err != nil {
			return nil, err
		}
		out = append(out, cols...)
	}
	return out, nil
}

func (s *Store) loadDir(scope Scope) ([]Collection, error) {
	dir := s.Dir(scope)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var cols []Collection
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}

		files, err := os.ReadDir(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read collection %s: %w", e.Name(), err)
		}

		col := Collection{Name: e.Name(), Scope: scope}
		for _, f := range files {
			if f.Type().IsRegular() && filepath.Ext(f.Name()) == QueryExt {
				col.Files = append(col.Files, f.Name())
			}
		}
		sort.Strings(col.Files)
		cols = append(cols, col)
	}

	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	return cols, nil
}

// ReadFile returns the text of a query file.
func (s *Store) ReadFile(scope Scope, collection, file string) (string, error) {
	path, err := s.Path(scope, collection, file)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s (%s)", ErrNotFound, path, scope)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// SaveFile writes content to a query file, creating its collection if needed.
func (s *Store) SaveFile(scope Scope, collection, file, content string) error {
	path, err := s.Path(scope, collection, file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), config.FilePermissions); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Create makes a new folder or empty query file. name may include a
// collection prefix such as "reports/daily". Files get the .sql extension
// when they have none.
func (s *Store) Create(name string, isFolder bool, scope Scope) error {
	if !isFolder && filepath.Ext(name) == "" {
		name += QueryExt
	}
	path, err := s.Path(scope, name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}

	if isFolder {
		if err := os.MkdirAll(path, config.DirPermissions); err != nil {
			return fmt.Errorf("failed to create folder: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, config.FilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return f.Close()
}

// Rename moves a file or folder, possibly across scopes.
func (s *Store) Rename(oldName, newName string, oldScope, newScope Scope) error {
	oldPath, err := s.Path(oldScope, oldName)
	if err != nil {
		return err
	}
	newPath, err := s.Path(newScope, newName)
	if err != nil {
		return err
	}

	info, err := os.Stat(oldPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	if _, err := os.Stat(newPath); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, newName)
	}
	if err := os.MkdirAll(filepath.Dir(newPath), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	if oldScope == newScope {
		if err := os.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("failed to rename: %w", err)
		}
		return nil
	}

	// Scopes may sit on different filesystems, so copy then remove.
	if info.IsDir() {
		if err := copyDir(oldPath, newPath); err != nil {
			return err
		}
		return os.RemoveAll(oldPath)
	}
	if err := copyFile(oldPath, newPath); err != nil {
		return err
	}
	return os.Remove(oldPath)
}

// Delete removes a file or a whole folder.
func (s *Store) Delete(name string, isFolder bool, scope Scope) error {
	path, err := s.Path(scope, name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if isFolder {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// WatchDirs returns the directories whose changes affect Load: both roots
// and every collection folder that currently exists.
func (s *Store) WatchDirs() []string {
	var dirs []string
	for _, scope := range []Scope{ScopeUser, ScopeLocal} {
		root := s.Dir(scope)
		if _, err := os.Stat(root); err != nil {
			continue
		}
		dirs = append(dirs, root)
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	return dirs
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, config.DirPermissions)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
