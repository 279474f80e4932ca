// Package config loads and stores connection definitions and resolves the
// directories sqli works in.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the connections file inside the user directory.
	FileName = "config.yaml"

	// EnvConfigDir overrides the user directory.
	EnvConfigDir = "SQLI_CONFIG_DIR"

	// FilePermissions is used for every file sqli writes.
	FilePermissions = 0o600
	// DirPermissions is used for every directory sqli creates.
	DirPermissions = 0o700

	configDirName = ".config"
	appDirName    = "sqli"
	workspaceDir  = "sqli"
)

// Supported connection types.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgresql"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrUnsupportedDriver  = errors.New("unsupported connection type")
	ErrInvalidConnection  = errors.New("invalid connection")
)

// Settings holds the two directory roots sqli reads from.
type Settings struct {
	// UserDir holds config.yaml, state, logs and user-scope collections.
	UserDir string
	// WorkspaceDir holds local-scope collections, relative to the cwd.
	WorkspaceDir string
}

// DefaultSettings returns ~/.config/sqli and ./sqli, honouring
// SQLI_CONFIG_DIR for the user directory.
func DefaultSettings() (Settings, error) {
	userDir := os.Getenv(EnvConfigDir)
	if userDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Settings{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		userDir = filepath.Join(home, configDirName, appDirName)
	}

	return Settings{
		UserDir:      userDir,
		WorkspaceDir: workspaceDir,
	}, nil
}

// EnsureUserDir creates the user directory with owner-only permissions.
func (s Settings) EnsureUserDir() error {
	if err := os.MkdirAll(s.UserDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.UserDir, err)
	}
	return nil
}

// Connection describes one data store.
type Connection struct {
	Name     string  `yaml:"name"`
	Conn     string  `yaml:"conn"`
	Host     string  `yaml:"host,omitempty"`
	Port     int     `yaml:"port,omitempty"`
	Database string  `yaml:"database"`
	User     string  `yaml:"user,omitempty"`
	Password *string `yaml:"password,omitempty"`

	// Optional TLS material
	ServerCA   string `yaml:"server_ca,omitempty"`
	ClientCert string `yaml:"client_cert,omitempty"`
	ClientKey  string `yaml:"client_key,omitempty"`
}

// RequiresPassword reports whether the user must be prompted before
// connecting. File-backed stores never need one.
func (c Connection) RequiresPassword() bool {
	return c.Password == nil && c.Conn != DriverSQLite
}

// String renders the connection without its password.
func (c Connection) String() string {
	if c.Conn == DriverSQLite {
		return fmt.Sprintf("%s (%s://%s)", c.Name, c.Conn, c.Database)
	}
	return fmt.Sprintf("%s (%s://%s@%s:%d/%s)", c.Name, c.Conn, c.User, c.Host, c.Port, c.Database)
}

// Validate checks the fields a connection needs.
func (c Connection) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConnection)
	}
	if c.Database == "" {
		return fmt.Errorf("%w: database is required", ErrInvalidConnection)
	}
	if !IsSupported(c.Conn) {
		return fmt.Errorf("%w: %q (supported: %s, %s)", ErrUnsupportedDriver, c.Conn, DriverSQLite, DriverPostgres)
	}
	return nil
}

// IsSupported reports whether conn names a driver sqli can open.
func IsSupported(conn string) bool {
	switch conn {
	case DriverSQLite, DriverPostgres:
		return true
	}
	return false
}

// Config is the on-disk shape of config.yaml.
type Config struct {
	Connections []Connection `yaml:"connections"`
}

// Manager reads and writes config.yaml.
type Manager struct {
	path string
}

// NewManager creates a manager for the config file under s.UserDir.
func NewManager(s Settings) *Manager {
	return &Manager{path: filepath.Join(s.UserDir, FileName)}
}

// Path returns the config file location.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the config. A missing file yields an empty config.
func (m *Manager) Load() (*Config, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", m.path, err)
	}
	return &cfg, nil
}

// Save writes the config with owner-only permissions.
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(m.path), DirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(m.path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// AddConnection validates c and stores it, replacing any connection with
// the same name.
func (m *Manager) AddConnection(c Connection) error {
	if err := c.Validate(); err != nil {
		return err
	}

	cfg, err := m.Load()
	if err != nil {
		return err
	}

	kept := cfg.Connections[:0]
	for _, existing := range cfg.Connections {
		if existing.Name != c.Name {
			kept = append(kept, existing)
		}
	}
	cfg.Connections = append(kept, c)

	return m.Save(cfg)
}

// Connection looks up a connection by name.
func (m *Manager) Connection(name string) (Connection, error) {
	cfg, err := m.Load()
	if err != nil {
		return Connection{}, err
	}
	for _, c := range cfg.Connections {
		if c.Name == name {
			return c, nil
		}
	}
	return Connection{}, fmt.Errorf("%w: %s", ErrConnectionNotFound, name)
}

// Connections returns all configured connections sorted by name.
func (m *Manager) Connections() ([]Connection, error) {
	cfg, err := m.Load()
	if err != nil {
		return nil, err
	}
	out := append([]Connection(nil), cfg.Connections...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
