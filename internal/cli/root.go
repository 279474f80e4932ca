// Package cli holds the sqli command line: the interactive TUI as the root
// command plus a few non-interactive helpers.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/avitaltamir/sqli/internal/app"
	"github.com/avitaltamir/sqli/internal/config"
)

// LogFileName is the log file inside the user directory.
const LogFileName = "sqli.log"

// env carries what the subcommands share once flags are parsed.
type env struct {
	configDir string
	debug     bool

	settings config.Settings
	logger   *slog.Logger
	logFile  io.Closer
}

// NewRootCmd builds the command tree. version is shown by --version and in
// the status bar.
func NewRootCmd(version string) *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "sqli",
		Short: "Interactive terminal SQL client",
		Long: `sqli is a terminal SQL client. Queries live as .sql files in
collections, either per user (~/.config/sqli/collections) or per project
(./sqli). Run without arguments to open the interactive UI.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			e.teardown()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runTUI(cmd.Context(), version)
		},
	}

	root.PersistentFlags().StringVar(&e.configDir, "config-dir", "",
		"directory for config.yaml, state and user collections (env "+config.EnvConfigDir+")")
	root.PersistentFlags().BoolVar(&e.debug, "debug", false, "write debug logs to "+LogFileName)

	root.AddCommand(newConfigCmd(e), newQueryCmd(e))
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, version string) error {
	return NewRootCmd(version).ExecuteContext(ctx)
}

// setup resolves the directories and opens the log file.
func (e *env) setup() error {
	settings, err := config.DefaultSettings()
	if err != nil {
		return err
	}
	if e.configDir != "" {
		settings.UserDir = e.configDir
	}
	if err := settings.EnsureUserDir(); err != nil {
		return err
	}
	e.settings = settings

	level := slog.LevelInfo
	if e.debug {
		level = slog.LevelDebug
	}
	path := filepath.Join(settings.UserDir, LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.FilePermissions)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	e.logFile = f
	e.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

func (e *env) teardown() {
	if e.logFile != nil {
		e.logFile.Close()
		e.logFile = nil
	}
}

func (e *env) runTUI(ctx context.Context, version string) error {
	app.Version = version
	e.logger.Info("starting", "version", version, "user_dir", e.settings.UserDir)

	p := tea.NewProgram(
		app.New(app.Options{Settings: e.settings, Logger: e.logger}),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		e.logger.Error("program exited", "err", err)
		return err
	}
	return nil
}
