// Package cli wires configuration, storage and the task manager into a
// cobra command tree. The bare command launches the TUI.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taskpad/internal/config"
	"taskpad/internal/logger"
	"taskpad/internal/manager"
	"taskpad/internal/storage"
	"taskpad/internal/ui"
)

// app carries global flags and the clock shared by every subcommand.
type app struct {
	configPath string
	verbose    bool
	ephemeral  bool
	version    string
	now        func() time.Time
}

// session is an opened config, store and manager.
type session struct {
	cfg   config.Config
	mgr   *manager.Manager
	log   *slog.Logger
	store *storage.Store // nil with --ephemeral
	close func() error
}

// NewRootCmd builds the full command tree.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(&app{version: version, now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskpad",
		Short: "taskpad - a terminal task manager",
		Long: `taskpad keeps active and completed tasks in a local SQLite file.

Run without arguments to open the interactive view, or use the subcommands
for scripting.`,
		RunE:          a.runTUI, // Default action is the TUI
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Version = a.version

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default $TASKPAD_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.ephemeral, "ephemeral", false, "Keep tasks in memory only")

	rootCmd.AddCommand(
		a.addCmd(),
		a.editCmd(),
		a.showCmd(),
		a.doneCmd(),
		a.recoverCmd(),
		a.deleteCmd(),
		a.listCmd(),
		a.importantCmd(),
		a.urgentCmd(),
		a.calendarCmd(),
		a.configCmd(),
		a.versionCmd(),
	)
	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) resolveConfigPath() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.ResolveConfigPath()
}

func (a *app) logLevel(cfg config.Config) string {
	if a.verbose {
		return "debug"
	}
	return cfg.LogLevel
}

// open loads config and storage. Logs go to logOut when non-nil, otherwise
// to the configured log file. notifier receives the session logger.
func (a *app) open(logOut io.Writer, notifier func(*slog.Logger) manager.Notifier) (*session, error) {
	cfg, err := config.LoadOrCreate(a.resolveConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	closers := []func() error{}
	if logOut == nil {
		f, err := logger.OpenFile(cfg.LogPath)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		closers = append(closers, f.Close)
		logOut = f
	}
	log := logger.Init(logOut, a.logLevel(cfg), cfg.LogFormat)

	var (
		kv    storage.KV
		store *storage.Store
	)
	if a.ephemeral {
		kv = storage.NewMemory()
		log.Debug("using in-memory storage")
	} else {
		store, err = storage.Open(cfg.DBPath)
		if err != nil {
			for _, c := range closers {
				_ = c()
			}
			return nil, err
		}
		closers = append([]func() error{store.Close}, closers...)
		kv = store
	}

	mgr := manager.New(storage.NewAdapter(kv, log),
		manager.WithNotifier(notifier(log)),
		manager.WithClock(a.now),
		manager.WithLogger(log),
	)
	return &session{
		cfg:   cfg,
		mgr:   mgr,
		log:   log,
		store: store,
		close: func() error {
			var first error
			for _, c := range closers {
				if err := c(); err != nil && first == nil {
					first = err
				}
			}
			return first
		},
	}, nil
}

// openCLI opens a session that logs and notifies on the command's stderr.
func (a *app) openCLI(cmd *cobra.Command) (*session, error) {
	stderr := cmd.ErrOrStderr()
	notify := manager.NotifierFunc(func(title string, _ manager.Severity, message string) {
		if message == "" {
			fmt.Fprintln(stderr, title)
			return
		}
		fmt.Fprintf(stderr, "%s: %s\n", title, message)
	})
	return a.open(stderr, func(*slog.Logger) manager.Notifier { return notify })
}

// tuiNotifier feeds the status line and records every notification in the
// log file at the matching level.
func tuiNotifier(sink *ui.StatusSink, log *slog.Logger) manager.Notifier {
	return manager.Notifiers{sink, manager.LogNotifier{Log: log}}
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	sink := ui.NewStatusSink()
	s, err := a.open(nil, func(log *slog.Logger) manager.Notifier {
		return tuiNotifier(sink, log)
	})
	if err != nil {
		return err
	}
	defer s.close()

	s.log.Info("starting tui", "db", s.cfg.DBPath, "ephemeral", a.ephemeral)
	return ui.Run(s.mgr, s.cfg, sink)
}

func (a *app) configCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.resolveConfigPath())
			return nil
		},
	})
	return configCmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "taskpad %s\n", a.version)
			return nil
		},
	}
}
