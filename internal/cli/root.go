package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"atomic-checklist/internal/checklist"
	"atomic-checklist/internal/config"
	"atomic-checklist/internal/content"
	"atomic-checklist/internal/format"
	"atomic-checklist/internal/logging"
	"atomic-checklist/internal/model"
	"atomic-checklist/internal/store"
	"atomic-checklist/internal/tui"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	Content    string
	StateDir   string
	Backend    string
	Namespace  string
	Format     string
	PrettyJSON bool
	LogFile    string
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "checklist",
		Short:        "Atomic study checklist (TUI + CLI + web)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  checklist

  # Scriptable commands
  checklist status --format text
  checklist items --query "binding energy"
  checklist check "chapter-1-atoms::basics::nucleus"

  # Direct item lookup (shortcut for: checklist items show <item-key>)
  checklist "chapter-1-atoms::basics::nucleus"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.Valid(app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format: %s (want json|edn|text)", app.Format))
		}
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigPath, "config", envOr("CHECKLIST_CONFIG", ""), "Path to checklist.yml (default: config dir)")
	pf.StringVar(&app.Content, "content", "", "Content document: file path, URL or - for stdin")
	pf.StringVar(&app.StateDir, "state-dir", "", "Directory holding saved progress")
	pf.StringVar(&app.Backend, "backend", "", "Storage backend (file|sqlite|memory)")
	pf.StringVar(&app.Namespace, "namespace", "", "Storage slot name")
	pf.StringVar(&app.Format, "format", envOr("CHECKLIST_FORMAT", format.JSON), "Output format (json|edn|text)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.StringVar(&app.LogFile, "log-file", "", "Append logs to this file")
	pf.StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newMarkCmd(app, "check", "Mark an item complete"))
	cmd.AddCommand(newMarkCmd(app, "uncheck", "Mark an item incomplete"))
	cmd.AddCommand(newMarkCmd(app, "toggle", "Flip an item's completion"))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// loadConfig reads the config file and env, then applies flag overrides.
func loadConfig(app *App) (*config.Config, string, error) {
	path := strings.TrimSpace(app.ConfigPath)
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}

	if v := strings.TrimSpace(app.Content); v != "" {
		cfg.Content = v
	}
	if v := strings.TrimSpace(app.StateDir); v != "" {
		cfg.Storage.Dir = v
	}
	if v := strings.TrimSpace(app.Backend); v != "" {
		cfg.Storage.Backend = v
	}
	if v := strings.TrimSpace(app.Namespace); v != "" {
		cfg.Storage.Namespace = v
	}
	if v := strings.TrimSpace(app.LogFile); v != "" {
		cfg.Log.File = v
	}
	if v := strings.TrimSpace(app.LogLevel); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// session is everything a command needs to read or change progress.
type session struct {
	cfg      *config.Config
	stateDir string
	doc      *model.Document
	progress *store.Progress
	persist  *strictPersister
	ctl      *checklist.Controller
	log      *log.Logger

	closeLog func() error
}

func (s *session) Close() error {
	if s.closeLog == nil {
		return nil
	}
	return s.closeLog()
}

// openSession loads config, content and saved progress. Logs go to logW
// unless a log file is configured.
func openSession(cmd *cobra.Command, app *App, logW io.Writer) (*session, error) {
	cfg, _, err := loadConfig(app)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Writer: logW})
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, log: logger, closeLog: closeLog}

	ctx := cmd.Context()
	doc, err := content.Loader{Stdin: cmd.InOrStdin()}.Load(ctx, cfg.Content)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.doc = doc

	dir := strings.TrimSpace(cfg.Storage.Dir)
	if dir == "" {
		if dir, err = store.DefaultDir(); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	s.stateDir = dir

	backend, err := store.Open(cfg.Storage.Backend, dir)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.progress = store.NewProgress(backend, cfg.Storage.Namespace, logger)
	s.persist = &strictPersister{Progress: s.progress, log: logger}
	s.ctl = checklist.New(ctx, doc, s.persist, logger)
	logger.Debug("session ready", "content", cfg.Content, "backend", backend.Name(), "dir", dir, "items", doc.ItemCount())
	return s, nil
}

// strictPersister keeps the controller's best-effort contract but remembers
// the last write failure so a command can exit non-zero. Failures are still
// logged for sessions that never inspect err.
type strictPersister struct {
	*store.Progress
	log *log.Logger
	err error
}

func (p *strictPersister) Save(ctx context.Context, st model.ProgressState) {
	p.err = p.Progress.SaveStrict(ctx, st)
	if p.err != nil {
		p.log.Warn("unable to save checklist progress", "err", p.err)
	}
}

func (p *strictPersister) Clear(ctx context.Context) {
	p.err = p.Progress.ClearStrict(ctx)
	if p.err != nil {
		p.log.Warn("unable to clear checklist progress", "err", p.err)
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	// The TUI owns the terminal: logs only go to a file.
	s, err := openSession(cmd, app, io.Discard)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = "."
	}
	return tui.Run(cmd.Context(), tui.Options{
		Controller: s.ctl,
		Logger:     s.log,
		Theme:      s.cfg.TUI.Theme,
		Glyphs:     s.cfg.TUI.Glyphs,
		ExportDir:  exportDir,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
