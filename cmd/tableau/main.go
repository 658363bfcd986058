package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	charmLog "github.com/charmbracelet/log"
	"github.com/evanschultz/tableau/internal/adapters/storage/memory"
	"github.com/evanschultz/tableau/internal/adapters/storage/sqlite"
	"github.com/evanschultz/tableau/internal/app"
	"github.com/evanschultz/tableau/internal/config"
	"github.com/evanschultz/tableau/internal/domain"
	"github.com/evanschultz/tableau/internal/platform"
	"github.com/evanschultz/tableau/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		// fang already printed the error.
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetIn(os.Stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	appName    string
	devMode    bool
}

// newRootCommand builds the tableau command tree.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{appName: "tableau", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("TABLEAU_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("TABLEAU_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:   "tableau",
		Short: "Tableau de bord des tâches dans le terminal",
		Long:  "tableau affiche un tableau de bord de tâches : statistiques, ajout, recherche et bascule terminée/en cours. Les tâches vivent uniquement en mémoire le temps de la session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts, stderr)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newRenderCommand(opts, stdout, stderr),
		newPathsCommand(opts, stdout),
		newInitConfigCommand(opts, stdout),
	)
	return root
}

// newRenderCommand builds the headless one-shot render command.
func newRenderCommand(opts *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	var (
		search string
		width  int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print one static render of a freshly seeded dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if width <= 0 {
				return fmt.Errorf("invalid --width %d: must be positive", width)
			}
			ctx := cmd.Context()
			sess, err := openSession(ctx, opts, "render", stderr)
			if err != nil {
				return err
			}
			defer sess.Close()

			sess.logger.Info("command flow start", "command", "render", "width", width, "search", search)
			out, err := tui.RenderDashboard(ctx, sess.svc, width,
				tui.WithKeyConfig(toTUIKeyConfig(sess.cfg.Keys)),
				tui.WithSearchTerm(search),
			)
			if err != nil {
				sess.logger.Error("command flow failed", "command", "render", "err", err)
				return fmt.Errorf("render dashboard: %w", err)
			}
			_, _ = fmt.Fprintln(stdout, out)
			sess.logger.Info("command flow complete", "command", "render")
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "search term applied before rendering")
	cmd.Flags().IntVar(&width, "width", 100, "render width in columns")
	return cmd
}

// newPathsCommand builds the command printing resolved runtime paths.
func newPathsCommand(opts *globalOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and log paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", resolveConfigPath(opts, paths))
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

// newInitConfigCommand builds the command writing a default config file.
func newInitConfigCommand(opts *globalOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write the default config TOML unless one already exists",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			configPath := resolveConfigPath(opts, paths)
			written, err := config.WriteDefault(configPath)
			if err != nil {
				return fmt.Errorf("write default config %q: %w", configPath, err)
			}
			if !written {
				_, _ = fmt.Fprintf(stdout, "config already exists: %s\n", configPath)
				return nil
			}
			_, _ = fmt.Fprintf(stdout, "config written: %s\n", configPath)
			return nil
		},
	}
}

// runTUI runs the interactive dashboard until the user quits.
func runTUI(ctx context.Context, opts *globalOptions, stderr io.Writer) error {
	sess, err := openSession(ctx, opts, "tui", stderr)
	if err != nil {
		return err
	}
	defer sess.Close()

	m := tui.NewModel(sess.svc, tui.WithKeyConfig(toTUIKeyConfig(sess.cfg.Keys)))
	sess.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		sess.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	sess.logger.Info("command flow complete", "command", "tui")
	return nil
}

// repository is the storage surface one session owns.
type repository interface {
	app.Repository
	Close() error
}

// session bundles the per-run state: config, logger, store and service.
type session struct {
	id     string
	cfg    config.Config
	logger *runtimeLogger
	repo   repository
	svc    *app.Service
	stderr io.Writer
}

// openSession resolves config, logging and storage for one command run.
func openSession(ctx context.Context, opts *globalOptions, command string, stderr io.Writer) (*session, error) {
	paths, err := resolvePaths(opts)
	if err != nil {
		return nil, err
	}
	configPath := resolveConfigPath(opts, paths)
	cfg, err := config.Load(configPath, config.Default())
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, paths.LogDir, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// Keep TUI rendering clean: runtime logs stay in the dev-file sink while the dashboard is active.
		logger.SetConsoleEnabled(false)
	}

	sess := &session{id: uuid.NewString(), cfg: cfg, logger: logger, stderr: stderr}
	logger.Info("startup configuration resolved", "session_id", sess.id, "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "log_dir", paths.LogDir)
	logger.Info("configuration loaded", "config_path", configPath, "backend", cfg.Storage.Backend, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	repo, err := openRepository(cfg.Storage.Backend, sess.id)
	if err != nil {
		logger.Error("repository open failed", "session_id", sess.id, "backend", cfg.Storage.Backend, "err", err)
		sess.closeLogger()
		return nil, fmt.Errorf("open %s repository: %w", cfg.Storage.Backend, err)
	}
	sess.repo = repo
	logger.Info("repository ready", "session_id", sess.id, "backend", cfg.Storage.Backend)

	sess.svc = app.NewService(repo, app.NewSequence(0), nil)
	if cfg.Seed.Enabled {
		seeds, err := toSeedTasks(cfg.Seed.Tasks)
		if err == nil {
			err = sess.svc.SeedTasks(ctx, seeds)
		}
		if err != nil {
			logger.Error("seeding failed", "session_id", sess.id, "err", err)
			sess.closeStore()
			sess.closeLogger()
			return nil, fmt.Errorf("seed tasks: %w", err)
		}
		logger.Debug("session seeded", "session_id", sess.id, "count", len(seeds))
	}
	return sess, nil
}

// Close releases the store and the log sinks.
func (s *session) Close() {
	if s == nil {
		return
	}
	s.closeStore()
	s.closeLogger()
}

func (s *session) closeStore() {
	if s.repo == nil {
		return
	}
	if err := s.repo.Close(); err != nil {
		s.logger.Warn("repository close failed", "session_id", s.id, "backend", s.cfg.Storage.Backend, "err", err)
	}
	s.repo = nil
}

func (s *session) closeLogger() {
	if s.logger == nil {
		return
	}
	if err := s.logger.Close(); err != nil && s.logger.shouldLogToSink(s.logger.consoleSink) && s.stderr != nil {
		// Keep TUI shutdown quiet on the terminal when console logging is intentionally muted.
		_, _ = fmt.Fprintf(s.stderr, "warning: close runtime log sink: %v\n", err)
	}
	s.logger = nil
}

// openRepository opens the per-session store for backend.
func openRepository(backend config.StorageBackend, sessionID string) (repository, error) {
	switch config.StorageBackend(strings.ToLower(strings.TrimSpace(string(backend)))) {
	case config.StorageBackendSQLite:
		return sqlite.OpenInMemory("tableau-" + sessionID)
	case config.StorageBackendMemory, "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}

// toSeedTasks maps configured seed entries onto service seeds.
func toSeedTasks(in []config.SeedTaskConfig) ([]app.SeedTask, error) {
	out := make([]app.SeedTask, 0, len(in))
	for idx, seed := range in {
		priority, err := domain.ParsePriority(seed.Priority)
		if err != nil {
			return nil, fmt.Errorf("seed.tasks[%d]: %w", idx, err)
		}
		out = append(out, app.SeedTask{
			Title:     seed.Title,
			Priority:  priority,
			Completed: seed.Completed,
		})
	}
	return out, nil
}

// toTUIKeyConfig maps configured key overrides onto the TUI keymap config.
func toTUIKeyConfig(keys config.KeyConfig) tui.KeyConfig {
	return tui.KeyConfig{
		Toggle: keys.Toggle,
		Copy:   keys.Copy,
		Add:    keys.Add,
		Search: keys.Search,
	}
}

// resolvePaths resolves platform paths for the selected app name and mode.
func resolvePaths(opts *globalOptions) (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
}

// resolveConfigPath applies the flag, then TABLEAU_CONFIG, then the platform default.
func resolveConfigPath(opts *globalOptions, paths platform.Paths) string {
	if p := strings.TrimSpace(opts.configPath); p != "" {
		return p
	}
	if envPath := strings.TrimSpace(os.Getenv("TABLEAU_CONFIG")); envPath != "" {
		return envPath
	}
	return paths.ConfigPath
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// runtimeLogger fans runtime events out to a console sink and an optional dev file sink.
type runtimeLogger struct {
	sinks          []*charmLog.Logger
	consoleSink    *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
	devLog         string
}

// newRuntimeLogger configures runtime log sinks from CLI/config state.
func newRuntimeLogger(stderr io.Writer, appName string, devMode bool, cfg config.LoggingConfig, fallbackDir string, now func() time.Time) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if now == nil {
		now = time.Now
	}
	if stderr == nil {
		stderr = io.Discard
	}

	consoleLogger := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})
	logger := &runtimeLogger{
		sinks:          []*charmLog.Logger{consoleLogger},
		consoleSink:    consoleLogger,
		consoleEnabled: true,
	}
	if !devMode || !cfg.DevFile.Enabled {
		return logger, nil
	}

	dir := cfg.DevFile.Dir
	if strings.TrimSpace(dir) == "" {
		dir = fallbackDir
	}
	devLogPath, err := devLogFilePath(dir, appName, now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve dev log file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(devLogPath), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	logFile, err := os.OpenFile(devLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}

	// Keep file output parseable and unstyled while preserving styled console logs.
	fileLogger := charmLog.NewWithOptions(logFile, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	logger.sinks = append(logger.sinks, fileLogger)
	logger.closeFile = logFile.Close
	logger.devLog = devLogPath
	return logger, nil
}

// DevLogPath returns the active dev log file path.
func (l *runtimeLogger) DevLogPath() string {
	if l == nil {
		return ""
	}
	return l.devLog
}

// Close closes the optional dev-file sink.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	err := l.closeFile()
	l.closeFile = nil
	return err
}

// SetConsoleEnabled toggles whether the console sink receives runtime events.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleEnabled = enabled
}

func (l *runtimeLogger) shouldLogToSink(sink *charmLog.Logger) bool {
	if l == nil || sink == nil {
		return false
	}
	return sink != l.consoleSink || l.consoleEnabled
}

// log dispatches one event to every enabled sink.
func (l *runtimeLogger) log(level charmLog.Level, msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Log(level, msg, keyvals...)
	}
}

// Debug logs a debug event to all configured sinks.
func (l *runtimeLogger) Debug(msg string, keyvals ...any) {
	l.log(charmLog.DebugLevel, msg, keyvals...)
}

// Info logs an informational event to all configured sinks.
func (l *runtimeLogger) Info(msg string, keyvals ...any) {
	l.log(charmLog.InfoLevel, msg, keyvals...)
}

// Warn logs a warning event to all configured sinks.
func (l *runtimeLogger) Warn(msg string, keyvals ...any) {
	l.log(charmLog.WarnLevel, msg, keyvals...)
}

// Error logs an error event to all configured sinks.
func (l *runtimeLogger) Error(msg string, keyvals ...any) {
	l.log(charmLog.ErrorLevel, msg, keyvals...)
}

// devLogFilePath resolves a workspace-local dev log file path for the current run day.
func devLogFilePath(dir, appName string, now time.Time) (string, error) {
	baseDir := strings.TrimSpace(dir)
	if baseDir == "" {
		return "", errors.New("dev log dir is required")
	}
	if !filepath.IsAbs(baseDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working dir: %w", err)
		}
		baseDir = filepath.Join(workspaceRootFrom(cwd), baseDir)
	}
	fileName := fmt.Sprintf("%s-%s.log", sanitizeLogFileStem(appName), now.Format("20060102"))
	return filepath.Join(filepath.Clean(baseDir), fileName), nil
}

// workspaceRootFrom resolves the nearest ancestor holding go.mod or .git.
func workspaceRootFrom(start string) string {
	start = filepath.Clean(strings.TrimSpace(start))
	if start == "" {
		return "."
	}
	for dir := start; ; {
		if hasWorkspaceMarker(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func hasWorkspaceMarker(dir string) bool {
	for _, marker := range []string{"go.mod", ".git"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// sanitizeLogFileStem normalizes app names into safe file-name segments.
func sanitizeLogFileStem(appName string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	stem := strings.Trim(replacer.Replace(strings.TrimSpace(appName)), "-")
	if stem == "" {
		return "tableau"
	}
	return stem
}
