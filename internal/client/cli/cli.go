package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/iudanet/nihongo/internal/client/api"
	"github.com/iudanet/nihongo/internal/client/app"
	"github.com/iudanet/nihongo/internal/client/iocli"
	"github.com/iudanet/nihongo/internal/client/router"
	"github.com/iudanet/nihongo/internal/config"
)

var (
	// ErrLoginRequired is returned when a command's view requires a signed-in user.
	ErrLoginRequired = errors.New("login required, run 'nihongo login' first")

	// ErrAccessDenied is returned when the signed-in user lacks the view's role.
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyAuthenticated is returned by login/register while a session exists.
	ErrAlreadyAuthenticated = errors.New("already logged in, run 'nihongo logout' first")

	// ErrUnknownView is returned when a command's arguments do not form a known view path.
	ErrUnknownView = errors.New("invalid argument")
)

// BuildInfo is printed by the version command.
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// AppFactory builds the application for a resolved config.
type AppFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.App, error)

type Cli struct {
	io       iocli.IO
	app      *app.App
	newApp   AppFactory
	flags    globalFlags
	build    BuildInfo
	envFiles []string
}

type globalFlags struct {
	server   string
	db       string
	store    string
	logLevel string
}

// Option configures a Cli.
type Option func(*Cli)

// WithAppFactory replaces app.New, mostly for tests.
func WithAppFactory(f AppFactory) Option {
	return func(c *Cli) { c.newApp = f }
}

// WithEnvFiles sets the .env files read before the environment.
func WithEnvFiles(files ...string) Option {
	return func(c *Cli) { c.envFiles = files }
}

func New(io iocli.IO, build BuildInfo, opts ...Option) *Cli {
	c := &Cli{
		io:       io,
		build:    build,
		newApp:   app.New,
		envFiles: []string{".env"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs the command line and returns the first error.
// The app is closed even when the command fails.
func (c *Cli) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := c.close(); err == nil {
		err = cerr
	}
	return err
}

// RootCommand builds the whole command tree.
func (c *Cli) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "nihongo",
		Short:         "Command line client for the Nihongo learning platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["offline"] == "true" || cmd.Name() == "help" {
				return nil
			}
			return c.open(cmd)
		},
	}
	root.SetOut(c.io)
	root.SetErr(c.io)
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.server, "server", "", "API base URL (env NIHONGO_SERVER_URL)")
	pf.StringVar(&c.flags.db, "db", "", "Path to local database (env NIHONGO_DB_PATH)")
	pf.StringVar(&c.flags.store, "store", "", "Local storage backend: bolt or sqlite (env NIHONGO_STORE)")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (env NIHONGO_LOG_LEVEL)")

	root.AddCommand(
		c.versionCommand(),
		c.registerCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.statusCommand(),
		c.whoamiCommand(),
		c.navCommand(),
		c.dashboardCommand(),
		c.coursesCommand(),
		c.lessonsCommand(),
		c.quizzesCommand(),
		c.flashcardsCommand(),
		c.kanjiCommand(),
		c.vocabCommand(),
		c.searchCommand(),
		c.progressCommand(),
		c.achievementsCommand(),
		c.sessionsCommand(),
		c.moderationCommand(),
		c.usersCommand(),
	)
	return root
}

// open resolves configuration (env < flags) and builds the app.
func (c *Cli) open(cmd *cobra.Command) error {
	cfg, err := config.Load(c.envFiles...)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = c.flags.server
	}
	if flags.Changed("db") {
		cfg.DBPath = c.flags.db
	}
	if flags.Changed("store") {
		cfg.Store = c.flags.store
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := c.newApp(cmd.Context(), cfg, cfg.NewLogger(os.Stderr))
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *Cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// enter navigates to the view a command belongs to and turns a redirect into an error.
func (c *Cli) enter(path string) (router.Match, error) {
	m := c.app.Router.Navigate(path)
	// catch-all открыт всем, команды с данными туда попадать не должны
	if m.Requested.Name == router.NotFound {
		return m, fmt.Errorf("%w: no view for %s", ErrUnknownView, path)
	}
	switch m.Decision.Redirect {
	case "":
		return m, nil
	case router.Login:
		return m, ErrLoginRequired
	}
	if m.Requested.Name == router.Login || m.Requested.Name == router.Register {
		return m, ErrAlreadyAuthenticated
	}
	return m, fmt.Errorf("%w: %s requires %s", ErrAccessDenied, path, strings.Join(m.Requested.Roles, ", "))
}

// guarded wraps a RunE so the view route is checked before anything is sent.
func (c *Cli) guarded(path func(args []string) string, run func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if _, err := c.enter(path(args)); err != nil {
			return err
		}
		return run(cmd.Context(), args)
	}
}

func at(path string) func([]string) string {
	return func([]string) string { return path }
}

// segment экранирует аргумент команды как один сегмент пути
func segment(arg string) string {
	return url.PathEscape(arg)
}

// commandError shows the user-facing message but keeps the cause for errors.Is.
type commandError struct {
	err error
	msg string
}

func (e *commandError) Error() string { return e.msg }
func (e *commandError) Unwrap() error { return e.err }

// failure prefers the server message, like the containers do.
// A 401 here means the stored session has just been dropped.
func failure(action string, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return &commandError{err: err, msg: action + ": session expired, please login again"}
	}
	return rejected(action, err)
}

// rejected is failure for calls made without a session (login, register)
func rejected(action string, err error) error {
	return &commandError{err: err, msg: action + ": " + api.Message(err, "unknown error")}
}

// table пишет выровненные колонки в IO
func (c *Cli) table(header string, rows [][]string) error {
	tw := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(r, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

func (c *Cli) render(tmpl string, data any) error {
	t, err := template.New("view").Funcs(funcs).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.io, data)
}

func (c *Cli) title(s string) {
	c.io.Println("=== " + s + " ===")
	c.io.Println()
}
