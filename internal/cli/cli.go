package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/specialistvlad/porterlens/internal/app"
	"github.com/specialistvlad/porterlens/internal/credentials"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error(), Err: err}
}

// Env is what the commands read from and write to.
type Env struct {
	Out io.Writer
	Err io.Writer
	In  io.Reader
	// Modules replace the core credential source modules when set.
	Modules []credentials.Module
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	env *Env

	logLevel       string
	logFormat      string
	cacheSize      int
	credentialsDir string
	envFiles       []string
	eventsURL      string
}

// Execute runs the command named by args. Usage errors come back as an
// *ExitError with code 2, failures and findings with code 1.
func Execute(ctx context.Context, env *Env, args []string) error {
	root := NewRootCommand(env)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return usageError(err)
}

// NewRootCommand builds the porterlens command tree.
func NewRootCommand(env *Env) *cobra.Command {
	o := &rootOptions{env: env}
	root := &cobra.Command{
		Use:   "porterlens",
		Short: "Lint, navigate, refactor and step through Porter bundle manifests",
		Long: `porterlens analyses Porter bundle manifests (porter.yaml) offline.

It reports template references that point at undeclared or out-of-scope
parameters, credentials and outputs, answers navigation queries, applies
refactorings and simulates stepping through an action.

Line and column flags are 1-based; JSON ranges are 0-based.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(env.Out)
	root.SetErr(env.Err)
	root.SetIn(env.In)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	f := root.PersistentFlags()
	f.StringVar(&o.logLevel, "log-level", "info", "Logging level: debug, info, warn or error.")
	f.StringVar(&o.logFormat, "log-format", "text", "Log output format: text or json.")
	f.IntVar(&o.cacheSize, "cache-size", 0, "Number of manifest analyses kept in memory.")
	f.StringVar(&o.credentialsDir, "credentials-dir", "", "Directory of credential set files (default $PORTER_HOME/credentials).")
	f.StringSliceVar(&o.envFiles, "env-file", []string{".env"}, "Dotenv files consulted for env credentials.")
	f.StringVar(&o.eventsURL, "events-url", "", "socket.io server that receives debug events.")

	root.AddCommand(
		newLintCommand(o),
		newFixCommand(o),
		newSymbolsCommand(o),
		newPositionCommand(o, "complete", "List completions at a position", (*app.App).Complete),
		newPositionCommand(o, "definition", "Show the declaration of the reference at a position", (*app.App).Definition),
		newPositionCommand(o, "references", "List references to the declaration at a position", (*app.App).References),
		newMoveStepCommand(o),
		newParameteriseCommand(o),
		newInsertStepCommand(o),
		newDebugCommand(o),
		newWatchCommand(o),
	)
	return root
}

// app validates the persistent flags and builds the application.
func (o *rootOptions) app() (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		LogFormat:      o.logFormat,
		LogLevel:       o.logLevel,
		CacheSize:      o.cacheSize,
		CredentialsDir: o.credentialsDir,
		DotenvFiles:    o.envFiles,
		EventsURL:      o.eventsURL,
	})
	if err != nil {
		return nil, usageError(err)
	}
	slog.Debug("CLI configuration validated.", "config", cfg)
	return app.NewApp(o.env.Out, o.env.Err, cfg, o.env.Modules...)
}

// runE maps errors that are not already exit errors to exit code 1.
func runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		var exitErr *ExitError
		if err == nil || errors.As(err, &exitErr) {
			return err
		}
		return &ExitError{Code: 1, Message: err.Error(), Err: err}
	}
}
