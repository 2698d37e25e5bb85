package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/porterlens/internal/credentials"
	"github.com/specialistvlad/porterlens/internal/ctxlog"
	"github.com/specialistvlad/porterlens/internal/localsession"
	"github.com/specialistvlad/porterlens/internal/session"
	"github.com/specialistvlad/porterlens/internal/workspace"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	workspace   *workspace.Service
	credentials *credentials.Registry
	sets        credentials.SetStore
	sessions    session.SessionFactory
}

// NewApp wires an App. Command output goes to outW and logs to logW. With no
// modules given, the core credential source modules are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...credentials.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	env, err := credentials.NewEnv(cfg.DotenvFiles...)
	if err != nil {
		return nil, err
	}

	ws, err := workspace.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := credentials.NewRegistry(credentials.LocalHost(env), modules...)
	logger.Debug("Credential source modules registered.", "count", len(modules), "kinds", reg.Kinds())

	sets := credentials.NewDirStore(cfg.CredentialsDir)
	return &App{
		outW:        outW,
		logger:      logger,
		config:      cfg,
		workspace:   ws,
		credentials: reg,
		sets:        sets,
		sessions: &localsession.SessionFactory{
			Credentials: reg,
			Sets:        sets,
			EventsURL:   cfg.EventsURL,
		},
	}, nil
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Workspace returns the analysis cache. This is primarily for testing.
func (a *App) Workspace() *workspace.Service {
	return a.workspace
}

// Credentials returns the credential source registry.
func (a *App) Credentials() *credentials.Registry {
	return a.credentials
}

// analyze returns the analysis of path, failing when the file does not parse.
func (a *App) analyze(ctx context.Context, path string) (*workspace.Analysis, error) {
	an, err := a.workspace.Analyze(ctx, path)
	if err != nil {
		return nil, err
	}
	if !an.OK() {
		return nil, fmt.Errorf("%s: %s: %w", path, unavailable, an.ParseErr)
	}
	return an, nil
}
