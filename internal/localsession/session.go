// Package localsession provides the in-process implementation of
// session.Session and session.SessionFactory.
package localsession

import (
	"context"
	"fmt"

	"github.com/specialistvlad/porterlens/internal/config"
	"github.com/specialistvlad/porterlens/internal/credentials"
	"github.com/specialistvlad/porterlens/internal/ctxlog"
	"github.com/specialistvlad/porterlens/internal/debugger"
	"github.com/specialistvlad/porterlens/internal/eventbridge"
	"github.com/specialistvlad/porterlens/internal/session"
)

// SessionFactory implements session.SessionFactory for local runs.
type SessionFactory struct {
	Credentials *credentials.Registry
	Sets        credentials.SetStore
	// Loader defaults to reading from disk.
	Loader debugger.SourceLoader
	// EventsURL, when set, forwards every runtime event to a socket.io server.
	EventsURL string
}

// NewSession wires a runtime for launch.
func (f *SessionFactory) NewSession(ctx context.Context, launch *config.Launch) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("localsession.SessionFactory.NewSession called", "porterFile", launch.PorterFile)

	rt := debugger.New(debugger.Options{
		Loader:      f.Loader,
		Credentials: f.Credentials,
		Sets:        f.Sets,
	})

	s := &Session{runtime: rt, launch: launch}
	if f.EventsURL != "" {
		bridge, err := eventbridge.Dial(ctx, f.EventsURL, eventbridge.Options{})
		if err != nil {
			return nil, fmt.Errorf("connecting event bridge: %w", err)
		}
		s.bridge = bridge
		s.detach = bridge.Attach(rt)
	}
	return s, nil
}

// Session implements session.Session for local runs.
type Session struct {
	runtime *debugger.Runtime
	launch  *config.Launch
	bridge  *eventbridge.Bridge
	detach  func()
}

// Runtime returns the runtime created by the factory.
func (s *Session) Runtime() *debugger.Runtime {
	return s.runtime
}

// Launch returns the configuration the session was created for.
func (s *Session) Launch() *config.Launch {
	return s.launch
}

// Start implements session.Session.
func (s *Session) Start(ctx context.Context) error {
	return s.runtime.Start(ctx, s.launch.PorterFile, s.launch.ShouldStopOnEntry(), s.launch.Inputs())
}

// Close detaches and disconnects the event bridge, if any.
func (s *Session) Close(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("localsession.Session.Close called")
	if s.bridge != nil {
		s.detach()
		s.bridge.Close()
	}
	return nil
}
