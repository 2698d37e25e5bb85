// Package session defines the interfaces for creating and managing a debug
// session. It hides how the runtime is wired and where its events go.
package session

import (
	"context"

	"github.com/specialistvlad/porterlens/internal/config"
	"github.com/specialistvlad/porterlens/internal/debugger"
)

// SessionFactory creates a Session for one launch configuration.
type SessionFactory interface {
	NewSession(ctx context.Context, launch *config.Launch) (Session, error)
}

// Session is a single debug run and owns its runtime.
type Session interface {
	Runtime() *debugger.Runtime
	Launch() *config.Launch
	// Start loads the manifest and begins the run the launch describes.
	Start(ctx context.Context) error
	// Close releases any resources held by the session, such as an event
	// bridge connection.
	Close(ctx context.Context) error
}
