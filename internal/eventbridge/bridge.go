// Package eventbridge forwards debugger events to a socket.io server so an
// external debug adapter can follow a session.
package eventbridge

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/specialistvlad/porterlens/internal/ctxlog"
	"github.com/specialistvlad/porterlens/internal/debugger"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds the wait for the initial connection.
const DefaultTimeout = 15 * time.Second

// Emitter sends one named event.
type Emitter interface {
	Emit(event string, payload any)
}

// Bridge forwards events to an Emitter.
type Bridge struct {
	emitter Emitter
	logger  *slog.Logger
	close   func()
}

// New wraps an existing emitter.
func New(e Emitter, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{emitter: e, logger: logger, close: func() {}}
}

// Options configures Dial.
type Options struct {
	Namespace          string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// Dial connects to the socket.io server at rawURL and waits for the
// connection to be established.
func Dial(ctx context.Context, rawURL string, o Options) (*Bridge, error) {
	logger := ctxlog.FromContext(ctx).With("component", "eventbridge", "url", rawURL)

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("event bridge URL %q needs a scheme and host", rawURL)
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsed.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connected := make(chan error, 1)
	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), opts)
	io := manager.Socket(o.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Event bridge connected.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		connected <- connectError(errs)
	})

	logger.Debug("Connecting event bridge...")
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}

	logger.Info("🔌 Event bridge connected.", "sid", io.Id())
	b := New(socketEmitter{io: io}, logger)
	b.close = func() { io.Disconnect() }
	return b, nil
}

type socketEmitter struct {
	io *socket.Socket
}

func (s socketEmitter) Emit(event string, payload any) {
	s.io.Emit(event, payload)
}

// Forward sends e under its wire name. It has the shape of a runtime
// subscriber.
func (b *Bridge) Forward(e debugger.Event) {
	b.logger.Debug("Forwarding debug event.", "event", e.Kind.String(), "line", e.Line)
	b.emitter.Emit(e.Kind.String(), e)
}

// Attach subscribes the bridge to rt and returns the unsubscribe function.
func (b *Bridge) Attach(rt *debugger.Runtime) func() {
	return rt.Subscribe(b.Forward)
}

// Close disconnects a dialled bridge.
func (b *Bridge) Close() {
	b.close()
}

// connectError turns a connect_error payload into an error, even when the
// payload is empty.
func connectError(errs []any) error {
	if len(errs) == 0 {
		return errors.New("connect_error without details")
	}
	if err, ok := errs[0].(error); ok {
		return err
	}
	return fmt.Errorf("%v", errs[0])
}
