package debugger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/specialistvlad/porterlens/internal/credentials"
	"github.com/specialistvlad/porterlens/internal/ctxlog"
	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/memo"
	"github.com/specialistvlad/porterlens/internal/pathmap"
)

// DefaultAction is debugged when Inputs.Action is empty.
const DefaultAction = "install"

// ErrNotStarted is returned by requests that need a loaded manifest.
var ErrNotStarted = errors.New("debug session not started")

// State is the runtime's position in its lifecycle.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateStepped
	StateAtBreakpoint
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunning:
		return "running"
	case StateStepped:
		return "stepped"
	case StateAtBreakpoint:
		return "at breakpoint"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Inputs are the launch-time values a simulated run sees.
type Inputs struct {
	Action        string
	Parameters    map[string]string
	CredentialSet string
	// Outputs are simulated values for step outputs, keyed by output name.
	Outputs map[string]string
}

func (in Inputs) action() string {
	if in.Action == "" {
		return DefaultAction
	}
	return in.Action
}

// SourceLoader reads manifest text by path.
type SourceLoader interface {
	Load(ctx context.Context, path string) (string, error)
}

// FileLoader reads manifests from disk.
type FileLoader struct{}

// Load implements SourceLoader.
func (FileLoader) Load(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Options configures a Runtime.
type Options struct {
	Loader      SourceLoader
	Credentials *credentials.Registry
	Sets        credentials.SetStore
}

type source struct {
	doc   *manifest.Document
	lines int
}

// Runtime is a single simulated debug session.
type Runtime struct {
	mu sync.Mutex

	loader   SourceLoader
	registry *credentials.Registry
	sets     credentials.SetStore
	logger   *slog.Logger

	docs memo.Slot[string, *source]
	src  *source
	path string

	state       State
	currentLine int
	generation  int
	inputs      Inputs
	creds       []*credentials.Lazy

	breakpoints  pathmap.List[*Breakpoint]
	breakpointID int

	queue     *taskQueue
	listeners map[int]func(Event)
	listenerN int
}

// New creates an idle runtime.
func New(opts Options) *Runtime {
	loader := opts.Loader
	if loader == nil {
		loader = FileLoader{}
	}
	return &Runtime{
		loader:      loader,
		registry:    opts.Credentials,
		sets:        opts.Sets,
		logger:      slog.Default(),
		currentLine: -1,
		queue:       newTaskQueue(),
		listeners:   make(map[int]func(Event)),
	}
}

// Subscribe registers fn for every event and returns a function that
// removes it.
func (r *Runtime) Subscribe(fn func(Event)) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listenerN++
	id := r.listenerN
	r.listeners[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// Prepare loads path and resets execution state without running anything.
// A manifest already loaded for the same path is reused.
func (r *Runtime) Prepare(ctx context.Context, path string, in Inputs) error {
	logger := ctxlog.FromContext(ctx).With("path", path)

	src, err := r.docs.Get(path, func() (*source, error) {
		text, err := r.loader.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loading manifest: %w", err)
		}
		doc, err := manifest.Parse(text)
		if err != nil {
			return nil, err
		}
		return &source{doc: doc, lines: doc.Index().LineCount()}, nil
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.logger = logger
	r.src = src
	r.path = path
	r.inputs = in
	r.creds = nil
	r.currentLine = -1
	r.state = StateRunning
	r.generation++
	events := r.verifyBreakpointsLocked(path)
	r.mu.Unlock()

	if r.activeAction() == nil {
		logger.Warn("Action not found in manifest, nothing will stop.", "action", in.action())
	}
	r.postEvents(events)
	logger.Debug("Debug session prepared.", "action", in.action(), "lines", src.lines)
	return nil
}

// Start prepares path and either stops on the first step or runs until a
// breakpoint or the end. Any run already in flight is superseded.
func (r *Runtime) Start(ctx context.Context, path string, stopOnEntry bool, in Inputs) error {
	if err := r.Prepare(ctx, path, in); err != nil {
		return err
	}
	r.logger.Info("🚀 Starting debug session.", "stopOnEntry", stopOnEntry)
	if stopOnEntry {
		r.schedule(true, EventStoppedEntry)
	} else {
		r.schedule(false, 0)
	}
	return nil
}

// Step runs to the next step start or verified breakpoint.
func (r *Runtime) Step() error {
	if !r.started() {
		return ErrNotStarted
	}
	r.schedule(true, EventStoppedStep)
	return nil
}

// Continue runs to the next verified breakpoint or the end.
func (r *Runtime) Continue() error {
	if !r.started() {
		return ErrNotStarted
	}
	r.schedule(false, 0)
	return nil
}

// InvalidateSource forgets the cached manifest so the next Prepare rereads it.
func (r *Runtime) InvalidateSource() {
	r.docs.Invalidate()
}

// Pump delivers all queued work and returns how many tasks ran.
func (r *Runtime) Pump() int {
	return r.queue.pump()
}

// Pending returns the number of queued tasks.
func (r *Runtime) Pending() int {
	return r.queue.len()
}

// Serve pumps queued work as it arrives until ctx is done.
func (r *Runtime) Serve(ctx context.Context) error {
	for {
		r.Pump()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.queue.notify:
		}
	}
}

// State returns the lifecycle state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// CurrentLine returns the zero-based stop line, or -1 before the first stop.
func (r *Runtime) CurrentLine() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentLine
}

func (r *Runtime) started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src != nil
}

func (r *Runtime) schedule(stepping bool, stopKind EventKind) {
	r.mu.Lock()
	gen := r.generation
	r.mu.Unlock()
	r.queue.post(func() { r.run(gen, stepping, stopKind) })
}

// run advances from the line after the current one. Verified breakpoints
// always stop; step starts stop only when stepping. The entry stop keeps
// its kind even when it lands on a breakpoint.
func (r *Runtime) run(gen int, stepping bool, stopKind EventKind) {
	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		return
	}

	var events []Event
	action := r.activeActionLocked()
	for ln := r.currentLine + 1; ln < r.src.lines; ln++ {
		if bp := r.breakpointAtLocked(ln); bp != nil {
			r.currentLine = ln
			r.state = StateAtBreakpoint
			cp := *bp
			kind := EventStoppedBreakpoint
			if stopKind == EventStoppedEntry {
				kind = EventStoppedEntry
			}
			events = append(events, Event{Kind: kind, Line: ln, Breakpoint: &cp})
			r.mu.Unlock()
			r.emit(events...)
			return
		}
		step := stepStartingAt(action, ln)
		if step == nil {
			continue
		}
		if stepping {
			r.currentLine = ln
			r.state = StateStepped
			events = append(events, Event{Kind: stopKind, Line: ln})
			r.mu.Unlock()
			r.emit(events...)
			return
		}
		events = append(events, Event{
			Kind: EventOutput,
			Line: ln,
			Text: fmt.Sprintf("%s: %s step at line %d", action.Name, step.Mixin, ln+1),
		})
	}

	r.currentLine = r.src.lines
	r.state = StateEnded
	events = append(events, Event{Kind: EventEnded, Line: r.currentLine})
	logger := r.logger
	r.mu.Unlock()

	logger.Info("🏁 Debug session reached the end.")
	r.emit(events...)
}

func (r *Runtime) postEvents(events []Event) {
	if len(events) == 0 {
		return
	}
	r.queue.post(func() { r.emit(events...) })
}

func (r *Runtime) emit(events ...Event) {
	r.mu.Lock()
	listeners := make([]func(Event), 0, len(r.listeners))
	for i := 1; i <= r.listenerN; i++ {
		if fn, ok := r.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	r.mu.Unlock()

	for _, e := range events {
		for _, fn := range listeners {
			fn(e)
		}
	}
}

func (r *Runtime) activeAction() *manifest.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeActionLocked()
}

func (r *Runtime) activeActionLocked() *manifest.Action {
	if r.src == nil {
		return nil
	}
	return r.src.doc.Action(r.inputs.action())
}

func stepStartingAt(a *manifest.Action, line int) *manifest.Step {
	if a == nil {
		return nil
	}
	for i := range a.Steps {
		if a.Steps[i].StartLine == line {
			return &a.Steps[i]
		}
	}
	return nil
}

// Frame is the single synthetic stack frame.
type Frame struct {
	Name string `json:"name"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// Stack returns the current frame.
func (r *Runtime) Stack() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := "Porter"
	if a := r.activeActionLocked(); a != nil {
		name = "Porter " + a.Name
	}
	return []Frame{{Name: name, File: r.path, Line: r.currentLine}}
}
