package debugger

// EventKind identifies a runtime notification.
type EventKind int

const (
	EventStoppedEntry EventKind = iota + 1
	EventStoppedStep
	EventStoppedBreakpoint
	EventBreakpointValidated
	EventOutput
	EventEnded
)

// String returns the wire name hosts forward the event under.
func (k EventKind) String() string {
	switch k {
	case EventStoppedEntry:
		return "stopOnEntry"
	case EventStoppedStep:
		return "stopOnStep"
	case EventStoppedBreakpoint:
		return "stopOnBreakpoint"
	case EventBreakpointValidated:
		return "breakpointValidated"
	case EventOutput:
		return "output"
	case EventEnded:
		return "end"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers. Line is the zero-based stop line for
// stop events; Breakpoint is set for breakpoint events; Text carries output.
type Event struct {
	Kind       EventKind   `json:"kind"`
	Line       int         `json:"line"`
	Breakpoint *Breakpoint `json:"breakpoint,omitempty"`
	Text       string      `json:"text,omitempty"`
}

// IsStop reports whether the event leaves the runtime paused.
func (e Event) IsStop() bool {
	switch e.Kind {
	case EventStoppedEntry, EventStoppedStep, EventStoppedBreakpoint:
		return true
	}
	return false
}
