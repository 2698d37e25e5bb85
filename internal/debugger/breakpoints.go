package debugger

import "github.com/specialistvlad/porterlens/internal/pathmap"

// Breakpoint is a line breakpoint in one file. An unverified breakpoint
// never stops execution.
type Breakpoint struct {
	ID       int  `json:"id"`
	Line     int  `json:"line"`
	Verified bool `json:"verified"`
}

// SetBreakpoint adds a breakpoint at line in path. When path is the loaded
// manifest the breakpoint is verified immediately, moving it to the nearest
// step start at or before line.
func (r *Runtime) SetBreakpoint(path string, line int) Breakpoint {
	r.mu.Lock()
	r.breakpointID++
	bp := &Breakpoint{ID: r.breakpointID, Line: line}
	r.breakpoints.Append(path, bp)
	events := r.verifyBreakpointsLocked(path)
	out := *bp
	r.mu.Unlock()

	r.postEvents(events)
	return out
}

// ClearBreakpoint removes the breakpoint reported at line in path.
func (r *Runtime) ClearBreakpoint(path string, line int) (Breakpoint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bps := r.breakpoints.Items(path)
	for i, bp := range bps {
		if bp.Line == line {
			r.breakpoints.Set(path, append(bps[:i:i], bps[i+1:]...))
			return *bp, true
		}
	}
	return Breakpoint{}, false
}

// ClearBreakpoints removes every breakpoint in path.
func (r *Runtime) ClearBreakpoints(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakpoints.Delete(path)
}

// Breakpoints returns copies of the breakpoints in path, in insertion order.
func (r *Runtime) Breakpoints(path string) []Breakpoint {
	r.mu.Lock()
	defer r.mu.Unlock()

	bps := r.breakpoints.Items(path)
	out := make([]Breakpoint, 0, len(bps))
	for _, bp := range bps {
		out = append(out, *bp)
	}
	return out
}

// verifyBreakpointsLocked snaps unverified breakpoints in path to step
// starts of the active action and returns the validation events to post.
func (r *Runtime) verifyBreakpointsLocked(path string) []Event {
	if r.src == nil || !pathmap.Same(path, r.path) {
		return nil
	}
	action := r.activeActionLocked()
	if action == nil {
		return nil
	}

	var events []Event
	for _, bp := range r.breakpoints.Items(path) {
		if bp.Verified {
			continue
		}
		start := -1
		for _, s := range action.Steps {
			if s.StartLine <= bp.Line && s.StartLine > start {
				start = s.StartLine
			}
		}
		if start < 0 {
			continue
		}
		bp.Line = start
		bp.Verified = true
		cp := *bp
		events = append(events, Event{Kind: EventBreakpointValidated, Line: start, Breakpoint: &cp})
	}
	return events
}

func (r *Runtime) breakpointAtLocked(line int) *Breakpoint {
	for _, bp := range r.breakpoints.Items(r.path) {
		if bp.Verified && bp.Line == line {
			return bp
		}
	}
	return nil
}
