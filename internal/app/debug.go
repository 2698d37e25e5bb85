package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"strconv"
	"strings"

	"github.com/specialistvlad/porterlens/internal/config"
	"github.com/specialistvlad/porterlens/internal/debugger"
	"gopkg.in/yaml.v3"
)

// DebugOptions override the launch configuration of a debug run. Zero
// values leave the launch unchanged; maps are merged over it.
type DebugOptions struct {
	Action        string
	Parameters    map[string]string
	CredentialSet string
	Outputs       map[string]string
	StopOnEntry   *bool
}

const debugHelp = `commands (lines are 1-based):
  step | s            run to the next step
  continue | c        run to the next breakpoint or the end
  break N             set a breakpoint at line N
  clear N             remove the breakpoint at line N
  breakpoints         list breakpoints
  params | creds | outputs
  eval EXPR           evaluate bundle.<kind>.<name>
  complete TEXT       complete a console expression
  stack
  quit
`

// Debug runs a simulated session of target, a manifest or a launch file,
// driven by the line commands read from script. Output goes to the app's
// output writer. The session ends at quit or at the end of script.
func (a *App) Debug(ctx context.Context, target string, opts DebugOptions, script io.Reader) error {
	ctx = a.Context(ctx)
	launch, err := loadLaunch(ctx, target)
	if err != nil {
		return err
	}
	opts.apply(launch)

	sess, err := a.sessions.NewSession(ctx, launch)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	rt := sess.Runtime()
	unsubscribe := rt.Subscribe(a.printEvent)
	defer unsubscribe()

	if err := sess.Start(ctx); err != nil {
		return err
	}
	rt.Pump()

	c := &console{app: a, rt: rt, path: launch.PorterFile}
	scanner := bufio.NewScanner(script)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if quit := c.exec(ctx, line); quit {
			break
		}
		rt.Pump()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading debug commands: %w", err)
	}
	a.logger.Debug("Debug console closed.", "state", rt.State())
	return nil
}

// loadLaunch reads target as a launch file when it has a porter-file key,
// and as a manifest otherwise.
func loadLaunch(ctx context.Context, target string) (*config.Launch, error) {
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("reading debug target: %w", err)
	}
	var probe map[string]any
	if yaml.Unmarshal(data, &probe) == nil {
		if _, ok := probe["porter-file"]; ok {
			return config.FileLoader{}.Load(ctx, target)
		}
	}
	return config.ForManifest(target), nil
}

func (o DebugOptions) apply(l *config.Launch) {
	if o.Action != "" {
		l.Action = o.Action
	}
	if o.CredentialSet != "" {
		l.InstallInputs.CredentialSet = o.CredentialSet
	}
	if o.StopOnEntry != nil {
		l.StopOnEntry = o.StopOnEntry
	}
	if len(o.Parameters) > 0 {
		if l.InstallInputs.Parameters == nil {
			l.InstallInputs.Parameters = map[string]string{}
		}
		maps.Copy(l.InstallInputs.Parameters, o.Parameters)
	}
	if len(o.Outputs) > 0 {
		if l.InstallInputs.Outputs == nil {
			l.InstallInputs.Outputs = map[string]string{}
		}
		maps.Copy(l.InstallInputs.Outputs, o.Outputs)
	}
}

func (a *App) printEvent(e debugger.Event) {
	switch e.Kind {
	case debugger.EventStoppedEntry:
		fmt.Fprintf(a.outW, "stopped on entry at line %d\n", e.Line+1)
	case debugger.EventStoppedStep:
		fmt.Fprintf(a.outW, "stopped at line %d\n", e.Line+1)
	case debugger.EventStoppedBreakpoint:
		fmt.Fprintf(a.outW, "stopped at breakpoint %d, line %d\n", e.Breakpoint.ID, e.Line+1)
	case debugger.EventBreakpointValidated:
		fmt.Fprintf(a.outW, "breakpoint %d verified at line %d\n", e.Breakpoint.ID, e.Line+1)
	case debugger.EventOutput:
		fmt.Fprintln(a.outW, e.Text)
	case debugger.EventEnded:
		fmt.Fprintln(a.outW, "ended")
	}
}

// console executes one debug command at a time.
type console struct {
	app  *App
	rt   *debugger.Runtime
	path string
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.app.outW, format, args...)
}

// exec runs one command line and reports whether the session should end.
func (c *console) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "step", "s", "next", "n":
		c.report(c.rt.Step())
	case "continue", "c":
		c.report(c.rt.Continue())
	case "break", "b":
		n, ok := c.lineArg(cmd, arg)
		if !ok {
			break
		}
		bp := c.rt.SetBreakpoint(c.path, n)
		if !bp.Verified {
			c.printf("breakpoint %d at line %d (unverified)\n", bp.ID, n+1)
		}
	case "clear":
		n, ok := c.lineArg(cmd, arg)
		if !ok {
			break
		}
		if bp, found := c.rt.ClearBreakpoint(c.path, n); found {
			c.printf("breakpoint %d cleared\n", bp.ID)
		} else {
			c.printf("no breakpoint at line %d\n", n+1)
		}
	case "breakpoints":
		bps := c.rt.Breakpoints(c.path)
		if len(bps) == 0 {
			c.printf("(none)\n")
		}
		for _, bp := range bps {
			state := "verified"
			if !bp.Verified {
				state = "unverified"
			}
			c.printf("%d: line %d (%s)\n", bp.ID, bp.Line+1, state)
		}
	case "params", "parameters":
		c.variables(c.rt.Parameters())
	case "creds", "credentials":
		vars, err := c.rt.Credentials(ctx)
		if err != nil {
			c.printf("creds: %v\n", err)
			break
		}
		c.variables(vars)
	case "outputs":
		c.variables(c.rt.Outputs())
	case "eval", "print", "p":
		c.printf("%s\n", c.rt.Evaluate(ctx, arg).Value)
	case "complete":
		for _, item := range c.rt.Completions(ctx, arg) {
			c.printf("%s\n", item)
		}
	case "stack", "bt":
		for i, f := range c.rt.Stack() {
			c.printf("#%d %s at %s:%d\n", i, f.Name, f.File, f.Line+1)
		}
	case "help", "?":
		c.printf("%s", debugHelp)
	case "quit", "exit", "q":
		return true
	default:
		c.printf("unknown command %q, try help\n", cmd)
	}
	return false
}

func (c *console) report(err error) {
	if err != nil {
		c.printf("error: %v\n", err)
	}
}

// lineArg parses a 1-based line number into a zero-based line.
func (c *console) lineArg(cmd, arg string) (int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		c.printf("%s: expected a line number, got %q\n", cmd, arg)
		return 0, false
	}
	return n - 1, true
}

func (c *console) variables(vars []debugger.Variable) {
	if len(vars) == 0 {
		c.printf("(none)\n")
		return
	}
	for _, v := range vars {
		c.printf("%s = %s\n", v.Name, v.Value)
	}
}
