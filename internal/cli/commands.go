package cli

import (
	"context"
	"fmt"

	"github.com/specialistvlad/porterlens/internal/app"
	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/refactor"
	"github.com/spf13/cobra"
)

type lintFlags struct {
	format string
	color  bool
	width  uint
}

func (f *lintFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format: text or json.")
	cmd.Flags().BoolVar(&f.color, "color", false, "Colour text output.")
	cmd.Flags().UintVar(&f.width, "width", 0, "Wrap text output at this width; 0 disables wrapping.")
}

func (f *lintFlags) options() (app.LintOptions, error) {
	if f.format != "text" && f.format != "json" {
		return app.LintOptions{}, usageError(fmt.Errorf("invalid format %q: must be 'text' or 'json'", f.format))
	}
	return app.LintOptions{Format: f.format, Color: f.color, Width: f.width}, nil
}

func newLintCommand(o *rootOptions) *cobra.Command {
	var flags lintFlags
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Report undeclared and out-of-scope template references",
		Long: `Lint checks the given manifests. Directories are searched for porter.yaml
and porter.yml files. With no paths the current directory is searched.
The exit code is 1 when anything is found.`,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"."}
			}
			a, err := o.app()
			if err != nil {
				return err
			}
			n, err := a.Lint(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			if n > 0 {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%d problem(s) found", n)}
			}
			return nil
		}),
	}
	flags.register(cmd)
	return cmd
}

func newFixCommand(o *rootOptions) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fix <file>",
		Short: "Apply the nearest quick fix to every undeclared reference",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			a, err := o.app()
			if err != nil {
				return err
			}
			_, err = a.Fix(cmd.Context(), args[0], write)
			return err
		}),
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the file instead of printing the result.")
	return cmd
}

func newSymbolsCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <file>",
		Short: "Print the manifest outline as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			a, err := o.app()
			if err != nil {
				return err
			}
			return a.Symbols(cmd.Context(), args[0])
		}),
	}
}

type positionFlags struct {
	line, col int
}

func (f *positionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.line, "line", 0, "1-based line.")
	cmd.Flags().IntVar(&f.col, "col", 1, "1-based byte column.")
	_ = cmd.MarkFlagRequired("line")
}

// position converts the 1-based flags to a zero-based position.
func (f *positionFlags) position() (manifest.Position, error) {
	if f.line < 1 || f.col < 1 {
		return manifest.Position{}, usageError(fmt.Errorf("--line and --col are 1-based, got %d:%d", f.line, f.col))
	}
	return manifest.Position{Line: f.line - 1, Column: f.col - 1}, nil
}

type positionQuery func(a *app.App, ctx context.Context, path string, pos manifest.Position) error

func newPositionCommand(o *rootOptions, name, short string, query positionQuery) *cobra.Command {
	var flags positionFlags
	cmd := &cobra.Command{
		Use:   name + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			pos, err := flags.position()
			if err != nil {
				return err
			}
			a, err := o.app()
			if err != nil {
				return err
			}
			return query(a, cmd.Context(), args[0], pos)
		}),
	}
	flags.register(cmd)
	return cmd
}

func newMoveStepCommand(o *rootOptions) *cobra.Command {
	var (
		line      int
		direction string
		write     bool
	)
	cmd := &cobra.Command{
		Use:   "move-step <file>",
		Short: "Move the step containing a line up or down",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			dir, err := refactor.ParseDirection(direction)
			if err != nil {
				return usageError(err)
			}
			if line < 1 {
				return usageError(fmt.Errorf("--line is 1-based, got %d", line))
			}
			a, err := o.app()
			if err != nil {
				return err
			}
			return a.MoveStep(cmd.Context(), args[0], line-1, dir, write)
		}),
	}
	cmd.Flags().IntVar(&line, "line", 0, "1-based line inside the step.")
	cmd.Flags().StringVar(&direction, "direction", "", "up or down.")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the file instead of printing the result.")
	_ = cmd.MarkFlagRequired("line")
	_ = cmd.MarkFlagRequired("direction")
	return cmd
}

func newParameteriseCommand(o *rootOptions) *cobra.Command {
	var (
		flags  positionFlags
		endCol int
		write  bool
	)
	cmd := &cobra.Command{
		Use:     "parameterise <file>",
		Aliases: []string{"parameterize"},
		Short:   "Turn the selected literal into a new parameter",
		Long: `Parameterise declares a parameter defaulting to the text between --col and
--end-col on --line and replaces that text with a reference to it. --end-col
is the 1-based column just after the selection.`,
		Args: cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			start, err := flags.position()
			if err != nil {
				return err
			}
			if endCol <= flags.col {
				return usageError(fmt.Errorf("--end-col must be greater than --col"))
			}
			a, err := o.app()
			if err != nil {
				return err
			}
			sel := manifest.Range{Start: start, End: manifest.Position{Line: start.Line, Column: endCol - 1}}
			_, err = a.Parameterise(cmd.Context(), args[0], sel, write)
			return err
		}),
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&endCol, "end-col", 0, "1-based column just after the selection.")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the file instead of printing the result.")
	_ = cmd.MarkFlagRequired("end-col")
	return cmd
}

func newInsertStepCommand(o *rootOptions) *cobra.Command {
	var (
		action, mixin string
		line          int
		write         bool
	)
	cmd := &cobra.Command{
		Use:   "insert-step <file>",
		Short: "Insert a skeleton mixin step into an action",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			if line < 1 {
				return usageError(fmt.Errorf("--line is 1-based, got %d", line))
			}
			a, err := o.app()
			if err != nil {
				return err
			}
			return a.InsertStep(cmd.Context(), args[0], action, mixin, line-1, write)
		}),
	}
	cmd.Flags().StringVar(&action, "action", "install", "Action receiving the step; created when missing.")
	cmd.Flags().StringVar(&mixin, "mixin", "exec", "Mixin of the new step.")
	cmd.Flags().IntVar(&line, "line", 1, "1-based cursor line; inside a step the new one follows it.")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the file instead of printing the result.")
	return cmd
}

func newDebugCommand(o *rootOptions) *cobra.Command {
	var (
		opts        app.DebugOptions
		noStopEntry bool
	)
	cmd := &cobra.Command{
		Use:   "debug <manifest|launch.yaml>",
		Short: "Step through an action, reading console commands from stdin",
		Long: `Debug simulates a run of an action. The target is a manifest or a launch
file (a YAML file with a porter-file key). Commands are read from stdin one
per line; send "help" for the list.`,
		Args: cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			if noStopEntry {
				stop := false
				opts.StopOnEntry = &stop
			}
			a, err := o.app()
			if err != nil {
				return err
			}
			return a.Debug(cmd.Context(), args[0], opts, cmd.InOrStdin())
		}),
	}
	f := cmd.Flags()
	f.StringVar(&opts.Action, "action", "", "Action to run (default install).")
	f.StringToStringVar(&opts.Parameters, "param", nil, "Parameter value, name=value. Repeatable.")
	f.StringToStringVar(&opts.Outputs, "output", nil, "Simulated step output, name=value. Repeatable.")
	f.StringVar(&opts.CredentialSet, "credential-set", "", "Credential set to bind.")
	f.BoolVar(&noStopEntry, "no-stop-on-entry", false, "Run to the first breakpoint instead of stopping on the first step.")
	return cmd
}

func newWatchCommand(o *rootOptions) *cobra.Command {
	var flags lintFlags
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Lint a manifest every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			a, err := o.app()
			if err != nil {
				return err
			}
			return a.Watch(cmd.Context(), args[0], opts)
		}),
	}
	flags.register(cmd)
	return cmd
}
