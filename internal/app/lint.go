package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/porterlens/internal/diagnostics"
	"github.com/specialistvlad/porterlens/internal/fsutil"
	"github.com/specialistvlad/porterlens/internal/lineindex"
	"github.com/specialistvlad/porterlens/internal/workspace"
)

// unavailable is reported for a manifest that does not parse.
const unavailable = "file has errors, intellisense unavailable"

// LintOptions controls how findings are printed.
type LintOptions struct {
	// Format is "text" or "json".
	Format string
	Color  bool
	// Width wraps text output; zero disables wrapping.
	Width uint
}

type fileReport struct {
	Path        string             `json:"path"`
	Error       string             `json:"error,omitempty"`
	Diagnostics []diagnosticReport `json:"diagnostics"`
}

type diagnosticReport struct {
	diagnostics.Diagnostic
	Fixes []diagnostics.Fix `json:"fixes,omitempty"`
}

// Lint analyses every manifest under paths and prints the findings. It
// returns the number of findings; a manifest that does not parse counts as
// one.
func (a *App) Lint(ctx context.Context, paths []string, opts LintOptions) (int, error) {
	ctx = a.Context(ctx)
	files, err := fsutil.FindManifests(paths...)
	if err != nil {
		return 0, err
	}
	a.logger.Debug("Manifests found.", "count", len(files))

	var (
		findings int
		reports  []fileReport
	)
	for _, f := range files {
		an, err := a.workspace.Analyze(ctx, f)
		if err != nil {
			return findings, err
		}
		if !an.OK() {
			findings++
		} else {
			findings += len(an.Diagnostics)
		}

		if opts.Format == "json" {
			reports = append(reports, reportFor(f, an))
			continue
		}
		if err := a.writeAnalysis(f, an, opts); err != nil {
			return findings, err
		}
	}

	if opts.Format == "json" {
		if reports == nil {
			reports = []fileReport{}
		}
		if err := writeJSON(a.outW, reports); err != nil {
			return findings, err
		}
	}

	if findings == 0 {
		a.logger.Info("✅ No problems found.", "files", len(files))
	} else {
		a.logger.Info("🔎 Problems found.", "files", len(files), "count", findings)
	}
	return findings, nil
}

func (a *App) writeAnalysis(path string, an *workspace.Analysis, opts LintOptions) error {
	if !an.OK() {
		_, err := fmt.Fprintf(a.outW, "%s: %s: %v\n", path, unavailable, an.ParseErr)
		return err
	}
	if len(an.Diagnostics) == 0 {
		return nil
	}
	return diagnostics.WriteText(a.outW, path, an.Doc, an.Diagnostics, opts.Width, opts.Color)
}

func reportFor(path string, an *workspace.Analysis) fileReport {
	r := fileReport{Path: path, Diagnostics: []diagnosticReport{}}
	if !an.OK() {
		r.Error = fmt.Sprintf("%s: %v", unavailable, an.ParseErr)
		return r
	}
	for _, d := range an.Diagnostics {
		r.Diagnostics = append(r.Diagnostics, diagnosticReport{Diagnostic: d, Fixes: diagnostics.Fixes(d, an.Doc)})
	}
	return r
}

// Fix applies the nearest quick fix for every fixable finding in path. With
// write set the file is rewritten in place, otherwise the fixed text is
// printed. It returns the number of fixes applied.
func (a *App) Fix(ctx context.Context, path string, write bool) (int, error) {
	ctx = a.Context(ctx)
	an, err := a.analyze(ctx, path)
	if err != nil {
		return 0, err
	}

	var edits []lineindex.Edit
	for _, d := range an.Diagnostics {
		fixes := diagnostics.Fixes(d, an.Doc)
		if len(fixes) == 0 {
			a.logger.Debug("No fix offered.", "reference", d.Reference)
			continue
		}
		a.logger.Debug("Applying fix.", "title", fixes[0].Title)
		edits = append(edits, fixes[0].Edit)
	}

	fixed, err := an.Doc.Index().Apply(edits)
	if err != nil {
		return 0, err
	}
	if err := a.emitText(path, fixed, write); err != nil {
		return 0, err
	}
	a.logger.Info("🩹 Fixes applied.", "path", path, "count", len(edits))
	return len(edits), nil
}

// emitText writes text back to path, keeping its mode, or prints it.
func (a *App) emitText(path, text string, write bool) error {
	if !write {
		_, err := io.WriteString(a.outW, text)
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	a.workspace.Invalidate(path)
	a.logger.Debug("Manifest rewritten.", "path", path)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
