package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/porterlens/internal/lineindex"
	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/refactor"
)

// MoveStep moves the step containing line one place in dir.
func (a *App) MoveStep(ctx context.Context, path string, line int, dir refactor.Direction, write bool) error {
	ctx = a.Context(ctx)
	an, err := a.analyze(ctx, path)
	if err != nil {
		return err
	}
	edit, err := refactor.MoveStep(an.Doc, line, dir)
	if err != nil {
		return err
	}
	a.logger.Debug("Moving step.", "line", line, "direction", dir)
	return a.applyEdits(an.Doc, path, write, edit)
}

// Parameterise extracts the literal in selection into a new parameter and
// returns the parameter's name.
func (a *App) Parameterise(ctx context.Context, path string, selection manifest.Range, write bool) (string, error) {
	ctx = a.Context(ctx)
	an, err := a.analyze(ctx, path)
	if err != nil {
		return "", err
	}
	p, err := refactor.Parameterise(an.Doc, selection)
	if err != nil {
		return "", err
	}
	if err := a.applyEdits(an.Doc, path, write, p.Edits...); err != nil {
		return "", err
	}
	a.logger.Info("🧩 Parameter extracted.", "name", p.Name)
	return p.Name, nil
}

// InsertStep adds a skeleton mixin step to action near cursorLine.
func (a *App) InsertStep(ctx context.Context, path, action, mixin string, cursorLine int, write bool) error {
	ctx = a.Context(ctx)
	an, err := a.analyze(ctx, path)
	if err != nil {
		return err
	}
	edit := refactor.InsertStep(an.Doc, action, mixin, cursorLine)
	a.logger.Debug("Inserting step.", "action", action, "mixin", mixin, "at", edit.Range.Start.Line)
	return a.applyEdits(an.Doc, path, write, edit)
}

func (a *App) applyEdits(doc *manifest.Document, path string, write bool, edits ...lineindex.Edit) error {
	text, err := doc.Index().Apply(edits)
	if err != nil {
		return err
	}
	if _, err := manifest.Parse(text); err != nil {
		return fmt.Errorf("%s: refusing to apply edits: %w", path, err)
	}
	return a.emitText(path, text, write)
}
