package app

import (
	"context"
	"errors"

	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/navigation"
)

// ErrNoResult is returned by queries that found nothing at the position.
var ErrNoResult = errors.New("nothing found at position")

type location struct {
	Name  string         `json:"name"`
	Range manifest.Range `json:"range"`
}

// Symbols prints the outline of path as JSON.
func (a *App) Symbols(ctx context.Context, path string) error {
	an, err := a.analyze(a.Context(ctx), path)
	if err != nil {
		return err
	}
	symbols := navigation.Symbols(an.Doc)
	if symbols == nil {
		symbols = []navigation.Symbol{}
	}
	return writeJSON(a.outW, symbols)
}

// Complete prints the completion items at pos as a JSON array.
func (a *App) Complete(ctx context.Context, path string, pos manifest.Position) error {
	an, err := a.analyze(a.Context(ctx), path)
	if err != nil {
		return err
	}
	items := navigation.Completions(an.Doc, pos)
	if items == nil {
		items = []string{}
	}
	return writeJSON(a.outW, items)
}

// Definition prints the declaration of the reference at pos.
func (a *App) Definition(ctx context.Context, path string, pos manifest.Position) error {
	an, err := a.analyze(a.Context(ctx), path)
	if err != nil {
		return err
	}
	decl, ok := navigation.Definition(an.Doc, pos)
	if !ok {
		return ErrNoResult
	}
	return writeJSON(a.outW, location{Name: decl.Name, Range: decl.NameRange})
}

// References prints every reference to the declaration at pos.
func (a *App) References(ctx context.Context, path string, pos manifest.Position) error {
	an, err := a.analyze(a.Context(ctx), path)
	if err != nil {
		return err
	}
	refs := navigation.References(an.Doc, pos)
	if len(refs) == 0 {
		return ErrNoResult
	}
	return writeJSON(a.outW, refs)
}
