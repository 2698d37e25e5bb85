package refactor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/porterlens/internal/lineindex"
	"github.com/specialistvlad/porterlens/internal/manifest"
)

// Direction is the way a step moves within its action.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, fmt.Errorf("unknown direction %q, expected up or down", s)
}

var (
	// ErrNotOnStep is returned when the line is not inside any step.
	ErrNotOnStep = errors.New("the line is not inside a step")
	// ErrCannotMove is returned for the first step moving up or the last
	// moving down.
	ErrCannotMove = errors.New("step cannot be moved")
)

// MoveStep swaps the step containing line with its neighbour in direction.
// The swap is a single edit covering both steps and anything between them.
func MoveStep(doc *manifest.Document, line int, dir Direction) (lineindex.Edit, error) {
	action, i := stepAt(doc, line)
	if action == nil {
		return lineindex.Edit{}, ErrNotOnStep
	}

	var first, second manifest.Step
	switch {
	case dir == Up && i > 0:
		first, second = action.Steps[i-1], action.Steps[i]
	case dir == Down && i < len(action.Steps)-1:
		first, second = action.Steps[i], action.Steps[i+1]
	case dir == Up:
		return lineindex.Edit{}, fmt.Errorf("%w: already at the top and cannot be moved up", ErrCannotMove)
	default:
		return lineindex.Edit{}, fmt.Errorf("%w: already at the bottom and cannot be moved down", ErrCannotMove)
	}

	idx := doc.Index()
	firstText := idx.Slice(lines(first.StartLine, first.EndLine))
	gap := idx.Slice(lines(first.EndLine+1, second.StartLine-1))
	secondText := idx.Slice(lines(second.StartLine, second.EndLine))

	// The last step may end without a newline.
	atEOF := !strings.HasSuffix(secondText, "\n")
	if atEOF {
		secondText += "\n"
	}
	newText := secondText + gap + firstText
	if atEOF {
		newText = strings.TrimSuffix(newText, "\n")
	}
	return lineindex.Edit{Range: lines(first.StartLine, second.EndLine), NewText: newText}, nil
}

// lines covers whole lines from..to including the final line break.
func lines(from, to int) lineindex.Range {
	return lineindex.Range{
		Start: lineindex.Position{Line: from},
		End:   lineindex.Position{Line: to + 1},
	}
}

func stepAt(doc *manifest.Document, line int) (*manifest.Action, int) {
	for a := range doc.Actions {
		if i := doc.Actions[a].StepAt(line); i >= 0 {
			return &doc.Actions[a], i
		}
	}
	return nil, -1
}
