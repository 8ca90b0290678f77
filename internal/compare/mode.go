package compare

import (
	"errors"
	"fmt"

	"jsoncompare/internal/flatten"
	"jsoncompare/internal/tree"
)

type Mode string

const (
	ModeStructure Mode = "structure"
	ModeContent   Mode = "content"
)

// ModeBoth selects both pipelines in ParseModes.
const ModeBoth = "both"

// ParseModes resolves a mode name. An empty name means both.
func ParseModes(name string) ([]Mode, error) {
	switch name {
	case string(ModeStructure):
		return []Mode{ModeStructure}, nil
	case string(ModeContent):
		return []Mode{ModeContent}, nil
	case ModeBoth, "":
		return []Mode{ModeStructure, ModeContent}, nil
	}
	return nil, fmt.Errorf("unknown comparison mode %q", name)
}

// Normalizer returns the path normalization the mode flattens with.
// Structural comparison keeps aliases apart.
func (m Mode) Normalizer() flatten.Normalizer {
	if m == ModeContent {
		return flatten.DefaultAliases
	}
	return flatten.Aliases(nil)
}

func (m Mode) Title() string {
	if m == ModeContent {
		return "Content"
	}
	return "Structure"
}

// Documents flattens both trees for mode and compares them. Like the
// comparators it returns ErrUndefinedScore together with a usable Result.
func Documents(mode Mode, left, right *tree.Node) (*Result, error) {
	f := flatten.New(mode.Normalizer())

	a, err := f.Flatten(left)
	if err != nil {
		return nil, fmt.Errorf("flatten left document: %w", err)
	}
	b, err := f.Flatten(right)
	if err != nil {
		return nil, fmt.Errorf("flatten right document: %w", err)
	}

	switch mode {
	case ModeStructure:
		return Structural(a, b)
	case ModeContent:
		return Content(a, b)
	}
	return nil, fmt.Errorf("unknown comparison mode %q", mode)
}

// Run compares left and right under every mode the name selects. An
// undefined score is a valid outcome here, not an error.
func Run(name string, left, right *tree.Node) ([]*Result, error) {
	modes, err := ParseModes(name)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(modes))
	for _, mode := range modes {
		res, err := Documents(mode, left, right)
		if err != nil && !errors.Is(err, ErrUndefinedScore) {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
