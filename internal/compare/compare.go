// Package compare scores two flattened documents against each other.
//
// Both comparators walk the larger mapping (the first one on a tie) and
// look each path up in the smaller one. A path counts as matched when the
// two values are equivalent under the comparator's policy; otherwise it is
// reported as a Mismatch. The score is matched paths over the size of the
// larger mapping, so it does not depend on argument order.
package compare

import (
	"errors"
	"strings"

	"jsoncompare/internal/flatten"
	"jsoncompare/internal/tree"
)

// ErrUndefinedScore is returned when both documents have no leaves. The
// accompanying Result is still valid and has no mismatches.
var ErrUndefinedScore = errors.New("similarity score undefined: both documents are empty")

// Mismatch is a path whose values are not equivalent. Left and Right are nil
// when the path is absent from that document.
type Mismatch struct {
	Path  string       `json:"path"`
	Left  *tree.Scalar `json:"left,omitempty"`
	Right *tree.Scalar `json:"right,omitempty"`
}

type Result struct {
	Mode        Mode
	Mismatches  []Mismatch
	Matched     int
	Total       int
	LeftLeaves  int
	RightLeaves int
	Collisions  int
}

// Score is Matched / Total.
func (r *Result) Score() (float64, error) {
	if r.Total == 0 {
		return 0, ErrUndefinedScore
	}
	return float64(r.Matched) / float64(r.Total), nil
}

type equivalence func(larger tree.Scalar, smaller tree.Scalar, present bool) bool

// Structural compares with strict equality: same kind, same value.
func Structural(a, b *flatten.Mapping) (*Result, error) {
	return run(ModeStructure, a, b, strictEqual)
}

// Content compares type-tolerantly. Values that are not strictly equal still
// match when the larger mapping's rendering is a substring of the smaller
// mapping's rendering. The containment check is directional and can match
// unrelated values ("1" inside "12.1"); that is accepted.
func Content(a, b *flatten.Mapping) (*Result, error) {
	return run(ModeContent, a, b, tolerantEqual)
}

func strictEqual(larger, smaller tree.Scalar, present bool) bool {
	return present && larger.Equal(smaller)
}

func tolerantEqual(larger, smaller tree.Scalar, present bool) bool {
	if strictEqual(larger, smaller, present) {
		return true
	}
	if !present {
		return false
	}
	return strings.Contains(smaller.String(), larger.String())
}

func run(mode Mode, a, b *flatten.Mapping, eq equivalence) (*Result, error) {
	larger, smaller := a, b
	if b.Len() > a.Len() {
		larger, smaller = b, a
	}

	res := &Result{
		Mode:        mode,
		Mismatches:  make([]Mismatch, 0),
		Total:       larger.Len(),
		LeftLeaves:  a.Len(),
		RightLeaves: b.Len(),
		Collisions:  a.Collisions() + b.Collisions(),
	}

	larger.Each(func(path string, value tree.Scalar) {
		other, ok := smaller.Get(path)
		if eq(value, other, ok) {
			res.Matched++
			return
		}
		res.Mismatches = append(res.Mismatches, Mismatch{
			Path:  path,
			Left:  lookup(a, path),
			Right: lookup(b, path),
		})
	})

	if res.Total == 0 {
		return res, ErrUndefinedScore
	}
	return res, nil
}

func lookup(m *flatten.Mapping, path string) *tree.Scalar {
	v, ok := m.Get(path)
	if !ok {
		return nil
	}
	return &v
}
