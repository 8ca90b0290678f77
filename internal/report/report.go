// Package report renders comparison results for people (text) and for
// programs (JSON).
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"jsoncompare/internal/compare"
	"jsoncompare/internal/tree"
)

const (
	rule   = "---------------------------------------------------------------------------------------"
	absent = "(absent)"
)

// Result is the serialized form of a compare.Result. Score is nil when it is
// undefined.
type Result struct {
	Mode        compare.Mode       `json:"mode"`
	Matched     int                `json:"matched"`
	Total       int                `json:"total"`
	Score       *float64           `json:"score"`
	LeftLeaves  int                `json:"left_leaves"`
	RightLeaves int                `json:"right_leaves"`
	Collisions  int                `json:"collisions,omitempty"`
	Mismatches  []compare.Mismatch `json:"mismatches"`
}

func FromResult(res *compare.Result) Result {
	out := Result{
		Mode:        res.Mode,
		Matched:     res.Matched,
		Total:       res.Total,
		LeftLeaves:  res.LeftLeaves,
		RightLeaves: res.RightLeaves,
		Collisions:  res.Collisions,
		Mismatches:  res.Mismatches,
	}
	if score, err := res.Score(); err == nil {
		out.Score = &score
	}
	return out
}

func FromResults(results []*compare.Result) []Result {
	out := make([]Result, 0, len(results))
	for _, res := range results {
		out = append(out, FromResult(res))
	}
	return out
}

// WriteJSON writes all results as one indented JSON array.
func WriteJSON(w io.Writer, results []*compare.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromResults(results)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteText writes the differences table followed by the score block.
func WriteText(w io.Writer, res *compare.Result) error {
	var sb strings.Builder

	heading(&sb, fmt.Sprintf("JSON %s Differences", res.Mode.Title()))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%-50s   %-17s   %-20s\n", "JSON 1 Key", "JSON 1 Value", "JSON 2 Value")
	sb.WriteString("\n")
	for _, m := range res.Mismatches {
		fmt.Fprintf(&sb, "%-50s : %-17s - %-20s\n", m.Path, Value(m.Left), Value(m.Right))
	}
	sb.WriteString("\n\n")

	heading(&sb, fmt.Sprintf("JSON %s Similarity Score", res.Mode.Title()))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%d out of %d  OR  %s\n", res.Matched, res.Total, Score(res))

	_, err := io.WriteString(w, sb.String())
	return err
}

// Value renders a mismatch side as a JSON literal.
func Value(v *tree.Scalar) string {
	if v == nil {
		return absent
	}
	return v.JSON()
}

// Score renders the similarity with two decimals, or "undefined".
func Score(res *compare.Result) string {
	score, err := res.Score()
	if errors.Is(err, compare.ErrUndefinedScore) {
		return "undefined"
	}
	return fmt.Sprintf("%.2f", score)
}

func heading(sb *strings.Builder, title string) {
	sb.WriteString(rule + "\n")
	pad := (len(rule) - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(rule + "\n")
}
