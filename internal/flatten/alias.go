package flatten

import "strings"

// Normalizer rewrites a leaf path before it is stored.
type Normalizer interface {
	Normalize(path string) string
}

// Rule replaces every occurrence of From with To.
type Rule struct {
	From string
	To   string
}

// Aliases is an ordered substitution table. Each rule sees the output of the
// rules before it. A nil table leaves paths untouched.
type Aliases []Rule

// DefaultAliases are the synonyms folded together by content comparison.
var DefaultAliases = Aliases{
	{From: "beer-list", To: "beers"},
}

func (a Aliases) Normalize(path string) string {
	for _, r := range a {
		if r.From != "" && strings.Contains(path, r.From) {
			path = strings.ReplaceAll(path, r.From, r.To)
		}
	}
	return path
}
