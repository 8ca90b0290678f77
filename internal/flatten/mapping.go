package flatten

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"jsoncompare/internal/tree"
)

// Mapping is a flattened document: leaf path -> scalar, iterated in the
// order paths were first written.
type Mapping struct {
	entries    *orderedmap.OrderedMap[string, tree.Scalar]
	collisions int
}

func NewMapping() *Mapping {
	return &Mapping{entries: orderedmap.New[string, tree.Scalar]()}
}

func (m *Mapping) Len() int {
	return m.entries.Len()
}

func (m *Mapping) Get(path string) (tree.Scalar, bool) {
	return m.entries.Get(path)
}

// Set writes value at path. Writing a path twice is a collision: the later
// value wins and the path keeps its original position.
func (m *Mapping) Set(path string, value tree.Scalar) {
	if _, present := m.entries.Set(path, value); present {
		m.collisions++
	}
}

// Collisions counts writes that overwrote an existing path.
func (m *Mapping) Collisions() int {
	return m.collisions
}

func (m *Mapping) Each(fn func(path string, value tree.Scalar)) {
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

func (m *Mapping) Paths() []string {
	paths := make([]string, 0, m.Len())
	m.Each(func(path string, _ tree.Scalar) {
		paths = append(paths, path)
	})
	return paths
}
