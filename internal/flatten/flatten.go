// Package flatten turns a document tree into a mapping from leaf paths to
// scalar values.
//
// Paths join object keys with a single space. Array indexes are appended
// directly to the prefix with no separator, so {"a": [1, {"b": 2}]} yields
// "a0" -> 1 and "a1 b" -> 2. This means an object key ending in digits can
// produce the same path as an array index; such writes are counted as
// collisions on the Mapping.
package flatten

import (
	"errors"
	"fmt"
	"strconv"

	"jsoncompare/internal/tree"
)

var ErrInvalidNode = errors.New("invalid document node")

// Flattener walks trees and normalizes leaf paths on the way in.
type Flattener struct {
	normalizer Normalizer
}

// New returns a Flattener. A nil normalizer stores paths as generated.
func New(normalizer Normalizer) *Flattener {
	if normalizer == nil {
		normalizer = Aliases(nil)
	}
	return &Flattener{normalizer: normalizer}
}

// Flatten builds a fresh mapping for node.
func (f *Flattener) Flatten(node *tree.Node) (*Mapping, error) {
	out := NewMapping()
	if err := f.Into(node, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

// Into writes the leaves of node under prefix into out.
func (f *Flattener) Into(node *tree.Node, prefix string, out *Mapping) error {
	if node == nil {
		return fmt.Errorf("%w: nil node at path %q", ErrInvalidNode, prefix)
	}

	switch node.Kind {
	case tree.Array:
		for i, item := range node.Items {
			if err := f.Into(item, prefix+strconv.Itoa(i), out); err != nil {
				return err
			}
		}
	case tree.Object:
		for _, m := range node.Members {
			path := m.Key
			if prefix != "" {
				path = prefix + " " + m.Key
			}
			if err := f.Into(m.Value, path, out); err != nil {
				return err
			}
		}
	default:
		value, ok := node.Scalar()
		if !ok {
			return fmt.Errorf("%w: unknown %s at path %q", ErrInvalidNode, node.Kind, prefix)
		}
		out.Set(f.normalizer.Normalize(prefix), value)
	}
	return nil
}
