// Package tree holds the decoded document model the comparators work on.
//
// A Node is an object, an array or a scalar. Object members keep the order
// they had in the source document, duplicates included, so that flattening
// and mismatch reporting follow the document rather than hash order.
package tree

import (
	"encoding/json"
	"strconv"
)

// Kind is the JSON type of a Node.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsScalar reports whether nodes of this kind are leaves.
func (k Kind) IsScalar() bool {
	return k <= String
}

// Member is one key/value entry of an object.
type Member struct {
	Key   string
	Value *Node
}

// Node is a decoded document value. Text carries the scalar payload: the
// unescaped characters of a string, the lexical form of a number, "true" or
// "false", or "null".
type Node struct {
	Kind    Kind
	Text    string
	Items   []*Node
	Members []Member
}

// NewNull returns a JSON null.
func NewNull() *Node { return &Node{Kind: Null, Text: "null"} }

// NewBool returns a boolean leaf.
func NewBool(b bool) *Node { return &Node{Kind: Bool, Text: strconv.FormatBool(b)} }

// NewNumber keeps text as written, so "1.0" and "1" render differently even
// though they compare equal.
func NewNumber(text string) *Node { return &Node{Kind: Number, Text: text} }

// NewString returns a string leaf holding s unescaped.
func NewString(s string) *Node { return &Node{Kind: String, Text: s} }

// NewArray returns an array of items in order.
func NewArray(items ...*Node) *Node {
	return &Node{Kind: Array, Items: items}
}

// NewObject returns an object whose members keep the given order.
func NewObject(members ...Member) *Node {
	return &Node{Kind: Object, Members: members}
}

// Field is shorthand for building object members.
func Field(key string, value *Node) Member {
	return Member{Key: key, Value: value}
}

// Scalar returns the leaf value of n. ok is false for arrays and objects.
func (n *Node) Scalar() (Scalar, bool) {
	if n == nil || !n.Kind.IsScalar() {
		return Scalar{}, false
	}
	return Scalar{Kind: n.Kind, Text: n.Text}, true
}

// Scalar is a leaf value detached from its node.
type Scalar struct {
	Kind Kind
	Text string
}

// Equal is strict equality: same kind and same value. Numbers are compared
// by numeric value, so 1 and 1.0 are equal; everything else by text.
func (s Scalar) Equal(o Scalar) bool {
	if s.Kind != o.Kind {
		return false
	}
	if s.Kind == Number {
		a, errA := strconv.ParseFloat(s.Text, 64)
		b, errB := strconv.ParseFloat(o.Text, 64)
		if errA == nil && errB == nil {
			return a == b
		}
	}
	return s.Text == o.Text
}

// String is the type-free textual form: a string renders as its characters
// without quotes, so the number 0.6 and the string "0.6" share a rendering.
func (s Scalar) String() string {
	return s.Text
}

// JSON renders s as a JSON literal.
func (s Scalar) JSON() string {
	if s.Kind != String {
		return s.Text
	}
	b, err := json.Marshal(s.Text)
	if err != nil {
		return strconv.Quote(s.Text)
	}
	return string(b)
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	return []byte(s.JSON()), nil
}
