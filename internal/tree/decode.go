package tree

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

var ErrInvalidJSON = errors.New("invalid JSON document")

// Parse decodes a JSON document. Object members are kept in document order.
func Parse(data []byte) (*Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func ParseFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	node, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return node, nil
}

func fromResult(r gjson.Result) *Node {
	switch r.Type {
	case gjson.False:
		return NewBool(false)
	case gjson.True:
		return NewBool(true)
	case gjson.Number:
		return NewNumber(r.Raw)
	case gjson.String:
		return NewString(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			node := NewArray()
			r.ForEach(func(_, value gjson.Result) bool {
				node.Items = append(node.Items, fromResult(value))
				return true
			})
			return node
		}
		node := NewObject()
		r.ForEach(func(key, value gjson.Result) bool {
			node.Members = append(node.Members, Field(key.Str, fromResult(value)))
			return true
		})
		return node
	}
	return NewNull()
}
