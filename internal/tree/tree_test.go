package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsMemberOrder(t *testing.T) {
	node, err := Parse([]byte(`{"z": 1, "a": {"y": true, "b": null}, "m": [1, "two"]}`))
	require.NoError(t, err)
	require.Equal(t, Object, node.Kind)

	var keys []string
	for _, m := range node.Members {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)

	inner := node.Members[1].Value
	require.Len(t, inner.Members, 2)
	assert.Equal(t, "y", inner.Members[0].Key)
	assert.Equal(t, Bool, inner.Members[0].Value.Kind)
	assert.Equal(t, Null, inner.Members[1].Value.Kind)

	arr := node.Members[2].Value
	require.Equal(t, Array, arr.Kind)
	require.Len(t, arr.Items, 2)
	assert.Equal(t, Number, arr.Items[0].Kind)
	assert.Equal(t, "two", arr.Items[1].Text)
}

func TestParse_KeepsDuplicateKeys(t *testing.T) {
	node, err := Parse([]byte(`{"a": 1, "a": 2}`))
	require.NoError(t, err)
	require.Len(t, node.Members, 2)
	assert.Equal(t, "2", node.Members[1].Value.Text)
}

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind Kind
		text string
	}{
		{name: "number keeps lexical form", doc: `1.50`, kind: Number, text: "1.50"},
		{name: "string is unescaped", doc: `"a\"b"`, kind: String, text: `a"b`},
		{name: "true", doc: `true`, kind: Bool, text: "true"},
		{name: "null", doc: `null`, kind: Null, text: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, node.Kind)
			assert.Equal(t, tt.text, node.Text)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, doc := range []string{``, `{"a":`, `{"a" 1}`, `[1,]x`} {
		_, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidJSON, doc)
	}
}

func TestScalar_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Scalar
		want bool
	}{
		{"same string", Scalar{String, "x"}, Scalar{String, "x"}, true},
		{"number vs string", Scalar{Number, "0.6"}, Scalar{String, "0.6"}, false},
		{"numeric value", Scalar{Number, "1"}, Scalar{Number, "1.0"}, true},
		{"exponent", Scalar{Number, "1e2"}, Scalar{Number, "100"}, true},
		{"different numbers", Scalar{Number, "1"}, Scalar{Number, "2"}, false},
		{"null vs string null", Scalar{Null, "null"}, Scalar{String, "null"}, false},
		{"bools", Scalar{Bool, "true"}, Scalar{Bool, "false"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestScalar_Rendering(t *testing.T) {
	s := Scalar{Kind: String, Text: "0.6"}
	assert.Equal(t, "0.6", s.String())
	assert.Equal(t, `"0.6"`, s.JSON())

	n := Scalar{Kind: Number, Text: "0.6"}
	assert.Equal(t, "0.6", n.String())
	assert.Equal(t, "0.6", n.JSON())
}

func TestNode_Scalar(t *testing.T) {
	_, ok := NewArray().Scalar()
	assert.False(t, ok)

	var nilNode *Node
	_, ok = nilNode.Scalar()
	assert.False(t, ok)

	s, ok := NewString("x").Scalar()
	require.True(t, ok)
	assert.Equal(t, Scalar{Kind: String, Text: "x"}, s)
}

func TestCanonical(t *testing.T) {
	a, err := Parse([]byte(`{"b": [1, {"d": "x", "c": null}], "a": true}`))
	require.NoError(t, err)
	b, err := Parse([]byte(`{ "b" : [ 1, { "d": "x", "c": null } ], "a" : true }`))
	require.NoError(t, err)

	assert.Equal(t, `{"b":[1,{"d":"x","c":null}],"a":true}`, Canonical(a))
	assert.Equal(t, Hash(a), Hash(b))

	c, err := Parse([]byte(`{"b": [1, {"d": "y", "c": null}], "a": true}`))
	require.NoError(t, err)
	assert.NotEqual(t, Hash(a), Hash(c))
}

func TestHash_KeyOrderMatters(t *testing.T) {
	ab, err := Parse([]byte(`{"a": 1, "b": 2}`))
	require.NoError(t, err)
	ba, err := Parse([]byte(`{"b": 2, "a": 1}`))
	require.NoError(t, err)

	assert.NotEqual(t, Hash(ab), Hash(ba))
}

func TestCanonical_KeepsDuplicateKeys(t *testing.T) {
	node := NewObject(Field("a", NewNumber("1")), Field("a", NewNumber("2")))
	assert.Equal(t, `{"a":1,"a":2}`, Canonical(node))
	assert.NotEqual(t, Hash(node), Hash(NewObject(Field("a", NewNumber("2")))))
}
