package tree

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Canonical renders n as compact JSON. Object members keep their document
// order and duplicate keys are written out, so only insignificant
// whitespace and string escaping differ from the source.
func Canonical(n *Node) string {
	var sb strings.Builder
	writeCanonical(&sb, n)
	return sb.String()
}

// Hash is the sha256 of the canonical rendering. Two documents hash the same
// only when they flatten to the same paths in the same order.
func Hash(n *Node) string {
	sum := sha256.Sum256([]byte(Canonical(n)))
	return fmt.Sprintf("%x", sum)
}

func writeCanonical(sb *strings.Builder, n *Node) {
	if n == nil {
		sb.WriteString("null")
		return
	}
	switch n.Kind {
	case Object:
		sb.WriteByte('{')
		for i, m := range n.Members {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(Scalar{Kind: String, Text: m.Key}.JSON())
			sb.WriteByte(':')
			writeCanonical(sb, m.Value)
		}
		sb.WriteByte('}')
	case Array:
		sb.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, item)
		}
		sb.WriteByte(']')
	default:
		s, _ := n.Scalar()
		sb.WriteString(s.JSON())
	}
}
