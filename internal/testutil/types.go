// Package testutil defines support code for unit tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/creachadair/pegjson"
)

// MustParse parses input or fails the test.
func MustParse(t testing.TB, input string) *pegjson.Node {
	t.Helper()
	n, err := pegjson.ParseString(input)
	if err != nil {
		t.Fatalf("Parse %#q: %v", input, err)
	}
	return n
}

// Shape renders the rule structure of the tree rooted at n as a nested
// S-expression, for example "(object (pair (string) (value (number))))".
func Shape(n *pegjson.Node) string {
	var sb strings.Builder
	writeShape(&sb, n)
	return sb.String()
}

func writeShape(sb *strings.Builder, n *pegjson.Node) {
	sb.WriteString("(" + n.Rule.String())
	for _, kid := range n.Children {
		sb.WriteByte(' ')
		writeShape(sb, kid)
	}
	sb.WriteByte(')')
}
