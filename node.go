// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pegjson

import (
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/pegjson/internal/escape"
	"go4.org/mem"
)

// A Node is the result of a successful rule match. Nodes for atomic rules
// (string and number) and for the constants (bool and null) have no children.
// A Value node has exactly one child, the node for the matched value.
//
// A Node retains a read-only view of its source text. Nodes are not modified
// once parsing is complete.
type Node struct {
	Rule Rule
	Span
	Children []*Node

	src mem.RO
}

// Len reports the number of children of n.
func (n *Node) Len() int { return len(n.Children) }

// Text returns a copy of the source text spanned by n.
func (n *Node) Text() string { return n.src.Slice(n.Pos, n.End).StringCopy() }

// Location returns the complete location of n in its source text.
func (n *Node) Location() Location { return locate(n.src, n.Span) }

func (n *Node) String() string { return fmt.Sprintf("%v[%v]", n.Rule, n.Span) }

// Elem returns the node wrapped by n. For a Value node, this is the matched
// value; for a Pair, it is the matched value of the pair. For any other node,
// Elem returns n itself.
func (n *Node) Elem() *Node {
	switch n.Rule {
	case Pair:
		return n.Children[1].Elem()
	case Value:
		return n.Children[0]
	}
	return n
}

// Unquote decodes the text of a String node, with the enclosing quotes
// removed and escape sequences replaced. It reports an error if n is not a
// String.
func (n *Node) Unquote() (string, error) {
	if n.Rule != String {
		return "", fmt.Errorf("cannot unquote %v", n.Rule)
	}
	dec, err := escape.Unquote(n.src.Slice(n.Pos+1, n.End-1))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}

// Key returns the decoded key of a Pair node. It returns "" for other nodes.
func (n *Node) Key() string {
	if n.Rule != Pair {
		return ""
	}
	key, err := n.Children[0].Unquote()
	if err != nil {
		return "" // a parsed key is always well-formed
	}
	return key
}

// Find returns the first pair of Object n with the given key, or nil.
func (n *Node) Find(key string) *Node {
	if n.Rule != Object {
		return nil
	}
	for _, p := range n.Children {
		if p.Key() == key {
			return p
		}
	}
	return nil
}

// Index returns the child of n at offset i, or nil if i is out of range.
// For an Array the child is a Value node; for an Object it is a Pair.
// Negative offsets count backward from the end (-1 is the last child).
func (n *Node) Index(i int) *Node {
	if i < 0 {
		i += len(n.Children)
	}
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Fprint writes an indented dump of the tree rooted at n to w. Each line gives
// the rule, byte span, and line/column location of a node. Atomic nodes and
// constants also show their source text.
func Fprint(w io.Writer, n *Node) error {
	return fprint(w, n, 0)
}

func fprint(w io.Writer, n *Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	var err error
	switch n.Rule {
	case String, Number, Bool, Null:
		_, err = fmt.Fprintf(w, "%s%v %v %v %s\n", indent, n.Rule, n.Span, n.Location(), n.Text())
	default:
		_, err = fmt.Fprintf(w, "%s%v %v %v\n", indent, n.Rule, n.Span, n.Location())
	}
	if err != nil {
		return err
	}
	for _, kid := range n.Children {
		if err := fprint(w, kid, depth+1); err != nil {
			return err
		}
	}
	return nil
}
