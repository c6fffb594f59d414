// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements path traversal over a pegjson parse tree.
package cursor

import (
	"fmt"

	"github.com/creachadair/pegjson"
)

// Path traverses a sequential path into the structure of root where path
// elements are as documented for the Cursor.Down method. This is a convenience
// wrapper for creating a cursor, applying path, and retrieving its node.
func Path(root *pegjson.Node, path ...any) (*pegjson.Node, error) {
	c := New(root).Down(path...)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c.Node(), nil
}

// A Cursor is a pointer that navigates into the structure of a parse tree.
type Cursor struct {
	org *pegjson.Node
	stk []*pegjson.Node
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin *pegjson.Node) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin node of c.
func (c *Cursor) Origin() *pegjson.Node { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Node reports the current node under the cursor.
func (c *Cursor) Node() *pegjson.Node {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of nodes from the origin to the current
// location in c.
func (c *Cursor) Path() []*pegjson.Node {
	return append([]*pegjson.Node{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the tree starting from the current
// node, where path elements are strings (object keys), integers (offsets
// into arrays and objects), functions (see below), or nil. If traversal
// fails, it stops and an error is recorded; use Err to recover the error.
//
// Value nodes are transparent: the cursor never stops on one, but on the
// object, array, or scalar it wraps.
//
// If a path element is a string, the current node must be an object, and the
// string selects the first pair with that key. If this is the last element of
// the path, the pair is returned; otherwise, subsequent path elements continue
// from the value of that pair. Use a nil path element to resolve the value of
// a pair at the end of a path.
//
// If a path element is an integer, the current node must be an array or
// object, and the integer selects an element or pair by offset. Negative
// offsets count backward from the end (-1 is last, -2 second last).
//
// If a path element is a function, it must have the signature
//
//	func(*pegjson.Node) (*pegjson.Node, error)
//
// and its result becomes the next node in the sequence. If the function
// reports an error, traversal stops and the error is recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	cur := c.Node()
	for _, elt := range path {
		// A path step that ended on a pair continues from its value.
		if cur.Rule == pegjson.Pair {
			cur = c.push(cur.Elem())
		}

		switch t := elt.(type) {
		case string:
			if cur.Rule != pegjson.Object {
				return c.setErrorf("cannot traverse %v with %q", cur.Rule, t)
			}
			p := cur.Find(t)
			if p == nil {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(p)

		case int:
			if cur.Rule != pegjson.Object && cur.Rule != pegjson.Array {
				return c.setErrorf("cannot traverse %v with %d", cur.Rule, t)
			}
			next := cur.Index(t)
			if next == nil {
				return c.setErrorf("%v index %d out of bounds (n=%d)", cur.Rule, t, cur.Len())
			}
			if next.Rule == pegjson.Value {
				next = next.Elem()
			}
			cur = c.push(next)

		case func(*pegjson.Node) (*pegjson.Node, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		case nil:
			// Do nothing. This case supports indirecting through a pair at the
			// end of the path.

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(n *pegjson.Node) *pegjson.Node { c.stk = append(c.stk, n); return n }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}
