// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cursor_test

import (
	"errors"
	"testing"

	"github.com/creachadair/pegjson"
	"github.com/creachadair/pegjson/cursor"
)

const testJSON = `{
  "list": [
    {
      "x": 1
    },
    {
      "x": 2
    }
  ],
  "y": {
    "hello": "there"
  },
  "o": [
    "hi",
    "yourself"
  ],
  "xyz": {
    "p": true,
    "d": true,
    "q": false
  }
}`

func TestCursor(t *testing.T) {
	v := pegjson.MustParse(testJSON)
	find := func(n *pegjson.Node, key string) *pegjson.Node { return n.Elem().Find(key) }

	list := find(v, "list").Elem()
	xyz := find(v, "xyz").Elem()
	tests := []struct {
		name string
		path []any
		want *pegjson.Node
		fail bool
	}{
		{"NilInput", nil, v, false},
		{"NoMatch", []any{"nonesuch"}, v, true},
		{"WrongType", []any{11}, v, true},

		{"ArrayPos", []any{"list", 1}, list.Index(1).Elem(), false},
		{"ArrayNeg", []any{"list", -1}, list.Index(1).Elem(), false},
		{"ArrayRange", []any{"o", 25}, find(v, "o").Elem(), true},
		{"ObjPath", []any{"xyz", "d"}, find(xyz, "d"), false},
		{"ObjIndex", []any{"xyz", 2}, find(xyz, "q"), false},
		{"PairValue", []any{"xyz", "d", nil}, find(xyz, "d").Elem(), false},
		{"Deep", []any{"list", 0, "x", nil}, find(list.Index(0).Elem(), "x").Elem(), false},
		{"ScalarKey", []any{"o", 0, "z"}, find(v, "o").Elem().Index(0).Elem(), true},

		{"FuncArray", []any{"o", lastChild}, find(v, "o").Elem().Index(-1), false},
		{"FuncObj", []any{"xyz", lastChild}, find(xyz, "q"), false},
		{"FuncWrong", []any{"xyz", "d", lastChild}, find(xyz, "d").Elem(), true},
		{"BadElement", []any{3.5}, v, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cursor.New(v).Down(tc.path...)
			err := c.Err()
			if err != nil {
				if tc.fail {
					t.Logf("Got expected error: %v", err)
				} else {
					t.Fatalf("Down %+v: unexpected error: %v", tc.path, err)
				}
			} else if tc.fail {
				t.Errorf("Down %+v: got %v, wanted error", tc.path, c.Node())
			}
			if got := c.Node(); got != tc.want {
				t.Errorf("Down %+v: got %v, want %v", tc.path, got, tc.want)
			} else if err == nil {
				t.Logf("Found %v OK", got)
			}
		})
	}
}

func TestCursorMoves(t *testing.T) {
	v := pegjson.MustParse(testJSON)
	c := cursor.New(v)
	if !c.AtOrigin() || c.Origin() != v {
		t.Fatalf("New cursor: AtOrigin=%v, Origin=%v", c.AtOrigin(), c.Origin())
	}

	c.Down("y", "hello")
	if err := c.Err(); err != nil {
		t.Fatalf("Down: unexpected error: %v", err)
	}
	if got := c.Node().Key(); got != "hello" {
		t.Errorf("Node key: got %q, want hello", got)
	}
	if got, want := len(c.Path()), 4; got != want {
		t.Errorf("Path: got %d nodes, want %d", got, want)
	}

	if got := c.Up().Node(); got.Rule != pegjson.Object {
		t.Errorf("Up: got %v, want object", got)
	}
	if c.Down("nonesuch").Err() == nil {
		t.Error("Down nonesuch: got nil, want error")
	}
	c.Reset()
	if !c.AtOrigin() || c.Err() != nil {
		t.Errorf("Reset: AtOrigin=%v, Err=%v", c.AtOrigin(), c.Err())
	}
	c.Up() // no-op at the origin
	if c.Node() != v {
		t.Errorf("Up at origin: got %v, want %v", c.Node(), v)
	}
}

func TestPath(t *testing.T) {
	v := pegjson.MustParse(testJSON)
	got, err := cursor.Path(v, "y", "hello", nil)
	if err != nil {
		t.Fatalf("Path: unexpected error: %v", err)
	}
	if s, err := got.Unquote(); err != nil || s != "there" {
		t.Errorf("Path value: got %q, %v; want there", s, err)
	}
	if n, err := cursor.Path(v, "list", 5); err == nil {
		t.Errorf("Path: got %v, wanted error", n)
	}
}

func lastChild(n *pegjson.Node) (*pegjson.Node, error) {
	switch n.Rule {
	case pegjson.Array, pegjson.Object:
		if last := n.Index(-1); last != nil {
			return last, nil
		}
	}
	return nil, errors.New("not a thing with children")
}
