// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pegjson

import "fmt"

// A Handler receives events from Walk describing the structure of a parse
// tree. If a method reports an error, the walk stops and that error is
// returned to the caller of Walk.
type Handler interface {
	// Begin a new object, whose node is obj.
	BeginObject(obj *Node) error

	// End the most-recently-opened object.
	EndObject(obj *Node) error

	// Begin a new array, whose node is arr.
	BeginArray(arr *Node) error

	// End the most-recently-opened array.
	EndArray(arr *Node) error

	// Begin a new object member. The key of the pair is still quoted; use
	// the Key method of the node to decode it.
	BeginMember(pair *Node) error

	// End the current object member.
	EndMember(pair *Node) error

	// Report a scalar value: a String, Number, Bool, or Null node.
	Value(v *Node) error
}

// Walk traverses the tree rooted at root in source order and delivers events
// to h. Corresponding Begin and End events are always correctly paired unless
// a handler method reports an error.
func Walk(root *Node, h Handler) error {
	switch root.Rule {
	case Object:
		if err := h.BeginObject(root); err != nil {
			return err
		}
		for _, pair := range root.Children {
			if err := Walk(pair, h); err != nil {
				return err
			}
		}
		return h.EndObject(root)

	case Array:
		if err := h.BeginArray(root); err != nil {
			return err
		}
		for _, elt := range root.Children {
			if err := Walk(elt, h); err != nil {
				return err
			}
		}
		return h.EndArray(root)

	case Pair:
		if err := h.BeginMember(root); err != nil {
			return err
		}
		if err := Walk(root.Children[1], h); err != nil {
			return err
		}
		return h.EndMember(root)

	case Value:
		return Walk(root.Children[0], h)

	case String, Number, Bool, Null:
		return h.Value(root)

	default:
		return fmt.Errorf("unexpected %v node", root.Rule)
	}
}
