// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pegjson

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMaxDepth is reported when objects and arrays are nested more deeply
	// than the parser permits.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")

	// ErrInputTooLarge is reported when the input exceeds the maximum size
	// the parser permits.
	ErrInputTooLarge = errors.New("input too large")
)

// SyntaxError is the concrete type of errors reported by the parser.
type SyntaxError struct {
	Rule     Rule     // the innermost rule in progress at the failure
	Offset   int      // byte offset of the failure
	Location LineCol  // line and column of the failure
	Expected []string // what the grammar would have accepted at Offset
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// listJoin renders labels as "a", "a or b", or "a, b or c".
func listJoin(labels []string) string {
	switch len(labels) {
	case 0:
		return "nothing"
	case 1:
		return labels[0]
	}
	last := len(labels) - 1
	return strings.Join(labels[:last], ", ") + " or " + labels[last]
}
