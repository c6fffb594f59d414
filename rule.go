// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pegjson

// Rule identifies a rule of the JSON grammar.
type Rule byte

// Constants defining the valid Rule values.
const (
	Invalid    Rule = iota // invalid rule
	JSON                   // start ~ (object | array) ~ end
	Object                 // "{" pair ("," pair)* "}" | "{" "}"
	Pair                   // string ":" value
	Array                  // "[" value ("," value)* "]" | "[" "]"
	Value                  // string | number | object | array | bool | null
	String                 // quoted string (atomic)
	Escape                 // backslash escape (atomic)
	Unicode                // "u" followed by 4 hex digits (atomic)
	Hex                    // hexadecimal digit (single character)
	Number                 // number (atomic)
	Int                    // integer part of a number
	Exp                    // exponent part of a number (atomic)
	Bool                   // constant: true or false
	Null                   // constant: null
	Whitespace             // space, tab, CR, LF (silent)
)

var ruleStr = [...]string{
	Invalid:    "invalid rule",
	JSON:       "json",
	Object:     "object",
	Pair:       "pair",
	Array:      "array",
	Value:      "value",
	String:     "string",
	Escape:     "escape",
	Unicode:    "unicode",
	Hex:        "hex",
	Number:     "number",
	Int:        "int",
	Exp:        "exp",
	Bool:       "bool",
	Null:       "null",
	Whitespace: "whitespace",
}

func (r Rule) String() string {
	v := int(r)
	if v >= len(ruleStr) {
		return ruleStr[Invalid]
	}
	return ruleStr[v]
}

// Atomic reports whether r is an atomic rule. Whitespace is not skipped inside
// an atomic rule, and nodes for atomic rules have no children. Hex matches a
// single character and is not itself atomic.
func (r Rule) Atomic() bool {
	switch r {
	case String, Escape, Unicode, Number, Int, Exp:
		return true
	}
	return false
}

// Silent reports whether r is a silent rule, which never produces a node.
func (r Rule) Silent() bool { return r == Whitespace }
