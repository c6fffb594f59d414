// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package pegjson implements a recognizer for JSON text driven by a Parsing
// Expression Grammar (PEG).
//
// # Grammar
//
// The recognizer follows these rules, where "|" is ordered choice (the first
// alternative that matches wins), "~" is sequence, and "?", "*", "+" are the
// usual repetition operators:
//
//	json    = start ~ (object | array) ~ end
//	object  = "{" ~ pair ~ ("," ~ pair)* ~ "}" | "{" ~ "}"
//	pair    = string ~ ":" ~ value
//	array   = "[" ~ value ~ ("," ~ value)* ~ "]" | "[" ~ "]"
//	value   = string | number | object | array | bool | null
//	string  = @{ "\"" ~ (escape | !("\"" | "\\") ~ any)* ~ "\"" }
//	escape  = @{ "\\" ~ ("\"" | "\\" | "/" | "b" | "f" | "n" | "r" | "t" | unicode) }
//	unicode = @{ "u" ~ hex ~ hex ~ hex ~ hex }
//	hex     = '0'..'9' | 'a'..'f' | 'A'..'F'
//	number  = @{ "-"? ~ int ~ ("." ~ digit+ ~ exp? | exp)? }
//	int     = "0" | '1'..'9' ~ digit*
//	exp     = @{ ("E" | "e") ~ ("+" | "-")? ~ digit+ }
//	bool    = "true" | "false"
//	null    = "null"
//	ws      = _{ " " | "\t" | "\r" | "\n" }
//
// Rules marked @ are atomic: whitespace is not skipped inside them, and their
// nodes expose only the matched span. The whitespace rule is silent: it
// produces no node, and is skipped between the elements of every non-atomic
// rule. Each Rule constant names one of these rules.
//
// # Parsing
//
// Parse returns the node for the top-level object or array, or an error:
//
//	root, err := pegjson.Parse(input)
//	if err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//	fmt.Println(root.Rule, root.Len())
//
// In case of a syntax error, the error has concrete type *pegjson.SyntaxError.
// It reports the furthest offset reached by any alternative, the rule in
// progress there, and the labels of what would have matched:
//
//	at 1:7: object: expected string, got "}"
//
// A Parser has explicit limits on nesting depth and input size. Exceeding
// either stops parsing with an error wrapping ErrMaxDepth or ErrInputTooLarge.
// Use NewParser to change the limits, or to accept JSON With Commas and
// Comments (JWCC).
//
// # Trees
//
// A Node records its rule, span, and children. Nodes for string and number
// values have no children; a value node has exactly one. Use Walk to replay a
// tree as a sequence of Handler events, and Fprint to dump it.
package pegjson
