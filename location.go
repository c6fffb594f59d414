// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pegjson

import (
	"fmt"

	"go4.org/mem"
)

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

func (s Span) String() string { return fmt.Sprintf("%d-%d", s.Pos, s.End) }

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

// String renders the location as "line:col-col" when the range is on a single
// line, or "line:col-line:col" otherwise.
func (loc Location) String() string {
	if loc.First.Line == loc.Last.Line {
		return fmt.Sprintf("%s-%d", loc.First, loc.Last.Column)
	}
	return fmt.Sprintf("%s-%s", loc.First, loc.Last)
}

// Position reports the line and column of the given byte offset in src.
// Offsets past the end of src are clamped to the end.
func Position(src []byte, offset int) LineCol { return position(mem.B(src), offset) }

func position(src mem.RO, offset int) LineCol {
	if offset > src.Len() {
		offset = src.Len()
	}
	lc := LineCol{Line: 1}
	pre := src.SliceTo(offset)
	for {
		i := mem.IndexByte(pre, '\n')
		if i < 0 {
			break
		}
		lc.Line++
		pre = pre.SliceFrom(i + 1)
	}
	lc.Column = pre.Len()
	return lc
}

func locate(src mem.RO, span Span) Location {
	first := position(src, span.Pos)

	// Continue counting from the start of the span, rather than rescanning the
	// prefix of the input.
	last := position(src.SliceFrom(span.Pos), span.End-span.Pos)
	if last.Line == 1 {
		last.Column += first.Column
	}
	last.Line += first.Line - 1
	return Location{Span: span, First: first, Last: last}
}
