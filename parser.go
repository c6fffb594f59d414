// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pegjson

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/tailscale/hujson"
	"go4.org/mem"
)

// Default limits applied by a Parser.
const (
	DefaultMaxDepth     = 1000     // nesting of objects and arrays
	DefaultMaxInputSize = 64 << 20 // bytes
)

// A Parser recognizes JSON text according to the grammar rules described by
// the Rule constants. A zero Parser is not ready for use; call NewParser.
//
// A Parser is not modified by parsing, and may be used concurrently by
// multiple goroutines once it has been configured.
type Parser struct {
	maxDepth int
	maxSize  int
	jwcc     bool
}

// NewParser constructs a Parser with the default limits.
func NewParser() *Parser {
	return &Parser{maxDepth: DefaultMaxDepth, maxSize: DefaultMaxInputSize}
}

// SetMaxDepth sets the maximum nesting depth of objects and arrays. If n <= 0,
// the default is restored.
func (p *Parser) SetMaxDepth(n int) {
	if n <= 0 {
		n = DefaultMaxDepth
	}
	p.maxDepth = n
}

// SetMaxInputSize sets the maximum size in bytes of an input. If n <= 0, the
// default is restored.
func (p *Parser) SetMaxInputSize(n int) {
	if n <= 0 {
		n = DefaultMaxInputSize
	}
	p.maxSize = n
}

// AllowJWCC configures the parser to accept (true) or reject (false) JSON With
// Commas and Comments. If enabled, comments and trailing commas are replaced
// by whitespace before parsing, so offsets and locations still refer to the
// original input. Input that is not valid JWCC is parsed unmodified, so its
// errors are reported as for plain JSON.
func (p *Parser) AllowJWCC(ok bool) { p.jwcc = ok }

var defaultParser = NewParser()

// Parse parses input using a parser with the default settings.
// See [Parser.Parse].
func Parse(input []byte) (*Node, error) { return defaultParser.Parse(input) }

// ParseString parses s using a parser with the default settings.
func ParseString(s string) (*Node, error) { return defaultParser.ParseString(s) }

// Valid reports whether input is a valid JSON text, using a parser with the
// default settings.
func Valid(input []byte) bool { return defaultParser.Valid(input) }

// MustParse parses s using a parser with the default settings, and panics if
// parsing fails.
func MustParse(s string) *Node {
	n, err := ParseString(s)
	if err != nil {
		panic(fmt.Sprintf("pegjson: parsing %q: %v", s, err))
	}
	return n
}

// Parse parses input as a single JSON object or array, optionally surrounded
// by whitespace, and returns the node for that value. In case of a syntax
// error, the returned error has type [*SyntaxError].
//
// The resulting tree refers to input, which the caller must not modify while
// the tree is in use.
func (p *Parser) Parse(input []byte) (*Node, error) {
	if err := p.checkSize(len(input)); err != nil {
		return nil, err
	}
	if p.jwcc {
		input = standardize(input)
	}
	return p.parse(mem.B(input), true)
}

// ParseString parses s as a single JSON object or array. See [Parser.Parse].
func (p *Parser) ParseString(s string) (*Node, error) {
	if err := p.checkSize(len(s)); err != nil {
		return nil, err
	}
	if p.jwcc {
		return p.parse(mem.B(standardize([]byte(s))), true)
	}
	return p.parse(mem.S(s), true)
}

// ParseReader reads the complete contents of r and parses them.
// See [Parser.Parse].
func (p *Parser) ParseReader(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(p.maxSize)+1))
	if err != nil {
		return nil, err
	} else if err := p.checkSize(len(data)); err != nil {
		return nil, err
	}
	if p.jwcc {
		data = standardize(data)
	}
	return p.parse(mem.B(data), true)
}

// Valid reports whether input is a valid JSON text.
func (p *Parser) Valid(input []byte) bool {
	if p.checkSize(len(input)) != nil {
		return false
	}
	if p.jwcc {
		input = standardize(input)
	}
	_, err := p.parse(mem.B(input), false)
	return err == nil
}

func (p *Parser) checkSize(n int) error {
	if n > p.maxSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrInputTooLarge, n, p.maxSize)
	}
	return nil
}

// standardize returns a copy of input in which JWCC comments and trailing
// commas are replaced by spaces. If input is not valid JWCC, it is returned
// unmodified so that the parser can report the error in place.
func standardize(input []byte) []byte {
	std, err := hujson.Standardize(bytes.Clone(input))
	if err != nil {
		return input
	}
	return std
}

func (p *Parser) parse(src mem.RO, build bool) (_ *Node, err error) {
	s := &state{
		src:      src,
		build:    build,
		maxDepth: p.maxDepth,
		fail:     failure{pos: -1},
	}
	s.values = [...]func() *Node{s.str, s.number, s.object, s.array, s.boolean, s.null}
	defer s.recoverLimit(&err)

	if n := s.json(); n != nil {
		return n, nil
	}
	return nil, s.syntaxError()
}

// state is the state of a single parse. It is not shared between calls.
type state struct {
	src      mem.RO
	pos      int
	build    bool // construct nodes (false when only validating)
	depth    int
	maxDepth int
	frames   []frame
	fail     failure
	values   [6]func() *Node
}

// A frame records a rule in progress and the offset where it began.
type frame struct {
	rule Rule
	pos  int
}

// failure records the furthest offset at which a match failed, the rule
// blamed for the failure, and the labels of what would have matched there.
type failure struct {
	pos      int
	rule     Rule
	expected []string
}

type failMark struct{ pos, n int }

func (s *state) mark() failMark { return failMark{s.fail.pos, len(s.fail.expected)} }

// match runs f as the body of rule r. On failure the input position is
// restored. If r is a token-like rule and it failed without consuming input,
// its name replaces the labels that its body recorded at its start.
func (s *state) match(r Rule, f func(start int) *Node) *Node {
	start, mk := s.pos, s.mark()
	s.frames = append(s.frames, frame{rule: r, pos: start})
	n := f(start)
	s.frames = s.frames[:len(s.frames)-1]
	if n == nil {
		s.pos = start
		if isTokenRule(r) {
			s.relabel(r, start, mk)
		}
	}
	return n
}

// sub runs f as the body of rule r, which produces no node.
func (s *state) sub(r Rule, f func() bool) bool {
	start := s.pos
	s.frames = append(s.frames, frame{rule: r, pos: start})
	ok := f()
	s.frames = s.frames[:len(s.frames)-1]
	if !ok {
		s.pos = start
	}
	return ok
}

func (s *state) relabel(r Rule, start int, mk failMark) {
	if s.fail.pos != start {
		return // the rule consumed input before failing
	}
	keep := 0
	if mk.pos == start {
		keep = mk.n
	}
	s.fail.expected = s.fail.expected[:keep]
	if label := r.String(); !slices.Contains(s.fail.expected, label) {
		s.fail.expected = append(s.fail.expected, label)
	}
}

// expect records that label would have matched at the current offset.
func (s *state) expect(label string) {
	if s.pos < s.fail.pos {
		return
	} else if s.pos > s.fail.pos {
		s.fail.pos = s.pos
		s.fail.rule = s.blame()
		s.fail.expected = s.fail.expected[:0]
	}
	if !slices.Contains(s.fail.expected, label) {
		s.fail.expected = append(s.fail.expected, label)
	}
}

// blame returns the innermost rule in progress that consumed input before the
// current offset.
func (s *state) blame() Rule {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].pos < s.pos {
			return s.frames[i].rule
		}
	}
	return JSON
}

func (s *state) node(r Rule, start int, kids ...*Node) *Node {
	if !s.build {
		return validNode
	}
	return &Node{Rule: r, Span: Span{Pos: start, End: s.pos}, Children: kids, src: s.src}
}

// validNode stands in for every node when the parser is only validating.
var validNode = &Node{Rule: Invalid}

// Grammar rules.

func (s *state) json() *Node {
	return s.match(JSON, func(int) *Node {
		s.skip()
		v := s.object()
		if v == nil {
			v = s.array()
		}
		if v == nil {
			return nil
		}
		s.skip()
		if s.pos != s.src.Len() {
			s.expect("end of input")
			return nil
		}
		return v
	})
}

func (s *state) object() *Node {
	return s.match(Object, func(start int) *Node {
		if !s.lit("{") {
			return nil
		}
		defer s.nest(Object)()
		kids := s.list(s.pair)
		s.skip()
		if !s.lit("}") {
			return nil
		}
		return s.node(Object, start, kids...)
	})
}

func (s *state) pair() *Node {
	return s.match(Pair, func(start int) *Node {
		key := s.str()
		if key == nil {
			return nil
		}
		s.skip()
		if !s.lit(":") {
			return nil
		}
		s.skip()
		val := s.value()
		if val == nil {
			return nil
		}
		return s.node(Pair, start, key, val)
	})
}

func (s *state) array() *Node {
	return s.match(Array, func(start int) *Node {
		if !s.lit("[") {
			return nil
		}
		defer s.nest(Array)()
		kids := s.list(s.value)
		s.skip()
		if !s.lit("]") {
			return nil
		}
		return s.node(Array, start, kids...)
	})
}

func (s *state) value() *Node {
	return s.match(Value, func(start int) *Node {
		for _, alt := range s.values {
			if v := alt(); v != nil {
				return s.node(Value, start, v)
			}
		}
		return nil
	})
}

// list matches elem ("," elem)*, skipping whitespace between tokens, and
// returns the elements matched. The position is left after the last complete
// element, or unchanged if there are none.
func (s *state) list(elem func() *Node) []*Node {
	mark := s.pos
	s.skip()
	first := elem()
	if first == nil {
		s.pos = mark
		return nil
	}
	kids := []*Node{first}
	for {
		mark = s.pos
		s.skip()
		if !s.lit(",") {
			s.pos = mark
			return kids
		}
		s.skip()
		next := elem()
		if next == nil {
			s.pos = mark
			return kids
		}
		kids = append(kids, next)
	}
}

func (s *state) str() *Node {
	return s.match(String, func(start int) *Node {
		if !s.lit(`"`) {
			return nil
		}
		for {
			if s.pos >= s.src.Len() {
				s.expect(Quote(`"`))
				return nil
			}
			switch c := s.src.At(s.pos); {
			case c == '"':
				s.pos++
				return s.node(String, start)
			case c == '\\':
				if !s.escape() {
					return nil
				}
			case c < utf8.RuneSelf:
				s.pos++
			default:
				r, n := mem.DecodeRune(s.src.SliceFrom(s.pos))
				if r == utf8.RuneError && n <= 1 {
					s.expect("valid UTF-8")
					return nil
				}
				s.pos += n
			}
		}
	})
}

func (s *state) escape() bool {
	return s.sub(Escape, func() bool {
		if !s.lit(`\`) {
			return false
		}
		return s.class(isEscapeChar, "escape character") || s.unicode()
	})
}

func (s *state) unicode() bool {
	return s.sub(Unicode, func() bool {
		if !s.lit("u") {
			return false
		}
		for range 4 {
			if !s.hex() {
				return false
			}
		}
		return true
	})
}

func (s *state) hex() bool {
	return s.sub(Hex, func() bool { return s.class(isHexDigit, "hex digit") })
}

func (s *state) number() *Node {
	return s.match(Number, func(start int) *Node {
		s.accept('-')
		if !s.integer() {
			return nil
		}

		// The fraction and exponent are optional. If a fraction is started but
		// not completed, the number ends before the decimal point.
		if mark := s.pos; s.accept('.') {
			if s.digits() {
				s.exp()
			} else {
				s.pos = mark
			}
		} else {
			s.exp()
		}
		return s.node(Number, start)
	})
}

func (s *state) integer() bool {
	return s.sub(Int, func() bool {
		if s.accept('0') {
			return true // no further digits are allowed after a leading zero
		}
		if !s.class(isDigit, "digit") {
			return false
		}
		for s.pos < s.src.Len() && isDigit(s.src.At(s.pos)) {
			s.pos++
		}
		return true
	})
}

func (s *state) exp() bool {
	return s.sub(Exp, func() bool {
		if !s.accept('e') && !s.accept('E') {
			return false
		}
		if !s.accept('+') {
			s.accept('-')
		}
		return s.digits()
	})
}

// digits matches one or more decimal digits.
func (s *state) digits() bool {
	if !s.class(isDigit, "digit") {
		return false
	}
	for s.pos < s.src.Len() && isDigit(s.src.At(s.pos)) {
		s.pos++
	}
	return true
}

func (s *state) boolean() *Node {
	return s.match(Bool, func(start int) *Node {
		if s.lit("true") || s.lit("false") {
			return s.node(Bool, start)
		}
		return nil
	})
}

func (s *state) null() *Node {
	return s.match(Null, func(start int) *Node {
		if s.lit("null") {
			return s.node(Null, start)
		}
		return nil
	})
}

// Terminals.

// lit matches the literal text at the current offset.
func (s *state) lit(text string) bool {
	if mem.HasPrefix(s.src.SliceFrom(s.pos), mem.S(text)) {
		s.pos += len(text)
		return true
	}
	s.expect(Quote(text))
	return false
}

// class matches a single byte satisfying ok.
func (s *state) class(ok func(byte) bool, label string) bool {
	if s.pos < s.src.Len() && ok(s.src.At(s.pos)) {
		s.pos++
		return true
	}
	s.expect(label)
	return false
}

// accept matches the byte c if it is next in the input. Unlike lit, a failure
// records no expectation; accept is used for optional elements.
func (s *state) accept(c byte) bool {
	if s.pos < s.src.Len() && s.src.At(s.pos) == c {
		s.pos++
		return true
	}
	return false
}

// skip discards whitespace.
func (s *state) skip() {
	for s.pos < s.src.Len() && isSpace(s.src.At(s.pos)) {
		s.pos++
	}
}

// nest records entry to a nested object or array, and returns a function to
// record its exit. If the depth limit is exceeded, parsing stops.
func (s *state) nest(r Rule) func() {
	s.depth++
	if s.depth > s.maxDepth {
		off := s.pos - 1 // the opening bracket
		panic(&SyntaxError{
			Rule:     r,
			Offset:   off,
			Location: position(s.src, off),
			Message:  fmt.Sprintf("%v: %v (limit %d)", r, ErrMaxDepth, s.maxDepth),
			err:      ErrMaxDepth,
		})
	}
	return func() { s.depth-- }
}

func (s *state) recoverLimit(errp *error) {
	if x := recover(); x != nil {
		if serr, ok := x.(*SyntaxError); ok {
			*errp = serr
			return
		}
		panic(x)
	}
}

func (s *state) syntaxError() *SyntaxError {
	f := s.fail
	if f.pos < 0 {
		f.pos, f.rule = 0, JSON
	}
	got := "end of input"
	if f.pos < s.src.Len() {
		r, n := mem.DecodeRune(s.src.SliceFrom(f.pos))
		if r == utf8.RuneError && n <= 1 {
			got = fmt.Sprintf("byte %#02x", s.src.At(f.pos))
		} else {
			got = Quote(string(r))
		}
	}
	return &SyntaxError{
		Rule:     f.rule,
		Offset:   f.pos,
		Location: position(s.src, f.pos),
		Expected: slices.Clone(f.expected),
		Message:  fmt.Sprintf("%v: expected %s, got %s", f.rule, listJoin(f.expected), got),
	}
}

func isTokenRule(r Rule) bool {
	switch r {
	case Object, Array, String, Number, Bool, Null:
		return true
	}
	return false
}

func isSpace(c byte) bool      { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
func isDigit(c byte) bool      { return '0' <= c && c <= '9' }
func isEscapeChar(c byte) bool { return strings.IndexByte(`"\/bfnrt`, c) >= 0 }

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
