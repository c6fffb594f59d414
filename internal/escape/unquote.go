// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes the body of a JSON string. The input must have the
// enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents, and a
// \u-escaped UTF-16 surrogate pair is combined into a single rune. Invalid
// escapes and unpaired surrogates are replaced by the Unicode replacement
// rune. Unquote reports an error for an incomplete escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(make([]byte, 0, src.Len()), src), nil
	}
	dec := make([]byte, 0, src.Len())
	for i >= 0 {
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)

		var err error
		dec, src, err = decodeEscape(dec, src)
		if err != nil {
			return nil, err
		}
		i = mem.IndexByte(src, '\\')
	}
	return mem.Append(dec, src), nil
}

// decodeEscape decodes the escape sequence at the front of src, which begins
// just after the backslash, and appends its value to dec. It returns the
// updated buffer and the remaining input.
func decodeEscape(dec []byte, src mem.RO) ([]byte, mem.RO, error) {
	if src.Len() == 0 {
		return nil, src, errors.New("incomplete escape sequence")
	}
	r, n := mem.DecodeRune(src)
	if n == 0 {
		n++
	}
	src = src.SliceFrom(n)
	switch r {
	case '"', '\\', '/':
		return append(dec, byte(r)), src, nil
	case 'b':
		return append(dec, '\b'), src, nil
	case 'f':
		return append(dec, '\f'), src, nil
	case 'n':
		return append(dec, '\n'), src, nil
	case 'r':
		return append(dec, '\r'), src, nil
	case 't':
		return append(dec, '\t'), src, nil
	case 'u':
		if src.Len() < 4 {
			return nil, src, errors.New("incomplete Unicode escape")
		}
		v, ok := parseHex4(src)
		src = src.SliceFrom(4)
		if !ok {
			return utf8.AppendRune(dec, utf8.RuneError), src, nil
		}
		if utf16.IsSurrogate(v) {
			// Look for the second half of a surrogate pair.
			if src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
				if lo, ok := parseHex4(src.SliceFrom(2)); ok {
					if c := utf16.DecodeRune(v, lo); c != utf8.RuneError {
						return utf8.AppendRune(dec, c), src.SliceFrom(6), nil
					}
				}
			}
			v = utf8.RuneError
		}
		return utf8.AppendRune(dec, v), src, nil
	default:
		return utf8.AppendRune(dec, utf8.RuneError), src, nil
	}
}

// parseHex4 decodes 4 hexadecimal digits from the front of data.
func parseHex4(data mem.RO) (rune, bool) {
	var v rune
	for i := range 4 {
		d := hexValue(data.At(i))
		if d < 0 {
			return 0, false
		}
		v = v<<4 | d
	}
	return v, true
}

func hexValue(b byte) rune {
	switch {
	case '0' <= b && b <= '9':
		return rune(b - '0')
	case 'a' <= b && b <= 'f':
		return rune(b - 'a' + 10)
	case 'A' <= b && b <= 'F':
		return rune(b - 'A' + 10)
	}
	return -1
}
