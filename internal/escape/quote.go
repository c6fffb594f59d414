// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

// shortEsc maps ASCII characters that have a two-byte escape to the letter
// following the backslash.
var shortEsc = [utf8.RuneSelf]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	'"':  '"',
	'\\': '\\',
}

const hexDigit = "0123456789abcdef"

// Quote encodes src as the body of a JSON string, without the enclosing
// quotation marks. Control characters without a short escape, invalid UTF-8,
// and the separators U+2028 and U+2029 are written as \u escapes.
func Quote(src mem.RO) []byte {
	buf := make([]byte, 0, src.Len()+2)
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}
		src = src.SliceFrom(n)

		switch {
		case r < utf8.RuneSelf && shortEsc[r] != 0:
			buf = append(buf, '\\', shortEsc[r])
		case r < ' ':
			buf = appendU4(buf, r)
		case r < utf8.RuneSelf:
			buf = append(buf, byte(r))
		case r == utf8.RuneError, r == '\u2028', r == '\u2029':
			buf = appendU4(buf, r)
		default:
			buf = utf8.AppendRune(buf, r)
		}
	}
	return buf
}

func appendU4(buf []byte, r rune) []byte {
	return append(buf, '\\', 'u',
		hexDigit[r>>12&15], hexDigit[r>>8&15], hexDigit[r>>4&15], hexDigit[r&15])
}
