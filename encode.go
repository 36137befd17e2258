// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fourletter

// Encode returns a blank Buffer with s encoded into it.
func Encode(s string) Buffer {
	var b Buffer
	b.Encode(s)
	return b
}

// Encode writes s from Digit0. See EncodeAt.
func (b *Buffer) Encode(s string) int {
	return b.EncodeAt(Digit0, s)
}

// EncodeAt writes s into the buffer starting at start and returns the
// number of positions written. Positions that s does not reach keep their
// content, and whatever does not fit is dropped.
//
// A '.' that follows a character lights that character's decimal point
// instead of using a position. A '.' anywhere else (first in s, or after
// another '.') is a standalone dot. Two dots right after a character are an
// escape: together they make one standalone dot and the character keeps its
// decimal point off.
//
//	"12.34" -> 1 2. 3 4
//	"12..3" -> 1 2 . 3
//	".123"  -> . 1 2 3
func (b *Buffer) EncodeAt(start Digit, s string) int {
	runes := []rune(s)
	i := int(start.n)
	// foldable is set when the previous rune was a character written at
	// i-1 whose decimal point is still free.
	foldable := false
	for k := 0; k < len(runes) && i < NumDigits; k++ {
		r := runes[k]
		switch {
		case r != '.':
			b[i] = Lookup(r)
			i++
			foldable = true
		case foldable && k+1 < len(runes) && runes[k+1] == '.':
			k++
			b[i] = DotMask
			i++
			foldable = false
		case foldable:
			b[i-1] |= DotMask
			foldable = false
		default:
			b[i] = DotMask
			i++
		}
	}
	return i - int(start.n)
}
