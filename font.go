// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fourletter

import "fmt"

const (
	firstGlyph = ' '
	lastGlyph  = '~'
)

// font holds the glyphs of printable ASCII, indexed from ' '. The patterns
// come from the Adafruit LED backpack library.
var font = [lastGlyph - firstGlyph + 1]Glyph{
	0b0000_0000_0000_0000, // space
	0b0000_0000_0000_0110, // !
	0b0000_0010_0010_0000, // "
	0b0001_0010_1100_1110, // #
	0b0001_0010_1110_1101, // $
	0b0000_1100_0010_0100, // %
	0b0010_0011_0101_1101, // &
	0b0000_0100_0000_0000, // '
	0b0010_0100_0000_0000, // (
	0b0000_1001_0000_0000, // )
	0b0011_1111_1100_0000, // *
	0b0001_0010_1100_0000, // +
	0b0000_1000_0000_0000, // ,
	0b0000_0000_1100_0000, // -
	DotMask,              // .
	0b0000_1100_0000_0000, // /
	0b0000_1100_0011_1111, // 0
	0b0000_0000_0000_0110, // 1
	0b0000_0000_1101_1011, // 2
	0b0000_0000_1000_1111, // 3
	0b0000_0000_1110_0110, // 4
	0b0010_0000_0110_1001, // 5
	0b0000_0000_1111_1101, // 6
	0b0000_0000_0000_0111, // 7
	0b0000_0000_1111_1111, // 8
	0b0000_0000_1110_1111, // 9
	0b0001_0010_0000_0000, // :
	0b0000_1010_0000_0000, // ;
	0b0010_0100_0000_0000, // <
	0b0000_0000_1100_1000, // =
	0b0000_1001_0000_0000, // >
	0b0001_0000_1000_0011, // ?
	0b0000_0010_1011_1011, // @
	0b0000_0000_1111_0111, // A
	0b0001_0010_1000_1111, // B
	0b0000_0000_0011_1001, // C
	0b0001_0010_0000_1111, // D
	0b0000_0000_1111_1001, // E
	0b0000_0000_0111_0001, // F
	0b0000_0000_1011_1101, // G
	0b0000_0000_1111_0110, // H
	0b0001_0010_0000_0000, // I
	0b0000_0000_0001_1110, // J
	0b0010_0100_0111_0000, // K
	0b0000_0000_0011_1000, // L
	0b0000_0101_0011_0110, // M
	0b0010_0001_0011_0110, // N
	0b0000_0000_0011_1111, // O
	0b0000_0000_1111_0011, // P
	0b0010_0000_0011_1111, // Q
	0b0010_0000_1111_0011, // R
	0b0000_0000_1110_1101, // S
	0b0001_0010_0000_0001, // T
	0b0000_0000_0011_1110, // U
	0b0000_1100_0011_0000, // V
	0b0010_1000_0011_0110, // W
	0b0010_1101_0000_0000, // X
	0b0001_0101_0000_0000, // Y
	0b0000_1100_0000_1001, // Z
	0b0000_0000_0011_1001, // [
	0b0010_0001_0000_0000, // backslash
	0b0000_0000_0000_1111, // ]
	0b0000_1100_0000_0011, // ^
	0b0000_0000_0000_1000, // _
	0b0000_0001_0000_0000, // `
	0b0001_0000_0101_1000, // a
	0b0010_0000_0111_1000, // b
	0b0000_0000_1101_1000, // c
	0b0000_1000_1000_1110, // d
	0b0000_1000_0101_1000, // e
	0b0000_0000_0111_0001, // f
	0b0000_0100_1000_1110, // g
	0b0001_0000_0111_0000, // h
	0b0001_0000_0000_0000, // i
	0b0000_0000_0000_1110, // j
	0b0011_0110_0000_0000, // k
	0b0000_0000_0011_0000, // l
	0b0001_0000_1101_0100, // m
	0b0001_0000_0101_0000, // n
	0b0000_0000_1101_1100, // o
	0b0000_0001_0111_0000, // p
	0b0000_0100_1000_0110, // q
	0b0000_0000_0101_0000, // r
	0b0010_0000_1000_1000, // s
	0b0000_0000_0111_1000, // t
	0b0000_0000_0001_1100, // u
	0b0010_0000_0000_0100, // v
	0b0010_1000_0001_0100, // w
	0b0010_1000_1100_0000, // x
	0b0010_0000_0000_1100, // y
	0b0000_1000_0100_1000, // z
	0b0000_1001_0100_1001, // {
	0b0001_0010_0000_0000, // |
	0b0010_0100_1000_1001, // }
	0b0000_0101_0010_0000, // ~
}

// Lookup returns the glyph of r. Runes without a glyph, including control
// characters and anything outside ASCII, are shown as UnknownGlyph.
func Lookup(r rune) Glyph {
	g, ok := lookup(r)
	if !ok {
		return UnknownGlyph
	}
	return g
}

// CheckedLookup is like Lookup but fails with a *NoMappingError when r has
// no glyph.
func CheckedLookup(r rune) (Glyph, error) {
	g, ok := lookup(r)
	if !ok {
		return 0, &NoMappingError{Char: r}
	}
	return g, nil
}

func lookup(r rune) (Glyph, bool) {
	if r < firstGlyph || r > lastGlyph {
		return 0, false
	}
	return font[r-firstGlyph], true
}

// Validate reports the first rune of s that has no glyph, along with its
// byte offset.
func Validate(s string) error {
	for i, r := range s {
		if _, err := CheckedLookup(r); err != nil {
			return fmt.Errorf("offset %d: %w", i, err)
		}
	}
	return nil
}
