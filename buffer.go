// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fourletter

import "strings"

// Buffer is the content of the display, one glyph per position. The zero
// value is a blank display.
type Buffer [NumDigits]Glyph

// At returns the glyph at d.
func (b *Buffer) At(d Digit) Glyph {
	return b[d.n]
}

// Set replaces the glyph at d.
func (b *Buffer) Set(d Digit, g Glyph) {
	b[d.n] = g
}

// SetChar puts the glyph of r at d. Dots are not folded; '.' shows as a
// standalone dot.
func (b *Buffer) SetChar(d Digit, r rune) {
	b[d.n] = Lookup(r)
}

// SetDot turns the decimal point at d on or off. Other segments are kept.
func (b *Buffer) SetDot(d Digit, on bool) {
	if on {
		b[d.n] |= DotMask
	} else {
		b[d.n] &^= DotMask
	}
}

// ToggleDot flips the decimal point at d.
func (b *Buffer) ToggleDot(d Digit) {
	b[d.n] ^= DotMask
}

// Clear blanks every position.
func (b *Buffer) Clear() {
	*b = Buffer{}
}

// Bytes returns the display RAM image: Digit0 first, low byte then high
// byte for each position.
func (b *Buffer) Bytes() [BufferSize]byte {
	var out [BufferSize]byte
	for _, d := range Digits {
		lo, hi := d.Addresses()
		raw := b[d.n].Bytes()
		out[lo] = raw[0]
		out[hi] = raw[1]
	}
	return out
}

// BufferFromBytes decodes a display RAM image produced by Buffer.Bytes.
func BufferFromBytes(raw [BufferSize]byte) Buffer {
	var b Buffer
	for _, d := range Digits {
		lo, hi := d.Addresses()
		b[d.n] = GlyphFromBytes(raw[lo], raw[hi])
	}
	return b
}

// String renders the buffer back as text where possible. Positions whose
// glyph is not in the font are shown as '?'.
func (b *Buffer) String() string {
	var sb strings.Builder
	for _, g := range b {
		dot := g.HasDot()
		if g == DotMask {
			sb.WriteByte('.')
			continue
		}
		if dot {
			g = g.WithoutDot()
		}
		sb.WriteRune(reverseLookup(g))
		if dot {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// textOrder is the preference used when several characters share a glyph,
// e.g. '1' and '!'.
const textOrder = " 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// reverseLookup returns a character whose glyph is g, or '?'.
func reverseLookup(g Glyph) rune {
	for _, r := range textOrder {
		if Lookup(r) == g {
			return r
		}
	}
	for i, f := range font {
		if f == g {
			return rune(firstGlyph + i)
		}
	}
	return '?'
}
