// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fourletter

import (
	"fmt"
	"strings"
)

// Glyph is the segment mask of one character position. Bit n lights
// Segment n. The low byte goes to the first display RAM byte of the
// position, the high byte to the second.
type Glyph uint16

// Segment identifies one LED segment of a position.
//
//	 --A--
//	|\ | /|
//	F H J K B
//	|  \|/  |
//	 -G1 G2-
//	|  /|\  |
//	E L M N C
//	|/  |  \|
//	 --D--   DP
type Segment uint8

const (
	SegA Segment = iota
	SegB
	SegC
	SegD
	SegE
	SegF
	SegG1
	SegG2
	SegH
	SegJ
	SegK
	SegL
	SegM
	SegN
	SegDP

	numSegments = int(SegDP) + 1
)

const (
	// DotMask is the decimal point segment.
	DotMask Glyph = 1 << SegDP
	// Blank lights nothing.
	Blank Glyph = 0
	// UnknownGlyph is displayed for characters without a glyph. It is the
	// glyph of '?'.
	UnknownGlyph Glyph = 0b0001_0000_1000_0011
)

var segmentNames = [numSegments]string{"A", "B", "C", "D", "E", "F", "G1", "G2", "H", "J", "K", "L", "M", "N", "DP"}

func (s Segment) String() string {
	if int(s) < numSegments {
		return segmentNames[s]
	}
	return fmt.Sprintf("Segment(%d)", uint8(s))
}

// Segments returns all segments in bit order.
func Segments() []Segment {
	s := make([]Segment, numSegments)
	for i := range s {
		s[i] = Segment(i)
	}
	return s
}

// Lit reports whether seg is on.
func (g Glyph) Lit(seg Segment) bool {
	return g&(1<<seg) != 0
}

// Bytes returns the glyph in display RAM order, low byte first.
func (g Glyph) Bytes() [2]byte {
	return [2]byte{byte(g), byte(g >> 8)}
}

// GlyphFromBytes is the inverse of Glyph.Bytes.
func GlyphFromBytes(lo, hi byte) Glyph {
	return Glyph(lo) | Glyph(hi)<<8
}

func (g Glyph) HasDot() bool {
	return g&DotMask != 0
}

func (g Glyph) WithDot() Glyph {
	return g | DotMask
}

func (g Glyph) WithoutDot() Glyph {
	return g &^ DotMask
}

// String lists the lit segments, e.g. "A+B+C+DP".
func (g Glyph) String() string {
	if g == Blank {
		return "blank"
	}
	var parts []string
	for _, s := range Segments() {
		if g.Lit(s) {
			parts = append(parts, s.String())
		}
	}
	if unused := g >> numSegments; unused != 0 {
		parts = append(parts, fmt.Sprintf("0x%04x", uint16(unused<<numSegments)))
	}
	return strings.Join(parts, "+")
}
