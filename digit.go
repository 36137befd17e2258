// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fourletter

import "fmt"

const (
	// NumDigits is the number of character positions.
	NumDigits = 4
	// BufferSize is the number of display RAM bytes used by the display.
	BufferSize = 2 * NumDigits
)

// Digit is a character position, Digit0 being the leftmost one. Values can
// only be obtained from Digit0-Digit3, Digits or DigitAt, so a Digit is
// always in range. The zero value is Digit0.
type Digit struct {
	n uint8
}

var (
	Digit0 = Digit{0}
	Digit1 = Digit{1}
	Digit2 = Digit{2}
	Digit3 = Digit{3}

	// Digits lists the positions from left to right.
	Digits = [NumDigits]Digit{Digit0, Digit1, Digit2, Digit3}
)

// DigitAt converts a 0-based position into a Digit.
func DigitAt(i int) (Digit, error) {
	if i < 0 || i >= NumDigits {
		return Digit{}, &InvalidPositionError{Position: i}
	}
	return Digit{uint8(i)}, nil
}

// Index returns the 0-based position.
func (d Digit) Index() int {
	return int(d.n)
}

// Addresses returns the two display RAM addresses backing the position.
// The first holds the low byte of the glyph.
func (d Digit) Addresses() (lo, hi byte) {
	return d.n * 2, d.n*2 + 1
}

// Next returns the position to the right, if any.
func (d Digit) Next() (Digit, bool) {
	if int(d.n) >= NumDigits-1 {
		return d, false
	}
	return Digit{d.n + 1}, true
}

func (d Digit) String() string {
	return fmt.Sprintf("Digit%d", d.n)
}
