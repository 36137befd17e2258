// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package fourletter drives a four character, 14-segment alphanumeric LED
// display such as the Pimoroni Four Letter pHAT or the Adafruit quad
// alphanumeric backpack, both built on an HT16K33 controller.
//
// Text is encoded into a Buffer of four 16 bit glyphs. A '.' following a
// character lights the decimal point of that character instead of taking a
// position of its own, so "12.34" fits the display. A doubled dot ("..")
// after a character is an escaped, standalone dot. The Buffer is sent to the
// controller with Dev.Flush.
//
// Digit positions are of type Digit, which can only hold one of the four
// valid positions, so buffer accesses never go out of range.
//
// Implements periph.io/x/conn/display/TextDisplay
package fourletter
