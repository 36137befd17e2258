// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fourletter

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/display"
)

const packageName = "fourletter"

var (
	// ErrNoMapping matches every *NoMappingError.
	ErrNoMapping = errors.New(packageName + ": no glyph for character")
	// ErrInvalidPosition matches every *InvalidPositionError.
	ErrInvalidPosition = errors.New(packageName + ": invalid digit position")

	ErrNotImplemented = fmt.Errorf("%s: %w", packageName, display.ErrNotImplemented)
)

// NoMappingError is returned by CheckedLookup for a character that has no
// glyph.
type NoMappingError struct {
	Char rune
}

func (e *NoMappingError) Error() string {
	return fmt.Sprintf("%s: no glyph for %q", packageName, e.Char)
}

func (e *NoMappingError) Is(target error) bool {
	return target == ErrNoMapping
}

// InvalidPositionError is returned when an integer does not name one of the
// four digit positions.
type InvalidPositionError struct {
	Position int
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("%s: invalid digit position %d, expected 0-%d", packageName, e.Position, NumDigits-1)
}

func (e *InvalidPositionError) Is(target error) bool {
	return target == ErrInvalidPosition
}
