// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fourletter

import (
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/fourletter/ht16k33"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
)

// ramAddress is where Digit0 starts in display RAM.
const ramAddress byte = 0x00

// RAM is the display memory of the controller. *ht16k33.Dev implements it,
// as does the terminal emulator in package screen14.
type RAM interface {
	// WriteRAM stores data starting at addr.
	WriteRAM(addr byte, data []byte) error
	// ReadRAM fills r starting at addr.
	ReadRAM(addr byte, r []byte) error
}

type displaySwitch interface {
	Display(on bool) error
}

// Dev is a four letter display. It owns its Buffer and its RAM handle.
//
// Buffer changes are only shown after Flush. The TextDisplay methods (Write,
// WriteString, Clear) flush on their own.
type Dev struct {
	mu  sync.Mutex
	ram RAM
	buf Buffer

	// flushed is the content last written successfully; dirty forces the
	// next flush regardless.
	flushed Buffer
	dirty   bool

	// cursor is the 0-based write position of the TextDisplay methods.
	// NumDigits means past the end.
	cursor int
}

// New returns a display writing into ram. Nothing is sent until Flush.
func New(ram RAM) *Dev {
	return &Dev{ram: ram, dirty: true}
}

// NewI2C initializes the HT16K33 at address on bus and blanks the display.
func NewI2C(bus i2c.Bus, address uint16) (*Dev, error) {
	ctrl, err := ht16k33.New(bus, address)
	if err != nil {
		return nil, err
	}
	dev := New(ctrl)
	if err := dev.Flush(); err != nil {
		return nil, err
	}
	return dev, nil
}

// Buffer returns a copy of the pending content.
func (dev *Dev) Buffer() Buffer {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.buf
}

// SetChar puts the glyph of r at d, without dot folding.
func (dev *Dev) SetChar(d Digit, r rune) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.buf.SetChar(d, r)
}

// SetGlyph puts a raw segment mask at d.
func (dev *Dev) SetGlyph(d Digit, g Glyph) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.buf.Set(d, g)
}

// SetText encodes s from Digit0 with dot folding. Positions past the end of
// s are left as they were; call ClearBuffer first for a blank slate.
func (dev *Dev) SetText(s string) int {
	return dev.SetTextAt(Digit0, s)
}

// SetTextAt encodes s from d. It returns the number of positions written.
func (dev *Dev) SetTextAt(d Digit, s string) int {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.buf.EncodeAt(d, s)
}

// SetDot turns the decimal point at d on or off.
func (dev *Dev) SetDot(d Digit, on bool) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.buf.SetDot(d, on)
}

// ToggleDot flips the decimal point at d.
func (dev *Dev) ToggleDot(d Digit) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.buf.ToggleDot(d)
}

// ClearBuffer blanks the pending content.
func (dev *Dev) ClearBuffer() {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.buf.Clear()
}

// Flush sends the buffer to display RAM. Nothing is sent when the buffer
// matches what was last flushed successfully.
//
// Errors from the RAM are returned as is and are not retried. The buffer is
// kept, so calling Flush again retries the write.
func (dev *Dev) Flush() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.flush()
}

func (dev *Dev) flush() error {
	if !dev.dirty && dev.buf == dev.flushed {
		return nil
	}
	raw := dev.buf.Bytes()
	if err := dev.ram.WriteRAM(ramAddress, raw[:]); err != nil {
		dev.dirty = true
		return err
	}
	dev.flushed = dev.buf
	dev.dirty = false
	return nil
}

// Invalidate makes the next Flush write even if nothing changed, e.g. after
// the controller was power cycled.
func (dev *Dev) Invalidate() {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.dirty = true
}

// Load replaces the buffer with the content of display RAM.
func (dev *Dev) Load() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	var raw [BufferSize]byte
	if err := dev.ram.ReadRAM(ramAddress, raw[:]); err != nil {
		return err
	}
	dev.buf = BufferFromBytes(raw)
	dev.flushed = dev.buf
	dev.dirty = false
	return nil
}

// Print blanks the display and shows s.
func (dev *Dev) Print(s string) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.buf.Clear()
	dev.buf.Encode(s)
	return dev.flush()
}

// AutoScroll is not supported.
func (dev *Dev) AutoScroll(enabled bool) error {
	return ErrNotImplemented
}

// Cols returns the number of characters.
func (dev *Dev) Cols() int {
	return NumDigits
}

// Rows returns 1.
func (dev *Dev) Rows() int {
	return 1
}

// MinCol returns the first column number.
func (dev *Dev) MinCol() int {
	return 1
}

// MinRow returns the first row number.
func (dev *Dev) MinRow() int {
	return 1
}

// Clear blanks the display and moves the cursor home.
func (dev *Dev) Clear() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.buf.Clear()
	dev.cursor = 0
	return dev.flush()
}

// Cursor accepts display.CursorOff only; the display has no cursor.
func (dev *Dev) Cursor(modes ...display.CursorMode) error {
	for _, mode := range modes {
		if mode != display.CursorOff {
			return ErrNotImplemented
		}
	}
	return nil
}

// Display turns the LEDs on or off if the RAM supports it.
func (dev *Dev) Display(on bool) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if sw, ok := dev.ram.(displaySwitch); ok {
		return sw.Display(on)
	}
	return ErrNotImplemented
}

// Backlight sets the brightness if the RAM supports it.
func (dev *Dev) Backlight(intensity display.Intensity) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if bl, ok := dev.ram.(display.DisplayBacklight); ok {
		return bl.Backlight(intensity)
	}
	return ErrNotImplemented
}

// Halt blanks the display and halts the RAM if it is a conn.Resource.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.buf.Clear()
	dev.cursor = 0
	err := dev.flush()
	if r, ok := dev.ram.(conn.Resource); ok {
		if herr := r.Halt(); err == nil {
			err = herr
		}
	}
	return err
}

// Home moves the cursor to the first column.
func (dev *Dev) Home() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.cursor = 0
	return nil
}

// Move moves the cursor one column forward or backward.
func (dev *Dev) Move(dir display.CursorDirection) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	pos := dev.cursor
	switch dir {
	case display.Forward:
		pos++
	case display.Backward:
		pos--
	default:
		return ErrNotImplemented
	}
	if pos < 0 || pos > NumDigits {
		return &InvalidPositionError{Position: pos}
	}
	dev.cursor = pos
	return nil
}

// MoveTo moves the cursor to row 1 and col 1-4.
func (dev *Dev) MoveTo(row, col int) error {
	if row != dev.MinRow() {
		return fmt.Errorf("%s.MoveTo(%d,%d) value out of range", packageName, row, col)
	}
	d, err := DigitAt(col - dev.MinCol())
	if err != nil {
		return err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.cursor = d.Index()
	return nil
}

// Write encodes p at the cursor, advances the cursor and flushes. Text past
// the last column is dropped.
func (dev *Dev) Write(p []byte) (n int, err error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.cursor < NumDigits {
		dev.cursor += dev.buf.EncodeAt(Digits[dev.cursor], string(p))
	}
	if err = dev.flush(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString is Write for a string.
func (dev *Dev) WriteString(text string) (n int, err error) {
	return dev.Write([]byte(text))
}

func (dev *Dev) String() string {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return fmt.Sprintf("%s{%q, ram: %v}", packageName, dev.buf.String(), dev.ram)
}

var _ conn.Resource = &Dev{}
var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
