// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ht16k33 controls a Holtek HT16K33 RAM mapping LED controller
// driver over I²C.
//
// The driver only exposes the parts of the chip needed by LED displays: the
// system oscillator, the display and blink setup, the dimming level and the
// 16 bytes of display RAM. Key scanning and the INT/ROW pin are not
// supported.
//
// # Datasheet
//
// https://www.holtek.com/webapi/116711/HT16K33Av102.pdf
package ht16k33

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
)

// Blink is the hardware blink rate of the whole display.
type Blink byte

const (
	BlinkOff Blink = iota
	Blink2Hz
	Blink1Hz
	BlinkHalfHz
)

const (
	// DefaultAddress is the address with all address pins left floating.
	DefaultAddress uint16 = 0x70
	// RAMSize is the number of display RAM bytes (16 rows of 8 commons).
	RAMSize = 16
	// MinDimming and MaxDimming bound the 16 duty cycle steps.
	MinDimming uint8 = 1
	MaxDimming uint8 = 16

	packageName = "ht16k33"

	_CMD_SYSTEM_SETUP  byte = 0x20
	_CMD_DISPLAY_SETUP byte = 0x80
	_CMD_DIMMING_SET   byte = 0xe0

	_OSCILLATOR_ON byte = 0x01
	_DISPLAY_ON    byte = 0x01

	minAddress uint16 = 0x70
	maxAddress uint16 = 0x77
)

var (
	ErrInvalidAddress  = errors.New(packageName + ": invalid address, expected 0x70-0x77")
	ErrInvalidDimming  = errors.New(packageName + ": invalid dimming level, expected 1-16")
	ErrInvalidBlink    = errors.New(packageName + ": invalid blink rate")
	ErrInvalidRAMRange = errors.New(packageName + ": display RAM access out of range")
)

// Dev is a handle to an HT16K33 controller.
type Dev struct {
	mu sync.Mutex
	d  *i2c.Dev

	oscillator bool
	on         bool
	blink      Blink
	dimming    uint8
}

func wrap(err error) error {
	if err == nil || strings.HasPrefix(err.Error(), packageName) {
		return err
	}
	return fmt.Errorf("%s: %w", packageName, err)
}

// New returns a controller at address on bus. The oscillator and the display
// are turned on with blinking disabled and maximum brightness. Display RAM is
// left untouched.
func New(bus i2c.Bus, address uint16) (*Dev, error) {
	if address < minAddress || address > maxAddress {
		return nil, ErrInvalidAddress
	}
	dev := &Dev{d: &i2c.Dev{Bus: bus, Addr: address}}
	if err := dev.init(); err != nil {
		return nil, err
	}
	return dev, nil
}

func (dev *Dev) init() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	err := dev.oscillatorLocked(true)
	if err == nil {
		err = dev.setDimmingLocked(MaxDimming)
	}
	if err == nil {
		err = dev.displaySetupLocked(true, dev.blink)
	}
	return wrap(err)
}

// commandLocked sends a single command byte. dev.mu must be held.
func (dev *Dev) commandLocked(b byte) error {
	return wrap(dev.d.Tx([]byte{b}, nil))
}

// Oscillator starts or stops the internal system oscillator. While the
// oscillator is stopped the chip is in standby and nothing is displayed.
func (dev *Dev) Oscillator(on bool) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.oscillatorLocked(on)
}

func (dev *Dev) oscillatorLocked(on bool) error {
	cmd := _CMD_SYSTEM_SETUP
	if on {
		cmd |= _OSCILLATOR_ON
	}
	if err := dev.commandLocked(cmd); err != nil {
		return err
	}
	dev.oscillator = on
	return nil
}

func (dev *Dev) displaySetupLocked(on bool, blink Blink) error {
	cmd := _CMD_DISPLAY_SETUP | byte(blink)<<1
	if on {
		cmd |= _DISPLAY_ON
	}
	if err := dev.commandLocked(cmd); err != nil {
		return err
	}
	dev.on = on
	dev.blink = blink
	return nil
}

// Display turns the LED outputs on or off, keeping the blink rate.
func (dev *Dev) Display(on bool) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.displaySetupLocked(on, dev.blink)
}

// SetBlink sets the blink rate of the whole display.
func (dev *Dev) SetBlink(blink Blink) error {
	if blink > BlinkHalfHz {
		return ErrInvalidBlink
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.displaySetupLocked(dev.on, blink)
}

// SetDimming sets the duty cycle to level/16. Level must be in 1-16.
func (dev *Dev) SetDimming(level uint8) error {
	if level < MinDimming || level > MaxDimming {
		return ErrInvalidDimming
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.setDimmingLocked(level)
}

func (dev *Dev) setDimmingLocked(level uint8) error {
	if err := dev.commandLocked(_CMD_DIMMING_SET | (level - 1)); err != nil {
		return err
	}
	dev.dimming = level
	return nil
}

// Dimming returns the last dimming level set.
func (dev *Dev) Dimming() uint8 {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.dimming
}

// Backlight maps intensity onto the 16 dimming steps. An intensity of 0
// turns the display off, any other value turns it back on.
//
// Implements display.DisplayBacklight.
func (dev *Dev) Backlight(intensity display.Intensity) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if intensity == 0 {
		return dev.displaySetupLocked(false, dev.blink)
	}
	level := uint8(int(intensity)*int(MaxDimming)/256) + 1
	if err := dev.setDimmingLocked(level); err != nil {
		return err
	}
	if !dev.on {
		return dev.displaySetupLocked(true, dev.blink)
	}
	return nil
}

func checkRange(addr byte, n int) error {
	if n == 0 || int(addr)+n > RAMSize {
		return fmt.Errorf("%w: address 0x%02x length %d", ErrInvalidRAMRange, addr, n)
	}
	return nil
}

// WriteRAM writes data into display RAM starting at addr in a single
// transaction. The address pointer auto-increments on the chip.
func (dev *Dev) WriteRAM(addr byte, data []byte) error {
	if err := checkRange(addr, len(data)); err != nil {
		return err
	}
	w := make([]byte, 0, len(data)+1)
	w = append(w, addr)
	w = append(w, data...)
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return wrap(dev.d.Tx(w, nil))
}

// ReadRAM fills r with display RAM content starting at addr.
func (dev *Dev) ReadRAM(addr byte, r []byte) error {
	if err := checkRange(addr, len(r)); err != nil {
		return err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return wrap(dev.d.Tx([]byte{addr}, r))
}

// Halt turns the display off and puts the chip in standby.
//
// Implements conn.Resource.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	err := dev.displaySetupLocked(false, dev.blink)
	if err == nil {
		err = dev.oscillatorLocked(false)
	}
	return err
}

func (dev *Dev) String() string {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return fmt.Sprintf("%s{addr: 0x%02x, on: %t, blink: %d, dimming: %d}", packageName, dev.d.Addr, dev.on, dev.blink, dev.dimming)
}

var _ conn.Resource = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ fmt.Stringer = &Dev{}
