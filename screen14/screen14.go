// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen14 emulates a four character 14-segment display in the
// terminal using ANSI color codes.
//
// Dev stands in for the HT16K33 display RAM, so a fourletter.Dev can drive
// it without any hardware attached.
package screen14

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/GermanBionicSystems/fourletter"
	"github.com/GermanBionicSystems/fourletter/ht16k33"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// W defaults to a colorable stdout.
	W       io.Writer
	Palette *ansi256.Palette
	// On and Off are the colors of lit and unlit segments. They default to
	// red on dark grey.
	On  color.Color
	Off color.Color

	_ struct{}
}

const (
	cellW = 8
	cellH = 7
)

// cellMasks holds, for every terminal cell of a position, the segments that
// light it.
var cellMasks [cellH][cellW]fourletter.Glyph

func init() {
	seg := func(s fourletter.Segment, pts ...image.Point) {
		for _, p := range pts {
			cellMasks[p.Y][p.X] |= 1 << s
		}
	}
	seg(fourletter.SegA, image.Pt(1, 0), image.Pt(2, 0), image.Pt(3, 0), image.Pt(4, 0), image.Pt(5, 0))
	seg(fourletter.SegB, image.Pt(6, 1), image.Pt(6, 2))
	seg(fourletter.SegC, image.Pt(6, 4), image.Pt(6, 5))
	seg(fourletter.SegD, image.Pt(1, 6), image.Pt(2, 6), image.Pt(3, 6), image.Pt(4, 6), image.Pt(5, 6))
	seg(fourletter.SegE, image.Pt(0, 4), image.Pt(0, 5))
	seg(fourletter.SegF, image.Pt(0, 1), image.Pt(0, 2))
	seg(fourletter.SegG1, image.Pt(1, 3), image.Pt(2, 3))
	seg(fourletter.SegG2, image.Pt(4, 3), image.Pt(5, 3))
	seg(fourletter.SegH, image.Pt(1, 1), image.Pt(2, 2))
	seg(fourletter.SegJ, image.Pt(3, 1), image.Pt(3, 2))
	seg(fourletter.SegK, image.Pt(5, 1), image.Pt(4, 2))
	seg(fourletter.SegL, image.Pt(2, 4), image.Pt(1, 5))
	seg(fourletter.SegM, image.Pt(3, 4), image.Pt(3, 5))
	seg(fourletter.SegN, image.Pt(4, 4), image.Pt(5, 5))
	seg(fourletter.SegDP, image.Pt(7, 6))

	// Joints between segments.
	for _, j := range []struct {
		p    image.Point
		segs []fourletter.Segment
	}{
		{image.Pt(0, 0), []fourletter.Segment{fourletter.SegA, fourletter.SegF}},
		{image.Pt(6, 0), []fourletter.Segment{fourletter.SegA, fourletter.SegB}},
		{image.Pt(0, 3), []fourletter.Segment{fourletter.SegF, fourletter.SegE, fourletter.SegG1}},
		{image.Pt(6, 3), []fourletter.Segment{fourletter.SegB, fourletter.SegC, fourletter.SegG2}},
		{image.Pt(0, 6), []fourletter.Segment{fourletter.SegE, fourletter.SegD}},
		{image.Pt(6, 6), []fourletter.Segment{fourletter.SegC, fourletter.SegD}},
		{image.Pt(3, 3), []fourletter.Segment{
			fourletter.SegG1, fourletter.SegG2, fourletter.SegH, fourletter.SegJ,
			fourletter.SegK, fourletter.SegL, fourletter.SegM, fourletter.SegN,
		}},
	} {
		for _, s := range j.segs {
			seg(s, j.p)
		}
	}
}

// Dev is the display RAM of an HT16K33 that draws itself on the console.
type Dev struct {
	mu      sync.Mutex
	w       io.Writer
	palette ansi256.Palette
	on      color.Color
	off     color.Color

	ram       [ht16k33.RAMSize]byte
	lit       bool
	intensity display.Intensity
	drawn     bool
	buf       bytes.Buffer
}

// New returns a Dev that displays at the console. Nothing is drawn until
// the first RAM write.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:         opts.W,
		palette:   *p,
		on:        opts.On,
		off:       opts.Off,
		lit:       true,
		intensity: 255,
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	if d.on == nil {
		d.on = color.NRGBA{R: 255, A: 255}
	}
	if d.off == nil {
		d.off = color.NRGBA{R: 48, G: 48, B: 48, A: 255}
	}
	return d
}

func (d *Dev) String() string {
	return "Screen14"
}

func checkRange(addr byte, n int) error {
	if n == 0 || int(addr)+n > ht16k33.RAMSize {
		return fmt.Errorf("%w: address 0x%02x length %d", ht16k33.ErrInvalidRAMRange, addr, n)
	}
	return nil
}

// WriteRAM stores data at addr and redraws the display.
func (d *Dev) WriteRAM(addr byte, data []byte) error {
	if err := checkRange(addr, len(data)); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.ram[addr:], data)
	return d.refresh()
}

// ReadRAM returns what was last written at addr.
func (d *Dev) ReadRAM(addr byte, r []byte) error {
	if err := checkRange(addr, len(r)); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(r, d.ram[addr:])
	return nil
}

// Display turns all segments off or back on. RAM is kept.
func (d *Dev) Display(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lit = on
	return d.refresh()
}

// Backlight dims the lit color. An intensity of 0 turns the display off.
//
// Implements display.DisplayBacklight.
func (d *Dev) Backlight(intensity display.Intensity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if intensity == 0 {
		d.lit = false
	} else {
		d.lit = true
		d.intensity = intensity
	}
	return d.refresh()
}

// Halt implements conn.Resource.
//
// It turns the display off and resets the terminal colors.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lit = false
	if err := d.refresh(); err != nil {
		return err
	}
	_, err := io.WriteString(d.w, "\033[0m")
	return err
}

// Glyphs returns the four positions as currently stored in RAM.
func (d *Dev) Glyphs() fourletter.Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	var raw [fourletter.BufferSize]byte
	copy(raw[:], d.ram[:])
	return fourletter.BufferFromBytes(raw)
}

func (d *Dev) litColor() color.Color {
	r, g, b, _ := d.on.RGBA()
	s := uint32(d.intensity) + 1
	return color.NRGBA{
		R: uint8((r >> 8) * s >> 8),
		G: uint8((g >> 8) * s >> 8),
		B: uint8((b >> 8) * s >> 8),
		A: 255,
	}
}

func (d *Dev) refresh() error {
	var raw [fourletter.BufferSize]byte
	copy(raw[:], d.ram[:])
	buf := fourletter.BufferFromBytes(raw)
	on := d.palette.Block(d.litColor())
	off := d.palette.Block(d.off)

	d.buf.Reset()
	if d.drawn {
		fmt.Fprintf(&d.buf, "\033[%dA", cellH)
	}
	for y := 0; y < cellH; y++ {
		_, _ = d.buf.WriteString("\r\033[0m")
		for i, g := range buf {
			if i != 0 {
				_, _ = d.buf.WriteString("\033[0m ")
			}
			for x := 0; x < cellW; x++ {
				if d.lit && g&cellMasks[y][x] != 0 {
					_, _ = d.buf.WriteString(on)
				} else {
					_, _ = d.buf.WriteString(off)
				}
			}
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	d.drawn = true
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ fourletter.RAM = &Dev{}
var _ conn.Resource = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ fmt.Stringer = &Dev{}
