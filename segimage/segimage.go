// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package segimage draws the content of a four letter display as an image.
//
// It is used for snapshots of what the display shows, e.g. in documentation
// or when no hardware is attached.
package segimage

import (
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/GermanBionicSystems/fourletter"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Opts represents the options available for rendering.
type Opts struct {
	// Scale is the width of one character in pixels. Defaults to 60.
	Scale float64
	// Lit, Unlit and Background default to red segments on black.
	Lit        color.Color
	Unlit      color.Color
	Background color.Color
	// Caption is drawn below the digits when not empty.
	Caption string

	_ struct{}
}

// line is a segment in character units: x in [0, 1], y in [0, height].
type line struct {
	x1, y1, x2, y2 float64
}

const (
	height    = 1.6
	pitch     = 1.6
	margin    = 0.4
	stroke    = 0.12
	dotX      = 1.2
	dotRadius = 0.08
	captionH  = 0.7
)

var segLines = [...]line{
	fourletter.SegA:  {0.1, 0, 0.9, 0},
	fourletter.SegB:  {1, 0.1, 1, 0.7},
	fourletter.SegC:  {1, 0.9, 1, 1.5},
	fourletter.SegD:  {0.1, 1.6, 0.9, 1.6},
	fourletter.SegE:  {0, 0.9, 0, 1.5},
	fourletter.SegF:  {0, 0.1, 0, 0.7},
	fourletter.SegG1: {0.1, 0.8, 0.42, 0.8},
	fourletter.SegG2: {0.58, 0.8, 0.9, 0.8},
	fourletter.SegH:  {0.14, 0.14, 0.4, 0.66},
	fourletter.SegJ:  {0.5, 0.1, 0.5, 0.7},
	fourletter.SegK:  {0.86, 0.14, 0.6, 0.66},
	fourletter.SegL:  {0.4, 0.94, 0.14, 1.46},
	fourletter.SegM:  {0.5, 0.9, 0.5, 1.5},
	fourletter.SegN:  {0.6, 0.94, 0.86, 1.46},
}

var (
	defaultLit        = color.RGBA{R: 255, G: 32, B: 32, A: 255}
	defaultUnlit      = color.RGBA{R: 40, G: 8, B: 8, A: 255}
	defaultBackground = color.Black
)

var parseFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

func (o *Opts) withDefaults() Opts {
	r := Opts{}
	if o != nil {
		r = *o
	}
	if r.Scale <= 0 {
		r.Scale = 60
	}
	if r.Lit == nil {
		r.Lit = defaultLit
	}
	if r.Unlit == nil {
		r.Unlit = defaultUnlit
	}
	if r.Background == nil {
		r.Background = defaultBackground
	}
	return r
}

// Size returns the image size for opts.
func Size(opts *Opts) image.Point {
	o := opts.withDefaults()
	w := (2*margin + float64(fourletter.NumDigits-1)*pitch + dotX + dotRadius) * o.Scale
	h := (2*margin + height) * o.Scale
	if o.Caption != "" {
		h += captionH * o.Scale
	}
	return image.Pt(int(w+0.5), int(h+0.5))
}

func draw(b *fourletter.Buffer, opts *Opts) (*gg.Context, error) {
	o := opts.withDefaults()
	size := Size(&o)
	dc := gg.NewContext(size.X, size.Y)
	dc.SetColor(o.Background)
	dc.Clear()
	dc.SetLineCapRound()
	dc.SetLineWidth(stroke * o.Scale)

	s := o.Scale
	for _, d := range fourletter.Digits {
		g := b.At(d)
		x0 := (margin + float64(d.Index())*pitch) * s
		y0 := margin * s
		for seg, l := range segLines {
			if g.Lit(fourletter.Segment(seg)) {
				dc.SetColor(o.Lit)
			} else {
				dc.SetColor(o.Unlit)
			}
			dc.DrawLine(x0+l.x1*s, y0+l.y1*s, x0+l.x2*s, y0+l.y2*s)
			dc.Stroke()
		}
		if g.HasDot() {
			dc.SetColor(o.Lit)
		} else {
			dc.SetColor(o.Unlit)
		}
		dc.DrawCircle(x0+dotX*s, y0+height*s, dotRadius*s)
		dc.Fill()
	}

	if o.Caption != "" {
		f, err := parseFont()
		if err != nil {
			return nil, err
		}
		face := truetype.NewFace(f, &truetype.Options{Size: captionH * 0.6 * s})
		defer face.Close()
		dc.SetFontFace(face)
		dc.SetColor(o.Lit)
		cy := (2*margin + height + captionH/2) * s
		dc.DrawStringAnchored(o.Caption, float64(size.X)/2, cy, 0.5, 0.5)
	}
	return dc, nil
}

// Render draws b.
func Render(b fourletter.Buffer, opts *Opts) (image.Image, error) {
	dc, err := draw(&b, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// EncodePNG draws b and writes it to w as PNG.
func EncodePNG(w io.Writer, b fourletter.Buffer, opts *Opts) error {
	dc, err := draw(&b, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG draws b into the PNG file at path.
func SavePNG(path string, b fourletter.Buffer, opts *Opts) error {
	dc, err := draw(&b, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}
