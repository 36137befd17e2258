// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package clock shows the time on a four letter display.
//
// The dot after the second position blinks once per tick, like the colon of
// a digital clock.
package clock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GermanBionicSystems/fourletter"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const packageName = "clock"

// DotDigit is the position whose decimal point blinks.
var DotDigit = fourletter.Digit1

// Display is the part of *fourletter.Dev the clock uses.
type Display interface {
	ClearBuffer()
	SetText(s string) int
	SetDot(d fourletter.Digit, on bool)
	Flush() error
	Display(on bool) error
}

var _ Display = &fourletter.Dev{}

func wrap(err error) error {
	if err == nil || strings.HasPrefix(err.Error(), packageName) {
		return err
	}
	return fmt.Errorf("%s: %w", packageName, err)
}

// Render puts now into the buffer of d. dot is the state of the blinking
// dot; it is ignored with cfg.NoDot. Nothing is flushed.
func Render(d Display, now time.Time, dot bool, cfg Config) {
	d.ClearBuffer()
	d.SetText(now.Format(cfg.Format))
	if !cfg.NoDot {
		d.SetDot(DotDigit, dot)
	}
}

// Run updates d every cfg.Period until ctx is done. The first update is
// immediate.
//
// A failed flush ends Run with the error. On cancellation the display is
// cleared and turned off, unless cfg.NoTeardown is set.
func Run(ctx context.Context, d Display, clk clockwork.Clock, cfg Config) error {
	ticker := clk.NewTicker(cfg.Period.Duration)
	defer ticker.Stop()

	log.Info().Str("format", cfg.Format).Dur("period", cfg.Period.Duration).Msg("started clock")
	dot := false
	for {
		now := clk.Now()
		Render(d, now, dot, cfg)
		dot = !dot
		if err := d.Flush(); err != nil {
			log.Error().Err(err).Time("at", now).Msg("failed to update display")
			return wrap(err)
		}
		log.Debug().Time("at", now).Msg("tick")

		select {
		case <-ctx.Done():
			log.Info().Msg("stopping clock")
			if cfg.NoTeardown {
				return nil
			}
			return Teardown(d)
		case <-ticker.Chan():
		}
	}
}

// Teardown blanks d and turns it off.
func Teardown(d Display) error {
	d.ClearBuffer()
	if err := d.Flush(); err != nil {
		return wrap(err)
	}
	if err := d.Display(false); err != nil {
		log.Warn().Err(err).Msg("display cannot be turned off")
	}
	log.Info().Msg("stopped clock")
	return nil
}
