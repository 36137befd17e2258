// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// fourletter-clock shows the time on a four letter display.
//
// Settings come from an optional TOML file, flags override it:
//
//	fourletter-clock -config clock.toml -dimming 4 -format 15.04
//
// With -sim the display is drawn on the terminal and no I²C bus is needed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/fourletter"
	"github.com/GermanBionicSystems/fourletter/clock"
	"github.com/GermanBionicSystems/fourletter/ht16k33"
	"github.com/GermanBionicSystems/fourletter/screen14"
	"github.com/GermanBionicSystems/fourletter/segimage"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// options are the flags that are not part of clock.Config.
type options struct {
	snapshot string
	logFile  string
	verbose  bool
}

func parseArgs(args []string) (clock.Config, options, error) {
	fs := flag.NewFlagSet("fourletter-clock", flag.ContinueOnError)
	def := clock.DefaultConfig()
	configPath := fs.String("config", "", "TOML configuration file")
	dimming := fs.Uint("dimming", uint(def.Dimming), "display dimming level, 1-16")
	format := fs.String("format", def.Format, "time layout, see time.Format")
	noDot := fs.Bool("no-dot", false, "disable the blinking dot")
	noTeardown := fs.Bool("no-teardown", false, "leave the time displayed on exit")
	period := fs.Duration("period", def.Period.Duration, "update period")
	bus := fs.String("bus", def.Bus, "I²C bus to use")
	addr := fs.Uint("addr", uint(def.Address), "I²C address of the HT16K33")
	sim := fs.Bool("sim", false, "draw on the terminal instead of using I²C")
	var opts options
	fs.StringVar(&opts.snapshot, "snapshot", "", "write a PNG of the display to this file on exit")
	fs.StringVar(&opts.logFile, "log-file", "", "also log to this file, rotated at 1MB")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return def, opts, err
	}
	if fs.NArg() != 0 {
		return def, opts, errors.New("unexpected argument, try -help")
	}

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = clock.LoadConfig(*configPath); err != nil {
			return cfg, opts, err
		}
	}
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dimming":
			if *dimming > 0xff {
				err = fmt.Errorf("-dimming %d is out of range", *dimming)
			}
			cfg.Dimming = uint8(*dimming)
		case "format":
			cfg.Format = *format
		case "no-dot":
			cfg.NoDot = *noDot
		case "no-teardown":
			cfg.NoTeardown = *noTeardown
		case "period":
			cfg.Period.Duration = *period
		case "bus":
			cfg.Bus = *bus
		case "addr":
			if *addr > 0xffff {
				err = fmt.Errorf("-addr 0x%x is out of range", *addr)
			}
			cfg.Address = uint16(*addr)
		case "sim":
			cfg.Simulate = *sim
		}
	})
	if err != nil {
		return cfg, opts, err
	}
	return cfg, opts, cfg.Validate()
}

func setupLogging(opts options, simulate bool) {
	var writers []io.Writer
	// The simulated display owns the terminal once a log file is set.
	if !simulate || opts.logFile == "" {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if opts.logFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.logFile,
			MaxSize:    1,
			MaxBackups: 2,
		})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(io.MultiWriter(writers...)).
		With().Timestamp().Caller().Logger()
}

// dimmingIntensity maps a dimming level onto the display.Intensity that
// selects the same level.
func dimmingIntensity(level uint8) display.Intensity {
	return display.Intensity(int(level)*16 - 1)
}

func openDisplay(cfg clock.Config) (*fourletter.Dev, func() error, error) {
	if cfg.Simulate {
		scr := screen14.New(nil)
		if err := scr.Backlight(dimmingIntensity(cfg.Dimming)); err != nil {
			return nil, nil, err
		}
		return fourletter.New(scr), func() error { return nil }, nil
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open I²C: %w", err)
	}
	ctrl, err := ht16k33.New(bus, cfg.Address)
	if err == nil {
		err = ctrl.SetDimming(cfg.Dimming)
	}
	if err != nil {
		_ = bus.Close()
		return nil, nil, err
	}
	log.Info().Stringer("controller", ctrl).Stringer("bus", bus).Msg("display ready")
	return fourletter.New(ctrl), bus.Close, nil
}

// saveSnapshot draws b into a PNG file captioned with the time it was taken.
func saveSnapshot(path string, b fourletter.Buffer, at time.Time) error {
	opts := &segimage.Opts{Caption: at.Format(time.DateTime)}
	return segimage.SavePNG(path, b, opts)
}

func mainImpl() error {
	cfg, opts, err := parseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogging(opts, cfg.Simulate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev, closeBus, err := openDisplay(cfg)
	if err != nil {
		return err
	}
	defer closeBus()

	// Teardown waits for the snapshot so it shows the last frame.
	runCfg := cfg
	runCfg.NoTeardown = true
	if err := clock.Run(ctx, dev, clockwork.NewRealClock(), runCfg); err != nil {
		return err
	}
	if opts.snapshot != "" {
		if err := saveSnapshot(opts.snapshot, dev.Buffer(), time.Now()); err != nil {
			log.Error().Err(err).Str("path", opts.snapshot).Msg("failed to save snapshot")
		} else {
			log.Info().Str("path", opts.snapshot).Msg("saved snapshot")
		}
	}
	if cfg.NoTeardown {
		return nil
	}
	return clock.Teardown(dev)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "fourletter-clock: %s.\n", err)
		os.Exit(1)
	}
}
