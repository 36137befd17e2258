// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package clock

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/GermanBionicSystems/fourletter/ht16k33"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration written as a string ("1s", "500ms") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the clock configuration. The zero value is not valid, start
// from DefaultConfig.
type Config struct {
	// Dimming is the HT16K33 dimming level.
	Dimming uint8 `toml:"dimming" validate:"min=1,max=16"`
	// Format is a time.Time layout. Only the first four positions are
	// shown, dots fold onto the previous character.
	Format string `toml:"format" validate:"required"`
	// NoDot disables the blinking dot after the second position.
	NoDot bool `toml:"no_dot"`
	// NoTeardown leaves the last time on the display on exit.
	NoTeardown bool     `toml:"no_teardown"`
	Period     Duration `toml:"period" validate:"min=10ms"`
	// Bus is the I²C bus name, "" for the first one.
	Bus     string `toml:"bus"`
	Address uint16 `toml:"address" validate:"min=112,max=119"`
	// Simulate draws on the terminal instead of using I²C.
	Simulate bool `toml:"simulate"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Dimming: ht16k33.MaxDimming,
		Format:  "1504",
		Period:  Duration{time.Second},
		Address: ht16k33.DefaultAddress,
	}
}

// LoadConfig reads the TOML file at path over DefaultConfig. Keys the file
// does not set keep their default. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, wrap(fmt.Errorf("failed to read config file: %w", err))
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, wrap(fmt.Errorf("failed to unmarshal config: %w", err))
	}
	return cfg, nil
}

// Marshal returns cfg as TOML.
func (cfg Config) Marshal() ([]byte, error) {
	return toml.Marshal(cfg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(Duration); ok {
			return d.Duration
		}
		return nil
	}, Duration{})
	return v
}

// Validate checks every field is in range.
func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return wrap(fmt.Errorf("invalid config: %w", err))
	}
	return nil
}
