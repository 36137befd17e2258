// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fourletter

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/GermanBionicSystems/fourletter/ht16k33"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

// fakeRAM records writes into 16 bytes of memory.
type fakeRAM struct {
	mem    [16]byte
	writes [][]byte
	err    error
}

func (f *fakeRAM) WriteRAM(addr byte, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, append([]byte{addr}, data...))
	copy(f.mem[addr:], data)
	return nil
}

func (f *fakeRAM) ReadRAM(addr byte, r []byte) error {
	if f.err != nil {
		return f.err
	}
	copy(r, f.mem[addr:])
	return nil
}

var blankWrite = []byte{0x00, 0, 0, 0, 0, 0, 0, 0, 0}

var initOps = []i2ctest.IO{
	{Addr: ht16k33.DefaultAddress, W: []byte{0x21}},
	{Addr: ht16k33.DefaultAddress, W: []byte{0xef}},
	{Addr: ht16k33.DefaultAddress, W: []byte{0x81}},
	{Addr: ht16k33.DefaultAddress, W: blankWrite},
}

func newI2C(t *testing.T, ops ...i2ctest.IO) (*Dev, *i2ctest.Playback) {
	t.Helper()
	all := append([]i2ctest.IO{}, initOps...)
	bus := &i2ctest.Playback{Ops: append(all, ops...)}
	dev, err := NewI2C(bus, ht16k33.DefaultAddress)
	if err != nil {
		t.Fatal(err)
	}
	return dev, bus
}

func TestNewI2CPrint(t *testing.T) {
	dev, bus := newI2C(t,
		i2ctest.IO{Addr: ht16k33.DefaultAddress, W: []byte{0x00, 0x06, 0x00, 0xdb, 0x40, 0x8f, 0x00, 0xe6, 0x00}},
	)
	if err := dev.Print("12.34"); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
	if s := dev.String(); !strings.Contains(s, `"12.34"`) {
		t.Errorf("String() = %q", s)
	}
}

func TestNewI2CInvalidAddress(t *testing.T) {
	_, err := NewI2C(&i2ctest.Playback{DontPanic: true}, 0x20)
	if !errors.Is(err, ht16k33.ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestFlushLayout(t *testing.T) {
	ram := &fakeRAM{}
	dev := New(ram)
	dev.SetChar(Digit0, '8')
	dev.SetGlyph(Digit1, 0xabcd)
	dev.SetText("..")
	dev.SetDot(Digit3, true)
	dev.ToggleDot(Digit1)
	if err := dev.Flush(); err != nil {
		t.Fatal(err)
	}
	want := [][]byte{{0x00, 0x00, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x40}}
	if diff := cmp.Diff(want, ram.writes); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
}

func TestFlushSkipsUnchanged(t *testing.T) {
	ram := &fakeRAM{}
	dev := New(ram)
	for range 3 {
		if err := dev.Flush(); err != nil {
			t.Fatal(err)
		}
	}
	if len(ram.writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(ram.writes))
	}
	dev.SetText("A")
	_ = dev.Flush()
	dev.SetText("A")
	_ = dev.Flush()
	if len(ram.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(ram.writes))
	}
	dev.Invalidate()
	_ = dev.Flush()
	if len(ram.writes) != 3 {
		t.Fatalf("expected 3 writes after Invalidate, got %d", len(ram.writes))
	}
}

func TestFlushError(t *testing.T) {
	errBus := errors.New("bus down")
	ram := &fakeRAM{}
	dev := New(ram)
	dev.SetText("8.8")
	want := dev.Buffer()

	ram.err = errBus
	err := dev.Flush()
	if err != errBus {
		t.Fatalf("expected the transport error unchanged, got %v", err)
	}
	if got := dev.Buffer(); got != want {
		t.Errorf("buffer changed after a failed flush: %v", got)
	}

	ram.err = nil
	if err := dev.Flush(); err != nil {
		t.Fatal(err)
	}
	if len(ram.writes) != 1 {
		t.Errorf("expected the retry to write, got %d writes", len(ram.writes))
	}
}

func TestLoad(t *testing.T) {
	ram := &fakeRAM{}
	enc := Encode("HI.")
	raw := enc.Bytes()
	copy(ram.mem[:], raw[:])
	dev := New(ram)
	if err := dev.Load(); err != nil {
		t.Fatal(err)
	}
	if got := dev.Buffer(); got != Encode("HI.") {
		t.Errorf("Load() = %v", got)
	}
	if err := dev.Flush(); err != nil {
		t.Fatal(err)
	}
	if len(ram.writes) != 0 {
		t.Errorf("Flush after Load wrote %d times", len(ram.writes))
	}

	ram.err = errors.New("read failed")
	if err := dev.Load(); err != ram.err {
		t.Errorf("expected the read error, got %v", err)
	}
}

func TestTextDisplay(t *testing.T) {
	ram := &fakeRAM{}
	dev := New(ram)
	if dev.Rows() != 1 || dev.Cols() != 4 || dev.MinRow() != 1 || dev.MinCol() != 1 {
		t.Errorf("unexpected geometry %dx%d from %d,%d", dev.Rows(), dev.Cols(), dev.MinRow(), dev.MinCol())
	}
	for _, s := range []string{"AB", "C.D", "E"} {
		n, err := dev.WriteString(s)
		if err != nil {
			t.Fatal(err)
		}
		if n != len(s) {
			t.Errorf("WriteString(%q) = %d", s, n)
		}
	}
	if got := dev.Buffer(); got != Encode("ABC.D") {
		t.Errorf("buffer = %v", got)
	}
	// "E" did not fit, so nothing new was sent.
	if len(ram.writes) != 2 {
		t.Errorf("expected 2 writes, got %d", len(ram.writes))
	}

	if err := dev.MoveTo(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := dev.Move(display.Forward); err != nil {
		t.Fatal(err)
	}
	if _, err := dev.WriteString("x"); err != nil {
		t.Fatal(err)
	}
	if got := dev.Buffer(); got != Encode("ABxD") {
		t.Errorf("buffer = %v", got)
	}

	if err := dev.Home(); err != nil {
		t.Fatal(err)
	}
	if err := dev.Move(display.Backward); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Move(Backward) from home: expected ErrInvalidPosition, got %v", err)
	}
	if err := dev.Move(display.Up); !errors.Is(err, display.ErrNotImplemented) {
		t.Errorf("Move(Up): expected ErrNotImplemented, got %v", err)
	}
	if err := dev.MoveTo(2, 1); err == nil {
		t.Error("MoveTo(2, 1) should fail")
	}
	if err := dev.MoveTo(1, 5); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("MoveTo(1, 5): expected ErrInvalidPosition, got %v", err)
	}

	if err := dev.Clear(); err != nil {
		t.Fatal(err)
	}
	if got := dev.Buffer(); got != (Buffer{}) {
		t.Errorf("Clear() left %v", got)
	}
	if diff := cmp.Diff(blankWrite, ram.writes[len(ram.writes)-1]); diff != "" {
		t.Errorf("Clear() write mismatch (-want +got):\n%s", diff)
	}
}

func TestNotImplemented(t *testing.T) {
	dev := New(&fakeRAM{})
	if err := dev.Cursor(display.CursorOff); err != nil {
		t.Errorf("Cursor(CursorOff): %v", err)
	}
	checks := map[string]error{
		"AutoScroll": dev.AutoScroll(true),
		"Cursor":     dev.Cursor(display.CursorBlink),
		"Display":    dev.Display(true),
		"Backlight":  dev.Backlight(0x80),
	}
	for name, err := range checks {
		if !errors.Is(err, display.ErrNotImplemented) {
			t.Errorf("%s: expected ErrNotImplemented, got %v", name, err)
		}
	}
}

func TestControllerForwarding(t *testing.T) {
	a := ht16k33.DefaultAddress
	dev, bus := newI2C(t,
		// Display(false)
		i2ctest.IO{Addr: a, W: []byte{0x80}},
		// Backlight(0x80)
		i2ctest.IO{Addr: a, W: []byte{0xe8}},
		// back on
		i2ctest.IO{Addr: a, W: []byte{0x81}},
		// "8"
		i2ctest.IO{Addr: a, W: []byte{0x00, 0xff, 0x00, 0, 0, 0, 0, 0, 0}},
		// Halt clears
		i2ctest.IO{Addr: a, W: blankWrite},
		// display off
		i2ctest.IO{Addr: a, W: []byte{0x80}},
		// oscillator off
		i2ctest.IO{Addr: a, W: []byte{0x20}},
	)
	if err := dev.Display(false); err != nil {
		t.Fatal(err)
	}
	if err := dev.Backlight(0x80); err != nil {
		t.Fatal(err)
	}
	if _, err := dev.WriteString("8"); err != nil {
		t.Fatal(err)
	}
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestConcurrentControl(t *testing.T) {
	bus := &i2ctest.Record{}
	dev, err := NewI2C(bus, ht16k33.DefaultAddress)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for g := 0; g < 3; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				var err error
				switch g {
				case 0:
					err = dev.Display(i%2 == 0)
				case 1:
					err = dev.Backlight(display.Intensity(i % 2 * 128))
				default:
					dev.SetText("12.34")
					err = dev.Flush()
				}
				if err != nil {
					t.Error(err)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if got := dev.Buffer(); got != (Buffer{}) {
		t.Errorf("buffer after Halt = %v", got)
	}
}
