// Package hcsr04 provides a driver for HC-SR04 style ultrasonic rangers.
//
//	d := hcsr04.New(trig, echo)
//	d.Configure(hcsr04.Config{Timeout: 30 * time.Millisecond})
//	cm := d.ReadDistance() // 0 when no echo arrives in time
//
// The driver only needs a push-pull output for TRIG and a readable input for
// ECHO, so the same code runs on machine.Pin, periph GPIO adapters and test
// fakes. Timing is polled; call it from the only goroutine touching the pins.
package hcsr04

import (
	"errors"
	"time"

	"flownix-node/x/mathx"
)

// Speed of sound as used for conversion: 0.034 cm/µs, halved for the round
// trip. Kept integral: cm = µs * 17 / 1000.
const (
	cmPerUsNum = 17
	cmPerUsDen = 1000
)

// Default and accepted echo windows. 30 ms covers roughly 5 m.
const (
	DefaultTimeout = 30 * time.Millisecond
	minTimeout     = time.Millisecond
	maxTimeout     = time.Second
)

// Errors returned by the driver.
var ErrNoEcho = errors.New("hcsr04: no echo")

// OutputPin drives TRIG.
type OutputPin interface {
	High()
	Low()
}

// InputPin samples ECHO.
type InputPin interface {
	Get() bool
}

// Config controls timing. All fields are optional.
type Config struct {
	// Timeout bounds the whole echo wait (leading edge and pulse). Clamped to
	// [1 ms, 1 s]. Default 30 ms.
	Timeout time.Duration
	// Now and Delay replace the time source; tests inject a fake clock.
	Now   func() time.Time
	Delay func(time.Duration)
}

// Device wraps the TRIG/ECHO pin pair.
type Device struct {
	trig OutputPin
	echo InputPin
	cfg  Config
}

// New creates the device. Pins must already be configured as output (trig)
// and input (echo).
func New(trig OutputPin, echo InputPin) Device {
	d := Device{trig: trig, echo: echo}
	d.Configure()
	return d
}

// Configure applies optional config; it may be called with no cfg.
func (d *Device) Configure(cfgs ...Config) {
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	c.Timeout = mathx.Clamp(c.Timeout, minTimeout, maxTimeout)
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Delay == nil {
		c.Delay = time.Sleep
	}
	d.cfg = c
	d.trig.Low()
}

// Timeout returns the configured echo window.
func (d *Device) Timeout() time.Duration { return d.cfg.Timeout }

// Trigger emits the 10 µs start pulse.
func (d *Device) Trigger() {
	d.trig.Low()
	d.cfg.Delay(2 * time.Microsecond)
	d.trig.High()
	d.cfg.Delay(10 * time.Microsecond)
	d.trig.Low()
}

// Pulse triggers a measurement and returns the width of the echo pulse. When
// the pulse does not start and end inside the window it returns 0, ErrNoEcho.
func (d *Device) Pulse() (time.Duration, error) {
	d.Trigger()
	now := d.cfg.Now
	deadline := now().Add(d.cfg.Timeout)

	// Tail of a previous pulse.
	for d.echo.Get() {
		if !now().Before(deadline) {
			return 0, ErrNoEcho
		}
	}
	// Leading edge.
	for !d.echo.Get() {
		if !now().Before(deadline) {
			return 0, ErrNoEcho
		}
	}
	start := now()
	// Trailing edge.
	for d.echo.Get() {
		if !now().Before(deadline) {
			return 0, ErrNoEcho
		}
	}
	return now().Sub(start), nil
}

// ReadDistance measures and returns whole centimetres. A missing echo reads
// as 0 cm; use Pulse to tell the two apart.
func (d *Device) ReadDistance() int32 {
	w, _ := d.Pulse()
	return Centimetres(w)
}

// Centimetres converts an echo width into whole centimetres (truncated).
func Centimetres(echo time.Duration) int32 {
	if echo <= 0 {
		return 0
	}
	us := int64(echo / time.Microsecond)
	return int32(us * cmPerUsNum / cmPerUsDen)
}
