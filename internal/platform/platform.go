// Package platform wires the node's peripherals for the build target. Each
// target file provides Setup and DeviceName; everything above this package
// only sees the interfaces in Board.
package platform

import (
	"io"
	"time"

	"flownix-node/errcode"
	"flownix-node/services/display"
	"flownix-node/services/network"
	"flownix-node/services/sensors"
	"flownix-node/types"
	"flownix-node/x/timex"
)

// Board is the set of peripherals one node has.
type Board struct {
	Climate sensors.ClimateSensor
	Ranger  sensors.Ranger
	LCD     display.LCD
	Link    network.Link
	Console io.Writer

	close func() error
}

// Close releases buses opened by Setup. It is safe on a nil close func.
func (b *Board) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

func checkPins(p types.PinConfig, max int) error {
	for _, n := range []int{p.DHT, p.Trig, p.Echo} {
		if n < 0 || n > max {
			return errcode.New(errcode.UnknownPin, "setup", "pin out of range", nil)
		}
	}
	return nil
}

// unsupported is a climate sensor for targets without a DHT driver. Every
// read fails, which the loop renders and uploads as NaN.
type unsupported struct{}

func (unsupported) Read() (types.ClimateValue, error) {
	return types.ClimateValue{}, errcode.New(errcode.Unsupported, "climate", "no DHT driver on this target", nil)
}

func echoTimeout(c types.NodeConfig) time.Duration { return timex.Ms(c.Timing.EchoTimeoutMs) }
