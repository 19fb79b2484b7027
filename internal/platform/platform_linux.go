//go:build linux && arm64 && !(rp2040 || rp2350)

package platform

import (
	"io"
	"os"
	"strconv"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers/hd44780i2c"

	"flownix-node/drivers/hcsr04"
	"flownix-node/errcode"
	"flownix-node/services/network"
	"flownix-node/types"
)

const DeviceName = "linux"

// Setup opens GPIO and the first I2C bus through periph. There is no DHT
// driver for this target; climate reads fail and surface as NaN.
func Setup(cfg types.NodeConfig) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, errcode.New(errcode.Unsupported, "setup", "periph host init", err)
	}
	if err := checkPins(cfg.Pins, 27); err != nil {
		return nil, err
	}

	trig, err := openPin(cfg.Pins.Trig)
	if err != nil {
		return nil, err
	}
	echo, err := openPin(cfg.Pins.Echo)
	if err != nil {
		return nil, err
	}
	if err := trig.Out(gpio.Low); err != nil {
		return nil, errcode.New(errcode.UnknownPin, "setup", trig.Name(), err)
	}
	if err := echo.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, errcode.New(errcode.UnknownPin, "setup", echo.Name(), err)
	}
	sonar := hcsr04.New(outPin{trig}, inPin{echo})
	sonar.Configure(hcsr04.Config{Timeout: echoTimeout(cfg)})

	bus, err := i2creg.Open("")
	if err != nil {
		return nil, errcode.New(errcode.UnknownBus, "setup", "i2c", err)
	}
	// periph's i2c.Bus has the same Tx shape as drivers.I2C.
	lcd := hd44780i2c.New(bus, cfg.LCD.Addr)
	if err := lcd.Configure(hd44780i2c.Config{Width: cfg.LCD.Cols, Height: cfg.LCD.Rows}); err != nil {
		_ = bus.Close()
		return nil, errcode.New(errcode.UnknownBus, "setup", "lcd", err)
	}
	lcd.BacklightOn(true)

	return &Board{
		Climate: unsupported{},
		Ranger:  &sonar,
		LCD:     &lcd,
		Link:    &network.OSLink{},
		Console: DefaultConsole(),
		close:   bus.Close,
	}, nil
}

func openPin(n int) (gpio.PinIO, error) {
	name := "GPIO" + strconv.Itoa(n)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errcode.New(errcode.UnknownPin, "setup", name, nil)
	}
	return p, nil
}

type outPin struct{ p gpio.PinIO }

func (o outPin) High() { _ = o.p.Out(gpio.High) }
func (o outPin) Low()  { _ = o.p.Out(gpio.Low) }

type inPin struct{ p gpio.PinIO }

func (i inPin) Get() bool { return i.p.Read() == gpio.High }

func DefaultConsole() io.Writer { return os.Stdout }
