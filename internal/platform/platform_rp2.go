//go:build rp2040 || rp2350

package platform

import (
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/dht"
	"tinygo.org/x/drivers/hd44780i2c"

	"flownix-node/drivers/hcsr04"
	"flownix-node/errcode"
	"flownix-node/services/network"
	"flownix-node/types"
)

// DeviceName selects the embedded configuration.
const DeviceName = "pico"

// Setup configures the console, GPIO, I2C0 and the WiFi chip.
func Setup(cfg types.NodeConfig) (*Board, error) {
	console := DefaultConsole()
	if err := checkPins(cfg.Pins, 28); err != nil {
		return nil, err
	}

	trig := machine.Pin(cfg.Pins.Trig)
	echo := machine.Pin(cfg.Pins.Echo)
	trig.Configure(machine.PinConfig{Mode: machine.PinOutput})
	echo.Configure(machine.PinConfig{Mode: machine.PinInput})
	sonar := hcsr04.New(trig, echo)
	sonar.Configure(hcsr04.Config{Timeout: echoTimeout(cfg)})

	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{
		Frequency: 100 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	}); err != nil {
		return nil, errcode.New(errcode.UnknownBus, "setup", "i2c0", err)
	}
	lcd := hd44780i2c.New(bus, cfg.LCD.Addr)
	if err := lcd.Configure(hd44780i2c.Config{Width: cfg.LCD.Cols, Height: cfg.LCD.Rows}); err != nil {
		return nil, errcode.New(errcode.UnknownBus, "setup", "lcd", err)
	}
	lcd.BacklightOn(true)

	return &Board{
		Climate: &dhtSensor{dev: dht.New(machine.Pin(cfg.Pins.DHT), dht.DHT22)},
		Ranger:  &sonar,
		LCD:     &lcd,
		Link:    network.NewNetLink(),
		Console: console,
	}, nil
}

var consoleUp bool

// DefaultConsole returns UART0 at 115200 on the default pins, configuring it
// once.
func DefaultConsole() io.Writer {
	u := uartx.UART0
	if !consoleUp {
		_ = u.Configure(uartx.UARTConfig{
			BaudRate: 115200,
			TX:       machine.UART0_TX_PIN,
			RX:       machine.UART0_RX_PIN,
		})
		consoleUp = true
	}
	return u
}

type dhtSensor struct{ dev dht.Device }

func (d *dhtSensor) Read() (types.ClimateValue, error) {
	if err := d.dev.ReadMeasurements(); err != nil {
		return types.ClimateValue{}, err
	}
	c, rh, err := d.dev.Measurements()
	if err != nil {
		return types.ClimateValue{}, err
	}
	return types.ClimateValue{DeciC: c, DeciPercent: rh}, nil
}
