package config

import (
	"net/netip"

	"flownix-node/errcode"
	"flownix-node/types"
	"flownix-node/x/strx"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Defaults (values the firmware shipped with)
// -----------------------------------------------------------------------------

const (
	DefaultSSID          = "Wokwi-GUEST"
	DefaultHost          = "flownix-backend.onrender.com"
	DefaultPath          = "/api/SensorReading"
	DefaultFallback      = "216.24.57.7"
	DefaultTemperatureID = "008ee850-a61f-4aee-aa20-060897b6d6a4"
	DefaultWaterLevelID  = "9746cc6d-f517-44ed-9197-09988bf9f76c"

	DefaultLCDAddr = 0x27
	DefaultLCDCols = 16
	DefaultLCDRows = 2

	DefaultAttempts  = 2
	DefaultTimeoutMs = 60000
	DefaultWiFiPoll  = 300

	DefaultUploadIntervalMs = 30000
	DefaultLoopPaceMs       = 1500
	DefaultBetweenUploadsMs = 3000
	DefaultStatusHoldMs     = 1200
	DefaultBootHoldMs       = 800
	DefaultRetryBaseMs      = 1200
	DefaultBeginRetryMs     = 700
	DefaultEchoTimeoutMs    = 30
)

const opLoad = "config.load"

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Load resolves the embedded document for device, fills defaults for zero
// fields and validates the result.
func Load(device string) (types.NodeConfig, error) {
	var cfg types.NodeConfig
	if device == "" {
		return cfg, errcode.New(errcode.InvalidConfig, opLoad, "missing device name", nil)
	}
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return cfg, errcode.New(errcode.InvalidConfig, opLoad, "no embedded config for device: "+device, nil)
	}
	m, err := parse(device, raw)
	if err != nil {
		return cfg, err
	}
	if err := decodeNode(m, &cfg); err != nil {
		return cfg, err
	}
	ApplyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyDefaults replaces zero values with the shipped defaults. Pins are left
// as given: pin 0 is a valid GPIO.
func ApplyDefaults(c *types.NodeConfig) {
	c.WiFi.SSID = strx.Coalesce(c.WiFi.SSID, DefaultSSID)
	c.WiFi.PollMs = orInt(c.WiFi.PollMs, DefaultWiFiPoll)

	c.Backend.Host = strx.Coalesce(c.Backend.Host, DefaultHost)
	c.Backend.Path = strx.Coalesce(c.Backend.Path, DefaultPath)
	c.Backend.Fallback = strx.Coalesce(c.Backend.Fallback, DefaultFallback)
	c.Backend.Attempts = orInt(c.Backend.Attempts, DefaultAttempts)
	c.Backend.TimeoutMs = orInt(c.Backend.TimeoutMs, DefaultTimeoutMs)

	c.Sensors.Temperature = strx.Coalesce(c.Sensors.Temperature, DefaultTemperatureID)
	c.Sensors.WaterLevel = strx.Coalesce(c.Sensors.WaterLevel, DefaultWaterLevelID)

	if c.LCD.Addr == 0 {
		c.LCD.Addr = DefaultLCDAddr
	}
	if c.LCD.Cols == 0 {
		c.LCD.Cols = DefaultLCDCols
	}
	if c.LCD.Rows == 0 {
		c.LCD.Rows = DefaultLCDRows
	}

	t := &c.Timing
	t.UploadIntervalMs = orInt(t.UploadIntervalMs, DefaultUploadIntervalMs)
	t.LoopPaceMs = orInt(t.LoopPaceMs, DefaultLoopPaceMs)
	t.BetweenUploadsMs = orInt(t.BetweenUploadsMs, DefaultBetweenUploadsMs)
	t.StatusHoldMs = orInt(t.StatusHoldMs, DefaultStatusHoldMs)
	t.BootHoldMs = orInt(t.BootHoldMs, DefaultBootHoldMs)
	t.RetryBaseMs = orInt(t.RetryBaseMs, DefaultRetryBaseMs)
	t.BeginRetryMs = orInt(t.BeginRetryMs, DefaultBeginRetryMs)
	t.EchoTimeoutMs = orInt(t.EchoTimeoutMs, DefaultEchoTimeoutMs)
}

// Validate checks a defaulted configuration.
func Validate(c types.NodeConfig) error {
	if _, err := uuid.Parse(c.Sensors.Temperature); err != nil {
		return errcode.New(errcode.InvalidConfig, opLoad, "sensors.temperature is not a UUID", err)
	}
	if _, err := uuid.Parse(c.Sensors.WaterLevel); err != nil {
		return errcode.New(errcode.InvalidConfig, opLoad, "sensors.water_level is not a UUID", err)
	}
	if c.Sensors.Temperature == c.Sensors.WaterLevel {
		return errcode.New(errcode.InvalidConfig, opLoad, "sensor ids must differ", nil)
	}
	if _, err := netip.ParseAddr(c.Backend.Fallback); err != nil {
		return errcode.New(errcode.InvalidConfig, opLoad, "backend.fallback is not an IP address", err)
	}
	if len(c.Backend.Path) == 0 || c.Backend.Path[0] != '/' {
		return errcode.New(errcode.InvalidConfig, opLoad, "backend.path must start with /", nil)
	}
	if c.Pins.DHT < 0 || c.Pins.Trig < 0 || c.Pins.Echo < 0 {
		return errcode.New(errcode.InvalidConfig, opLoad, "negative pin number", nil)
	}
	if c.Pins.Trig == c.Pins.Echo {
		return errcode.New(errcode.InvalidConfig, opLoad, "trig and echo share a pin", nil)
	}
	if c.LCD.Cols < DefaultLCDCols || c.LCD.Rows < DefaultLCDRows {
		return errcode.New(errcode.InvalidConfig, opLoad, "lcd must be at least 16x2", nil)
	}
	return nil
}

func orInt(v, d int) int {
	if v <= 0 {
		return d
	}
	return v
}
