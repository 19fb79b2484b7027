package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device name (platform.DeviceName for the build target)
// Val: raw JSON bytes for that device
// Timing fields left out take the package defaults.
// -----------------------------------------------------------------------------

const cfgPico = `{
  "wifi": {
    "ssid": "Wokwi-GUEST",
    "passphrase": ""
  },
  "backend": {
    "host": "flownix-backend.onrender.com",
    "path": "/api/SensorReading",
    "fallback": "216.24.57.7"
  },
  "sensors": {
    "temperature": "008ee850-a61f-4aee-aa20-060897b6d6a4",
    "water_level": "9746cc6d-f517-44ed-9197-09988bf9f76c"
  },
  "pins": {
    "dht": 15,
    "trig": 26,
    "echo": 27
  },
  "lcd": {
    "addr": 39,
    "cols": 16,
    "rows": 2
  },
  "timing": {}
}`

// Raspberry Pi class boards: BCM numbering, I2C1 on the header.
const cfgLinux = `{
  "wifi": {
    "ssid": "Wokwi-GUEST"
  },
  "backend": {
    "host": "flownix-backend.onrender.com",
    "path": "/api/SensorReading",
    "fallback": "216.24.57.7"
  },
  "sensors": {
    "temperature": "008ee850-a61f-4aee-aa20-060897b6d6a4",
    "water_level": "9746cc6d-f517-44ed-9197-09988bf9f76c"
  },
  "pins": {
    "dht": 4,
    "trig": 23,
    "echo": 24
  },
  "lcd": {
    "addr": 39
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico":  []byte(cfgPico),
	"linux": []byte(cfgLinux),
	"host":  []byte(cfgPico),
}
