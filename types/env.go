package types

import "math"

// ------------------------
// Channels & readings
// ------------------------

// Kind names a measurement channel.
type Kind string

const (
	KindTemperature Kind = "temperature"
	KindWaterLevel  Kind = "water_level"
)

// Reading is one scalar value tagged with the backend sensor id.
type Reading struct {
	SensorID string
	Kind     Kind
	Value    float32
}

// ReadingBody is the upload wire shape. Field order is part of the format.
// A nil Value encodes as null.
type ReadingBody struct {
	SensorID string   `json:"sensorId"`
	Value    *float32 `json:"value"`
}

// Body converts a Reading into its wire shape. NaN and infinities are not
// representable in JSON and become null.
func (r Reading) Body() ReadingBody {
	b := ReadingBody{SensorID: r.SensorID}
	v := float64(r.Value)
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		val := r.Value
		b.Value = &val
	}
	return b
}

// ClimateValue is a temperature/humidity pair in tenths, as DHT-class sensors
// report it (e.g. 231 => 23.1°C, 455 => 45.5%RH).
type ClimateValue struct {
	DeciC       int16
	DeciPercent uint16
}
