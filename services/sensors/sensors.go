// Package sensors samples the climate sensor and the ultrasonic ranger for
// one loop iteration. There is no retry, filtering or calibration: a failed
// climate read surfaces as NaN values with Err set, and a missing echo as 0 cm.
package sensors

import (
	"math"

	"flownix-node/errcode"
	"flownix-node/types"
)

// ClimateSensor reads temperature and humidity in tenths.
type ClimateSensor interface {
	Read() (types.ClimateValue, error)
}

// Ranger returns a distance in whole centimetres, 0 when nothing answered.
type Ranger interface {
	ReadDistance() int32
}

// Climate is the result of one climate read. On failure both values are NaN
// and Err is set; callers that pass NaN through should ignore Err explicitly.
type Climate struct {
	TempC    float32
	Humidity float32
	Err      error
}

func (c Climate) OK() bool { return c.Err == nil }

// Snapshot is everything sampled in one iteration.
type Snapshot struct {
	Climate    Climate
	DistanceCM int32
}

type Acquisition struct {
	climate ClimateSensor
	ranger  Ranger
}

func New(climate ClimateSensor, ranger Ranger) *Acquisition {
	return &Acquisition{climate: climate, ranger: ranger}
}

// Climate samples the climate sensor.
func (a *Acquisition) Climate() Climate {
	v, err := a.climate.Read()
	if err != nil {
		nan := float32(math.NaN())
		return Climate{TempC: nan, Humidity: nan, Err: errcode.New(errcode.SensorRead, "climate", "", err)}
	}
	return Climate{
		TempC:    float32(v.DeciC) / 10,
		Humidity: float32(v.DeciPercent) / 10,
	}
}

// Distance samples the ranger.
func (a *Acquisition) Distance() int32 { return a.ranger.ReadDistance() }

// Sample reads both sensors, climate first.
func (a *Acquisition) Sample() Snapshot {
	return Snapshot{Climate: a.Climate(), DistanceCM: a.Distance()}
}
