//go:build !(rp2040 || rp2350) && !(linux && arm64)

package platform

import (
	"io"
	"os"

	"flownix-node/services/display"
	"flownix-node/services/network"
	"flownix-node/types"
)

const DeviceName = "host"

// Simulated readings for host builds.
var (
	SimClimate  = types.ClimateValue{DeciC: 235, DeciPercent: 450}
	SimDistance = int32(57)
)

// Setup returns a simulated board on the OS network stack. The LCD is an
// in-memory screen; Screen exposes it for inspection.
func Setup(cfg types.NodeConfig) (*Board, error) {
	if err := checkPins(cfg.Pins, 28); err != nil {
		return nil, err
	}
	lcd := display.NewMemory(cfg.LCD.Cols, cfg.LCD.Rows)
	return &Board{
		Climate: &simSensor{v: SimClimate},
		Ranger:  &simRanger{cm: SimDistance},
		LCD:     lcd,
		Link:    &network.OSLink{},
		Console: DefaultConsole(),
	}, nil
}

// Screen returns the in-memory LCD of a host board.
func Screen(b *Board) (*display.Memory, bool) {
	m, ok := b.LCD.(*display.Memory)
	return m, ok
}

type simSensor struct{ v types.ClimateValue }

func (s *simSensor) Read() (types.ClimateValue, error) { return s.v, nil }

type simRanger struct{ cm int32 }

func (r *simRanger) ReadDistance() int32 { return r.cm }

func DefaultConsole() io.Writer { return os.Stdout }
