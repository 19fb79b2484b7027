// cmd/boardtest/main.go
//
// Bench check for a freshly wired node: no network. Samples both sensors
// every second, shows them on the LCD and prints them with memory stats.
package main

import (
	"log/slog"
	"runtime"
	"time"

	"flownix-node/internal/platform"
	"flownix-node/services/config"
	"flownix-node/services/display"
	"flownix-node/services/sensors"
	"flownix-node/x/conv"
)

const (
	samplePeriod = 1 * time.Second
	statusEvery  = 10 // samples between status screens
)

func main() {
	time.Sleep(2 * time.Second)
	log := slog.New(slog.NewTextHandler(platform.DefaultConsole(), nil))

	cfg, err := config.Load(platform.DeviceName)
	if err != nil {
		log.Error("config", "err", err)
		return
	}
	board, err := platform.Setup(cfg)
	if err != nil {
		log.Error("setup", "err", err)
		return
	}
	defer board.Close()

	acq := sensors.New(board.Climate, board.Ranger)
	lcd := display.New(board.LCD, cfg.LCD.Cols)
	lcd.Status("Board test", platform.DeviceName)
	time.Sleep(time.Second)

	tick := time.NewTicker(samplePeriod)
	defer tick.Stop()

	var fails int
	for n := 1; ; n++ {
		snap := acq.Sample()
		if !snap.Climate.OK() {
			fails++
		}
		if n%statusEvery == 0 {
			lcd.Status("Samples "+num(n), "DHT fails "+num(fails))
		} else {
			lcd.Readings(snap.Climate, snap.DistanceCM)
		}
		log.Info("sample",
			"n", n,
			"temp_c", snap.Climate.TempC,
			"humidity", snap.Climate.Humidity,
			"distance_cm", snap.DistanceCM,
			"climate_err", snap.Climate.Err,
		)
		printMem(log)
		<-tick.C
	}
}

func num(n int) string {
	var b [20]byte
	return string(conv.Itoa(b[:], int64(n)))
}

// printMem logs a compact snapshot of runtime memory stats.
func printMem(log *slog.Logger) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	log.Debug("mem",
		"alloc", ms.Alloc,
		"heap_inuse", ms.HeapInuse,
		"heap_sys", ms.HeapSys,
		"mallocs", ms.Mallocs,
		"frees", ms.Frees,
	)
}
