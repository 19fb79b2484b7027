package main

import (
	"context"
	"log/slog"
	"time"

	"flownix-node/internal/platform"
	"flownix-node/services/config"
	"flownix-node/services/display"
	"flownix-node/services/monitor"
	"flownix-node/services/sensors"
	"flownix-node/services/uploader"
	"flownix-node/x/timex"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)

	log := slog.New(slog.NewTextHandler(platform.DefaultConsole(), &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("boot", "device", platform.DeviceName)

	cfg, err := config.Load(platform.DeviceName)
	if err != nil {
		halt(log, "config", err)
	}
	board, err := platform.Setup(cfg)
	if err != nil {
		halt(log, "setup", err)
	}
	defer board.Close()

	clk := timex.System{}
	up := uploader.New(uploader.Config{
		Host:       cfg.Backend.Host,
		Path:       cfg.Backend.Path,
		Attempts:   cfg.Backend.Attempts,
		Timeout:    timex.Ms(cfg.Backend.TimeoutMs),
		RetryBase:  timex.Ms(cfg.Timing.RetryBaseMs),
		BeginRetry: timex.Ms(cfg.Timing.BeginRetryMs),
	}, log, clk.Sleep)

	svc := monitor.New(monitor.ConfigFrom(cfg), monitor.Deps{
		Clock:    clk,
		Sensors:  sensors.New(board.Climate, board.Ranger),
		Screen:   display.New(board.LCD, cfg.LCD.Cols),
		Uploader: up,
		Link:     board.Link,
	}, log)

	ctx := context.Background()
	if err := svc.Boot(ctx); err != nil {
		halt(log, "boot", err)
	}
	_ = svc.Run(ctx)
}

// halt logs a fatal start-up error and parks; there is nothing to restart.
func halt(log *slog.Logger, stage string, err error) {
	for {
		log.Error("halted", "stage", stage, "err", err)
		time.Sleep(10 * time.Second)
	}
}
