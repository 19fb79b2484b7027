//go:build !rp2040 && !rp2350

// posttest runs one upload cycle from a workstation: resolve the backend
// (with the literal fallback), warm it up and POST one reading per sensor.
//
//	go run ./cmd/posttest -temp 21.5 -water 40
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/netip"
	"os"
	"time"

	"flownix-node/services/config"
	"flownix-node/services/network"
	"flownix-node/services/uploader"
	"flownix-node/types"
	"flownix-node/x/timex"
)

func main() {
	var (
		device   = flag.String("device", "host", "embedded config to load")
		host     = flag.String("host", "", "backend host (overrides config)")
		fallback = flag.String("fallback", "", "literal backend IP when DNS fails (overrides config)")
		temp     = flag.Float64("temp", 23.5, "temperature value to send")
		water    = flag.Int("water", 57, "water level in cm to send")
		attempts = flag.Int("attempts", 0, "attempts per reading, 0 uses config")
		timeout  = flag.Duration("timeout", 0, "per attempt timeout, 0 uses config")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*device)
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(2)
	}
	if *host != "" {
		cfg.Backend.Host = *host
	}
	if *fallback != "" {
		cfg.Backend.Fallback = *fallback
	}
	if *attempts > 0 {
		cfg.Backend.Attempts = *attempts
	}
	if *timeout > 0 {
		cfg.Backend.TimeoutMs = int(timeout.Milliseconds())
	}
	if err := config.Validate(cfg); err != nil {
		log.Error("config", "err", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fb, _ := netip.ParseAddr(cfg.Backend.Fallback)
	st, err := network.Bringup(ctx, &network.OSLink{}, cfg.WiFi.SSID, cfg.WiFi.Passphrase,
		cfg.Backend.Host, fb, timex.Ms(cfg.WiFi.PollMs), time.Sleep, log)
	if err != nil {
		log.Error("network", "err", err)
		os.Exit(1)
	}

	up := uploader.New(uploader.Config{
		Host:       cfg.Backend.Host,
		Path:       cfg.Backend.Path,
		Attempts:   cfg.Backend.Attempts,
		Timeout:    timex.Ms(cfg.Backend.TimeoutMs),
		RetryBase:  timex.Ms(cfg.Timing.RetryBaseMs),
		BeginRetry: timex.Ms(cfg.Timing.BeginRetryMs),
	}, log, time.Sleep)
	up.SetTarget(netip.AddrPortFrom(st.Backend, 0))
	log.Info("target", "addr", up.Target().String(), "url", up.URL(), "fallback", st.Fallback)
	up.Warmup(ctx)

	failed := false
	for _, r := range []types.Reading{
		{SensorID: cfg.Sensors.Temperature, Kind: types.KindTemperature, Value: float32(*temp)},
		{SensorID: cfg.Sensors.WaterLevel, Kind: types.KindWaterLevel, Value: float32(*water)},
	} {
		res := up.Post(ctx, r)
		log.Info("result", "kind", string(r.Kind), "sensor", r.SensorID, "ok", res.OK, "status", res.Status, "attempts", res.Attempts, "err", res.Err)
		failed = failed || !res.OK
	}
	if failed {
		os.Exit(1)
	}
}
