// Package monitor is the node's control loop: boot once, then sample, render
// and, every upload interval, send temperature and distance to the backend.
// Everything runs on the caller's goroutine; every wait blocks it.
package monitor

import (
	"context"
	"log/slog"
	"net/netip"
	"time"

	"flownix-node/services/network"
	"flownix-node/services/sensors"
	"flownix-node/types"
	"flownix-node/x/timex"
)

// Status messages, 16 columns max.
const (
	msgBoot       = "Flownix system"
	msgStarting   = "Starting..."
	msgConnecting = "Connecting WiFi"
	msgConnected  = "WiFi connected"
	msgSending    = "Sending data..."
	msgSentOK     = "Data sent OK!"
	msgSendFailed = "Send failed!"
)

type Sampler interface {
	Sample() sensors.Snapshot
}

type Screen interface {
	Status(a, b string)
	Readings(c sensors.Climate, distanceCM int32)
	Clear()
}

type Uploader interface {
	SetTarget(ap netip.AddrPort)
	Warmup(ctx context.Context)
	PostValue(ctx context.Context, sensorID string, value float32) bool
}

// Config is the loop's slice of the node configuration.
type Config struct {
	SSID       string
	Passphrase string
	Host       string
	Fallback   netip.Addr

	TemperatureID string
	WaterLevelID  string

	UploadInterval time.Duration
	LoopPace       time.Duration
	BetweenUploads time.Duration
	StatusHold     time.Duration
	BootHold       time.Duration
	WiFiPoll       time.Duration
}

// ConfigFrom derives the loop config from a loaded (validated) node config.
func ConfigFrom(c types.NodeConfig) Config {
	fb, _ := netip.ParseAddr(c.Backend.Fallback)
	return Config{
		SSID:           c.WiFi.SSID,
		Passphrase:     c.WiFi.Passphrase,
		Host:           c.Backend.Host,
		Fallback:       fb,
		TemperatureID:  c.Sensors.Temperature,
		WaterLevelID:   c.Sensors.WaterLevel,
		UploadInterval: timex.Ms(c.Timing.UploadIntervalMs),
		LoopPace:       timex.Ms(c.Timing.LoopPaceMs),
		BetweenUploads: timex.Ms(c.Timing.BetweenUploadsMs),
		StatusHold:     timex.Ms(c.Timing.StatusHoldMs),
		BootHold:       timex.Ms(c.Timing.BootHoldMs),
		WiFiPoll:       timex.Ms(c.WiFi.PollMs),
	}
}

// Deps are the peripherals and clients the loop drives.
type Deps struct {
	Clock    timex.Clock
	Sensors  Sampler
	Screen   Screen
	Uploader Uploader
	Link     network.Link
}

// Session is the process-lifetime connection state owned by the loop.
type Session struct {
	Net        network.State
	LastUpload time.Time
	Cycles     int
	Failures   int
}

// TickResult reports what one iteration did.
type TickResult struct {
	Snapshot sensors.Snapshot
	Uploaded bool
	TempOK   bool
	WaterOK  bool
}

type Service struct {
	cfg  Config
	deps Deps
	log  *slog.Logger
	sess Session
}

// New creates the loop. The upload interval is measured from now, so the
// first upload happens one interval after boot.
func New(cfg Config, deps Deps, log *slog.Logger) *Service {
	if deps.Clock == nil {
		deps.Clock = timex.System{}
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Service{cfg: cfg, deps: deps, log: log}
	s.sess.LastUpload = deps.Clock.Now()
	return s
}

func (s *Service) Session() Session { return s.sess }

// Boot shows the boot screens, associates (blocking, no timeout), resolves
// the backend with literal fallback, warms the server up and clears the
// screen.
func (s *Service) Boot(ctx context.Context) error {
	clk := s.deps.Clock
	s.deps.Screen.Status(msgBoot, msgStarting)
	clk.Sleep(s.cfg.BootHold)

	s.deps.Screen.Status(msgConnecting, s.cfg.SSID)
	if err := network.Associate(ctx, s.deps.Link, s.cfg.SSID, s.cfg.Passphrase, s.cfg.WiFiPoll, clk.Sleep, s.log); err != nil {
		return err
	}
	local, err := s.deps.Link.LocalAddr()
	if err != nil {
		s.log.Warn("[WiFi] no local address", "err", err)
	}
	s.sess.Net.Local = local
	s.log.Info("[WiFi] connected", "ssid", s.cfg.SSID, "ip", addrText(local))
	s.deps.Screen.Status(msgConnected, addrText(local))
	clk.Sleep(s.cfg.BootHold)

	s.sess.Net.Backend, s.sess.Net.Fallback = network.ResolveBackend(s.deps.Link, s.cfg.Host, s.cfg.Fallback, s.log)
	s.deps.Uploader.SetTarget(netip.AddrPortFrom(s.sess.Net.Backend, 0))

	s.deps.Uploader.Warmup(ctx)
	s.deps.Screen.Clear()
	return nil
}

// Tick runs one iteration without the trailing pace delay.
func (s *Service) Tick(ctx context.Context) TickResult {
	snap := s.deps.Sensors.Sample()
	if err := snap.Climate.Err; err != nil {
		// NaN goes to the screen and the backend as is.
		s.log.Debug("[DHT] read failed", "err", err)
	}
	s.deps.Screen.Readings(snap.Climate, snap.DistanceCM)

	res := TickResult{Snapshot: snap}
	if !timex.Reached(s.sess.LastUpload, s.deps.Clock.Now(), s.cfg.UploadInterval) {
		return res
	}

	res.Uploaded = true
	s.deps.Screen.Status(msgSending, "")
	res.TempOK = s.deps.Uploader.PostValue(ctx, s.cfg.TemperatureID, snap.Climate.TempC)
	s.deps.Clock.Sleep(s.cfg.BetweenUploads)
	res.WaterOK = s.deps.Uploader.PostValue(ctx, s.cfg.WaterLevelID, float32(snap.DistanceCM))

	s.sess.Cycles++
	if res.TempOK && res.WaterOK {
		s.deps.Screen.Status(msgSentOK, "")
	} else {
		s.sess.Failures++
		s.deps.Screen.Status(msgSendFailed, "")
	}
	s.log.Info("[UPLOAD] cycle", "temperature_ok", res.TempOK, "water_ok", res.WaterOK, "cycles", s.sess.Cycles, "failures", s.sess.Failures)

	s.sess.LastUpload = s.deps.Clock.Now()
	s.deps.Clock.Sleep(s.cfg.StatusHold)
	s.deps.Screen.Clear()
	return res
}

// Run ticks forever, pacing each iteration. It returns only when ctx is done.
func (s *Service) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			s.log.Info("monitor stopping")
			return err
		}
		s.Tick(ctx)
		s.deps.Clock.Sleep(s.cfg.LoopPace)
	}
}

func addrText(a netip.Addr) string {
	if !a.IsValid() {
		return ""
	}
	return a.String()
}
