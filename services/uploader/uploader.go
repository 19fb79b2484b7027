// Package uploader posts single readings to the backend over HTTPS.
//
// Each attempt builds a fresh transport (no connection reuse), skips
// certificate verification and dials the pre-resolved backend address. The
// logical host name travels only in the Host header; the TLS handshake
// carries no server name. A reading that cannot be delivered in the allowed attempts is dropped.
package uploader

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"flownix-node/errcode"
	"flownix-node/types"
	"flownix-node/x/mathx"
)

const (
	maxRespLog = 512
	opPost     = "post"
)

// Config controls the upload path. Zero fields take defaults.
type Config struct {
	Host string // virtual host: Host header, warmup URL
	Path string // default /api/SensorReading

	Attempts   int           // default 2
	Timeout    time.Duration // per attempt I/O, default 60 s
	RetryBase  time.Duration // wait before attempt n is RetryBase*n, default 1200 ms
	BeginRetry time.Duration // wait after a request that could not start, default 700 ms

	// DialContext overrides how connections are opened. Nil uses the
	// platform's default dialer.
	DialContext func(ctx context.Context, network, addr string) (net.Conn, error)
}

// Result describes one PostValue call.
type Result struct {
	OK       bool
	Attempts int
	Status   int // last HTTP status, 0 if none was received
	Err      error
}

type Client struct {
	cfg    Config
	log    *slog.Logger
	sleep  func(time.Duration)
	target netip.AddrPort
}

// New creates a client. sleep is the blocking delay used between attempts
// (time.Sleep on the device).
func New(cfg Config, log *slog.Logger, sleep func(time.Duration)) *Client {
	if cfg.Path == "" {
		cfg.Path = "/api/SensorReading"
	}
	cfg.Attempts = mathx.Max(cfg.Attempts, 1)
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 1200 * time.Millisecond
	}
	if cfg.BeginRetry <= 0 {
		cfg.BeginRetry = 700 * time.Millisecond
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{cfg: cfg, log: log, sleep: sleep}
}

// SetTarget sets the resolved backend address. Port 0 means 443.
func (c *Client) SetTarget(ap netip.AddrPort) { c.target = ap }

// Target returns the address uploads are sent to.
func (c *Client) Target() netip.AddrPort { return c.target }

// URL returns the POST URL built from the target address.
func (c *Client) URL() string {
	return "https://" + hostPort(c.target) + c.cfg.Path
}

// PostValue uploads one reading and reports whether the backend acknowledged
// it with a 2xx status.
func (c *Client) PostValue(ctx context.Context, sensorID string, value float32) bool {
	return c.Post(ctx, types.Reading{SensorID: sensorID, Value: value}).OK
}

// Post uploads r. Retry policy:
//   - request could not be started: wait BeginRetry, the attempt is used up;
//   - started but no HTTP status (transport error): wait RetryBase*n before
//     attempt n;
//   - HTTP status received: done, OK iff 2xx.
func (c *Client) Post(ctx context.Context, r types.Reading) Result {
	body, err := json.Marshal(r.Body())
	if err != nil {
		return Result{Err: errcode.New(errcode.Error, opPost, "encode", err)}
	}
	c.log.Info("[HTTP] Payload", "body", string(body))

	var res Result
	for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
		res.Attempts = attempt
		status, err := c.attempt(ctx, body)
		switch {
		case status > 0:
			res.Status = status
			res.OK = status >= 200 && status < 300
			res.Err = nil
			if !res.OK {
				res.Err = errcode.New(errcode.HTTPStatus, opPost, strconv.Itoa(status), nil)
			}
			return res
		case errcode.Of(err) == errcode.ConnectFailed:
			res.Err = err
			c.log.Error("[HTTP] Begin failed", "attempt", attempt, "code", errcode.Of(err), "err", err)
			c.sleep(c.cfg.BeginRetry)
		default:
			res.Err = err
			c.log.Error("[HTTP] Error", "attempt", attempt, "code", errcode.Of(err), "err", err)
			// The backoff only spaces attempts; after the last one the
			// reading is dropped at once.
			if attempt < c.cfg.Attempts {
				c.sleep(c.cfg.RetryBase * time.Duration(attempt+1))
			}
		}
		if ctx.Err() != nil {
			return res
		}
	}
	return res
}

// attempt performs one POST. It returns the HTTP status when one was
// received; otherwise the error is classified ConnectFailed or RequestFailed.
func (c *Client) attempt(ctx context.Context, body []byte) (int, error) {
	if !c.target.IsValid() {
		return 0, errcode.New(errcode.ConnectFailed, opPost, "no backend address", nil)
	}
	url := c.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, errcode.New(errcode.ConnectFailed, opPost, url, err)
	}
	req.Host = c.cfg.Host
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Connection", "close")
	req.Close = true

	// No SNI: the handshake goes to the bare address and only the Host
	// header names the backend.
	hc, done := c.httpClient("")
	defer done()

	c.log.Info("[HTTP] POST", "url", url)
	resp, err := hc.Do(req)
	if err != nil {
		code := errcode.RequestFailed
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			code = errcode.Timeout
		}
		return 0, errcode.New(code, opPost, url, err)
	}
	defer resp.Body.Close()

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxRespLog))
	c.log.Info("[HTTP] Code", "status", resp.StatusCode)
	c.log.Info("[HTTP] Resp", "body", string(msg))
	return resp.StatusCode, nil
}

// Warmup issues one GET to https://<host>/ so the backend and the TLS path
// are awake before the first upload. The outcome is ignored.
func (c *Client) Warmup(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+c.cfg.Host+"/", nil)
	if err != nil {
		return
	}
	hc, done := c.httpClient(c.cfg.Host)
	defer done()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug("[HTTP] Warmup failed", "err", err)
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxRespLog))
	_ = resp.Body.Close()
	c.log.Debug("[HTTP] Warmup", "status", resp.StatusCode)
}

// httpClient returns a single-use client and its release func. An empty
// serverName sends no SNI.
func (c *Client) httpClient(serverName string) (*http.Client, func()) {
	tr := &http.Transport{
		// The device has no trust store; any server certificate is accepted.
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: true, ServerName: serverName},
		DisableKeepAlives:     true,
		DialContext:           c.cfg.DialContext,
		TLSHandshakeTimeout:   c.cfg.Timeout,
		ResponseHeaderTimeout: c.cfg.Timeout,
	}
	hc := &http.Client{
		Transport: tr,
		Timeout:   c.cfg.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return hc, tr.CloseIdleConnections
}

func hostPort(ap netip.AddrPort) string {
	if !ap.IsValid() {
		return ""
	}
	if ap.Port() == 0 || ap.Port() == 443 {
		if ap.Addr().Is6() {
			return "[" + ap.Addr().String() + "]"
		}
		return ap.Addr().String()
	}
	return ap.String()
}
